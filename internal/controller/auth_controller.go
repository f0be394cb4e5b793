package controller

import (
	"errors"
	"net/http"

	"github.com/yhubail/graphql/internal/service"
	"github.com/yhubail/graphql/internal/util"
	"github.com/yhubail/graphql/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

type signinRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// @Summary 登录
// @Description 用用户名/邮箱和密码向上游平台换取Bearer令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body signinRequest true "登录凭证"
// @Success 200 {object} util.Response
// @Router /auth/signin [post]
func (c *AuthController) Signin(ctx *gin.Context) {
	var req signinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, expiresAt, err := c.AuthService.Signin(ctx.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		if err.Error() == "invalid credentials" {
			util.Error(ctx, http.StatusUnauthorized, "invalid credentials")
			return
		}
		logger.Log.Error("signin failed", zap.Error(err))
		util.Error(ctx, http.StatusBadGateway, "upstream signin failed")
		return
	}

	resp := gin.H{"token": token}
	if !expiresAt.IsZero() {
		resp["expiresAt"] = expiresAt
	}
	util.Success(ctx, resp)
}

// @Summary 登出
// @Description 清除保存的Bearer令牌
// @Tags 认证
// @Produce json
// @Success 200 {object} util.Response
// @Router /auth/signout [post]
func (c *AuthController) Signout(ctx *gin.Context) {
	if err := c.AuthService.Signout(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "signed out"})
}

// mapFetchError 统一把上游错误映射为HTTP状态。
// MissingUser 与令牌失效都要求调用方重新认证。
func mapFetchError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrMissingUser), errors.Is(err, util.ErrUnauthenticated), errors.Is(err, util.ErrNoSession):
		util.Unauthorized(ctx)
	case errors.Is(err, util.ErrInvalidMetrics):
		util.BadRequest(ctx, err.Error())
	default:
		logger.Log.Error("upstream fetch failed", zap.Error(err))
		util.Error(ctx, http.StatusBadGateway, "upstream fetch failed")
	}
}
