package controller

import (
	"github.com/yhubail/graphql/internal/middleware"
	"github.com/yhubail/graphql/internal/service"
	"github.com/yhubail/graphql/internal/util"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	ProfileService *service.ProfileService
}

func NewProfileController(profileService *service.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// @Summary 获取聚合档案指标
// @Description 抓取上游原始档案并聚合为总XP、等级、审计比例、时间线等指标
// @Tags 档案
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	token := middleware.GetTokenFromContext(ctx)

	metrics, err := c.ProfileService.GetMetrics(ctx.Request.Context(), token)
	if err != nil {
		mapFetchError(ctx, err)
		return
	}

	util.Success(ctx, metrics)
}
