package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yhubail/graphql/internal/config"
	"github.com/yhubail/graphql/internal/middleware"
	"github.com/yhubail/graphql/internal/model"
	"github.com/yhubail/graphql/internal/service"
	"github.com/yhubail/graphql/internal/util"
	"github.com/yhubail/graphql/pkg/svg"

	"github.com/gin-gonic/gin"
)

type ChartController struct {
	ProfileService *service.ProfileService
	ChartService   *service.ChartService
	StorageService *service.StorageService
	Cfg            *config.Config
}

func NewChartController(
	profileService *service.ProfileService,
	chartService *service.ChartService,
	storageService *service.StorageService,
	cfg *config.Config,
) *ChartController {
	return &ChartController{
		ProfileService: profileService,
		ChartService:   chartService,
		StorageService: storageService,
		Cfg:            cfg,
	}
}

// @Summary 图表列表
// @Tags 图表
// @Produce json
// @Success 200 {object} util.Response
// @Router /charts [get]
func (c *ChartController) ListCharts(ctx *gin.Context) {
	util.Success(ctx, gin.H{"charts": service.ChartNames()})
}

// @Summary 获取图表场景
// @Description 抓取档案、聚合并生成指定图表的几何场景；format=svg 时直接返回渲染后的SVG
// @Tags 图表
// @Produce json
// @Security BearerAuth
// @Param chart path string true "图表名" Enums(xp-distribution, timeline, audit-ratio, pass-fail, categories, module-projects)
// @Param width query number false "视口宽度"
// @Param height query number false "视口高度"
// @Param format query string false "json 或 svg"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /charts/{chart} [get]
func (c *ChartController) GetChart(ctx *gin.Context) {
	scene, ok := c.buildScene(ctx)
	if !ok {
		return
	}

	if ctx.Query("format") == "svg" {
		ctx.Data(http.StatusOK, util.MimeSVG, []byte(svg.Render(scene)))
		return
	}
	util.Success(ctx, scene)
}

// @Summary 导出图表快照
// @Description 渲染SVG并上传到配置的存储后端，返回可访问的URL
// @Tags 图表
// @Produce json
// @Security BearerAuth
// @Param chart path string true "图表名"
// @Success 200 {object} util.Response
// @Router /charts/{chart}/export [post]
func (c *ChartController) ExportChart(ctx *gin.Context) {
	scene, ok := c.buildScene(ctx)
	if !ok {
		return
	}

	doc := svg.Render(scene)
	filename := fmt.Sprintf("charts/%s-%s.svg", scene.Name, time.Now().UTC().Format("20060102-150405"))

	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, strings.NewReader(doc), int64(len(doc)), util.MimeSVG)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url, "filename": filename})
}

func (c *ChartController) buildScene(ctx *gin.Context) (*model.Scene, bool) {
	token := middleware.GetTokenFromContext(ctx)

	metrics, err := c.ProfileService.GetMetrics(ctx.Request.Context(), token)
	if err != nil {
		mapFetchError(ctx, err)
		return nil, false
	}

	vp := model.Viewport{
		Width:  util.ParseFloatDefault(ctx.Query("width"), c.Cfg.Chart.Width),
		Height: util.ParseFloatDefault(ctx.Query("height"), c.Cfg.Chart.Height),
	}

	scene, err := c.ChartService.BuildScene(ctx.Param("chart"), metrics, vp)
	if err != nil {
		if errors.Is(err, util.ErrUnknownChart) {
			util.NotFound(ctx)
			return nil, false
		}
		mapFetchError(ctx, err)
		return nil, false
	}
	return scene, true
}
