package app

import (
	"github.com/yhubail/graphql/docs"
	"github.com/yhubail/graphql/internal/middleware"
	"github.com/yhubail/graphql/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/signin", c.auth.Signin)
		public.POST("/auth/signout", c.auth.Signout)
	}

	// 需要授权的路由：令牌来自请求头或凭证存储
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(s.auth))
	{
		authGroup.GET("/profile", c.profile.GetProfile)

		charts := authGroup.Group("/charts")
		{
			charts.GET("", c.chart.ListCharts)
			charts.GET("/:chart", c.chart.GetChart)
			charts.POST("/:chart/export", c.chart.ExportChart)
		}
	}
}
