package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yhubail/graphql/internal/config"
	"github.com/yhubail/graphql/internal/controller"
	"github.com/yhubail/graphql/internal/repository"
	"github.com/yhubail/graphql/internal/service"
	"github.com/yhubail/graphql/internal/util"
	"github.com/yhubail/graphql/pkg/database"
	"github.com/yhubail/graphql/pkg/logger"
	"github.com/yhubail/graphql/pkg/monitoring"
	"github.com/yhubail/graphql/pkg/security"
	"github.com/yhubail/graphql/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	Redis           *redis.Client
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	profile *repository.ProfileRepository
	session *repository.SessionRepository
}

type services struct {
	auth       *service.AuthService
	aggregator *service.AggregatorService
	profile    *service.ProfileService
	chart      *service.ChartService
	storage    *service.StorageService
}

type controllers struct {
	auth    *controller.AuthController
	profile *controller.ProfileController
	chart   *controller.ChartController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置热更新入口，由configwatcher调用
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(rdb *redis.Client) *repositories {
	return &repositories{
		profile: repository.NewProfileRepository(&a.Config.Upstream),
		session: repository.NewSessionRepository(a.Config, rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.profile, repos.session)
	s.aggregator = service.NewAggregatorService(&cfg.Module)
	s.profile = service.NewProfileService(repos.profile, s.aggregator)
	s.chart = service.NewChartService(&cfg.Chart)
	s.storage = service.NewStorageService(cfg)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		profile: controller.NewProfileController(s.profile),
		chart:   controller.NewChartController(s.profile, s.chart, s.storage, a.Config),
		health:  controller.NewHealthController(),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(
		cfg.RateLimit.MaxRequests,
		time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute,
	))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	app := &App{
		Config: cfg,
	}

	if cfg.Session.Store == util.SessionRedis {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
			log.Fatalf("Failed to initialize redis: %v", err)
		}
		app.Redis = rdb
	}

	repos := app.initRepositories(app.Redis)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("graphql-dashboard", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers, services)

	// 本地存储的导出文件直接静态暴露
	if cfg.Storage.Type == util.StorageLocal && cfg.Storage.LocalPath != "" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, os.ModePerm)
		}
		router.Static("/exports", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}
