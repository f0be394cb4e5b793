package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Module    ModuleConfig    `mapstructure:"module"`
	Chart     ChartConfig     `mapstructure:"chart"`
	Session   SessionConfig   `mapstructure:"session"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string
	Mode string
}

// UpstreamConfig 上游学习平台的认证与GraphQL入口
type UpstreamConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	SigninPath      string        `mapstructure:"signin_path"`
	GraphQLPath     string        `mapstructure:"graphql_path"`
	Timeout         time.Duration `mapstructure:"timeout_seconds"`
	XPOriginEventID int           `mapstructure:"xp_origin_event_id"`
}

// ModuleConfig 模块项目过滤器的命名空间前缀。
// 前缀编码的是外部课程体系，不是通用规则，所以走配置而不是硬编码。
type ModuleConfig struct {
	PathPrefix string `mapstructure:"path_prefix"`
}

type ChartConfig struct {
	Width         float64  `mapstructure:"width"`
	Height        float64  `mapstructure:"height"`
	Palette       []string `mapstructure:"palette"`
	LegendRowH    float64  `mapstructure:"legend_row_height"`
	DonutHoleFrac float64  `mapstructure:"donut_hole_fraction"`
	MinLabelShare float64  `mapstructure:"min_label_share"`
}

type SessionConfig struct {
	Store string        `mapstructure:"store"` // memory | redis
	TTL   time.Duration `mapstructure:"ttl_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"` // local | minio
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// DefaultPalette 固定有序调色板，图表按索引取模循环
var DefaultPalette = []string{
	"#6366f1", "#22c55e", "#f59e0b", "#ef4444", "#06b6d4",
	"#a855f7", "#84cc16", "#f97316", "#ec4899", "#14b8a6",
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("GRAPHQL_DASH")
	viper.AutomaticEnv()

	// Upstream
	viper.BindEnv("upstream.base_url", "UPSTREAM_BASE_URL")
	viper.BindEnv("upstream.signin_path", "UPSTREAM_SIGNIN_PATH")
	viper.BindEnv("upstream.graphql_path", "UPSTREAM_GRAPHQL_PATH")

	// Module
	viper.BindEnv("module.path_prefix", "MODULE_PATH_PREFIX")

	// Session / Redis
	viper.BindEnv("session.store", "SESSION_STORE")
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Upstream.Timeout = cfg.Upstream.Timeout * time.Second
	cfg.Session.TTL = cfg.Session.TTL * time.Hour

	applyDefaults(&cfg)

	if cfg.Upstream.BaseURL == "" {
		return nil, fmt.Errorf("upstream.base_url is required")
	}
	if !strings.HasPrefix(cfg.Module.PathPrefix, "/") {
		return nil, fmt.Errorf("module.path_prefix must start with '/', got %q", cfg.Module.PathPrefix)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Upstream.SigninPath == "" {
		cfg.Upstream.SigninPath = "/api/auth/signin"
	}
	if cfg.Upstream.GraphQLPath == "" {
		cfg.Upstream.GraphQLPath = "/api/graphql-engine/v1/graphql"
	}
	if cfg.Upstream.Timeout <= 0 {
		cfg.Upstream.Timeout = 15 * time.Second
	}
	if cfg.Upstream.XPOriginEventID == 0 {
		cfg.Upstream.XPOriginEventID = 20
	}
	if cfg.Module.PathPrefix == "" {
		cfg.Module.PathPrefix = "/bahrain/bh-module"
	}
	if cfg.Chart.Width <= 0 {
		cfg.Chart.Width = 600
	}
	if cfg.Chart.Height <= 0 {
		cfg.Chart.Height = 300
	}
	if len(cfg.Chart.Palette) == 0 {
		cfg.Chart.Palette = DefaultPalette
	}
	if cfg.Chart.LegendRowH <= 0 {
		cfg.Chart.LegendRowH = 28
	}
	if cfg.Chart.DonutHoleFrac <= 0 || cfg.Chart.DonutHoleFrac >= 1 {
		cfg.Chart.DonutHoleFrac = 0.55
	}
	if cfg.Chart.MinLabelShare <= 0 {
		cfg.Chart.MinLabelShare = 0.03
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = "memory"
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 24 * time.Hour
	}
	if cfg.RateLimit.MaxRequests <= 0 {
		cfg.RateLimit.MaxRequests = 600
	}
	if cfg.RateLimit.WindowMinutes <= 0 {
		cfg.RateLimit.WindowMinutes = 1
	}
}
