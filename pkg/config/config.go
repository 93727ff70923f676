// Package config 提供 TOML 配置加载、.env 与环境变量覆盖、schema 校验
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/wyfcoding/bsintuition/pkg/logger"
)

// EnvPrefix 环境变量前缀，例如 APP_HTTP_PORT
const EnvPrefix = "APP"

// Config 服务配置
type Config struct {
	// 服务名称
	ServiceName string `mapstructure:"service_name"`
	// 服务版本
	Version string `mapstructure:"version"`
	// 环境：dev, staging, prod
	Environment string `mapstructure:"environment"`
	// HTTP 服务配置
	HTTP HTTPConfig `mapstructure:"http"`
	// gRPC 服务配置
	GRPC GRPCConfig `mapstructure:"grpc"`
	// 日志配置
	Logger LoggerConfig `mapstructure:"logger"`
	// 指标配置
	Metrics MetricsConfig `mapstructure:"metrics"`
	// 限流配置
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	// 定价配置
	Pricing PricingConfig `mapstructure:"pricing"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// 读超时（秒）
	ReadTimeout int `mapstructure:"read_timeout"`
	// 写超时（秒）
	WriteTimeout int `mapstructure:"write_timeout"`
}

// GRPCConfig gRPC 服务配置
type GRPCConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// 最大并发流数
	MaxConcurrentStreams int `mapstructure:"max_concurrent_streams"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	WithCaller bool   `mapstructure:"with_caller"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	// 是否启用
	Enabled bool `mapstructure:"enabled"`
	// Prometheus 独立监听端口，0 表示仅挂在 HTTP 服务上
	Port int `mapstructure:"port"`
	// 指标路径
	Path string `mapstructure:"path"`
}

// RateLimitConfig 令牌桶限流配置
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	QPS     float64 `mapstructure:"qps"`
	Burst   int     `mapstructure:"burst"`
}

// PricingConfig 定价服务配置
type PricingConfig struct {
	// 价格缓存条目上限
	CacheSize int `mapstructure:"cache_size"`
	// 曲面网格大小上限
	MaxGridSize int `mapstructure:"max_grid_size"`
	// 界面默认参数
	Defaults PricingDefaults `mapstructure:"defaults"`
}

// PricingDefaults 请求缺省字段的默认值
type PricingDefaults struct {
	// 到期时间（天）
	ExpirationTime  float64 `mapstructure:"expiration_time"`
	PriceUnderlying float64 `mapstructure:"price_underlying"`
	Strike          float64 `mapstructure:"strike"`
	RiskFreeRate    float64 `mapstructure:"risk_free_rate"`
	Volatility      float64 `mapstructure:"volatility"`
	DriftRate       float64 `mapstructure:"drift_rate"`
	Kind            string  `mapstructure:"kind"`
	// 曲面波动率半宽
	VolatilityRange float64 `mapstructure:"volatility_range"`
	GridSize        int     `mapstructure:"grid_size"`
}

// ToLogger 转换为 logger.Config
func (c LoggerConfig) ToLogger() logger.Config {
	return logger.Config{
		Level:      c.Level,
		Format:     c.Format,
		Output:     c.Output,
		FilePath:   c.FilePath,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
		WithCaller: c.WithCaller,
	}
}

// Load 加载配置：默认值 < TOML 文件 < .env < 环境变量
// configPath 为空时只使用默认值与环境变量；文件不存在时报错
func Load(configPath string) (*Config, error) {
	// .env 不存在是常态
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Default 返回仅包含默认值的配置
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// 默认值总能解析
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	if c.GRPC.Port <= 0 || c.GRPC.Port > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPC.Port)
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("invalid metrics port: %d", c.Metrics.Port)
	}
	if c.RateLimit.Enabled && (c.RateLimit.QPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate_limit qps and burst must be positive when enabled")
	}
	if c.Pricing.CacheSize <= 0 {
		return fmt.Errorf("pricing.cache_size must be positive: %d", c.Pricing.CacheSize)
	}
	if c.Pricing.MaxGridSize < 1 {
		return fmt.Errorf("pricing.max_grid_size must be at least 1: %d", c.Pricing.MaxGridSize)
	}
	d := c.Pricing.Defaults
	// 偶数网格会调整为下一个奇数
	if d.GridSize < 1 || d.GridSize-d.GridSize%2+1 > c.Pricing.MaxGridSize {
		return fmt.Errorf("pricing.defaults.grid_size %d out of range [1, %d]", d.GridSize, c.Pricing.MaxGridSize)
	}
	if d.VolatilityRange < 0 {
		return fmt.Errorf("pricing.defaults.volatility_range must be non-negative: %v", d.VolatilityRange)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "pricing")
	v.SetDefault("version", "dev")
	v.SetDefault("environment", "dev")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 30)
	v.SetDefault("http.write_timeout", 30)

	v.SetDefault("grpc.host", "0.0.0.0")
	v.SetDefault("grpc.port", 50051)
	v.SetDefault("grpc.max_concurrent_streams", 1000)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/app.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 0)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.qps", 200.0)
	v.SetDefault("rate_limit.burst", 400)

	v.SetDefault("pricing.cache_size", 4096)
	v.SetDefault("pricing.max_grid_size", 51)
	v.SetDefault("pricing.defaults.expiration_time", 365.25)
	v.SetDefault("pricing.defaults.price_underlying", 100.0)
	v.SetDefault("pricing.defaults.strike", 100.0)
	v.SetDefault("pricing.defaults.risk_free_rate", 0.05)
	v.SetDefault("pricing.defaults.volatility", 0.10)
	v.SetDefault("pricing.defaults.drift_rate", 0.0)
	v.SetDefault("pricing.defaults.kind", "Call")
	v.SetDefault("pricing.defaults.volatility_range", 0.05)
	v.SetDefault("pricing.defaults.grid_size", 11)
}
