package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url" envconfig:"UPSTREAM_BASE_URL" validate:"required,url"`
	APIKey  string        `mapstructure:"api_key" envconfig:"UPSTREAM_API_KEY"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url" envconfig:"REDIS_URL"`
	Channel      string        `mapstructure:"channel"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

type WizardConfig struct {
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	FrameTimeout    time.Duration `mapstructure:"frame_timeout"`
}

type UploadConfig struct {
	MaxImageBytes    int64 `mapstructure:"max_image_bytes"`
	MaxDocumentBytes int64 `mapstructure:"max_document_bytes"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" envconfig:"JWT_SECRET" validate:"required,min=32"`
	ExpiryHours int    `mapstructure:"expiry_hours" validate:"gt=0"`
}

type SecurityConfig struct {
	// BcryptCost is the work factor for console password hashes. Zero means
	// the bcrypt library default.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=0"`
}

// ConsoleUser is a bootstrap console login checked against a bcrypt hash.
type ConsoleUser struct {
	Username     string `mapstructure:"username" validate:"required"`
	PasswordHash string `mapstructure:"password_hash" validate:"required"`
	Role         string `mapstructure:"role" validate:"required,oneof=lsa_admin spa_admin"`
	SpaID        string `mapstructure:"spa_id" validate:"required_if=Role spa_admin"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username" envconfig:"SMTP_USERNAME"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from"`
	OfficeTo string `mapstructure:"office_to"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool   `mapstructure:"prometheus_enabled"`
	MetricsPath       string `mapstructure:"metrics_path"`
}

type PollingConfig struct {
	DirectoryInterval    time.Duration `mapstructure:"directory_interval"`
	NotificationInterval time.Duration `mapstructure:"notification_interval"`
}

type DemoConfig struct {
	// Enabled substitutes seeded records into console views on fetch
	// failure. Never enable in production.
	Enabled bool `mapstructure:"enabled" envconfig:"DEMO_MODE"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" envconfig:"LOG_LEVEL"`
	Pretty bool   `mapstructure:"pretty"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Upstream   UpstreamConfig   `mapstructure:"upstream"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Wizard     WizardConfig     `mapstructure:"wizard"`
	Uploads    UploadConfig     `mapstructure:"uploads"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Security   SecurityConfig   `mapstructure:"security"`
	Users      []ConsoleUser    `mapstructure:"users" validate:"dive"`
	SMTP       SMTPConfig       `mapstructure:"smtp"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Polling    PollingConfig    `mapstructure:"polling"`
	Demo       DemoConfig       `mapstructure:"demo"`
	Log        LogConfig        `mapstructure:"log"`
}

// LoadConfig reads config.yaml, falls back to defaults, and lets environment
// variables override secrets for container deployments.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("portal", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.max_upload_bytes", 12<<20)
	viper.SetDefault("upstream.timeout", "15s")
	viper.SetDefault("redis.channel", "portal:events")
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.retry_backoff", "100ms")
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 2)
	viper.SetDefault("wizard.session_ttl", "45m")
	viper.SetDefault("wizard.cleanup_interval", "5m")
	viper.SetDefault("wizard.frame_timeout", "3s")
	viper.SetDefault("uploads.max_image_bytes", 2<<20)
	viper.SetDefault("uploads.max_document_bytes", 10<<20)
	viper.SetDefault("jwt.expiry_hours", 12)
	viper.SetDefault("security.bcrypt_cost", 12)
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests_per_second", 20.0)
	viper.SetDefault("rate_limit.burst", 40)
	viper.SetDefault("monitoring.prometheus_enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")
	viper.SetDefault("polling.directory_interval", "30s")
	viper.SetDefault("polling.notification_interval", "30s")
	viper.SetDefault("demo.enabled", false)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.pretty", false)
}
