package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	ServerStartPort = ":8080"

	defaultConfigFile = "./config.yaml"
	envPrefix         = "DISPLAY"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Session   SessionConfig   `mapstructure:"session"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Targeting TargetingConfig `mapstructure:"targeting"`
	Display   DisplayConfig   `mapstructure:"display"`
}

type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type AnalyticsConfig struct {
	Workers      int           `mapstructure:"workers"`
	QueueSize    int           `mapstructure:"queue_size"`
	RateLimit    float64       `mapstructure:"rate_limit"`
	Burst        int           `mapstructure:"burst"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type TargetingConfig struct {
	NewCustomerWindow time.Duration `mapstructure:"new_customer_window"`
}

type DisplayConfig struct {
	MaxCarouselItems int           `mapstructure:"max_carousel_items"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "production")
	v.SetDefault("server.address", ServerStartPort)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("postgres.url", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("nats.url", "")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("analytics.workers", 4)
	v.SetDefault("analytics.queue_size", 1024)
	v.SetDefault("analytics.rate_limit", 0)
	v.SetDefault("analytics.burst", 100)
	v.SetDefault("analytics.write_timeout", 5*time.Second)
	v.SetDefault("targeting.new_customer_window", 30*24*time.Hour)
	v.SetDefault("display.max_carousel_items", 10)
	v.SetDefault("display.cache_ttl", 30*time.Second)
}

// ProvideApplicationConfig reads ./config.yaml, or the file named by
// DISPLAY_CONFIG, and applies DISPLAY_* environment overrides.
func ProvideApplicationConfig() (*Config, error) {
	path := os.Getenv(envPrefix + "_CONFIG")
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	return Load(path, explicit)
}

// Load reads the config at path. A missing file is an error only when
// required is set; defaults and environment variables still apply.
func Load(path string, required bool) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if required || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func NewLogger(appConfig *Config) *zap.Logger {

	if appConfig.App.Environment == "development" {
		logger, _ := zap.NewDevelopment()
		return logger
	}

	logger, _ := zap.NewProduction()
	return logger
}
