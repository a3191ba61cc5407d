package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "seatwise/internal/shared/config"
)

type Config struct {
	Server               sharedConfig.ServerConfig               `mapstructure:"server"`
	Database             sharedConfig.DatabaseConfig             `mapstructure:"database"`
	Logger               sharedConfig.LoggerConfig               `mapstructure:"logger"`
	Auth                 sharedConfig.AuthConfig                 `mapstructure:"auth"`
	Redis                sharedConfig.RedisConfig                `mapstructure:"redis"`
	Coverage             sharedConfig.CoverageConfig             `mapstructure:"coverage"`
	SubscriptionProvider sharedConfig.SubscriptionProviderConfig `mapstructure:"subscription_provider"`
	Scheduler            sharedConfig.SchedulerConfig            `mapstructure:"scheduler"`
	Business             sharedConfig.BusinessConfig             `mapstructure:"business"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("SEATWISE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.driver", "mysql")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "seatwise_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Auth defaults
	viper.SetDefault("auth.jwt.secret", "change-me-in-production")
	viper.SetDefault("auth.jwt.access_exp_minutes", 15)

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Coverage defaults
	viper.SetDefault("coverage.catalog", []string{})
	viper.SetDefault("coverage.cache_ttl_minutes", 5)

	// Subscription provider defaults
	viper.SetDefault("subscription_provider.base_url", "http://localhost:9090")
	viper.SetDefault("subscription_provider.api_token", "")
	viper.SetDefault("subscription_provider.timeout_seconds", 10)

	// Scheduler defaults
	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.reconciliation_interval_hours", 24)
	viper.SetDefault("scheduler.seat_expiry_interval_hours", 1)

	// Business defaults
	viper.SetDefault("business.timezone", "America/New_York")
}
