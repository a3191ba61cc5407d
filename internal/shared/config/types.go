// Package config defines the configuration structures shared across the application.
package config

import "fmt"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

// CoverageConfig controls coverage resolution: the full feature catalog used
// for upsell computation and the profile cache TTL.
type CoverageConfig struct {
	Catalog         []string `mapstructure:"catalog"`
	CacheTTLMinutes int      `mapstructure:"cache_ttl_minutes"`
}

// SubscriptionProviderConfig points at the external subscription service that
// owns individual coverage and per-feature charges.
type SubscriptionProviderConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIToken       string `mapstructure:"api_token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// SchedulerConfig controls the background jobs: the reconciliation scan and
// the stale seat expiry sweep.
type SchedulerConfig struct {
	Enabled                     bool `mapstructure:"enabled"`
	ReconciliationIntervalHours int  `mapstructure:"reconciliation_interval_hours"`
	SeatExpiryIntervalHours     int  `mapstructure:"seat_expiry_interval_hours"`
}

// BusinessConfig holds district-facing business settings.
type BusinessConfig struct {
	Timezone string `mapstructure:"timezone"`
}
