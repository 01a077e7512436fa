package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Business  BusinessConfig  `mapstructure:"business"`
	Health    HealthConfig    `mapstructure:"health"`
}

type ServerConfig struct {
	Port string `mapstructure:"SERVER_PORT"`
	Host string `mapstructure:"SERVER_HOST"`
	Env  string `mapstructure:"ENV"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"DATABASE_URL"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	Timezone string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	DebitFeePercent          string `mapstructure:"DEBIT_FEE_PERCENT"`
	DefaultCommissionPercent string `mapstructure:"DEFAULT_COMMISSION_PERCENT"`
	SettleTolerance          string `mapstructure:"SETTLE_TOLERANCE"`
	StatsCacheTTL            string `mapstructure:"STATS_CACHE_TTL"`
	CommissionCacheTTL       string `mapstructure:"COMMISSION_CACHE_TTL"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("DEBIT_FEE_PERCENT", "1.99")
	viper.SetDefault("DEFAULT_COMMISSION_PERCENT", "5")
	viper.SetDefault("SETTLE_TOLERANCE", "0.01")
	viper.SetDefault("STATS_CACHE_TTL", "5m")
	viper.SetDefault("COMMISSION_CACHE_TTL", "1h")
	viper.SetDefault("SCHEDULER_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if _, err := decimal.NewFromString(c.Business.DebitFeePercent); err != nil {
		return fmt.Errorf("DEBIT_FEE_PERCENT must be a valid decimal: %w", err)
	}

	if _, err := decimal.NewFromString(c.Business.DefaultCommissionPercent); err != nil {
		return fmt.Errorf("DEFAULT_COMMISSION_PERCENT must be a valid decimal: %w", err)
	}

	if _, err := decimal.NewFromString(c.Business.SettleTolerance); err != nil {
		return fmt.Errorf("SETTLE_TOLERANCE must be a valid decimal: %w", err)
	}

	if _, err := time.ParseDuration(c.Business.StatsCacheTTL); err != nil {
		return fmt.Errorf("STATS_CACHE_TTL must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Business.CommissionCacheTTL); err != nil {
		return fmt.Errorf("COMMISSION_CACHE_TTL must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetDebitFeePercent returns the fixed debit card fee as decimal
func (c *Config) GetDebitFeePercent() decimal.Decimal {
	pct, _ := decimal.NewFromString(c.Business.DebitFeePercent)
	return pct
}

// GetDefaultCommissionPercent returns the fallback commission rate for
// stores without a configured rate
func (c *Config) GetDefaultCommissionPercent() decimal.Decimal {
	pct, _ := decimal.NewFromString(c.Business.DefaultCommissionPercent)
	return pct
}

// GetSettleTolerance returns the rounding tolerance under which a debt is
// considered fully paid
func (c *Config) GetSettleTolerance() decimal.Decimal {
	tol, _ := decimal.NewFromString(c.Business.SettleTolerance)
	return tol
}

// GetStatsCacheTTL returns how long aggregate statistics stay cached
func (c *Config) GetStatsCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Business.StatsCacheTTL)
	return ttl
}

// GetCommissionCacheTTL returns how long commission lookups stay cached
func (c *Config) GetCommissionCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Business.CommissionCacheTTL)
	return ttl
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
