package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Vault    VaultConfig    `mapstructure:"vault"`
	Insights InsightsConfig `mapstructure:"insights"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// RedisConfig holds report cache configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // seconds
}

// VaultConfig holds Vault configuration
type VaultConfig struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

// InsightsConfig holds tuning knobs for the insight engine
type InsightsConfig struct {
	BaselineAvgEarnings      float64 `mapstructure:"baseline_avg_earnings"`
	BaselineTotalUsers       int     `mapstructure:"baseline_total_users"`
	ReferralGrowthMultiplier float64 `mapstructure:"referral_growth_multiplier"`
	AchievementFallbackDays  int     `mapstructure:"achievement_fallback_days"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from file and environment variables
func Load() error {
	// Set defaults
	viper.SetDefault("server.port", "8090")
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "apexrebate")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", 300)
	viper.SetDefault("insights.baseline_avg_earnings", 250.0)
	viper.SetDefault("insights.baseline_total_users", 1000)
	viper.SetDefault("insights.referral_growth_multiplier", 1.10)
	viper.SetDefault("insights.achievement_fallback_days", 90)
	viper.SetDefault("log.level", "info")

	// Set config file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app/config") // Kubernetes ConfigMap mount path
	viper.AddConfigPath(".")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file found, defaults and environment carry the load
	}

	// Enable automatic environment variable loading
	viper.AutomaticEnv()

	// Bind specific environment variables
	bindings := map[string]string{
		"server.port":       "SERVER_PORT",
		"server.host":       "SERVER_HOST",
		"database.host":     "DATABASE_HOST",
		"database.port":     "DATABASE_PORT",
		"database.name":     "DATABASE_NAME",
		"database.user":     "DATABASE_USER",
		"database.password": "DATABASE_PASSWORD",
		"database.ssl_mode": "DATABASE_SSL_MODE",
		"redis.addr":        "REDIS_ADDR",
		"redis.password":    "REDIS_PASSWORD",
		"redis.db":          "REDIS_DB",
		"redis.ttl":         "REDIS_TTL",
		"vault.url":         "VAULT_URL",
		"vault.token":       "VAULT_TOKEN",
		"log.level":         "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Sprintf("Failed to unmarshal config: %v", err))
	}
	return &config
}
