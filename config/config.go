package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Payment gateway integration.
	GatewayBaseURL       string `mapstructure:"GATEWAY_BASE_URL"`
	GatewayAPIKey        string `mapstructure:"GATEWAY_API_KEY"`
	GatewayWebhookSecret string `mapstructure:"GATEWAY_WEBHOOK_SECRET"`
	PaySuccessURL        string `mapstructure:"PAY_SUCCESS_URL"`
	PayFailureURL        string `mapstructure:"PAY_FAILURE_URL"`

	// Reservation engine tuning.
	HoldTTLMin         int `mapstructure:"HOLD_TTL_MIN"`          // hold lifetime in minutes
	StatusPollAfterSec int `mapstructure:"STATUS_POLL_AFTER_SEC"` // age before a status check hits the gateway
	StatusMaxPolls     int `mapstructure:"STATUS_MAX_POLLS"`      // gateway polls before giving up as UNKNOWN
	CleanupIntervalSec int `mapstructure:"CLEANUP_INTERVAL_SEC"`  // reaper period
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("GATEWAY_BASE_URL", "")
	viper.SetDefault("GATEWAY_API_KEY", "")
	viper.SetDefault("GATEWAY_WEBHOOK_SECRET", "")
	viper.SetDefault("PAY_SUCCESS_URL", "/payment/success")
	viper.SetDefault("PAY_FAILURE_URL", "/payment/failure")
	viper.SetDefault("HOLD_TTL_MIN", 15)
	viper.SetDefault("STATUS_POLL_AFTER_SEC", 30)
	viper.SetDefault("STATUS_MAX_POLLS", 10)
	viper.SetDefault("CLEANUP_INTERVAL_SEC", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// HoldTTL returns the configured hold lifetime as a duration.
func HoldTTL() time.Duration {
	return time.Duration(AppConfig.HoldTTLMin) * time.Minute
}

// StatusPollAfter returns the minimum transaction age before a status
// check is allowed to query the gateway directly.
func StatusPollAfter() time.Duration {
	return time.Duration(AppConfig.StatusPollAfterSec) * time.Second
}

// CleanupInterval returns the reaper sweep period.
func CleanupInterval() time.Duration {
	return time.Duration(AppConfig.CleanupIntervalSec) * time.Second
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
