// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Translator  TranslatorConfig
	Translation TranslationConfig
	Notify      NotifyConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	// TTL in seconds for hot translation-cache entries.
	CacheTTL int
}

type AuthConfig struct {
	SecretKey string
	// Token TTL in hours for service tokens minted by operators.
	TokenTTL int
}

// TranslatorConfig configures the DeepSeek chat-completion endpoint used
// for Japanese -> Chinese translation.
type TranslatorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	// Timeout in seconds for one batch call.
	Timeout int
}

type TranslationConfig struct {
	BatchSize int
	// PollInterval in seconds between worker cycles.
	PollInterval int
}

type NotifyConfig struct {
	Enabled      bool
	WeComWebhook string
	// Timeout in seconds for one webhook delivery.
	Timeout int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "toynews"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CacheTTL: getEnvAsInt("REDIS_CACHE_TTL", 86400),
		},
		Auth: AuthConfig{
			SecretKey: getEnv("AUTH_SECRET", "change-me-in-production"),
			TokenTTL:  getEnvAsInt("AUTH_TOKEN_TTL", 720),
		},
		Translator: TranslatorConfig{
			APIKey:      getEnv("DEEPSEEK_API_KEY", ""),
			BaseURL:     getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
			Model:       getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
			Temperature: getEnvAsFloat("DEEPSEEK_TEMPERATURE", 1.3),
			Timeout:     getEnvAsInt("DEEPSEEK_TIMEOUT", 120),
		},
		Translation: TranslationConfig{
			BatchSize:    getEnvAsInt("TRANSLATION_BATCH_SIZE", 10),
			PollInterval: getEnvAsInt("TRANSLATION_POLL_INTERVAL", 10),
		},
		Notify: NotifyConfig{
			Enabled:      getEnvAsBool("WECOM_NOTIFY_ENABLED", false),
			WeComWebhook: getEnv("WECOM_WEBHOOK", ""),
			Timeout:      getEnvAsInt("NOTIFY_TIMEOUT", 10),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Auth.SecretKey == "change-me-in-production" && c.Environment == "production" {
		return fmt.Errorf("auth secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Notify.Enabled && c.Notify.WeComWebhook == "" {
		return fmt.Errorf("WECOM_WEBHOOK is required when notifications are enabled")
	}

	if c.Translation.BatchSize < 1 {
		return fmt.Errorf("translation batch size must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
