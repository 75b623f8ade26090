// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Kakao       KakaoConfig
	Gemini      GeminiConfig
	Pipeline    PipelineConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// KakaoConfig holds the place-search provider configuration
type KakaoConfig struct {
	APIKey  string
	BaseURL string
}

// GeminiConfig holds the ranking model configuration
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// PipelineConfig holds recommendation pipeline tuning
type PipelineConfig struct {
	MaxKeywords  int
	RadiusMeters int
	PageSize     int
	MaxDetailed  int
	TopN         int
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "moim"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Kakao: KakaoConfig{
			APIKey:  getEnv("KAKAO_REST_API_KEY", ""),
			BaseURL: getEnv("KAKAO_BASE_URL", ""),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			BaseURL: getEnv("GEMINI_BASE_URL", ""),
			Model:   getEnv("GEMINI_MODEL", ""),
		},
		Pipeline: PipelineConfig{
			MaxKeywords:  getEnvAsInt("PIPELINE_MAX_KEYWORDS", 5),
			RadiusMeters: getEnvAsInt("PIPELINE_RADIUS_METERS", 5000),
			PageSize:     getEnvAsInt("PIPELINE_PAGE_SIZE", 15),
			MaxDetailed:  getEnvAsInt("PIPELINE_MAX_DETAILED", 10),
			TopN:         getEnvAsInt("PIPELINE_TOP_N", 3),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid. Missing provider credentials are a
// construction-time failure, not something to discover mid-pipeline.
func validate(config Config) error {
	if config.Kakao.APIKey == "" {
		return fmt.Errorf("KAKAO_REST_API_KEY must be set")
	}
	if config.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY must be set")
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
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
