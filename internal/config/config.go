package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr       string
	RISBaseURL       string
	RISTimeout       time.Duration
	RISProbeTimeout  time.Duration
	BGPalerterAPIURL string
	WebhookTimeout   time.Duration
	RedisURL         string
	StatusCacheTTL   time.Duration
	DataCacheTTL     time.Duration
	RateLimit        int
	RateLimitWindow  time.Duration
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string
	PostgresDatabase string
	PostgresSSLMode  string
}

func Load() *Config {
	// Optional .env for local development; real env vars win.
	_ = godotenv.Load()

	return &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		RISBaseURL:       getEnv("RIS_BASE_URL", "https://stat.ripe.net/data"),
		RISTimeout:       getEnvDuration("RIS_TIMEOUT", 10*time.Second),
		RISProbeTimeout:  getEnvDuration("RIS_PROBE_TIMEOUT", 5*time.Second),
		BGPalerterAPIURL: getEnv("BGPALERTER_API_URL", "http://127.0.0.1:8011"),
		WebhookTimeout:   getEnvDuration("WEBHOOK_TIMEOUT", 10*time.Second),
		RedisURL:         getEnv("REDIS_URL", ""),
		StatusCacheTTL:   getEnvDuration("STATUS_CACHE_TTL", 30*time.Second),
		DataCacheTTL:     getEnvDuration("DATA_CACHE_TTL", 5*time.Minute),
		RateLimit:        getEnvInt("RATE_LIMIT", 100),
		RateLimitWindow:  getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		PostgresUser:     getEnv("POSTGRES_USER", "bgpconsole"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDatabase: getEnv("POSTGRES_DATABASE", "bgp_console"),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
