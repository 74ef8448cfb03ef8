package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort string
	ServerEnv  string

	// Database
	DatabaseURL string

	// JWT
	JWTSecretKey            string
	JWTAccessTokenExpireMin int

	// Upstream APIs
	NationalizeBaseURL   string
	RESTCountriesBaseURL string

	// Prediction cache
	FreshnessWindow time.Duration

	// OpenTelemetry (optional, disabled when empty)
	OTELExporterEndpoint string
}

func Load() *Config {
	return &Config{
		// Server
		ServerPort: getEnv("SERVER_PORT", "3000"),
		ServerEnv:  getEnv("SERVER_ENV", "development"),

		// Database - DATABASE_URL wins, otherwise built from POSTGRES_* vars
		DatabaseURL: getDatabaseURL(),

		// JWT
		JWTSecretKey:            getEnv("JWT_SECRET_KEY", ""),
		JWTAccessTokenExpireMin: getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", 30),

		// Upstream APIs
		NationalizeBaseURL:   getEnv("NATIONALIZE_API_BASE_URL", "https://api.nationalize.io/"),
		RESTCountriesBaseURL: getEnv("RESTCOUNTRIES_API_BASE_URL", "https://restcountries.com/v3.1/"),

		// Cached predictions older than this are re-fetched
		FreshnessWindow: getEnvAsDuration("PREDICTION_FRESHNESS_WINDOW", 24*time.Hour),

		// OpenTelemetry
		OTELExporterEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getDatabaseURL returns DATABASE_URL or builds it from individual env vars
func getDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "")
	dbname := getEnv("POSTGRES_DB", "nameorigin")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}
