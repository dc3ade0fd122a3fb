// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"spendwise/internal/logger"
	"spendwise/internal/validator"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMongo    = "mongo"
)

// Config holds application configuration
type Config struct {
	// Server
	Env              string
	Port             string
	CORSAllowOrigins []string
	EnablePprof      bool

	// Storage
	StorageBackend string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	SQLitePath     string
	MongoURI       string
	MongoDatabase  string
	SeedCategories bool

	// JWT
	JWTSecret     string
	JWTAccessTTL  time.Duration
	JWTRefreshTTL time.Duration

	// AI
	AIAPIKey  string
	AIBaseURL string
	AIModel   string
	AITimeout time.Duration
	Currency  string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		logger.Get().Debug(".env file not found, using process environment")
	}

	config := &Config{
		// Server
		Env:              getEnv("ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		CORSAllowOrigins: strings.Fields(getEnv("CORS_ALLOW_ORIGINS", "*")),
		EnablePprof:      getBool("ENABLE_PPROF", false),

		// Storage
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendPostgres)),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "spendwise"),
		DBPassword:     getEnv("DB_PASSWORD", "spendwise"),
		DBName:         getEnv("DB_NAME", "spendwise"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		SQLitePath:     getEnv("SQLITE_PATH", "spendwise.db"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "spendwise"),
		SeedCategories: getBool("SEED_CATEGORIES", true),

		// JWT
		JWTSecret:     getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		JWTAccessTTL:  getDuration("JWT_ACCESS_TTL", 15*time.Minute),
		JWTRefreshTTL: getDuration("JWT_REFRESH_TTL", 7*24*time.Hour),

		// AI
		AIAPIKey:  os.Getenv("AI_API_KEY"),
		AIBaseURL: os.Getenv("AI_BASE_URL"),
		AIModel:   getEnv("AI_MODEL", "gpt-4o-mini"),
		AITimeout: getDuration("AI_TIMEOUT", 30*time.Second),
		Currency:  getCurrency("CURRENCY", "INR"),
	}

	switch config.StorageBackend {
	case BackendPostgres, BackendSQLite, BackendMongo:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q (use postgres, sqlite, or mongo)", config.StorageBackend)
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			logger.Get().Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Get().Warnf("invalid %s value '%s', falling back to %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

// getCurrency reads an ISO 4217 code. Lowercase codes are accepted.
func getCurrency(key, defaultValue string) string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !validator.IsCurrency(code) {
		logger.Get().Warnf("invalid %s value '%s', falling back to %s", key, raw, defaultValue)
		return defaultValue
	}
	return code
}

func getBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		logger.Get().Warnf("invalid %s value '%s', falling back to %t", key, raw, defaultValue)
		return defaultValue
	}
	return b
}
