package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

// Config is everything main needs to wire the server, read once at start-up.
type Config struct {
	Port               string
	Env                string
	JWTSecret          string
	TokenTTL           time.Duration
	StorageDriver      string
	MongoURI           string
	DBName             string
	MongoTransactions  bool
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	SeedDemoData       bool
	MaxChainDepth      int
	LowStockScan       time.Duration
	CORSAllowedOrigins []string
	LogLevel           string
	LogFormat          string
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getString("PORT", "8080"),
		Env:                getString("ENV", "development"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           getDuration("TOKEN_TTL", 7*24*time.Hour),
		StorageDriver:      strings.ToLower(getString("STORAGE_DRIVER", StorageMemory)),
		MongoURI:           getString("MONGO_URI", os.Getenv("MONGODB_URI")),
		DBName:             getString("DB_NAME", "mlm_backoffice"),
		MongoTransactions:  getBool("MONGO_TRANSACTIONS", false),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getInt("REDIS_DB", 0),
		MaxChainDepth:      getInt("MAX_CHAIN_DEPTH", 64),
		LowStockScan:       getDuration("LOW_STOCK_SCAN_INTERVAL", 15*time.Minute),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		LogLevel:           getString("LOG_LEVEL", "info"),
		LogFormat:          getString("LOG_FORMAT", "text"),
	}
	cfg.SeedDemoData = getBool("SEED_DEMO_DATA", cfg.IsDevelopment())

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("JWT_SECRET environment variable is required outside development")
		}
		cfg.JWTSecret = "development-only-secret"
	}
	switch cfg.StorageDriver {
	case StorageMemory:
	case StorageMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New("MONGO_URI is required when STORAGE_DRIVER=mongo")
		}
	default:
		return nil, errors.New("STORAGE_DRIVER must be memory or mongo")
	}
	return cfg, nil
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
