package config

import (
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
)

// MongoConfig holds document store connection settings.
type MongoConfig struct {
	URI               string
	Database          string
	Collection        string
	ConnectTimeoutSec int
}

// AppConfig is the centralized configuration struct for the loader.
// It is populated from environment variables; a .env file is auto-loaded
// by the godotenv import above, with real environment variables taking
// precedence.
type AppConfig struct {
	Mongo      MongoConfig
	CSVPath    string // explicit override; empty means use the fallback paths
	RunLogPath string // SQLite run history; empty disables it
}

// Load reads configuration from environment variables.
func Load() *AppConfig {
	return &AppConfig{
		Mongo: MongoConfig{
			URI:               getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:          getEnv("MONGO_DB", "healthcare_db"),
			Collection:        "patients",
			ConnectTimeoutSec: getEnvInt("MONGO_CONNECT_TIMEOUT_SEC", 10),
		},
		CSVPath:    getEnv("CSV_PATH", ""),
		RunLogPath: getEnv("RUN_LOG_PATH", "data/healthmigrate.db"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
