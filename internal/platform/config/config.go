package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultJWTSecret = "defaultsecret"
)

type Config struct {
	AppEnv  string
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	SubmissionQueueName string
}

// IsProduction reports whether the server runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads an optional .env file and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		APIPort:             getEnv("API_PORT", "8080"),
		JWTKey:              []byte(getEnv("JWT_SECRET", defaultJWTSecret)),
		JWTExp:              time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 7*24)) * time.Hour,
		DBDriver:            getEnv("DB_DRIVER", DriverSQLite),
		DBPath:              getEnv("DB_PATH", "database.db"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "user"),
		DBPassword:          getEnv("DB_PASSWORD", "password"),
		DBName:              getEnv("DB_NAME", "showcase"),
		DBSslMode:           getEnv("DB_SSLMODE", "disable"),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvAsInt("REDIS_DB", 0),
		SubmissionQueueName: getEnv("SUBMISSION_QUEUE_NAME", "showcase_submissions"),
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		cfg.DBConnStr = getEnv("DATABASE_URL", "host="+cfg.DBHost+
			" port="+cfg.DBPort+
			" user="+cfg.DBUser+
			" password="+cfg.DBPassword+
			" dbname="+cfg.DBName+
			" sslmode="+cfg.DBSslMode)
	case DriverSQLite:
		cfg.DBConnStr = getEnv("DATABASE_URL", cfg.DBPath)
	default:
		return nil, errors.New("DB_DRIVER must be sqlite or postgres, got " + strconv.Quote(cfg.DBDriver))
	}

	if cfg.IsProduction() && string(cfg.JWTKey) == defaultJWTSecret {
		return nil, errors.New("JWT_SECRET must be set in production")
	}
	if cfg.JWTExp <= 0 {
		return nil, errors.New("JWT_EXPIRATION_HOURS must be positive")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
