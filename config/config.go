// Package config loads server settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory    = "memory"
	DriverSQLite    = "sqlite"
	DriverPostgres  = "postgres"
	DriverMongo     = "mongo"
	DriverFirestore = "firestore"
	DriverRedis     = "redis"
)

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN builds a lib/pq connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

type MongoConfig struct {
	URI      string
	Database string
}

type FirestoreConfig struct {
	ProjectID       string
	CredentialsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type StoreConfig struct {
	Driver     string
	SQLitePath string
	Postgres   PostgresConfig
	Mongo      MongoConfig
	Firestore  FirestoreConfig
	Redis      RedisConfig
}

type Config struct {
	Port            string
	LogLevel        string
	GinMode         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	Store           StoreConfig
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Port:            getEnv("PORT", "3000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		GinMode:         getEnv("GIN_MODE", "release"),
		CORSOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ShutdownTimeout: shutdownTimeout,
		Store: StoreConfig{
			Driver:     strings.ToLower(getEnv("STORE_DRIVER", DriverSQLite)),
			SQLitePath: getEnv("SQLITE_PATH", "./tasks.db"),
			Postgres: PostgresConfig{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     getEnv("DB_PORT", "5432"),
				User:     getEnv("DB_USER", "tasks_user"),
				Password: getEnv("DB_PASSWORD", "tasks_pass"),
				DBName:   getEnv("DB_NAME", "tasks_db"),
				SSLMode:  getEnv("DB_SSLMODE", "disable"),
			},
			Mongo: MongoConfig{
				URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
				Database: getEnv("MONGO_DATABASE", "taskmanager"),
			},
			Firestore: FirestoreConfig{
				ProjectID:       getEnv("FIRESTORE_PROJECT_ID", ""),
				CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			},
			Redis: RedisConfig{
				Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
				Password: getEnv("REDIS_PASSWORD", ""),
				DB:       redisDB,
				Prefix:   getEnv("REDIS_PREFIX", "taskmanager:"),
			},
		},
	}

	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s StoreConfig) validate() error {
	switch s.Driver {
	case DriverMemory, DriverSQLite, DriverPostgres, DriverMongo, DriverRedis:
		return nil
	case DriverFirestore:
		if s.Firestore.ProjectID == "" {
			return errors.New("FIRESTORE_PROJECT_ID is required for the firestore driver")
		}
		return nil
	}
	return fmt.Errorf("unsupported store driver %q", s.Driver)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
