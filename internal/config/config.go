package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config holds everything the application reads from the environment.
// It is built once in main and passed to the constructors that need it,
// so no component reads process-wide state at call time.
type Config struct {
	Port string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	// S3-compatible object storage for product images.
	StorageEndpoint  string
	StorageKey       string
	StorageSecret    string
	StorageBucket    string
	StorageRegion    string
	StorageUseSSL    bool
	StoragePublicURL string

	// Feed consumed by cmd/import.
	FeedURL string

	QueryTimeout  time.Duration
	UploadTimeout time.Duration
}

// Load reads the environment and validates the variables every process needs.
// Storage variables are validated later by storage.New, since cmd/import runs
// without an object store.
func Load() (Config, error) {
	dbPort, err := mustAtoi("DB_PORT")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     dbPort,
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		StorageEndpoint:  os.Getenv("STORAGE_ENDPOINT"),
		StorageKey:       os.Getenv("STORAGE_KEY"),
		StorageSecret:    os.Getenv("STORAGE_SECRET"),
		StorageBucket:    os.Getenv("STORAGE_BUCKET"),
		StorageRegion:    os.Getenv("STORAGE_REGION"),
		StorageUseSSL:    os.Getenv("STORAGE_USE_SSL") == "true",
		StoragePublicURL: os.Getenv("STORAGE_PUBLIC_URL"),

		FeedURL: os.Getenv("FEED_URL"),

		QueryTimeout:  secondsOrDefault("QUERY_TIMEOUT_SECONDS", 5*time.Second),
		UploadTimeout: secondsOrDefault("UPLOAD_TIMEOUT_SECONDS", 30*time.Second),
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.FeedURL == "" {
		cfg.FeedURL = "https://dummyjson.com"
	}

	if cfg.DBHost == "" {
		return Config{}, fmt.Errorf("DB_HOST is required")
	}
	if cfg.DBUser == "" {
		return Config{}, fmt.Errorf("DB_USER is required")
	}
	if cfg.DBPassword == "" {
		return Config{}, fmt.Errorf("DB_PASSWORD is required")
	}
	if cfg.DBName == "" {
		return Config{}, fmt.Errorf("DB_NAME is required")
	}

	return cfg, nil
}

// DSN builds the MySQL data source name from the database settings.
func (c Config) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.DBUser
	mc.Passwd = c.DBPassword
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", c.DBHost, c.DBPort)
	mc.DBName = c.DBName
	mc.ParseTime = true
	return mc.FormatDSN()
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return i, nil
}

func secondsOrDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}
