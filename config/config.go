// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"hukukai-backend/repository"
	"hukukai-backend/storage"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting read from environment variables
type Config struct {
	Env  string `envconfig:"APP_ENV" default:"development"`
	Port string `envconfig:"PORT" default:"8080"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/hukuk.db"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"10"`

	LookupTimeout time.Duration `envconfig:"LOOKUP_TIMEOUT" default:"2s"`
	KeywordLimit  int           `envconfig:"KEYWORD_LIMIT" default:"10"`
	ResultLimit   int           `envconfig:"RESULT_LIMIT" default:"10"`

	GeminiAPIKey     string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel      string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-pro"`
	AIRatePerMinute  int           `envconfig:"AI_RATE_PER_MINUTE" default:"30"`
	AIMaxAttempts    int           `envconfig:"AI_MAX_ATTEMPTS" default:"2"`
	AIRequestTimeout time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`

	StorageType      string `envconfig:"STORAGE_TYPE" default:"local"`
	StorageLocalPath string `envconfig:"STORAGE_LOCAL_PATH" default:"./storage/reports"`
	S3Bucket         string `envconfig:"AWS_S3_BUCKET"`
	S3Region         string `envconfig:"AWS_REGION" default:"us-east-1"`
	AWSAccessKey     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey     string `envconfig:"AWS_SECRET_ACCESS_KEY"`

	// bcrypt hash of the admin key; empty disables admin endpoints
	AdminKeyHash string `envconfig:"ADMIN_KEY_HASH"`
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	// Try current directory first, then project root (relative to cmd/*/)
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("../../.env")
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that the selected backends have what they need
func (c *Config) Validate() error {
	var errs []error

	switch repository.StoreDriver(c.StoreDriver) {
	case repository.DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite store"))
		}
	case repository.DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER: %s", c.StoreDriver))
	}

	switch storage.StorageType(c.StorageType) {
	case storage.StorageTypeLocal:
		if c.StorageLocalPath == "" {
			errs = append(errs, errors.New("STORAGE_LOCAL_PATH is required for local storage"))
		}
	case storage.StorageTypeS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("AWS_S3_BUCKET is required for S3 storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_TYPE: %s", c.StorageType))
	}

	if c.LookupTimeout <= 0 {
		errs = append(errs, errors.New("LOOKUP_TIMEOUT must be positive"))
	}
	if c.KeywordLimit <= 0 {
		errs = append(errs, errors.New("KEYWORD_LIMIT must be positive"))
	}
	if c.ResultLimit < 0 {
		errs = append(errs, errors.New("RESULT_LIMIT must not be negative"))
	}
	if c.AIMaxAttempts < 1 {
		errs = append(errs, errors.New("AI_MAX_ATTEMPTS must be at least 1"))
	}
	if c.AIRatePerMinute <= 0 {
		errs = append(errs, errors.New("AI_RATE_PER_MINUTE must be positive"))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the process runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// StoreConfig returns the reference store settings
func (c *Config) StoreConfig() repository.StoreConfig {
	return repository.StoreConfig{
		Driver:      repository.StoreDriver(c.StoreDriver),
		SQLitePath:  c.SQLitePath,
		DatabaseURL: c.DatabaseURL,
		MaxConns:    c.DBMaxConns,
	}
}

// StorageConfig returns the report storage settings
func (c *Config) StorageConfig() storage.StorageConfig {
	return storage.StorageConfig{
		Type:         storage.StorageType(c.StorageType),
		LocalPath:    c.StorageLocalPath,
		S3Bucket:     c.S3Bucket,
		S3Region:     c.S3Region,
		AWSAccessKey: c.AWSAccessKey,
		AWSSecretKey: c.AWSSecretKey,
	}
}
