package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultDSN         = "host=localhost user=postgres password=postgres dbname=costbook port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:5173"
)

type Config struct {
	HTTPPort      string
	AppEnv        string
	StorageDriver string // postgres | memory
	DatabaseDSN   string
	JWTSecret     string
	JWTTTLHours   int
	CORSOrigins   string
	GeminiAPIKey  string // empty disables receipt scanning
	GeminiModel   string
	OwnerEmail    string // this account is always admin
	TrialDays     int
	MaxUploadMB   int
}

// Load reads an optional .env file and then the process environment.
// Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[INFO] no .env file, reading environment only: %v", err)
	}
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STORAGE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", defaultDSN)
	v.SetDefault("JWT_TTL_HOURS", 24)
	v.SetDefault("CORS_ALLOWED_ORIGINS", defaultCORSOrigins)
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("TRIAL_DAYS", 7)
	v.SetDefault("MAX_UPLOAD_MB", 8)

	cfg := &Config{
		HTTPPort:      v.GetString("HTTP_PORT"),
		AppEnv:        v.GetString("APP_ENV"),
		StorageDriver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DatabaseDSN:   v.GetString("DATABASE_DSN"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTTTLHours:   v.GetInt("JWT_TTL_HOURS"),
		CORSOrigins:   v.GetString("CORS_ALLOWED_ORIGINS"),
		GeminiAPIKey:  v.GetString("GEMINI_API_KEY"),
		GeminiModel:   v.GetString("GEMINI_MODEL"),
		OwnerEmail:    strings.TrimSpace(strings.ToLower(v.GetString("OWNER_EMAIL"))),
		TrialDays:     v.GetInt("TRIAL_DAYS"),
		MaxUploadMB:   v.GetInt("MAX_UPLOAD_MB"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.StorageDriver == "postgres" && cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN is using the default value, set your own Postgres connection for production.")
	}
	if cfg.CORSOrigins == defaultCORSOrigins {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the default value, set your own domain for production.")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("[WARN] GEMINI_API_KEY is not set, receipt scanning is disabled.")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	switch c.StorageDriver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWTTTLHours <= 0 {
		return errors.New("JWT_TTL_HOURS must be positive")
	}
	if c.TrialDays < 0 {
		return errors.New("TRIAL_DAYS cannot be negative")
	}
	if c.MaxUploadMB <= 0 {
		return errors.New("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
