package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/43bits/mess-calender-gec/internal/storage"
)

const (
	DriverMemory       = "memory"
	DriverSQLite       = "sqlite"
	DriverPostgres     = "postgres"
	DriverGormPostgres = "gorm-postgres"
)

type Config struct {
	Env  string
	Port string

	// DBDriver selects the store: postgres (default, pgx), gorm-postgres,
	// sqlite or memory.
	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	JWTSecret string

	AdminEmail    string
	AdminPassword string

	AllowedOrigins []string

	Storage storage.R2Config

	SweepInterval time.Duration
}

// Load reads .env outside production, then the process environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:         getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "mess.db"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		Storage: storage.R2Config{
			Endpoint:      os.Getenv("R2_ENDPOINT"),
			AccessKey:     os.Getenv("R2_ACCESS_KEY"),
			SecretKey:     os.Getenv("R2_SECRET_KEY"),
			Bucket:        os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL: os.Getenv("R2_PUBLIC_BASE_URL"),
		},
	}

	interval, err := time.ParseDuration(getEnv("SWEEP_INTERVAL", "24h"))
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL %q", os.Getenv("SWEEP_INTERVAL"))
	}
	cfg.SweepInterval = interval

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on missing required settings.
func (c *Config) Validate() error {
	required := map[string]string{"JWT_SECRET": c.JWTSecret}

	switch c.DBDriver {
	case DriverPostgres, DriverGormPostgres:
		required["DATABASE_URL"] = c.DatabaseURL
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}

	for k, v := range required {
		if v == "" {
			return fmt.Errorf("missing env var: %s", k)
		}
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
