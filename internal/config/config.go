package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Drive    DriveConfig
	Cron     CronConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	AllowOrigins string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type AuthConfig struct {
	// JWTSecret verifies access tokens issued by the external auth provider.
	JWTSecret string
}

type DriveConfig struct {
	APIKey  string
	BaseURL string
}

type CronConfig struct {
	// Secret authorizes scheduled invocations of /internal/cron endpoints.
	Secret string
}

func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			AllowOrigins: getEnv("ALLOW_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "snapselect"),
			Password: getEnv("DB_PASSWORD", "snapselect"),
			Name:     getEnv("DB_NAME", "snapselect"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", "your-secret-key-change-in-production"),
		},
		Drive: DriveConfig{
			APIKey:  getEnv("DRIVE_API_KEY", ""),
			BaseURL: getEnv("DRIVE_API_BASE_URL", "https://www.googleapis.com/drive/v3"),
		},
		Cron: CronConfig{
			Secret: getEnv("CRON_SECRET", ""),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Reconciliation cadence
const (
	ReconcileInterval = 24 * time.Hour

	// ReconcileAccountTimeout bounds each account's update so one slow row
	// cannot stall the sweep.
	ReconcileAccountTimeout = 10 * time.Second
)
