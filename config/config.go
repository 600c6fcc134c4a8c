package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Stripe   StripeConfig
	Redis    RedisConfig
	Upload   UploadConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AuthConfig configures the identity resolver. JWTSecret enables the local
// verification fast path; SupabaseURL + ServiceKey enable the GoTrue fallback.
// At least one of the two must be configured.
type AuthConfig struct {
	JWTSecret   string
	SupabaseURL string
	ServiceKey  string
}

// StorageConfig points at an S3-compatible object store (Supabase Storage).
type StorageConfig struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type UploadConfig struct {
	MaxFiles    int
	MaxFileSize int64
}

type AppConfig struct {
	Environment string
	Version     string
	FrontendURL string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "modelify"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("SUPABASE_JWT_SECRET", ""),
			SupabaseURL: getEnv("SUPABASE_URL", ""),
			ServiceKey:  getEnv("SUPABASE_SERVICE_KEY", ""),
		},
		Storage: StorageConfig{
			Endpoint:      getEnv("STORAGE_ENDPOINT", ""),
			Region:        getEnv("STORAGE_REGION", "eu-west-1"),
			AccessKey:     getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:     getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:        getEnv("STORAGE_BUCKET", "project-files"),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_URL", ""),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Upload: UploadConfig{
			MaxFiles:    getEnvAsInt("UPLOAD_MAX_FILES", 5),
			MaxFileSize: int64(getEnvAsInt("UPLOAD_MAX_FILE_SIZE", 10*1024*1024)),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Auth.JWTSecret == "" && c.Auth.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET or SUPABASE_URL is required")
	}

	if c.Stripe.SecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}

	if c.Stripe.WebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
