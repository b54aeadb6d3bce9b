package config

import (
	"log"
	"os"
	"strconv"
)

// APIConfig holds settings for the upstream Nucleav backend API.
type APIConfig struct {
	BaseURL    string
	TimeoutSec int
	// InsecureSkipVerify disables TLS certificate verification on upstream
	// calls. It is only honored when AppEnv == "development".
	InsecureSkipVerify bool
}

// AuthConfig holds session signing and lifetime settings.
type AuthConfig struct {
	// Secret signs the session cookie (HS256). Required.
	Secret string
	// SessionTTLSec is the fixed session lifetime in seconds.
	SessionTTLSec int
	CookieName    string
}

// RedisConfig holds optional Redis settings for the distributed session store.
// When Addr is empty the in-memory store is used instead.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MinIOConfig holds object storage settings for logo and avatar uploads.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppEnv  string
	AppHost string
	Port    string
	API     APIConfig
	Auth    AuthConfig
	Redis   RedisConfig
	MinIO   MinIOConfig
}

// IsDevelopment reports whether the app runs with development affordances.
func (c *AppConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	cfg := &AppConfig{
		AppEnv:  getEnv("APP_ENV", "production"),
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		API: APIConfig{
			BaseURL:            getEnv("API_BASE_URL", ""),
			TimeoutSec:         getEnvInt("API_TIMEOUT_SEC", 15),
			InsecureSkipVerify: getEnvBool("API_INSECURE_SKIP_VERIFY", false),
		},
		Auth: AuthConfig{
			Secret:        getEnv("AUTH_SECRET", ""),
			SessionTTLSec: getEnvInt("SESSION_TTL_SEC", 3600),
			CookieName:    getEnv("SESSION_COOKIE_NAME", "nucleav_session"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "nucleav-assets"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}

	// The TLS escape hatch exists for local stacks with self-signed
	// certificates only. Refuse it anywhere else.
	if cfg.API.InsecureSkipVerify && !cfg.IsDevelopment() {
		log.Println("API_INSECURE_SKIP_VERIFY ignored: APP_ENV is not development")
		cfg.API.InsecureSkipVerify = false
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
