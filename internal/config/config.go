package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port               string
	AllowedOrigins     []string
	LogLevel           string
	Environment        string
	DatabaseURL        string
	DatabaseReadURL    string // Read replica URL for SELECT queries
	RedisURL           string
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseJWTSecret  string
	GoogleClientID     string
	GoogleClientSecret string
	BaseURL            string // Public URL of this service, used for OAuth callbacks
	FrontendURL        string // SPA origin, used for post-login redirects
}

// Paths the frontend serves; embedded in provider redirect targets.
const (
	AuthCallbackPath  = "/auth/callback"
	ResetPasswordPath = "/reset-password"
	LoginPath         = "/login"
	DashboardPath     = "/dashboard"
)

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		AllowedOrigins:     parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:5174")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Environment:        getEnv("ENVIRONMENT", "production"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DatabaseReadURL:    getEnv("DATABASE_READ_URL", getEnv("DATABASE_URL", "")), // Falls back to write DB if not set
		RedisURL:           getEnv("REDIS_URL", ""),
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:    getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseJWTSecret:  getEnv("SUPABASE_JWT_SECRET", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
	}, nil
}

// CallbackURL returns the frontend address OAuth flows land back on.
func (c *Config) CallbackURL() string {
	return c.FrontendURL + AuthCallbackPath
}

// ResetPasswordURL returns the frontend address reset emails link to.
func (c *Config) ResetPasswordURL() string {
	return c.FrontendURL + ResetPasswordPath
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
