package config

import (
	"log"
	"os"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port                 string
	Environment          string
	PredictionAPIBaseURL string
	PredictionAPITimeout time.Duration
	APIKey               string
	DefaultTheme         string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		PredictionAPIBaseURL: getEnv("PREDICTION_API_BASE_URL", "http://127.0.0.1:5000/api"),
		PredictionAPITimeout: getDurationEnv("PREDICTION_API_TIMEOUT", 10*time.Second),
		APIKey:               getEnv("API_KEY", ""),
		DefaultTheme:         getEnv("DEFAULT_THEME", "light"),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv parses a Go duration (e.g. "10s"), falling back on a bad value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return d
}
