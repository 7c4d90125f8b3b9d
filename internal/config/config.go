package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	MongoURI      string
	DatabaseName  string
	FrontendURL   string
	PayPalBaseURL string

	// Env is a snapshot of the process environment taken at load time.
	// The account directory reads merchant credentials from this map
	// instead of calling os.Getenv, so tests can inject their own.
	Env map[string]string
}

// Load reads .env (when present) and returns the service configuration.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: no .env file loaded: %v", err)
	}

	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	return &Config{
		Port:          getEnv("PORT", "5000"),
		MongoURI:      getEnv("MONGO_URI", ""),
		DatabaseName:  getEnv("MONGO_DB", "payment-portal"),
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:5173"),
		PayPalBaseURL: getEnv("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
		Env:           env,
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
