package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string
	DatabaseURL   string

	// Google Maps / Places API
	GoogleMapsAPIKey string
	PlacesBaseURL    string
	PlacesTimeout    time.Duration

	// Gemini (triage + relevance ranking)
	GeminiAPIKey  string
	GeminiModelID string
	RerankTimeout time.Duration
	TriageTimeout time.Duration

	// Nearby search pipeline
	SearchRadiusKm     float64
	ScrapeTimeout      time.Duration
	RemoteFetchWorkers int
	ScrapeSites        []string

	// Auth
	JWTSecret string

	// Email notifications
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	// Redis (triage analysis cache)
	RedisAddr      string
	RedisPassword  string
	TriageCacheTTL time.Duration

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		PlacesBaseURL:    getEnv("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		PlacesTimeout:    getEnvAsDuration("PLACES_TIMEOUT", 10*time.Second),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		RerankTimeout: getEnvAsDuration("RERANK_TIMEOUT", 15*time.Second),
		TriageTimeout: getEnvAsDuration("TRIAGE_TIMEOUT", 20*time.Second),

		SearchRadiusKm:     getEnvAsFloat("SEARCH_RADIUS_KM", 10),
		ScrapeTimeout:      getEnvAsDuration("SCRAPE_TIMEOUT", 10*time.Second),
		RemoteFetchWorkers: getEnvAsInt("REMOTE_FETCH_WORKERS", 3),
		ScrapeSites:        getEnvAsList("SCRAPE_SITES", []string{"practo", "lybrate"}),

		JWTSecret: getEnv("JWT_SECRET", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "DocNearby"),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		TriageCacheTTL: getEnvAsDuration("TRIAGE_CACHE_TTL", time.Hour),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
