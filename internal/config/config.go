package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string
	DatabasePath    string
	DatabaseURL     string
	MigrationsPath  string
	StaticFilesPath string
	AudioDir        string

	JWTSecret     string
	TokenDuration time.Duration
	CORSOrigins   []string

	// Score report emails are disabled when SESFromEmail is empty
	SESRegion    string
	SESFromEmail string
	AppURL       string

	Debug bool

	MiniGameTimeLimit  int
	MiniGameWrongLimit int
	RandomPoolSize     int
	// MiniGameNormalization is "case_fold_only" or "strip_trailing_punctuation"; empty keeps the preset
	MiniGameNormalization string

	// APIBaseURL is where the terminal client finds the server
	APIBaseURL string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	staticPath := getEnv("STATIC_PATH", "./static")
	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./vocabquiz.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		StaticFilesPath: staticPath,
		AudioDir:        getEnv("AUDIO_DIR", staticPath+"/audio"),

		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		TokenDuration: getEnvDuration("TOKEN_DURATION", 24*time.Hour),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		SESRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		AppURL:       getEnv("APP_URL", "http://localhost:8080"),

		Debug: getEnvBool("DEBUG", false),

		MiniGameTimeLimit:  getEnvInt("MINIGAME_TIME_LIMIT", 20),
		MiniGameWrongLimit: getEnvInt("MINIGAME_WRONG_LIMIT", 2),
		RandomPoolSize:     getEnvInt("RANDOM_POOL_SIZE", 10),

		MiniGameNormalization: getEnv("MINIGAME_NORMALIZATION", ""),

		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
