// internal/config/config.go
//
// Process configuration read from the environment.
// main loads .env first (godotenv), so anything here can come from either.

package config

import (
	"os"
	"strconv"
)

// Config is the resolved runtime configuration.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string // "json" | "console"

	DBDriver    string // "sqlite3" | "postgres"; selects the results backend
	DBPath      string
	DatabaseURL string

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool

	MaxWrongGuesses int
	WordsFile       string
	DailySalt       string
}

// Load reads the environment, falling back to development defaults.
func Load() Config {
	return Config{
		Port:      getEnv("PORT", "5175"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		DBDriver:    getEnv("DB_DRIVER", "sqlite3"),
		DBPath:      getEnv("DB_PATH", "./data/hangman.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: getEnvInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "hangman_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     os.Getenv("NODE_ENV") == "production",

		MaxWrongGuesses: getEnvInt("MAX_WRONG_GUESSES", 5),
		WordsFile:       os.Getenv("WORDS_FILE"),
		DailySalt:       getEnv("DAILY_SALT", "local_dev_salt"),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getEnvInt parses k as a non-negative int, or returns def.
func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
