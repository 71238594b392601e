package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Placeholder values shipped in sample .env files. A credential equal to one
// of these is treated as missing.
var placeholderKeys = map[string]bool{
	"your_api_key_here":         true,
	"YOUR_API_KEY":              true,
	"your_gemini_api_key":       true,
	"your_exchangerate_api_key": true,
	"changeme":                  true,
}

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

	// Language model
	GeminiAPIKey string
	GeminiModel  string
	ModelTimeout time.Duration

	// Exchange rates
	ExchangeRateAPIKey  string
	ExchangeRateAPIURL  string
	ExchangeRateTimeout time.Duration

	// Ledger defaults
	DefaultCurrency  string
	AllTimeStartDate string
	Timezone         string
	DefaultUsername  string
	DefaultUserEmail string

	// Assistant
	ChatHistoryLimit int
	ChatContextTurns int
	MaxToolRounds    int

	// Reports
	ReportsDir            string
	ReportsBucket         string
	ReportRetention       time.Duration
	ReportJanitorSchedule string

	// Telegram relay
	TelegramBotToken  string
	TelegramAllowFrom []string

	MigrationsPath string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		GeminiAPIKey: credential("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		ModelTimeout: getDuration("MODEL_TIMEOUT", 30*time.Second),

		ExchangeRateAPIKey:  credential("EXCHANGE_RATE_API_KEY"),
		ExchangeRateAPIURL:  getEnv("EXCHANGE_RATE_API_URL", "https://v6.exchangerate-api.com/v6/"),
		ExchangeRateTimeout: getDuration("EXCHANGE_RATE_TIMEOUT", 10*time.Second),

		DefaultCurrency:  strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),
		AllTimeStartDate: getEnv("ALL_TIME_START_DATE", "2000-01-01"),
		Timezone:         getEnv("TIMEZONE", "UTC"),
		DefaultUsername:  getEnv("DEFAULT_USERNAME", "default_user"),
		DefaultUserEmail: getEnv("DEFAULT_USER_EMAIL", "default@example.com"),

		ChatHistoryLimit: getInt("CHAT_HISTORY_LIMIT", 50),
		ChatContextTurns: getInt("CHAT_CONTEXT_TURNS", 5),
		MaxToolRounds:    getInt("MAX_TOOL_ROUNDS", 2),

		ReportsDir:            getEnv("REPORTS_DIR", "reports"),
		ReportsBucket:         getEnv("REPORTS_BUCKET", ""),
		ReportRetention:       getDuration("REPORT_RETENTION", 24*time.Hour),
		ReportJanitorSchedule: getEnv("REPORT_JANITOR_SCHEDULE", "@every 1h"),

		TelegramBotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAllowFrom: splitList(getEnv("TELEGRAM_ALLOW_FROM", "")),

		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
	}

	if _, err := time.Parse("2006-01-02", config.AllTimeStartDate); err != nil {
		log.Printf("Warning: invalid ALL_TIME_START_DATE '%s', falling back to 2000-01-01\n", config.AllTimeStartDate)
		config.AllTimeStartDate = "2000-01-01"
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Location resolves the configured timezone, defaulting to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: unknown TIMEZONE '%s', using UTC\n", c.Timezone)
		return time.UTC
	}
	return loc
}

// IsPlaceholder reports whether a credential value is empty or a sample value.
func IsPlaceholder(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || placeholderKeys[v]
}

func credential(key string) string {
	v := getEnv(key, "")
	if IsPlaceholder(v) {
		return ""
	}
	return v
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
