package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"deepfake-detector/api/internal/analysis"
)

type Config struct {
	Port      string
	APIPrefix string

	GeminiAPIKey        string
	GeminiModel         string
	GeminiFallbackModel string
	GenAIEnabled        bool

	MaxUploadBytes  int64
	ProviderTimeout time.Duration
	CORSOrigins     []string

	DatabaseURL  string
	StoreEnabled bool

	TelegramBotToken string
	WebhookURL       string
}

func mustEnv(k string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: bad bool %s=%q, using %v", k, v, def)
		return def
	}
	return b
}

func getInt64(k string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("config: bad int %s=%q, using %d", k, v, def)
		return def
	}
	return n
}

func getDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	// plain seconds
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	log.Printf("config: bad duration %s=%q, using %v", k, v, def)
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizePrefix turns "api", "/api/" into "/api"; "" and "/" disable the prefixed mount.
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env: %v", err)
	}

	prefix := "/api"
	if v, ok := os.LookupEnv("API_PREFIX"); ok {
		prefix = v
	}

	dbURL := getEnv("DATABASE_URL", "")

	return &Config{
		Port:      getEnv("PORT", "8000"),
		APIPrefix: normalizePrefix(prefix),

		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiFallbackModel: getEnv("GEMINI_FALLBACK_MODEL", "gemini-2.0-flash"),
		GenAIEnabled:        getBool("GENAI_ENABLED", true),

		MaxUploadBytes:  getInt64("MAX_UPLOAD_BYTES", analysis.DefaultMaxUploadBytes),
		ProviderTimeout: getDuration("PROVIDER_TIMEOUT", 60*time.Second),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),

		DatabaseURL:  dbURL,
		StoreEnabled: getBool("STORE_ENABLED", dbURL != ""),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),
	}
}

// LoadBot is Load plus the settings the Telegram binary cannot start without.
func LoadBot() *Config {
	cfg := Load()
	cfg.TelegramBotToken = mustEnv("TELEGRAM_BOT_TOKEN")
	return cfg
}
