package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the auditing assistant service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string
	AllowedOrigins   []string

	HistoryWindow     int
	InactivityTimeout time.Duration
	ReaperPeriod      time.Duration

	DataDir     string
	DatabaseURL string

	ProviderMode string

	GroqAPIKey       string
	GroqReportAPIKey string
	GroqBaseURL      string
	GroqChatModel    string
	GroqReportModel  string

	HuggingFaceAPIKey       string
	HuggingFaceReportAPIKey string
	HuggingFaceBaseURL      string
	HuggingFaceModel        string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8000"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "glyai"),
		AllowedOrigins:   splitCSV(envOrDefault("APP_ALLOWED_ORIGINS", "http://localhost:3000")),

		HistoryWindow:     2,
		InactivityTimeout: 30 * time.Minute,
		ReaperPeriod:      time.Minute,
		ShutdownTimeout:   15 * time.Second,

		DataDir:     envOrDefault("APP_DATA_DIR", "data/conversations"),
		DatabaseURL: envTrimmed("DATABASE_URL"),

		ProviderMode: envOrDefault("PROVIDER_MODE", "auto"),

		GroqAPIKey:       envTrimmed("GROQ_API_KEY"),
		GroqReportAPIKey: envTrimmed("GROQ_API_KEY2"),
		GroqBaseURL:      envOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqChatModel:    envOrDefault("GROQ_CHAT_MODEL", "llama-3.1-8b-instant"),
		GroqReportModel:  envOrDefault("GROQ_REPORT_MODEL", "llama-3.3-70b-versatile"),

		HuggingFaceAPIKey:       envTrimmed("HUGGINGFACE_API_KEY"),
		HuggingFaceReportAPIKey: envTrimmed("HUGGINGFACE_API_KEY2"),
		HuggingFaceBaseURL:      envOrDefault("HUGGINGFACE_BASE_URL", "https://router.huggingface.co/v1"),
		HuggingFaceModel:        envOrDefault("HUGGINGFACE_MODEL", "tiiuae/falcon-7b-instruct"),
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.InactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.InactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ReaperPeriod, err = durationFromEnv("APP_REAPER_PERIOD", cfg.ReaperPeriod)
	if err != nil {
		return Config{}, err
	}
	cfg.HistoryWindow, err = intFromEnv("APP_HISTORY_WINDOW", cfg.HistoryWindow)
	if err != nil {
		return Config{}, err
	}

	// The report agent may use dedicated credentials; fall back to the chat ones.
	if cfg.GroqReportAPIKey == "" {
		cfg.GroqReportAPIKey = cfg.GroqAPIKey
	}
	if cfg.HuggingFaceReportAPIKey == "" {
		cfg.HuggingFaceReportAPIKey = cfg.HuggingFaceAPIKey
	}

	if cfg.HistoryWindow <= 0 {
		return Config{}, fmt.Errorf("APP_HISTORY_WINDOW must be positive")
	}
	if cfg.InactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
	}
	if cfg.ReaperPeriod <= 0 {
		return Config{}, fmt.Errorf("APP_REAPER_PERIOD must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.ProviderMode)) {
	case "auto", "live", "mock":
	default:
		return Config{}, fmt.Errorf("invalid PROVIDER_MODE: %q (expected auto|live|mock)", cfg.ProviderMode)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}
