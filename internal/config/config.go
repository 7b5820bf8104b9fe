package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the settings shared by the book and order services
type Config struct {
	Port                 string
	DataDir              string
	JWTSecret            string
	LogMode              string
	SearchLimit          int
	UserAgent            string
	OpenLibraryBaseURL   string
	OpenLibraryTimeout   time.Duration
	OpenLibraryRateLimit int
	SummaryConcurrency   int
	CORSOrigins          []string
}

// Load reads defaults, then the optional config file at path, then the environment.
// defaultPort is used when neither the file nor PORT sets one.
func Load(path, defaultPort string) (Config, error) {
	v := viper.New()

	v.SetDefault("PORT", defaultPort)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("LOG_MODE", "dev")
	v.SetDefault("BOOK_SEARCH_LIMIT", 10)
	v.SetDefault("OPENLIBRARY_USER_AGENT", "BookInsights/1.0 (contact@example.com)")
	v.SetDefault("OPENLIBRARY_BASE_URL", "https://openlibrary.org")
	v.SetDefault("OPENLIBRARY_TIMEOUT", "10s")
	v.SetDefault("OPENLIBRARY_RATE_LIMIT", 0)
	v.SetDefault("LIBRARY_SUMMARY_CONCURRENCY", 4)
	v.SetDefault("CORS_ORIGINS", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	cfg := Config{
		Port:                 v.GetString("PORT"),
		DataDir:              v.GetString("DATA_DIR"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		LogMode:              v.GetString("LOG_MODE"),
		SearchLimit:          v.GetInt("BOOK_SEARCH_LIMIT"),
		UserAgent:            v.GetString("OPENLIBRARY_USER_AGENT"),
		OpenLibraryBaseURL:   v.GetString("OPENLIBRARY_BASE_URL"),
		OpenLibraryTimeout:   v.GetDuration("OPENLIBRARY_TIMEOUT"),
		OpenLibraryRateLimit: v.GetInt("OPENLIBRARY_RATE_LIMIT"),
		SummaryConcurrency:   v.GetInt("LIBRARY_SUMMARY_CONCURRENCY"),
		CORSOrigins:          splitList(v.GetString("CORS_ORIGINS")),
	}

	if cfg.SearchLimit <= 0 {
		return Config{}, fmt.Errorf("BOOK_SEARCH_LIMIT must be positive, got %d", cfg.SearchLimit)
	}
	if cfg.OpenLibraryTimeout <= 0 {
		return Config{}, fmt.Errorf("OPENLIBRARY_TIMEOUT must be positive")
	}
	if cfg.SummaryConcurrency <= 0 {
		cfg.SummaryConcurrency = 1
	}
	return cfg, nil
}

// Addr returns the listen address for the configured port
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
