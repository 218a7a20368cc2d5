package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Session   SessionConfig
	TMDB      TMDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Sentry    SentryConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type SessionConfig struct {
	ExpiryHours int
}

type TMDBConfig struct {
	APIKey          string
	BaseURL         string
	ImageBaseURL    string
	Language        string
	Timeout         time.Duration
	CacheTTL        time.Duration
	AggregatePages  int
	AggregateMaxLen int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig holds requests-per-minute budgets
type RateLimitConfig struct {
	Auth   int
	Redeem int
	API    int
}

type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "movie-discovery")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24*7)
	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p")
	viper.SetDefault("TMDB_LANGUAGE", "en-US")
	viper.SetDefault("TMDB_TIMEOUT_SECONDS", 10)
	viper.SetDefault("TMDB_CACHE_TTL_MINUTES", 30)
	viper.SetDefault("TMDB_AGGREGATE_PAGES", 3)
	viper.SetDefault("TMDB_AGGREGATE_MAX", 60)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT_AUTH", 10)
	viper.SetDefault("RATE_LIMIT_REDEEM", 5)
	viper.SetDefault("RATE_LIMIT_API", 120)
	viper.SetDefault("APP_ENV", "development")

	// .env is optional in containers, everything can come from the environment
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        viper.GetString("APP_NAME"),
			Port:        viper.GetString("PORT"),
			Debug:       viper.GetBool("DEBUG"),
			LogPath:     viper.GetString("LOG_PATH"),
			CORSOrigins: splitList(viper.GetString("CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		TMDB: TMDBConfig{
			APIKey:          viper.GetString("TMDB_API_KEY"),
			BaseURL:         viper.GetString("TMDB_BASE_URL"),
			ImageBaseURL:    viper.GetString("TMDB_IMAGE_BASE_URL"),
			Language:        viper.GetString("TMDB_LANGUAGE"),
			Timeout:         time.Duration(viper.GetInt("TMDB_TIMEOUT_SECONDS")) * time.Second,
			CacheTTL:        time.Duration(viper.GetInt("TMDB_CACHE_TTL_MINUTES")) * time.Minute,
			AggregatePages:  viper.GetInt("TMDB_AGGREGATE_PAGES"),
			AggregateMaxLen: viper.GetInt("TMDB_AGGREGATE_MAX"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Auth:   viper.GetInt("RATE_LIMIT_AUTH"),
			Redeem: viper.GetInt("RATE_LIMIT_REDEEM"),
			API:    viper.GetInt("RATE_LIMIT_API"),
		},
		Sentry: SentryConfig{
			DSN:         viper.GetString("SENTRY_DSN"),
			Environment: viper.GetString("APP_ENV"),
			Release:     viper.GetString("APP_RELEASE"),
		},
	}

	return config, nil
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
