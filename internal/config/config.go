package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime knob of the bot. Thresholds that drifted across
// historical iterations of the pipeline live here instead of being hard-coded.
type Config struct {
	// Telegram settings
	TelegramToken  string
	TelegramChatID string
	DiscussURL     string

	// Task selection: breaking | digest | image | welcome
	Task string

	// Feed settings
	FeedsConfigPath string
	RequestTimeout  time.Duration
	MaxPerFeed      int

	// Scoring / selection thresholds
	LookbackHours        int
	DigestWindowHours    int
	DigestFallbackHours  int
	BreakingMaxAge       time.Duration
	SuperBreakingMaxAge  time.Duration
	DigestSize           int
	DigestFlagshipMax    int
	AggregatorCap        int
	ImageWindowHours     int
	MinBreakingScore     float64
	SignalWindow         time.Duration

	// Seen-store settings
	SeenFilePath string
	SeenTTLHours int
	DatabaseURL  string // when set, the Postgres seen-store is used

	// Publish settings
	RetryAttempts int
	RetryDelay    time.Duration
	ZapierHookURL string

	// Post budget per task kind per day (0 = unlimited)
	MaxPostsPerDay int

	Debug bool
}

// Load reads configuration from the environment (a local .env file is
// honoured when present) and applies defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Task:                "digest",
		FeedsConfigPath:     "configs/feeds.yaml",
		RequestTimeout:      15 * time.Second,
		MaxPerFeed:          25,
		LookbackHours:       48,
		DigestWindowHours:   24,
		DigestFallbackHours: 72,
		BreakingMaxAge:      15 * time.Minute,
		SuperBreakingMaxAge: 5 * time.Minute,
		DigestSize:          5,
		DigestFlagshipMax:   3,
		AggregatorCap:       1,
		ImageWindowHours:    96,
		MinBreakingScore:    1.6,
		SignalWindow:        time.Hour,
		SeenFilePath:        "data/seen.json",
		SeenTTLHours:        336,
		RetryAttempts:       3,
		RetryDelay:          2 * time.Second,
		MaxPostsPerDay:      0,
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHANNEL_ID")
	cfg.DiscussURL = getEnvOrDefault("DISCUSS_URL", "https://x.com/RedHorizonHub")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.ZapierHookURL = os.Getenv("ZAPIER_HOOK_URL")

	if task := os.Getenv("TASK"); task != "" {
		cfg.Task = task
	}
	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.SeenFilePath = getEnvOrDefault("SEEN_FILE_PATH", cfg.SeenFilePath)

	cfg.LookbackHours = getEnvIntOrDefault("LOOKBACK_HOURS", cfg.LookbackHours)
	cfg.DigestWindowHours = getEnvIntOrDefault("DIGEST_WINDOW_HOURS", cfg.DigestWindowHours)
	cfg.DigestFallbackHours = getEnvIntOrDefault("DIGEST_FALLBACK_HOURS", cfg.DigestFallbackHours)
	cfg.DigestSize = getEnvIntOrDefault("DIGEST_SIZE", cfg.DigestSize)
	cfg.DigestFlagshipMax = getEnvIntOrDefault("DIGEST_FLAGSHIP_MAX", cfg.DigestFlagshipMax)
	cfg.AggregatorCap = getEnvIntOrDefault("AGGREGATOR_CAP", cfg.AggregatorCap)
	cfg.ImageWindowHours = getEnvIntOrDefault("IMAGE_WINDOW_HOURS", cfg.ImageWindowHours)
	cfg.SeenTTLHours = getEnvIntOrDefault("SEEN_TTL_HOURS", cfg.SeenTTLHours)
	cfg.MaxPerFeed = getEnvIntOrDefault("MAX_PER_FEED", cfg.MaxPerFeed)
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.MaxPostsPerDay = getEnvIntOrDefault("MAX_POSTS_PER_DAY", cfg.MaxPostsPerDay)

	if v := getEnvIntOrDefault("BREAKING_MAX_AGE_MINUTES", 0); v > 0 {
		cfg.BreakingMaxAge = time.Duration(v) * time.Minute
	}
	if v := getEnvIntOrDefault("SUPER_BREAKING_MAX_AGE_MINUTES", 0); v > 0 {
		cfg.SuperBreakingMaxAge = time.Duration(v) * time.Minute
	}
	if v := getEnvIntOrDefault("SIGNAL_WINDOW_MINUTES", 0); v > 0 {
		cfg.SignalWindow = time.Duration(v) * time.Minute
	}
	if v := getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", 0); v > 0 {
		cfg.RequestTimeout = time.Duration(v) * time.Second
	}
	if v := getEnvIntOrDefault("RETRY_DELAY_SECONDS", 0); v > 0 {
		cfg.RetryDelay = time.Duration(v) * time.Second
	}
	if v := os.Getenv("MIN_BREAKING_SCORE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MinBreakingScore = f
		}
	}

	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate checks the fields the bot cannot run without.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.TelegramChatID == "" {
		return fmt.Errorf("TELEGRAM_CHANNEL_ID is required")
	}
	switch c.Task {
	case "breaking", "digest", "image", "welcome":
	default:
		return fmt.Errorf("TASK must be one of breaking, digest, image, welcome; got %q", c.Task)
	}
	if c.DigestSize <= 0 {
		return fmt.Errorf("DIGEST_SIZE must be positive")
	}
	if c.DigestFallbackHours < c.DigestWindowHours {
		return fmt.Errorf("DIGEST_FALLBACK_HOURS must not be shorter than DIGEST_WINDOW_HOURS")
	}
	return nil
}
