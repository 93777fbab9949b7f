package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated once from environment variables.
// Inner components never read the environment themselves.
type Config struct {
	// OpenWeatherAPIKey and BucketName are deliberately not validated here:
	// an absent secret surfaces as an auth failure from the provider or from
	// S3 at call time, which is where it is reported and contained.
	OpenWeatherAPIKey string
	BucketName        string

	Locations     []string
	FetchTimeout  time.Duration
	FetchInterval time.Duration // 0 means a single one-shot run

	HTTPAddr        string
	ChartDir        string // empty disables PNG files on disk
	ChartFont       string // optional TTF path for chart text
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka observation event publishing (KAFKA_BROKERS / KAFKA_ENABLED).
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	// Best effort: a missing .env just means plain environment variables.
	_ = godotenv.Load()

	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	if fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	fetchInterval, err := parseDuration("FETCH_INTERVAL", "0s")
	if err != nil {
		return nil, err
	}
	if fetchInterval < 0 {
		return nil, errors.New("invalid FETCH_INTERVAL")
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	if shutdownTimeout <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT")
	}

	brokers := splitList(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	chartDir := "charts"
	if v, ok := os.LookupEnv("CHART_DIR"); ok {
		chartDir = v
	}

	cfg := &Config{
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		BucketName:        os.Getenv("AWS_BUCKET_NAME"),
		Locations:         splitList(envOrDefault("LOCATIONS", "Philadelphia,Seattle,New York")),
		FetchTimeout:      fetchTimeout,
		FetchInterval:     fetchInterval,
		HTTPAddr:          envOrDefault("HTTP_ADDR", ":8080"),
		ChartDir:          chartDir,
		ChartFont:         os.Getenv("CHART_FONT"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		LogFormat:         envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:   shutdownTimeout,
		KafkaBrokers:      brokers,
		KafkaTopic:        envOrDefault("KAFKA_TOPIC", "weather-observations"),
		KafkaEnabled:      kafkaEnabled,
	}

	if len(cfg.Locations) == 0 {
		return nil, errors.New("LOCATIONS is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// splitList splits a comma-separated value, trimming whitespace and dropping
// empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
