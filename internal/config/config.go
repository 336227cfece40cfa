package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// DefaultFeedURLs are the NHC GIS feeds for the Atlantic and East Pacific basins.
const DefaultFeedURLs = "https://www.nhc.noaa.gov/gis-at.xml,https://www.nhc.noaa.gov/gis-ep.xml"

// Config holds all service settings, populated from environment variables.
type Config struct {
	FeedURLs   []string
	StormNames []string
	OutputDir  string
	CacheDir   string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Schedule is a cron expression. Empty runs the conversion once.
	Schedule         string
	FetchTimeout     time.Duration
	ArchiveCacheSize int

	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from a .env file (if present) and the
// environment, applying defaults where unset.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "30s"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	cacheSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("ARCHIVE_CACHE_SIZE", "64"))
	if err != nil || cacheSize <= 0 {
		return nil, errors.New("invalid ARCHIVE_CACHE_SIZE")
	}

	storms, err := stormNames()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		FeedURLs:         splitList(sharedcfg.EnvOrDefault("FEED_URLS", DefaultFeedURLs)),
		StormNames:       storms,
		OutputDir:        sharedcfg.EnvOrDefault("OUTPUT_DIR", "output"),
		CacheDir:         sharedcfg.EnvOrDefault("CACHE_DIR", "cache"),
		HTTPAddr:         sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		Schedule:         strings.TrimSpace(os.Getenv("SCHEDULE")),
		FetchTimeout:     fetchTimeout,
		ArchiveCacheSize: cacheSize,
		KafkaEnabled:     os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:   strings.TrimSpace(sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "storm-track-geojson")),
	}

	if len(cfg.FeedURLs) == 0 {
		return nil, errors.New("FEED_URLS is required")
	}
	if len(cfg.StormNames) == 0 {
		return nil, errors.New("STORM_NAMES or STORM_NAMES_FILE is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			return nil, fmt.Errorf("invalid SCHEDULE: %w", err)
		}
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

// stormNames merges STORM_NAMES with the lines of STORM_NAMES_FILE,
// dropping blanks and duplicates.
func stormNames() ([]string, error) {
	names := splitList(os.Getenv("STORM_NAMES"))

	if path := os.Getenv("STORM_NAMES_FILE"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("STORM_NAMES_FILE: %w", err)
		}
		defer f.Close()

		sc := bufio.NewScanner(f)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				names = append(names, line)
			}
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("STORM_NAMES_FILE: %w", err)
		}
	}

	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		key := strings.ToUpper(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
