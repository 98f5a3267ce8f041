package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Geocoding providers selectable through GEOCODE_PROVIDER.
const (
	ProviderAPI    = "api"
	ProviderMapbox = "mapbox"
)

// Config holds all settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Base URL of the Geocoding and Analysis services.
	APIBaseURL string
	APITimeout time.Duration

	// GeocodeProvider selects how the client resolves addresses: through the
	// Geocoding Service ("api") or directly against Mapbox ("mapbox").
	GeocodeProvider string

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Shared geocode cache. Empty RedisAddr disables it.
	RedisAddr     string
	RedisCacheTTL time.Duration

	// Assessment feed.
	KafkaEnabled         bool
	KafkaBrokers         []string
	KafkaAssessmentTopic string

	// IP geolocation standing in for the device position primitive.
	DeviceLocatorEnabled bool
	DeviceLocatorURL     string

	ResultCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	apiTimeout, err := parseDuration("API_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	redisTTL, err := parseDuration("REDIS_CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		APIBaseURL: strings.TrimRight(sharedcfg.EnvOrDefault("API_BASE_URL", "http://localhost:8080"), "/"),
		APITimeout: apiTimeout,

		GeocodeProvider: strings.ToLower(sharedcfg.EnvOrDefault("GEOCODE_PROVIDER", ProviderAPI)),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parsePositiveInt("MAPBOX_CACHE_SIZE", 1000),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisCacheTTL: redisTTL,

		KafkaEnabled:         os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:         sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAssessmentTopic: sharedcfg.EnvOrDefault("KAFKA_ASSESSMENT_TOPIC", "climate-assessments"),

		DeviceLocatorEnabled: os.Getenv("DEVICE_LOCATOR_ENABLED") != "false",
		DeviceLocatorURL:     sharedcfg.EnvOrDefault("DEVICE_LOCATOR_URL", "http://ip-api.com/json/"),

		ResultCacheSize: parsePositiveInt("RESULT_CACHE_SIZE", 500),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.GeocodeProvider {
	case ProviderAPI, ProviderMapbox:
	default:
		return fmt.Errorf("invalid GEOCODE_PROVIDER %q: want %q or %q", c.GeocodeProvider, ProviderAPI, ProviderMapbox)
	}
	if c.MapboxEnabled && c.MapboxToken == "" {
		return errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if c.GeocodeProvider == ProviderMapbox && !c.MapboxEnabled {
		return errors.New("GEOCODE_PROVIDER=mapbox requires MAPBOX_TOKEN")
	}
	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if c.KafkaAssessmentTopic == "" {
			return errors.New("KAFKA_ASSESSMENT_TOPIC is required when KAFKA_ENABLED is true")
		}
	}
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	return nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}
