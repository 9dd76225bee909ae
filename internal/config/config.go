package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/shelter-nav/internal/domain"
)

// Default alert feed endpoints.
const (
	DefaultQuakeURL   = "https://api.p2pquake.net/v2/history?codes=551&limit=10"
	DefaultWarningURL = "https://www.jma.go.jp/bosai/warning/data/warning/170000.json"
	DefaultFeedURL    = "https://www.data.jma.go.jp/developer/xml/feed/extra.xml"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	SheltersPath string
	// UserPosition is the fallback position when a request carries none.
	// Nil when USER_LON/USER_LAT are unset.
	UserPosition *domain.Coordinate
	RouteProfile domain.Profile

	// Mapbox Directions configuration.
	MapboxToken      string
	MapboxEnabled    bool
	MapboxTimeout    time.Duration
	MapboxCacheSize  int
	MapboxGeometries string

	// Alert ingestion configuration.
	AlertPollInterval     time.Duration
	AlertFetchTimeout     time.Duration
	AlertBufferSize       int
	AlertDedupTTL         time.Duration
	AlertSeismicThreshold string
	AlertWarningKeywords  []string
	AlertAdvisoryKeywords []string
	AlertQuakeURL         string
	AlertWarningURL       string
	AlertFeedURL          string

	// Optional Kafka alert publishing; disabled when KafkaBrokers is empty.
	KafkaBrokers    []string
	KafkaAlertTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	pollInterval, err := parsePositiveDuration("ALERT_POLL_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parsePositiveDuration("ALERT_FETCH_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	dedupTTL, err := parsePositiveDuration("ALERT_DEDUP_TTL", "1h")
	if err != nil {
		return nil, err
	}
	bufferSize, err := parsePositiveInt("ALERT_BUFFER_SIZE", 5)
	if err != nil {
		return nil, err
	}

	profile, err := domain.ParseProfile(sharedcfg.EnvOrDefault("ROUTE_PROFILE", string(domain.ProfileDriving)))
	if err != nil {
		return nil, fmt.Errorf("invalid ROUTE_PROFILE: %w", err)
	}

	userPos, err := parseUserPosition()
	if err != nil {
		return nil, err
	}

	threshold := sharedcfg.EnvOrDefault("ALERT_SEISMIC_THRESHOLD", "5-")
	if _, ok := domain.ParseIntensity(threshold); !ok {
		return nil, fmt.Errorf("invalid ALERT_SEISMIC_THRESHOLD %q", threshold)
	}

	geometries := sharedcfg.EnvOrDefault("MAPBOX_GEOMETRIES", "geojson")
	if geometries != "geojson" && geometries != "polyline" {
		return nil, fmt.Errorf("invalid MAPBOX_GEOMETRIES %q: must be geojson or polyline", geometries)
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SheltersPath: sharedcfg.EnvOrDefault("SHELTERS_PATH", "shelters.json"),
		UserPosition: userPos,
		RouteProfile: profile,

		MapboxToken:      mapboxToken,
		MapboxEnabled:    mapboxEnabled,
		MapboxTimeout:    mapboxTimeout,
		MapboxCacheSize:  parseMapboxCacheSize(),
		MapboxGeometries: geometries,

		AlertPollInterval:     pollInterval,
		AlertFetchTimeout:     fetchTimeout,
		AlertBufferSize:       bufferSize,
		AlertDedupTTL:         dedupTTL,
		AlertSeismicThreshold: threshold,
		AlertWarningKeywords:  splitList(sharedcfg.EnvOrDefault("ALERT_WARNING_KEYWORDS", "特別警報,警報,warning,大津波")),
		AlertAdvisoryKeywords: splitList(sharedcfg.EnvOrDefault("ALERT_ADVISORY_KEYWORDS", "警報解除,注意報,advisory,予報")),
		AlertQuakeURL:         envOrDefaultAllowEmpty("ALERT_QUAKE_URL", DefaultQuakeURL),
		AlertWarningURL:       envOrDefaultAllowEmpty("ALERT_WARNING_URL", DefaultWarningURL),
		AlertFeedURL:          envOrDefaultAllowEmpty("ALERT_FEED_URL", DefaultFeedURL),

		KafkaBrokers:    brokers,
		KafkaAlertTopic: sharedcfg.EnvOrDefault("KAFKA_ALERT_TOPIC", "shelter-alerts"),
	}

	if cfg.SheltersPath == "" {
		return nil, errors.New("SHELTERS_PATH is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaAlertTopic == "" {
		return nil, errors.New("KAFKA_ALERT_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether alerts are also published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	s := sharedcfg.EnvOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, s)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, s)
	}
	return n, nil
}

func parseUserPosition() (*domain.Coordinate, error) {
	lonStr, latStr := os.Getenv("USER_LON"), os.Getenv("USER_LAT")
	if lonStr == "" && latStr == "" {
		return nil, nil
	}
	if lonStr == "" || latStr == "" {
		return nil, errors.New("USER_LON and USER_LAT must be set together")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid USER_LON %q: %w", lonStr, err)
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid USER_LAT %q: %w", latStr, err)
	}
	c := domain.Coordinate{Lon: lon, Lat: lat}
	if !c.Valid() {
		return nil, fmt.Errorf("USER_LON/USER_LAT out of range: %s", c)
	}
	return &c, nil
}

// envOrDefaultAllowEmpty is like EnvOrDefault but treats an explicitly empty
// variable as a value, so operators can disable a feed with FOO_URL="".
func envOrDefaultAllowEmpty(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return def
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
