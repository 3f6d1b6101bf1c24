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

// DefaultStationsCSVURL is the published export of the delivery station sheet.
const DefaultStationsCSVURL = "https://docs.google.com/spreadsheets/d/19_ER7XMk2DSo_iTFL7RY1Hk_KRwkbuMEh6AEd5TypqM/export?format=csv&gid=0"

// DefaultSheetsWebhookURL is the Apps Script deployment that appends leads to
// the sales sheet.
const DefaultSheetsWebhookURL = "https://script.google.com/macros/s/AKfycbySb7Kzbzq9BapO8z-PizM3Ahjy4Ly4NcsrHvOKruRLAoTvRpvacpV8JzoSkhiWaUtL/exec"

// Lead store backends.
const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Station sheet.
	StationsCSVURL       string
	StationsFetchTimeout time.Duration
	StationsCacheTTL     time.Duration
	StationsMaxAge       int

	// Lead spreadsheet mirror. Empty URL disables the sync.
	SheetsWebhookURL string
	SheetsTimeout    time.Duration

	LeadStore       string
	SQLitePath      string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// Lead events. No brokers disables publishing.
	KafkaBrokers    []string
	KafkaLeadsTopic string

	AdminToken         string
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := positiveDuration("STATIONS_FETCH_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	sheetsTimeout, err := positiveDuration("SHEETS_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("STATIONS_CACHE_TTL", "0s"))
	if err != nil || cacheTTL < 0 {
		return nil, errors.New("invalid STATIONS_CACHE_TTL")
	}

	maxAge, err := strconv.Atoi(sharedcfg.EnvOrDefault("STATIONS_MAX_AGE", "3600"))
	if err != nil || maxAge <= 0 {
		return nil, errors.New("invalid STATIONS_MAX_AGE: must be a positive number of seconds")
	}

	var brokers []string
	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		StationsCSVURL:       sharedcfg.EnvOrDefault("STATIONS_CSV_URL", DefaultStationsCSVURL),
		StationsFetchTimeout: fetchTimeout,
		StationsCacheTTL:     cacheTTL,
		StationsMaxAge:       maxAge,

		SheetsWebhookURL: webhookURL(),
		SheetsTimeout:    sheetsTimeout,

		LeadStore:       strings.ToLower(sharedcfg.EnvOrDefault("LEAD_STORE", StoreSQLite)),
		SQLitePath:      sharedcfg.EnvOrDefault("SQLITE_PATH", "data/leads.db"),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDatabase:   sharedcfg.EnvOrDefault("MONGO_DATABASE", "lead_capture"),
		MongoCollection: sharedcfg.EnvOrDefault("MONGO_COLLECTION", "business_leads"),

		KafkaBrokers:    brokers,
		KafkaLeadsTopic: sharedcfg.EnvOrDefault("KAFKA_LEADS_TOPIC", "business-leads"),

		AdminToken:         os.Getenv("ADMIN_TOKEN"),
		CORSAllowedOrigins: splitList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.StationsCSVURL == "" {
		return nil, errors.New("STATIONS_CSV_URL is required")
	}
	switch cfg.LeadStore {
	case StoreSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLITE_PATH is required when LEAD_STORE is sqlite")
		}
	case StoreMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New("MONGO_URI is required when LEAD_STORE is mongo")
		}
	default:
		return nil, fmt.Errorf("invalid LEAD_STORE %q (allowed: sqlite, mongo)", cfg.LeadStore)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaLeadsTopic == "" {
		return nil, errors.New("KAFKA_LEADS_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether lead events should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// webhookURL distinguishes an unset SHEETS_WEBHOOK_URL (use the default)
// from one explicitly set to empty (sync disabled).
func webhookURL() string {
	if v, ok := os.LookupEnv("SHEETS_WEBHOOK_URL"); ok {
		return strings.TrimSpace(v)
	}
	return DefaultSheetsWebhookURL
}

func positiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
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
