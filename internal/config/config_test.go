package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMongoURI = "mongodb://localhost:27017"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DefaultStationsCSVURL, cfg.StationsCSVURL)
	assert.Equal(t, 10*time.Second, cfg.StationsFetchTimeout)
	assert.Equal(t, time.Duration(0), cfg.StationsCacheTTL)
	assert.Equal(t, 3600, cfg.StationsMaxAge)
	assert.Equal(t, DefaultSheetsWebhookURL, cfg.SheetsWebhookURL)
	assert.Equal(t, 10*time.Second, cfg.SheetsTimeout)
	assert.Equal(t, StoreSQLite, cfg.LeadStore)
	assert.Equal(t, "data/leads.db", cfg.SQLitePath)
	assert.Equal(t, "lead_capture", cfg.MongoDatabase)
	assert.Equal(t, "business_leads", cfg.MongoCollection)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "business-leads", cfg.KafkaLeadsTopic)
	assert.Empty(t, cfg.AdminToken)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("STATIONS_CSV_URL", "http://sheets.test/export.csv")
	t.Setenv("STATIONS_FETCH_TIMEOUT", "3s")
	t.Setenv("STATIONS_CACHE_TTL", "5m")
	t.Setenv("STATIONS_MAX_AGE", "600")
	t.Setenv("SHEETS_WEBHOOK_URL", "http://script.test/exec")
	t.Setenv("SHEETS_TIMEOUT", "2s")
	t.Setenv("LEAD_STORE", "MONGO")
	t.Setenv("MONGO_URI", testMongoURI)
	t.Setenv("MONGO_DATABASE", "leads")
	t.Setenv("MONGO_COLLECTION", "inbound")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_LEADS_TOPIC", "leads-v2")
	t.Setenv("ADMIN_TOKEN", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://sheets.test/export.csv", cfg.StationsCSVURL)
	assert.Equal(t, 3*time.Second, cfg.StationsFetchTimeout)
	assert.Equal(t, 5*time.Minute, cfg.StationsCacheTTL)
	assert.Equal(t, 600, cfg.StationsMaxAge)
	assert.Equal(t, "http://script.test/exec", cfg.SheetsWebhookURL)
	assert.Equal(t, 2*time.Second, cfg.SheetsTimeout)
	assert.Equal(t, StoreMongo, cfg.LeadStore)
	assert.Equal(t, testMongoURI, cfg.MongoURI)
	assert.Equal(t, "leads", cfg.MongoDatabase)
	assert.Equal(t, "inbound", cfg.MongoCollection)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, "leads-v2", cfg.KafkaLeadsTopic)
	assert.Equal(t, "s3cret", cfg.AdminToken)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoad_EmptyWebhookDisablesSync(t *testing.T) {
	t.Setenv("SHEETS_WEBHOOK_URL", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.SheetsWebhookURL)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"STATIONS_FETCH_TIMEOUT", "SHEETS_TIMEOUT"} {
		t.Run(key+" bad", func(t *testing.T) {
			t.Setenv(key, "bad")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
		t.Run(key+" zero", func(t *testing.T) {
			t.Setenv(key, "0s")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_NegativeCacheTTL(t *testing.T) {
	t.Setenv("STATIONS_CACHE_TTL", "-1m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATIONS_CACHE_TTL")
}

func TestLoad_InvalidMaxAge(t *testing.T) {
	for _, v := range []string{"0", "-5", "hour"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("STATIONS_MAX_AGE", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "STATIONS_MAX_AGE")
		})
	}
}

func TestLoad_UnknownLeadStore(t *testing.T) {
	t.Setenv("LEAD_STORE", "firestore")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LEAD_STORE")
}

func TestLoad_MongoWithoutURI(t *testing.T) {
	t.Setenv("LEAD_STORE", "mongo")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")
}
