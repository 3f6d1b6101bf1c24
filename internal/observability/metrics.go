package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lead_capture"

// Metrics holds the Prometheus counters and histograms for the service.
type Metrics struct {
	// Station sheet.
	StationFetches       *prometheus.CounterVec // labels: outcome={success,error}
	StationFetchDuration prometheus.Histogram
	StationsServed       prometheus.Gauge
	StationRowsDropped   prometheus.Counter
	StationCache         *prometheus.CounterVec // labels: result={hit,miss}

	// Leads.
	LeadsSubmitted  prometheus.Counter
	LeadStoreErrors *prometheus.CounterVec // labels: op={create,list,update}
	SheetSyncs      *prometheus.CounterVec // labels: outcome={success,error,skipped}
	LeadEvents      *prometheus.CounterVec // labels: outcome={success,error}

	// HTTP.
	HTTPRequestDuration *prometheus.HistogramVec // labels: route, method, status
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates Metrics registered with reg. The command-line
// tools pass a private registry since they never expose /metrics.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered with a throwaway registry to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewMetricsWithRegistry(prometheus.NewRegistry())
}

func newMetrics() *Metrics {
	return &Metrics{
		StationFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "station_fetches_total",
			Help:      "Station sheet exports fetched, by outcome.",
		}, []string{"outcome"}),
		StationFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "station_fetch_duration_seconds",
			Help:      "Duration of the station sheet export request.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StationsServed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stations_served",
			Help:      "Number of stations in the most recently parsed export.",
		}),
		StationRowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "station_rows_dropped_total",
			Help:      "Data rows skipped because they were too short or had no name.",
		}),
		StationCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "station_cache_total",
			Help:      "Station cache lookups by result.",
		}, []string{"result"}),
		LeadsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_submitted_total",
			Help:      "Leads accepted and stored.",
		}),
		LeadStoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_store_errors_total",
			Help:      "Lead store failures by operation.",
		}, []string{"op"}),
		SheetSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sheet_syncs_total",
			Help:      "Lead spreadsheet mirror attempts by outcome.",
		}, []string{"outcome"}),
		LeadEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_events_total",
			Help:      "Lead events published by outcome.",
		}, []string{"outcome"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route, method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.StationFetches,
		m.StationFetchDuration,
		m.StationsServed,
		m.StationRowsDropped,
		m.StationCache,
		m.LeadsSubmitted,
		m.LeadStoreErrors,
		m.SheetSyncs,
		m.LeadEvents,
		m.HTTPRequestDuration,
	}
}
