package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/lead-capture-service/internal/domain"
	"github.com/couchcryptid/lead-capture-service/internal/observability"
)

// StationService turns the station sheet export into station records.
type StationService struct {
	source  domain.StationSource
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewStationService creates a StationService reading from source.
func NewStationService(source domain.StationSource, logger *slog.Logger, metrics *observability.Metrics) *StationService {
	return &StationService{
		source:  source,
		logger:  logger,
		metrics: metrics,
	}
}

// Stations fetches the export and parses it. The result is never nil on
// success. Fetch failures are returned wrapped; the parser itself cannot fail.
func (s *StationService) Stations(ctx context.Context) ([]domain.StationRecord, error) {
	text, err := s.source.FetchStationsCSV(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch stations: %w", err)
	}

	rows := domain.ParseRows(text)
	stations := domain.StationsFromRows(rows)

	if dropped := max(len(rows)-1, 0) - len(stations); dropped > 0 {
		s.metrics.StationRowsDropped.Add(float64(dropped))
		s.logger.Debug("station rows dropped", "dropped", dropped, "rows", len(rows))
	}
	s.metrics.StationsServed.Set(float64(len(stations)))
	return stations, nil
}
