package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/lead-capture-service/internal/domain"
	"github.com/couchcryptid/lead-capture-service/internal/observability"
)

// sideEffectTimeout bounds the spreadsheet mirror and event publish that
// follow a stored lead.
const sideEffectTimeout = 15 * time.Second

// LeadService stores leads and fans them out to the spreadsheet mirror and
// the event stream.
type LeadService struct {
	store     domain.LeadStore
	syncer    domain.LeadSyncer
	publisher domain.LeadPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewLeadService creates a LeadService. syncer and publisher may be nil to
// disable the spreadsheet mirror and event publishing respectively.
func NewLeadService(store domain.LeadStore, syncer domain.LeadSyncer, publisher domain.LeadPublisher, logger *slog.Logger, metrics *observability.Metrics) *LeadService {
	return &LeadService{
		store:     store,
		syncer:    syncer,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Submit validates and stores a lead, then mirrors and publishes it. Only
// validation and store errors are returned.
func (s *LeadService) Submit(ctx context.Context, sub domain.LeadSubmission) (domain.Lead, error) {
	if err := sub.Validate(); err != nil {
		return domain.Lead{}, err
	}

	lead := domain.NewLead(sub)
	if err := s.store.CreateLead(ctx, lead); err != nil {
		s.metrics.LeadStoreErrors.WithLabelValues("create").Inc()
		return domain.Lead{}, err
	}
	s.metrics.LeadsSubmitted.Inc()
	s.logger.Info("lead stored", "lead_id", lead.ID)

	// Follow-ups outlive the request context.
	sideCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	s.syncLead(sideCtx, lead)
	s.publishLead(sideCtx, lead)

	return lead, nil
}

func (s *LeadService) syncLead(ctx context.Context, lead domain.Lead) {
	if s.syncer == nil {
		s.metrics.SheetSyncs.WithLabelValues("skipped").Inc()
		return
	}
	if err := s.syncer.SyncLead(ctx, lead.SheetRow()); err != nil {
		s.metrics.SheetSyncs.WithLabelValues("error").Inc()
		s.logger.Warn("sheet sync failed", "lead_id", lead.ID, "error", err)
		return
	}
	s.metrics.SheetSyncs.WithLabelValues("success").Inc()
}

func (s *LeadService) publishLead(ctx context.Context, lead domain.Lead) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLead(ctx, lead); err != nil {
		s.metrics.LeadEvents.WithLabelValues("error").Inc()
		s.logger.Error("publish lead event failed", "lead_id", lead.ID, "error", err)
		return
	}
	s.metrics.LeadEvents.WithLabelValues("success").Inc()
}

// List returns every stored lead, newest first.
func (s *LeadService) List(ctx context.Context) ([]domain.Lead, error) {
	leads, err := s.store.ListLeads(ctx)
	if err != nil {
		s.metrics.LeadStoreErrors.WithLabelValues("list").Inc()
		return nil, err
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	domain.SortNewestFirst(leads)
	return leads, nil
}

// SetContacted updates the contacted flag. It returns ErrMissingLeadID for an
// empty id and ErrLeadNotFound for an unknown one.
func (s *LeadService) SetContacted(ctx context.Context, id string, contacted bool) error {
	if id == "" {
		return domain.ErrMissingLeadID
	}
	err := s.store.SetContacted(ctx, id, contacted)
	switch {
	case err == nil:
		s.logger.Info("lead contacted flag updated", "lead_id", id, "contacted", contacted)
		return nil
	case errors.Is(err, domain.ErrLeadNotFound):
		return err
	default:
		s.metrics.LeadStoreErrors.WithLabelValues("update").Inc()
		return err
	}
}

// CheckReadiness returns nil when the lead store answers a ping.
func (s *LeadService) CheckReadiness(ctx context.Context) error {
	return s.store.Ping(ctx)
}
