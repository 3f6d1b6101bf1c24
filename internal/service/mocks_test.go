package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/couchcryptid/lead-capture-service/internal/domain"
)

// --- mocks ---

type memStore struct {
	mu        sync.Mutex
	leads     []domain.Lead
	createErr error
	listErr   error
	updateErr error
	pingErr   error
}

func (m *memStore) CreateLead(_ context.Context, lead domain.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.leads = append(m.leads, lead)
	return nil
}

func (m *memStore) ListLeads(_ context.Context) ([]domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Lead, len(m.leads))
	copy(out, m.leads)
	return out, nil
}

func (m *memStore) SetContacted(_ context.Context, id string, contacted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	for i := range m.leads {
		if m.leads[i].ID == id {
			m.leads[i].Contacted = contacted
			return nil
		}
	}
	return domain.ErrLeadNotFound
}

func (m *memStore) Ping(_ context.Context) error { return m.pingErr }

type recordingSyncer struct {
	mu   sync.Mutex
	rows []domain.SheetRow
	err  error

	// ctxErr is the context error seen at call time.
	ctxErr error
}

func (r *recordingSyncer) SyncLead(ctx context.Context, row domain.SheetRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctxErr = ctx.Err()
	r.rows = append(r.rows, row)
	return r.err
}

type recordingPublisher struct {
	mu    sync.Mutex
	leads []domain.Lead
	err   error
}

func (r *recordingPublisher) PublishLead(_ context.Context, lead domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads = append(r.leads, lead)
	return r.err
}

type stubSource struct {
	text string
	err  error
}

func (s stubSource) FetchStationsCSV(_ context.Context) (string, error) { return s.text, s.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
