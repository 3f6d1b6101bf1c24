package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/lead-capture-service/internal/domain"
	"github.com/couchcryptid/lead-capture-service/internal/observability"
	"github.com/couchcryptid/lead-capture-service/internal/service"
)

var validSubmission = domain.LeadSubmission{
	Name:  "Mama Put",
	Email: "mp@example.com",
	Phone: "0802",
}

func freezeClock(t *testing.T, at time.Time) *clockwork.FakeClock {
	t.Helper()
	fc := clockwork.NewFakeClockAt(at)
	domain.SetClock(fc)
	t.Cleanup(func() { domain.SetClock(nil) })
	return fc
}

func TestLeadService_Submit_HappyPath(t *testing.T) {
	at := time.Date(2025, 3, 3, 8, 30, 0, 0, time.UTC)
	freezeClock(t, at)

	store := &memStore{}
	syncer := &recordingSyncer{}
	pub := &recordingPublisher{}
	m := observability.NewMetricsForTesting()
	svc := service.NewLeadService(store, syncer, pub, discardLogger(), m)

	lead, err := svc.Submit(context.Background(), validSubmission)
	require.NoError(t, err)

	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, domain.DefaultEstimate, lead.MonthlyEstimate)
	require.NotNil(t, lead.SubmittedAt)
	assert.True(t, at.Equal(*lead.SubmittedAt))

	require.Len(t, store.leads, 1)
	assert.Equal(t, lead, store.leads[0])

	require.Len(t, syncer.rows, 1)
	assert.Equal(t, lead.SheetRow(), syncer.rows[0])
	assert.Equal(t, "2025-03-03T08:30:00Z", syncer.rows[0].SubmittedAt)

	require.Len(t, pub.leads, 1)
	assert.Equal(t, lead.ID, pub.leads[0].ID)

	assert.InDelta(t, 1, testutil.ToFloat64(m.LeadsSubmitted), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SheetSyncs.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LeadEvents.WithLabelValues("success")), 0)
}

func TestLeadService_Submit_MissingFields(t *testing.T) {
	store := &memStore{}
	syncer := &recordingSyncer{}
	svc := service.NewLeadService(store, syncer, nil, discardLogger(), observability.NewMetricsForTesting())

	_, err := svc.Submit(context.Background(), domain.LeadSubmission{Name: "x", Email: "y"})
	require.ErrorIs(t, err, domain.ErrMissingFields)
	assert.Empty(t, store.leads)
	assert.Empty(t, syncer.rows)
}

func TestLeadService_Submit_StoreError(t *testing.T) {
	store := &memStore{createErr: errors.New("disk full")}
	syncer := &recordingSyncer{}
	pub := &recordingPublisher{}
	m := observability.NewMetricsForTesting()
	svc := service.NewLeadService(store, syncer, pub, discardLogger(), m)

	_, err := svc.Submit(context.Background(), validSubmission)
	require.EqualError(t, err, "disk full")
	assert.Empty(t, syncer.rows, "no sync without a stored lead")
	assert.Empty(t, pub.leads)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LeadStoreErrors.WithLabelValues("create")), 0)
}

func TestLeadService_Submit_SideEffectFailuresIgnored(t *testing.T) {
	store := &memStore{}
	syncer := &recordingSyncer{err: errors.New("status 500")}
	pub := &recordingPublisher{err: errors.New("no brokers")}
	m := observability.NewMetricsForTesting()
	svc := service.NewLeadService(store, syncer, pub, discardLogger(), m)

	lead, err := svc.Submit(context.Background(), validSubmission)
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Len(t, store.leads, 1)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SheetSyncs.WithLabelValues("error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LeadEvents.WithLabelValues("error")), 0)
}

func TestLeadService_Submit_SideEffectsSurviveCancelledRequest(t *testing.T) {
	store := &memStore{}
	syncer := &recordingSyncer{}
	svc := service.NewLeadService(store, syncer, nil, discardLogger(), observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Submit(ctx, validSubmission)
	require.NoError(t, err)
	require.Len(t, syncer.rows, 1)
	assert.NoError(t, syncer.ctxErr)
}

func TestLeadService_Submit_SyncDisabled(t *testing.T) {
	m := observability.NewMetricsForTesting()
	svc := service.NewLeadService(&memStore{}, nil, nil, discardLogger(), m)

	_, err := svc.Submit(context.Background(), validSubmission)
	require.NoError(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SheetSyncs.WithLabelValues("skipped")), 0)
}

func TestLeadService_List_NewestFirst(t *testing.T) {
	fc := freezeClock(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	store := &memStore{}
	svc := service.NewLeadService(store, nil, nil, discardLogger(), observability.NewMetricsForTesting())

	first, err := svc.Submit(context.Background(), validSubmission)
	require.NoError(t, err)
	fc.Advance(time.Hour)
	second, err := svc.Submit(context.Background(), validSubmission)
	require.NoError(t, err)
	store.leads = append(store.leads, domain.Lead{ID: "legacy"})

	leads, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 3)
	assert.Equal(t, second.ID, leads[0].ID)
	assert.Equal(t, first.ID, leads[1].ID)
	assert.Equal(t, "legacy", leads[2].ID)
}

func TestLeadService_List_Empty(t *testing.T) {
	svc := service.NewLeadService(&memStore{}, nil, nil, discardLogger(), observability.NewMetricsForTesting())

	leads, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, leads)
	assert.Empty(t, leads)
}

func TestLeadService_List_StoreError(t *testing.T) {
	m := observability.NewMetricsForTesting()
	svc := service.NewLeadService(&memStore{listErr: errors.New("timeout")}, nil, nil, discardLogger(), m)

	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LeadStoreErrors.WithLabelValues("list")), 0)
}

func TestLeadService_SetContacted(t *testing.T) {
	store := &memStore{leads: []domain.Lead{{ID: "a"}}}
	svc := service.NewLeadService(store, nil, nil, discardLogger(), observability.NewMetricsForTesting())

	require.NoError(t, svc.SetContacted(context.Background(), "a", true))
	assert.True(t, store.leads[0].Contacted)

	require.NoError(t, svc.SetContacted(context.Background(), "a", false))
	assert.False(t, store.leads[0].Contacted)
}

func TestLeadService_SetContacted_Errors(t *testing.T) {
	tests := []struct {
		name    string
		store   *memStore
		id      string
		wantErr error
	}{
		{"missing id", &memStore{}, "", domain.ErrMissingLeadID},
		{"unknown id", &memStore{leads: []domain.Lead{{ID: "a"}}}, "b", domain.ErrLeadNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewLeadService(tt.store, nil, nil, discardLogger(), observability.NewMetricsForTesting())
			err := svc.SetContacted(context.Background(), tt.id, true)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLeadService_SetContacted_StoreError(t *testing.T) {
	m := observability.NewMetricsForTesting()
	svc := service.NewLeadService(&memStore{updateErr: errors.New("locked")}, nil, nil, discardLogger(), m)

	err := svc.SetContacted(context.Background(), "a", true)
	require.EqualError(t, err, "locked")
	assert.InDelta(t, 1, testutil.ToFloat64(m.LeadStoreErrors.WithLabelValues("update")), 0)
}

func TestLeadService_CheckReadiness(t *testing.T) {
	store := &memStore{}
	svc := service.NewLeadService(store, nil, nil, discardLogger(), observability.NewMetricsForTesting())
	require.NoError(t, svc.CheckReadiness(context.Background()))

	store.pingErr = errors.New("down")
	require.Error(t, svc.CheckReadiness(context.Background()))
}
