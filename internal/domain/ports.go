package domain

import "context"

// StationSource fetches the raw station sheet export.
type StationSource interface {
	FetchStationsCSV(ctx context.Context) (string, error)
}

// LeadStore persists leads. Implementations must be safe for concurrent use.
type LeadStore interface {
	CreateLead(ctx context.Context, lead Lead) error
	ListLeads(ctx context.Context) ([]Lead, error)

	// SetContacted returns ErrLeadNotFound when no lead has the given ID.
	SetContacted(ctx context.Context, id string, contacted bool) error

	Ping(ctx context.Context) error
}

// LeadSyncer mirrors a lead to an external spreadsheet.
type LeadSyncer interface {
	SyncLead(ctx context.Context, row SheetRow) error
}

// LeadPublisher announces newly stored leads to downstream consumers.
type LeadPublisher interface {
	PublishLead(ctx context.Context, lead Lead) error
}
