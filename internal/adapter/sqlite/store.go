package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // register the sqlite3 driver

	"github.com/couchcryptid/lead-capture-service/internal/domain"
)

const memoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id               TEXT PRIMARY KEY,
	business_name    TEXT NOT NULL,
	email            TEXT NOT NULL,
	phone            TEXT NOT NULL,
	monthly_estimate TEXT NOT NULL,
	submitted_at     TEXT,
	contacted        INTEGER NOT NULL DEFAULT 0
)`

// Store implements domain.LeadStore on a local SQLite database.
type Store struct {
	db *sqlx.DB
}

type leadRow struct {
	ID              string         `db:"id"`
	BusinessName    string         `db:"business_name"`
	Email           string         `db:"email"`
	Phone           string         `db:"phone"`
	MonthlyEstimate string         `db:"monthly_estimate"`
	SubmittedAt     sql.NullString `db:"submitted_at"`
	Contacted       bool           `db:"contacted"`
}

// Open opens (creating if needed) the database at path and applies the schema.
// Pass ":memory:" for a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn, err := buildDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func buildDSN(path string) (string, error) {
	if path == memoryPath {
		return memoryPath, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	if strings.HasPrefix(path, "file:") {
		return path, nil
	}
	return "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL", nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateLead(ctx context.Context, lead domain.Lead) error {
	const q = `
		INSERT INTO leads (id, business_name, email, phone, monthly_estimate, submitted_at, contacted)
		VALUES (:id, :business_name, :email, :phone, :monthly_estimate, :submitted_at, :contacted)`
	if _, err := s.db.NamedExecContext(ctx, q, toRow(lead)); err != nil {
		return fmt.Errorf("insert lead %s: %w", lead.ID, err)
	}
	return nil
}

func (s *Store) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	var rows []leadRow
	const q = `
		SELECT id, business_name, email, phone, monthly_estimate, submitted_at, contacted
		FROM leads ORDER BY rowid`
	if err := s.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	leads := make([]domain.Lead, 0, len(rows))
	for _, r := range rows {
		lead, err := r.toLead()
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func (s *Store) SetContacted(ctx context.Context, id string, contacted bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE leads SET contacted = ? WHERE id = ?`, contacted, id)
	if err != nil {
		return fmt.Errorf("update lead %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lead %s: %w", id, err)
	}
	if n == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func toRow(l domain.Lead) leadRow {
	r := leadRow{
		ID:              l.ID,
		BusinessName:    l.BusinessName,
		Email:           l.Email,
		Phone:           l.Phone,
		MonthlyEstimate: l.MonthlyEstimate,
		Contacted:       l.Contacted,
	}
	if l.SubmittedAt != nil {
		r.SubmittedAt = sql.NullString{String: l.SubmittedAt.UTC().Format(time.RFC3339Nano), Valid: true}
	}
	return r
}

func (r leadRow) toLead() (domain.Lead, error) {
	l := domain.Lead{
		ID:              r.ID,
		BusinessName:    r.BusinessName,
		Email:           r.Email,
		Phone:           r.Phone,
		MonthlyEstimate: r.MonthlyEstimate,
		Contacted:       r.Contacted,
	}
	if r.SubmittedAt.Valid && r.SubmittedAt.String != "" {
		t, err := time.Parse(time.RFC3339Nano, r.SubmittedAt.String)
		if err != nil {
			return domain.Lead{}, fmt.Errorf("lead %s: parse submitted_at: %w", r.ID, err)
		}
		l.SubmittedAt = &t
	}
	return l, nil
}
