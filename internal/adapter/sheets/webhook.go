package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/lead-capture-service/internal/domain"
)

// Webhook implements domain.LeadSyncer by posting lead rows to the Apps
// Script deployment that appends them to the sales spreadsheet.
type Webhook struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewWebhook creates a lead spreadsheet mirror.
func NewWebhook(url string, timeout time.Duration, logger *slog.Logger) *Webhook {
	return &Webhook{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SyncLead appends one row to the sheet. Apps Script answers with a redirect
// to the script output, which the client follows.
func (w *Webhook) SyncLead(ctx context.Context, row domain.SheetRow) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal sheet row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheet webhook request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sheet webhook error: status %d", resp.StatusCode)
	}
	w.logger.Debug("lead synced to sheet", "status", resp.StatusCode)
	return nil
}
