package sheets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/couchcryptid/lead-capture-service/internal/observability"
)

// maxExportBytes bounds the station export body. The live sheet is a few KB.
const maxExportBytes = 8 << 20

// Client implements domain.StationSource by downloading the published CSV
// export of the station spreadsheet.
type Client struct {
	csvURL     string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a station export client.
func NewClient(csvURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		csvURL: csvURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchStationsCSV returns the raw export text with any leading byte order
// mark removed. A non-2xx response is an error.
func (c *Client) FetchStationsCSV(ctx context.Context) (string, error) {
	start := time.Now()
	text, err := c.fetch(ctx)
	c.metrics.StationFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.StationFetches.WithLabelValues("error").Inc()
		return "", err
	}
	c.metrics.StationFetches.WithLabelValues("success").Inc()
	c.logger.Debug("station export fetched", "bytes", len(text), "duration", time.Since(start))
	return text, nil
}

func (c *Client) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.csvURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("station export request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("station export error: status %d: %s", resp.StatusCode, body)
	}

	r := transform.NewReader(io.LimitReader(resp.Body, maxExportBytes), unicode.BOMOverride(transform.Nop))
	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read station export: %w", err)
	}
	return string(body), nil
}
