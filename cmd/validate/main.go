// Command validate lints a station sheet export before it goes live. It
// reports rows the stations endpoint would drop, coordinates that would be
// served as 0, coordinates outside Nigeria's bounding box, and duplicate
// station names. The exit status is non-zero when any check fails.
//
// Usage:
//
//	go run ./cmd/validate -file testdata/stations.csv
//	go run ./cmd/validate -url "$STATIONS_CSV_URL"
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/lead-capture-service/internal/adapter/sheets"
	"github.com/couchcryptid/lead-capture-service/internal/config"
	"github.com/couchcryptid/lead-capture-service/internal/domain"
	"github.com/couchcryptid/lead-capture-service/internal/observability"
)

// Rough bounding box of Nigeria, where every station is.
const (
	minLat, maxLat = 4.0, 14.0
	minLng, maxLng = 2.5, 15.0
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "", "path to a saved CSV export (takes precedence over -url)")
	url := flag.String("url", config.DefaultStationsCSVURL, "station sheet CSV export URL")
	timeout := flag.Duration("timeout", 10*time.Second, "fetch timeout when reading from -url")
	flag.Parse()

	text, err := readExport(*file, *url, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	if code := run(os.Stdout, text); code != 0 {
		os.Exit(code)
	}
}

func readExport(file, url string, timeout time.Duration) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read export: %w", err)
		}
		return string(data), nil
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client := sheets.NewClient(url, timeout, observability.NewMetricsWithRegistry(prometheus.NewRegistry()), logger)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return client.FetchStationsCSV(ctx)
}

func run(w io.Writer, text string) int {
	fmt.Fprintln(w, "=== Station Sheet Validation ===")
	fmt.Fprintln(w)

	rows := domain.ParseRows(text)
	stations := domain.StationsFromRows(rows)

	phases := []*phase{
		validateHeader(rows),
		validateRowShape(rows),
		validateCoordinates(rows),
		validateUniqueNames(stations),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-32s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Rows: %d data, %d stations served\n", max(len(rows)-1, 0), len(stations))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Phases ──

// Row numbers in messages are 1-based sheet rows, header included.

func validateHeader(rows [][]string) *phase {
	p := &phase{name: "Header"}
	if len(rows) == 0 {
		p.errorf("export is empty")
		return p
	}
	if len(rows[0]) < domain.MinStationFields {
		p.errorf("header has %d columns, need at least %d", len(rows[0]), domain.MinStationFields)
	}
	if len(rows) == 1 {
		p.errorf("no data rows")
	}
	return p
}

func validateRowShape(rows [][]string) *phase {
	p := &phase{name: "Row shape"}
	for i := 1; i < len(rows); i++ {
		if reason := domain.DropReason(rows[i]); reason != "" {
			p.errorf("row %d dropped: %s (%q)", i+1, reason, preview(rows[i]))
		}
	}
	return p
}

func validateCoordinates(rows [][]string) *phase {
	p := &phase{name: "Coordinates"}
	for i := 1; i < len(rows); i++ {
		if domain.DropReason(rows[i]) != "" {
			continue
		}
		name := rows[i][0]
		latCell, lngCell := domain.CoordinateCells(rows[i])
		lat, latOK := domain.ParseCoordinate(latCell)
		lng, lngOK := domain.ParseCoordinate(lngCell)

		switch {
		case !latOK || !lngOK:
			p.errorf("row %d %q: unreadable coordinates lat=%q lng=%q, served as %g,%g", i+1, name, latCell, lngCell, lat, lng)
		case lat < minLat || lat > maxLat || lng < minLng || lng > maxLng:
			p.errorf("row %d %q: %g,%g is outside the service area", i+1, name, lat, lng)
		}
	}
	return p
}

func validateUniqueNames(stations []domain.StationRecord) *phase {
	p := &phase{name: "Unique names"}
	seen := make(map[string]string, len(stations))
	for _, s := range stations {
		key := strings.ToLower(strings.Join(strings.Fields(s.Name), " "))
		if first, ok := seen[key]; ok {
			p.errorf("%q duplicates %q", s.Name, first)
			continue
		}
		seen[key] = s.Name
	}
	return p
}

func preview(row []string) string {
	s := strings.Join(row, ",")
	if len(s) > 60 {
		return s[:57] + "..."
	}
	return s
}
