// Command stationdump reads a station sheet export, from a local file or the
// published URL, and writes the parsed stations as JSON. A per-state summary
// goes to stderr.
//
// Usage:
//
//	go run ./cmd/stationdump -file testdata/stations.csv -out stations.json
//	go run ./cmd/stationdump -url "$STATIONS_CSV_URL"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/lead-capture-service/internal/adapter/sheets"
	"github.com/couchcryptid/lead-capture-service/internal/config"
	"github.com/couchcryptid/lead-capture-service/internal/domain"
	"github.com/couchcryptid/lead-capture-service/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	file := flag.String("file", "", "path to a saved CSV export (takes precedence over -url)")
	url := flag.String("url", config.DefaultStationsCSVURL, "station sheet CSV export URL")
	out := flag.String("out", "-", "output path for the JSON array, - for stdout")
	timeout := flag.Duration("timeout", 10*time.Second, "fetch timeout when reading from -url")
	flag.Parse()

	text, err := readExport(*file, *url, *timeout)
	if err != nil {
		return err
	}

	rows := domain.ParseRows(text)
	stations := domain.StationsFromRows(rows)
	log.Printf("rows: %d data, %d stations, %d dropped",
		max(len(rows)-1, 0), len(stations), max(len(rows)-1, 0)-len(stations))

	if err := writeJSON(*out, stations); err != nil {
		return fmt.Errorf("writing stations: %w", err)
	}
	if *out != "-" {
		log.Printf("wrote %s", *out)
	}

	printStateBreakdown(os.Stderr, stations)
	return nil
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

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

type stateCount struct {
	state string
	count int
}

func countByState(stations []domain.StationRecord) []stateCount {
	counts := map[string]int{}
	for i := range stations {
		counts[stations[i].State]++
	}
	sc := make([]stateCount, 0, len(counts))
	for s, c := range counts {
		sc = append(sc, stateCount{s, c})
	}
	sort.Slice(sc, func(i, j int) bool {
		if sc[i].count != sc[j].count {
			return sc[i].count > sc[j].count
		}
		return sc[i].state < sc[j].state
	})
	return sc
}

func printStateBreakdown(w io.Writer, stations []domain.StationRecord) {
	sc := countByState(stations)
	fmt.Fprintf(w, "\nStates (%d):\n", len(sc))
	for _, s := range sc {
		name := s.state
		if name == "" {
			name = "(blank)"
		}
		fmt.Fprintf(w, "  %-20s %d\n", name, s.count)
	}

	var missingCoords int
	for i := range stations {
		if stations[i].Lat == 0 || stations[i].Lng == 0 {
			missingCoords++
		}
	}
	fmt.Fprintf(w, "Without coordinates: %d\n", missingCoords)
}
