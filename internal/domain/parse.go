package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// leadingFloatRe matches the longest decimal prefix of a coordinate cell,
// e.g. "6.4531°" -> "6.4531". Sheet editors routinely paste degree signs and
// trailing notes into the coordinate columns.
var leadingFloatRe = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseStations converts a published station sheet export into station
// records. It never fails: malformed rows are dropped and unreadable
// coordinates become 0.
func ParseStations(text string) []StationRecord {
	return StationsFromRows(ParseRows(text))
}

// ParseRows splits CSV text into rows of trimmed fields in a single pass.
//
// The dialect is the one Google Sheets emits: comma separated, fields
// optionally wrapped in double quotes, "" inside a quoted field for a literal
// quote, and CRLF or LF line endings. Quotes toggle quoting wherever they
// appear in a field and are never kept. Blank lines produce no row.
func ParseRows(text string) [][]string {
	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)

	endField := func() {
		row = append(row, trimField(field.String()))
		field.Reset()
	}
	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(text) && text[i+1] == '"':
			field.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			endField()
		case (c == '\r' || c == '\n') && !inQuotes:
			if field.Len() > 0 || len(row) > 0 {
				endRow()
			}
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		default:
			field.WriteByte(c)
		}
	}

	// Exports are not guaranteed to end with a newline.
	if field.Len() > 0 || len(row) > 0 {
		endRow()
	}
	return rows
}

// StationsFromRows maps parsed rows to station records. Row 0 is the sheet
// header and is always skipped, whatever it contains.
func StationsFromRows(rows [][]string) []StationRecord {
	stations := make([]StationRecord, 0, max(len(rows)-1, 0))
	for i := 1; i < len(rows); i++ {
		if s, ok := StationFromRow(rows[i]); ok {
			stations = append(stations, s)
		}
	}
	return stations
}

// StationFromRow builds a StationRecord from one data row. It reports false
// when the row is too short or has no station name.
func StationFromRow(row []string) (StationRecord, bool) {
	if len(row) < MinStationFields || row[colName] == "" {
		return StationRecord{}, false
	}

	lat, _ := ParseCoordinate(cell(row, colLat))
	lng, _ := ParseCoordinate(cell(row, colLng))

	return StationRecord{
		Name:     row[colName],
		Week:     row[colWeek],
		Weekend:  row[colWeekend],
		Phone:    row[colPhone],
		Address:  row[colAddress],
		State:    row[colState],
		Landmark: cell(row, colLandmark),
		Map:      cell(row, colMap),
		Lat:      lat,
		Lng:      lng,
	}, true
}

// ParseCoordinate reads the leading decimal number of s. It returns 0 and
// false when s has no numeric prefix or the value is not finite.
func ParseCoordinate(s string) (float64, bool) {
	m := leadingFloatRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	if v == 0 {
		// Collapse -0 so it encodes as 0.
		return 0, true
	}
	return v, true
}

// cell returns row[i], or "" when the row is shorter than i+1.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func trimField(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

// DropReason describes why StationFromRow rejects row, or returns "" when
// the row becomes a station.
func DropReason(row []string) string {
	switch {
	case len(row) < MinStationFields:
		return fmt.Sprintf("only %d fields, need %d", len(row), MinStationFields)
	case row[colName] == "":
		return "empty name"
	default:
		return ""
	}
}

// CoordinateCells returns the raw latitude and longitude cells of row.
func CoordinateCells(row []string) (lat, lng string) {
	return cell(row, colLat), cell(row, colLng)
}
