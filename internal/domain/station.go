package domain

// StationRecord is one delivery station as served by the stations endpoint.
// The JSON field names are a public contract consumed by the storefront map.
type StationRecord struct {
	Name     string  `json:"name"`
	Week     string  `json:"week"`
	Weekend  string  `json:"weekend"`
	Phone    string  `json:"phone"`
	Address  string  `json:"address"`
	State    string  `json:"state"`
	Landmark string  `json:"landmark"`
	Map      string  `json:"map"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// Column positions in the published station sheet. Column 6 carries an
// unlabelled value that the site has never used and is skipped.
const (
	colName = iota
	colWeek
	colWeekend
	colPhone
	colAddress
	colState
	_
	colLandmark
	colMap
	colLat
	colLng
)

// MinStationFields is the shortest row that can become a StationRecord.
const MinStationFields = 10
