// Package domain models the two kinds of data the service handles: delivery
// stations scraped from a published spreadsheet, and business leads
// submitted through the public form.
//
// # Station sheet
//
// The operations team maintains stations in a Google Sheet that is published
// as CSV (File > Share > Publish to web). The export is parsed by
// [ParseRows], a single-pass scanner for the dialect Sheets emits:
//
//	Name,Week,Weekend,Phone,Address,State,X,Landmark,Map,Lat,Lng
//	"Acme, Inc.",Mon-Fri,Sat,555-1111,1 Main St,Lagos,,LM1,http://m,6.5,3.3
//
// Fields may be wrapped in double quotes to carry commas or line breaks, and
// "" inside a quoted field is a literal quote. Every field is trimmed. Both
// CRLF and LF line endings are accepted and blank lines are ignored.
//
// Rows are mapped by position, not by header name: the header row is always
// discarded, and the editors are free to rename columns. Column 6 is skipped.
//
// # Leniency
//
// The sheet is edited by hand, so [StationsFromRows] never rejects the whole
// export for one bad row:
//
//	- rows with fewer than 10 fields, or an empty name, are dropped;
//	- landmark and map default to "";
//	- lat and lng take the leading number of the cell ("6.5°" -> 6.5) and
//	  fall back to 0 when there is none.
//
// # Leads
//
// A [Lead] is created from a [LeadSubmission] with a random UUID and a UTC
// timestamp taken from the package clock (see [SetClock]). The JSON shape
// keeps the spreadsheet column names ("Business Name", "Email Address", ...)
// because the sales sheet and the admin page both key on them.
package domain
