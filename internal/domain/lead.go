package domain

import (
	"cmp"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// DefaultEstimate is stored when a submission leaves the monthly estimate blank.
const DefaultEstimate = "Not provided"

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrMissingLeadID = errors.New("missing lead ID")
	ErrLeadNotFound  = errors.New("lead not found")
)

// LeadSubmission is the body posted by the public lead form.
type LeadSubmission struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Estimate string `json:"estimate"`
}

// Validate reports ErrMissingFields when name, email or phone is empty.
func (s LeadSubmission) Validate() error {
	if s.Name == "" || s.Email == "" || s.Phone == "" {
		return ErrMissingFields
	}
	return nil
}

// Lead is a stored business lead. The JSON keys match the column headers of
// the sales team's sheet, which the admin page also reads.
type Lead struct {
	ID              string     `json:"id"`
	BusinessName    string     `json:"Business Name"`
	Email           string     `json:"Email Address"`
	Phone           string     `json:"Phone Number"`
	MonthlyEstimate string     `json:"Monthly Estimate"`
	SubmittedAt     *time.Time `json:"SubmittedAt"`
	Contacted       bool       `json:"contacted"`
}

// NewLead builds an uncontacted lead with a fresh ID, stamped with the
// current time in UTC.
func NewLead(s LeadSubmission) Lead {
	estimate := s.Estimate
	if estimate == "" {
		estimate = DefaultEstimate
	}
	now := clock.Now().UTC()
	return Lead{
		ID:              uuid.NewString(),
		BusinessName:    s.Name,
		Email:           s.Email,
		Phone:           s.Phone,
		MonthlyEstimate: estimate,
		SubmittedAt:     &now,
	}
}

// SheetRow is the payload appended to the leads spreadsheet.
type SheetRow struct {
	BusinessName    string `json:"Business Name"`
	Email           string `json:"Email Address"`
	Phone           string `json:"Phone Number"`
	MonthlyEstimate string `json:"Monthly Estimate"`
	SubmittedAt     string `json:"SubmittedAt"`
}

// SheetRow flattens the lead into the spreadsheet payload.
func (l Lead) SheetRow() SheetRow {
	var submitted string
	if l.SubmittedAt != nil {
		submitted = l.SubmittedAt.UTC().Format(time.RFC3339Nano)
	}
	return SheetRow{
		BusinessName:    l.BusinessName,
		Email:           l.Email,
		Phone:           l.Phone,
		MonthlyEstimate: l.MonthlyEstimate,
		SubmittedAt:     submitted,
	}
}

// SortNewestFirst orders leads by SubmittedAt descending. Leads without a
// timestamp are treated as submitted at the Unix epoch. Ties keep their
// store order.
func SortNewestFirst(leads []Lead) {
	slices.SortStableFunc(leads, func(a, b Lead) int {
		return cmp.Compare(submittedMillis(b), submittedMillis(a))
	})
}

func submittedMillis(l Lead) int64 {
	if l.SubmittedAt == nil {
		return 0
	}
	return l.SubmittedAt.UnixMilli()
}
