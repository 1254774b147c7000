package models

import (
	"time"
)

// Candidate status values as stored in the database.
const (
	StatusActive       = "Active"
	StatusCompleted    = "Completed"
	StatusDisconnected = "Disconnected"
)

// Candidate source values.
const (
	SourceManual = "manual"
	SourceSheet  = "sheet"
)

// Candidate represents one internship applicant or intern.
// Dates are stored as ISO YYYY-MM-DD text; intern_id is an optional
// externally-assigned identifier that is unique when present.
type Candidate struct {
	ID            int       `json:"id"`
	InternID      *string   `json:"intern_id"`
	Name          string    `json:"name"`
	College       *string   `json:"college"`
	Department    *string   `json:"department"`
	Year          *string   `json:"year"`
	StartDate     *string   `json:"start_date"`
	EndDate       *string   `json:"end_date"`
	Phone         *string   `json:"phone"`
	Email         *string   `json:"email"`
	Status        string    `json:"status"`
	Mentor        *string   `json:"mentor"`
	ReferredBy    *string   `json:"referred_by"`
	Qualification *string   `json:"qualification"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"created_at"`

	// EffectiveStatus is derived from EndDate at read time, never stored.
	EffectiveStatus string `json:"effective_status,omitempty"`
}

// Effective returns the candidate's date-derived status: once the end date
// has passed the candidate reports as Completed regardless of the stored
// status; with a future end date it reports as Active. Candidates without a
// parseable end date keep their stored status. This is the single canonical
// computation used by both the listing and analytics layers.
func (c *Candidate) Effective(now time.Time) string {
	if c.EndDate != nil && *c.EndDate != "" {
		if end, err := time.Parse("2006-01-02", *c.EndDate); err == nil {
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			if end.Before(today) {
				return StatusCompleted
			}
			return StatusActive
		}
	}
	if c.Status == "" {
		return StatusActive
	}
	return c.Status
}

// SyncResult summarizes one ingestion run.
type SyncResult struct {
	Accepted int `json:"accepted"`
	Skipped  int `json:"skipped"`
}
