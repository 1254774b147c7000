package models

import (
	"time"

	"github.com/google/uuid"
)

// Extension records one change to a candidate's end date. Rows are
// append-only; the audit trail is never updated or deleted.
type Extension struct {
	ID          uuid.UUID `json:"id"`
	CandidateID int       `json:"candidate_id"`
	OldEndDate  *string   `json:"old_end_date"`
	NewEndDate  string    `json:"new_end_date"`
	Reason      *string   `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}
