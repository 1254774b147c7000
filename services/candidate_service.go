package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/webinter/internship-backend/models"
	"github.com/webinter/internship-backend/shared"
)

// candidateColumns is the scan order used by every candidate query.
const candidateColumns = `id, intern_id, name, college, department, year, start_date, end_date,
	phone, email, status, mentor, referred_by, qualification, source, created_at`

// CandidateFilter narrows List results. Zero values mean "no filter".
type CandidateFilter struct {
	Status     string
	Year       string
	College    string
	Department string
	Search     string
}

// CandidateService is the record store for candidates and their extension
// history. All writes go through the injected pool; batch mutations run
// inside a single transaction via WithTx.
type CandidateService struct {
	DB *sql.DB
}

func NewCandidateService(db *sql.DB) *CandidateService {
	return &CandidateService{DB: db}
}

// WithTx runs fn inside a transaction, rolling back on error.
func (s *CandidateService) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logrus.WithError(rbErr).Warn("Transaction rollback failed")
		}
		return err
	}
	return tx.Commit()
}

// Create inserts a manually entered candidate. A blank intern_id is stored
// as NULL so it never collides with other blank identifiers; the year is
// derived from the start date when one is supplied. Unique-constraint
// collisions surface as a DuplicateInternIDError naming the identifier.
func (s *CandidateService) Create(ctx context.Context, c *models.Candidate) error {
	if c.Status == "" {
		c.Status = models.StatusActive
	}
	if c.Source == "" {
		c.Source = models.SourceManual
	}
	if c.InternID != nil && strings.TrimSpace(*c.InternID) == "" {
		c.InternID = nil
	}
	if y := deriveYearFromStartDate(c.StartDate); y != "" {
		c.Year = &y
	}

	query := `INSERT INTO candidates (intern_id, name, college, department, year, start_date, end_date,
		phone, email, status, mentor, referred_by, qualification, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`

	err := s.DB.QueryRowContext(ctx, query,
		c.InternID, c.Name, c.College, c.Department, c.Year, c.StartDate, c.EndDate,
		c.Phone, c.Email, c.Status, c.Mentor, c.ReferredBy, c.Qualification, c.Source,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			internID := ""
			if c.InternID != nil {
				internID = *c.InternID
			}
			return shared.NewDuplicateInternIDError(internID, err)
		}
		return fmt.Errorf("failed to create candidate: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"candidate_id": c.ID,
		"name":         c.Name,
		"source":       c.Source,
	}).Info("Candidate created successfully")

	return nil
}

// deriveYearFromStartDate extracts a 4-digit year from either YYYY-MM-DD or
// DD-MM-YYYY input, matching the manual-entry behavior of the dashboard.
func deriveYearFromStartDate(startDate *string) string {
	if startDate == nil || *startDate == "" {
		return ""
	}
	parts := strings.Split(*startDate, "-")
	if len(parts) != 3 {
		return ""
	}
	if len(parts[0]) == 4 {
		return parts[0]
	}
	if len(parts[2]) == 4 {
		return parts[2]
	}
	return ""
}

// GetByID returns a single candidate or nil when absent.
func (s *CandidateService) GetByID(ctx context.Context, id int) (*models.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	c, err := scanCandidate(s.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

// GetByInternID returns the candidate holding the given natural identifier,
// or nil when no record carries it.
func (s *CandidateService) GetByInternID(ctx context.Context, internID string) (*models.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE intern_id = $1`
	c, err := scanCandidate(s.DB.QueryRowContext(ctx, query, internID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate by intern id: %w", err)
	}
	return c, nil
}

// List returns candidates matching the filter, newest first. Searches that
// look like an intern id (INT prefix) match strictly on intern_id; anything
// else searches name, email and intern_id together.
func (s *CandidateService) List(ctx context.Context, filter CandidateFilter) ([]models.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE 1=1`
	var args []interface{}
	argIndex := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, filter.Status)
		argIndex++
	}
	if filter.Year != "" {
		query += fmt.Sprintf(" AND start_date LIKE $%d", argIndex)
		args = append(args, filter.Year+"%")
		argIndex++
	}
	if filter.College != "" {
		query += fmt.Sprintf(" AND college ILIKE $%d", argIndex)
		args = append(args, "%"+filter.College+"%")
		argIndex++
	}
	if filter.Department != "" {
		query += fmt.Sprintf(" AND department ILIKE $%d", argIndex)
		args = append(args, "%"+filter.Department+"%")
		argIndex++
	}
	if filter.Search != "" {
		if strings.HasPrefix(strings.ToUpper(filter.Search), "INT") {
			query += fmt.Sprintf(" AND intern_id ILIKE $%d", argIndex)
			args = append(args, "%"+filter.Search+"%")
			argIndex++
		} else {
			query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR intern_id ILIKE $%d)",
				argIndex, argIndex+1, argIndex+2)
			term := "%" + filter.Search + "%"
			args = append(args, term, term, term)
			argIndex += 3
		}
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var candidates []models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		c.EffectiveStatus = c.Effective(now)
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidate rows: %w", err)
	}
	return candidates, nil
}

// DistinctStatuses returns the stored status values currently in use.
func (s *CandidateService) DistinctStatuses(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT DISTINCT status FROM candidates WHERE status IS NOT NULL ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses: %w", err)
	}
	defer rows.Close()

	var statuses []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

// ExportAll returns every candidate for spreadsheet export.
func (s *CandidateService) ExportAll(ctx context.Context) ([]models.Candidate, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates for export: %w", err)
	}
	defer rows.Close()

	var candidates []models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		candidates = append(candidates, *c)
	}
	return candidates, rows.Err()
}

// Extend atomically appends an extension record and overwrites the
// candidate's end date. The extension row is immutable once created.
func (s *CandidateService) Extend(ctx context.Context, candidateID int, newEndDate string, reason *string) (*models.Extension, error) {
	candidate, err := s.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, nil
	}

	ext := &models.Extension{
		ID:          uuid.New(),
		CandidateID: candidateID,
		OldEndDate:  candidate.EndDate,
		NewEndDate:  newEndDate,
		Reason:      reason,
	}

	err = s.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO extensions (id, candidate_id, old_end_date, new_end_date, reason)
			 VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
			ext.ID, ext.CandidateID, ext.OldEndDate, ext.NewEndDate, ext.Reason,
		).Scan(&ext.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to record extension: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE candidates SET end_date = $1 WHERE id = $2`, newEndDate, candidateID); err != nil {
			return fmt.Errorf("failed to update candidate end date: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"candidate_id": candidateID,
		"new_end_date": newEndDate,
	}).Info("Extension recorded")

	return ext, nil
}

// ListExtensions returns a candidate's extension history, newest first.
func (s *CandidateService) ListExtensions(ctx context.Context, candidateID int) ([]models.Extension, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, candidate_id, old_end_date, new_end_date, reason, created_at
		 FROM extensions WHERE candidate_id = $1 ORDER BY created_at DESC`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query extensions: %w", err)
	}
	defer rows.Close()

	var extensions []models.Extension
	for rows.Next() {
		var e models.Extension
		if err := rows.Scan(&e.ID, &e.CandidateID, &e.OldEndDate, &e.NewEndDate, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan extension row: %w", err)
		}
		extensions = append(extensions, e)
	}
	return extensions, rows.Err()
}

// UpsertTx merges a sheet-ingested candidate by intern_id inside an open
// transaction. On conflict all mutable fields are overwritten, the source
// is forced to sheet, and the existing id and creation timestamp stay
// untouched.
func (s *CandidateService) UpsertTx(ctx context.Context, tx *sql.Tx, c *models.Candidate) error {
	query := `INSERT INTO candidates (intern_id, name, college, department, year, start_date, end_date,
		phone, email, status, mentor, referred_by, qualification, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 'sheet')
		ON CONFLICT (intern_id) DO UPDATE SET
			name = EXCLUDED.name,
			college = EXCLUDED.college,
			department = EXCLUDED.department,
			year = EXCLUDED.year,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			status = EXCLUDED.status,
			mentor = EXCLUDED.mentor,
			referred_by = EXCLUDED.referred_by,
			qualification = EXCLUDED.qualification,
			source = 'sheet'`

	_, err := tx.ExecContext(ctx, query,
		c.InternID, c.Name, c.College, c.Department, c.Year, c.StartDate, c.EndDate,
		c.Phone, c.Email, c.Status, c.Mentor, c.ReferredBy, c.Qualification)
	if err != nil {
		return fmt.Errorf("failed to upsert candidate %v: %w", deref(c.InternID), err)
	}
	return nil
}

// InsertTx inserts a sheet-ingested candidate inside an open transaction.
// Used by the full-resync path after the table has been cleared.
func (s *CandidateService) InsertTx(ctx context.Context, tx *sql.Tx, c *models.Candidate) error {
	query := `INSERT INTO candidates (intern_id, name, college, department, year, start_date, end_date,
		phone, email, status, mentor, referred_by, qualification, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 'sheet')`

	_, err := tx.ExecContext(ctx, query,
		c.InternID, c.Name, c.College, c.Department, c.Year, c.StartDate, c.EndDate,
		c.Phone, c.Email, c.Status, c.Mentor, c.ReferredBy, c.Qualification)
	if err != nil {
		return fmt.Errorf("failed to insert candidate %v: %w", deref(c.InternID), err)
	}
	return nil
}

// DeleteAllTx clears the candidates table inside an open transaction, so a
// concurrent reader never observes the table mid-resync.
func (s *CandidateService) DeleteAllTx(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM candidates`); err != nil {
		return fmt.Errorf("failed to clear candidates: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCandidate(row rowScanner) (*models.Candidate, error) {
	var c models.Candidate
	err := row.Scan(
		&c.ID, &c.InternID, &c.Name, &c.College, &c.Department, &c.Year,
		&c.StartDate, &c.EndDate, &c.Phone, &c.Email, &c.Status,
		&c.Mentor, &c.ReferredBy, &c.Qualification, &c.Source, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
