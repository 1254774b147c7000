package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/webinter/internship-backend/models"
)

// StatusCount is one slice of the status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// YearCount is one slice of the yearly intake distribution.
type YearCount struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}

// LabelCount is a generic label/count aggregate (departments, colleges).
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MonthCount is one month of the creation trend.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// AnalyticsReport is the full reporting payload for the dashboard charts.
type AnalyticsReport struct {
	StatusDistribution  []StatusCount `json:"statusDistribution"`
	YearlyTrends        []YearCount   `json:"yearlyTrends"`
	DepartmentBreakdown []LabelCount  `json:"departmentBreakdown"`
	CollegeDistribution []LabelCount  `json:"collegeDistribution"`
	MonthlyTrends       []MonthCount  `json:"monthlyTrends"`
}

// AnalyticsService is the reporting layer over the candidate store.
type AnalyticsService struct {
	store *CandidateService
}

func NewAnalyticsService(store *CandidateService) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// Report computes all dashboard aggregates.
func (s *AnalyticsService) Report(ctx context.Context) (*AnalyticsReport, error) {
	report := &AnalyticsReport{}

	statuses, err := s.statusDistribution(ctx)
	if err != nil {
		return nil, err
	}
	report.StatusDistribution = statuses

	if report.YearlyTrends, err = s.yearlyTrends(ctx); err != nil {
		return nil, err
	}
	if report.DepartmentBreakdown, err = s.labelBreakdown(ctx, "department"); err != nil {
		return nil, err
	}
	if report.CollegeDistribution, err = s.labelBreakdown(ctx, "college"); err != nil {
		return nil, err
	}
	if report.MonthlyTrends, err = s.monthlyTrends(ctx); err != nil {
		return nil, err
	}
	return report, nil
}

// statusDistribution groups candidates by their date-derived effective
// status. Aggregation happens in Go so the one canonical status
// computation (models.Candidate.Effective) serves both the listing and the
// charts.
func (s *AnalyticsService) statusDistribution(ctx context.Context) ([]StatusCount, error) {
	rows, err := s.store.DB.QueryContext(ctx, `SELECT status, end_date FROM candidates`)
	if err != nil {
		return nil, fmt.Errorf("failed to query status distribution: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var endDate sql.NullString
		if err := rows.Scan(&status, &endDate); err != nil {
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}

		c := candidateForStatus(status, endDate)
		counts[c.Effective(now)]++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status rows: %w", err)
	}

	result := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		result = append(result, StatusCount{Status: status, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Status < result[j].Status
	})
	return result, nil
}

func (s *AnalyticsService) yearlyTrends(ctx context.Context) ([]YearCount, error) {
	rows, err := s.store.DB.QueryContext(ctx, `
		SELECT SUBSTR(start_date, 1, 4) AS year, COUNT(*) AS count
		FROM candidates
		WHERE start_date IS NOT NULL AND start_date <> ''
		GROUP BY year
		ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("failed to query yearly trends: %w", err)
	}
	defer rows.Close()

	var result []YearCount
	for rows.Next() {
		var yc YearCount
		if err := rows.Scan(&yc.Year, &yc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan yearly trend row: %w", err)
		}
		result = append(result, yc)
	}
	return result, rows.Err()
}

// labelBreakdown returns the top 10 values of a grouping column, skipping
// blank and NIL placeholders from the upstream sheets.
func (s *AnalyticsService) labelBreakdown(ctx context.Context, column string) ([]LabelCount, error) {
	// column is one of two fixed identifiers, never user input.
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) AS count
		FROM candidates
		WHERE %s IS NOT NULL AND %s <> '' AND %s <> 'NIL'
		GROUP BY %s
		ORDER BY count DESC
		LIMIT 10`, column, column, column, column, column)

	rows, err := s.store.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s breakdown: %w", column, err)
	}
	defer rows.Close()

	var result []LabelCount
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", column, err)
		}
		result = append(result, lc)
	}
	return result, rows.Err()
}

// monthlyTrends returns creation counts for the last 12 months, oldest
// first.
func (s *AnalyticsService) monthlyTrends(ctx context.Context) ([]MonthCount, error) {
	rows, err := s.store.DB.QueryContext(ctx, `
		SELECT TO_CHAR(created_at, 'YYYY-MM') AS month, COUNT(*) AS count
		FROM candidates
		GROUP BY month
		ORDER BY month DESC
		LIMIT 12`)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly trends: %w", err)
	}
	defer rows.Close()

	var result []MonthCount
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan monthly trend row: %w", err)
		}
		result = append(result, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query returns newest first; charts want chronological order.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, nil
}

func candidateForStatus(status string, endDate sql.NullString) models.Candidate {
	c := models.Candidate{Status: status}
	if endDate.Valid && endDate.String != "" {
		c.EndDate = &endDate.String
	}
	return c
}
