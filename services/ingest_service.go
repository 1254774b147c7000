package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/webinter/internship-backend/models"
	"github.com/webinter/internship-backend/shared"
)

var errNoSyncURL = errors.New("no sync URL configured")

// IngestService is the spreadsheet ingestion pipeline: column resolution,
// date normalization and row reconciliation over a full set of raw rows,
// inside one transaction per batch. Two entry points exist with different
// semantics: MergeRows upserts into the existing candidate set, Resync
// replaces the whole table from the configured remote sheet.
type IngestService struct {
	store      *CandidateService
	downloader *shared.SheetDownloader
	syncURL    string
	Metrics    *shared.SyncMetrics
}

func NewIngestService(store *CandidateService, downloader *shared.SheetDownloader, syncURL string) *IngestService {
	return &IngestService{
		store:      store,
		downloader: downloader,
		syncURL:    syncURL,
		Metrics:    shared.NewSyncMetrics(),
	}
}

// ResolveRow maps one raw spreadsheet row onto a candidate record. Rows
// lacking a natural identifier or a name are rejected (ok=false) and
// counted as skips by the caller; they are never persisted. When the start
// date resolves non-empty, the year is always its 4-digit calendar-year
// prefix, overriding any explicitly supplied year or batch value.
func (s *IngestService) ResolveRow(row map[string]interface{}) (models.Candidate, bool) {
	internID := CellText(ResolveColumn(row, FieldInternID))
	name := CellText(ResolveColumn(row, FieldName))
	if internID == "" || name == "" {
		return models.Candidate{}, false
	}

	start := NormalizeDate(ResolveColumn(row, FieldStartDate))
	end := NormalizeDate(ResolveColumn(row, FieldEndDate))

	year := CellText(ResolveColumn(row, FieldYear))
	if len(start) >= 4 {
		year = start[:4]
	}

	status := CellText(ResolveColumn(row, FieldStatus))
	if status == "" {
		status = models.StatusActive
	}

	c := models.Candidate{
		InternID: &internID,
		Name:     name,
		Status:   status,
		Source:   models.SourceSheet,
	}
	setOptional(&c.College, CellText(ResolveColumn(row, FieldCollege)))
	setOptional(&c.Department, CellText(ResolveColumn(row, FieldDepartment)))
	setOptional(&c.Year, year)
	setOptional(&c.StartDate, start)
	setOptional(&c.EndDate, end)
	setOptional(&c.Phone, CellText(ResolveColumn(row, FieldPhone)))
	setOptional(&c.Email, CellText(ResolveColumn(row, FieldEmail)))
	setOptional(&c.Mentor, CellText(ResolveColumn(row, FieldMentor)))
	setOptional(&c.ReferredBy, CellText(ResolveColumn(row, FieldReferredBy)))
	setOptional(&c.Qualification, CellText(ResolveColumn(row, FieldQualification)))
	return c, true
}

// MergeRows is the upload-merge entry point: every resolvable row is
// upserted by intern_id, nothing is deleted, and the whole batch commits or
// rolls back together.
func (s *IngestService) MergeRows(ctx context.Context, rows []map[string]interface{}) (models.SyncResult, error) {
	var result models.SyncResult

	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		for _, row := range rows {
			candidate, ok := s.ResolveRow(row)
			if !ok {
				result.Skipped++
				continue
			}
			if err := s.store.UpsertTx(ctx, tx, &candidate); err != nil {
				return err
			}
			result.Accepted++
		}
		return nil
	})
	if err != nil {
		return models.SyncResult{}, err
	}

	logrus.WithFields(logrus.Fields{
		"accepted": result.Accepted,
		"skipped":  result.Skipped,
	}).Info("Sheet merge completed")

	return result, nil
}

// MergeWorkbook decodes uploaded spreadsheet bytes and merges them. A
// decode failure yields no partial ingestion.
func (s *IngestService) MergeWorkbook(ctx context.Context, data []byte) (models.SyncResult, error) {
	rows, err := DecodeRows(data)
	if err != nil {
		return models.SyncResult{}, err
	}
	return s.MergeRows(ctx, rows)
}

// Resync is the destructive full-table replace: the configured remote
// sheet is downloaded and decoded, then within one transaction every
// candidate row is deleted and the resolved rows inserted fresh. Download
// or decode failures abort the cycle with existing data untouched; a
// concurrent reader never observes an empty table mid-resync.
func (s *IngestService) Resync(ctx context.Context) (models.SyncResult, error) {
	if s.syncURL == "" {
		return models.SyncResult{}, shared.NewTransportError("resync", errNoSyncURL)
	}

	data, err := s.downloader.Download(ctx, s.syncURL)
	if err != nil {
		return models.SyncResult{}, err
	}

	rows, err := DecodeRows(data)
	if err != nil {
		return models.SyncResult{}, err
	}

	var result models.SyncResult
	err = s.store.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.store.DeleteAllTx(ctx, tx); err != nil {
			return err
		}
		for _, row := range rows {
			candidate, ok := s.ResolveRow(row)
			if !ok {
				result.Skipped++
				continue
			}
			if err := s.store.InsertTx(ctx, tx, &candidate); err != nil {
				return err
			}
			result.Accepted++
		}
		return nil
	})
	if err != nil {
		return models.SyncResult{}, err
	}

	logrus.WithFields(logrus.Fields{
		"accepted": result.Accepted,
		"skipped":  result.Skipped,
		"rows":     len(rows),
	}).Info("Sheet resync completed")

	return result, nil
}

// SyncConfigured reports whether a remote sheet URL is set.
func (s *IngestService) SyncConfigured() bool {
	return s.syncURL != ""
}

func setOptional(dst **string, value string) {
	if value != "" {
		v := value
		*dst = &v
	}
}
