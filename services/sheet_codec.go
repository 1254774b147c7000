package services

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/webinter/internship-backend/models"
	"github.com/webinter/internship-backend/shared"
	"github.com/xuri/excelize/v2"
)

// exportSheetName is the sheet written by EncodeCandidates.
const exportSheetName = "Candidates"

// DecodeRows parses spreadsheet bytes into one mapping per data row of the
// first sheet. Header keys are trimmed and lower-cased so casing and
// spacing variance in the source is immaterial; numeric cells surface as
// float64, everything else as string, missing trailing cells as "".
func DecodeRows(data []byte) ([]map[string]interface{}, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, shared.NewDecodeError("decode_rows", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, shared.NewDecodeError("decode_rows", fmt.Errorf("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, shared.NewDecodeError("decode_rows", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	out := make([]map[string]interface{}, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]interface{}, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			raw := ""
			if i < len(row) {
				raw = strings.TrimSpace(row[i])
			}
			record[header] = coerceCell(raw)
		}
		out = append(out, record)
	}
	return out, nil
}

// coerceCell turns raw cell text into a typed value. Numeric text becomes
// float64 (spreadsheet serial dates and plain numbers both arrive this
// way); leading-zero strings stay text so ids and phone numbers keep their
// zeros.
func coerceCell(raw string) interface{} {
	if raw == "" {
		return ""
	}
	if len(raw) > 1 && raw[0] == '0' && !strings.Contains(raw, ".") {
		return raw
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return raw
}

// EncodeCandidates writes all candidates into a single-sheet xlsx workbook
// for export, mirroring the column order of the candidates table.
func EncodeCandidates(candidates []models.Candidate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create export sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	header := []interface{}{
		"id", "intern_id", "name", "college", "department", "year",
		"start_date", "end_date", "phone", "email", "status",
		"mentor", "referred_by", "qualification", "source", "created_at",
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	for i, c := range candidates {
		row := []interface{}{
			c.ID, deref(c.InternID), c.Name, deref(c.College), deref(c.Department), deref(c.Year),
			deref(c.StartDate), deref(c.EndDate), deref(c.Phone), deref(c.Email), c.Status,
			deref(c.Mentor), deref(c.ReferredBy), deref(c.Qualification), c.Source,
			c.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address export row: %w", err)
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize export workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
