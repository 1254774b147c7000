package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webinter/internship-backend/models"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, header []interface{}, rows ...[]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDecodeRowsNormalizesHeaders(t *testing.T) {
	data := buildWorkbook(t,
		[]interface{}{"  Intern ID ", "NAME", "College Name"},
		[]interface{}{"INT1", "Asha", "SEC"},
	)

	rows, err := DecodeRows(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "INT1", rows[0]["intern id"])
	assert.Equal(t, "Asha", rows[0]["name"])
	assert.Equal(t, "SEC", rows[0]["college name"])
}

func TestDecodeRowsNumericCells(t *testing.T) {
	data := buildWorkbook(t,
		[]interface{}{"s.no", "name", "phone no"},
		[]interface{}{3, "Ravi", "0987654321"},
	)

	rows, err := DecodeRows(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 3.0, rows[0]["s.no"])
	// Leading-zero values stay text.
	assert.Equal(t, "0987654321", rows[0]["phone no"])
}

func TestDecodeRowsMissingTrailingCells(t *testing.T) {
	data := buildWorkbook(t,
		[]interface{}{"intern id", "name", "email"},
		[]interface{}{"INT1", "Asha"},
	)

	rows, err := DecodeRows(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["email"])
}

func TestDecodeRowsRejectsGarbage(t *testing.T) {
	_, err := DecodeRows([]byte("definitely not a workbook"))
	assert.Error(t, err)
}

func TestEncodeCandidatesRoundTrip(t *testing.T) {
	internID := "INT1"
	college := "SEC"
	start := "2023-07-01"
	candidates := []models.Candidate{
		{
			ID:        1,
			InternID:  &internID,
			Name:      "Asha",
			College:   &college,
			StartDate: &start,
			Status:    models.StatusActive,
			Source:    models.SourceSheet,
			CreatedAt: time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	data, err := EncodeCandidates(candidates)
	require.NoError(t, err)

	rows, err := DecodeRows(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "INT1", rows[0]["intern_id"])
	assert.Equal(t, "Asha", rows[0]["name"])
	assert.Equal(t, "SEC", rows[0]["college"])
	assert.Equal(t, models.SourceSheet, rows[0]["source"])
}
