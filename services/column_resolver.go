package services

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical spreadsheet field names resolved by the ingestion pipeline.
const (
	FieldInternID      = "intern_id"
	FieldName          = "name"
	FieldCollege       = "college"
	FieldDepartment    = "department"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
	FieldYear          = "year"
	FieldPhone         = "phone"
	FieldEmail         = "email"
	FieldStatus        = "status"
	FieldMentor        = "mentor"
	FieldReferredBy    = "referred_by"
	FieldQualification = "qualification"
)

// fieldAliases maps each canonical field to its accepted spreadsheet header
// aliases in priority order; the first alias with a non-empty value wins.
// Header keys are trimmed and lower-cased by the sheet codec before lookup,
// and the misspellings ("internilid", "collage name", "refered by") are real
// headers seen in the upstream sheets.
var fieldAliases = map[string][]string{
	FieldInternID:      {"internilid", "id no.", "intern id", "id", "s.no", "no.", "s.no."},
	FieldName:          {"name", "full name", "candidate name"},
	FieldCollege:       {"college name", "collage name", "college"},
	FieldDepartment:    {"department", "dept", "course"},
	FieldStartDate:     {"starting date", "training from", "training starting date", "start date"},
	FieldEndDate:       {"ending date", "training to", "end date"},
	FieldYear:          {"year", "batch", "student year"},
	FieldPhone:         {"phone no", "phone", "contact no", "mobile"},
	FieldEmail:         {"mail id", "email", "email id"},
	FieldStatus:        {"status"},
	FieldMentor:        {"mentor"},
	FieldReferredBy:    {"referred by", "refered by"},
	FieldQualification: {"qualification", "qual", "degree"},
}

// ResolveColumn returns the first non-empty value among the known aliases
// for the given canonical field, or nil when every alias is missing or
// empty. Explicit zero and false values are preserved, not treated as
// absent.
func ResolveColumn(row map[string]interface{}, field string) interface{} {
	for _, alias := range fieldAliases[field] {
		if v, ok := row[alias]; ok && v != "" {
			return v
		}
	}
	return nil
}

// CellText renders a resolved cell value as trimmed text. Numeric cells
// come out of the codec as float64; integral values are rendered without a
// decimal point so ids and years round-trip cleanly.
func CellText(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
