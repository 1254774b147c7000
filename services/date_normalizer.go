package services

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Spreadsheet serial day 25569 is 1970-01-01; one unit is 86400 seconds.
const serialEpochOffsetDays = 25569

// NormalizeDate converts a raw cell value into canonical ISO YYYY-MM-DD
// form, or the empty string for absent input. Numeric values are treated as
// spreadsheet serial dates; DD-MM-YYYY strings are rewritten with
// zero-padded day and month. Anything else passes through verbatim: the
// function is pure and total, and malformed strings are deliberately left
// untouched rather than rejected.
func NormalizeDate(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		return ""
	case float64:
		return serialDateToISO(v)
	case float32:
		return serialDateToISO(float64(v))
	case int:
		return serialDateToISO(float64(v))
	case int64:
		return serialDateToISO(float64(v))
	case time.Time:
		return v.UTC().Format("2006-01-02")
	case string:
		return normalizeDateString(v)
	default:
		return fmt.Sprint(v)
	}
}

func serialDateToISO(serial float64) string {
	if serial == 0 {
		return ""
	}
	millis := math.Round((serial - serialEpochOffsetDays) * 86400 * 1000)
	return time.UnixMilli(int64(millis)).UTC().Format("2006-01-02")
}

func normalizeDateString(s string) string {
	if s == "" {
		return ""
	}

	parts := strings.Split(s, "-")
	if len(parts) == 3 && len(parts[0]) >= 1 && len(parts[0]) <= 2 && len(parts[2]) == 4 {
		return parts[2] + "-" + padDatePart(parts[1]) + "-" + padDatePart(parts[0])
	}

	// Assumed already canonical (or malformed, which passes through as-is).
	return s
}

func padDatePart(p string) string {
	if len(p) == 1 {
		return "0" + p
	}
	return p
}
