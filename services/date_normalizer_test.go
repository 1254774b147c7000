package services

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func TestNormalizeDateAbsentInput(t *testing.T) {
	assert.Equal(t, "", NormalizeDate(nil))
	assert.Equal(t, "", NormalizeDate(""))
	assert.Equal(t, "", NormalizeDate(false))
	assert.Equal(t, "", NormalizeDate(0.0))
}

func TestNormalizeDateSerialDates(t *testing.T) {
	// Serial day 25569 is the real epoch.
	assert.Equal(t, "1970-01-01", NormalizeDate(25569.0))
	assert.Equal(t, "2023-01-01", NormalizeDate(44927.0))
	assert.Equal(t, "2023-07-01", NormalizeDate(45108.0))
	assert.Equal(t, "2023-07-01", NormalizeDate(45108))
}

func TestNormalizeDateDayMonthYearStrings(t *testing.T) {
	assert.Equal(t, "2023-07-01", NormalizeDate("01-07-2023"))
	assert.Equal(t, "2023-07-01", NormalizeDate("1-7-2023"))
	assert.Equal(t, "1999-12-31", NormalizeDate("31-12-1999"))
}

func TestNormalizeDatePassThrough(t *testing.T) {
	// Already canonical: first segment is 4 characters, not 1-2.
	assert.Equal(t, "2023-07-01", NormalizeDate("2023-07-01"))
	// Malformed strings pass through verbatim, never raise.
	assert.Equal(t, "07/01/2023", NormalizeDate("07/01/2023"))
	assert.Equal(t, "1-2", NormalizeDate("1-2"))
	assert.Equal(t, "not-a-date-at-all", NormalizeDate("not-a-date-at-all"))
	assert.Equal(t, "TBD", NormalizeDate("TBD"))
}

func TestNormalizeDateSerialProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("serial dates always produce ISO YYYY-MM-DD output", prop.ForAll(
		func(serial float64) bool {
			return isoDatePattern.MatchString(NormalizeDate(serial))
		},
		gen.Float64Range(1, 80000),
	))

	properties.Property("serial dates are monotonic", prop.ForAll(
		func(a, b float64) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			// ISO dates compare correctly as strings.
			return NormalizeDate(lo) <= NormalizeDate(hi)
		},
		gen.Float64Range(1, 80000),
		gen.Float64Range(1, 80000),
	))

	properties.Property("D-M-YYYY strings are rewritten with zero padding", prop.ForAll(
		func(day, month, year int) bool {
			in := fmt.Sprintf("%d-%d-%d", day, month, year)
			want := fmt.Sprintf("%d-%02d-%02d", year, month, day)
			return NormalizeDate(in) == want
		},
		gen.IntRange(1, 28),
		gen.IntRange(1, 12),
		gen.IntRange(1900, 2099),
	))

	properties.TestingRun(t)
}
