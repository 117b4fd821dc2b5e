// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// NotApplicable is the marker the questionnaire uses for questions that
// did not apply to a respondent.
const NotApplicable = "Question not applicable"

// IsNotApplicable reports whether s is the not-applicable marker.
func IsNotApplicable(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), NotApplicable)
}

// Float parses a numeric cell. Empty cells, the not-applicable marker and
// non-numeric text report false.
func Float(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || IsNotApplicable(s) {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FloatPtr is Float returning nil for absent values.
func FloatPtr(s string) *float64 {
	v, ok := Float(s)
	if !ok {
		return nil
	}
	return &v
}

// Int parses a cell holding a whole number, including spreadsheet renderings
// such as "2016.0".
func Int(s string) (int, bool) {
	v, ok := Float(s)
	if !ok || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}

// Key normalizes an identifier cell. Whole numbers lose any trailing ".0"
// so that 6532 and 6532.0 name the same account.
func Key(s string) string {
	s = strings.TrimSpace(s)
	if n, ok := Int(s); ok && !strings.ContainsAny(s, ",") {
		return strconv.Itoa(n)
	}
	return s
}

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01-02-06",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"02 Jan 2006",
	"January 2, 2006",
}

// Date parses a reporting-period date cell: ISO dates and timestamps,
// common spreadsheet renderings, compact YYYYMMDD, and Excel serial day
// numbers.
func Date(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || IsNotApplicable(s) {
		return time.Time{}, fmt.Errorf("no date in %q", s)
	}
	if len(s) == 8 && allDigits(s) {
		return time.Parse("20060102", s)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
