// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fiscal maps a reporting-period end date to the accounting year
// it belongs to.
package fiscal

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned for unparseable end dates and for dates whose
// accounting year falls outside [MinYear, MaxYear].
var ErrInvalidDate = errors.New("invalid reporting date")

// Bounds of the accounting years the questionnaires can describe.
const (
	MinYear = 2009
	MaxYear = 2024
)

// Resolve returns the accounting year of a reporting period ending at end.
// Periods ending in June or earlier belong to the previous year; periods
// ending in July or later belong to the end date's calendar year.
func Resolve(end time.Time) (int, error) {
	if end.IsZero() {
		return 0, fmt.Errorf("%w: zero date", ErrInvalidDate)
	}
	year := end.Year()
	if end.Month() < time.July {
		year--
	}
	if year < MinYear || year > MaxYear {
		return 0, fmt.Errorf("%w: %s maps to %d, outside %d-%d",
			ErrInvalidDate, end.Format(time.DateOnly), year, MinYear, MaxYear)
	}
	return year, nil
}
