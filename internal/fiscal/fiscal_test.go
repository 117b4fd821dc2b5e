// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fiscal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"june belongs to previous year", date(2022, time.June, 30), 2021},
		{"july belongs to same year", date(2022, time.July, 1), 2022},
		{"december", date(2021, time.December, 31), 2021},
		{"january", date(2021, time.January, 31), 2020},
		{"lower bound", date(2009, time.July, 1), 2009},
		{"lower bound via june", date(2010, time.June, 30), 2009},
		{"upper bound", date(2024, time.July, 1), 2024},
		{"upper bound via june", date(2025, time.June, 30), 2024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveOutOfRange(t *testing.T) {
	for _, end := range []time.Time{
		date(2009, time.June, 30),
		date(2008, time.December, 31),
		date(2025, time.July, 1),
		date(2030, time.January, 1),
		{},
	} {
		_, err := Resolve(end)
		assert.ErrorIs(t, err, ErrInvalidDate, "end %v", end)
	}
}
