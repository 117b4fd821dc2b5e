// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBoundary(t *testing.T) {
	tests := []struct {
		in   string
		want Boundary
	}{
		{"Operational control", BoundaryOperational},
		{"Financial control", BoundaryFinancial},
		{"Equity share", BoundaryEquity},
		{"Other, please specify", BoundaryNone},
		{"operational control", BoundaryNone},
		{"", BoundaryNone},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBoundary(tt.in))
		})
	}
}

func TestRecordIdentity(t *testing.T) {
	r := Record{AccountID: "6532", AccountingYear: 2016}
	assert.Equal(t, "6532_2016", r.UniqueID())
	assert.True(t, r.Valid())

	assert.False(t, Record{AccountID: "6532"}.Valid())
	assert.False(t, Record{AccountingYear: 2016}.Valid())
}

func TestCountries(t *testing.T) {
	assert.Equal(t, "[]", EncodeCountries(nil))
	assert.Equal(t, `["UK","Canada"]`, EncodeCountries([]string{"UK", "Canada"}))
}

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{
		"":      FormatNone,
		"none":  FormatNone,
		"false": FormatNone,
		"xlsx":  FormatXLSX,
		"csv":   FormatCSV,
	} {
		got, err := ParseOutputFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseOutputFormat("parquet")
	assert.Error(t, err)
}

func TestParseCacheBackend(t *testing.T) {
	got, err := ParseCacheBackend("")
	require.NoError(t, err)
	assert.Equal(t, CacheFiles, got)

	got, err = ParseCacheBackend("sqlite")
	require.NoError(t, err)
	assert.Equal(t, CacheSQLite, got)

	_, err = ParseCacheBackend("redis")
	assert.Error(t, err)
}

func TestDefaultYears(t *testing.T) {
	years := DefaultYears()
	assert.Equal(t, 8, len(years))
	assert.Equal(t, 2015, years[0])
	assert.Equal(t, 2022, years[len(years)-1])
}
