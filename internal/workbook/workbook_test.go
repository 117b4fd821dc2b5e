// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workbook

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Pladifes/cdp-preprocessing/internal/extract"
	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

func sampleRecords() []types.Record {
	return []types.Record{
		{
			AccountID:         "6532",
			AccountName:       "Firstsource Solutions",
			Country:           "India",
			AccountingYear:    2016,
			Boundary:          types.BoundaryOperational,
			CoveredCountries:  "United Kingdom|India",
			CF1:               types.Float(35.75),
			CF3:               types.Float(0),
			CF3Relevance:      types.Float(0.3333333333333333),
			QuestionnaireYear: 2016,
		},
		{
			AccountID:         "7",
			AccountName:       "Org, with comma",
			ISIN:              "DE0007",
			AccountingYear:    2015,
			CoveredCountries:  `["Germany","France"]`,
			CF2Location:       types.Float(1234567.125),
			CF2Market:         types.Float(-1),
			QuestionnaireYear: 2016,
		},
	}
}

func TestNames(t *testing.T) {
	year := 2016
	assert.Equal(t, "CDP_CC_emissions data_2016.xlsx", RawName(year))
	assert.Equal(t, "cdp_clean_2016.csv", CleanName(&year, types.FormatCSV))
	assert.Equal(t, "cdp_clean_dataset.xlsx", CleanName(nil, types.FormatXLSX))
}

func TestSaveAndLoadCached(t *testing.T) {
	for _, format := range []types.OutputFormat{types.FormatXLSX, types.FormatCSV} {
		t.Run(string(format), func(t *testing.T) {
			dir := NewDir(t.TempDir(), filepath.Join(t.TempDir(), "clean"), nil)
			ctx := context.Background()
			year := 2016

			_, err := dir.LoadCached(ctx, year)
			assert.ErrorIs(t, err, types.ErrNotCached)

			require.NoError(t, dir.Save(ctx, sampleRecords(), &year, format))
			assert.FileExists(t, filepath.Join(dir.CleanDir, CleanName(&year, format)))

			got, err := dir.LoadCached(ctx, year)
			require.NoError(t, err)
			assert.Equal(t, sampleRecords(), got)

			entries, err := os.ReadDir(dir.CleanDir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "no temporary files are left behind")
		})
	}
}

func TestSaveDataset(t *testing.T) {
	dir := NewDir("", t.TempDir(), nil)
	require.NoError(t, dir.Save(context.Background(), sampleRecords(), nil, types.FormatCSV))

	tb, err := readClean(filepath.Join(dir.CleanDir, "cdp_clean_dataset.csv"), types.FormatCSV)
	require.NoError(t, err)
	got, err := decode(tb)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, dir.Save(context.Background(), sampleRecords(), nil, types.FormatNone))
}

func TestLoadCachedBadTable(t *testing.T) {
	dir := NewDir("", t.TempDir(), nil)
	path := filepath.Join(dir.CleanDir, "cdp_clean_2017.csv")
	require.NoError(t, os.WriteFile(path, []byte("account_name\nOrg\n"), 0o644))

	_, err := dir.LoadCached(context.Background(), 2017)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrNotCached)
}

func writeRawWorkbook(t *testing.T, path string, sheets map[string][][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			axis, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, axis, &row))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))
	require.NoError(t, f.SaveAs(path))
}

func TestLoad(t *testing.T) {
	raw := t.TempDir()
	writeRawWorkbook(t, filepath.Join(raw, RawName(2018)), map[string][][]any{
		"C0.2": {
			{"Account number", "Row", "End date"},
			{100, 1, "2018-06-30"},
			{},
			{200, 1, 12.5},
		},
		"C6.1": {
			{"Account number"},
		},
	})
	dir := NewDir(raw, t.TempDir(), nil)

	b, err := dir.Load(context.Background(), 2018, extract.Layout{Sheets: []extract.SheetSpec{
		{Name: "C0.2"},
		{Name: "C6.1"},
	}})
	require.NoError(t, err)
	assert.Len(t, b, 2)

	periods, err := b.Require("C0.2")
	require.NoError(t, err)
	assert.Equal(t, 2, periods.Len())
	assert.Equal(t, "100", periods.Cell(0, 0))
	assert.Equal(t, "2018-06-30", periods.Cell(0, 2))
	assert.Equal(t, "12.5", periods.Cell(1, 2))

	_, err = dir.Load(context.Background(), 2018, extract.Layout{Sheets: []extract.SheetSpec{{Name: "C6.5"}}})
	assert.ErrorIs(t, err, extract.ErrSchemaMismatch)

	_, err = dir.Load(context.Background(), 2019, extract.Layout{})
	assert.Error(t, err, "missing workbook")
}
