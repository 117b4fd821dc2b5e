// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workbook reads raw questionnaire workbooks and reads and writes
// cleaned tables as xlsx or csv files in a data directory.
package workbook

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Pladifes/cdp-preprocessing/internal/extract"
	"github.com/Pladifes/cdp-preprocessing/internal/table"
	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

// cleanSheet names the single sheet of a cleaned xlsx table.
const cleanSheet = "cdp_clean"

// RawName is the file name of a questionnaire year's raw export.
func RawName(year int) string {
	return fmt.Sprintf("CDP_CC_emissions data_%d.xlsx", year)
}

// CleanName is the file name of a cleaned table; a nil year names the
// consolidated dataset.
func CleanName(year *int, format types.OutputFormat) string {
	if year == nil {
		return "cdp_clean_dataset." + string(format)
	}
	return fmt.Sprintf("cdp_clean_%d.%s", *year, format)
}

// Dir reads raw workbooks from RawDir and keeps cleaned tables in
// CleanDir.
type Dir struct {
	RawDir   string
	CleanDir string

	log *zap.Logger
}

// NewDir returns a Dir over the two directories.
func NewDir(rawDir, cleanDir string, log *zap.Logger) *Dir {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dir{RawDir: rawDir, CleanDir: cleanDir, log: log}
}

// Load reads the sheets layout names from the year's raw workbook. A
// missing sheet is a schema mismatch.
func (d *Dir) Load(ctx context.Context, year int, layout extract.Layout) (extract.Bundle, error) {
	path := filepath.Join(d.RawDir, RawName(year))
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	b := make(extract.Bundle, len(layout.Sheets))
	for _, s := range layout.Sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if idx, err := f.GetSheetIndex(s.Name); err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: %s has no sheet %q", extract.ErrSchemaMismatch, path, s.Name)
		}
		rows, err := f.GetRows(s.Name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q of %s: %w", s.Name, path, err)
		}
		b[s.Name] = table.New(s.Name, rows)
		d.log.Debug("loaded sheet",
			zap.Int("questionnaire_year", year),
			zap.String("sheet", s.Name),
			zap.Int("rows", b[s.Name].Len()))
	}
	return b, nil
}

// LoadCached reads cdp_clean_<year>.xlsx, or else the csv rendering. It
// returns types.ErrNotCached when neither exists.
func (d *Dir) LoadCached(_ context.Context, year int) ([]types.Record, error) {
	for _, format := range []types.OutputFormat{types.FormatXLSX, types.FormatCSV} {
		path := filepath.Join(d.CleanDir, CleanName(&year, format))
		t, err := readClean(path, format)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return decode(t)
	}
	return nil, types.ErrNotCached
}

func readClean(path string, format types.OutputFormat) (*table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	var rows [][]string
	switch format {
	case types.FormatCSV:
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		r := csv.NewReader(fh)
		r.FieldsPerRecord = -1
		if rows, err = r.ReadAll(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	default:
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		sheet := f.GetSheetName(0)
		if rows, err = f.GetRows(sheet, excelize.Options{RawCellValue: true}); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return table.New(filepath.Base(path), rows), nil
}

// Save writes records to CleanDir. The file is written under a temporary
// name and renamed into place.
func (d *Dir) Save(_ context.Context, records []types.Record, year *int, format types.OutputFormat) error {
	if format == types.FormatNone {
		return nil
	}
	if err := os.MkdirAll(d.CleanDir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", d.CleanDir, err)
	}
	name := CleanName(year, format)
	path := filepath.Join(d.CleanDir, name)
	// The temporary name keeps the extension; excelize refuses others.
	tmp := filepath.Join(d.CleanDir, ".partial-"+name)

	var err error
	switch format {
	case types.FormatXLSX:
		err = writeXLSX(tmp, records)
	case types.FormatCSV:
		err = writeCSV(tmp, records)
	default:
		err = fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	d.log.Info("saved cleaned table", zap.String("path", path), zap.Int("records", len(records)))
	return nil
}

func writeCSV(path string, records []types.Record) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := csv.NewWriter(fh)
	if err := w.Write(types.Columns); err != nil {
		fh.Close()
		return err
	}
	for _, r := range records {
		if err := w.Write(encodeStrings(r)); err != nil {
			fh.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		fh.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return fh.Close()
}

func writeXLSX(path string, records []types.Record) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", cleanSheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(cleanSheet)
	if err != nil {
		return err
	}

	header := make([]any, len(types.Columns))
	for i, c := range types.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, r := range records {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(axis, encode(r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
