// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns one questionnaire year's raw sheets into canonical
// emission records. Each questionnaire generation has its own sheet layout;
// a Registry maps questionnaire years to the Extractor that reads them.
package extract

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Pladifes/cdp-preprocessing/internal/table"
	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

// ErrSchemaMismatch is returned when a bundle lacks a sheet or column the
// extractor needs. It is fatal for the year being extracted.
var ErrSchemaMismatch = errors.New("schema mismatch")

// Extractor reads the raw sheets of one questionnaire year.
type Extractor interface {
	// Year is the questionnaire year the extractor reads.
	Year() int

	// Generation names the sheet layout family (e.g. "cc-combined").
	Generation() string

	// Layout lists the sheets the extractor reads.
	Layout() Layout

	// Extract produces canonical records. QuestionnaireYear is left for
	// the caller to set.
	Extract(b Bundle) ([]types.Record, error)
}

// SheetSpec names one sheet of a raw workbook.
type SheetSpec struct {
	Name string `json:"name" yaml:"name"`
}

// Layout describes the sheets of one questionnaire year's workbook.
type Layout struct {
	Sheets []SheetSpec `json:"sheets" yaml:"sheets"`
}

// Names returns the sheet names in layout order.
func (l Layout) Names() []string {
	names := make([]string, len(l.Sheets))
	for i, s := range l.Sheets {
		names[i] = s.Name
	}
	return names
}

// Bundle holds the raw sheets loaded for one questionnaire year, keyed by
// sheet name.
type Bundle map[string]*table.Table

// NewBundle indexes tables by name.
func NewBundle(tables ...*table.Table) Bundle {
	b := make(Bundle, len(tables))
	for _, t := range tables {
		b[t.Name] = t
	}
	return b
}

// Require returns the named sheet or an ErrSchemaMismatch error.
func (b Bundle) Require(name string) (*table.Table, error) {
	t, ok := b[name]
	if !ok || t == nil {
		return nil, fmt.Errorf("%w: sheet %q missing", ErrSchemaMismatch, name)
	}
	return t, nil
}

// requireColumn resolves a column a sheet must carry.
func requireColumn(t *table.Table, what string, names ...string) (int, error) {
	col, ok := t.Lookup(names...)
	if !ok {
		return -1, fmt.Errorf("%w: sheet %q has no %s column", ErrSchemaMismatch, t.Name, what)
	}
	return col, nil
}

// optionalColumn resolves a column that may be absent; -1 reads as empty.
func optionalColumn(t *table.Table, names ...string) int {
	col, _ := t.Lookup(names...)
	return col
}

// draft is a record under assembly. row is the reporting-period row number
// from the questionnaire, 0 when the sheet has none. AccountingYear 0
// means the year could not be determined.
type draft struct {
	types.Record
	row int
}

// joinKey is the literal account_row key historical corrections refer to.
func (d draft) joinKey() string {
	return fmt.Sprintf("%s_%d", d.AccountID, d.row)
}

// finalize drops drafts without account or accounting year and applies
// the value rules every generation shares.
func finalize(drafts []draft, log *zap.Logger, year int) []types.Record {
	out := make([]types.Record, 0, len(drafts))
	dropped := 0
	for _, d := range drafts {
		r := d.Record
		if !r.Valid() {
			dropped++
			continue
		}
		r.Boundary = types.NormalizeBoundary(string(r.Boundary))
		if r.CF3 == nil {
			r.CF3Relevance = nil
		}
		out = append(out, r)
	}
	if dropped > 0 {
		log.Debug("dropped rows missing account or accounting year",
			zap.Int("questionnaire_year", year), zap.Int("rows", dropped))
	}
	return out
}

// attributeScope3ToLastYear keeps Scope-3 values only on each account's
// latest accounting year. Overlapping filings within one questionnaire
// repeat the same account-level Scope-3 total on every reported period.
func attributeScope3ToLastYear(records []types.Record) {
	last := make(map[string]int)
	for _, r := range records {
		if y, ok := last[r.AccountID]; !ok || r.AccountingYear > y {
			last[r.AccountID] = r.AccountingYear
		}
	}
	for i := range records {
		if records[i].AccountingYear != last[records[i].AccountID] {
			records[i].CF3 = nil
			records[i].CF3Relevance = nil
		}
	}
}

func nopIfNil(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
