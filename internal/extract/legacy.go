// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Pladifes/cdp-preprocessing/internal/table"
	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

// Legacy generation names.
const (
	GenerationCCCombined = "cc-combined"
	GenerationCCSplit    = "cc-split"
)

// legacyExtractor reads the CC questionnaires (2015 to 2017). Accounting
// years come straight from the sheets. The combined layout carries Scope 2
// in the emissions sheet at fixed positions; the split layout reads it from
// CC8.3a keyed by account and accounting year.
type legacyExtractor struct {
	year        int
	combined    bool
	corrections Corrections
	log         *zap.Logger
}

// NewLegacy returns the extractor for a CC questionnaire year. combined
// selects the single-sheet emissions layout.
func NewLegacy(year int, combined bool, corrections Corrections, log *zap.Logger) Extractor {
	return &legacyExtractor{
		year:        year,
		combined:    combined,
		corrections: corrections.ForYear(year),
		log:         nopIfNil(log),
	}
}

func (e *legacyExtractor) Year() int { return e.year }

func (e *legacyExtractor) Generation() string {
	if e.combined {
		return GenerationCCCombined
	}
	return GenerationCCSplit
}

func (e *legacyExtractor) Layout() Layout {
	sheets := []SheetSpec{{Name: sheetLegacyCountries}, {Name: sheetLegacyEmissions}}
	if !e.combined {
		sheets = append(sheets, SheetSpec{Name: sheetLegacyScope2})
	}
	sheets = append(sheets, SheetSpec{Name: sheetLegacyScope3})
	return Layout{Sheets: sheets}
}

func (e *legacyExtractor) Extract(b Bundle) ([]types.Record, error) {
	countrySheet, err := b.Require(sheetLegacyCountries)
	if err != nil {
		return nil, err
	}
	emissions, err := b.Require(sheetLegacyEmissions)
	if err != nil {
		return nil, err
	}
	itemized, err := b.Require(sheetLegacyScope3)
	if err != nil {
		return nil, err
	}

	countries, err := legacyCountries(countrySheet)
	if err != nil {
		return nil, err
	}

	var drafts []draft
	if e.combined {
		drafts, err = e.combinedDrafts(emissions)
	} else {
		drafts, err = e.splitDrafts(emissions, b)
	}
	if err != nil {
		return nil, err
	}
	for i := range drafts {
		drafts[i].CoveredCountries = countries[drafts[i].AccountID]
	}

	drafts = e.corrections.apply(drafts, e.log)

	totals, err := legacyScope3(itemized)
	if err != nil {
		return nil, err
	}
	attachScope3(drafts, totals, true)

	return finalize(drafts, e.log, e.year), nil
}

func (e *legacyExtractor) combinedDrafts(t *table.Table) ([]draft, error) {
	if t.Width() < pos2015MinWidth {
		return nil, fmt.Errorf("%w: sheet %q has %d columns, want at least %d",
			ErrSchemaMismatch, t.Name, t.Width(), pos2015MinWidth)
	}
	drafts := make([]draft, 0, t.Len())
	for i := range t.Rows {
		year, _ := table.Int(t.Cell(i, pos2015Year))
		row, _ := table.Int(t.Cell(i, pos2015Row))
		drafts = append(drafts, draft{
			Record: types.Record{
				AccountID:      table.Key(t.Cell(i, pos2015Account)),
				AccountName:    t.Cell(i, pos2015Name),
				Country:        t.Cell(i, pos2015Country),
				Ticker:         t.Cell(i, pos2015Ticker),
				ISIN:           t.Cell(i, pos2015ISIN),
				AccountingYear: year,
				Boundary:       types.Boundary(t.Cell(i, pos2015Boundary)),
				CF1:            table.FloatPtr(t.Cell(i, pos2015Scope1)),
				CF2Location:    table.FloatPtr(t.Cell(i, pos2015Scope2)),
			},
			row: row,
		})
	}
	return drafts, nil
}

type scope2Values struct {
	location *float64
	market   *float64
}

func (e *legacyExtractor) splitDrafts(t *table.Table, b Bundle) ([]draft, error) {
	scope2Sheet, err := b.Require(sheetLegacyScope2)
	if err != nil {
		return nil, err
	}
	scope2, err := legacyScope2(scope2Sheet)
	if err != nil {
		return nil, err
	}

	account, err := requireColumn(t, "account", colLegacyAccount...)
	if err != nil {
		return nil, err
	}
	year, err := requireColumn(t, "accounting year", colLegacyYear...)
	if err != nil {
		return nil, err
	}
	scope1, err := requireColumn(t, "Scope 1", colLegacyScope1...)
	if err != nil {
		return nil, err
	}
	boundary, err := requireColumn(t, "boundary", colLegacyBoundary...)
	if err != nil {
		return nil, err
	}
	name := optionalColumn(t, colLegacyName...)
	country := optionalColumn(t, colLegacyCountry...)
	ticker := optionalColumn(t, colLegacyTicker...)
	isin := optionalColumn(t, colLegacyISIN...)

	var drafts []draft
	unmatched := 0
	for i := range t.Rows {
		y, _ := table.Int(t.Cell(i, year))
		base := types.Record{
			AccountID:      table.Key(t.Cell(i, account)),
			AccountName:    t.Cell(i, name),
			Country:        t.Cell(i, country),
			Ticker:         t.Cell(i, ticker),
			ISIN:           t.Cell(i, isin),
			AccountingYear: y,
			Boundary:       types.Boundary(t.Cell(i, boundary)),
			CF1:            table.FloatPtr(t.Cell(i, scope1)),
		}
		matches := scope2[scope3Key{account: base.AccountID, year: y}]
		if len(matches) == 0 {
			unmatched++
			continue
		}
		// Inner join: one record per Scope-2 row of the account and year.
		for _, s2 := range matches {
			r := base
			r.CF2Location = s2.location
			r.CF2Market = s2.market
			drafts = append(drafts, draft{Record: r})
		}
	}
	if unmatched > 0 {
		e.log.Debug("dropped emissions rows without Scope 2 figures",
			zap.Int("questionnaire_year", e.year), zap.Int("rows", unmatched))
	}
	return drafts, nil
}

func legacyScope2(t *table.Table) (map[scope3Key][]scope2Values, error) {
	account, err := requireColumn(t, "account", colLegacyAccount...)
	if err != nil {
		return nil, err
	}
	year, err := requireColumn(t, "accounting year", colLegacyYear...)
	if err != nil {
		return nil, err
	}
	location, err := requireColumn(t, "Scope 2 location-based", colLegacyScope2Location...)
	if err != nil {
		return nil, err
	}
	market, err := requireColumn(t, "Scope 2 market-based", colLegacyScope2Market...)
	if err != nil {
		return nil, err
	}

	out := make(map[scope3Key][]scope2Values)
	for i := range t.Rows {
		y, _ := table.Int(t.Cell(i, year))
		k := scope3Key{account: table.Key(t.Cell(i, account)), year: y}
		out[k] = append(out[k], scope2Values{
			location: table.FloatPtr(t.Cell(i, location)),
			market:   table.FloatPtr(t.Cell(i, market)),
		})
	}
	return out, nil
}

// legacyScope3 aggregates CC14.1 per account and accounting year, keeping
// only organizations with exactly the full set of category rows. Partial
// disclosures get no Scope-3 total.
func legacyScope3(t *table.Table) (map[scope3Key]scope3Total, error) {
	account, err := requireColumn(t, "account", colLegacyAccount...)
	if err != nil {
		return nil, err
	}
	name, err := requireColumn(t, "account name", colLegacyName...)
	if err != nil {
		return nil, err
	}
	year, err := requireColumn(t, "accounting year", colLegacyYear...)
	if err != nil {
		return nil, err
	}
	status, err := requireColumn(t, "Scope 3 evaluation status", colLegacyScope3Status...)
	if err != nil {
		return nil, err
	}
	metric, err := requireColumn(t, "Scope 3 emissions", colLegacyScope3Metric...)
	if err != nil {
		return nil, err
	}
	return aggregateScope3(t, scope3Sheet{
		account: account,
		status:  status,
		metric:  metric,
		year:    year,
		group:   name,
		expect:  legacyScope3Categories,
	}), nil
}
