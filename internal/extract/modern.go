// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"go.uber.org/zap"

	"github.com/Pladifes/cdp-preprocessing/internal/fiscal"
	"github.com/Pladifes/cdp-preprocessing/internal/table"
	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

// Modern generation names.
const (
	GenerationCIntroduction = "c-introduction"
	GenerationCSummary      = "c-summary"
)

// ModernSchema describes which sheets one C questionnaire year carries.
type ModernSchema struct {
	Year int

	// BaseSheet holds per-account metadata: "C0 - Introduction" until
	// 2021, "Summary Data" afterwards.
	BaseSheet string

	// Countries is set when the year has a C0.3 covered-countries sheet.
	Countries bool

	// BoundarySheet is set when the boundary answer lives in its own C0.5
	// sheet rather than in the base sheet.
	BoundarySheet bool
}

// modernExtractor reads the C questionnaires (2018 onwards). Every account
// may report several periods in C0.2; each becomes one record whose
// accounting year is resolved from the period end date.
type modernExtractor struct {
	schema      ModernSchema
	corrections Corrections
	log         *zap.Logger
}

// NewModern returns the extractor for a C questionnaire year.
func NewModern(schema ModernSchema, corrections Corrections, log *zap.Logger) Extractor {
	return &modernExtractor{
		schema:      schema,
		corrections: corrections.ForYear(schema.Year),
		log:         nopIfNil(log),
	}
}

func (e *modernExtractor) Year() int { return e.schema.Year }

func (e *modernExtractor) Generation() string {
	if e.schema.BaseSheet == sheetSummary {
		return GenerationCSummary
	}
	return GenerationCIntroduction
}

func (e *modernExtractor) Layout() Layout {
	sheets := []SheetSpec{{Name: e.schema.BaseSheet}, {Name: sheetPeriods}}
	if e.schema.Countries {
		sheets = append(sheets, SheetSpec{Name: sheetCountries})
	}
	if e.schema.BoundarySheet {
		sheets = append(sheets, SheetSpec{Name: sheetBoundaries})
	}
	sheets = append(sheets,
		SheetSpec{Name: sheetScope1},
		SheetSpec{Name: sheetScope2},
		SheetSpec{Name: sheetScope3},
	)
	return Layout{Sheets: sheets}
}

func (e *modernExtractor) Extract(b Bundle) ([]types.Record, error) {
	base, err := b.Require(e.schema.BaseSheet)
	if err != nil {
		return nil, err
	}
	periods, err := b.Require(sheetPeriods)
	if err != nil {
		return nil, err
	}
	s1, err := b.Require(sheetScope1)
	if err != nil {
		return nil, err
	}
	s2, err := b.Require(sheetScope2)
	if err != nil {
		return nil, err
	}
	s3, err := b.Require(sheetScope3)
	if err != nil {
		return nil, err
	}

	var countries map[string]string
	if e.schema.Countries {
		t, err := b.Require(sheetCountries)
		if err != nil {
			return nil, err
		}
		if countries, err = modernCountries(t); err != nil {
			return nil, err
		}
	}

	boundaries, err := e.boundaries(base, b)
	if err != nil {
		return nil, err
	}
	scope1, err := modernScope1(s1)
	if err != nil {
		return nil, err
	}
	scope2, err := modernScope2(s2)
	if err != nil {
		return nil, err
	}

	drafts, err := e.periodDrafts(periods, base)
	if err != nil {
		return nil, err
	}
	for i := range drafts {
		d := &drafts[i]
		d.Boundary = types.Boundary(boundaries[d.AccountID])
		if countries != nil {
			d.CoveredCountries = countries[d.AccountID]
		}
		k := d.joinKey()
		d.CF1 = scope1[k]
		if v, ok := scope2[k]; ok {
			d.CF2Location = v.location
			d.CF2Market = v.market
		}
	}

	drafts = e.corrections.apply(drafts, e.log)

	totals, err := modernScope3(s3)
	if err != nil {
		return nil, err
	}
	attachScope3(drafts, totals, false)

	records := finalize(drafts, e.log, e.schema.Year)
	attributeScope3ToLastYear(records)
	return records, nil
}

// metadata columns shared by C0.2 and the base sheet.
type metadataColumns struct {
	name, country, activity, sector, industry, isin, ticker int
}

func metadataOf(t *table.Table) metadataColumns {
	return metadataColumns{
		name:     optionalColumn(t, colName...),
		country:  optionalColumn(t, colCountry...),
		activity: optionalColumn(t, colActivity...),
		sector:   optionalColumn(t, colSector...),
		industry: optionalColumn(t, colIndustry...),
		isin:     optionalColumn(t, colISIN...),
		ticker:   optionalColumn(t, colTicker...),
	}
}

// periodDrafts builds one draft per reported period of C0.2, with entity
// metadata from the period row or else from the account's base sheet row.
func (e *modernExtractor) periodDrafts(periods, base *table.Table) ([]draft, error) {
	account, err := requireColumn(periods, "account", colAccount...)
	if err != nil {
		return nil, err
	}
	start, err := requireColumn(periods, "period start", colPeriodStart...)
	if err != nil {
		return nil, err
	}
	end, err := requireColumn(periods, "period end", colPeriodEnd...)
	if err != nil {
		return nil, err
	}
	rowCol, err := requireColumn(periods, "row", colRow...)
	if err != nil {
		return nil, err
	}

	baseAccount, err := requireColumn(base, "account", colAccount...)
	if err != nil {
		return nil, err
	}
	baseRows := make(map[string]int, base.Len())
	for i := range base.Rows {
		id := table.Key(base.Cell(i, baseAccount))
		if _, ok := baseRows[id]; !ok && id != "" {
			baseRows[id] = i
		}
	}

	pm, bm := metadataOf(periods), metadataOf(base)
	var drafts []draft
	skipped := 0
	for i := range periods.Rows {
		startRaw, endRaw := periods.Cell(i, start), periods.Cell(i, end)
		if startRaw == "" || endRaw == "" || table.IsNotApplicable(startRaw) || table.IsNotApplicable(endRaw) {
			skipped++
			continue
		}
		id := table.Key(periods.Cell(i, account))
		row, _ := table.Int(periods.Cell(i, rowCol))

		bi, hasBase := baseRows[id]
		pick := func(pc, bc int) string {
			if v := periods.Cell(i, pc); v != "" {
				return v
			}
			if hasBase {
				return base.Cell(bi, bc)
			}
			return ""
		}

		drafts = append(drafts, draft{
			Record: types.Record{
				AccountID:      id,
				AccountName:    pick(pm.name, bm.name),
				Country:        pick(pm.country, bm.country),
				Activity:       pick(pm.activity, bm.activity),
				Sector:         pick(pm.sector, bm.sector),
				Industry:       pick(pm.industry, bm.industry),
				ISIN:           pick(pm.isin, bm.isin),
				Ticker:         pick(pm.ticker, bm.ticker),
				AccountingYear: e.accountingYear(id, row, endRaw),
			},
			row: row,
		})
	}
	if skipped > 0 {
		e.log.Debug("dropped reporting periods without dates",
			zap.Int("questionnaire_year", e.schema.Year), zap.Int("rows", skipped))
	}
	return drafts, nil
}

// accountingYear resolves a period end date. Malformed or out-of-range
// dates are logged and yield 0; the row is dropped unless a correction
// assigns a year.
func (e *modernExtractor) accountingYear(account string, row int, endRaw string) int {
	end, err := table.Date(endRaw)
	if err == nil {
		var year int
		if year, err = fiscal.Resolve(end); err == nil {
			return year
		}
	}
	e.log.Warn("malformed reporting period end date",
		zap.Int("questionnaire_year", e.schema.Year),
		zap.String("account_id", account),
		zap.Int("row", row),
		zap.String("end_date", endRaw),
		zap.Error(err))
	return 0
}

// boundaries maps accounts to their raw consolidation-approach answer.
func (e *modernExtractor) boundaries(base *table.Table, b Bundle) (map[string]string, error) {
	t := base
	if e.schema.BoundarySheet {
		var err error
		if t, err = b.Require(sheetBoundaries); err != nil {
			return nil, err
		}
	}
	account, err := requireColumn(t, "account", colAccount...)
	if err != nil {
		return nil, err
	}
	boundary, err := requireColumn(t, "boundary", colBoundary...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, t.Len())
	for i := range t.Rows {
		id := table.Key(t.Cell(i, account))
		if _, ok := out[id]; !ok && id != "" {
			out[id] = t.Cell(i, boundary)
		}
	}
	return out, nil
}

func rowKey(t *table.Table, i, account, row int) string {
	n, _ := table.Int(t.Cell(i, row))
	return draft{Record: types.Record{AccountID: table.Key(t.Cell(i, account))}, row: n}.joinKey()
}

func modernScope1(t *table.Table) (map[string]*float64, error) {
	account, err := requireColumn(t, "account", colAccount...)
	if err != nil {
		return nil, err
	}
	row, err := requireColumn(t, "row", colRow...)
	if err != nil {
		return nil, err
	}
	scope1, err := requireColumn(t, "Scope 1", colScope1...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*float64, t.Len())
	for i := range t.Rows {
		k := rowKey(t, i, account, row)
		if _, ok := out[k]; !ok {
			out[k] = table.FloatPtr(t.Cell(i, scope1))
		}
	}
	return out, nil
}

func modernScope2(t *table.Table) (map[string]scope2Values, error) {
	account, err := requireColumn(t, "account", colAccount...)
	if err != nil {
		return nil, err
	}
	row, err := requireColumn(t, "row", colRow...)
	if err != nil {
		return nil, err
	}
	location, err := requireColumn(t, "Scope 2 location-based", colScope2Location...)
	if err != nil {
		return nil, err
	}
	market, err := requireColumn(t, "Scope 2 market-based", colScope2Market...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]scope2Values, t.Len())
	for i := range t.Rows {
		k := rowKey(t, i, account, row)
		if _, ok := out[k]; !ok {
			out[k] = scope2Values{
				location: table.FloatPtr(t.Cell(i, location)),
				market:   table.FloatPtr(t.Cell(i, market)),
			}
		}
	}
	return out, nil
}

// modernScope3 aggregates C6.5 per account over every category row.
func modernScope3(t *table.Table) (map[scope3Key]scope3Total, error) {
	account, err := requireColumn(t, "account", colAccount...)
	if err != nil {
		return nil, err
	}
	status, err := requireColumn(t, "Scope 3 evaluation status", colScope3Status...)
	if err != nil {
		return nil, err
	}
	metric, err := requireColumn(t, "Scope 3 emissions", colScope3Metric...)
	if err != nil {
		return nil, err
	}
	return aggregateScope3(t, scope3Sheet{
		account: account,
		status:  status,
		metric:  metric,
		year:    -1,
	}), nil
}
