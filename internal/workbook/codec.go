// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workbook

import (
	"fmt"
	"strconv"

	"github.com/Pladifes/cdp-preprocessing/internal/table"
	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

// cell is one output value: a string, an int, a float64, or nil when the
// attribute is absent.
type cell = any

// encode lays a record out in types.Columns order.
func encode(r types.Record) []cell {
	str := func(s string) cell {
		if s == "" {
			return nil
		}
		return s
	}
	num := func(v *float64) cell {
		if v == nil {
			return nil
		}
		return *v
	}
	return []cell{
		str(r.AccountID),
		str(r.AccountName),
		str(r.Country),
		str(r.Activity),
		str(r.Sector),
		str(r.Industry),
		str(r.ISIN),
		str(r.Ticker),
		r.AccountingYear,
		str(string(r.Boundary)),
		str(r.CoveredCountries),
		num(r.CF1),
		num(r.CF2Location),
		num(r.CF2Market),
		num(r.CF3),
		num(r.CF3Relevance),
		r.UniqueID(),
		r.QuestionnaireYear,
	}
}

// encodeStrings renders encode's cells as text for delimited output.
func encodeStrings(r types.Record) []string {
	cells := encode(r)
	out := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case nil:
		case string:
			out[i] = v
		case int:
			out[i] = strconv.Itoa(v)
		case float64:
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return out
}

// decode reads a cleaned table written by encode. Columns are matched by
// header name; unknown columns and the derived unique_id are ignored.
func decode(t *table.Table) ([]types.Record, error) {
	col := make(map[string]int, len(types.Columns))
	for _, name := range types.Columns {
		if i, ok := t.Lookup(name); ok {
			col[name] = i
		}
	}
	for _, required := range []string{"account_id", "accounting_year"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("cleaned table %s has no %s column", t.Name, required)
		}
	}
	get := func(i int, name string) string {
		c, ok := col[name]
		if !ok {
			return ""
		}
		return t.Cell(i, c)
	}

	records := make([]types.Record, 0, t.Len())
	for i := range t.Rows {
		year, ok := table.Int(get(i, "accounting_year"))
		if !ok {
			return nil, fmt.Errorf("cleaned table %s row %d: bad accounting_year %q", t.Name, i+2, get(i, "accounting_year"))
		}
		qy, _ := table.Int(get(i, "questionnaire_year"))
		records = append(records, types.Record{
			AccountID:         table.Key(get(i, "account_id")),
			AccountName:       get(i, "account_name"),
			Country:           get(i, "country"),
			Activity:          get(i, "activity"),
			Sector:            get(i, "sector"),
			Industry:          get(i, "industry"),
			ISIN:              get(i, "isin"),
			Ticker:            get(i, "ticker"),
			AccountingYear:    year,
			Boundary:          types.NormalizeBoundary(get(i, "boundary")),
			CoveredCountries:  get(i, "covered_countries"),
			CF1:               table.FloatPtr(get(i, "CDP_CF1")),
			CF2Location:       table.FloatPtr(get(i, "CDP_CF2_location")),
			CF2Market:         table.FloatPtr(get(i, "CDP_CF2_market")),
			CF3:               table.FloatPtr(get(i, "CDP_CF3")),
			CF3Relevance:      table.FloatPtr(get(i, "CF3_relevance")),
			QuestionnaireYear: qy,
		})
	}
	return records, nil
}
