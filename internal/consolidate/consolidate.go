// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package consolidate merges the per-year record sets of several
// questionnaire vintages into one table: one record per company and
// accounting year, with categorical gaps filled from the company's
// history and a few country names unified.
package consolidate

import (
	"cmp"
	"slices"

	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

// CountryAliases maps country spellings to the name used in the
// consolidated table.
var CountryAliases = map[string]string{
	"USA": "United States of America",
	"United Kingdom of Great Britain and Northern Ireland": "United Kingdom",
}

// Consolidate deduplicates, imputes and normalizes records in that order.
// The input is not modified.
func Consolidate(records []types.Record) []types.Record {
	out := Deduplicate(records)
	Impute(out)
	NormalizeCountries(out, CountryAliases)
	return out
}

// Deduplicate keeps one record per unique id: the one from the latest
// questionnaire year. Records are stably ordered by questionnaire year and
// the last of each unique id survives, so two records sharing both unique
// id and questionnaire year resolve to the later one in input order. Well
// formed input never has such ties.
func Deduplicate(records []types.Record) []types.Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b types.Record) int {
		return cmp.Compare(a.QuestionnaireYear, b.QuestionnaireYear)
	})

	last := make(map[string]int, len(sorted))
	for i, r := range sorted {
		last[r.UniqueID()] = i
	}
	out := make([]types.Record, 0, len(last))
	for i, r := range sorted {
		if last[r.UniqueID()] == i {
			out = append(out, r)
		}
	}
	return out
}

// imputed lists the attributes Impute fills.
var imputed = []func(*types.Record) *string{
	func(r *types.Record) *string { return &r.ISIN },
	func(r *types.Record) *string { return &r.Ticker },
	func(r *types.Record) *string { return &r.CoveredCountries },
	func(r *types.Record) *string { return &r.Activity },
	func(r *types.Record) *string { return &r.Sector },
	func(r *types.Record) *string { return &r.Industry },
}

// Impute fills absent categorical attributes from the same account's
// chronologically last record carrying them, by accounting year and then
// record order. Values never cross accounts.
func Impute(records []types.Record) {
	accounts := make(map[string][]int)
	for i, r := range records {
		accounts[r.AccountID] = append(accounts[r.AccountID], i)
	}

	for _, idx := range accounts {
		for _, field := range imputed {
			src := -1
			for _, i := range idx {
				if *field(&records[i]) == "" {
					continue
				}
				if src < 0 || records[i].AccountingYear >= records[src].AccountingYear {
					src = i
				}
			}
			if src < 0 {
				continue
			}
			value := *field(&records[src])
			for _, i := range idx {
				if f := field(&records[i]); *f == "" {
					*f = value
				}
			}
		}
	}
}

// NormalizeCountries rewrites country values found in aliases.
func NormalizeCountries(records []types.Record, aliases map[string]string) {
	for i := range records {
		if to, ok := aliases[records[i].Country]; ok {
			records[i].Country = to
		}
	}
}
