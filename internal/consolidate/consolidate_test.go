// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consolidate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

// sameRows compares record sets ignoring order.
var sameRows = cmpopts.SortSlices(func(a, b types.Record) bool {
	if a.UniqueID() != b.UniqueID() {
		return a.UniqueID() < b.UniqueID()
	}
	return a.QuestionnaireYear < b.QuestionnaireYear
})

func TestDeduplicate(t *testing.T) {
	in := []types.Record{
		{AccountID: "1", AccountingYear: 2019, QuestionnaireYear: 2021, AccountName: "late"},
		{AccountID: "1", AccountingYear: 2019, QuestionnaireYear: 2020, AccountName: "early"},
		{AccountID: "1", AccountingYear: 2020, QuestionnaireYear: 2021},
		{AccountID: "2", AccountingYear: 2019, QuestionnaireYear: 2020},
	}
	got := Deduplicate(in)

	want := []types.Record{in[0], in[2], in[3]}
	if diff := cmp.Diff(want, got, sameRows); diff != "" {
		t.Errorf("Deduplicate mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "early", in[1].AccountName, "input untouched")
}

func TestDeduplicateTie(t *testing.T) {
	in := []types.Record{
		{AccountID: "1", AccountingYear: 2019, QuestionnaireYear: 2020, AccountName: "first"},
		{AccountID: "1", AccountingYear: 2019, QuestionnaireYear: 2020, AccountName: "second"},
	}
	got := Deduplicate(in)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].AccountName)
}

func TestDeduplicateIdempotent(t *testing.T) {
	in := []types.Record{
		{AccountID: "1", AccountingYear: 2019, QuestionnaireYear: 2020},
		{AccountID: "1", AccountingYear: 2019, QuestionnaireYear: 2021},
		{AccountID: "1", AccountingYear: 2018, QuestionnaireYear: 2019},
		{AccountID: "3", AccountingYear: 2018, QuestionnaireYear: 2019},
	}
	once := Deduplicate(in)
	twice := Deduplicate(once)
	assert.Equal(t, once, twice)
}

func TestImpute(t *testing.T) {
	records := []types.Record{
		{AccountID: "1", AccountingYear: 2019},
		{AccountID: "1", AccountingYear: 2020, ISIN: "ABC", Sector: "Tech"},
		{AccountID: "1", AccountingYear: 2018, ISIN: "OLD", Ticker: "T1"},
		{AccountID: "2", AccountingYear: 2020, Industry: "Mining"},
		{AccountID: "3", AccountingYear: 2020},
	}
	Impute(records)

	for _, r := range records[:3] {
		assert.Equal(t, "T1", r.Ticker, r.UniqueID())
		assert.Equal(t, "Tech", r.Sector, r.UniqueID())
		assert.Empty(t, r.Industry, "values never cross accounts")
	}
	assert.Equal(t, "ABC", records[0].ISIN, "latest accounting year wins")
	assert.Equal(t, "OLD", records[2].ISIN, "present values are kept")
	assert.Equal(t, "Mining", records[3].Industry)
	assert.Empty(t, records[4].Sector)
	assert.Empty(t, records[3].ISIN)
}

func TestImputeRecordOrderBreaksTies(t *testing.T) {
	records := []types.Record{
		{AccountID: "1", AccountingYear: 2020, Activity: "first"},
		{AccountID: "1", AccountingYear: 2020, Activity: "second"},
		{AccountID: "1", AccountingYear: 2019},
	}
	Impute(records)
	assert.Equal(t, "second", records[2].Activity)
}

func TestNormalizeCountries(t *testing.T) {
	records := []types.Record{
		{Country: "USA"},
		{Country: "United Kingdom of Great Britain and Northern Ireland"},
		{Country: "Atlantis"},
		{},
	}
	NormalizeCountries(records, CountryAliases)
	assert.Equal(t, "United States of America", records[0].Country)
	assert.Equal(t, "United Kingdom", records[1].Country)
	assert.Equal(t, "Atlantis", records[2].Country)
	assert.Empty(t, records[3].Country)
}

func TestConsolidate(t *testing.T) {
	in := []types.Record{
		{AccountID: "1", AccountingYear: 2019, QuestionnaireYear: 2020, CF1: types.Float(1), Country: "USA"},
		{AccountID: "1", AccountingYear: 2019, QuestionnaireYear: 2021, CF1: types.Float(2), Country: "USA"},
		{AccountID: "1", AccountingYear: 2020, QuestionnaireYear: 2021, CF1: types.Float(3), Sector: "Tech", Country: "USA"},
		{AccountID: "2", AccountingYear: 2019, QuestionnaireYear: 2020, CF1: types.Float(4), ISIN: "GB0001", Country: "Atlantis"},
	}
	got := Consolidate(in)

	// Account 2 gets no sector from account 1, and account 1 no ISIN from
	// account 2.
	want := []types.Record{
		{AccountID: "1", AccountingYear: 2019, QuestionnaireYear: 2021, CF1: types.Float(2), Sector: "Tech", Country: "United States of America"},
		{AccountID: "1", AccountingYear: 2020, QuestionnaireYear: 2021, CF1: types.Float(3), Sector: "Tech", Country: "United States of America"},
		{AccountID: "2", AccountingYear: 2019, QuestionnaireYear: 2020, CF1: types.Float(4), ISIN: "GB0001", Country: "Atlantis"},
	}
	if diff := cmp.Diff(want, got, sameRows); diff != "" {
		t.Errorf("Consolidate mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "USA", in[0].Country, "input untouched")
}

func TestConsolidateEmpty(t *testing.T) {
	assert.Empty(t, Consolidate(nil))
}
