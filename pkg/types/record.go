// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"errors"
	"strconv"
)

// ErrNotCached is returned by a table source when no pre-cleaned result
// exists for a questionnaire year.
var ErrNotCached = errors.New("no cached result")

// Boundary is the consolidation approach used to scope emissions reporting.
type Boundary string

const (
	BoundaryNone        Boundary = ""
	BoundaryOperational Boundary = "Operational control"
	BoundaryFinancial   Boundary = "Financial control"
	BoundaryEquity      Boundary = "Equity share"
)

// NormalizeBoundary returns b when it is one of the three standard GHG
// boundaries and BoundaryNone otherwise.
func NormalizeBoundary(raw string) Boundary {
	switch b := Boundary(raw); b {
	case BoundaryOperational, BoundaryFinancial, BoundaryEquity:
		return b
	default:
		return BoundaryNone
	}
}

// Record is one company's disclosure for one accounting year, produced
// from one questionnaire vintage. Empty strings and nil pointers mean the
// attribute is absent.
type Record struct {
	// AccountID is the stable CDP account number.
	AccountID   string `json:"account_id" yaml:"account_id"`
	AccountName string `json:"account_name,omitempty" yaml:"account_name,omitempty"`
	Country     string `json:"country,omitempty" yaml:"country,omitempty"`
	Activity    string `json:"activity,omitempty" yaml:"activity,omitempty"`
	Sector      string `json:"sector,omitempty" yaml:"sector,omitempty"`
	Industry    string `json:"industry,omitempty" yaml:"industry,omitempty"`
	ISIN        string `json:"isin,omitempty" yaml:"isin,omitempty"`
	Ticker      string `json:"ticker,omitempty" yaml:"ticker,omitempty"`

	// AccountingYear is the fiscal year the disclosure covers.
	AccountingYear int `json:"accounting_year" yaml:"accounting_year"`

	Boundary Boundary `json:"boundary,omitempty" yaml:"boundary,omitempty"`

	// CoveredCountries is a serialized list of country names, usually a
	// JSON string array such as ["UK","Canada"].
	CoveredCountries string `json:"covered_countries,omitempty" yaml:"covered_countries,omitempty"`

	// Emissions in metric tons CO2e.
	CF1         *float64 `json:"CDP_CF1,omitempty" yaml:"CDP_CF1,omitempty"`
	CF2Location *float64 `json:"CDP_CF2_location,omitempty" yaml:"CDP_CF2_location,omitempty"`
	CF2Market   *float64 `json:"CDP_CF2_market,omitempty" yaml:"CDP_CF2_market,omitempty"`
	CF3         *float64 `json:"CDP_CF3,omitempty" yaml:"CDP_CF3,omitempty"`

	// CF3Relevance is in [0,1] and is nil whenever CF3 is nil.
	CF3Relevance *float64 `json:"CF3_relevance,omitempty" yaml:"CF3_relevance,omitempty"`

	// QuestionnaireYear is the edition of the questionnaire that produced
	// the record.
	QuestionnaireYear int `json:"questionnaire_year" yaml:"questionnaire_year"`
}

// UniqueID identifies one company and one accounting year regardless of
// questionnaire vintage.
func (r Record) UniqueID() string {
	return r.AccountID + "_" + strconv.Itoa(r.AccountingYear)
}

// Valid reports whether the record carries both an account and an
// accounting year.
func (r Record) Valid() bool {
	return r.AccountID != "" && r.AccountingYear != 0
}

// EncodeCountries serializes a country list the way CoveredCountries
// stores it.
func EncodeCountries(countries []string) string {
	if countries == nil {
		countries = []string{}
	}
	data, _ := json.Marshal(countries)
	return string(data)
}

// Float returns a pointer to v, for building optional emission values.
func Float(v float64) *float64 {
	return &v
}

// Columns lists the output columns of a cleaned table in order.
var Columns = []string{
	"account_id",
	"account_name",
	"country",
	"activity",
	"sector",
	"industry",
	"isin",
	"ticker",
	"accounting_year",
	"boundary",
	"covered_countries",
	"CDP_CF1",
	"CDP_CF2_location",
	"CDP_CF2_market",
	"CDP_CF3",
	"CF3_relevance",
	"unique_id",
	"questionnaire_year",
}
