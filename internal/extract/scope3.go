// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"github.com/Pladifes/cdp-preprocessing/internal/relevance"
	"github.com/Pladifes/cdp-preprocessing/internal/table"
)

// legacyScope3Categories is the number of itemized category rows a complete
// Scope-3 disclosure carries in the CC questionnaires. Accounts reporting
// any other count are left without a Scope-3 total.
const legacyScope3Categories = 17

// scope3Total is the Scope-3 aggregate of one account (and accounting year,
// where itemized rows carry their own year).
type scope3Total struct {
	emissions float64
	relevance float64
}

type scope3Key struct {
	account string
	year    int
}

// scope3Sheet describes how to aggregate one itemized Scope-3 sheet.
type scope3Sheet struct {
	account int
	status  int
	metric  int

	// year is the accounting-year column; -1 groups by account only.
	year int

	// group is the column whose value counts are checked against expect;
	// ignored when expect is 0.
	group  int
	expect int
}

// aggregateScope3 sums the itemized emissions and scores the evaluation
// statuses of each group. Non-numeric metric cells, including the
// not-applicable marker, contribute zero.
func aggregateScope3(t *table.Table, s scope3Sheet) map[scope3Key]scope3Total {
	var counts map[string]int
	if s.expect > 0 {
		counts = make(map[string]int)
		for i := range t.Rows {
			counts[t.Cell(i, s.group)]++
		}
	}

	sums := make(map[scope3Key]float64)
	tallies := make(map[scope3Key]relevance.Tally)
	for i := range t.Rows {
		if counts != nil && counts[t.Cell(i, s.group)] != s.expect {
			continue
		}
		account := table.Key(t.Cell(i, s.account))
		if account == "" {
			continue
		}
		k := scope3Key{account: account}
		if s.year >= 0 {
			y, ok := table.Int(t.Cell(i, s.year))
			if !ok {
				continue
			}
			k.year = y
		}
		v, _ := table.Float(t.Cell(i, s.metric))
		sums[k] += v
		if tallies[k] == nil {
			tallies[k] = relevance.Tally{}
		}
		tallies[k].Add(t.Cell(i, s.status))
	}

	out := make(map[scope3Key]scope3Total, len(sums))
	for k, sum := range sums {
		out[k] = scope3Total{emissions: sum, relevance: relevance.Score(tallies[k])}
	}
	return out
}

// attachScope3 fills CF3 and its relevance on drafts that have none yet.
// Records inserted by corrections keep their own values.
func attachScope3(drafts []draft, totals map[scope3Key]scope3Total, byYear bool) {
	for i := range drafts {
		d := &drafts[i]
		if d.CF3 != nil {
			continue
		}
		k := scope3Key{account: d.AccountID}
		if byYear {
			k.year = d.AccountingYear
		}
		tot, ok := totals[k]
		if !ok {
			continue
		}
		emissions, score := tot.emissions, tot.relevance
		d.CF3 = &emissions
		d.CF3Relevance = &score
	}
}
