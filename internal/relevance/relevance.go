// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance derives the Scope-3 disclosure relevance ratio: the
// share of potentially relevant Scope-3 categories a company actually
// quantified.
package relevance

import "math"

// Status is the evaluation status a disclosed Scope-3 category carries.
type Status string

// Labels as they appear in the questionnaire's evaluation-status column.
const (
	NotEvaluated             Status = "Not evaluated"
	QuestionNotApplicable    Status = "Question not applicable"
	RelevantCalculated       Status = "Relevant, calculated"
	RelevantNotYetCalculated Status = "Relevant, not yet calculated"
	NotRelevantCalculated    Status = "Not relevant, calculated"
)

// Tally counts Scope-3 category rows by evaluation status. Labels outside
// the known set are carried but ignored by Score.
type Tally map[Status]float64

// Add records one more row with the given label.
func (t Tally) Add(label string) {
	t[Status(label)]++
}

// Score returns
//
//	(RelevantCalculated + NotRelevantCalculated) /
//	(NotEvaluated + RelevantCalculated + RelevantNotYetCalculated + NotRelevantCalculated)
//
// QuestionNotApplicable counts toward neither term. An empty tally, a zero
// denominator, or a NaN in either term scores 0. Infinite or negative
// counts contribute nothing.
func Score(t Tally) float64 {
	var total float64
	for _, n := range t {
		total += count(n)
	}
	if total == 0 {
		return 0
	}

	num := count(t[RelevantCalculated]) + count(t[NotRelevantCalculated])
	den := count(t[NotEvaluated]) +
		count(t[RelevantCalculated]) +
		count(t[RelevantNotYetCalculated]) +
		count(t[NotRelevantCalculated])

	if math.IsNaN(num) || math.IsNaN(den) || den == 0 {
		return 0
	}
	return num / den
}

func count(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return 0
	}
	return n
}
