// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		tally Tally
		want  float64
	}{
		{
			name: "all five statuses",
			tally: Tally{
				NotEvaluated:             1,
				QuestionNotApplicable:    1,
				RelevantCalculated:       1,
				RelevantNotYetCalculated: 1,
				NotRelevantCalculated:    1,
			},
			want: 0.5,
		},
		{
			name: "without not evaluated",
			tally: Tally{
				QuestionNotApplicable:    1,
				RelevantCalculated:       1,
				RelevantNotYetCalculated: 1,
				NotRelevantCalculated:    1,
			},
			want: 2.0 / 3.0,
		},
		{
			name: "only calculated categories",
			tally: Tally{
				QuestionNotApplicable: 1,
				RelevantCalculated:    1,
				NotRelevantCalculated: 1,
			},
			want: 1,
		},
		{
			name:  "relevant calculated only",
			tally: Tally{QuestionNotApplicable: 1, RelevantCalculated: 1},
			want:  1,
		},
		{
			name:  "question not applicable only",
			tally: Tally{QuestionNotApplicable: 3},
			want:  0,
		},
		{
			name:  "unknown label",
			tally: Tally{"Relevant": 1},
			want:  0,
		},
		{
			name:  "empty tally",
			tally: Tally{},
			want:  0,
		},
		{
			name:  "nil tally",
			tally: nil,
			want:  0,
		},
		{
			name:  "zero counts",
			tally: Tally{RelevantCalculated: 0, NotEvaluated: 0},
			want:  0,
		},
		{
			name:  "NaN count contributes nothing",
			tally: Tally{RelevantCalculated: math.NaN(), NotEvaluated: 1},
			want:  0,
		},
		{
			name:  "NaN alongside valid counts",
			tally: Tally{RelevantCalculated: 1, NotEvaluated: math.NaN(), RelevantNotYetCalculated: 1},
			want:  0.5,
		},
		{
			name:  "seventeen categories",
			tally: Tally{RelevantCalculated: 5, NotRelevantCalculated: 3, NotEvaluated: 4, QuestionNotApplicable: 5},
			want:  8.0 / 12.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.tally)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestScoreExactHalf(t *testing.T) {
	got := Score(Tally{
		RelevantCalculated:       1,
		NotRelevantCalculated:    1,
		NotEvaluated:             1,
		QuestionNotApplicable:    1,
		RelevantNotYetCalculated: 1,
	})
	assert.Equal(t, 0.5, got)
}

func TestAdd(t *testing.T) {
	tally := Tally{}
	for _, label := range []string{
		"Relevant, calculated",
		"Relevant, calculated",
		"Not evaluated",
		"Question not applicable",
		"",
	} {
		tally.Add(label)
	}
	assert.Equal(t, 2.0, tally[RelevantCalculated])
	assert.Equal(t, 1.0, tally[NotEvaluated])
	assert.Equal(t, 1.0, tally[QuestionNotApplicable])
	assert.Equal(t, 1.0, tally[""])
	assert.Equal(t, 2.0/3.0, Score(tally))

	tally.Add("Not relevant, calculated")
	assert.Equal(t, 3.0/4.0, Score(tally))
}
