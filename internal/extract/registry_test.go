// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r, err := Default(nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2015, 2016, 2017, 2018, 2019, 2020, 2021, 2022, 2023}, r.Years())

	tests := []struct {
		year       int
		generation string
	}{
		{2015, GenerationCCCombined},
		{2016, GenerationCCSplit},
		{2017, GenerationCCSplit},
		{2018, GenerationCIntroduction},
		{2021, GenerationCIntroduction},
		{2022, GenerationCSummary},
		{2023, GenerationCSummary},
	}
	for _, tt := range tests {
		e, err := r.Get(tt.year)
		require.NoError(t, err, tt.year)
		assert.Equal(t, tt.year, e.Year())
		assert.Equal(t, tt.generation, e.Generation(), tt.year)
	}

	_, err = r.Get(2014)
	assert.ErrorIs(t, err, ErrUnsupportedYear)
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewLegacy(2015, true, nil, nil)))
	assert.Error(t, r.Register(NewModern(ModernSchema{Year: 2015, BaseSheet: sheetIntroduction}, nil, nil)))
}
