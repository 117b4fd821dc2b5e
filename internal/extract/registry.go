// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// ErrUnsupportedYear is returned when no extractor is registered for a
// questionnaire year.
var ErrUnsupportedYear = errors.New("unsupported questionnaire year")

// Registry maps questionnaire years to extractors. Supporting a new year
// means registering one more extractor.
type Registry struct {
	mu         sync.RWMutex
	extractors map[int]Extractor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[int]Extractor)}
}

// Register adds e under its year. Registering a year twice is an error.
func (r *Registry) Register(e Extractor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.extractors[e.Year()]; dup {
		return fmt.Errorf("extractor for %d already registered", e.Year())
	}
	r.extractors[e.Year()] = e
	return nil
}

// Get returns the extractor for year.
func (r *Registry) Get(year int) (Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extractors[year]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedYear, year)
	}
	return e, nil
}

// Years returns the registered years in ascending order.
func (r *Registry) Years() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	years := make([]int, 0, len(r.extractors))
	for y := range r.extractors {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

// modernSchemas lists the C questionnaire years. 2023 shares the 2022
// workbook layout.
var modernSchemas = []ModernSchema{
	{Year: 2018, BaseSheet: sheetIntroduction, Countries: true},
	{Year: 2019, BaseSheet: sheetIntroduction, Countries: true},
	{Year: 2020, BaseSheet: sheetIntroduction},
	{Year: 2021, BaseSheet: sheetIntroduction},
	{Year: 2022, BaseSheet: sheetSummary, Countries: true, BoundarySheet: true},
	{Year: 2023, BaseSheet: sheetSummary, Countries: true, BoundarySheet: true},
}

// Default returns a registry with every supported questionnaire year and
// the built-in corrections table.
func Default(log *zap.Logger) (*Registry, error) {
	corrections, err := DefaultCorrections()
	if err != nil {
		return nil, err
	}
	return New(corrections, log)
}

// New returns a registry with every supported questionnaire year, applying
// the given corrections.
func New(corrections Corrections, log *zap.Logger) (*Registry, error) {
	r := NewRegistry()
	extractors := []Extractor{
		NewLegacy(2015, true, corrections, log),
		NewLegacy(2016, false, corrections, log),
		NewLegacy(2017, false, corrections, log),
	}
	for _, s := range modernSchemas {
		extractors = append(extractors, NewModern(s, corrections, log))
	}
	for _, e := range extractors {
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}
