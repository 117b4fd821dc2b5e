// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the batch: per-year extraction, concurrently and
// cache first, followed by one consolidation pass over every year.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Pladifes/cdp-preprocessing/internal/consolidate"
	"github.com/Pladifes/cdp-preprocessing/internal/extract"
	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

// TableSource reads raw workbooks and previously cleaned results.
type TableSource interface {
	// Load returns the sheets a questionnaire year's layout names.
	Load(ctx context.Context, year int, layout extract.Layout) (extract.Bundle, error)

	// LoadCached returns a cleaned per-year result, or types.ErrNotCached.
	LoadCached(ctx context.Context, year int) ([]types.Record, error)
}

// TableSink persists cleaned tables. A nil year means the consolidated
// dataset.
type TableSink interface {
	Save(ctx context.Context, records []types.Record, year *int, format types.OutputFormat) error
}

// Cache keeps cleaned results between runs. It is consulted before the
// source's own cache and receives every freshly extracted year and the
// consolidated dataset.
type Cache interface {
	TableSink
	LoadCached(ctx context.Context, year int) ([]types.Record, error)
}

// RawOnly hides the cached results of src so every year is extracted.
func RawOnly(src TableSource) TableSource {
	return rawOnly{src}
}

type rawOnly struct {
	TableSource
}

func (rawOnly) LoadCached(context.Context, int) ([]types.Record, error) {
	return nil, types.ErrNotCached
}

// Status is how one year's records were obtained.
type Status string

const (
	StatusCached      Status = "cached"
	StatusExtracted   Status = "extracted"
	StatusUnsupported Status = "unsupported"
	StatusFailed      Status = "failed"
)

// YearOutcome reports one requested year. Err is set for failed years and
// for years whose records were produced but could not be saved.
type YearOutcome struct {
	Year    int
	Status  Status
	Records int
	Err     error
}

// BatchResult holds the consolidated table and the per-year outcomes in
// requested order.
type BatchResult struct {
	Records []types.Record
	Years   []YearOutcome
	SaveErr error
}

// HasFailures reports whether any year or the final save failed.
func (r BatchResult) HasFailures() bool {
	return r.Err() != nil
}

// Failed returns the years with an error, in requested order.
func (r BatchResult) Failed() []int {
	var years []int
	for _, y := range r.Years {
		if y.Err != nil {
			years = append(years, y.Year)
		}
	}
	return years
}

// Err joins every per-year error and the final save error.
func (r BatchResult) Err() error {
	var errs []error
	for _, y := range r.Years {
		if y.Err != nil {
			errs = append(errs, fmt.Errorf("%d: %w", y.Year, y.Err))
		}
	}
	if r.SaveErr != nil {
		errs = append(errs, fmt.Errorf("saving dataset: %w", r.SaveErr))
	}
	return errors.Join(errs...)
}

// WriteSummary prints one line per year followed by the dataset size.
func (r BatchResult) WriteSummary(w io.Writer) {
	for _, y := range r.Years {
		if y.Err != nil {
			fmt.Fprintf(w, "%d: %s, %d records (%v)\n", y.Year, y.Status, y.Records, y.Err)
			continue
		}
		fmt.Fprintf(w, "%d: %s, %d records\n", y.Year, y.Status, y.Records)
	}
	fmt.Fprintf(w, "consolidated: %d records\n", len(r.Records))
}

// DefaultWorkers bounds concurrent extractions when the configuration
// leaves it unset.
const DefaultWorkers = 4

// Runner wires the registry to a source and a sink.
type Runner struct {
	registry *extract.Registry
	source   TableSource
	sink     TableSink
	cache    Cache
	log      *zap.Logger
}

// New returns a runner. A nil sink is allowed when nothing is saved.
func New(registry *extract.Registry, source TableSource, sink TableSink, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{registry: registry, source: source, sink: sink, log: log}
}

// WithCache sets the cache consulted before the source.
func (r *Runner) WithCache(c Cache) *Runner {
	r.cache = c
	return r
}

// Run processes cfg.Years and consolidates the result. A year that fails
// does not stop the others; its error is reported in the result. Run
// itself only errors on invalid configuration.
func (r *Runner) Run(ctx context.Context, cfg types.PipelineConfig) (BatchResult, error) {
	if err := r.checkConfig(cfg); err != nil {
		return BatchResult{}, err
	}
	years := cfg.Years
	if len(years) == 0 {
		years = types.DefaultYears()
	}

	outcomes := make([]YearOutcome, len(years))
	outputs := make([][]types.Record, len(years))

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, year := range years {
		g.Go(func() error {
			outputs[i], outcomes[i] = r.year(ctx, year, cfg.SaveYears)
			return nil
		})
	}
	_ = g.Wait()

	var all []types.Record
	for _, out := range outputs {
		all = append(all, out...)
	}
	res := BatchResult{
		Records: consolidate.Consolidate(all),
		Years:   outcomes,
	}
	r.log.Info("consolidated dataset",
		zap.Int("input_records", len(all)),
		zap.Int("records", len(res.Records)))

	var saveErrs []error
	if cfg.Save != types.FormatNone {
		if err := r.sink.Save(ctx, res.Records, nil, cfg.Save); err != nil {
			saveErrs = append(saveErrs, err)
		}
	}
	if r.cache != nil {
		if err := r.cache.Save(ctx, res.Records, nil, cfg.Save); err != nil {
			saveErrs = append(saveErrs, fmt.Errorf("caching: %w", err))
		}
	}
	if res.SaveErr = errors.Join(saveErrs...); res.SaveErr != nil {
		r.log.Error("saving consolidated dataset failed", zap.Error(res.SaveErr))
	}
	return res, nil
}

func (r *Runner) checkConfig(cfg types.PipelineConfig) error {
	if r.registry == nil || r.source == nil {
		return errors.New("pipeline needs a registry and a table source")
	}
	if (cfg.Save != types.FormatNone || cfg.SaveYears != types.FormatNone) && r.sink == nil {
		return errors.New("saving requested without a table sink")
	}
	return nil
}

// year produces one questionnaire year's records: the cached result when
// there is one, otherwise a fresh extraction tagged with its questionnaire
// year. Unsupported years yield no records.
func (r *Runner) year(ctx context.Context, year int, saveYears types.OutputFormat) ([]types.Record, YearOutcome) {
	log := r.log.With(zap.Int("questionnaire_year", year))
	outcome := YearOutcome{Year: year}
	fail := func(err error) ([]types.Record, YearOutcome) {
		log.Error("year failed", zap.Error(err))
		outcome.Status = StatusFailed
		outcome.Err = err
		return nil, outcome
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	cached, err := r.loadCached(ctx, year)
	switch {
	case err == nil:
		log.Debug("loaded cached result", zap.Int("records", len(cached)))
		for i := range cached {
			cached[i].QuestionnaireYear = year
		}
		outcome.Status = StatusCached
		outcome.Records = len(cached)
		return cached, outcome
	case !errors.Is(err, types.ErrNotCached):
		return fail(fmt.Errorf("loading cached result: %w", err))
	}

	e, err := r.registry.Get(year)
	if errors.Is(err, extract.ErrUnsupportedYear) {
		log.Warn("no extractor for questionnaire year; using an empty table")
		outcome.Status = StatusUnsupported
		return []types.Record{}, outcome
	}
	if err != nil {
		return fail(err)
	}

	bundle, err := r.source.Load(ctx, year, e.Layout())
	if err != nil {
		return fail(fmt.Errorf("loading raw workbook: %w", err))
	}
	records, err := e.Extract(bundle)
	if err != nil {
		return fail(fmt.Errorf("extracting %s: %w", e.Generation(), err))
	}
	for i := range records {
		records[i].QuestionnaireYear = year
	}
	log.Info("extracted", zap.String("generation", e.Generation()), zap.Int("records", len(records)))
	outcome.Status = StatusExtracted
	outcome.Records = len(records)

	var saveErrs []error
	if saveYears != types.FormatNone {
		if err := r.sink.Save(ctx, records, &year, saveYears); err != nil {
			saveErrs = append(saveErrs, fmt.Errorf("saving: %w", err))
		}
	}
	if r.cache != nil {
		if err := r.cache.Save(ctx, records, &year, saveYears); err != nil {
			saveErrs = append(saveErrs, fmt.Errorf("caching: %w", err))
		}
	}
	if outcome.Err = errors.Join(saveErrs...); outcome.Err != nil {
		log.Error("saving year failed", zap.Error(outcome.Err))
	}
	return records, outcome
}

// loadCached tries the cache, then the source.
func (r *Runner) loadCached(ctx context.Context, year int) ([]types.Record, error) {
	if r.cache != nil {
		records, err := r.cache.LoadCached(ctx, year)
		if !errors.Is(err, types.ErrNotCached) {
			return records, err
		}
	}
	return r.source.LoadCached(ctx, year)
}
