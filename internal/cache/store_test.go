// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", DefaultFile))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func records(year int) []types.Record {
	return []types.Record{
		{
			AccountID:         "6532",
			AccountName:       "Firstsource Solutions",
			Country:           "India",
			AccountingYear:    year,
			Boundary:          types.BoundaryOperational,
			CoveredCountries:  "United Kingdom|India",
			CF1:               types.Float(35.75),
			CF3:               types.Float(0),
			CF3Relevance:      types.Float(0.3333333333333333),
			QuestionnaireYear: year,
		},
		{AccountID: "7", AccountingYear: year - 1, ISIN: "DE0007", QuestionnaireYear: year},
	}
}

// --- tests ---

func TestLoadCachedMiss(t *testing.T) {
	s := testStore(t)
	if _, err := s.LoadCached(context.Background(), 2016); !errors.Is(err, types.ErrNotCached) {
		t.Fatalf("LoadCached = %v, want ErrNotCached", err)
	}
	if _, err := s.LoadDataset(context.Background()); !errors.Is(err, types.ErrNotCached) {
		t.Fatalf("LoadDataset = %v, want ErrNotCached", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	year := 2016

	if err := s.Save(ctx, records(2015), &year, types.FormatNone); err != nil {
		t.Fatal(err)
	}
	want := records(2016)
	if err := s.Save(ctx, want, &year, types.FormatXLSX); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadCached(ctx, year)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadCached returned %+v, want latest run %+v", got, want)
	}

	other := 2017
	if _, err := s.LoadCached(ctx, other); !errors.Is(err, types.ErrNotCached) {
		t.Errorf("LoadCached(%d) = %v, want ErrNotCached", other, err)
	}
}

func TestConsolidatedRuns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	year := 2016

	if err := s.Save(ctx, records(2016), &year, types.FormatNone); err != nil {
		t.Fatal(err)
	}
	dataset := append(records(2016), records(2018)...)
	run, err := s.SaveRun(ctx, dataset, nil)
	if err != nil {
		t.Fatal(err)
	}
	if run.Scope != ScopeConsolidated || run.Records != 4 || run.ID == "" {
		t.Errorf("unexpected run %+v", run)
	}

	got, err := s.LoadDataset(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Errorf("LoadDataset returned %d records, want 4", len(got))
	}

	runs, err := s.Runs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("Runs returned %d runs, want 2", len(runs))
	}
	if runs[0].ID != run.ID {
		t.Errorf("newest run = %s, want %s", runs[0].ID, run.ID)
	}
	if runs[1].Scope != ScopeYear || runs[1].QuestionnaireYear != 2016 {
		t.Errorf("unexpected year run %+v", runs[1])
	}
}

func TestPrune(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	y2016, y2017 := 2016, 2017

	for range 3 {
		if err := s.Save(ctx, records(2016), &y2016, types.FormatNone); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Save(ctx, records(2017), &y2017, types.FormatNone); err != nil {
		t.Fatal(err)
	}

	n, err := s.Prune(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Prune removed %d runs, want 2", n)
	}

	var orphans int
	if err := s.db.QueryRow(`SELECT count(*) FROM records WHERE run_id NOT IN (SELECT id FROM runs)`).Scan(&orphans); err != nil {
		t.Fatal(err)
	}
	if orphans != 0 {
		t.Errorf("%d records outlived their run", orphans)
	}
	for _, y := range []int{2016, 2017} {
		if _, err := s.LoadCached(ctx, y); err != nil {
			t.Errorf("LoadCached(%d) after prune: %v", y, err)
		}
	}
}

func TestSaveEmpty(t *testing.T) {
	s := testStore(t)
	year := 2030
	if err := s.Save(context.Background(), nil, &year, types.FormatNone); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadCached(context.Background(), year)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 || got == nil {
		t.Errorf("LoadCached = %#v, want an empty slice", got)
	}
}
