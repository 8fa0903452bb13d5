package comparison

import (
	"context"
	"errors"
	"testing"

	"rocket/calculator"
	"rocket/fin"
	"rocket/material"
	"rocket/model"
	"rocket/trajectory"
)

func testOptions() Options {
	solver := calculator.DefaultOptions()
	solver.Nx, solver.Ny = 8, 8
	return Options{
		MaxQ:   82800,
		Fin:    fin.DefaultOptions(),
		Solver: solver,
		Dt:     0.01,
		Flight: trajectory.Ramp(0, 900, 5, 3000, 0.01),
	}
}

func TestRunAllMaterials(t *testing.T) {
	results, err := Run(context.Background(), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(material.Names()) {
		t.Fatalf("got %d results", len(results))
	}
	seenOutside := false
	for i, r := range results {
		if r.Err != "" {
			t.Errorf("%s failed: %s", r.Material, r.Err)
		}
		if r.MaxTemperature <= 288 || r.FinMass <= 0 {
			t.Errorf("%s: %+v", r.Material, r)
		}
		if r.WithinLimits != (r.MaxTemperature <= r.MaxServiceTemp) {
			t.Errorf("%s: within limits flag inconsistent", r.Material)
		}
		if !r.WithinLimits {
			seenOutside = true
		} else if seenOutside {
			t.Errorf("%s within limits sorted after a failing material", r.Material)
		}
		if i > 0 && r.WithinLimits == results[i-1].WithinLimits && r.FinMass < results[i-1].FinMass {
			t.Errorf("%s lighter than %s but sorted after it", r.Material, results[i-1].Material)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	opts := testOptions()
	opts.Materials = []string{"Inconel 718", "Beryllium", "Aluminum 6061-T6"}
	seq, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.Workers = 3
	par, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	for i := range seq {
		a, b := seq[i], par[i]
		a.SimulationSeconds, b.SimulationSeconds = 0, 0
		if a != b {
			t.Errorf("result %d differs:\n%+v\n%+v", i, a, b)
		}
	}
}

func TestRunUnknownMaterial(t *testing.T) {
	opts := testOptions()
	opts.Materials = []string{"Adamantium"}
	if _, err := Run(context.Background(), opts); !errors.Is(err, material.ErrUnknownMaterial) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunReportsUndersizedFin(t *testing.T) {
	opts := testOptions()
	opts.MaxQ = 1e9
	opts.Materials = []string{"Titanium Ti-6Al-4V"}
	results, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Err == "" || results[0].WithinLimits {
		t.Errorf("undersized fin not reported: %+v", results[0])
	}
}

func TestRunEmptyFlight(t *testing.T) {
	opts := testOptions()
	opts.Flight = nil
	if _, err := Run(context.Background(), opts); !errors.Is(err, calculator.ErrConfiguration) {
		t.Fatalf("err = %v", err)
	}
}

func TestClearCachesBetweenRunsKeepsResults(t *testing.T) {
	opts := testOptions()
	opts.Materials = []string{"Stainless Steel 304"}
	a, _ := Run(context.Background(), opts)
	b, _ := Run(context.Background(), opts)
	a[0].SimulationSeconds, b[0].SimulationSeconds = 0, 0
	if a[0] != b[0] {
		t.Errorf("repeated runs differ:\n%+v\n%+v", a[0], b[0])
	}
}

func TestSortPutsErrorsLast(t *testing.T) {
	results := []model.ComparisonResult{
		{Material: "a", FinMass: 0.1, Err: fin.ErrUndersized.Error()},
		{Material: "b", FinMass: 0.5},
		{Material: "c", FinMass: 0.9, WithinLimits: true},
		{Material: "d", FinMass: 0.2, WithinLimits: true},
	}
	Sort(results)
	want := []string{"d", "c", "b", "a"}
	for i, r := range results {
		if r.Material != want[i] {
			t.Fatalf("order[%d] = %s, want %s", i, r.Material, want[i])
		}
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 3} {
		opts := testOptions()
		opts.Workers = workers
		results, err := Run(ctx, opts)
		if !errors.Is(err, context.Canceled) || results != nil {
			t.Errorf("workers %d: %d results, err %v", workers, len(results), err)
		}
	}
}
