package simulation

import (
	"context"
	"errors"
	"math"
	"testing"

	"rocket/calculator"
	"rocket/config"
	"rocket/material"
	"rocket/trajectory"
)

func TestSolverOptionsFastMesh(t *testing.T) {
	cfg := config.Default()
	full := SolverOptions(cfg, false)
	fast := SolverOptions(cfg, true)
	if full.Nx != cfg.Mesh.Nx || fast.Nx != cfg.Mesh.FastNx || fast.Ny != cfg.Mesh.FastNy {
		t.Errorf("full %+v fast %+v", full, fast)
	}
	if full.AmbientTemp != cfg.Simulation.AmbientTemp {
		t.Errorf("ambient = %v", full.AmbientTemp)
	}
}

func TestNewTrackerRunsRamp(t *testing.T) {
	cfg := config.Default()
	tr, err := NewTracker(cfg, "Titanium Ti-6Al-4V", true)
	if err != nil {
		t.Fatal(err)
	}
	flight, err := RampFlight(cfg, 500, 2, 3000)
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Run(context.Background(), trajectory.NewSource(flight), cfg.Simulation.Dt); err != nil {
		t.Fatal(err)
	}
	if tr.Len() != len(flight) {
		t.Errorf("recorded %d of %d states", tr.Len(), len(flight))
	}
	if max, ok := tr.MaxTemperature(); !ok || max <= cfg.Simulation.AmbientTemp {
		t.Errorf("max = %v, %v", max, ok)
	}
}

func TestNewTrackerUnknownMaterial(t *testing.T) {
	if _, err := NewTracker(config.Default(), "Unobtainium", true); !errors.Is(err, material.ErrUnknownMaterial) {
		t.Fatalf("err = %v", err)
	}
}

func TestMaterials(t *testing.T) {
	all, err := Materials("all")
	if err != nil || len(all) != len(material.Names()) {
		t.Fatalf("all = %v, %v", all, err)
	}
	one, err := Materials("Beryllium")
	if err != nil || len(one) != 1 {
		t.Fatalf("one = %v, %v", one, err)
	}
	if _, err := Materials("Wood"); err == nil {
		t.Fatal("expected error")
	}
}

func TestRampFlightRejectsBadInput(t *testing.T) {
	cfg := config.Default()
	cases := []struct {
		name          string
		vel, duration float64
	}{
		{"zero velocity", 0, 10},
		{"nan velocity", math.NaN(), 10},
		{"zero duration", 100, 0},
		{"nan duration", 100, math.NaN()},
		{"inf duration", 100, math.Inf(1)},
		{"huge duration", 100, 1e15},
		{"beyond max time", 100, cfg.Simulation.MaxTime + 1},
	}
	for _, c := range cases {
		states, err := RampFlight(cfg, c.vel, c.duration, 0)
		if !errors.Is(err, calculator.ErrConfiguration) || states != nil {
			t.Errorf("%s: states %d, err %v", c.name, len(states), err)
		}
	}
	states, err := RampFlight(cfg, 100, cfg.Simulation.MaxTime, 0)
	if err != nil || len(states) == 0 {
		t.Errorf("max time ramp: %d states, %v", len(states), err)
	}
}
