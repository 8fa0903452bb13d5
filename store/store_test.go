package store

import (
	"path/filepath"
	"os"
	"testing"

	"rocket/config"
	"rocket/model"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveRunAndHistory(t *testing.T) {
	s := tempDB(t)
	history := []model.TemperatureRecord{
		{Time: 0, MaxTemp: 288, MeanTemp: 288, Flight: model.FlightState{Time: 0, Altitude: 3000}},
		{
			Time: 0.5, MaxTemp: 301.5, MeanTemp: 290.25, Mach: 1.2, HeatFlux: 4500,
			Flight: model.FlightState{Time: 0.5, Altitude: 3010, Velocity: 400},
			Points: []model.PointTemperature{{Name: "leading edge root", Temperature: 301.5}},
		},
	}
	ctx := model.MaxTempContext{Temperature: 301.5, Time: 0.5, Altitude: 3010, Velocity: 400, Mach: 1.2, Step: 50, Row: 0, Col: 0}
	crit := model.CriticalTimePoints{MaxTemperature: model.CriticalPoint{Time: 0.5, Value: 301.5}}

	id, err := s.SaveRun("Titanium Ti-6Al-4V", history, ctx, crit)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	run, err := s.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Kind != KindRun || run.Material != "Titanium Ti-6Al-4V" || run.MaxTemp != 301.5 {
		t.Errorf("unexpected run %+v", run)
	}
	if run.MaxTempCtx != ctx {
		t.Errorf("max context = %+v, want %+v", run.MaxTempCtx, ctx)
	}
	if run.Critical.MaxTemperature.Value != 301.5 {
		t.Errorf("critical = %+v", run.Critical)
	}

	got, err := s.History(id)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records", len(got))
	}
	if got[1].MaxTemp != 301.5 || got[1].Flight.Velocity != 400 || got[1].Flight.Time != 0.5 {
		t.Errorf("record = %+v", got[1])
	}
	if len(got[1].Points) != 1 || got[1].Points[0].Name != "leading edge root" {
		t.Errorf("points = %+v", got[1].Points)
	}
}

func TestSaveComparisonKeepsRank(t *testing.T) {
	s := tempDB(t)
	results := []model.ComparisonResult{
		{Material: "Beryllium", FinMass: 0.05, WithinLimits: true},
		{Material: "Aluminum 6061-T6", FinMass: 0.07, Err: "fin undersized"},
	}
	id, err := s.SaveComparison(results)
	if err != nil {
		t.Fatalf("SaveComparison: %v", err)
	}
	got, err := s.ListComparison(id)
	if err != nil {
		t.Fatalf("ListComparison: %v", err)
	}
	if len(got) != 2 || got[0] != results[0] || got[1] != results[1] {
		t.Errorf("got %+v", got)
	}

	ids, err := s.Runs(KindComparison)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != id {
		t.Errorf("runs = %v", ids)
	}
	if ids, _ := s.Runs(KindRun); len(ids) != 0 {
		t.Errorf("unexpected single runs %v", ids)
	}
}

func TestGetRunMissing(t *testing.T) {
	s := tempDB(t)
	if _, err := s.GetRun("nope"); err == nil {
		t.Fatal("expected error for missing run")
	}
}

func TestOpenDefaultOutput(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(t.TempDir(), cfg.Output.Dir)
	if want := filepath.Join(cfg.Output.Dir, "fin_thermal.db"); cfg.Output.DBPath() != want {
		t.Fatalf("db path = %s, want %s", cfg.Output.DBPath(), want)
	}
	s, err := Open(cfg.Output)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if _, err := s.SaveComparison(nil); err != nil {
		t.Fatalf("SaveComparison: %v", err)
	}
	if _, err := os.Stat(cfg.Output.DBPath()); err != nil {
		t.Fatal(err)
	}
}

func TestNewStoreMissingDirectory(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "missing", "test.db"))
	if err == nil {
		s.Close()
		t.Fatal("expected error for a database in a missing directory")
	}
	if s != nil {
		t.Errorf("store returned with error %v", err)
	}
}
