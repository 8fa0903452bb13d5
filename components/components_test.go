package components

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestLoadWithoutTeamData(t *testing.T) {
	m := NewManager(t.TempDir())
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	if m.HasTeamData() {
		t.Error("empty dir reported team data")
	}
	cs := m.Components()
	if len(cs) != len(Defaults()) || cs[0].Name != Propellant {
		t.Errorf("components = %+v", cs)
	}
	tot := Sum(cs)
	if tot.PropellantMass != 800 {
		t.Errorf("propellant = %v", tot.PropellantMass)
	}
}

func TestTemplatesRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Team_data")
	m := NewManager(dir)
	paths, err := m.WriteTemplates()
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("paths = %v", paths)
	}
	m.AddFinMass(0.03, 4)
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	if !m.HasTeamData() {
		t.Fatal("templates not loaded")
	}
	cs := m.Components()
	byName := map[string]Component{}
	for _, c := range cs {
		byName[c.Name] = c
	}
	if _, ok := byName["nozzle"]; ok {
		t.Error("zero mass nozzle loaded")
	}
	if c := byName["nose cone"]; c.Team != "aero" || c.Mass != 3 {
		t.Errorf("nose cone = %+v", c)
	}
	fins, ok := byName[FinSet]
	if !ok || !scalar.EqualWithinAbs(fins.Mass, 0.12, 1e-12) || fins.Position != FinSetPosition {
		t.Errorf("fins = %+v", fins)
	}
	if cs[0].Name != Propellant || cs[len(cs)-1].Name != FinSet {
		t.Errorf("order = %v ... %v", cs[0].Name, cs[len(cs)-1].Name)
	}

	tot := Sum(cs)
	if !scalar.EqualWithinAbs(tot.PropellantMass, 307.5, 1e-9) {
		t.Errorf("propellant = %v", tot.PropellantMass)
	}
	if want := 3 + 182 + 20 + 4 + 0.12; !scalar.EqualWithinAbs(tot.DryMass, want, 1e-9) {
		t.Errorf("dry mass = %v, want %v", tot.DryMass, want)
	}
	if want := (182*2.4 + 20*1.2) / 202; !scalar.EqualWithinAbs(tot.FuselageCG, want, 1e-9) ||
		!scalar.EqualWithinAbs(tot.FuselageMass, 202, 1e-9) {
		t.Errorf("fuselage %v at %v", tot.FuselageMass, tot.FuselageCG)
	}
}

func TestLoadSkipsFinsAndBadFiles(t *testing.T) {
	dir := t.TempDir()
	body := `{"fins": {"mass": 2, "position": 2.2}, "nose": {"mass": 1.5, "position": 0.2}}`
	if err := os.WriteFile(filepath.Join(dir, "aero_group.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	m := NewManager(dir)
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	cs := m.Components()
	if len(cs) != 1 || cs[0].Name != "nose" {
		t.Errorf("components = %+v", cs)
	}

	if err := os.WriteFile(filepath.Join(dir, "nozzle_group.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := m.Load(); err == nil {
		t.Error("malformed file accepted")
	}
}
