package fin

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"rocket/material"
)

func TestSizeTitanium(t *testing.T) {
	geom, err := ForMaterial("Titanium Ti-6Al-4V", 82800, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if geom.Height != 50 || geom.Width != 100 {
		t.Errorf("geometry = %v x %v mm", geom.Height, geom.Width)
	}
	if geom.NumFins != 4 {
		t.Errorf("fins = %d", geom.NumFins)
	}
	if !scalar.EqualWithinAbs(geom.SweepAngle, math.Atan(2)*180/math.Pi, 1e-9) {
		t.Errorf("sweep = %v", geom.SweepAngle)
	}
	// 3930 kg/m^3 * 0.5 * 0.05 m * 0.1 m * 0.003 m
	if !scalar.EqualWithinAbs(geom.MassPerFin, 0.029475, 1e-9) {
		t.Errorf("mass = %v", geom.MassPerFin)
	}
	if !scalar.EqualWithinAbs(geom.LeadingEdgeX(0.025), 0.05, 1e-12) {
		t.Errorf("leading edge at mid span = %v", geom.LeadingEdgeX(0.025))
	}
}

func TestSizeShrinksWithDynamicPressure(t *testing.T) {
	m, _ := material.Lookup("Aluminum 6061-T6")
	opts := DefaultOptions()
	prev := math.Inf(1)
	for _, q := range []float64{5e5, 1e6, 2e6, 3e6} {
		geom, err := Size(m, q, opts)
		if err != nil {
			t.Fatalf("q=%v: %v", q, err)
		}
		if geom.Height > prev {
			t.Errorf("height grew with q: %v > %v", geom.Height, prev)
		}
		prev = geom.Height
	}
}

func TestSizeUndersized(t *testing.T) {
	m, _ := material.Lookup("Aluminum 6061-T6")
	_, err := Size(m, 1e8, DefaultOptions())
	if !errors.Is(err, ErrUndersized) {
		t.Fatalf("err = %v", err)
	}
}

func TestSizeUnknownMaterial(t *testing.T) {
	_, err := ForMaterial("Cheese", 82800, DefaultOptions())
	if !errors.Is(err, material.ErrUnknownMaterial) {
		t.Fatalf("err = %v", err)
	}
}

func TestSizeAll(t *testing.T) {
	geoms, errs := SizeAll(82800, DefaultOptions())
	if len(errs) != 0 {
		t.Fatalf("errors: %v", errs)
	}
	if len(geoms) != len(material.Names()) {
		t.Errorf("sized %d fins", len(geoms))
	}
	for name, g := range geoms {
		if g.Material.Name != name || g.MassPerFin <= 0 {
			t.Errorf("%s: %+v", name, g)
		}
	}
}
