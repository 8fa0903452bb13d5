package fin

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"rocket/material"
	"rocket/model"
)

// Sizing rule
// the fin is a cantilever plate of thickness t loaded by q * CN over its planform,
// root bending stress sigma = q * CN * h^2 / t^2 must stay below yield / safety factor.

var ErrUndersized = errors.New("fin undersized")

type Options struct {
	TargetHeight float64 // mm
	ChordRatio   float64 // root chord / span
	Thickness    float64 // mm
	MinHeight    float64 // mm
	NormalForce  float64 // CN
	SafetyFactor float64
	NumFins      int
}

func DefaultOptions() Options {
	return Options{
		TargetHeight: 50,
		ChordRatio:   2,
		Thickness:    3,
		MinHeight:    20,
		NormalForce:  1.1,
		SafetyFactor: 1.5,
		NumFins:      model.NumFins,
	}
}

// MaxHeight tallest span (mm) the material carries at dynamic pressure maxQ.
func MaxHeight(m model.Material, maxQ float64, opts Options) float64 {
	if maxQ <= 0 {
		return math.Inf(1)
	}
	allowable := m.YieldStrength * 1e6 / opts.SafetyFactor
	return opts.Thickness * math.Sqrt(allowable/(maxQ*opts.NormalForce))
}

// Size computes the fin geometry for material m at peak dynamic pressure maxQ (Pa).
func Size(m model.Material, maxQ float64, opts Options) (model.FinGeometry, error) {
	if opts.Thickness <= 0 || opts.ChordRatio <= 0 || opts.SafetyFactor <= 0 || opts.NormalForce <= 0 {
		return model.FinGeometry{}, fmt.Errorf("invalid sizing options %+v", opts)
	}
	if m.Density <= 0 || m.YieldStrength <= 0 {
		return model.FinGeometry{}, fmt.Errorf("material %q: invalid properties", m.Name)
	}
	numFins := opts.NumFins
	if numFins <= 0 {
		numFins = model.NumFins
	}

	hMax := MaxHeight(m, maxQ, opts)
	height := math.Min(opts.TargetHeight, hMax)
	if height < opts.MinHeight {
		return model.FinGeometry{}, fmt.Errorf("%w: %s allows %.1f mm span at q=%.0f Pa, need %.1f mm",
			ErrUndersized, m.Name, height, maxQ, opts.MinHeight)
	}
	width := height * opts.ChordRatio

	geom := model.FinGeometry{
		Height:     height,
		Width:      width,
		SweepAngle: math.Atan(width/height) * 180 / math.Pi,
		Thickness:  opts.Thickness,
		Material:   m,
		NumFins:    numFins,
	}
	geom.MassPerFin = m.Density * geom.PlanformArea() * opts.Thickness * model.MmToM

	log.WithFields(log.Fields{
		"material": m.Name,
		"height":   geom.Height,
		"width":    geom.Width,
		"sweep":    geom.SweepAngle,
		"mass":     geom.MassPerFin,
	}).Debug("fin sized")
	return geom, nil
}

// SizeAll sizes a fin for every material of the table. Materials that
// cannot carry the load are reported in the error map.
func SizeAll(maxQ float64, opts Options) (map[string]model.FinGeometry, map[string]error) {
	res := make(map[string]model.FinGeometry)
	errs := make(map[string]error)
	for _, m := range material.All() {
		geom, err := Size(m, maxQ, opts)
		if err != nil {
			errs[m.Name] = err
			continue
		}
		res[m.Name] = geom
	}
	return res, errs
}

// ForMaterial looks the material up by name and sizes its fin.
func ForMaterial(name string, maxQ float64, opts Options) (model.FinGeometry, error) {
	m, err := material.Lookup(name)
	if err != nil {
		return model.FinGeometry{}, err
	}
	return Size(m, maxQ, opts)
}
