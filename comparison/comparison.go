package comparison

import (
	"context"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"rocket/aero"
	"rocket/calculator"
	"rocket/fin"
	"rocket/material"
	"rocket/model"
	"rocket/tracker"
	"rocket/trajectory"
)

type Options struct {
	// empty compares every material
	Materials []string

	// design dynamic pressure for fin sizing, Pa
	MaxQ   float64
	Fin    fin.Options
	Solver calculator.Options
	Dt     float64
	Flight []model.FlightState

	// more than one runs materials in parallel
	Workers int
}

// Run simulates the same flight for every material with independent solvers
// and returns the results, materials within limits first and lighter first.
// Cancelling ctx stops the sweep and returns ctx.Err().
func Run(ctx context.Context, opts Options) ([]model.ComparisonResult, error) {
	names := opts.Materials
	if len(names) == 0 {
		names = material.Names()
	}
	for _, name := range names {
		if _, err := material.Lookup(name); err != nil {
			return nil, err
		}
	}
	if len(opts.Flight) == 0 {
		return nil, fmt.Errorf("%w: empty flight", calculator.ErrConfiguration)
	}

	results := make([]model.ComparisonResult, len(names))
	if opts.Workers > 1 {
		e := newExecutor(opts.Workers, func(t task) {
			results[t.index] = runOne(ctx, t.material, opts)
		})
		e.dispatchTask(ctx, names)
	} else {
		for i, name := range names {
			if ctx.Err() != nil {
				break
			}
			results[i] = runOne(ctx, name, opts)
		}
	}
	if err := ctx.Err(); err != nil {
		log.WithField("materials", len(names)).Info("comparison cancelled")
		return nil, err
	}
	Sort(results)
	return results, nil
}

// Sort orders results within limits first, then by fin set mass.
func Sort(results []model.ComparisonResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.WithinLimits != b.WithinLimits {
			return a.WithinLimits
		}
		if (a.Err == "") != (b.Err == "") {
			return a.Err == ""
		}
		return a.FinMass < b.FinMass
	})
}

func runOne(ctx context.Context, name string, opts Options) model.ComparisonResult {
	start := time.Now()
	m, _ := material.Lookup(name)
	res := model.ComparisonResult{
		Material:            name,
		MaxServiceTemp:      m.MaxServiceTemp,
		ThermalConductivity: m.ThermalConductivity,
		Density:             m.Density,
		Emissivity:          m.Emissivity,
	}
	fail := func(err error) model.ComparisonResult {
		res.Err = err.Error()
		res.SimulationSeconds = time.Since(start).Seconds()
		if ctx.Err() == nil {
			log.WithFields(log.Fields{"material": name}).Warn(err)
		}
		return res
	}

	geom, err := fin.Size(m, opts.MaxQ, opts.Fin)
	if err != nil {
		return fail(err)
	}
	res.FinHeight, res.FinWidth = geom.Height, geom.Width
	res.FinMass = geom.TotalMass()

	solver, err := calculator.NewSolver(geom, aero.ForFin(geom), opts.Solver)
	if err != nil {
		return fail(err)
	}
	tr := tracker.New(solver)
	if err := tr.Run(ctx, trajectory.NewSource(opts.Flight), opts.Dt); err != nil {
		return fail(err)
	}

	max, _ := tr.MaxTemperature()
	mctx, _ := tr.MaxTemperatureContext()
	res.MaxTemperature = max
	res.MaxTempTime = mctx.Time
	res.Margin = m.MaxServiceTemp - max
	res.WithinLimits = max <= m.MaxServiceTemp
	solver.ClearCaches()
	res.SimulationSeconds = time.Since(start).Seconds()

	log.WithFields(log.Fields{
		"material": name,
		"maxTemp":  max,
		"limit":    m.MaxServiceTemp,
		"within":   res.WithinLimits,
		"finMass":  res.FinMass,
	}).Info("material compared")
	return res
}
