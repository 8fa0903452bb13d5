// Package simulation assembles configured fins, solvers and flights.
package simulation

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"rocket/aero"
	"rocket/calculator"
	"rocket/comparison"
	"rocket/config"
	"rocket/fin"
	"rocket/material"
	"rocket/model"
	"rocket/tracker"
	"rocket/trajectory"
)

func FinOptions(c config.Fin) fin.Options {
	return fin.Options{
		TargetHeight: c.TargetHeight,
		ChordRatio:   c.ChordRatio,
		Thickness:    c.Thickness,
		MinHeight:    c.MinHeight,
		NormalForce:  c.NormalForce,
		SafetyFactor: c.SafetyFactor,
		NumFins:      model.NumFins,
	}
}

func SolverOptions(cfg *config.Config, fast bool) calculator.Options {
	opts := calculator.DefaultOptions()
	opts.Nx, opts.Ny = cfg.Mesh.Nx, cfg.Mesh.Ny
	if fast {
		opts.Nx, opts.Ny = cfg.Mesh.FastNx, cfg.Mesh.FastNy
	}
	opts.AmbientTemp = cfg.Simulation.AmbientTemp
	opts.InstabilityFactor = cfg.Simulation.InstabilityRatio
	return opts
}

// Flight integrates the configured ascent.
func Flight(cfg *config.Config) (trajectory.Result, error) {
	res, err := trajectory.Simulate(trajectory.ParamsFromConfig(cfg.Rocket),
		cfg.Simulation.Dt, cfg.Simulation.AfterTopReached, cfg.Simulation.MaxTime)
	if err != nil {
		return res, err
	}
	if res.MaxQ > cfg.Rocket.MaxQ {
		log.WithFields(log.Fields{
			"maxQ":   res.MaxQ,
			"design": cfg.Rocket.MaxQ,
		}).Warn("trajectory dynamic pressure above fin design load")
	}
	return res, nil
}

// Fin sizes the fin of the named material for the configured design load.
func Fin(cfg *config.Config, name string) (model.FinGeometry, error) {
	return fin.ForMaterial(name, cfg.Rocket.MaxQ, FinOptions(cfg.Fin))
}

// NewTracker builds the sized fin, its heating model and solver, and a tracker over them.
func NewTracker(cfg *config.Config, name string, fast bool, opts ...tracker.Option) (*tracker.Tracker, error) {
	geom, err := Fin(cfg, name)
	if err != nil {
		return nil, err
	}
	solver, err := calculator.NewSolver(geom, aero.ForFin(geom), SolverOptions(cfg, fast))
	if err != nil {
		return nil, err
	}
	return tracker.New(solver, opts...), nil
}

// CompareOptions compares the given materials (all when empty) over flight.
func CompareOptions(cfg *config.Config, flight []model.FlightState, names []string, fast bool, workers int) comparison.Options {
	return comparison.Options{
		Materials: names,
		MaxQ:      cfg.Rocket.MaxQ,
		Fin:       FinOptions(cfg.Fin),
		Solver:    SolverOptions(cfg, fast),
		Dt:        cfg.Simulation.Dt,
		Flight:    flight,
		Workers:   workers,
	}
}

// RampFlight is a constant-altitude acceleration from rest to vel over duration.
// duration is bounded by the configured max time.
func RampFlight(cfg *config.Config, vel, duration, alt float64) ([]model.FlightState, error) {
	if !(vel > 0) || math.IsInf(vel, 0) || !(duration > 0) {
		return nil, fmt.Errorf("%w: ramp needs positive velocity and duration", calculator.ErrConfiguration)
	}
	if duration > cfg.Simulation.MaxTime {
		return nil, fmt.Errorf("%w: ramp duration %g s exceeds max time %g s",
			calculator.ErrConfiguration, duration, cfg.Simulation.MaxTime)
	}
	if !(cfg.Simulation.Dt > 0) {
		return nil, fmt.Errorf("%w: time step %v", calculator.ErrConfiguration, cfg.Simulation.Dt)
	}
	return trajectory.Ramp(0, vel, duration, alt, cfg.Simulation.Dt), nil
}

// Materials resolves a material argument: "all" or empty lists every material.
func Materials(arg string) ([]string, error) {
	if arg == "" || arg == "all" {
		return material.Names(), nil
	}
	if _, err := material.Lookup(arg); err != nil {
		return nil, err
	}
	return []string{arg}, nil
}
