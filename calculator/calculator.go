package calculator

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"rocket/model"
)

var (
	ErrConfiguration        = errors.New("configuration error")
	ErrNumericalInstability = errors.New("numerical instability")
)

// Heating supplies the leading edge boundary condition for a flight state.
type Heating interface {
	Evaluate(alt, vel float64) model.HeatFluxInfo
}

type Options struct {
	Nx, Ny            int     // mesh nodes, chordwise and spanwise
	AmbientTemp       float64 // initial field temperature, K
	InstabilityFactor float64 // divergence bound as a multiple of the max service temperature
	MaxFourier        float64
}

func DefaultOptions() Options {
	return Options{
		Nx:                20,
		Ny:                20,
		AmbientTemp:       model.AmbientTemperature,
		InstabilityFactor: 10,
		MaxFourier:        0.25,
	}
}

// Solver integrates 2D transient conduction over the fin planform.
// The temperature field is owned and mutated only by the solver.
type Solver struct {
	geom    model.FinGeometry
	heating Heating
	opts    Options

	diffusivity float64 // m^2/s
	rhoC        float64 // J/(m^3 K)
	limit       float64 // divergence bound, K

	nx, ny int
	dx, dy float64
	x, y   []float64 // node coordinates, m

	// outside[i][j] is true when the node lies ahead of the leading edge
	outside    [][]bool
	leCol      []int   // first in-footprint column of each row
	leSegment  float64 // leading edge length served by one row, m
	maskDirty  bool
	maskBuilds int

	// double buffered field, row = span index, col = chord index
	field  [][]float64
	field1 [][]float64

	flight model.FlightState
	steps  int

	hasMax bool
	maxCtx model.MaxTempContext
	peak   [][]float64 // field at the time of the running maximum

	domainWarnings int
}

// NewSolver builds a solver for one fin. The field starts at the ambient temperature.
func NewSolver(geom model.FinGeometry, heating Heating, opts Options) (*Solver, error) {
	if heating == nil {
		return nil, fmt.Errorf("%w: nil heating model", ErrConfiguration)
	}
	if geom.Height <= 0 || geom.Width <= 0 {
		return nil, fmt.Errorf("%w: fin geometry %vx%v mm", ErrConfiguration, geom.Height, geom.Width)
	}
	m := geom.Material
	if m.ThermalConductivity <= 0 || m.Density <= 0 || m.SpecificHeat <= 0 || m.MaxServiceTemp <= 0 {
		return nil, fmt.Errorf("%w: material %q has non positive properties", ErrConfiguration, m.Name)
	}
	if opts.MaxFourier <= 0 {
		opts.MaxFourier = 0.25
	}
	if opts.InstabilityFactor <= 0 {
		opts.InstabilityFactor = 10
	}
	if opts.AmbientTemp <= 0 {
		opts.AmbientTemp = model.AmbientTemperature
	}

	s := &Solver{
		geom:        geom,
		heating:     heating,
		opts:        opts,
		diffusivity: m.ThermalDiffusivity(),
		rhoC:        m.Density * m.SpecificHeat,
		limit:       opts.InstabilityFactor * m.MaxServiceTemp,
	}
	if err := s.resize(opts.Nx, opts.Ny); err != nil {
		return nil, err
	}
	s.fill(opts.AmbientTemp)

	log.WithFields(log.Fields{
		"material":    m.Name,
		"mesh":        fmt.Sprintf("%dx%d", s.nx, s.ny),
		"dx":          s.dx,
		"dy":          s.dy,
		"diffusivity": s.diffusivity,
		"maxDt":       s.MaxStableTimeStep(),
	}).Info("thermal solver ready")
	return s, nil
}

func (s *Solver) Geometry() model.FinGeometry {
	return s.geom
}

func (s *Solver) SetFlightState(fs model.FlightState) {
	s.flight = fs
}

func (s *Solver) FlightState() model.FlightState {
	return s.flight
}

// Steps completed since construction or the last Reset.
func (s *Solver) Steps() int {
	return s.steps
}

// DomainWarnings number of steps whose flight state was clamped by the heating model.
func (s *Solver) DomainWarnings() int {
	return s.domainWarnings
}

// MaxTemperature running absolute maximum over in-footprint nodes.
// ok is false before the first step.
func (s *Solver) MaxTemperature() (float64, bool) {
	return s.maxCtx.Temperature, s.hasMax
}

// MaxTemperatureContext flight state and node at which the running maximum was reached.
func (s *Solver) MaxTemperatureContext() (model.MaxTempContext, bool) {
	return s.maxCtx, s.hasMax
}

// PeakField copy of the field when the running maximum was reached, nil after ClearCaches
// until the next new maximum.
func (s *Solver) PeakField() [][]float64 {
	if s.peak == nil {
		return nil
	}
	return copyField(s.peak)
}

// ClearCaches drops the peak snapshot and the scratch buffer. Results are unaffected.
func (s *Solver) ClearCaches() {
	s.peak = nil
	s.field1 = nil
}

// Reset starts an independent run on the same fin and mesh.
func (s *Solver) Reset() {
	s.fill(s.opts.AmbientTemp)
	s.flight = model.FlightState{}
	s.steps = 0
	s.hasMax = false
	s.maxCtx = model.MaxTempContext{}
	s.peak = nil
	s.domainWarnings = 0
}

func (s *Solver) fill(t float64) {
	for i := range s.field {
		for j := range s.field[i] {
			s.field[i][j] = t
		}
	}
}
