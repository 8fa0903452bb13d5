package tracker

import (
	"context"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"rocket/calculator"
	"rocket/deque"
	"rocket/model"
)

// Point named sample point in normalized fin coordinates,
// x from leading to trailing edge and y from root to tip.
type Point struct {
	Name  string
	XNorm float64
	YNorm float64
}

var DefaultPoints = []Point{
	{Name: "Leading Edge Mid", XNorm: 0, YNorm: 0.5},
	{Name: "Trailing Edge Mid", XNorm: 1, YNorm: 0.5},
	{Name: "Fin Root Mid", XNorm: 0.5, YNorm: 0},
	{Name: "Fin Tip Mid", XNorm: 0.5, YNorm: 1},
	{Name: "Center", XNorm: 0.5, YNorm: 0.5},
}

// Observer is called after every recorded step.
type Observer func(rec model.TemperatureRecord, info model.HeatFluxInfo)

type Option func(*Tracker)

func WithPoints(points []Point) Option {
	return func(t *Tracker) {
		t.points = append([]Point(nil), points...)
	}
}

func WithObserver(o Observer) Option {
	return func(t *Tracker) {
		t.observers = append(t.observers, o)
	}
}

// WithFrames keeps a field frame every `every` steps in frames.
func WithFrames(frames *deque.ArrDeque, every int) Option {
	return func(t *Tracker) {
		if every < 1 {
			every = 1
		}
		t.frames, t.frameEvery = frames, every
	}
}

// Tracker drives a solver along a flight and records the temperature history.
// The running maximum is owned by the solver.
type Tracker struct {
	solver    *calculator.Solver
	points    []Point
	observers []Observer

	frames     *deque.ArrDeque
	frameEvery int

	history []model.TemperatureRecord
}

func New(solver *calculator.Solver, opts ...Option) *Tracker {
	t := &Tracker{
		solver: solver,
		points: DefaultPoints,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Update moves the fin to the given flight state, advances the solver by dt
// and appends one history record. Nothing is recorded when the step fails.
func (t *Tracker) Update(time, alt, vel, dt float64) (model.TemperatureRecord, error) {
	t.solver.SetFlightState(model.FlightState{Time: time, Altitude: alt, Velocity: vel})
	snap, info, err := t.solver.Step(dt)
	if err != nil {
		return model.TemperatureRecord{}, err
	}

	max, mean := t.solver.Stats()
	rec := model.TemperatureRecord{
		Time:     time,
		MaxTemp:  max,
		MeanTemp: mean,
		Points:   make([]model.PointTemperature, len(t.points)),
		Flight:   t.solver.FlightState(),
		Mach:     info.Mach,
		HeatFlux: info.HeatFlux,
	}
	for i, p := range t.points {
		row, col := t.locate(p, snap)
		rec.Points[i] = model.PointTemperature{Name: p.Name, Temperature: snap.T[row][col]}
	}
	t.history = append(t.history, rec)

	if t.frames != nil && (len(t.history)-1)%t.frameEvery == 0 {
		t.frames.AddLast(model.FieldFrame{Time: time, Step: snap.Step, MaxTemp: max, T: snap.T})
	}
	for _, o := range t.observers {
		o(rec, info)
	}
	return rec, nil
}

// locate maps a sample point to a grid node of snap.
func (t *Tracker) locate(p Point, snap calculator.Snapshot) (row, col int) {
	geom := t.solver.Geometry()
	ny, nx := len(snap.Y), len(snap.X)
	row = int(p.YNorm * float64(ny-1))
	row = clamp(row, 0, ny-1)
	le := geom.LeadingEdgeX(snap.Y[row])

	if p.XNorm == 0 {
		col = nearest(snap.X, le)
		if snap.Mask[row][col] {
			if col < nx-1 {
				col++
			} else {
				col--
			}
		}
		return row, col
	}
	x := le + p.XNorm*(geom.WidthM()-le)
	return row, nearest(snap.X, x)
}

func nearest(xs []float64, x float64) int {
	best, dist := 0, math.Inf(1)
	for i, v := range xs {
		if d := math.Abs(v - x); d < dist {
			best, dist = i, d
		}
	}
	return best
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MaxTemperature the solver's running absolute maximum.
func (t *Tracker) MaxTemperature() (float64, bool) {
	return t.solver.MaxTemperature()
}

func (t *Tracker) MaxTemperatureContext() (model.MaxTempContext, bool) {
	return t.solver.MaxTemperatureContext()
}

// CriticalTimePoints flight state at the max temperature, max velocity and max altitude.
func (t *Tracker) CriticalTimePoints() (model.CriticalTimePoints, bool) {
	if len(t.history) == 0 {
		return model.CriticalTimePoints{}, false
	}
	ctx, _ := t.solver.MaxTemperatureContext()
	res := model.CriticalTimePoints{
		MaxTemperature: model.CriticalPoint{
			Time:        ctx.Time,
			Value:       ctx.Temperature,
			Temperature: ctx.Temperature,
			Altitude:    ctx.Altitude,
			Velocity:    ctx.Velocity,
			Mach:        ctx.Mach,
		},
	}

	vel := make([]float64, len(t.history))
	alt := make([]float64, len(t.history))
	for i, rec := range t.history {
		vel[i] = rec.Flight.Velocity
		alt[i] = rec.Flight.Altitude
	}
	res.MaxVelocity = t.criticalPoint(floats.MaxIdx(vel), vel)
	res.MaxAltitude = t.criticalPoint(floats.MaxIdx(alt), alt)
	return res, true
}

func (t *Tracker) criticalPoint(i int, values []float64) model.CriticalPoint {
	rec := t.history[i]
	return model.CriticalPoint{
		Time:        rec.Time,
		Value:       values[i],
		Temperature: rec.MaxTemp,
		Altitude:    rec.Flight.Altitude,
		Velocity:    rec.Flight.Velocity,
		Mach:        rec.Mach,
	}
}

// History copy of the records so far.
func (t *Tracker) History() []model.TemperatureRecord {
	return append([]model.TemperatureRecord(nil), t.history...)
}

func (t *Tracker) Len() int {
	return len(t.history)
}

func (t *Tracker) Points() []Point {
	return append([]Point(nil), t.points...)
}

// Solver read access for reporting, callers must not step it.
func (t *Tracker) Solver() *calculator.Solver {
	return t.solver
}

// Reset clears the history and the solver for an independent run.
func (t *Tracker) Reset() {
	t.history = nil
	t.solver.Reset()
	if t.frames != nil {
		t.frames.Clear()
	}
}

// FlightSource yields flight states in time order.
type FlightSource interface {
	Next() (model.FlightState, bool)
}

// Run feeds every state of src to Update with step dt until src is exhausted
// or ctx is done.
func (t *Tracker) Run(ctx context.Context, src FlightSource, dt float64) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		fs, ok := src.Next()
		if !ok {
			break
		}
		if _, err := t.Update(fs.Time, fs.Altitude, fs.Velocity, dt); err != nil {
			return err
		}
	}
	max, _ := t.MaxTemperature()
	mctx, _ := t.MaxTemperatureContext()
	log.WithFields(log.Fields{
		"material": t.solver.Geometry().Material.Name,
		"steps":    len(t.history),
		"maxTemp":  max,
		"maxTime":  mctx.Time,
		"clamped":  t.solver.DomainWarnings(),
	}).Info("flight finished")
	return nil
}
