package trajectory

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"rocket/aero"
	"rocket/config"
	"rocket/model"
)

const g0 = 9.80665

// Params vertical ascent of a single stage rocket.
type Params struct {
	G           float64
	EarthMass   float64 // kg
	EarthRadius float64 // m
	IspSea      float64 // s
	IspVac      float64 // s
	InitialFuel float64 // kg
	DryMass     float64 // kg
	FuelFlow    float64 // kg/s
	Radius      float64 // body radius, m
	Cd          float64
}

func ParamsFromConfig(r config.Rocket) Params {
	return Params{
		G:           r.G,
		EarthMass:   r.EarthMass,
		EarthRadius: r.EarthRadius,
		IspSea:      r.IspSea,
		IspVac:      r.IspVac,
		InitialFuel: r.InitialFuel,
		DryMass:     r.DryMass,
		FuelFlow:    r.FuelFlow,
		Radius:      r.Radius,
		Cd:          r.Cd,
	}
}

// Result sampled flight and its notable values.
type Result struct {
	Samples     []model.FlightState
	Apogee      float64 // m
	ApogeeTime  float64 // s
	MaxVelocity float64 // m/s
	MaxQ        float64 // Pa
	MaxQTime    float64 // s
	BurnoutTime float64 // s
}

// ascent state: altitude, velocity, fuel mass
type ascent struct {
	p        Params
	state    []float64
	afterTop int
	maxTime  float64

	res       Result
	topSteps  int
	lifted    bool
	burnedOut bool
}

// Simulate integrates the ascent with step dt until afterTop steps past apogee,
// landing, or maxTime.
func Simulate(p Params, dt float64, afterTop int, maxTime float64) (Result, error) {
	if p.DryMass <= 0 || p.InitialFuel < 0 || p.Radius <= 0 {
		return Result{}, fmt.Errorf("invalid rocket parameters %+v", p)
	}
	if maxTime <= 0 {
		return Result{}, fmt.Errorf("invalid max time %v", maxTime)
	}
	a := &ascent{
		p:        p,
		state:    []float64{0, 0, p.InitialFuel},
		afterTop: afterTop,
		maxTime:  maxTime,
	}
	a.res.Samples = append(a.res.Samples, model.FlightState{})
	r, err := NewRK4(0, dt, a)
	if err != nil {
		return Result{}, err
	}
	iter, t := r.Solve()
	if !a.lifted {
		log.WithFields(log.Fields{
			"thrust": a.thrust(0, p.InitialFuel),
			"weight": (p.DryMass + p.InitialFuel) * a.gravity(0),
		}).Warn("rocket never left the pad")
	}
	log.WithFields(log.Fields{
		"steps":       iter,
		"time":        t,
		"apogee":      a.res.Apogee,
		"maxVelocity": a.res.MaxVelocity,
		"maxQ":        a.res.MaxQ,
	}).Info("trajectory integrated")
	return a.res, nil
}

func (a *ascent) GetState() []float64 {
	return append([]float64(nil), a.state...)
}

func (a *ascent) SetState(t float64, s []float64) {
	if s[0] < 0 && !a.lifted {
		s[0], s[1] = 0, 0
	}
	if s[2] < 0 {
		s[2] = 0
	}
	if s[0] > 0 {
		a.lifted = true
	}
	if !a.burnedOut && s[2] == 0 {
		a.burnedOut = true
		a.res.BurnoutTime = t
	}
	a.state = s

	fs := model.FlightState{Time: t, Altitude: s[0], Velocity: s[1]}
	a.res.Samples = append(a.res.Samples, fs)
	if s[0] > a.res.Apogee {
		a.res.Apogee, a.res.ApogeeTime = s[0], t
	}
	a.res.MaxVelocity = math.Max(a.res.MaxVelocity, s[1])
	if q := aero.DynamicPressure(s[0], s[1]); q > a.res.MaxQ {
		a.res.MaxQ, a.res.MaxQTime = q, t
	}
	if a.lifted && s[1] < 0 {
		a.topSteps++
	}
}

func (a *ascent) Stop(t float64) bool {
	switch {
	case t >= a.maxTime:
		return true
	case a.lifted && a.state[0] <= 0:
		return true
	case a.topSteps > a.afterTop:
		return true
	}
	return false
}

func (a *ascent) Func(t float64, s []float64) []float64 {
	alt, vel, fuel := s[0], s[1], s[2]
	mass := a.p.DryMass + math.Max(fuel, 0)
	thrust := a.thrust(alt, fuel)
	atm := aero.Atmosphere(alt)
	area := math.Pi * a.p.Radius * a.p.Radius
	drag := 0.5 * atm.Density * vel * math.Abs(vel) * a.p.Cd * area
	acc := (thrust-drag)/mass - a.gravity(alt)

	// resting on the pad
	if !a.lifted && alt <= 0 && vel <= 0 && acc < 0 {
		acc = 0
	}
	mdot := 0.0
	if fuel > 0 {
		mdot = -a.p.FuelFlow
	}
	return []float64{vel, acc, mdot}
}

// thrust Isp interpolated between sea level and vacuum by ambient pressure
func (a *ascent) thrust(alt, fuel float64) float64 {
	if fuel <= 0 {
		return 0
	}
	ratio := aero.Atmosphere(alt).Pressure / 101325
	isp := a.p.IspVac - (a.p.IspVac-a.p.IspSea)*ratio
	return isp * g0 * a.p.FuelFlow
}

func (a *ascent) gravity(alt float64) float64 {
	r := a.p.EarthRadius + alt
	return a.p.G * a.p.EarthMass / (r * r)
}
