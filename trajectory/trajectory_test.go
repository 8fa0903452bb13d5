package trajectory

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"rocket/config"
)

// dy/dt = y, y(0) = 1
type exponential struct {
	y   float64
	end float64
}

func (e *exponential) GetState() []float64             { return []float64{e.y} }
func (e *exponential) SetState(t float64, s []float64) { e.y = s[0] }
func (e *exponential) Stop(t float64) bool             { return t >= e.end-1e-12 }
func (e *exponential) Func(t float64, s []float64) []float64 {
	return []float64{s[0]}
}

func TestRK4Exponential(t *testing.T) {
	e := &exponential{y: 1, end: 1}
	r, err := NewRK4(0, 0.01, e)
	if err != nil {
		t.Fatal(err)
	}
	iter, tEnd := r.Solve()
	if iter != 100 || !scalar.EqualWithinAbs(tEnd, 1, 1e-9) {
		t.Errorf("iter = %d, t = %v", iter, tEnd)
	}
	if !scalar.EqualWithinAbs(e.y, math.E, 1e-9) {
		t.Errorf("y(1) = %v", e.y)
	}
}

func TestNewRK4Rejects(t *testing.T) {
	if _, err := NewRK4(0, 0, &exponential{}); err == nil {
		t.Error("zero step accepted")
	}
	if _, err := NewRK4(0, 0.1, nil); err == nil {
		t.Error("nil integrable accepted")
	}
}

func TestSimulateAscent(t *testing.T) {
	p := ParamsFromConfig(config.Default().Rocket)
	res, err := Simulate(p, 0.05, 100, 600)
	if err != nil {
		t.Fatal(err)
	}
	if res.Apogee <= 1000 {
		t.Fatalf("apogee = %v", res.Apogee)
	}
	if res.BurnoutTime <= 0 || res.ApogeeTime <= res.BurnoutTime {
		t.Errorf("burnout %v, apogee %v", res.BurnoutTime, res.ApogeeTime)
	}
	if res.MaxVelocity <= 0 || res.MaxQ <= 0 {
		t.Errorf("max velocity %v, max q %v", res.MaxVelocity, res.MaxQ)
	}
	for i := 1; i < len(res.Samples); i++ {
		if res.Samples[i].Time <= res.Samples[i-1].Time {
			t.Fatalf("samples not in time order at %d", i)
		}
	}
	last := res.Samples[len(res.Samples)-1]
	if last.Velocity >= 0 {
		t.Errorf("integration stopped before apogee, v = %v", last.Velocity)
	}
}

func TestSimulateUnderpowered(t *testing.T) {
	p := ParamsFromConfig(config.Default().Rocket)
	p.FuelFlow = 1
	res, err := Simulate(p, 0.1, 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	if res.Apogee != 0 || res.MaxVelocity != 0 {
		t.Errorf("underpowered rocket flew: %+v", res.Apogee)
	}
}

func TestRamp(t *testing.T) {
	states := Ramp(0, 680, 60, 3000, 0.01)
	if len(states) != 6001 {
		t.Fatalf("len = %d", len(states))
	}
	last := states[len(states)-1]
	if !scalar.EqualWithinAbs(last.Time, 60, 1e-9) || !scalar.EqualWithinAbs(last.Velocity, 680, 1e-9) {
		t.Errorf("last = %+v", last)
	}
	src := NewSource(states)
	n := 0
	for {
		if _, ok := src.Next(); !ok {
			break
		}
		n++
	}
	if n != len(states) {
		t.Errorf("source yielded %d", n)
	}
}
