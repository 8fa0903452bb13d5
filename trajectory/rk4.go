package trajectory

import "errors"

// Integrable is a system of first order ODEs integrated by RK4.
type Integrable interface {
	GetState() []float64
	SetState(t float64, s []float64)
	Stop(t float64) bool
	Func(t float64, s []float64) []float64
}

// RK4 classic fourth order Runge Kutta integrator with a fixed step.
type RK4 struct {
	X0         float64 // initial time
	StepSize   float64
	Integrable Integrable
}

func NewRK4(x0, stepSize float64, inte Integrable) (*RK4, error) {
	if stepSize <= 0 {
		return nil, errors.New("rk4: step size must be positive")
	}
	if inte == nil {
		return nil, errors.New("rk4: nil integrable")
	}
	return &RK4{X0: x0, StepSize: stepSize, Integrable: inte}, nil
}

// Solve integrates until the integrable asks to stop.
// Returns the number of iterations and the last time.
func (r *RK4) Solve() (uint64, float64) {
	const (
		half     = 1 / 2.0
		oneSixth = 1 / 6.0
		oneThird = 1 / 3.0
	)

	iterNum := uint64(0)
	xi := r.X0
	h := r.StepSize
	for !r.Integrable.Stop(xi) {
		state := r.Integrable.GetState()
		n := len(state)
		k1 := make([]float64, n)
		k2 := make([]float64, n)
		k3 := make([]float64, n)
		tState := make([]float64, n)
		newState := make([]float64, n)

		for i, y := range r.Integrable.Func(xi, state) {
			k1[i] = y * h
			tState[i] = state[i] + k1[i]*half
		}
		for i, y := range r.Integrable.Func(xi+h*half, tState) {
			k2[i] = y * h
			tState[i] = state[i] + k2[i]*half
		}
		for i, y := range r.Integrable.Func(xi+h*half, tState) {
			k3[i] = y * h
			tState[i] = state[i] + k3[i]
		}
		for i, y := range r.Integrable.Func(xi+h, tState) {
			k4 := y * h
			newState[i] = state[i] + oneSixth*(k1[i]+k4) + oneThird*(k2[i]+k3[i])
		}
		xi += h
		iterNum++
		r.Integrable.SetState(xi, newState)
	}
	return iterNum, xi
}
