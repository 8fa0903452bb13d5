package trajectory

import "rocket/model"

// Source iterates over a sampled flight.
type Source struct {
	states []model.FlightState
	i      int
}

func NewSource(states []model.FlightState) *Source {
	return &Source{states: states}
}

func (s *Source) Next() (model.FlightState, bool) {
	if s.i >= len(s.states) {
		return model.FlightState{}, false
	}
	fs := s.states[s.i]
	s.i++
	return fs, true
}

// Reset rewinds the source.
func (s *Source) Reset() {
	s.i = 0
}

func (s *Source) Len() int {
	return len(s.states)
}

// Ramp linear velocity ramp from v0 to v1 over duration at constant altitude,
// sampled every dt including both ends.
func Ramp(v0, v1, duration, alt, dt float64) []model.FlightState {
	n := int(duration/dt + 0.5)
	states := make([]model.FlightState, n+1)
	for k := range states {
		t := float64(k) * dt
		states[k] = model.FlightState{Time: t, Altitude: alt, Velocity: v0 + (v1-v0)*t/duration}
	}
	return states
}
