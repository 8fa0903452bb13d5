package calculator

// Snapshot read-only copy of the field returned by each step.
type Snapshot struct {
	X    []float64   `json:"x"` // chordwise node coordinates, m
	Y    []float64   `json:"y"` // spanwise node coordinates, m
	T    [][]float64 `json:"t"` // K, T[row][col]
	Mask [][]bool    `json:"mask"`
	Step int         `json:"step"`
	Time float64     `json:"time"`
}

// BuildData snapshot of the current field.
func (s *Solver) BuildData() Snapshot {
	x, y := s.Grid()
	return Snapshot{
		X:    x,
		Y:    y,
		T:    s.Field(),
		Mask: s.Mask(),
		Step: s.steps,
		Time: s.flight.Time,
	}
}
