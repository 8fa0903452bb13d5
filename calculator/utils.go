package calculator

// FourierNumber alpha dt / min(dx, dy)^2 of the current grid.
func (s *Solver) FourierNumber(dt float64) float64 {
	d := s.dx
	if s.dy < d {
		d = s.dy
	}
	return s.diffusivity * dt / (d * d)
}

// MaxStableTimeStep largest dt the explicit scheme accepts on the current grid.
func (s *Solver) MaxStableTimeStep() float64 {
	d := s.dx
	if s.dy < d {
		d = s.dy
	}
	return s.opts.MaxFourier * d * d / s.diffusivity
}

// leading edge length weight of a row, the root and tip rows serve half a segment
func (s *Solver) leWeight(i int) float64 {
	if i == 0 || i == s.ny-1 {
		return 0.5
	}
	return 1
}

// calculatePoint explicit update of one in-footprint node. Neighbors outside
// the footprint are never read, which makes every fin boundary adiabatic.
func (s *Solver) calculatePoint(dt float64, i, j int, t [][]float64, h, tr float64) float64 {
	tc := t[i][j]
	var lx, ly float64
	if j > 0 && !s.outside[i][j-1] {
		lx += t[i][j-1] - tc
	}
	if j < s.nx-1 && !s.outside[i][j+1] {
		lx += t[i][j+1] - tc
	}
	if i > 0 && !s.outside[i-1][j] {
		ly += t[i-1][j] - tc
	}
	if i < s.ny-1 && !s.outside[i+1][j] {
		ly += t[i+1][j] - tc
	}
	next := tc + dt*s.diffusivity*(lx/(s.dx*s.dx)+ly/(s.dy*s.dy))
	if j == s.leCol[i] && h > 0 {
		next += dt * s.leadingEdgeFlux(i, tc, h, tr)
	}
	return next
}

// leadingEdgeFlux heating rate (K/s) of the leading edge node of row i at temperature tc.
func (s *Solver) leadingEdgeFlux(i int, tc, h, tr float64) float64 {
	q := h * (tr - tc) // W/m^2
	return q * s.leSegment * s.leWeight(i) / (s.rhoC * s.dx * s.dy)
}

// Stats max and mean temperature over in-footprint nodes.
func (s *Solver) Stats() (max, mean float64) {
	s.ensureMask()
	max, _, _ = s.fieldMax(s.field)
	sum, n := 0.0, 0
	for i := range s.field {
		for j, t := range s.field[i] {
			if s.outside[i][j] {
				continue
			}
			sum += t
			n++
		}
	}
	return max, sum / float64(n)
}

func (s *Solver) fieldMax(f [][]float64) (max float64, row, col int) {
	row, col = -1, -1
	for i := range f {
		for j, t := range f[i] {
			if s.outside[i][j] {
				continue
			}
			if row < 0 || t > max {
				max, row, col = t, i, j
			}
		}
	}
	return max, row, col
}

// ThermalEnergy sum of rho c T over in-footprint nodes per unit thickness, J/m.
func (s *Solver) ThermalEnergy() float64 {
	s.ensureMask()
	e := 0.0
	for i := range s.field {
		for j, t := range s.field[i] {
			if !s.outside[i][j] {
				e += t
			}
		}
	}
	return e * s.rhoC * s.dx * s.dy
}

// Field copy of the current temperature field, K.
func (s *Solver) Field() [][]float64 {
	return copyField(s.field)
}

// Temperature at node (row, col).
func (s *Solver) Temperature(row, col int) float64 {
	return s.field[row][col]
}
