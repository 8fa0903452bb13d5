package calculator

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
)

// relative tolerance of the footprint test, nodes on the leading edge are inside
const edgeEps = 1e-9

// resize lays out a new nx x ny grid over the bounding rectangle of the fin.
func (s *Solver) resize(nx, ny int) error {
	if nx <= 1 || ny <= 1 {
		return fmt.Errorf("%w: mesh %dx%d has no interior", ErrConfiguration, nx, ny)
	}
	w, h := s.geom.WidthM(), s.geom.HeightM()
	s.nx, s.ny = nx, ny
	s.dx = w / float64(nx-1)
	s.dy = h / float64(ny-1)
	s.x = make([]float64, nx)
	for j := range s.x {
		s.x[j] = float64(j) * s.dx
	}
	s.y = make([]float64, ny)
	for i := range s.y {
		s.y[i] = float64(i) * s.dy
	}
	s.x[nx-1], s.y[ny-1] = w, h
	s.leSegment = s.dy * math.Sqrt(1+(w/h)*(w/h))

	s.field = newField(ny, nx)
	s.field1 = nil
	s.InvalidateMask()
	s.ensureMask()
	return nil
}

// InvalidateMask marks the footprint mask stale. It is rebuilt on next use.
func (s *Solver) InvalidateMask() {
	s.maskDirty = true
}

func (s *Solver) ensureMask() {
	if !s.maskDirty {
		return
	}
	s.outside = make([][]bool, s.ny)
	s.leCol = make([]int, s.ny)
	w := s.geom.WidthM()
	for i := 0; i < s.ny; i++ {
		s.outside[i] = make([]bool, s.nx)
		le := s.geom.LeadingEdgeX(s.y[i])
		s.leCol[i] = s.nx - 1
		found := false
		for j := 0; j < s.nx; j++ {
			if s.x[j] < le-edgeEps*w {
				s.outside[i][j] = true
				continue
			}
			if !found {
				s.leCol[i] = j
				found = true
			}
		}
	}
	s.maskDirty = false
	s.maskBuilds++
}

// SetMeshResolution re-grids the fin. The current field is carried over by
// nearest in-footprint node, the mask is invalidated and rebuilt.
func (s *Solver) SetMeshResolution(nx, ny int) error {
	if nx <= 1 || ny <= 1 {
		return fmt.Errorf("%w: mesh %dx%d has no interior", ErrConfiguration, nx, ny)
	}
	if nx == s.nx && ny == s.ny {
		return nil
	}
	s.ensureMask()
	old, oldOutside, oldLe := s.field, s.outside, s.leCol
	oldDx, oldDy, oldNx, oldNy := s.dx, s.dy, s.nx, s.ny

	if err := s.resize(nx, ny); err != nil {
		return err
	}
	for i := 0; i < s.ny; i++ {
		oi := clampIndex(int(math.Round(s.y[i]/oldDy)), oldNy)
		for j := 0; j < s.nx; j++ {
			if s.outside[i][j] {
				s.field[i][j] = s.opts.AmbientTemp
				continue
			}
			oj := clampIndex(int(math.Round(s.x[j]/oldDx)), oldNx)
			if oldOutside[oi][oj] {
				oj = oldLe[oi]
			}
			s.field[i][j] = old[oi][oj]
		}
	}
	// the peak snapshot belongs to the old grid
	s.peak = nil

	log.WithFields(log.Fields{
		"from": fmt.Sprintf("%dx%d", oldNx, oldNy),
		"to":   fmt.Sprintf("%dx%d", nx, ny),
	}).Info("mesh resolution changed")
	return nil
}

// Mesh returns the node counts chordwise and spanwise.
func (s *Solver) Mesh() (nx, ny int) {
	return s.nx, s.ny
}

// Grid node coordinates in m, x chordwise and y spanwise.
func (s *Solver) Grid() (x, y []float64) {
	return append([]float64(nil), s.x...), append([]float64(nil), s.y...)
}

// Mask copy of the footprint mask, true for nodes outside the fin.
func (s *Solver) Mask() [][]bool {
	s.ensureMask()
	res := make([][]bool, len(s.outside))
	for i := range s.outside {
		res[i] = append([]bool(nil), s.outside[i]...)
	}
	return res
}

// Inside reports whether node (row, col) belongs to the fin.
func (s *Solver) Inside(row, col int) bool {
	s.ensureMask()
	return !s.outside[row][col]
}

// LeadingEdgeCol first in-footprint column of a row.
func (s *Solver) LeadingEdgeCol(row int) int {
	s.ensureMask()
	return s.leCol[row]
}

// MaskBuilds number of times the footprint mask was computed.
func (s *Solver) MaskBuilds() int {
	return s.maskBuilds
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func newField(ny, nx int) [][]float64 {
	f := make([][]float64, ny)
	buf := make([]float64, ny*nx)
	for i := range f {
		f[i] = buf[i*nx : (i+1)*nx : (i+1)*nx]
	}
	return f
}

func copyField(src [][]float64) [][]float64 {
	if len(src) == 0 {
		return nil
	}
	dst := newField(len(src), len(src[0]))
	for i := range src {
		copy(dst[i], src[i])
	}
	return dst
}
