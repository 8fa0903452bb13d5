package calculator

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"rocket/model"
)

// StepError a failed step with the state needed to debug it.
type StepError struct {
	Step  int
	Time  float64
	Field [][]float64 // field produced by the failed step
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.3fs): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Step advances the field by dt under the current flight state.
func (s *Solver) Step(dt float64) (Snapshot, model.HeatFluxInfo, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return Snapshot{}, model.HeatFluxInfo{}, fmt.Errorf("%w: time step %v", ErrConfiguration, dt)
	}
	if fo := s.FourierNumber(dt); fo > s.opts.MaxFourier {
		return Snapshot{}, model.HeatFluxInfo{}, fmt.Errorf("%w: Fourier number %.4f exceeds %.2f, dt must be <= %.3g s",
			ErrConfiguration, fo, s.opts.MaxFourier, s.MaxStableTimeStep())
	}
	s.ensureMask()

	info := s.heating.Evaluate(s.flight.Altitude, s.flight.Velocity)
	if info.Clamped {
		if s.domainWarnings == 0 {
			log.WithFields(log.Fields{
				"time":     s.flight.Time,
				"altitude": s.flight.Altitude,
				"velocity": s.flight.Velocity,
				"mach":     info.Mach,
			}).Warn("flight state outside heating model range, clamped")
		}
		s.domainWarnings++
	}

	src := s.field
	dst := s.field1
	if len(dst) != s.ny || len(dst[0]) != s.nx {
		dst = newField(s.ny, s.nx)
	}
	h, tr := info.HeatTransferCoefficient, info.SkinReferenceTemp
	for i := 0; i < s.ny; i++ {
		for j := 0; j < s.nx; j++ {
			if s.outside[i][j] {
				dst[i][j] = src[i][j]
				continue
			}
			dst[i][j] = s.calculatePoint(dt, i, j, src, h, tr)
		}
	}

	if err := s.checkDiverged(dst); err != nil {
		log.WithFields(log.Fields{
			"step": s.steps + 1,
			"time": s.flight.Time,
		}).Error(err)
		s.field1 = dst
		return Snapshot{}, info, &StepError{
			Step:  s.steps + 1,
			Time:  s.flight.Time,
			Field: copyField(dst),
			Err:   err,
		}
	}

	s.field, s.field1 = dst, src
	s.steps++

	s.updateMax(info.Mach)
	info.MaxTempEver = s.maxCtx.Temperature
	ctx := s.maxCtx
	info.MaxTempContext = &ctx
	return s.BuildData(), info, nil
}

func (s *Solver) checkDiverged(f [][]float64) error {
	for i := range f {
		for j, t := range f[i] {
			if s.outside[i][j] {
				continue
			}
			if math.IsNaN(t) || math.IsInf(t, 0) {
				return fmt.Errorf("%w: non finite temperature at node (%d, %d)", ErrNumericalInstability, i, j)
			}
			if t > s.limit {
				return fmt.Errorf("%w: %.1f K at node (%d, %d) exceeds %.1f K", ErrNumericalInstability, t, i, j, s.limit)
			}
		}
	}
	return nil
}

// updateMax folds the new field into the running maximum.
func (s *Solver) updateMax(mach float64) {
	max, row, col := s.fieldMax(s.field)
	if row < 0 || (s.hasMax && max <= s.maxCtx.Temperature) {
		return
	}
	s.hasMax = true
	s.maxCtx = model.MaxTempContext{
		Temperature: max,
		Time:        s.flight.Time,
		Altitude:    s.flight.Altitude,
		Velocity:    s.flight.Velocity,
		Mach:        mach,
		Step:        s.steps,
		Row:         row,
		Col:         col,
	}
	if s.peak == nil || len(s.peak) != s.ny {
		s.peak = newField(s.ny, s.nx)
	}
	for i := range s.field {
		copy(s.peak[i], s.field[i])
	}
}
