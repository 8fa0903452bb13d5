package aero

import (
	"math"

	"rocket/model"
)

const (
	MaxMach = 10.0

	minRecovery = 0.80
	maxRecovery = 0.90

	idleVelocity = 1e-6 // m/s
)

// Model laminar flat plate heating of a fin with a fixed chord.
// Evaluate has no side effects.
type Model struct {
	Chord   float64 // characteristic length, m
	MaxMach float64
}

func NewModel(chord float64) *Model {
	return &Model{Chord: chord, MaxMach: MaxMach}
}

// ForFin uses the root chord of the fin as the characteristic length.
func ForFin(geom model.FinGeometry) *Model {
	return NewModel(geom.WidthM())
}

// RecoveryFactor laminar r = sqrt(Pr), bounded to realistic values.
func RecoveryFactor(pr float64) float64 {
	r := math.Sqrt(pr)
	if r < minRecovery || math.IsNaN(r) {
		return minRecovery
	}
	if r > maxRecovery {
		return maxRecovery
	}
	return r
}

// RecoveryTemperature adiabatic wall temperature for free stream temperature t and Mach m.
func RecoveryTemperature(t, mach, r float64) float64 {
	return t * (1 + r*(Gamma-1)/2*mach*mach)
}

// Evaluate returns the heating of the fin at the given flight state.
// Only the magnitude of velocity matters. Inputs outside the valid range are
// clamped and reported with Clamped.
func (m *Model) Evaluate(alt, vel float64) model.HeatFluxInfo {
	atm := Atmosphere(alt)
	clamped := atm.Clamped

	v := math.Abs(vel)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v, clamped = 0, true
	}
	mach := v / atm.SpeedOfSound
	maxMach := m.MaxMach
	if maxMach <= 0 {
		maxMach = MaxMach
	}
	if mach > maxMach {
		mach, clamped = maxMach, true
		v = mach * atm.SpeedOfSound
	}

	r := RecoveryFactor(atm.Prandtl)
	tr := RecoveryTemperature(atm.Temperature, mach, r)

	h := 0.0
	if v > idleVelocity && m.Chord > 0 {
		re := atm.Density * v * m.Chord / atm.Viscosity
		// mean laminar Nusselt number over the chord
		nu := 0.664 * math.Sqrt(re) * math.Cbrt(atm.Prandtl)
		h = nu * atm.Conductivity / m.Chord
	}

	return model.HeatFluxInfo{
		Mach:                    mach,
		HeatTransferCoefficient: h,
		HeatFlux:                h * (tr - atm.Temperature),
		SkinReferenceTemp:       tr,
		AmbientTemp:             atm.Temperature,
		Clamped:                 clamped,
	}
}

// DynamicPressure q = rho v^2 / 2, Pa
func DynamicPressure(alt, vel float64) float64 {
	atm := Atmosphere(alt)
	return 0.5 * atm.Density * vel * vel
}

// Mach number of vel at alt, unclamped.
func Mach(alt, vel float64) float64 {
	return math.Abs(vel) / Atmosphere(alt).SpeedOfSound
}
