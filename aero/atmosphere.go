package aero

import "math"

const (
	Gamma       = 1.4
	RAir        = 287.05 // J/(kg K)
	CpAir       = 1004.5 // J/(kg K)
	g0MOverR    = 0.034163195
	MaxAltitude = 84852.0 // top of the tabulated atmosphere, m
)

// layer of the 1976 standard atmosphere
type layer struct {
	base     float64 // m
	temp     float64 // K
	lapse    float64 // K/m
	pressure float64 // Pa
}

var layers = []layer{
	{0, 288.15, -0.0065, 101325},
	{11000, 216.65, 0, 22632.06},
	{20000, 216.65, 0.001, 5474.889},
	{32000, 228.65, 0.0028, 868.0187},
	{47000, 270.65, 0, 110.9063},
	{51000, 270.65, -0.0028, 66.93887},
	{71000, 214.65, -0.002, 3.956420},
}

// AtmosphereState air properties at one altitude.
type AtmosphereState struct {
	Altitude     float64 // altitude actually evaluated, m
	Temperature  float64 // K
	Pressure     float64 // Pa
	Density      float64 // kg/m^3
	SpeedOfSound float64 // m/s
	Viscosity    float64 // dynamic, Pa s
	Conductivity float64 // W/(m K)
	Prandtl      float64
	Clamped      bool
}

// Atmosphere evaluates the standard atmosphere. Altitudes outside
// [0, MaxAltitude] are clamped to the boundary values.
func Atmosphere(alt float64) AtmosphereState {
	clamped := false
	switch {
	case math.IsNaN(alt) || alt < 0:
		alt, clamped = 0, true
	case alt > MaxAltitude:
		alt, clamped = MaxAltitude, true
	}

	l := layers[0]
	for _, candidate := range layers[1:] {
		if alt < candidate.base {
			break
		}
		l = candidate
	}

	dh := alt - l.base
	t := l.temp + l.lapse*dh
	var p float64
	if l.lapse == 0 {
		p = l.pressure * math.Exp(-g0MOverR*dh/l.temp)
	} else {
		p = l.pressure * math.Pow(l.temp/t, g0MOverR/l.lapse)
	}

	mu := sutherland(t)
	k := airConductivity(t)
	return AtmosphereState{
		Altitude:     alt,
		Temperature:  t,
		Pressure:     p,
		Density:      p / (RAir * t),
		SpeedOfSound: math.Sqrt(Gamma * RAir * t),
		Viscosity:    mu,
		Conductivity: k,
		Prandtl:      mu * CpAir / k,
		Clamped:      clamped,
	}
}

// dynamic viscosity of air
func sutherland(t float64) float64 {
	return 1.458e-6 * math.Pow(t, 1.5) / (t + 110.4)
}

// thermal conductivity of air, 1976 standard atmosphere fit
func airConductivity(t float64) float64 {
	return 2.64638e-3 * math.Pow(t, 1.5) / (t + 245.4*math.Pow(10, -12/t))
}
