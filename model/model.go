package model

import "math"

// Material thermal and mechanical properties, immutable after load.
type Material struct {
	Name                string  `json:"name"`
	ThermalConductivity float64 `json:"thermal_conductivity"` // W/(m K)
	Density             float64 `json:"density"`              // kg/m^3
	SpecificHeat        float64 `json:"specific_heat"`        // J/(kg K)
	MaxServiceTemp      float64 `json:"max_service_temp"`     // K
	YieldStrength       float64 `json:"yield_strength"`       // MPa
	ThermalExpansion    float64 `json:"thermal_expansion"`    // 1/K
	Emissivity          float64 `json:"emissivity"`
}

// ThermalDiffusivity k / (rho c), m^2/s
func (m Material) ThermalDiffusivity() float64 {
	return m.ThermalConductivity / (m.Density * m.SpecificHeat)
}

// FinGeometry is a delta fin sized for one material, fixed for a whole run.
// The leading edge runs from the root at x=0 to the tip at x=Width.
type FinGeometry struct {
	Height     float64  `json:"height"`      // span, mm
	Width      float64  `json:"width"`       // root chord, mm
	SweepAngle float64  `json:"sweep_angle"` // deg
	Thickness  float64  `json:"thickness"`   // mm
	MassPerFin float64  `json:"mass_per_fin"`
	Material   Material `json:"material"`
	NumFins    int      `json:"num_fins"`
}

func (g FinGeometry) HeightM() float64 {
	return g.Height * MmToM
}

func (g FinGeometry) WidthM() float64 {
	return g.Width * MmToM
}

// LeadingEdgeX chordwise leading edge position (m) at span position y (m).
func (g FinGeometry) LeadingEdgeX(y float64) float64 {
	return (y / g.HeightM()) * g.WidthM()
}

// LeadingEdgeLength length of the swept leading edge, m
func (g FinGeometry) LeadingEdgeLength() float64 {
	return math.Hypot(g.HeightM(), g.WidthM())
}

// PlanformArea one side of one fin, m^2
func (g FinGeometry) PlanformArea() float64 {
	return 0.5 * g.HeightM() * g.WidthM()
}

func (g FinGeometry) TotalMass() float64 {
	return g.MassPerFin * float64(g.NumFins)
}

// FlightState one trajectory sample.
type FlightState struct {
	Time     float64 `json:"time"`
	Altitude float64 `json:"altitude"`
	Velocity float64 `json:"velocity"`
}

// MaxTempContext where and when the running maximum temperature was reached.
type MaxTempContext struct {
	Temperature float64 `json:"temperature"`
	Time        float64 `json:"time"`
	Altitude    float64 `json:"altitude"`
	Velocity    float64 `json:"velocity"`
	Mach        float64 `json:"mach"`
	Step        int     `json:"step"`
	Row         int     `json:"row"`
	Col         int     `json:"col"`
}

// HeatFluxInfo per step diagnostics of the heating model and the solver.
type HeatFluxInfo struct {
	Mach                    float64 `json:"mach"`
	HeatTransferCoefficient float64 `json:"heat_transfer_coefficient"`
	HeatFlux                float64 `json:"heat_flux"`
	SkinReferenceTemp       float64 `json:"skin_reference_temp"`
	AmbientTemp             float64 `json:"ambient_temp"`
	Clamped                 bool    `json:"clamped"`

	MaxTempEver    float64         `json:"max_temp_ever"`
	MaxTempContext *MaxTempContext `json:"max_temp_context,omitempty"`
}

// PointTemperature temperature at one named sample point of the fin.
type PointTemperature struct {
	Name        string  `json:"name"`
	Temperature float64 `json:"temperature"`
}

// TemperatureRecord one entry of the temperature history.
type TemperatureRecord struct {
	Time     float64            `json:"time"`
	MaxTemp  float64            `json:"max_temp"`
	MeanTemp float64            `json:"mean_temp"`
	Points   []PointTemperature `json:"points"`
	Flight   FlightState        `json:"flight"`
	Mach     float64            `json:"mach"`
	HeatFlux float64            `json:"heat_flux"`
}

// CriticalPoint the flight state at a notable instant of the history.
type CriticalPoint struct {
	Time        float64 `json:"time"`
	Value       float64 `json:"value"`
	Temperature float64 `json:"temperature"`
	Altitude    float64 `json:"altitude"`
	Velocity    float64 `json:"velocity"`
	Mach        float64 `json:"mach"`
}

type CriticalTimePoints struct {
	MaxTemperature CriticalPoint `json:"max_temperature"`
	MaxVelocity    CriticalPoint `json:"max_velocity"`
	MaxAltitude    CriticalPoint `json:"max_altitude"`
}

// ComparisonResult outcome of one material in a comparison sweep.
type ComparisonResult struct {
	Material            string  `json:"material"`
	MaxTemperature      float64 `json:"max_temperature"`
	MaxServiceTemp      float64 `json:"max_service_temp"`
	Margin              float64 `json:"margin"`
	WithinLimits        bool    `json:"within_limits"`
	FinMass             float64 `json:"fin_mass"` // all fins
	MaxTempTime         float64 `json:"max_temp_time"`
	FinHeight           float64 `json:"fin_height"`
	FinWidth            float64 `json:"fin_width"`
	ThermalConductivity float64 `json:"thermal_conductivity"`
	Density             float64 `json:"density"`
	Emissivity          float64 `json:"emissivity"`
	SimulationSeconds   float64 `json:"simulation_seconds"`
	Err                 string  `json:"err,omitempty"`
}

// FieldFrame field snapshot kept for animations.
type FieldFrame struct {
	Time    float64     `json:"time"`
	Step    int         `json:"step"`
	MaxTemp float64     `json:"max_temp"`
	T       [][]float64 `json:"t"`
}
