package stability

import (
	"math"

	log "github.com/sirupsen/logrus"
	"rocket/components"
	"rocket/config"
	"rocket/model"
)

type Status string

const (
	Unstable         Status = "unstable"
	MarginallyStable Status = "marginally stable"
	Stable           Status = "stable"
	Overstable       Status = "overstable"
)

const (
	noseCN        = 2.0
	noseCPRatio   = 0.466
	bodyCPRatio   = 0.6
	finCPRatio    = 0.7
	interference  = 1.5
	finMultiplier = 2.0
	boatTailCN    = -0.3
	defaultFinSet = 0.2 // kg, used when the fin set has no mass
)

// Result static stability at one propellant load.
type Result struct {
	PropellantMass   float64 `json:"propellant_mass"`
	CenterOfMass     float64 `json:"center_of_mass"`     // m from the nose tip
	CenterOfPressure float64 `json:"center_of_pressure"` // m from the nose tip
	Margin           float64 `json:"margin"`             // m
	Calibers         float64 `json:"calibers"`
	Status           Status  `json:"status"`
}

// Analyzer closed form CP / CG estimate of a finned rocket.
type Analyzer struct {
	length     float64
	diameter   float64
	noseLength float64
	aoa        float64 // rad

	minCalibers float64
	maxCalibers float64

	fin        model.FinGeometry
	components []components.Component
	propellant float64 // current propellant mass, kg
}

func New(rocket config.Rocket, stab config.Stability, fin model.FinGeometry, cs []components.Component) *Analyzer {
	a := &Analyzer{
		length:      rocket.Length,
		diameter:    rocket.Diameter,
		noseLength:  rocket.NoseLength,
		aoa:         stab.AngleOfAttack * math.Pi / 180,
		minCalibers: stab.MinCalibers,
		maxCalibers: stab.MaxCalibers,
		fin:         fin,
	}
	hasFins := false
	for _, c := range cs {
		if c.Name == components.FinSet {
			hasFins = true
			if c.Mass <= 0 {
				c.Mass = defaultFinSet
			}
		}
		if c.IsPropellant() {
			a.propellant += c.Mass
		}
		a.components = append(a.components, c)
	}
	if !hasFins {
		mass := fin.TotalMass()
		if mass <= 0 {
			mass = defaultFinSet
		}
		a.components = append(a.components, components.Component{Name: components.FinSet, Mass: mass, Position: components.FinSetPosition})
	}
	return a
}

// SetPropellantMass current propellant load, kg.
func (a *Analyzer) SetPropellantMass(kg float64) {
	a.propellant = kg
}

func (a *Analyzer) CenterOfMass() float64 {
	var mass, moment float64
	propTotal := 0.0
	for _, c := range a.components {
		if c.IsPropellant() {
			propTotal += c.Mass
		}
	}
	for _, c := range a.components {
		m := c.Mass
		if c.IsPropellant() && propTotal > 0 {
			m = a.propellant * c.Mass / propTotal
		}
		mass += m
		moment += m * c.Position
	}
	if mass <= 0 {
		return a.length / 2
	}
	return moment / mass
}

func (a *Analyzer) CenterOfPressure() float64 {
	// nose
	cn := noseCN
	moment := noseCN * a.noseLength * noseCPRatio

	// body at angle of attack
	body := a.length - a.noseLength
	if a.aoa > 0 {
		cnBody := 1.1 * a.aoa * body / a.diameter
		cn += cnBody
		moment += cnBody * (a.noseLength + body*bodyCPRatio)
	}

	// fins, the trailing edge sits at the tail
	w, h := a.fin.WidthM(), a.fin.HeightM()
	numFins := a.fin.NumFins
	if numFins <= 0 {
		numFins = model.NumFins
	}
	finArea := 0.5 * w * h * float64(numFins)
	radius := a.diameter / 2
	cnFin := interference * finMultiplier * finArea / (math.Pi * radius * radius) * 4
	cn += cnFin
	moment += cnFin * (a.length - w + w*finCPRatio)

	// boat tail
	boatTail := a.length * 0.05
	cn += boatTailCN
	moment += boatTailCN * (a.length - boatTail/2)

	cp := a.length * 0.7
	if cn > 0 {
		cp = moment / cn
	}
	if cp < 1.0 {
		cp += a.length * 0.2
	}
	return cp
}

// StatusOf classifies a margin in calibers.
func StatusOf(calibers, min, max float64) Status {
	switch {
	case calibers < 0:
		return Unstable
	case calibers < min:
		return MarginallyStable
	case calibers > max:
		return Overstable
	}
	return Stable
}

func (a *Analyzer) Analyze() Result {
	cg := a.CenterOfMass()
	cp := a.CenterOfPressure()
	margin := cp - cg
	calibers := margin / a.diameter
	return Result{
		PropellantMass:   a.propellant,
		CenterOfMass:     cg,
		CenterOfPressure: cp,
		Margin:           margin,
		Calibers:         calibers,
		Status:           StatusOf(calibers, a.minCalibers, a.maxCalibers),
	}
}

// Sweep analyzes the rocket at fractions of the full propellant load.
func (a *Analyzer) Sweep(fractions []float64) []Result {
	full := 0.0
	for _, c := range a.components {
		if c.IsPropellant() {
			full += c.Mass
		}
	}
	saved := a.propellant
	defer func() { a.propellant = saved }()

	res := make([]Result, len(fractions))
	for i, f := range fractions {
		a.propellant = full * f
		res[i] = a.Analyze()
		log.WithFields(log.Fields{
			"propellant": res[i].PropellantMass,
			"cg":         res[i].CenterOfMass,
			"cp":         res[i].CenterOfPressure,
			"calibers":   res[i].Calibers,
			"status":     res[i].Status,
		}).Debug("stability")
	}
	return res
}
