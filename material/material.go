package material

import (
	"errors"
	"fmt"
	"sort"

	"rocket/model"
)

var ErrUnknownMaterial = errors.New("unknown material")

// material table, read only after init
var table = map[string]model.Material{}

func init() {
	for _, m := range []model.Material{
		{Name: "Aluminum 6061-T6", ThermalConductivity: 167, Density: 2700, SpecificHeat: 896, MaxServiceTemp: 473, YieldStrength: 270, ThermalExpansion: 23.6e-6, Emissivity: 0.1},
		{Name: "Alumina", ThermalConductivity: 33, Density: 3750, SpecificHeat: 690, MaxServiceTemp: 1488, YieldStrength: 270, ThermalExpansion: 6e-6, Emissivity: 0.2},
		{Name: "Titanium Ti-6Al-4V", ThermalConductivity: 25, Density: 3930, SpecificHeat: 610, MaxServiceTemp: 505, YieldStrength: 1050, ThermalExpansion: 6.6e-6, Emissivity: 0.63},
		{Name: "Stainless Steel 304", ThermalConductivity: 15.5, Density: 7950, SpecificHeat: 500, MaxServiceTemp: 850, YieldStrength: 264, ThermalExpansion: 17.3e-6, Emissivity: 0.44},
		{Name: "Inconel 718", ThermalConductivity: 12.1, Density: 8230, SpecificHeat: 448, MaxServiceTemp: 632, YieldStrength: 770, ThermalExpansion: 13.0e-6, Emissivity: 0.28},
		{Name: "Beryllium", ThermalConductivity: 208, Density: 1850, SpecificHeat: 1880, MaxServiceTemp: 680, YieldStrength: 247, ThermalExpansion: 11.4e-6, Emissivity: 0.2},
		{Name: "Carbon carbon matrix composite", ThermalConductivity: 40, Density: 1700, SpecificHeat: 756, MaxServiceTemp: 2338, YieldStrength: 500, ThermalExpansion: 4e-6, Emissivity: 0.9},
	} {
		table[m.Name] = m
	}
}

// Lookup returns the properties of the named material.
func Lookup(name string) (model.Material, error) {
	m, ok := table[name]
	if !ok {
		return model.Material{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return m, nil
}

// Names of all materials, sorted.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All materials sorted by name.
func All() []model.Material {
	names := Names()
	res := make([]model.Material, len(names))
	for i, name := range names {
		res[i] = table[name]
	}
	return res
}

// ByServiceTemp materials whose max service temperature lies in [min, max].
// A zero bound is open.
func ByServiceTemp(min, max float64) []model.Material {
	var res []model.Material
	for _, m := range All() {
		if min > 0 && m.MaxServiceTemp < min {
			continue
		}
		if max > 0 && m.MaxServiceTemp > max {
			continue
		}
		res = append(res, m)
	}
	return res
}

// Lightest up to count materials no denser than maxDensity (0 = any), lightest first.
func Lightest(maxDensity float64, count int) []model.Material {
	var res []model.Material
	for _, m := range All() {
		if maxDensity > 0 && m.Density > maxDensity {
			continue
		}
		res = append(res, m)
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Density < res[j].Density
	})
	if count > 0 && len(res) > count {
		res = res[:count]
	}
	return res
}
