package components

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	Propellant = "propellant"
	FinSet     = "fins (calculated)"

	FinSetPosition = 2.1 // m from the nose tip
)

// Component one mass item of the rocket, position is its CG from the nose tip.
type Component struct {
	Name        string  `json:"-"`
	Mass        float64 `json:"mass"`     // kg
	Position    float64 `json:"position"` // m
	Description string  `json:"description,omitempty"`
	Team        string  `json:"team,omitempty"`
}

func (c Component) IsPropellant() bool {
	return strings.Contains(strings.ToLower(c.Name), Propellant)
}

func (c Component) isCalculatedFin() bool {
	name := strings.ToLower(c.Name)
	return strings.Contains(name, "fin") && strings.Contains(name, "calculate")
}

// team data files and the team owning each
var teamFiles = []struct {
	file string
	team string
}{
	{"aero_group.json", "aero"},
	{"fuselage_group.json", "fuselage"},
	{"nozzle_group.json", "nozzle"},
}

// Defaults used when no team data is available.
func Defaults() []Component {
	return []Component{
		{Name: "nose_cone", Mass: 0.7, Position: 0.15},
		{Name: "fuselage", Mass: 1.2, Position: 1.2},
		{Name: "nozzle", Mass: 0.6, Position: 2.4},
		{Name: "engine", Mass: 0.8, Position: 2.3},
		{Name: Propellant, Mass: 800, Position: 1.9},
		{Name: "recovery", Mass: 0.4, Position: 0.9},
	}
}

// Manager collects component masses from the team data directory.
type Manager struct {
	dir        string
	components map[string]Component
	finMass    float64 // all fins, kg
	numFins    int
	loaded     int
}

func NewManager(dir string) *Manager {
	return &Manager{dir: dir, components: map[string]Component{}}
}

// Load reads the team files. Missing files are skipped, components with a
// non positive mass or named fin(s) are ignored.
func (m *Manager) Load() error {
	m.components = map[string]Component{}
	m.loaded = 0
	for _, tf := range teamFiles {
		path := filepath.Join(m.dir, tf.file)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		var team map[string]Component
		if err := json.Unmarshal(data, &team); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		for name, c := range team {
			lower := strings.ToLower(name)
			if c.Mass <= 0 || lower == "fins" || lower == "fin" {
				continue
			}
			c.Name, c.Team = name, tf.team
			m.components[name] = c
			m.loaded++
		}
		log.WithFields(log.Fields{"file": tf.file, "team": tf.team}).Info("loaded team component data")
	}
	if m.finMass > 0 {
		m.putFins()
	}
	if m.loaded == 0 {
		log.WithField("dir", m.dir).Warn("no team component data found")
	}
	return nil
}

// HasTeamData reports whether any component came from team files.
func (m *Manager) HasTeamData() bool {
	return m.loaded > 0
}

// AddFinMass registers the sized fin set.
func (m *Manager) AddFinMass(massPerFin float64, numFins int) {
	m.finMass = massPerFin * float64(numFins)
	m.numFins = numFins
	m.putFins()
}

func (m *Manager) putFins() {
	m.components[FinSet] = Component{
		Name:        FinSet,
		Mass:        m.finMass,
		Position:    FinSetPosition,
		Team:        "aero",
		Description: fmt.Sprintf("Calculated mass for %d fins", m.numFins),
	}
}

// Components sorted with propellant first and the calculated fins last.
// Without team data the defaults are used.
func (m *Manager) Components() []Component {
	var res []Component
	if m.loaded == 0 {
		res = Defaults()
		if fins, ok := m.components[FinSet]; ok {
			res = append(res, fins)
		}
	} else {
		for _, c := range m.components {
			res = append(res, c)
		}
	}
	rank := func(c Component) int {
		switch {
		case c.IsPropellant():
			return 0
		case c.isCalculatedFin():
			return 2
		}
		return 1
	}
	sort.Slice(res, func(i, j int) bool {
		ri, rj := rank(res[i]), rank(res[j])
		if ri != rj {
			return ri < rj
		}
		return strings.ToLower(res[i].Name) < strings.ToLower(res[j].Name)
	})
	return res
}

// Totals mass split of a component list.
type Totals struct {
	DryMass        float64
	PropellantMass float64
	FuselageMass   float64
	FuselageCG     float64 // mass weighted
}

func Sum(cs []Component) Totals {
	var t Totals
	var fuselageMoment float64
	for _, c := range cs {
		if c.IsPropellant() {
			t.PropellantMass += c.Mass
			continue
		}
		t.DryMass += c.Mass
		if strings.Contains(strings.ToLower(c.Name), "fuselage") {
			t.FuselageMass += c.Mass
			fuselageMoment += c.Mass * c.Position
		}
	}
	if t.FuselageMass > 0 {
		t.FuselageCG = fuselageMoment / t.FuselageMass
	}
	return t
}

// templates written for the teams to fill in
var templates = map[string]map[string]Component{
	"aero_group.json": {
		"nose cone": {Mass: 3.0, Position: 0.45, Description: "nose cone"},
	},
	"fuselage_group.json": {
		"fuselage_oxi":  {Mass: 182.0, Position: 2.4, Description: "oxidant fuselage"},
		"fuselage_fuel": {Mass: 20.0, Position: 1.2, Description: "fuel fuselage"},
		Propellant:      {Mass: 307.5, Position: 1.9, Description: "propellant from fuel and oxidator together"},
	},
	"nozzle_group.json": {
		"nozzle": {Mass: 0.0, Position: 2.7, Description: "nozzle structure"},
		"engine": {Mass: 4.0, Position: 2.35, Description: "engine with thrust characteristics"},
	},
}

// WriteTemplates creates a template file per team in the data directory.
func (m *Manager) WriteTemplates() ([]string, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", m.dir, err)
	}
	var paths []string
	for _, tf := range teamFiles {
		data, err := json.MarshalIndent(templates[tf.file], "", "    ")
		if err != nil {
			return nil, err
		}
		path := filepath.Join(m.dir, tf.file)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
