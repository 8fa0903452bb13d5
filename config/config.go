package config

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

const DefaultPath = "conf/config.ini"

type Config struct {
	Simulation Simulation
	Mesh       Mesh
	Fin        Fin
	Rocket     Rocket
	Stability  Stability
	Output     Output
	Server     Server
}

type Simulation struct {
	Dt               float64 // s
	AfterTopReached  int     // extra steps after apogee
	MaxTime          float64 // s
	FinMaterial      string
	AmbientTemp      float64 // K
	InstabilityRatio float64 // multiple of the max service temperature
}

type Mesh struct {
	Nx     int
	Ny     int
	FastNx int
	FastNy int
}

type Fin struct {
	TargetHeight   float64 // mm
	ChordRatio     float64
	Thickness      float64 // mm
	MinHeight      float64 // mm
	NormalForce    float64
	SafetyFactor   float64
	PositionOffset float64 // from the tail, m
}

type Rocket struct {
	G           float64
	EarthMass   float64
	EarthRadius float64
	IspSea      float64
	IspVac      float64
	InitialFuel float64 // kg
	DryMass     float64 // kg
	FuelFlow    float64 // kg/s
	Radius      float64 // m
	Cd          float64
	MaxQ        float64 // Pa
	Length      float64 // m
	Diameter    float64 // m
	NoseLength  float64 // m
	TeamDataDir string
}

type Stability struct {
	MinCalibers   float64
	MaxCalibers   float64
	AngleOfAttack float64 // deg
}

type Output struct {
	Dir        string
	DB         string
	Frames     int // field frames kept for animation
	FrameEvery int // steps between frames
}

// DBPath database file, relative names live in Dir.
func (o Output) DBPath() string {
	if filepath.IsAbs(o.DB) {
		return o.DB
	}
	return filepath.Join(o.Dir, o.DB)
}

type Server struct {
	Addr string
}

// Load reads the ini file at path. A missing file is not an error, the defaults are used.
func Load(path string) (*Config, error) {
	file, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg := loadCfg(file)
	log.WithFields(log.Fields{
		"path":     path,
		"material": cfg.Simulation.FinMaterial,
		"dt":       cfg.Simulation.Dt,
		"mesh":     fmt.Sprintf("%dx%d", cfg.Mesh.Nx, cfg.Mesh.Ny),
	}).Debug("config loaded")
	return cfg, nil
}

// Default config without any file.
func Default() *Config {
	return loadCfg(ini.Empty())
}

func loadCfg(file *ini.File) *Config {
	sim := file.Section("simulation")
	mesh := file.Section("mesh")
	fin := file.Section("fin")
	rocket := file.Section("rocket")
	stab := file.Section("stability")
	out := file.Section("output")
	srv := file.Section("server")
	return &Config{
		Simulation: Simulation{
			Dt:               sim.Key("dt").MustFloat64(0.01),
			AfterTopReached:  sim.Key("after_top_reached").MustInt(10000),
			MaxTime:          sim.Key("max_time").MustFloat64(600),
			FinMaterial:      sim.Key("fin_material").MustString("Titanium Ti-6Al-4V"),
			AmbientTemp:      sim.Key("ambient_temp").MustFloat64(288),
			InstabilityRatio: sim.Key("instability_ratio").MustFloat64(10),
		},
		Mesh: Mesh{
			Nx:     mesh.Key("nx").MustInt(20),
			Ny:     mesh.Key("ny").MustInt(20),
			FastNx: mesh.Key("fast_nx").MustInt(12),
			FastNy: mesh.Key("fast_ny").MustInt(12),
		},
		Fin: Fin{
			TargetHeight:   fin.Key("target_height").MustFloat64(50),
			ChordRatio:     fin.Key("chord_ratio").MustFloat64(2),
			Thickness:      fin.Key("thickness").MustFloat64(3),
			MinHeight:      fin.Key("min_height").MustFloat64(20),
			NormalForce:    fin.Key("normal_force").MustFloat64(1.1),
			SafetyFactor:   fin.Key("safety_factor").MustFloat64(1.5),
			PositionOffset: fin.Key("position_offset").MustFloat64(0),
		},
		Rocket: Rocket{
			G:           rocket.Key("G").MustFloat64(6.6743e-11),
			EarthMass:   rocket.Key("earth_mass").MustFloat64(5.972e24),
			EarthRadius: rocket.Key("earth_radius").MustFloat64(6378000),
			IspSea:      rocket.Key("isp_sea").MustFloat64(235),
			IspVac:      rocket.Key("isp_vac").MustFloat64(300),
			InitialFuel: rocket.Key("initial_fuel_mass").MustFloat64(800),
			DryMass:     rocket.Key("dry_mass").MustFloat64(800),
			FuelFlow:    rocket.Key("fuel_flow_rate").MustFloat64(20),
			Radius:      rocket.Key("rocket_radius").MustFloat64(0.175),
			Cd:          rocket.Key("drag_coefficient").MustFloat64(0.5),
			MaxQ:        rocket.Key("max_q").MustFloat64(82800),
			Length:      rocket.Key("length").MustFloat64(2.5),
			Diameter:    rocket.Key("diameter").MustFloat64(0.5),
			NoseLength:  rocket.Key("nose_length").MustFloat64(0.3),
			TeamDataDir: rocket.Key("team_data_dir").MustString("Team_data"),
		},
		Stability: Stability{
			MinCalibers:   stab.Key("min_calibers").MustFloat64(1.5),
			MaxCalibers:   stab.Key("max_calibers").MustFloat64(4.0),
			AngleOfAttack: stab.Key("angle_of_attack").MustFloat64(2),
		},
		Output: Output{
			Dir:        out.Key("dir").MustString("results"),
			DB:         out.Key("db").MustString("fin_thermal.db"),
			Frames:     out.Key("frames").MustInt(120),
			FrameEvery: out.Key("frame_every").MustInt(50),
		},
		Server: Server{
			Addr: srv.Key("addr").MustString(":9000"),
		},
	}
}
