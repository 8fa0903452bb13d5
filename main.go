package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"rocket/comparison"
	"rocket/components"
	"rocket/config"
	"rocket/deque"
	"rocket/metrics"
	"rocket/model"
	"rocket/report"
	"rocket/server"
	"rocket/simulation"
	"rocket/stability"
	"rocket/store"
	"rocket/tracker"
	"rocket/trajectory"
)

var (
	configPath = flag.String("config", config.DefaultPath, "ini configuration file")
	mode       = flag.String("mode", "run", "run | compare | stability | serve | templates")
	material   = flag.String("material", "", "fin material, default from config; compare accepts \"all\"")
	fast       = flag.Bool("fast", false, "use the coarse mesh")
	velocity   = flag.Float64("velocity", 0, "constant-altitude ramp to this velocity instead of the trajectory, m/s")
	duration   = flag.Float64("duration", 60, "ramp duration, s")
	altitude   = flag.Float64("altitude", 0, "ramp altitude, m")
	workers    = flag.Int("workers", 1, "parallel materials in compare mode")
	outDir     = flag.String("out", "", "output directory, default from config")
	noDB       = flag.Bool("nodb", false, "do not store results")
	verbose    = flag.Bool("v", false, "debug logging")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func main() {
	flag.Parse()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *material == "" {
		*material = cfg.Simulation.FinMaterial
	}

	switch *mode {
	case "run":
		err = run(cfg)
	case "compare":
		err = compare(cfg)
	case "stability":
		err = analyzeStability(cfg)
	case "templates":
		var paths []string
		paths, err = components.NewManager(cfg.Rocket.TeamDataDir).WriteTemplates()
		for _, p := range paths {
			fmt.Println(p)
		}
	case "serve":
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
		err = server.NewServer(cfg.Server.Addr, upgrader, cfg).Serve()
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func flight(cfg *config.Config) ([]model.FlightState, error) {
	if *velocity > 0 {
		return simulation.RampFlight(cfg, *velocity, *duration, *altitude)
	}
	res, err := simulation.Flight(cfg)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"apogee":      res.Apogee,
		"apogeeTime":  res.ApogeeTime,
		"maxVelocity": res.MaxVelocity,
		"maxQ":        res.MaxQ,
		"burnout":     res.BurnoutTime,
		"samples":     len(res.Samples),
	}).Info("trajectory computed")
	return res.Samples, nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	if *noDB {
		return nil, nil
	}
	return store.Open(cfg.Output)
}

func run(cfg *config.Config) error {
	states, err := flight(cfg)
	if err != nil {
		return err
	}
	frames := deque.NewArrDeque(cfg.Output.Frames)
	tr, err := simulation.NewTracker(cfg, *material, *fast,
		tracker.WithFrames(frames, cfg.Output.FrameEvery),
		tracker.WithObserver(metrics.Observer(*material)))
	if err != nil {
		return err
	}
	if err := tr.Run(context.Background(), trajectory.NewSource(states), cfg.Simulation.Dt); err != nil {
		return err
	}

	solver := tr.Solver()
	geom := solver.Geometry()
	ctx, _ := tr.MaxTemperatureContext()
	crit, _ := tr.CriticalTimePoints()
	if err := report.Summary(os.Stdout, geom, ctx, crit); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return err
	}
	base := filepath.Join(cfg.Output.Dir, slug(*material))
	history := tr.History()
	if err := report.HistoryPNG(base+"_history.png", *material, history, geom.Material.MaxServiceTemp); err != nil {
		return err
	}
	if peak := solver.PeakField(); peak != nil {
		x, y := solver.Grid()
		frame := model.FieldFrame{Time: ctx.Time, Step: ctx.Step, MaxTemp: ctx.Temperature, T: report.Masked(peak, solver.Mask())}
		if err := report.FieldPNG(base+"_peak_field.png", frame, x, y); err != nil {
			return err
		}
	}
	solver.ClearCaches()

	html, err := os.Create(base + "_report.html")
	if err != nil {
		return err
	}
	defer html.Close()
	if err := report.HTML(html, *material, history, frames.Frames()); err != nil {
		return err
	}
	if err := report.WriteJSON(base+"_history.json", history); err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil || db == nil {
		return err
	}
	defer db.Close()
	id, err := db.SaveRun(*material, history, ctx, crit)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"run": id, "dir": cfg.Output.Dir}).Info("run saved")
	return nil
}

func compare(cfg *config.Config) error {
	arg := *material
	if !isFlagSet("material") {
		arg = "all"
	}
	names, err := simulation.Materials(arg)
	if err != nil {
		return err
	}
	states, err := flight(cfg)
	if err != nil {
		return err
	}
	results, err := comparison.Run(context.Background(), simulation.CompareOptions(cfg, states, names, *fast, *workers))
	if err != nil {
		return err
	}
	metrics.SendComparison(results)
	if err := report.ComparisonTable(os.Stdout, results); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return err
	}
	html, err := os.Create(filepath.Join(cfg.Output.Dir, "comparison.html"))
	if err != nil {
		return err
	}
	defer html.Close()
	if err := report.ComparisonHTML(html, results); err != nil {
		return err
	}
	if err := report.WriteJSON(filepath.Join(cfg.Output.Dir, "comparison.json"), results); err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil || db == nil {
		return err
	}
	defer db.Close()
	id, err := db.SaveComparison(results)
	if err != nil {
		return err
	}
	log.WithField("run", id).Info("comparison saved")
	return nil
}

func analyzeStability(cfg *config.Config) error {
	geom, err := simulation.Fin(cfg, *material)
	if err != nil {
		return err
	}
	m := components.NewManager(cfg.Rocket.TeamDataDir)
	if err := m.Load(); err != nil {
		return err
	}
	m.AddFinMass(geom.MassPerFin, geom.NumFins)
	cs := m.Components()
	totals := components.Sum(cs)
	log.WithFields(log.Fields{
		"components": len(cs),
		"teamData":   m.HasTeamData(),
		"dryMass":    totals.DryMass,
		"propellant": totals.PropellantMass,
	}).Info("components loaded")

	a := stability.New(cfg.Rocket, cfg.Stability, geom, cs)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Propellant (kg)\tCG (m)\tCP (m)\tMargin (m)\tCalibers\tStatus")
	for _, r := range a.Sweep([]float64{1, 0.75, 0.5, 0.25, 0}) {
		fmt.Fprintf(tw, "%.2f\t%.3f\t%.3f\t%.3f\t%.2f\t%s\n",
			r.PropellantMass, r.CenterOfMass, r.CenterOfPressure, r.Margin, r.Calibers, r.Status)
	}
	return tw.Flush()
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func slug(name string) string {
	return strings.ToLower(strings.NewReplacer(" ", "_", "/", "_").Replace(name))
}
