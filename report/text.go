package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"rocket/model"
)

var (
	ErrEmptyHistory = errors.New("empty temperature history")
	ErrShape        = errors.New("field shape does not match grid")
)

// Summary writes the peak temperature context and critical time points of a run.
func Summary(w io.Writer, geom model.FinGeometry, ctx model.MaxTempContext, crit model.CriticalTimePoints) error {
	m := geom.Material
	margin := m.MaxServiceTemp - ctx.Temperature
	status := "WITHIN LIMITS"
	if margin < 0 {
		status = "EXCEEDS LIMIT"
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Material\t%s\n", m.Name)
	fmt.Fprintf(tw, "Fin\t%.1f x %.1f mm, %.1f mm thick, %d fins, %.3f kg total\n",
		geom.Height, geom.Width, geom.Thickness, geom.NumFins, geom.TotalMass())
	fmt.Fprintf(tw, "Peak temperature\t%.1f K at t=%.2f s (step %d, node %d,%d)\n",
		ctx.Temperature, ctx.Time, ctx.Step, ctx.Row, ctx.Col)
	fmt.Fprintf(tw, "Flight at peak\t%.0f m, %.1f m/s, Mach %.2f\n", ctx.Altitude, ctx.Velocity, ctx.Mach)
	fmt.Fprintf(tw, "Service limit\t%.1f K, margin %.1f K, %s\n", m.MaxServiceTemp, margin, status)
	fmt.Fprintf(tw, "Max velocity\t%.1f m/s at t=%.2f s (%.1f K)\n",
		crit.MaxVelocity.Value, crit.MaxVelocity.Time, crit.MaxVelocity.Temperature)
	fmt.Fprintf(tw, "Max altitude\t%.0f m at t=%.2f s (%.1f K)\n",
		crit.MaxAltitude.Value, crit.MaxAltitude.Time, crit.MaxAltitude.Temperature)
	return tw.Flush()
}

// ComparisonTable writes one row per material in the given order.
func ComparisonTable(w io.Writer, results []model.ComparisonResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tMaterial\tPeak (K)\tLimit (K)\tMargin (K)\tOK\tMass (kg)\tFin (mm)\tt peak (s)\tRun (s)")
	for i, r := range results {
		if r.Err != "" {
			fmt.Fprintf(tw, "%d\t%s\t-\t%.0f\t-\tERR\t-\t-\t-\t%.2f\t%s\n",
				i+1, r.Material, r.MaxServiceTemp, r.SimulationSeconds, r.Err)
			continue
		}
		ok := "no"
		if r.WithinLimits {
			ok = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.0f\t%.1f\t%s\t%.3f\t%.0fx%.0f\t%.2f\t%.2f\n",
			i+1, r.Material, r.MaxTemperature, r.MaxServiceTemp, r.Margin, ok,
			r.FinMass, r.FinHeight, r.FinWidth, r.MaxTempTime, r.SimulationSeconds)
	}
	return tw.Flush()
}

// WriteJSON writes v indented to path.
func WriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}
