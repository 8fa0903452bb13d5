package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"rocket/model"
)

// HistoryPNG plots max, mean and sample point temperatures against time.
// A limit > 0 is drawn as a horizontal service temperature line.
func HistoryPNG(path, material string, history []model.TemperatureRecord, limit float64) error {
	if len(history) == 0 {
		return fmt.Errorf("history png: %w", ErrEmptyHistory)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Fin temperature (%s)", material)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Temperature (K)"
	p.Add(plotter.NewGrid())

	series := []interface{}{
		"Max", column(history, func(r model.TemperatureRecord) float64 { return r.MaxTemp }),
		"Mean", column(history, func(r model.TemperatureRecord) float64 { return r.MeanTemp }),
	}
	for i, pt := range history[0].Points {
		i := i
		series = append(series, pt.Name, column(history, func(r model.TemperatureRecord) float64 {
			return r.Points[i].Temperature
		}))
	}
	if err := plotutil.AddLines(p, series...); err != nil {
		return fmt.Errorf("history png: %w", err)
	}

	if limit > 0 {
		l, err := plotter.NewLine(plotter.XYs{
			{X: history[0].Time, Y: limit},
			{X: history[len(history)-1].Time, Y: limit},
		})
		if err != nil {
			return fmt.Errorf("history png: %w", err)
		}
		l.Color = color.RGBA{R: 200, A: 255}
		l.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(l)
		p.Legend.Add("Service limit", l)
	}
	p.Legend.Top = true
	return p.Save(10*vg.Inch, 5*vg.Inch, path)
}

func column(history []model.TemperatureRecord, f func(model.TemperatureRecord) float64) plotter.XYs {
	xys := make(plotter.XYs, len(history))
	for i, r := range history {
		xys[i].X = r.Time
		xys[i].Y = f(r)
	}
	return xys
}

// fieldGrid adapts a masked temperature field to plotter.GridXYZ.
type fieldGrid struct {
	x, y []float64
	t    [][]float64
}

func (g fieldGrid) Dims() (c, r int) { return len(g.x), len(g.y) }
func (g fieldGrid) Z(c, r int) float64 { return g.t[r][c] }
func (g fieldGrid) X(c int) float64 { return g.x[c] * 1e3 }
func (g fieldGrid) Y(r int) float64 { return g.y[r] * 1e3 }

// FieldPNG renders one temperature field as a heat map. x and y are the
// chordwise and spanwise node coordinates in meters; masked nodes are NaN.
func FieldPNG(path string, frame model.FieldFrame, x, y []float64) error {
	if len(frame.T) != len(y) || len(frame.T) == 0 || len(frame.T[0]) != len(x) {
		return fmt.Errorf("field png: %w", ErrShape)
	}
	min, max := math.Inf(1), math.Inf(-1)
	for _, row := range frame.T {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			min, max = math.Min(min, v), math.Max(max, v)
		}
	}
	if max <= min {
		max = min + 1
	}

	pal := moreland.SmoothBlueRed()
	pal.SetMin(min)
	pal.SetMax(max)
	hm := plotter.NewHeatMap(fieldGrid{x: x, y: y, t: frame.T}, pal.Palette(64))
	hm.Min, hm.Max = min, max
	hm.NaN = color.Transparent

	p := plot.New()
	p.Title.Text = fmt.Sprintf("t = %.2f s, max %.1f K", frame.Time, frame.MaxTemp)
	p.X.Label.Text = "Chord (mm)"
	p.Y.Label.Text = "Span (mm)"
	p.Add(hm)
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// Masked copy of t with NaN on nodes outside the fin.
func Masked(t [][]float64, outside [][]bool) [][]float64 {
	res := make([][]float64, len(t))
	for i := range t {
		res[i] = append([]float64(nil), t[i]...)
		for j := range res[i] {
			if i < len(outside) && j < len(outside[i]) && outside[i][j] {
				res[i][j] = math.NaN()
			}
		}
	}
	return res
}
