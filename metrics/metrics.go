package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"rocket/model"
)

var (
	altitudeGauge = prometheus.NewGauge(prometheus.GaugeOpts{Name: "fin_flight_altitude_meters"})
	velocityGauge = prometheus.NewGauge(prometheus.GaugeOpts{Name: "fin_flight_velocity_mps"})
	machGauge     = prometheus.NewGauge(prometheus.GaugeOpts{Name: "fin_flight_mach"})
	maxTempGauge  = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fin_max_temperature_kelvin",
			Help: "Current maximum fin temperature per material",
		},
		[]string{"material"},
	)
	meanTempGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fin_mean_temperature_kelvin",
			Help: "Current mean fin temperature per material",
		},
		[]string{"material"},
	)
	maxTempEverGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fin_max_temperature_ever_kelvin",
			Help: "Highest fin temperature seen during the run per material",
		},
		[]string{"material"},
	)
	heatFluxGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fin_leading_edge_heat_flux_wpm2",
			Help: "Convective heat flux into the leading edge",
		},
		[]string{"material"},
	)
	stepsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fin_solver_steps_total",
			Help: "Solver steps recorded per material",
		},
		[]string{"material"},
	)
	clampedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fin_atmosphere_clamped_total",
		Help: "Heating evaluations outside the atmosphere table",
	})
	marginGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fin_comparison_margin_kelvin",
			Help: "Service temperature minus peak temperature from the last comparison",
		},
		[]string{"material"},
	)
)

func init() {
	prometheus.MustRegister(
		altitudeGauge, velocityGauge, machGauge,
		maxTempGauge, meanTempGauge, maxTempEverGauge, heatFluxGauge,
		stepsCounter, clampedCounter, marginGauge,
	)
}

// Observer returns a tracker observer publishing every record of material.
func Observer(material string) func(model.TemperatureRecord, model.HeatFluxInfo) {
	return func(rec model.TemperatureRecord, info model.HeatFluxInfo) {
		Send(material, rec, info)
	}
}

func Send(material string, rec model.TemperatureRecord, info model.HeatFluxInfo) {
	altitudeGauge.Set(rec.Flight.Altitude)
	velocityGauge.Set(rec.Flight.Velocity)
	machGauge.Set(info.Mach)
	maxTempGauge.WithLabelValues(material).Set(rec.MaxTemp)
	meanTempGauge.WithLabelValues(material).Set(rec.MeanTemp)
	maxTempEverGauge.WithLabelValues(material).Set(info.MaxTempEver)
	heatFluxGauge.WithLabelValues(material).Set(info.HeatFlux)
	stepsCounter.WithLabelValues(material).Inc()
	if info.Clamped {
		clampedCounter.Inc()
	}
}

// SendComparison publishes the margin of every compared material.
func SendComparison(results []model.ComparisonResult) {
	for _, r := range results {
		if r.Err != "" {
			continue
		}
		marginGauge.WithLabelValues(r.Material).Set(r.Margin)
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
