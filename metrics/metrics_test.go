package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"rocket/model"
)

func TestObserverPublishesRecord(t *testing.T) {
	obs := Observer("Beryllium")
	rec := model.TemperatureRecord{
		MaxTemp:  412.5,
		MeanTemp: 350,
		Flight:   model.FlightState{Altitude: 3000, Velocity: 680},
	}
	info := model.HeatFluxInfo{Mach: 2.07, HeatFlux: 1.2e4, MaxTempEver: 420, Clamped: true}

	before := testutil.ToFloat64(stepsCounter.WithLabelValues("Beryllium"))
	clamped := testutil.ToFloat64(clampedCounter)
	obs(rec, info)

	if got := testutil.ToFloat64(maxTempGauge.WithLabelValues("Beryllium")); got != 412.5 {
		t.Errorf("max temp gauge = %v", got)
	}
	if got := testutil.ToFloat64(maxTempEverGauge.WithLabelValues("Beryllium")); got != 420 {
		t.Errorf("max temp ever gauge = %v", got)
	}
	if got := testutil.ToFloat64(velocityGauge); got != 680 {
		t.Errorf("velocity gauge = %v", got)
	}
	if got := testutil.ToFloat64(stepsCounter.WithLabelValues("Beryllium")); got != before+1 {
		t.Errorf("steps = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(clampedCounter); got != clamped+1 {
		t.Errorf("clamped = %v, want %v", got, clamped+1)
	}
}

func TestSendComparisonSkipsFailures(t *testing.T) {
	SendComparison([]model.ComparisonResult{
		{Material: "Inconel 718", Margin: 120},
		{Material: "Alumina", Margin: 999, Err: "fin undersized"},
	})
	if got := testutil.ToFloat64(marginGauge.WithLabelValues("Inconel 718")); got != 120 {
		t.Errorf("margin = %v", got)
	}
	if n := testutil.CollectAndCount(marginGauge); n != 1 {
		t.Errorf("margin series = %d, want 1", n)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	Send("Titanium Ti-6Al-4V", model.TemperatureRecord{MaxTemp: 300}, model.HeatFluxInfo{})
	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rr.Body.String(), "fin_max_temperature_kelvin") {
		t.Error("max temperature gauge not exposed")
	}
}
