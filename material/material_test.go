package material

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	m, err := Lookup("Titanium Ti-6Al-4V")
	if err != nil {
		t.Fatal(err)
	}
	if m.ThermalConductivity != 25 || m.Density != 3930 || m.SpecificHeat != 610 {
		t.Errorf("unexpected titanium properties %+v", m)
	}
	if d := m.ThermalDiffusivity(); d < 1.04e-5 || d > 1.05e-5 {
		t.Errorf("diffusivity = %v", d)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("Unobtainium")
	if !errors.Is(err, ErrUnknownMaterial) {
		t.Fatalf("err = %v", err)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 7 {
		t.Fatalf("got %d materials", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}

func TestByServiceTemp(t *testing.T) {
	for _, m := range ByServiceTemp(600, 900) {
		if m.MaxServiceTemp < 600 || m.MaxServiceTemp > 900 {
			t.Errorf("%s out of range: %v", m.Name, m.MaxServiceTemp)
		}
	}
	if got := len(ByServiceTemp(0, 0)); got != 7 {
		t.Errorf("open range returned %d", got)
	}
	if got := len(ByServiceTemp(2000, 0)); got != 1 {
		t.Errorf("above 2000 K returned %d", got)
	}
}

func TestLightest(t *testing.T) {
	res := Lightest(4000, 3)
	if len(res) != 3 {
		t.Fatalf("got %d", len(res))
	}
	if res[0].Name != "Carbon carbon matrix composite" || res[1].Name != "Beryllium" {
		t.Errorf("order = %s, %s", res[0].Name, res[1].Name)
	}
	for _, m := range res {
		if m.Density > 4000 {
			t.Errorf("%s too dense", m.Name)
		}
	}
}
