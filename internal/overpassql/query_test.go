package overpassql

import (
	"strings"
	"testing"
)

func TestCountryRoot(t *testing.T) {
	q := CountryRoot("BEL", 4)
	for _, want := range []string{
		`[out:json][timeout:90]`,
		`["boundary"="administrative"]`,
		`["admin_level"="4"]`,
		`["ISO3166-1:alpha3"="BEL"]`,
		`out ids;`,
	} {
		if !strings.Contains(q, want) {
			t.Errorf("CountryRoot query missing %q:\n%s", want, q)
		}
	}
}

func TestChildWithinParent(t *testing.T) {
	q := ChildWithinParent(12345, 6)
	if !strings.Contains(q, "area(3600012345)") {
		t.Errorf("expected area id 3600012345, got:\n%s", q)
	}
	if !strings.Contains(q, `["admin_level"="6"]`) {
		t.Errorf("expected admin_level filter, got:\n%s", q)
	}
	if !strings.Contains(q, "out ids;") {
		t.Errorf("expected ids-only output, got:\n%s", q)
	}
}

func TestGeometry(t *testing.T) {
	q := Geometry([]int64{1, 2, 3})
	if !strings.Contains(q, "relation(id:1,2,3)") {
		t.Errorf("expected relation id list, got:\n%s", q)
	}
	if !strings.Contains(q, "way(r);") {
		t.Errorf("expected recursive way selection, got:\n%s", q)
	}
	if !strings.Contains(q, "out geom;") {
		t.Errorf("expected full geometry output, got:\n%s", q)
	}
}
