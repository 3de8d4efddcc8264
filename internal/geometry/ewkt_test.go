package geometry

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

func TestEncodePolygon_NoHoles(t *testing.T) {
	outer := orb.Ring{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1), pt(0, 0)}
	got := EncodePolygon(outer, nil)

	if !strings.HasPrefix(got, "SRID=4326;POLYGON((") {
		t.Fatalf("expected SRID-prefixed POLYGON text, got %q", got)
	}
	if strings.Count(got, "(") != 2 {
		t.Errorf("expected exactly one ring (no holes), got %q", got)
	}
}

func TestEncodePolygon_WithHole(t *testing.T) {
	outer := orb.Ring{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10), pt(0, 0)}
	hole := orb.Ring{pt(2, 2), pt(8, 2), pt(8, 8), pt(2, 8), pt(2, 2)}

	got := EncodePolygon(outer, []orb.Ring{hole})
	if strings.Count(got, "(") != 3 {
		t.Errorf("expected outer + one hole ring, got %q", got)
	}
}

func TestEncodeMultiPolygonRings(t *testing.T) {
	a := RingGroup{Outer: orb.Ring{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1), pt(0, 0)}}
	b := RingGroup{Outer: orb.Ring{pt(10, 10), pt(11, 10), pt(11, 11), pt(10, 11), pt(10, 10)}}

	got := EncodeMultiPolygonRings([]RingGroup{a, b})
	if !strings.HasPrefix(got, "SRID=4326;MULTIPOLYGON(") {
		t.Fatalf("expected SRID-prefixed MULTIPOLYGON text, got %q", got)
	}
}
