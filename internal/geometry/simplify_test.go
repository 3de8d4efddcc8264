package geometry

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestRemoveCollinear_DropsMidpointOnStraightEdge(t *testing.T) {
	ring := orb.Ring{pt(0, 0), pt(1, 0), pt(2, 0), pt(2, 2), pt(0, 2), pt(0, 0)}
	out := removeCollinear(ring)

	if len(out) != 5 {
		t.Fatalf("expected the collinear point at (1,0) to be removed, got %d points: %v", len(out), out)
	}
	for _, p := range out {
		if p == pt(1, 0) {
			t.Errorf("collinear point (1,0) should have been removed")
		}
	}
}

func TestRemoveCollinear_KeepsSimpleSquare(t *testing.T) {
	ring := orb.Ring{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1), pt(0, 0)}
	out := removeCollinear(ring)
	if len(out) != 5 {
		t.Errorf("expected square to be left unchanged, got %d points: %v", len(out), out)
	}
}

func TestCapPoints_UniformSamplingUnderBound(t *testing.T) {
	ring := make(orb.Ring, 10)
	for i := range ring {
		ring[i] = pt(float64(i), 0)
	}
	ring[len(ring)-1] = ring[0]

	out := capPoints(ring)
	if len(out) != len(ring) {
		t.Errorf("ring under MaxRingPoints should be unchanged")
	}
}

func TestCapPoints_SamplesAndKeepsLastPoint(t *testing.T) {
	n := MaxRingPoints*2 + 7
	ring := make(orb.Ring, n)
	for i := range ring {
		ring[i] = pt(float64(i), 0)
	}
	ring[n-1] = ring[0] // close it

	out := capPoints(ring)
	if len(out) > MaxRingPoints+1 {
		t.Fatalf("expected capped ring to respect MaxRingPoints, got %d points", len(out))
	}
	if out[len(out)-1] != ring[n-1] {
		t.Errorf("expected final point to be preserved, got %v want %v", out[len(out)-1], ring[n-1])
	}
}
