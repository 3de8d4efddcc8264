package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

const simplifyTolerance = 1e-7

// MaxRingPoints bounds emitted ring size, keeping oversize rows out of
// storage (spec.md §4.4, "safety simplification").
const MaxRingPoints = 500

// simplifyRing removes collinear interior points via the cross-product
// test, then applies a uniform-sampling cap if the ring still exceeds
// MaxRingPoints. The ring is assumed closed on entry and remains closed
// on exit.
func simplifyRing(ring orb.Ring) orb.Ring {
	ring = removeCollinear(ring)
	ring = capPoints(ring)
	return ring
}

// removeCollinear drops interior points that lie on the straight line
// between their neighbors (cross-product magnitude within tolerance),
// preserving the ring's first/last closure point.
func removeCollinear(ring orb.Ring) orb.Ring {
	if len(ring) < 4 {
		return ring
	}

	body := ring[:len(ring)-1] // interior walk, excluding the closing duplicate
	out := make(orb.Ring, 0, len(body))
	n := len(body)

	for i := 0; i < n; i++ {
		prev := body[(i-1+n)%n]
		cur := body[i]
		next := body[(i+1)%n]
		if i == 0 || !collinear(prev, cur, next) {
			out = append(out, cur)
		}
	}

	if len(out) < 3 {
		// Simplification degenerated the ring too far; keep the original
		// body rather than emit something with < 3 points.
		out = append(orb.Ring{}, body...)
	}

	out = append(out, out[0])
	return out
}

func collinear(a, b, c orb.Point) bool {
	cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
	return abs(cross) <= simplifyTolerance
}

// capPoints keeps every ceil(n/MaxRingPoints)-th point when a ring exceeds
// MaxRingPoints, always preserving the final (closing) point.
func capPoints(ring orb.Ring) orb.Ring {
	n := len(ring)
	if n <= MaxRingPoints {
		return ring
	}

	step := int(math.Ceil(float64(n) / float64(MaxRingPoints)))
	out := make(orb.Ring, 0, MaxRingPoints+1)
	for i := 0; i < n-1; i += step {
		out = append(out, ring[i])
	}
	out = append(out, ring[n-1])
	return out
}
