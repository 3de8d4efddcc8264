// Package geometry implements the geometry assembler (C4): merging
// unordered, possibly-reversed OSM way fragments into closed polygon rings,
// pairing inner holes with their outer ring, simplifying, and emitting
// EWKT polygon/multipolygon text.
//
// Grounded on the teacher's convertMultipolygonRelationToFeature, which
// assembles orb.Ring/orb.Polygon/orb.MultiPolygon from relation members —
// generalized here from "every member way is already a complete ring" to
// the full unordered-fragment merge the pipeline's boundary data requires.
package geometry

import "github.com/paulmach/orb"

const coordTolerance = 1e-7

func pointsEqual(a, b orb.Point, tol float64) bool {
	return abs(a[0]-b[0]) <= tol && abs(a[1]-b[1]) <= tol
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// mergeFragments merges unordered, possibly-reversed line fragments into
// closed rings, per spec.md §4.4's ring merging algorithm. Fragments too
// short to contribute to a ring of >= 3 points are dropped.
func mergeFragments(fragments []orb.LineString) []orb.Ring {
	used := make([]bool, len(fragments))
	var rings []orb.Ring

	for seed := range fragments {
		if used[seed] || len(fragments[seed]) == 0 {
			continue
		}
		used[seed] = true
		ring := append(orb.LineString{}, fragments[seed]...)

		for {
			extended := extendTail(&ring, fragments, used)
			if !extended {
				extended = extendHead(&ring, fragments, used)
			}
			if !extended {
				break
			}
		}

		if len(ring) < 3 {
			continue
		}
		if !pointsEqual(ring[0], ring[len(ring)-1], coordTolerance) {
			ring = append(ring, ring[0])
		}
		rings = append(rings, orb.Ring(ring))
	}

	return rings
}

// extendTail looks for an unused fragment whose first or last point matches
// the ring's current tail, appending it (reversed if matched at its own
// tail). Returns whether an extension happened.
func extendTail(ring *orb.LineString, fragments []orb.LineString, used []bool) bool {
	tail := (*ring)[len(*ring)-1]
	for i, frag := range fragments {
		if used[i] || len(frag) == 0 {
			continue
		}
		switch {
		case pointsEqual(tail, frag[0], coordTolerance):
			*ring = append(*ring, frag[1:]...)
			used[i] = true
			return true
		case pointsEqual(tail, frag[len(frag)-1], coordTolerance):
			*ring = append(*ring, reversed(frag)[1:]...)
			used[i] = true
			return true
		}
	}
	return false
}

// extendHead looks for an unused fragment matching the ring's current head,
// prepending it (reversed if matched at its own head).
func extendHead(ring *orb.LineString, fragments []orb.LineString, used []bool) bool {
	head := (*ring)[0]
	for i, frag := range fragments {
		if used[i] || len(frag) == 0 {
			continue
		}
		switch {
		case pointsEqual(head, frag[len(frag)-1], coordTolerance):
			*ring = append(append(orb.LineString{}, frag[:len(frag)-1]...), *ring...)
			used[i] = true
			return true
		case pointsEqual(head, frag[0], coordTolerance):
			rev := reversed(frag)
			*ring = append(append(orb.LineString{}, rev[:len(rev)-1]...), *ring...)
			used[i] = true
			return true
		}
	}
	return false
}

func reversed(line orb.LineString) orb.LineString {
	out := make(orb.LineString, len(line))
	for i, p := range line {
		out[len(line)-1-i] = p
	}
	return out
}
