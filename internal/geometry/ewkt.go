package geometry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// SRID is the spatial reference every emitted geometry is prefixed with
// (spec.md §4.4, "Emission format").
const SRID = 4326

// DegeneratePlaceholder is persisted for a relation whose geometry could
// not be assembled at all, so the raw row still exists and a later
// validity check (C6) can reject it explicitly rather than the row simply
// being absent (spec.md §4.4, "A row with an entirely invalid or empty
// geometry is recorded but persisted with a placeholder degenerate
// polygon").
// The empty ring deliberately has fewer than 4 points, so C6's validity
// check (which requires a closed ring with >= 4 points) rejects it.
const DegeneratePlaceholder = "SRID=4326;POLYGON(())"

// EncodePolygon renders a single polygon (outer ring plus holes) as EWKT.
func EncodePolygon(outer orb.Ring, holes []orb.Ring) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("SRID=%d;POLYGON(", SRID))
	writeRing(&b, outer)
	for _, hole := range holes {
		b.WriteByte(',')
		writeRing(&b, hole)
	}
	b.WriteByte(')')
	return b.String()
}

// RingGroup is one outer ring plus its paired holes, the unit a
// multipolygon is built from.
type RingGroup struct {
	Outer orb.Ring
	Holes []orb.Ring
}

// EncodeMultiPolygonRings renders a set of outer+hole groups as EWKT
// MULTIPOLYGON text.
func EncodeMultiPolygonRings(groups []RingGroup) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("SRID=%d;MULTIPOLYGON(", SRID))
	for i, g := range groups {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		writeRing(&b, g.Outer)
		for _, hole := range g.Holes {
			b.WriteByte(',')
			writeRing(&b, hole)
		}
		b.WriteByte(')')
	}
	b.WriteByte(')')
	return b.String()
}

func writeRing(b *strings.Builder, ring orb.Ring) {
	b.WriteByte('(')
	for i, p := range ring {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatCoord(p[0]))
		b.WriteByte(' ')
		b.WriteString(formatCoord(p[1]))
	}
	b.WriteByte(')')
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
