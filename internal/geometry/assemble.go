package geometry

import (
	"log/slog"

	"github.com/MeKo-Christian/go-overpass"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// AssembledRelation is one relation's parsed output: ready to become a
// model.RawRelation once the caller attaches country code and fetch time.
type AssembledRelation struct {
	RelationID int64
	Name       string
	AdminLevel int
	WikidataID *string
	Tags       map[string]string
	Geometry   string // EWKT, always non-empty (placeholder on failure)
}

// AssembleRelations parses every relation in result into an
// AssembledRelation, skipping relations with no name or admin_level tag
// entirely (spec.md §4.4, "Relations skipped").
func AssembleRelations(result overpass.Result) []AssembledRelation {
	out := make([]AssembledRelation, 0, len(result.Relations))
	for _, rel := range result.Relations {
		if rel == nil {
			continue
		}
		name, hasName := rel.Tags["name"]
		if !hasName || name == "" {
			continue
		}
		adminLevel, ok := parseAdminLevel(rel.Tags["admin_level"])
		if !ok {
			continue
		}

		out = append(out, AssembledRelation{
			RelationID: rel.ID,
			Name:       name,
			AdminLevel: adminLevel,
			WikidataID: wikidataID(rel.Tags),
			Tags:       rel.Tags,
			Geometry:   assembleGeometry(rel),
		})
	}
	return out
}

func wikidataID(tags map[string]string) *string {
	if id, ok := tags["wikidata"]; ok && id != "" {
		return &id
	}
	return nil
}

func parseAdminLevel(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	n := 0
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// assembleGeometry runs the full ring-merge/pair/simplify/emit pipeline for
// one relation, falling back to DegeneratePlaceholder when no usable outer
// ring can be built.
func assembleGeometry(rel *overpass.Relation) string {
	var outerFragments, innerFragments []orb.LineString

	for _, member := range rel.Members {
		if member.Type != overpass.ElementTypeWay || member.Way == nil || len(member.Way.Geometry) == 0 {
			continue
		}
		line := make(orb.LineString, len(member.Way.Geometry))
		for i, pt := range member.Way.Geometry {
			line[i] = orb.Point{pt.Lon, pt.Lat}
		}

		// Role "" is treated as outer (spec.md §4.4).
		if member.Role == "inner" {
			innerFragments = append(innerFragments, line)
		} else {
			outerFragments = append(outerFragments, line)
		}
	}

	outerRings := mergeFragments(outerFragments)
	if len(outerRings) == 0 {
		return DegeneratePlaceholder
	}
	innerRings := mergeFragments(innerFragments)

	groups := pairHoles(outerRings, innerRings)
	for i := range groups {
		groups[i].Outer = simplifyRing(groups[i].Outer)
		for j := range groups[i].Holes {
			groups[i].Holes[j] = simplifyRing(groups[i].Holes[j])
		}
	}

	if len(groups) == 1 {
		return EncodePolygon(groups[0].Outer, groups[0].Holes)
	}
	return EncodeMultiPolygonRings(groups)
}

// pairHoles attaches each inner ring to the first outer ring (in iteration
// order) whose area contains the inner ring's first point, per spec.md
// §4.4's point-in-polygon pairing and nested-outer tie-break rule. Inner
// rings matching no outer are dropped with a warning.
func pairHoles(outers, inners []orb.Ring) []RingGroup {
	groups := make([]RingGroup, len(outers))
	for i, outer := range outers {
		groups[i].Outer = outer
	}

	for _, inner := range inners {
		if len(inner) == 0 {
			continue
		}
		probe := inner[0]
		matched := false
		for i, outer := range outers {
			if planar.RingContains(outer, probe) {
				groups[i].Holes = append(groups[i].Holes, inner)
				matched = true
				break
			}
		}
		if !matched {
			slog.Warn("inner ring lies in no outer ring, dropping it", "first_point", probe)
		}
	}

	return groups
}
