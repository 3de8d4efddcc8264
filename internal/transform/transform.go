// Package transform implements the join/enrich/validate/dedup pipeline
// (C6) that turns raw relation rows plus a Wikidata category map into
// records ready for insertion into the enriched boundaries table.
//
// Grounded on the corpus style of small, pure, sequentially-applied filter
// stages (mirrors the teacher's FetchQueue/worker staging, generalized
// from a channel pipeline to a plain in-memory slice pipeline since C6 runs
// entirely in memory over one country's already-fetched rows).
package transform

import (
	"sort"
	"strings"

	"github.com/DaxServer/geocode-commons-categories/internal/model"
)

// DropCounts tallies why rows were rejected at each stage (spec.md §4.6,
// "Counts of each drop reason are reported").
type DropCounts struct {
	NullWikidataID      int
	NotInCategoryMap    int
	InvalidGeometry     int
	DuplicateWikidataID int
}

// Result is C6's output: accepted records plus the drop tally.
type Result struct {
	Records []model.EnrichedBoundary
	Drops   DropCounts
}

// Run applies the join/enrich/validate/dedup pipeline to raw, using
// categories (wikidata id -> Commons category) from C5.
//
// Run works on a copy of raw that it stable-sorts by admin level ascending
// then name ascending, so dedup's "first occurrence" (spec.md §4.6 step 4)
// is taken in that order; rows equal on both keys keep their input order.
func Run(raw []model.RawRelation, categories map[string]string) Result {
	ordered := make([]model.RawRelation, len(raw))
	copy(ordered, raw)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].AdminLevel != ordered[j].AdminLevel {
			return ordered[i].AdminLevel < ordered[j].AdminLevel
		}
		return ordered[i].Name < ordered[j].Name
	})

	var result Result
	seen := make(map[string]struct{}, len(ordered))

	for _, row := range ordered {
		if row.WikidataID == nil {
			result.Drops.NullWikidataID++
			continue
		}
		wikidataID := *row.WikidataID

		category, ok := categories[wikidataID]
		if !ok {
			result.Drops.NotInCategoryMap++
			continue
		}

		if !isValidGeometry(row.Geometry) {
			result.Drops.InvalidGeometry++
			continue
		}

		if _, dup := seen[wikidataID]; dup {
			result.Drops.DuplicateWikidataID++
			continue
		}
		seen[wikidataID] = struct{}{}

		result.Records = append(result.Records, model.EnrichedBoundary{
			WikidataID:      wikidataID,
			CommonsCategory: category,
			AdminLevel:      row.AdminLevel,
			Name:            row.Name,
			Geom:            row.Geometry,
		})
	}

	return result
}

// isValidGeometry requires the SRID prefix, a recognised polygon/
// multipolygon header, and at least one closed ring with >= 4 points
// (spec.md §4.6 step 3).
func isValidGeometry(geom string) bool {
	const sridPrefix = "SRID=4326;"
	if !strings.HasPrefix(geom, sridPrefix) {
		return false
	}
	body := geom[len(sridPrefix):]

	switch {
	case strings.HasPrefix(body, "POLYGON("):
		return hasClosedRingWithEnoughPoints(body[len("POLYGON("):])
	case strings.HasPrefix(body, "MULTIPOLYGON("):
		return hasClosedRingWithEnoughPoints(body[len("MULTIPOLYGON("):])
	default:
		return false
	}
}

// hasClosedRingWithEnoughPoints locates the innermost "(...)" group in the
// remaining EWKT body — polygon and multipolygon rings are never preceded
// by any points before their own parens, so the first ")" always closes
// the nearest unmatched "(" regardless of how many wrapper parens (a
// multipolygon's per-polygon grouping) sit outside it — and checks it has
// >= 4 comma-separated points with the first equal to the last.
func hasClosedRingWithEnoughPoints(body string) bool {
	closeIdx := strings.Index(body, ")")
	if closeIdx == -1 {
		return false
	}
	openIdx := strings.LastIndex(body[:closeIdx], "(")
	if openIdx == -1 {
		return false
	}
	ring := body[openIdx+1 : closeIdx]

	points := strings.Split(ring, ",")
	if len(points) < 4 {
		return false
	}
	return strings.TrimSpace(points[0]) == strings.TrimSpace(points[len(points)-1])
}
