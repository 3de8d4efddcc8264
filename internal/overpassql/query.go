// Package overpassql builds Overpass QL query text for the three shapes the
// pipeline needs (spec.md §4.2): country-root discovery, child-within-parent
// discovery, and full-geometry fetch for a batch of relation ids.
//
// These are pure string builders, grounded on the teacher's zoom-conditional
// buildWaterQuery/buildRoadsQuery style of assembling an Overpass query by
// concatenating filter clauses — here conditioned on admin level and parent
// relation instead of zoom and bounding box.
package overpassql

import (
	"fmt"
	"strings"

	"github.com/DaxServer/geocode-commons-categories/internal/model"
)

// CountryRoot builds the country-root query: administrative boundaries at
// admin_level=level tagged with the given ISO3 code, ids only.
func CountryRoot(iso3 string, level int) string {
	return fmt.Sprintf(
		`[out:json][timeout:%d];
relation["boundary"="administrative"]["admin_level"="%d"]["ISO3166-1:alpha3"="%s"];
out ids;`,
		model.OverpassTimeoutS, level, iso3,
	)
}

// ChildWithinParent builds a query for administrative boundaries at
// admin_level=level spatially within the area derived from parentRelationID.
func ChildWithinParent(parentRelationID int64, level int) string {
	areaID := model.AreaID(parentRelationID)
	return fmt.Sprintf(
		`[out:json][timeout:%d];
area(%d)->.searchArea;
relation["boundary"="administrative"]["admin_level"="%d"](area.searchArea);
out ids;`,
		model.OverpassTimeoutS, areaID, level,
	)
}

// Geometry builds a query that fetches the listed relations plus every way
// they reference recursively, with full geometry.
func Geometry(relationIDs []int64) string {
	ids := make([]string, len(relationIDs))
	for i, id := range relationIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	idSet := strings.Join(ids, ",")

	return fmt.Sprintf(
		`[out:json][timeout:%d];
(
  relation(id:%s);
  way(r);
);
out geom;`,
		model.OverpassTimeoutS, idSet,
	)
}
