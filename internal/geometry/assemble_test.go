package geometry

import (
	"strings"
	"testing"

	"github.com/MeKo-Christian/go-overpass"
)

func wayWithGeom(pts ...[2]float64) *overpass.Way {
	geom := make([]overpass.Point, len(pts))
	for i, p := range pts {
		geom[i] = overpass.Point{Lat: p[1], Lon: p[0]}
	}
	return &overpass.Way{Geometry: geom}
}

func TestAssembleRelations_SkipsRelationWithoutName(t *testing.T) {
	result := overpass.Result{Relations: map[int64]*overpass.Relation{
		1: {Tags: map[string]string{"admin_level": "6"}},
	}}
	out := AssembleRelations(result)
	if len(out) != 0 {
		t.Errorf("expected relation without a name to be skipped, got %d", len(out))
	}
}

func TestAssembleRelations_SkipsRelationWithoutAdminLevel(t *testing.T) {
	result := overpass.Result{Relations: map[int64]*overpass.Relation{
		1: {Tags: map[string]string{"name": "Testville"}},
	}}
	out := AssembleRelations(result)
	if len(out) != 0 {
		t.Errorf("expected relation without admin_level to be skipped, got %d", len(out))
	}
}

func TestAssembleRelations_BuildsPolygonFromMemberWays(t *testing.T) {
	way := wayWithGeom([2]float64{0, 0}, [2]float64{1, 0}, [2]float64{1, 1}, [2]float64{0, 1}, [2]float64{0, 0})
	result := overpass.Result{Relations: map[int64]*overpass.Relation{
		42: {
			Tags: map[string]string{"name": "Testville", "admin_level": "8", "wikidata": "Q123"},
			Members: []overpass.RelationMember{
				{Type: overpass.ElementTypeWay, Role: "", Way: way},
			},
		},
	}}
	result.Relations[42].ID = 42

	out := AssembleRelations(result)
	if len(out) != 1 {
		t.Fatalf("expected 1 assembled relation, got %d", len(out))
	}
	r := out[0]
	if r.Name != "Testville" || r.AdminLevel != 8 {
		t.Errorf("unexpected name/level: %+v", r)
	}
	if r.WikidataID == nil || *r.WikidataID != "Q123" {
		t.Errorf("expected wikidata id Q123, got %v", r.WikidataID)
	}
	if !strings.HasPrefix(r.Geometry, "SRID=4326;POLYGON(") {
		t.Errorf("expected a polygon, got %q", r.Geometry)
	}
}

func TestAssembleRelations_NoUsableGeometryYieldsPlaceholder(t *testing.T) {
	result := overpass.Result{Relations: map[int64]*overpass.Relation{
		1: {Tags: map[string]string{"name": "Nowhere", "admin_level": "6"}},
	}}
	out := AssembleRelations(result)
	if len(out) != 1 {
		t.Fatalf("expected the relation to still be kept with a placeholder geometry")
	}
	if out[0].Geometry != DegeneratePlaceholder {
		t.Errorf("expected degenerate placeholder, got %q", out[0].Geometry)
	}
}
