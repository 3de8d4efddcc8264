package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/DaxServer/geocode-commons-categories/internal/model"
	"github.com/DaxServer/geocode-commons-categories/internal/store/postgres/testhelpers"
)

// requireIntegration mirrors the teacher's renderer.requireIntegration:
// these tests need a live Postgres+PostGIS instance and are skipped unless
// explicitly opted into.
func requireIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in -short mode")
	}
	if os.Getenv("GEOCODE_IMPORT_INTEGRATION") != "1" {
		t.Skip("skipping integration test (set GEOCODE_IMPORT_INTEGRATION=1 and GEOCODE_IMPORT_TEST_DSN to enable)")
	}
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("GEOCODE_IMPORT_TEST_DSN")
	if dsn == "" {
		t.Fatal("GEOCODE_IMPORT_TEST_DSN must be set for integration tests")
	}
	sqlxDB, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Fatalf("connect to test database: %v", err)
	}
	if err := testhelpers.ApplySchema(sqlxDB.DB); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { sqlxDB.Close() })
	return NewForTest(sqlxDB, nil)
}

func TestUpsertRawRelations_UpsertsOnConflict(t *testing.T) {
	requireIntegration(t)
	db := openTestDB(t)
	ctx := context.Background()

	wikidataID := "Q1"
	row := model.RawRelation{
		RelationID:  1,
		CountryCode: "BEL",
		AdminLevel:  4,
		Name:        "Flanders",
		WikidataID:  &wikidataID,
		Geometry:    "SRID=4326;POLYGON((0 0,1 0,1 1,0 1,0 0))",
		Tags:        map[string]string{"name": "Flanders"},
		FetchedAt:   time.Now(),
	}

	if err := db.UpsertRawRelations(ctx, []model.RawRelation{row}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	row.Name = "Flanders (updated)"
	if err := db.UpsertRawRelations(ctx, []model.RawRelation{row}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	ids, err := db.WikidataIDsForCountry(ctx, "BEL")
	if err != nil {
		t.Fatalf("query wikidata ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != "Q1" {
		t.Fatalf("expected [Q1], got %v", ids)
	}
}

func TestPersistEnriched_PerRowFailureDoesNotAbortBatch(t *testing.T) {
	requireIntegration(t)
	db := openTestDB(t)
	ctx := context.Background()

	records := []model.EnrichedBoundary{
		{WikidataID: "Q1", CommonsCategory: "Cat 1", AdminLevel: 4, Name: "A", Geom: "SRID=4326;POLYGON((0 0,1 0,1 1,0 1,0 0))"},
		{WikidataID: "Q2", CommonsCategory: "Cat 2", AdminLevel: 4, Name: "B", Geom: "not valid ewkt"},
		{WikidataID: "Q3", CommonsCategory: "Cat 3", AdminLevel: 4, Name: "C", Geom: "SRID=4326;POLYGON((0 0,1 0,1 1,0 1,0 0))"},
	}

	stats := db.PersistEnriched(ctx, records)
	if stats.RowsInserted != 2 {
		t.Fatalf("expected 2 of 3 rows inserted (one has bad geometry), got %d", stats.RowsInserted)
	}
	if len(stats.RowErrors) != 1 {
		t.Fatalf("expected 1 captured row error, got %d: %v", len(stats.RowErrors), stats.RowErrors)
	}
}

func TestProgress_SaveAndLoadRoundtrip(t *testing.T) {
	requireIntegration(t)
	db := openTestDB(t)
	ctx := context.Background()

	rec := model.ProgressRecord{
		CountryCode:       "DEU",
		CurrentAdminLevel: 6,
		Status:            model.StatusInProgress,
		RelationsFetched:  42,
		StartedAt:         time.Now().Truncate(time.Second),
	}
	if err := db.SaveProgress(ctx, rec); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	got, err := db.LoadProgress(ctx, "DEU")
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if got.Status != model.StatusInProgress || got.RelationsFetched != 42 {
		t.Fatalf("unexpected loaded record: %+v", got)
	}
}

func TestLoadProgress_MissingCountryReturnsPending(t *testing.T) {
	requireIntegration(t)
	db := openTestDB(t)

	got, err := db.LoadProgress(context.Background(), "ZZZ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != model.StatusPending {
		t.Fatalf("expected pending for unknown country, got %v", got.Status)
	}
}
