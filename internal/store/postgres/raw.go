package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DaxServer/geocode-commons-categories/internal/model"
)

const upsertRawRelationSQL = `
INSERT INTO raw_relations (relation_id, country_code, admin_level, name, wikidata_id, geometry, tags, fetched_at)
VALUES ($1, $2, $3, $4, $5, ST_GeomFromEWKT($6), $7::jsonb, $8)
ON CONFLICT (relation_id, country_code) DO UPDATE SET
	admin_level = EXCLUDED.admin_level,
	name        = EXCLUDED.name,
	wikidata_id = EXCLUDED.wikidata_id,
	geometry    = EXCLUDED.geometry,
	tags        = EXCLUDED.tags,
	fetched_at  = EXCLUDED.fetched_at
`

// UpsertRawRelations persists rows in batches of model.DBBatch, one
// transaction per batch (spec.md §4.7). A batch-level failure rolls back
// and is returned to the caller, since raw persistence is the boundary
// that C3/C4's level-abort semantics depend on: a half-persisted level
// must be visible as incomplete, not silently dropped.
func (db *DB) UpsertRawRelations(ctx context.Context, rows []model.RawRelation) error {
	for start := 0; start < len(rows); start += model.DBBatch {
		end := start + model.DBBatch
		if end > len(rows) {
			end = len(rows)
		}
		if err := db.upsertRawBatch(ctx, rows[start:end]); err != nil {
			return fmt.Errorf("raw relations batch [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

func (db *DB) upsertRawBatch(ctx context.Context, batch []model.RawRelation) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PreparexContext(ctx, db.Rebind(upsertRawRelationSQL))
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, row := range batch {
		tags, err := json.Marshal(row.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags for relation %d: %w", row.RelationID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			row.RelationID, row.CountryCode, row.AdminLevel, row.Name,
			row.WikidataID, row.Geometry, tags, row.FetchedAt,
		); err != nil {
			return fmt.Errorf("upsert relation %d: %w", row.RelationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// WikidataIDsForCountry returns the distinct non-null wikidata ids among a
// country's stored raw relations, the input to C5.
func (db *DB) WikidataIDsForCountry(ctx context.Context, countryCode string) ([]string, error) {
	var ids []string
	query := db.Rebind(`SELECT DISTINCT wikidata_id FROM raw_relations WHERE country_code = ? AND wikidata_id IS NOT NULL`)
	if err := db.SelectContext(ctx, &ids, query, countryCode); err != nil {
		return nil, fmt.Errorf("select wikidata ids for %s: %w", countryCode, err)
	}
	return ids, nil
}

// RawRelationsForCountry loads a country's raw relations ordered by admin
// level ascending then name ascending, the ordering C6's dedup depends on.
func (db *DB) RawRelationsForCountry(ctx context.Context, countryCode string) ([]model.RawRelation, error) {
	type row struct {
		RelationID  int64   `db:"relation_id"`
		CountryCode string  `db:"country_code"`
		AdminLevel  int     `db:"admin_level"`
		Name        string  `db:"name"`
		WikidataID  *string `db:"wikidata_id"`
		Geometry    string  `db:"geometry"`
		Tags        []byte  `db:"tags"`
	}

	query := db.Rebind(`
		SELECT relation_id, country_code, admin_level, name, wikidata_id, ST_AsEWKT(geometry) AS geometry, tags
		FROM raw_relations
		WHERE country_code = ?
		ORDER BY admin_level ASC, name ASC
	`)

	var rows []row
	if err := db.SelectContext(ctx, &rows, query, countryCode); err != nil {
		return nil, fmt.Errorf("select raw relations for %s: %w", countryCode, err)
	}

	out := make([]model.RawRelation, len(rows))
	for i, r := range rows {
		var tags map[string]string
		if err := json.Unmarshal(r.Tags, &tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags for relation %d: %w", r.RelationID, err)
		}
		out[i] = model.RawRelation{
			RelationID:  r.RelationID,
			CountryCode: r.CountryCode,
			AdminLevel:  r.AdminLevel,
			Name:        r.Name,
			WikidataID:  r.WikidataID,
			Geometry:    r.Geometry,
			Tags:        tags,
		}
	}
	return out, nil
}
