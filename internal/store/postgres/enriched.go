package postgres

import (
	"context"
	"fmt"

	"github.com/DaxServer/geocode-commons-categories/internal/model"
)

const upsertEnrichedSQL = `
INSERT INTO enriched_boundaries (wikidata_id, commons_category, admin_level, name, geom)
VALUES ($1, $2, $3, $4, ST_GeomFromEWKT($5))
ON CONFLICT (wikidata_id) DO UPDATE SET
	commons_category = EXCLUDED.commons_category,
	admin_level      = EXCLUDED.admin_level,
	name             = EXCLUDED.name,
	geom             = EXCLUDED.geom
`

// PersistEnriched upserts records in batches of model.DBBatch (spec.md
// §4.7). Per-row failures are captured into the returned ImportStats and
// the same transaction continues (via a savepoint per row, since Postgres
// otherwise aborts the whole transaction on the first statement error); a
// transaction-level failure rolls the whole batch back and processing
// continues with the next batch.
func (db *DB) PersistEnriched(ctx context.Context, records []model.EnrichedBoundary) model.ImportStats {
	var stats model.ImportStats

	for start := 0; start < len(records); start += model.DBBatch {
		end := start + model.DBBatch
		if end > len(records) {
			end = len(records)
		}
		inserted, rowErrors, err := db.persistEnrichedBatch(ctx, records[start:end])
		if err != nil {
			stats.RowErrors = append(stats.RowErrors, model.RowError{
				RecordName: fmt.Sprintf("batch [%d:%d]", start, end),
				Err:        err.Error(),
			})
			continue
		}
		stats.RowsInserted += inserted
		stats.RowErrors = append(stats.RowErrors, rowErrors...)
	}

	return stats
}

func (db *DB) persistEnrichedBatch(ctx context.Context, batch []model.EnrichedBoundary) (int, []model.RowError, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PreparexContext(ctx, db.Rebind(upsertEnrichedSQL))
	if err != nil {
		return 0, nil, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	var rowErrors []model.RowError

	for _, rec := range batch {
		if _, err := tx.ExecContext(ctx, "SAVEPOINT row_sp"); err != nil {
			return 0, nil, fmt.Errorf("savepoint: %w", err)
		}

		_, execErr := stmt.ExecContext(ctx, rec.WikidataID, rec.CommonsCategory, rec.AdminLevel, rec.Name, rec.Geom)
		if execErr != nil {
			rowErrors = append(rowErrors, model.RowError{RecordName: rec.Name, Err: execErr.Error()})
			if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT row_sp"); err != nil {
				return 0, nil, fmt.Errorf("rollback to savepoint: %w", err)
			}
			continue
		}

		if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT row_sp"); err != nil {
			return 0, nil, fmt.Errorf("release savepoint: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("commit transaction: %w", err)
	}
	return inserted, rowErrors, nil
}
