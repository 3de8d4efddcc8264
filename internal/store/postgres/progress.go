package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DaxServer/geocode-commons-categories/internal/model"
)

// LoadProgress returns the progress record for countryCode, or a zero-value
// pending record if none exists yet.
func (db *DB) LoadProgress(ctx context.Context, countryCode string) (model.ProgressRecord, error) {
	var rec model.ProgressRecord
	query := db.Rebind(`
		SELECT country_code, current_admin_level, status, relations_fetched, errors, started_at, completed_at, last_error
		FROM import_progress WHERE country_code = ?
	`)
	err := db.GetContext(ctx, &rec, query, countryCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ProgressRecord{CountryCode: countryCode, Status: model.StatusPending}, nil
		}
		return model.ProgressRecord{}, fmt.Errorf("load progress for %s: %w", countryCode, err)
	}
	return rec, nil
}

// SaveProgress upserts the full progress record (spec.md §6, "Upsert
// policy ... for progress overwrite everything").
func (db *DB) SaveProgress(ctx context.Context, rec model.ProgressRecord) error {
	query := db.Rebind(`
		INSERT INTO import_progress (country_code, current_admin_level, status, relations_fetched, errors, started_at, completed_at, last_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (country_code) DO UPDATE SET
			current_admin_level = EXCLUDED.current_admin_level,
			status              = EXCLUDED.status,
			relations_fetched   = EXCLUDED.relations_fetched,
			errors              = EXCLUDED.errors,
			started_at          = EXCLUDED.started_at,
			completed_at        = EXCLUDED.completed_at,
			last_error          = EXCLUDED.last_error
	`)
	if _, err := db.ExecContext(ctx, query,
		rec.CountryCode, rec.CurrentAdminLevel, rec.Status, rec.RelationsFetched,
		rec.Errors, rec.StartedAt, rec.CompletedAt, rec.LastError,
	); err != nil {
		return fmt.Errorf("save progress for %s: %w", rec.CountryCode, err)
	}
	return nil
}

// PendingCountries returns every country not yet completed, the candidate
// pool the multi-country orchestrator (C9) draws from (spec.md §4.8: "the
// tracker to skip completed countries").
func (db *DB) PendingCountries(ctx context.Context, catalogue []string) ([]string, error) {
	completed := make(map[string]struct{})
	query := db.Rebind(`SELECT country_code FROM import_progress WHERE status = ?`)
	var rows []string
	if err := db.SelectContext(ctx, &rows, query, model.StatusCompleted); err != nil {
		return nil, fmt.Errorf("select completed countries: %w", err)
	}
	for _, c := range rows {
		completed[c] = struct{}{}
	}

	var pending []string
	for _, iso3 := range catalogue {
		if _, done := completed[iso3]; !done {
			pending = append(pending, iso3)
		}
	}
	return pending, nil
}
