// Package orchestrator composes the per-stage clients (discovery, geometry,
// wikidata, transform, storage, progress) into the end-to-end import
// pipeline (C9), in both single-country and multi-country forms.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DaxServer/geocode-commons-categories/internal/geometry"
	"github.com/DaxServer/geocode-commons-categories/internal/model"
	"github.com/DaxServer/geocode-commons-categories/internal/progress"
	"github.com/DaxServer/geocode-commons-categories/internal/transform"
)

// Discoverer is the C3 contract the orchestrator depends on.
type Discoverer interface {
	Discover(ctx context.Context, iso3 string, minLevel, maxLevel int) (map[int][]int64, error)
}

// GeometryFetcher is the C4 contract.
type GeometryFetcher interface {
	FetchLevel(ctx context.Context, relationIDs []int64) ([]geometry.AssembledRelation, error)
}

// CategoryResolver is the C5 contract.
type CategoryResolver interface {
	ResolveCategories(ctx context.Context, ids []string) map[string]string
}

// Store is the C7/C8 storage contract.
type Store interface {
	UpsertRawRelations(ctx context.Context, rows []model.RawRelation) error
	WikidataIDsForCountry(ctx context.Context, countryCode string) ([]string, error)
	RawRelationsForCountry(ctx context.Context, countryCode string) ([]model.RawRelation, error)
	PersistEnriched(ctx context.Context, records []model.EnrichedBoundary) model.ImportStats
	LoadProgress(ctx context.Context, countryCode string) (model.ProgressRecord, error)
	SaveProgress(ctx context.Context, rec model.ProgressRecord) error
}

// Transformer is the C6 contract.
type Transformer interface {
	Run(raw []model.RawRelation, categories map[string]string) transform.Result
}

// DefaultTransformer adapts the stateless transform.Run function to the
// Transformer interface so Country can depend on an interface like every
// other stage, instead of special-casing C6 as a bare function call.
type DefaultTransformer struct{}

// Run delegates to transform.Run.
func (DefaultTransformer) Run(raw []model.RawRelation, categories map[string]string) transform.Result {
	return transform.Run(raw, categories)
}

// Country wires one country's pipeline dependencies together.
type Country struct {
	Discovery Discoverer
	Geometry  GeometryFetcher
	Wikidata  CategoryResolver
	Transform Transformer
	Store     Store
	Logger    *slog.Logger
	Now       func() time.Time
}

// Run executes the six-stage pipeline for one ISO3 country code end to end
// (spec.md §1, §4). It is idempotent: re-running after a partial failure
// resumes by re-discovering and re-upserting, which the unique-key upsert
// policy makes safe.
func (c *Country) Run(ctx context.Context, iso3 string, minLevel, maxLevel int) (model.ImportStats, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}

	rec, err := c.Store.LoadProgress(ctx, iso3)
	if err != nil {
		return model.ImportStats{}, fmt.Errorf("load progress for %s: %w", iso3, err)
	}
	if progress.IsSkippable(rec) {
		logger.Info("country already completed, skipping", "country", iso3)
		return model.ImportStats{CountryCode: iso3}, nil
	}

	progress.Start(&rec, minLevel, now())
	if err := c.Store.SaveProgress(ctx, rec); err != nil {
		return model.ImportStats{}, fmt.Errorf("save progress start for %s: %w", iso3, err)
	}

	stats := model.ImportStats{CountryCode: iso3, PerLevelCounts: make(map[int]int)}

	levels, err := c.Discovery.Discover(ctx, iso3, minLevel, maxLevel)
	if err != nil {
		progress.Failed(&rec, err)
		_ = c.Store.SaveProgress(ctx, rec)
		return stats, fmt.Errorf("discovery for %s: %w", iso3, err)
	}

	for level := minLevel; level <= maxLevel; level++ {
		ids, ok := levels[level]
		if !ok {
			continue
		}

		assembled, err := c.Geometry.FetchLevel(ctx, ids)
		if err != nil {
			progress.Failed(&rec, err)
			_ = c.Store.SaveProgress(ctx, rec)
			return stats, fmt.Errorf("geometry fetch for %s level %d: %w", iso3, level, err)
		}

		rows := make([]model.RawRelation, len(assembled))
		for i, a := range assembled {
			rows[i] = model.RawRelation{
				RelationID:  a.RelationID,
				CountryCode: iso3,
				AdminLevel:  a.AdminLevel,
				Name:        a.Name,
				WikidataID:  a.WikidataID,
				Geometry:    a.Geometry,
				Tags:        a.Tags,
				FetchedAt:   now(),
			}
		}

		if err := c.Store.UpsertRawRelations(ctx, rows); err != nil {
			progress.Failed(&rec, err)
			_ = c.Store.SaveProgress(ctx, rec)
			return stats, fmt.Errorf("persist raw relations for %s level %d: %w", iso3, level, err)
		}

		stats.RelationsDiscovered += len(ids)
		stats.GeometriesParsed += len(assembled)
		stats.PerLevelCounts[level] = len(assembled)

		progress.LevelCompleted(&rec, level, len(assembled))
		if err := c.Store.SaveProgress(ctx, rec); err != nil {
			return stats, fmt.Errorf("save progress after level %d for %s: %w", level, iso3, err)
		}
	}

	wikidataIDs, err := c.Store.WikidataIDsForCountry(ctx, iso3)
	if err != nil {
		progress.Failed(&rec, err)
		_ = c.Store.SaveProgress(ctx, rec)
		return stats, fmt.Errorf("load wikidata ids for %s: %w", iso3, err)
	}

	categories := c.Wikidata.ResolveCategories(ctx, wikidataIDs)
	stats.WikidataMatches = len(categories)

	raw, err := c.Store.RawRelationsForCountry(ctx, iso3)
	if err != nil {
		progress.Failed(&rec, err)
		_ = c.Store.SaveProgress(ctx, rec)
		return stats, fmt.Errorf("reload raw relations for %s: %w", iso3, err)
	}

	result := c.Transform.Run(raw, categories)
	stats.TransformsAccepted = len(result.Records)
	stats.NullFieldDrops = result.Drops.NullWikidataID
	stats.InvalidGeometryDrops = result.Drops.InvalidGeometry

	persistStats := c.Store.PersistEnriched(ctx, result.Records)
	stats.RowsInserted = persistStats.RowsInserted
	stats.RowErrors = persistStats.RowErrors

	completedAt := now()
	progress.Completed(&rec, completedAt)
	if err := c.Store.SaveProgress(ctx, rec); err != nil {
		return stats, fmt.Errorf("save progress completion for %s: %w", iso3, err)
	}

	logger.Info("country import completed",
		"country", iso3,
		"relations_discovered", stats.RelationsDiscovered,
		"rows_inserted", stats.RowsInserted,
		"row_errors", len(stats.RowErrors),
	)

	return stats, nil
}
