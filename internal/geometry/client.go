package geometry

import (
	"context"
	"fmt"
	"time"

	"github.com/MeKo-Christian/go-overpass"

	"github.com/DaxServer/geocode-commons-categories/internal/httpclient"
	"github.com/DaxServer/geocode-commons-categories/internal/model"
	"github.com/DaxServer/geocode-commons-categories/internal/overpassql"
)

// overpassQuerier mirrors discovery.overpassQuerier: the narrow slice of
// go-overpass's Client this package depends on, so tests can fake it.
type overpassQuerier interface {
	QueryContext(ctx context.Context, query string) (overpass.Result, error)
}

// Client fetches and assembles geometry for relation ids, one batch of
// OverpassGeometryBatch at a time.
type Client struct {
	overpass overpassQuerier
	Sleep    func(time.Duration)
}

// NewClient builds a geometry Client against the given Overpass endpoint.
func NewClient(endpoint string) *Client {
	httpClient := httpclient.NewRetryHTTPClient(httpclient.DefaultPolicy())
	return &Client{
		overpass: overpass.NewWithSettings(endpoint, 1, httpClient),
		Sleep:    time.Sleep,
	}
}

// FetchLevel fetches and assembles geometry for every id in relationIDs,
// batching per model.OverpassGeometryBatch with a pacing sleep between
// batches. A single batch's retry-exhausted failure aborts the whole level:
// the spec forbids persisting a level's relations as complete when any
// batch within it failed (spec.md §4.4, "Batching and pacing").
func (c *Client) FetchLevel(ctx context.Context, relationIDs []int64) ([]AssembledRelation, error) {
	var all []AssembledRelation

	for start := 0; start < len(relationIDs); start += model.OverpassGeometryBatch {
		end := start + model.OverpassGeometryBatch
		if end > len(relationIDs) {
			end = len(relationIDs)
		}
		batch := relationIDs[start:end]

		query := overpassql.Geometry(batch)
		result, err := c.overpass.QueryContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("geometry batch [%d:%d]: %w: %w", start, end, model.ErrLevelAborted, err)
		}

		all = append(all, AssembleRelations(result)...)

		if end < len(relationIDs) {
			c.Sleep(model.GeometryBatchDelay)
		}
	}

	return all, nil
}
