// Package discovery implements the hierarchical discovery stage (C3):
// walking admin levels from min to max, fanning out over the previous
// level's relations as search areas, and deduplicating child ids into an
// unordered set per level.
package discovery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MeKo-Christian/go-overpass"
	"github.com/DaxServer/geocode-commons-categories/internal/httpclient"
	"github.com/DaxServer/geocode-commons-categories/internal/model"
	"github.com/DaxServer/geocode-commons-categories/internal/overpassql"
)

// overpassQuerier is the slice of go-overpass's Client interface this
// package depends on, narrowed so tests can inject a fake without needing
// to satisfy go-overpass's full (and partly unexported) Client contract.
type overpassQuerier interface {
	QueryContext(ctx context.Context, query string) (overpass.Result, error)
}

// Client queries Overpass for relation ids, one admin level at a time.
//
// Request execution and JSON decoding are delegated to go-overpass's own
// Client, since its Result type is assembled by unexported decode logic
// that this package cannot replicate. The retry schedule is still ours:
// go-overpass is constructed with no retry config of its own and handed an
// *http.Client whose Transport is httpclient's retryTransport, so every
// Overpass request in the pipeline follows the same attempt/delay policy.
type Client struct {
	overpass overpassQuerier
	Logger   *slog.Logger
}

// NewClient builds a discovery Client against the given Overpass endpoint.
func NewClient(endpoint string) *Client {
	httpClient := httpclient.NewRetryHTTPClient(httpclient.DefaultPolicy())
	return &Client{
		overpass: overpass.NewWithSettings(endpoint, 1, httpClient),
		Logger:   slog.Default(),
	}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func relationIDs(result overpass.Result) []int64 {
	ids := make([]int64, 0, len(result.Relations))
	for id := range result.Relations {
		ids = append(ids, id)
	}
	return ids
}

// Discover walks levels [minLevel, maxLevel] for the given ISO3 code and
// returns a map from admin level to the unique relation ids discovered at
// that level (spec.md §4.3).
//
// Levels are processed strictly in ascending order with no parallelism. An
// empty intermediate level is skipped, not aborted: the parent set carries
// forward unchanged to the next level. If no level in the range yields any
// relations at all, the country is not viable and ErrNoRelationsFound is
// returned.
func (c *Client) Discover(ctx context.Context, iso3 string, minLevel, maxLevel int) (map[int][]int64, error) {
	levels := make(map[int][]int64)

	rootQuery := overpassql.CountryRoot(iso3, minLevel)
	rootResult, err := c.overpass.QueryContext(ctx, rootQuery)
	if err != nil {
		return nil, fmt.Errorf("country-root query at level %d: %w", minLevel, err)
	}

	parents := relationIDs(rootResult)
	if len(parents) > 0 {
		levels[minLevel] = parents
	}

	anyViable := len(parents) > 0

	for level := minLevel + 1; level <= maxLevel; level++ {
		if len(parents) == 0 {
			// No parents to fan out from (either the root was empty, or every
			// level since has also been empty). Nothing to probe at this
			// level; the next level will try against the same (empty) set.
			continue
		}

		childSet := make(model.RelationIDSet)
		for _, parentID := range parents {
			childQuery := overpassql.ChildWithinParent(parentID, level)
			childResult, err := c.overpass.QueryContext(ctx, childQuery)
			if err != nil {
				return nil, fmt.Errorf("child query at level %d under parent %d: %w", level, parentID, err)
			}
			for id := range childResult.Relations {
				childSet.Add(id)
			}
		}

		children := childSet.Slice()
		if len(children) == 0 {
			// Level skipped: admin-level numbering is not dense in all
			// countries. Keep probing deeper levels against the same parents.
			c.logger().Debug("admin level yielded no relations", "level", level, "reason", model.ErrEmptyUpstream)
			continue
		}

		levels[level] = children
		parents = children
		anyViable = true
	}

	if !anyViable {
		return nil, fmt.Errorf("%s: %w", iso3, model.ErrNoRelationsFound)
	}

	return levels, nil
}
