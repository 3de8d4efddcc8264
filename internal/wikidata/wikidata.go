// Package wikidata implements the batch enrichment client (C5): given a set
// of Wikidata Q-ids, resolve each to its Commons category (property P373)
// via the wbgetentities REST endpoint, tolerating partial failure.
//
// Grounded on other_examples' phileasgo wikidata service
// (pkg/wikidata/service.go's fetchMissingMetadata): chunk the id list,
// process chunk by chunk, warn-and-continue on a chunk failure, merge
// results into a single accumulator map.
package wikidata

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/DaxServer/geocode-commons-categories/internal/httpclient"
	"github.com/DaxServer/geocode-commons-categories/internal/model"
)

// Client resolves Wikidata ids to Commons categories.
type Client struct {
	HTTP     *httpclient.Client
	Endpoint string // e.g. https://www.wikidata.org/w/api.php
	Logger   *slog.Logger
	Sleep    func(time.Duration)
}

type entitiesResponse struct {
	Entities map[string]entity `json:"entities"`
}

type entity struct {
	Missing json.RawMessage `json:"missing"`
	Claims  struct {
		P373 []struct {
			Mainsnak struct {
				Datavalue struct {
					Value string `json:"value"`
				} `json:"datavalue"`
			} `json:"mainsnak"`
		} `json:"P373"`
	} `json:"claims"`
}

// NewClient builds a wikidata Client against the given REST endpoint.
func NewClient(endpoint, userAgent string) *Client {
	return &Client{
		HTTP:     httpclient.New(userAgent),
		Endpoint: endpoint,
		Logger:   slog.Default(),
		Sleep:    time.Sleep,
	}
}

// ResolveCategories deduplicates ids (preserving the "Q" prefix end to
// end), resolves them in chunks of model.WikidataBatch with a pacing sleep
// between chunks, and returns a partial id -> Commons category map. A
// whole-chunk failure is logged and contributes nothing to the map; it
// never fails the overall call (spec.md §4.5).
func (c *Client) ResolveCategories(ctx context.Context, ids []string) map[string]string {
	unique := dedup(ids)
	result := make(map[string]string, len(unique))

	for start := 0; start < len(unique); start += model.WikidataBatch {
		end := start + model.WikidataBatch
		if end > len(unique) {
			end = len(unique)
		}
		chunk := unique[start:end]

		categories, err := c.resolveChunk(ctx, chunk)
		if err != nil {
			c.Logger.Warn("wikidata batch failed, continuing with empty result for this batch",
				"batch_start", start, "batch_size", len(chunk), "error", err)
		} else {
			for id, cat := range categories {
				result[id] = cat
			}
		}

		if end < len(unique) {
			c.Sleep(model.WikidataBatchDelay)
		}
	}

	return result
}

func (c *Client) resolveChunk(ctx context.Context, ids []string) (map[string]string, error) {
	query := url.Values{}
	query.Set("action", "wbgetentities")
	query.Set("format", "json")
	query.Set("formatversion", "2")
	query.Set("ids", strings.Join(ids, "|"))
	query.Set("props", "claims")

	var resp entitiesResponse
	if err := c.HTTP.GetQuery(ctx, c.Endpoint, query, &resp); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(ids))
	for id, e := range resp.Entities {
		if len(e.Missing) > 0 {
			continue
		}
		if len(e.Claims.P373) == 0 {
			continue
		}
		value := e.Claims.P373[0].Mainsnak.Datavalue.Value
		if value != "" {
			out[id] = value
		}
	}
	return out, nil
}

func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
