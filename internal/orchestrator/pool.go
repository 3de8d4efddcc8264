package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DaxServer/geocode-commons-categories/internal/model"
)

// CountryRunner is the single-country contract the multi-country pool
// drives; *Country satisfies it.
type CountryRunner interface {
	Run(ctx context.Context, iso3 string, minLevel, maxLevel int) (model.ImportStats, error)
}

// CountryResult pairs one country's outcome with its code.
type CountryResult struct {
	ISO3  string
	Stats model.ImportStats
	Err   error
}

// Pool runs many countries' pipelines with bounded concurrency, grounded on
// the teacher's worker.Pool (task channel, fixed goroutine count, result
// channel) generalized from tile-render tasks to whole-country pipelines.
type Pool struct {
	Runner      CountryRunner
	Concurrency int
	BatchDelay  time.Duration
	Logger      *slog.Logger
	Sleep       func(time.Duration)
}

// NewPool builds a Pool using the spec's country concurrency and
// inter-batch pacing defaults.
func NewPool(runner CountryRunner, logger *slog.Logger) *Pool {
	return &Pool{
		Runner:      runner,
		Concurrency: model.CountryConcurrency,
		BatchDelay:  model.CountryBatchDelay,
		Logger:      logger,
		Sleep:       time.Sleep,
	}
}

// RunAll processes countries in fixed-size concurrent batches (spec.md
// §4.9: "COUNTRY_BATCH=5 concurrent, independent failure isolation"). Each
// country's failure is captured in its CountryResult and does not prevent
// the remaining countries in its batch, or subsequent batches, from
// running. A paused sleep separates batches to stay polite to the shared
// Overpass/Wikidata endpoints.
func (p *Pool) RunAll(ctx context.Context, countries []string, minLevel, maxLevel int) []CountryResult {
	if len(countries) == 0 {
		return nil
	}

	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var results []CountryResult

	for start := 0; start < len(countries); start += concurrency {
		end := start + concurrency
		if end > len(countries) {
			end = len(countries)
		}
		batch := countries[start:end]

		batchResults := make([]CountryResult, len(batch))
		var wg sync.WaitGroup
		for i, iso3 := range batch {
			wg.Add(1)
			go func(i int, iso3 string) {
				defer wg.Done()
				stats, err := p.Runner.Run(ctx, iso3, minLevel, maxLevel)
				if err != nil {
					logger.Error("country import failed", "country", iso3, "error", err)
				}
				batchResults[i] = CountryResult{ISO3: iso3, Stats: stats, Err: err}
			}(i, iso3)
		}
		wg.Wait()

		results = append(results, batchResults...)

		if end < len(countries) {
			select {
			case <-ctx.Done():
				return results
			default:
				p.Sleep(p.BatchDelay)
			}
		}
	}

	return results
}
