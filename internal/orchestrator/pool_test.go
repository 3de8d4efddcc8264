package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DaxServer/geocode-commons-categories/internal/model"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (f *fakeRunner) Run(ctx context.Context, iso3 string, minLevel, maxLevel int) (model.ImportStats, error) {
	f.mu.Lock()
	f.calls = append(f.calls, iso3)
	f.mu.Unlock()
	if f.fail[iso3] {
		return model.ImportStats{CountryCode: iso3}, errors.New("boom")
	}
	return model.ImportStats{CountryCode: iso3}, nil
}

func TestPool_RunAll_ProcessesEveryCountry(t *testing.T) {
	runner := &fakeRunner{fail: map[string]bool{}}
	pool := &Pool{Runner: runner, Concurrency: 2, BatchDelay: 0, Sleep: func(time.Duration) {}}

	results := pool.RunAll(context.Background(), []string{"BEL", "DEU", "FRA"}, 2, 11)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
}

func TestPool_RunAll_IsolatesFailures(t *testing.T) {
	runner := &fakeRunner{fail: map[string]bool{"DEU": true}}
	pool := &Pool{Runner: runner, Concurrency: 2, BatchDelay: 0, Sleep: func(time.Duration) {}}

	results := pool.RunAll(context.Background(), []string{"BEL", "DEU", "FRA"}, 2, 11)
	var failed, ok int
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			ok++
		}
	}
	if failed != 1 || ok != 2 {
		t.Errorf("expected 1 failure and 2 successes, got failed=%d ok=%d", failed, ok)
	}
}

func TestPool_RunAll_SleepsBetweenBatches(t *testing.T) {
	runner := &fakeRunner{fail: map[string]bool{}}
	var sleeps int
	pool := &Pool{
		Runner:      runner,
		Concurrency: 1,
		BatchDelay:  time.Millisecond,
		Sleep:       func(time.Duration) { sleeps++ },
	}

	pool.RunAll(context.Background(), []string{"BEL", "DEU"}, 2, 11)
	if sleeps != 1 {
		t.Errorf("expected exactly 1 inter-batch sleep for 2 countries at concurrency 1, got %d", sleeps)
	}
}

func TestPool_RunAll_EmptyInputReturnsNil(t *testing.T) {
	pool := &Pool{Runner: &fakeRunner{fail: map[string]bool{}}}
	if got := pool.RunAll(context.Background(), nil, 2, 11); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}
