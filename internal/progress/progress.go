// Package progress implements the per-country progress tracker's state
// machine (C8): pending -> in_progress -> completed | failed.
//
// Grounded on the teacher's worker.Progress (rate/ETA/summary formatting
// style); generalized here from a single in-memory run's progress bar to a
// persisted, resumable finite state machine per spec.md §4.8's transition
// table.
package progress

import (
	"fmt"
	"time"

	"github.com/DaxServer/geocode-commons-categories/internal/model"
)

// Start transitions a record to in_progress, clearing counters and
// completion time (spec.md §4.8, "import start").
func Start(rec *model.ProgressRecord, minLevel int, now time.Time) {
	rec.Status = model.StatusInProgress
	rec.StartedAt = now
	rec.CompletedAt = nil
	rec.CurrentAdminLevel = minLevel
	rec.RelationsFetched = 0
	rec.Errors = 0
	rec.LastError = nil
}

// LevelCompleted records that one admin level finished, advancing the
// current level and accumulating the relation count (spec.md §4.8, "level
// completed").
func LevelCompleted(rec *model.ProgressRecord, level int, relationsFetched int) {
	rec.CurrentAdminLevel = level
	rec.RelationsFetched += int64(relationsFetched)
}

// Completed transitions a record to completed (spec.md §4.8, "all levels
// done").
func Completed(rec *model.ProgressRecord, now time.Time) {
	rec.Status = model.StatusCompleted
	rec.CompletedAt = &now
}

// Failed transitions a record to failed, recording the error (spec.md
// §4.8, "unrecoverable error").
func Failed(rec *model.ProgressRecord, err error) {
	rec.Status = model.StatusFailed
	rec.Errors++
	msg := err.Error()
	rec.LastError = &msg
}

// IsSkippable reports whether rec's country should be skipped by the
// multi-country orchestrator (spec.md §4.9: only completed countries are
// skipped; pending, in_progress, and failed are all retried).
func IsSkippable(rec model.ProgressRecord) bool {
	return rec.Status == model.StatusCompleted
}

// Summary formats a one-line human-readable status, grounded on the
// teacher's worker.Progress summary string style.
func Summary(rec model.ProgressRecord) string {
	switch rec.Status {
	case model.StatusCompleted:
		return fmt.Sprintf("%s: completed, %d relations fetched", rec.CountryCode, rec.RelationsFetched)
	case model.StatusFailed:
		errMsg := ""
		if rec.LastError != nil {
			errMsg = *rec.LastError
		}
		return fmt.Sprintf("%s: failed at level %d (%s)", rec.CountryCode, rec.CurrentAdminLevel, errMsg)
	case model.StatusInProgress:
		return fmt.Sprintf("%s: in progress, level %d, %d relations so far", rec.CountryCode, rec.CurrentAdminLevel, rec.RelationsFetched)
	default:
		return fmt.Sprintf("%s: pending", rec.CountryCode)
	}
}
