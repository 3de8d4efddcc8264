// Package model holds the shared domain types and constants used across every
// stage of the import pipeline: raw relations, enriched boundaries, progress
// records, and the error taxonomy the orchestrator reasons about.
package model

import "time"

// Retry policy (C1).
const (
	MaxAttempts      = 3
	RetryBaseDelay   = 1000 * time.Millisecond
	RetryMultiplier  = 2
	OverpassTimeoutS = 90
)

// Batch sizes and pacing (C3-C9).
const (
	OverpassGeometryBatch = 100
	GeometryBatchDelay    = 250 * time.Millisecond
	WikidataBatch         = 50
	WikidataBatchDelay    = 100 * time.Millisecond
	DBBatch               = 1000
	CountryConcurrency    = 5
	CountryBatchDelay     = 5000 * time.Millisecond
)

// Geometry assembly constants (C4).
const (
	CoordinateTolerance = 1e-7
	MaxRingPoints       = 500
)

// AreaIDOffset is added to a relation id to derive its Overpass "area id" used
// when that relation is used as a spatial search filter for children.
const AreaIDOffset int64 = 3_600_000_000

// AreaID returns the Overpass area id for a relation id (spec.md §3).
func AreaID(relationID int64) int64 {
	return AreaIDOffset + relationID
}
