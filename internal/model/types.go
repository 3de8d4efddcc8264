package model

import "time"

// RawRelation is one discovered OSM administrative boundary relation for a
// country, before or after its geometry has been fetched and assembled.
type RawRelation struct {
	RelationID  int64             // OSM relation id
	CountryCode string            // ISO3166-1 alpha-3
	AdminLevel  int               // 2-11
	Name        string            // non-empty
	WikidataID  *string           // nullable, pattern Q\d+
	Geometry    string            // EWKT polygon/multipolygon, SRID 4326; empty until C4 runs
	Tags        map[string]string // opaque OSM tags, preserved verbatim
	FetchedAt   time.Time
}

// EnrichedBoundary is the consumer-facing projection persisted by C7.
type EnrichedBoundary struct {
	WikidataID      string // unique
	CommonsCategory string // non-empty
	AdminLevel      int
	Name            string
	Geom            string // EWKT polygon/multipolygon, must be valid
}

// ProgressStatus is the finite set of states a country's import can be in.
type ProgressStatus string

const (
	StatusPending    ProgressStatus = "pending"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
	StatusFailed     ProgressStatus = "failed"
)

// ProgressRecord is the persisted per-country state machine record (C8).
type ProgressRecord struct {
	CountryCode       string         `db:"country_code"`
	CurrentAdminLevel int            `db:"current_admin_level"`
	Status            ProgressStatus `db:"status"`
	RelationsFetched  int64          `db:"relations_fetched"`
	Errors            int64          `db:"errors"`
	StartedAt         time.Time      `db:"started_at"`
	CompletedAt       *time.Time     `db:"completed_at"`
	LastError         *string        `db:"last_error"`
}

// RelationIDSet is the transient per-level output of discovery (C3): a
// deduplicated, unordered set of relation ids belonging to one admin level.
type RelationIDSet map[int64]struct{}

// Add inserts id into the set.
func (s RelationIDSet) Add(id int64) {
	s[id] = struct{}{}
}

// Slice returns the set's members as a slice. Order is unspecified.
func (s RelationIDSet) Slice() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// ImportStats aggregates the per-country summary printed at the end of a run
// (spec.md §7, "operator sees").
type ImportStats struct {
	CountryCode         string
	RelationsDiscovered int
	GeometriesParsed    int
	WikidataMatches     int
	TransformsAccepted  int
	RowsInserted        int
	PerLevelCounts      map[int]int
	NullFieldDrops      int
	InvalidGeometryDrops int
	RowErrors           []RowError
}

// RowError captures a single per-row persistence failure (C7).
type RowError struct {
	RecordName string
	Err        string
}
