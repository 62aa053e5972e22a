package database

import (
	"time"
)

// Source is a registered open-data source with its fetch scheduling state.
type Source struct {
	Name           string
	InitiativesURL string
	LawsURL        string
	Legislature    string
	LastFetchedAt  *time.Time
	NextFetchAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IngestRun records one full snapshot ingestion for a source. IDs are ULIDs,
// so runs sort chronologically by ID.
type IngestRun struct {
	ID              string
	SourceName      string
	StartedAt       time.Time
	CompletedAt     *time.Time
	InitiativeCount int
	LawCount        int
	EdgeCount       int
	FlowCount       int
	Error           string
}

// RunStats summarises a completed run.
type RunStats struct {
	Initiatives int
	Laws        int
	Edges       int
	Flows       int
}
