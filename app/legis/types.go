package legis

import (
	"time"
)

// Record types produced by the open-data parser and enriched by the pipeline.

// Initiative is one parliamentary record from the Congreso open-data feed.
// Expediente is the natural key; a record without one can still be classified
// but is not valid for persistence.
type Initiative struct {
	Expediente  string
	Type        string // free-text category from the source, e.g. "Proposición de Ley"
	Subject     string // "objeto" free text
	Author      string // proposer: government, parliamentary group, regional body...
	Presented   *time.Time
	Qualified   *time.Time
	Legislature string

	ProcessingMode string // "tipo de tramitación", e.g. "urgente"
	Status         string // "resultado de la tramitación"
	Situation      string // "situación actual"
	Narrative      string // "tramitación seguida" free text
	Committee      string // "comisión competente"

	RelatedRefs []string // expediente tokens of related initiatives
	OriginRefs  []string // expediente tokens of originating initiatives
	GazetteRefs []string // BOE/BOCG links or identifiers attached to the record

	// GazetteVerified is set when a gazette reference has been confirmed
	// against the official gazette feed, not inferred from text.
	GazetteVerified bool

	// DossierText is readable text extracted from the initiative's official
	// dossier page; it supplements Narrative during timeline extraction.
	DossierText string

	// Derived fields, computed once per ingestion run.
	Category       Category
	Classification ClassificationResult
	Events         []TimelineEvent
	Edges          []RelationshipEdge
}

// ApprovedLaw is a record for an initiative that completed the full process
// and was enacted.
type ApprovedLaw struct {
	Expediente  string
	Type        string
	LawNumber   string
	Year        int
	Title       string
	FinalStatus string
	Published   *time.Time
	Legislature string
	OriginRefs  []string
	GazetteRefs []string

	// Category is derived once per ingestion run, like the initiative fields.
	Category Category
}

// TimelineEvent is one dated procedural milestone extracted from narrative text.
type TimelineEvent struct {
	Label       string
	Start       *time.Time
	End         *time.Time
	Description string
}

// EdgeKind distinguishes source-stated relations from inferred ones.
type EdgeKind string

const (
	EdgeDirect     EdgeKind = "direct"
	EdgeSimilarity EdgeKind = "similarity"
)

// RelationshipEdge is a directed edge from one initiative to another.
// Weight is 1.0 for direct edges and the similarity score otherwise.
type RelationshipEdge struct {
	From   string
	To     string
	Kind   EdgeKind
	Label  string
	Weight float64
}

// Flow is one unified timeline per legislative item: either an approved law
// merged with its originating initiative, or a standalone initiative.
type Flow struct {
	Key        string
	Initiative *Initiative
	Law        *ApprovedLaw
	// FinalStatus is set for flows keyed by a law; Stage for standalone ones.
	FinalStatus string
	Stage       Stage
	Events      []TimelineEvent
}

// RunResult is the output of one full pipeline run over a feed snapshot.
type RunResult struct {
	Initiatives []Initiative
	Laws        []ApprovedLaw
	Flows       []Flow
}
