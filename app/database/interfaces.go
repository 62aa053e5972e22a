package database

import (
	"time"

	"github.com/poliwatch/tramita/app/legis"
)

type SourceRepository interface {
	UpsertSource(name, initiativesURL, lawsURL, legislature string) error
	GetSource(name string) (*Source, error)
	UpdateFetchMetadata(name string, nextFetch time.Time) error
	GetSourceCount() (int, error)
}

type InitiativeRepository interface {
	UpsertInitiative(sourceName string, ini *legis.Initiative) error
	ApplyClassification(expediente string, category legis.Category, result legis.ClassificationResult) error
	ReplaceEdges(expediente string, edges []legis.RelationshipEdge) error
	ReplaceEvents(expediente string, events []legis.TimelineEvent) error
	MarkPublicationVerified(expediente string) error
	UpdateDossierText(expediente, text string) error
	GetInitiative(expediente string) (*legis.Initiative, error)
	GetInitiatives(sourceName string) ([]legis.Initiative, error)
	GetEdges(expediente string) ([]legis.RelationshipEdge, error)
	GetEvents(expediente string) ([]legis.TimelineEvent, error)
	GetExpedientesWithoutDossier(sourceName string, limit int) ([]string, error)
	GetInitiativeCount() (int, error)
	GetStageCounts() (map[string]int, error)
}

type LawRepository interface {
	UpsertLaw(sourceName string, law *legis.ApprovedLaw) error
	GetLaws(sourceName string) ([]legis.ApprovedLaw, error)
	GetLawCount() (int, error)
}

type RunRepository interface {
	StartRun(id, sourceName string, startedAt time.Time) error
	CompleteRun(id string, stats RunStats, runErr string) error
	GetLatestRun(sourceName string) (*IngestRun, error)
}
