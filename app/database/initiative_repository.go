package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/poliwatch/tramita/app/legis"
)

var _ InitiativeRepository = (*InitiativeRepo)(nil)

// InitiativeRepo handles database operations for initiatives and their
// derived edges and timeline events.
type InitiativeRepo struct {
	db *DB
}

func NewInitiativeRepository(db *DB) *InitiativeRepo {
	return &InitiativeRepo{db: db}
}

// UpsertInitiative stores the raw record fields. Derived fields (category,
// stage, edges, events) are written separately so a re-run of one stage of
// the pipeline cannot clobber unrelated columns.
func (r *InitiativeRepo) UpsertInitiative(sourceName string, ini *legis.Initiative) error {
	if ini.Expediente == "" {
		return fmt.Errorf("initiative has no expediente")
	}

	_, err := r.db.Exec(`
		INSERT INTO initiatives (
			expediente, source_name, type, subject, author,
			presented_at, qualified_at, legislature, processing_mode,
			status, situation, narrative, committee,
			related_refs, origin_refs, gazette_refs
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (expediente) DO UPDATE SET
			source_name = excluded.source_name,
			type = excluded.type,
			subject = excluded.subject,
			author = excluded.author,
			presented_at = excluded.presented_at,
			qualified_at = excluded.qualified_at,
			legislature = excluded.legislature,
			processing_mode = excluded.processing_mode,
			status = excluded.status,
			situation = excluded.situation,
			narrative = excluded.narrative,
			committee = excluded.committee,
			related_refs = excluded.related_refs,
			origin_refs = excluded.origin_refs,
			gazette_refs = excluded.gazette_refs,
			updated_at = CURRENT_TIMESTAMP
	`, ini.Expediente, sourceName, ini.Type, ini.Subject, ini.Author,
		ini.Presented, ini.Qualified, ini.Legislature, ini.ProcessingMode,
		ini.Status, ini.Situation, ini.Narrative, ini.Committee,
		marshalStrings(ini.RelatedRefs), marshalStrings(ini.OriginRefs), marshalStrings(ini.GazetteRefs))

	if err != nil {
		return fmt.Errorf("failed to upsert initiative: %w", err)
	}
	return nil
}

// ApplyClassification updates only the classification columns, never the raw
// record fields.
func (r *InitiativeRepo) ApplyClassification(expediente string, category legis.Category, result legis.ClassificationResult) error {
	signals, err := json.Marshal(result.Signals)
	if err != nil {
		return fmt.Errorf("failed to marshal signals: %w", err)
	}

	_, err = r.db.Exec(`
		UPDATE initiatives
		SET category = ?, stage = ?, step = ?, signals = ?, updated_at = CURRENT_TIMESTAMP
		WHERE expediente = ?
	`, string(category), string(result.Stage), result.Step, string(signals), expediente)

	if err != nil {
		return fmt.Errorf("failed to apply classification: %w", err)
	}
	return nil
}

func (r *InitiativeRepo) ReplaceEdges(expediente string, edges []legis.RelationshipEdge) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM relationship_edges WHERE from_expediente = ?`, expediente); err != nil {
		return fmt.Errorf("failed to delete old edges: %w", err)
	}

	for _, edge := range edges {
		_, err := tx.Exec(`
			INSERT INTO relationship_edges (from_expediente, to_expediente, kind, label, weight)
			VALUES (?, ?, ?, ?, ?)
		`, edge.From, edge.To, string(edge.Kind), edge.Label, edge.Weight)
		if err != nil {
			return fmt.Errorf("failed to insert edge: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit edges: %w", err)
	}
	return nil
}

func (r *InitiativeRepo) ReplaceEvents(expediente string, events []legis.TimelineEvent) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM timeline_events WHERE expediente = ?`, expediente); err != nil {
		return fmt.Errorf("failed to delete old events: %w", err)
	}

	for i, event := range events {
		_, err := tx.Exec(`
			INSERT INTO timeline_events (expediente, position, label, start_at, end_at, description)
			VALUES (?, ?, ?, ?, ?, ?)
		`, expediente, i, event.Label, event.Start, event.End, event.Description)
		if err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit events: %w", err)
	}
	return nil
}

func (r *InitiativeRepo) MarkPublicationVerified(expediente string) error {
	_, err := r.db.Exec(`
		UPDATE initiatives
		SET gazette_verified = 1, updated_at = CURRENT_TIMESTAMP
		WHERE expediente = ?
	`, expediente)

	if err != nil {
		return fmt.Errorf("failed to mark publication verified: %w", err)
	}
	return nil
}

func (r *InitiativeRepo) UpdateDossierText(expediente, text string) error {
	_, err := r.db.Exec(`
		UPDATE initiatives
		SET dossier_text = ?, dossier_extracted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE expediente = ?
	`, text, expediente)

	if err != nil {
		return fmt.Errorf("failed to update dossier text: %w", err)
	}
	return nil
}

const initiativeColumns = `
	expediente, type, subject, author, presented_at, qualified_at,
	legislature, processing_mode, status, situation, narrative, committee,
	related_refs, origin_refs, gazette_refs, gazette_verified, dossier_text,
	category, stage, step, signals`

func (r *InitiativeRepo) GetInitiative(expediente string) (*legis.Initiative, error) {
	row := r.db.QueryRow(`SELECT `+initiativeColumns+` FROM initiatives WHERE expediente = ?`, expediente)

	ini, err := scanInitiative(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get initiative: %w", err)
	}
	return ini, nil
}

func (r *InitiativeRepo) GetInitiatives(sourceName string) ([]legis.Initiative, error) {
	rows, err := r.db.Query(`
		SELECT `+initiativeColumns+`
		FROM initiatives
		WHERE source_name = ?
		ORDER BY COALESCE(presented_at, created_at) DESC
	`, sourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to get initiatives: %w", err)
	}
	defer rows.Close()

	var initiatives []legis.Initiative
	for rows.Next() {
		ini, err := scanInitiative(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan initiative row: %w", err)
		}
		initiatives = append(initiatives, *ini)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating initiative rows: %w", err)
	}
	return initiatives, nil
}

// GetExpedientesWithoutDossier returns initiatives that have not had dossier
// text extracted yet.
func (r *InitiativeRepo) GetExpedientesWithoutDossier(sourceName string, limit int) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT expediente
		FROM initiatives
		WHERE source_name = ? AND dossier_extracted_at IS NULL
		ORDER BY COALESCE(presented_at, created_at) DESC
		LIMIT ?
	`, sourceName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get expedientes without dossier: %w", err)
	}
	defer rows.Close()

	var expedientes []string
	for rows.Next() {
		var expediente string
		if err := rows.Scan(&expediente); err != nil {
			return nil, fmt.Errorf("failed to scan expediente: %w", err)
		}
		expedientes = append(expedientes, expediente)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expediente rows: %w", err)
	}
	return expedientes, nil
}

func (r *InitiativeRepo) GetInitiativeCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM initiatives").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get initiative count: %w", err)
	}
	return count, nil
}

func (r *InitiativeRepo) GetStageCounts() (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT stage, COUNT(*)
		FROM initiatives
		WHERE stage != ''
		GROUP BY stage
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get stage counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var stage string
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stage count: %w", err)
		}
		counts[stage] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stage counts: %w", err)
	}
	return counts, nil
}

// GetEdges returns the stored edges for an initiative, direct before
// similarity, insertion order otherwise.
func (r *InitiativeRepo) GetEdges(expediente string) ([]legis.RelationshipEdge, error) {
	rows, err := r.db.Query(`
		SELECT from_expediente, to_expediente, kind, label, weight
		FROM relationship_edges
		WHERE from_expediente = ?
		ORDER BY id
	`, expediente)
	if err != nil {
		return nil, fmt.Errorf("failed to get edges: %w", err)
	}
	defer rows.Close()

	var edges []legis.RelationshipEdge
	for rows.Next() {
		var edge legis.RelationshipEdge
		var kind string
		if err := rows.Scan(&edge.From, &edge.To, &kind, &edge.Label, &edge.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan edge row: %w", err)
		}
		edge.Kind = legis.EdgeKind(kind)
		edges = append(edges, edge)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edge rows: %w", err)
	}
	return edges, nil
}

// GetEvents returns the stored timeline for an initiative in pipeline order.
func (r *InitiativeRepo) GetEvents(expediente string) ([]legis.TimelineEvent, error) {
	rows, err := r.db.Query(`
		SELECT label, start_at, end_at, description
		FROM timeline_events
		WHERE expediente = ?
		ORDER BY position
	`, expediente)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []legis.TimelineEvent
	for rows.Next() {
		var event legis.TimelineEvent
		if err := rows.Scan(&event.Label, &event.Start, &event.End, &event.Description); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInitiative(row rowScanner) (*legis.Initiative, error) {
	var ini legis.Initiative
	var relatedRefs, originRefs, gazetteRefs, signals string
	var verified int
	var category, stage string

	err := row.Scan(
		&ini.Expediente, &ini.Type, &ini.Subject, &ini.Author,
		&ini.Presented, &ini.Qualified, &ini.Legislature, &ini.ProcessingMode,
		&ini.Status, &ini.Situation, &ini.Narrative, &ini.Committee,
		&relatedRefs, &originRefs, &gazetteRefs, &verified, &ini.DossierText,
		&category, &stage, &ini.Classification.Step, &signals,
	)
	if err != nil {
		return nil, err
	}

	ini.RelatedRefs = unmarshalStrings(relatedRefs)
	ini.OriginRefs = unmarshalStrings(originRefs)
	ini.GazetteRefs = unmarshalStrings(gazetteRefs)
	ini.GazetteVerified = verified != 0
	ini.Category = legis.Category(category)
	ini.Classification.Stage = legis.Stage(stage)

	if signals != "" {
		// Corrupt signal payloads degrade to nil, they are diagnostic only.
		_ = json.Unmarshal([]byte(signals), &ini.Classification.Signals)
	}

	return &ini, nil
}

func marshalStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func unmarshalStrings(data string) []string {
	if data == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil
	}
	return values
}
