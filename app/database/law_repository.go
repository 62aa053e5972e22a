package database

import (
	"fmt"

	"github.com/poliwatch/tramita/app/legis"
)

var _ LawRepository = (*LawRepo)(nil)

// LawRepo handles database operations for approved laws.
type LawRepo struct {
	db *DB
}

func NewLawRepository(db *DB) *LawRepo {
	return &LawRepo{db: db}
}

func (r *LawRepo) UpsertLaw(sourceName string, law *legis.ApprovedLaw) error {
	key := law.LawNumber
	if key == "" {
		key = law.Expediente
	}
	if key == "" {
		return fmt.Errorf("law has neither law number nor expediente")
	}

	_, err := r.db.Exec(`
		INSERT INTO laws (
			law_key, source_name, expediente, type, law_number, year,
			title, final_status, published_at, legislature, origin_refs, gazette_refs, category
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (law_key) DO UPDATE SET
			source_name = excluded.source_name,
			expediente = excluded.expediente,
			type = excluded.type,
			law_number = excluded.law_number,
			year = excluded.year,
			title = excluded.title,
			final_status = excluded.final_status,
			published_at = excluded.published_at,
			legislature = excluded.legislature,
			origin_refs = excluded.origin_refs,
			gazette_refs = excluded.gazette_refs,
			category = excluded.category,
			updated_at = CURRENT_TIMESTAMP
	`, key, sourceName, law.Expediente, law.Type, law.LawNumber, law.Year,
		law.Title, law.FinalStatus, law.Published, law.Legislature,
		marshalStrings(law.OriginRefs), marshalStrings(law.GazetteRefs), string(law.Category))

	if err != nil {
		return fmt.Errorf("failed to upsert law: %w", err)
	}
	return nil
}

func (r *LawRepo) GetLaws(sourceName string) ([]legis.ApprovedLaw, error) {
	rows, err := r.db.Query(`
		SELECT expediente, type, law_number, year, title, final_status,
		       published_at, legislature, origin_refs, gazette_refs, category
		FROM laws
		WHERE source_name = ?
		ORDER BY COALESCE(published_at, created_at) DESC
	`, sourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to get laws: %w", err)
	}
	defer rows.Close()

	var laws []legis.ApprovedLaw
	for rows.Next() {
		var law legis.ApprovedLaw
		var originRefs, gazetteRefs, category string
		err := rows.Scan(
			&law.Expediente, &law.Type, &law.LawNumber, &law.Year, &law.Title,
			&law.FinalStatus, &law.Published, &law.Legislature, &originRefs, &gazetteRefs, &category,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan law row: %w", err)
		}
		law.OriginRefs = unmarshalStrings(originRefs)
		law.GazetteRefs = unmarshalStrings(gazetteRefs)
		law.Category = legis.Category(category)
		laws = append(laws, law)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating law rows: %w", err)
	}
	return laws, nil
}

func (r *LawRepo) GetLawCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM laws").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get law count: %w", err)
	}
	return count, nil
}
