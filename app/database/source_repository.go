package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ SourceRepository = (*SourceRepo)(nil)

// SourceRepo handles database operations for sources.
type SourceRepo struct {
	db *DB
}

func NewSourceRepository(db *DB) *SourceRepo {
	return &SourceRepo{db: db}
}

func (r *SourceRepo) UpsertSource(name, initiativesURL, lawsURL, legislature string) error {
	_, err := r.db.Exec(`
		INSERT INTO sources (name, initiatives_url, laws_url, legislature)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			initiatives_url = excluded.initiatives_url,
			laws_url = excluded.laws_url,
			legislature = excluded.legislature,
			updated_at = CURRENT_TIMESTAMP
	`, name, initiativesURL, lawsURL, legislature)

	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}
	return nil
}

func (r *SourceRepo) GetSource(name string) (*Source, error) {
	var source Source
	err := r.db.QueryRow(`
		SELECT name, initiatives_url, laws_url, legislature,
		       last_fetched_at, next_fetch_at, created_at, updated_at
		FROM sources
		WHERE name = ?
	`, name).Scan(
		&source.Name, &source.InitiativesURL, &source.LawsURL, &source.Legislature,
		&source.LastFetchedAt, &source.NextFetchAt, &source.CreatedAt, &source.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}
	return &source, nil
}

func (r *SourceRepo) UpdateFetchMetadata(name string, nextFetch time.Time) error {
	_, err := r.db.Exec(`
		UPDATE sources
		SET last_fetched_at = CURRENT_TIMESTAMP, next_fetch_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`, nextFetch.UTC(), name)

	if err != nil {
		return fmt.Errorf("failed to update fetch metadata: %w", err)
	}
	return nil
}

func (r *SourceRepo) GetSourceCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sources").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}
