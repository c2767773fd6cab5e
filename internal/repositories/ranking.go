package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jihohub/track-list-now/internal/models"
	"github.com/jihohub/track-list-now/internal/shared"
)

// RankingRepository maintains the denormalized per-category reference counts.
//
// Counts are mutated with atomic SQL increments/decrements, never
// read-modify-write in application code, so concurrent reconciliations
// touching the same entity cannot lose updates. Rows whose count reaches
// zero are pruned, not retained.
type RankingRepository struct {
	q Querier
}

// NewRankingRepository creates a new RankingRepository over the given Querier
func NewRankingRepository(q Querier) *RankingRepository {
	return &RankingRepository{q: q}
}

// Increment bumps the count for (entity, category) by one, creating the row
// with count = 1 if absent. The tiebreak metric is overwritten with the
// submitted value either way.
func (r *RankingRepository) Increment(entityID string, category models.Category, metric int) error {
	now := time.Now()
	query := `
		INSERT INTO rankings (id, entity_id, category, count, metric, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?, ?)
		ON CONFLICT (entity_id, category)
		DO UPDATE SET count = count + 1, metric = excluded.metric, updated_at = excluded.updated_at
	`

	_, err := r.q.Exec(query, shared.GenerateID(), entityID, string(category), metric, now, now)
	if err != nil {
		return fmt.Errorf("failed to increment ranking count: %w", err)
	}

	return nil
}

// Decrement lowers the count for (entity, category) by one. A missing row is
// treated as already-zero and is not an error.
func (r *RankingRepository) Decrement(entityID string, category models.Category) error {
	query := `
		UPDATE rankings
		SET count = count - 1, updated_at = ?
		WHERE entity_id = ? AND category = ?
	`

	if _, err := r.q.Exec(query, time.Now(), entityID, string(category)); err != nil {
		return fmt.Errorf("failed to decrement ranking count: %w", err)
	}

	return nil
}

// Prune deletes the (entity, category) row if its count has reached zero or
// below. No zero-count rows persist.
func (r *RankingRepository) Prune(entityID string, category models.Category) error {
	query := `
		DELETE FROM rankings
		WHERE entity_id = ? AND category = ? AND count <= 0
	`

	if _, err := r.q.Exec(query, entityID, string(category)); err != nil {
		return fmt.Errorf("failed to prune ranking row: %w", err)
	}

	return nil
}

// Count returns the current count for (entity, category); zero if no row exists.
func (r *RankingRepository) Count(entityID string, category models.Category) (int, error) {
	var count int
	err := r.q.QueryRow(
		"SELECT count FROM rankings WHERE entity_id = ? AND category = ?",
		entityID, string(category),
	).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query ranking count: %w", err)
	}
	return count, nil
}

// TopN returns at most n ranked entries for one category, joined with the
// matching catalog table. Ordered by count descending, tiebreak metric
// descending, then entity ID ascending for determinism.
func (r *RankingRepository) TopN(category models.Category, n int) ([]models.RankedEntry, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidCategory, category)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", shared.ErrInvalidArgument)
	}

	var query string
	if category.IsArtist() {
		query = `
			SELECT r.entity_id, a.name, a.image_url, '', r.count, r.metric
			FROM rankings r
			JOIN artists a ON a.id = r.entity_id
			WHERE r.category = ?
			ORDER BY r.count DESC, r.metric DESC, r.entity_id ASC
			LIMIT ?
		`
	} else {
		query = `
			SELECT r.entity_id, t.name, t.image_url, t.artists, r.count, r.metric
			FROM rankings r
			JOIN tracks t ON t.id = r.entity_id
			WHERE r.category = ?
			ORDER BY r.count DESC, r.metric DESC, r.entity_id ASC
			LIMIT ?
		`
	}

	rows, err := r.q.Query(query, string(category), n)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking: %w", err)
	}
	defer rows.Close()

	var entries []models.RankedEntry
	for rows.Next() {
		var entry models.RankedEntry
		if err := rows.Scan(&entry.EntityID, &entry.Name, &entry.ImageURL, &entry.Artists, &entry.Count, &entry.Metric); err != nil {
			return nil, fmt.Errorf("failed to scan ranked entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// ZeroCountRows returns how many ranking rows hold a count of zero or below.
// The invariant is that this is always zero outside a transaction.
func (r *RankingRepository) ZeroCountRows() (int, error) {
	var count int
	err := r.q.QueryRow("SELECT COUNT(*) FROM rankings WHERE count <= 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to query zero-count rows: %w", err)
	}
	return count, nil
}
