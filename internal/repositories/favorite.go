package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jihohub/track-list-now/internal/models"
	"github.com/jihohub/track-list-now/internal/shared"
)

// FavoriteRepository implements models.Repository[*models.FavoriteEntry] for user favorites.
//
// Link/Unlink carry the reconciler's semantics: duplicate links are absorbed
// by the unique constraint, unlinking an absent row is a no-op.
type FavoriteRepository struct {
	q Querier
}

// NewFavoriteRepository creates a new FavoriteRepository over the given Querier
func NewFavoriteRepository(q Querier) *FavoriteRepository {
	return &FavoriteRepository{q: q}
}

// Create inserts a new [models.FavoriteEntry] into the database with a generated ID
func (r *FavoriteRepository) Create(entry *models.FavoriteEntry) error {
	id := shared.GenerateID()
	entry.SetID(id)

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO user_favorites (id, user_id, entity_id, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.q.Exec(query,
		id,
		entry.UserID(),
		entry.EntityID(),
		string(entry.Category()),
		entry.CreatedAt(),
		entry.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}

	return nil
}

// Link inserts the favorite if the (user, entity, category) triple is not
// linked yet. A concurrent duplicate insert loses silently against the
// unique constraint. Returns whether a row was actually inserted, so the
// caller can keep ranking counts in step with live links.
func (r *FavoriteRepository) Link(entry *models.FavoriteEntry) (bool, error) {
	id := shared.GenerateID()
	entry.SetID(id)

	if err := entry.Validate(); err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT OR IGNORE INTO user_favorites (id, user_id, entity_id, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.q.Exec(query,
		id,
		entry.UserID(),
		entry.EntityID(),
		string(entry.Category()),
		entry.CreatedAt(),
		entry.UpdatedAt(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to link favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

// Unlink deletes the favorite link for the (user, entity, category) triple.
// Returns the number of rows removed; an absent link is not an error.
func (r *FavoriteRepository) Unlink(userID, entityID string, category models.Category) (int64, error) {
	query := `
		DELETE FROM user_favorites
		WHERE user_id = ? AND entity_id = ? AND category = ?
	`

	result, err := r.q.Exec(query, userID, entityID, string(category))
	if err != nil {
		return 0, fmt.Errorf("failed to unlink favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

// Get retrieves a favorite entry by row ID
func (r *FavoriteRepository) Get(id string) (*models.FavoriteEntry, error) {
	query := `
		SELECT id, user_id, entity_id, category, created_at, updated_at
		FROM user_favorites
		WHERE id = ?
	`

	return r.scanOne(r.q.QueryRow(query, id))
}

// Update is not supported: a favorite link is immutable, it is created and deleted.
func (r *FavoriteRepository) Update(entry *models.FavoriteEntry) error {
	return fmt.Errorf("favorite entries are immutable: %w", shared.ErrNotImplemented)
}

// Delete removes a favorite entry by row ID
func (r *FavoriteRepository) Delete(id string) error {
	result, err := r.q.Exec("DELETE FROM user_favorites WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("favorite not found: %s", id)
	}

	return nil
}

// List retrieves all favorite entries matching the given criteria
func (r *FavoriteRepository) List(criteria map[string]any) ([]*models.FavoriteEntry, error) {
	query := `
		SELECT id, user_id, entity_id, category, created_at, updated_at
		FROM user_favorites
		WHERE 1 = 1
	`

	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	if category, ok := criteria["category"].(string); ok && category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}

	if entityID, ok := criteria["entity_id"].(string); ok && entityID != "" {
		query += " AND entity_id = ?"
		args = append(args, entityID)
	}

	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var entries []*models.FavoriteEntry
	for rows.Next() {
		entry, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// ListEntityIDs returns the catalog entity IDs of one user's favorites in one
// category, in insertion order. This is the "existing" set the reconciler
// diffs a submission against.
func (r *FavoriteRepository) ListEntityIDs(userID string, category models.Category) ([]string, error) {
	query := `
		SELECT entity_id
		FROM user_favorites
		WHERE user_id = ? AND category = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.q.Query(query, userID, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite entity IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan entity ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// CountByEntity returns the number of live favorite links for one entity in
// one category, across all users.
func (r *FavoriteRepository) CountByEntity(entityID string, category models.Category) (int, error) {
	var count int
	err := r.q.QueryRow(
		"SELECT COUNT(*) FROM user_favorites WHERE entity_id = ? AND category = ?",
		entityID, string(category),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}

// scanOne scans a single [sql.Row] into a [models.FavoriteEntry]
func (r *FavoriteRepository) scanOne(row *sql.Row) (*models.FavoriteEntry, error) {
	var (
		id        string
		userID    string
		entityID  string
		category  string
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&id, &userID, &entityID, &category, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("favorite not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan favorite: %w", err)
	}

	entry := models.NewFavoriteEntry(userID, entityID, models.Category(category))
	entry.SetID(id)
	entry.SetCreatedAt(createdAt)
	entry.SetUpdatedAt(updatedAt)

	return entry, nil
}

// scanRow scans a row from [sql.Rows] into a [models.FavoriteEntry]
func (r *FavoriteRepository) scanRow(rows *sql.Rows) (*models.FavoriteEntry, error) {
	var (
		id        string
		userID    string
		entityID  string
		category  string
		createdAt time.Time
		updatedAt time.Time
	)

	err := rows.Scan(&id, &userID, &entityID, &category, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan favorite: %w", err)
	}

	entry := models.NewFavoriteEntry(userID, entityID, models.Category(category))
	entry.SetID(id)
	entry.SetCreatedAt(createdAt)
	entry.SetUpdatedAt(updatedAt)

	return entry, nil
}
