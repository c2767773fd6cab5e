package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jihohub/track-list-now/internal/models"
)

// ArtistRepository implements models.Repository[*models.Artist] for the artist catalog cache.
//
// Rows are keyed by catalog ID. Ensure provides the upsert-or-leave-alone
// semantics the reconciler needs: first reference creates the row, later
// references never overwrite cached metadata.
type ArtistRepository struct {
	q Querier
}

// NewArtistRepository creates a new ArtistRepository over the given Querier
func NewArtistRepository(q Querier) *ArtistRepository {
	return &ArtistRepository{q: q}
}

// Create inserts a new [models.Artist] into the database
func (r *ArtistRepository) Create(artist *models.Artist) error {
	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO artists (id, name, image_url, followers, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.q.Exec(query,
		artist.ID(),
		artist.Name(),
		artist.ImageURL(),
		artist.Followers(),
		artist.CreatedAt(),
		artist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert artist: %w", err)
	}

	return nil
}

// Ensure inserts the artist if no row with its catalog ID exists yet.
// An existing row is left untouched, including its metadata.
func (r *ArtistRepository) Ensure(artist *models.Artist) error {
	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT OR IGNORE INTO artists (id, name, image_url, followers, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.q.Exec(query,
		artist.ID(),
		artist.Name(),
		artist.ImageURL(),
		artist.Followers(),
		artist.CreatedAt(),
		artist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to ensure artist: %w", err)
	}

	return nil
}

// Get retrieves an artist by catalog ID
func (r *ArtistRepository) Get(id string) (*models.Artist, error) {
	query := `
		SELECT id, name, image_url, followers, created_at, updated_at
		FROM artists
		WHERE id = ?
	`

	return r.scanOne(r.q.QueryRow(query, id))
}

// Update overwrites an artist's cached metadata.
//
// Only the refresh job calls this; the reconciler never updates existing rows.
func (r *ArtistRepository) Update(artist *models.Artist) error {
	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	artist.SetUpdatedAt(now)

	query := `
		UPDATE artists
		SET name = ?, image_url = ?, followers = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.q.Exec(query,
		artist.Name(),
		artist.ImageURL(),
		artist.Followers(),
		now,
		artist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("artist not found: %s", artist.ID())
	}

	return nil
}

// Delete removes an artist row by catalog ID
func (r *ArtistRepository) Delete(id string) error {
	result, err := r.q.Exec("DELETE FROM artists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("artist not found: %s", id)
	}

	return nil
}

// List retrieves all artists matching the given criteria
func (r *ArtistRepository) List(criteria map[string]any) ([]*models.Artist, error) {
	query := `
		SELECT id, name, image_url, followers, created_at, updated_at
		FROM artists
		WHERE 1 = 1
	`

	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name = ?"
		args = append(args, name)
	}

	query += " ORDER BY id ASC"

	rows, err := r.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	var artists []*models.Artist
	for rows.Next() {
		artist, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return artists, nil
}

// ListIDs returns the catalog IDs of all cached artists, ordered for determinism
func (r *ArtistRepository) ListIDs() ([]string, error) {
	rows, err := r.q.Query("SELECT id FROM artists ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query artist IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan artist ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// scanOne scans a single [sql.Row] into a [models.Artist]
func (r *ArtistRepository) scanOne(row *sql.Row) (*models.Artist, error) {
	var (
		id        string
		name      string
		imageURL  string
		followers int
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&id, &name, &imageURL, &followers, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("artist not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan artist: %w", err)
	}

	artist := models.NewArtist(id, name, imageURL, followers)
	artist.SetCreatedAt(createdAt)
	artist.SetUpdatedAt(updatedAt)

	return artist, nil
}

// scanRow scans a row from [sql.Rows] into a [models.Artist]
func (r *ArtistRepository) scanRow(rows *sql.Rows) (*models.Artist, error) {
	var (
		id        string
		name      string
		imageURL  string
		followers int
		createdAt time.Time
		updatedAt time.Time
	)

	err := rows.Scan(&id, &name, &imageURL, &followers, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan artist: %w", err)
	}

	artist := models.NewArtist(id, name, imageURL, followers)
	artist.SetCreatedAt(createdAt)
	artist.SetUpdatedAt(updatedAt)

	return artist, nil
}
