package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jihohub/track-list-now/internal/models"
)

// TrackRepository implements models.Repository[*models.Track] for the track catalog cache.
//
// Same contract as ArtistRepository: rows are keyed by catalog ID, Ensure
// never overwrites cached metadata.
type TrackRepository struct {
	q Querier
}

// NewTrackRepository creates a new TrackRepository over the given Querier
func NewTrackRepository(q Querier) *TrackRepository {
	return &TrackRepository{q: q}
}

// Create inserts a new [models.Track] into the database
func (r *TrackRepository) Create(track *models.Track) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tracks (id, name, artists, image_url, popularity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.q.Exec(query,
		track.ID(),
		track.Name(),
		track.Artists(),
		track.ImageURL(),
		track.Popularity(),
		track.CreatedAt(),
		track.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Ensure inserts the track if no row with its catalog ID exists yet.
// An existing row is left untouched, including its metadata.
func (r *TrackRepository) Ensure(track *models.Track) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT OR IGNORE INTO tracks (id, name, artists, image_url, popularity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.q.Exec(query,
		track.ID(),
		track.Name(),
		track.Artists(),
		track.ImageURL(),
		track.Popularity(),
		track.CreatedAt(),
		track.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to ensure track: %w", err)
	}

	return nil
}

// Get retrieves a track by catalog ID
func (r *TrackRepository) Get(id string) (*models.Track, error) {
	query := `
		SELECT id, name, artists, image_url, popularity, created_at, updated_at
		FROM tracks
		WHERE id = ?
	`

	return r.scanOne(r.q.QueryRow(query, id))
}

// Update overwrites a track's cached metadata.
//
// Only the refresh job calls this; the reconciler never updates existing rows.
func (r *TrackRepository) Update(track *models.Track) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	track.SetUpdatedAt(now)

	query := `
		UPDATE tracks
		SET name = ?, artists = ?, image_url = ?, popularity = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.q.Exec(query,
		track.Name(),
		track.Artists(),
		track.ImageURL(),
		track.Popularity(),
		now,
		track.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("track not found: %s", track.ID())
	}

	return nil
}

// Delete removes a track row by catalog ID
func (r *TrackRepository) Delete(id string) error {
	result, err := r.q.Exec("DELETE FROM tracks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("track not found: %s", id)
	}

	return nil
}

// List retrieves all tracks matching the given criteria
func (r *TrackRepository) List(criteria map[string]any) ([]*models.Track, error) {
	query := `
		SELECT id, name, artists, image_url, popularity, created_at, updated_at
		FROM tracks
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
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.Track
	for rows.Next() {
		track, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// ListIDs returns the catalog IDs of all cached tracks, ordered for determinism
func (r *TrackRepository) ListIDs() ([]string, error) {
	rows, err := r.q.Query("SELECT id FROM tracks ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query track IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan track ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// scanOne scans a single [sql.Row] into a [models.Track]
func (r *TrackRepository) scanOne(row *sql.Row) (*models.Track, error) {
	var (
		id         string
		name       string
		artists    string
		imageURL   string
		popularity int
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := row.Scan(&id, &name, &artists, &imageURL, &popularity, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("track not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	track := models.NewTrack(id, name, artists, imageURL, popularity)
	track.SetCreatedAt(createdAt)
	track.SetUpdatedAt(updatedAt)

	return track, nil
}

// scanRow scans a row from [sql.Rows] into a [models.Track]
func (r *TrackRepository) scanRow(rows *sql.Rows) (*models.Track, error) {
	var (
		id         string
		name       string
		artists    string
		imageURL   string
		popularity int
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := rows.Scan(&id, &name, &artists, &imageURL, &popularity, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	track := models.NewTrack(id, name, artists, imageURL, popularity)
	track.SetCreatedAt(createdAt)
	track.SetUpdatedAt(updatedAt)

	return track, nil
}
