// package tasks implements background maintenance jobs for the ranking service.
//
// The core abstraction is RefreshEngine, which re-reads catalog metadata for
// every cached artist and track and writes the fresh values back. Operations
// emit progress updates via channels for non-blocking status reporting to
// CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/jihohub/track-list-now/internal/repositories"
	"github.com/jihohub/track-list-now/internal/services"
	"github.com/jihohub/track-list-now/internal/shared"
)

// refreshBatchSize matches the catalog API's batch endpoint limit.
const refreshBatchSize = 50

// RefreshResult contains all data from a full catalog refresh operation.
type RefreshResult struct {
	ArtistsUpdated int      // Artist rows written with fresh metadata
	TracksUpdated  int      // Track rows written with fresh metadata
	Missing        []string // IDs the catalog no longer resolves
}

// Engine defines catalog maintenance operations.
type Engine interface {
	// Refresh re-fetches metadata for every cached artist and track and
	// updates their rows. Favorites and ranking counts are never touched.
	Refresh(ctx context.Context, progress chan<- ProgressUpdate) (*RefreshResult, error)
}

// RefreshEngine implements Engine against a catalog provider and the local
// entity tables.
type RefreshEngine struct {
	catalog services.Catalog
	artists *repositories.ArtistRepository
	tracks  *repositories.TrackRepository
}

// NewRefreshEngine creates a RefreshEngine over the given Querier and catalog.
func NewRefreshEngine(q repositories.Querier, catalog services.Catalog) *RefreshEngine {
	return &RefreshEngine{
		catalog: catalog,
		artists: repositories.NewArtistRepository(q),
		tracks:  repositories.NewTrackRepository(q),
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *RefreshEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Refresh walks the cached catalog in batches and rewrites stale metadata.
//
// The ranking metric stored alongside counts still reflects the submitting
// user's snapshot; only the entity tables are rewritten here.
func (e *RefreshEngine) Refresh(ctx context.Context, progress chan<- ProgressUpdate) (*RefreshResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	artistIDs, err := e.artists.ListIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}

	trackIDs, err := e.tracks.ListIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}

	e.sendProgress(progress, listEntitiesUpdate(len(artistIDs), len(trackIDs)))

	result := &RefreshResult{}

	if err := e.refreshArtists(ctx, progress, artistIDs, result); err != nil {
		return result, err
	}
	if err := e.refreshTracks(ctx, progress, trackIDs, result); err != nil {
		return result, err
	}

	return result, nil
}

func (e *RefreshEngine) refreshArtists(ctx context.Context, progress chan<- ProgressUpdate, ids []string, result *RefreshResult) error {
	batches := chunk(ids, refreshBatchSize)

	for i, batch := range batches {
		e.sendProgress(progress, fetchBatchUpdate(FetchArtists, i+1, len(batches), len(batch)))

		records, err := e.catalog.SeveralArtists(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to fetch artist batch: %w", err)
		}

		seen := make(map[string]struct{}, len(records))
		updated := 0
		for _, record := range records {
			seen[record.ID] = struct{}{}

			artist, err := e.artists.Get(record.ID)
			if err != nil {
				return fmt.Errorf("failed to load artist %s: %w", record.ID, err)
			}

			artist.SetName(record.Name)
			artist.SetImageURL(record.ImageURL)
			artist.SetFollowers(record.Followers)
			if err := e.artists.Update(artist); err != nil {
				return fmt.Errorf("failed to update artist %s: %w", record.ID, err)
			}
			updated++
		}

		for _, id := range batch {
			if _, ok := seen[id]; !ok {
				result.Missing = append(result.Missing, id)
			}
		}

		result.ArtistsUpdated += updated
		e.sendProgress(progress, updateBatchUpdate(UpdateArtists, i+1, len(batches), updated))
	}

	return nil
}

func (e *RefreshEngine) refreshTracks(ctx context.Context, progress chan<- ProgressUpdate, ids []string, result *RefreshResult) error {
	batches := chunk(ids, refreshBatchSize)

	for i, batch := range batches {
		e.sendProgress(progress, fetchBatchUpdate(FetchTracks, i+1, len(batches), len(batch)))

		records, err := e.catalog.SeveralTracks(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to fetch track batch: %w", err)
		}

		seen := make(map[string]struct{}, len(records))
		updated := 0
		for _, record := range records {
			seen[record.ID] = struct{}{}

			track, err := e.tracks.Get(record.ID)
			if err != nil {
				return fmt.Errorf("failed to load track %s: %w", record.ID, err)
			}

			track.SetName(record.Name)
			track.SetArtists(record.Artists)
			track.SetImageURL(record.ImageURL)
			track.SetPopularity(record.Popularity)
			if err := e.tracks.Update(track); err != nil {
				return fmt.Errorf("failed to update track %s: %w", record.ID, err)
			}
			updated++
		}

		for _, id := range batch {
			if _, ok := seen[id]; !ok {
				result.Missing = append(result.Missing, id)
			}
		}

		result.TracksUpdated += updated
		e.sendProgress(progress, updateBatchUpdate(UpdateTracks, i+1, len(batches), updated))
	}

	return nil
}

// chunk splits ids into slices of at most size elements.
func chunk(ids []string, size int) [][]string {
	var batches [][]string
	for len(ids) > 0 {
		n := size
		if len(ids) < n {
			n = len(ids)
		}
		batches = append(batches, ids[:n])
		ids = ids[n:]
	}
	return batches
}
