package ranking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jihohub/track-list-now/internal/models"
	"github.com/jihohub/track-list-now/internal/repositories"
	"github.com/jihohub/track-list-now/internal/shared"
)

// Submission is the full desired favorites state a user submits: one set of
// items per category. Items absent from a category's set are removed, new
// items are added, items present in both are left untouched.
type Submission struct {
	UserID         string                `json:"userId"`
	AllTimeArtists []models.FavoriteItem `json:"allTimeArtists"`
	AllTimeTracks  []models.FavoriteItem `json:"allTimeTracks"`
	CurrentArtists []models.FavoriteItem `json:"currentArtists"`
	CurrentTracks  []models.FavoriteItem `json:"currentTracks"`
}

// categorySet pairs one category with its submitted items.
type categorySet struct {
	category models.Category
	items    []models.FavoriteItem
}

// categorySets returns the submission's four categories in canonical order.
func (s *Submission) categorySets() []categorySet {
	return []categorySet{
		{models.AllTimeArtist, s.AllTimeArtists},
		{models.AllTimeTrack, s.AllTimeTracks},
		{models.CurrentArtist, s.CurrentArtists},
		{models.CurrentTrack, s.CurrentTracks},
	}
}

// Validate checks the submission shape before any transaction begins.
func (s *Submission) Validate() error {
	if s.UserID == "" {
		return fmt.Errorf("%w: userId is required", shared.ErrInvalidInput)
	}

	for _, cs := range s.categorySets() {
		for _, item := range cs.items {
			if item.ID == "" {
				return fmt.Errorf("%w: item in %s is missing an id", shared.ErrInvalidInput, cs.category)
			}
		}
	}

	return nil
}

// CategoryDelta records the net effect of reconciling one category.
type CategoryDelta struct {
	Category models.Category `json:"category"`
	Added    []string        `json:"added"`
	Removed  []string        `json:"removed"`
}

// Result summarizes one reconciliation: which entity IDs were linked and
// unlinked per category. Unchanged favorites never appear.
type Result struct {
	UserID string          `json:"userId"`
	Deltas []CategoryDelta `json:"deltas"`
}

// Changed returns the total number of links added plus removed.
func (r *Result) Changed() int {
	n := 0
	for _, d := range r.Deltas {
		n += len(d.Added) + len(d.Removed)
	}
	return n
}

// Reconciler applies favorite submissions transactionally and keeps the
// ranking counts consistent with the live favorite links.
type Reconciler struct {
	db     *sql.DB
	logger *log.Logger
}

// NewReconciler creates a Reconciler over the given database connection.
func NewReconciler(db *sql.DB, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Reconciler{db: db, logger: logger}
}

// Reconcile validates the submission, then applies all four categories'
// adds, removes, and count mutations inside one transaction. Any failure
// rolls back every write; the caller resubmits.
//
// The existing favorite sets are read inside the same transaction, so a
// stale snapshot can never be diffed against.
func (r *Reconciler) Reconcile(ctx context.Context, sub Submission) (*Result, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	favorites := repositories.NewFavoriteRepository(tx)
	artists := repositories.NewArtistRepository(tx)
	tracks := repositories.NewTrackRepository(tx)
	rankings := repositories.NewRankingRepository(tx)

	result := &Result{UserID: sub.UserID}

	for _, cs := range sub.categorySets() {
		delta, err := applyCategory(favorites, artists, tracks, rankings, sub.UserID, cs)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile %s: %w", cs.category, err)
		}
		result.Deltas = append(result.Deltas, delta)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reconciliation: %w", err)
	}

	r.logger.Info("favorites reconciled", "user_id", sub.UserID, "changes", result.Changed())
	return result, nil
}

// applyCategory diffs one category's submitted set against the stored one
// and applies the adds and removes.
func applyCategory(
	favorites *repositories.FavoriteRepository,
	artists *repositories.ArtistRepository,
	tracks *repositories.TrackRepository,
	rankings *repositories.RankingRepository,
	userID string,
	cs categorySet,
) (CategoryDelta, error) {
	delta := CategoryDelta{Category: cs.category, Added: []string{}, Removed: []string{}}

	existing, err := favorites.ListEntityIDs(userID, cs.category)
	if err != nil {
		return delta, err
	}

	toAdd, toRemove := diffItems(existing, cs.items)

	for _, item := range toAdd {
		if cs.category.IsArtist() {
			if err := artists.Ensure(models.NewArtist(item.ID, item.Name, item.ImageURL, item.Followers)); err != nil {
				return delta, err
			}
		} else {
			if err := tracks.Ensure(models.NewTrack(item.ID, item.Name, item.Artists, item.ImageURL, item.Popularity)); err != nil {
				return delta, err
			}
		}

		linked, err := favorites.Link(models.NewFavoriteEntry(userID, item.ID, cs.category))
		if err != nil {
			return delta, err
		}
		// A duplicate link lost against the unique constraint must not
		// move the count.
		if !linked {
			continue
		}

		if err := rankings.Increment(item.ID, cs.category, item.Metric(cs.category)); err != nil {
			return delta, err
		}

		delta.Added = append(delta.Added, item.ID)
	}

	for _, entityID := range toRemove {
		removed, err := favorites.Unlink(userID, entityID, cs.category)
		if err != nil {
			return delta, err
		}
		if removed == 0 {
			continue
		}

		if err := rankings.Decrement(entityID, cs.category); err != nil {
			return delta, err
		}

		if err := rankings.Prune(entityID, cs.category); err != nil {
			return delta, err
		}

		delta.Removed = append(delta.Removed, entityID)
	}

	return delta, nil
}

// diffItems computes the set difference between the stored entity IDs and
// the submitted items, keyed by catalog ID. Duplicate submitted IDs are
// collapsed to their first occurrence. Order is preserved: adds follow the
// submission, removes follow the stored order.
func diffItems(existing []string, submitted []models.FavoriteItem) (toAdd []models.FavoriteItem, toRemove []string) {
	existingSet := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		existingSet[id] = struct{}{}
	}

	submittedSet := make(map[string]struct{}, len(submitted))
	for _, item := range submitted {
		if _, seen := submittedSet[item.ID]; seen {
			continue
		}
		submittedSet[item.ID] = struct{}{}

		if _, ok := existingSet[item.ID]; !ok {
			toAdd = append(toAdd, item)
		}
	}

	for _, id := range existing {
		if _, ok := submittedSet[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}

	return toAdd, toRemove
}
