package ranking

import (
	"fmt"

	"github.com/jihohub/track-list-now/internal/models"
	"github.com/jihohub/track-list-now/internal/repositories"
)

// FavoritesReader assembles one user's full favorites view by joining their
// links against the catalog tables. Reads run outside any transaction.
type FavoritesReader struct {
	favorites *repositories.FavoriteRepository
	artists   *repositories.ArtistRepository
	tracks    *repositories.TrackRepository
}

// NewFavoritesReader creates a FavoritesReader over the given Querier.
func NewFavoritesReader(q repositories.Querier) *FavoritesReader {
	return &FavoritesReader{
		favorites: repositories.NewFavoriteRepository(q),
		artists:   repositories.NewArtistRepository(q),
		tracks:    repositories.NewTrackRepository(q),
	}
}

// Get returns the user's favorites across all four categories, each in
// insertion order. A user with no favorites gets four empty sets, not an
// error.
func (f *FavoritesReader) Get(userID string) (*models.UserFavorites, error) {
	view := models.NewUserFavorites(userID)

	for _, category := range models.Categories() {
		ids, err := f.favorites.ListEntityIDs(userID, category)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s favorites: %w", category, err)
		}

		items := make([]models.FavoriteItem, 0, len(ids))
		for _, id := range ids {
			item, err := f.loadItem(id, category)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}

		view.SetCategory(category, items)
	}

	return view, nil
}

func (f *FavoritesReader) loadItem(entityID string, category models.Category) (models.FavoriteItem, error) {
	if category.IsArtist() {
		artist, err := f.artists.Get(entityID)
		if err != nil {
			return models.FavoriteItem{}, fmt.Errorf("failed to load artist %s: %w", entityID, err)
		}
		return artist.Item(), nil
	}

	track, err := f.tracks.Get(entityID)
	if err != nil {
		return models.FavoriteItem{}, fmt.Errorf("failed to load track %s: %w", entityID, err)
	}
	return track.Item(), nil
}
