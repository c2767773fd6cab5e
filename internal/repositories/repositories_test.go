package repositories

import (
	"database/sql"
	"testing"

	"github.com/jihohub/track-list-now/internal/models"
	"github.com/jihohub/track-list-now/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestArtistRepository(t *testing.T) {
	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)
		artist := models.NewArtist("artist1", "Test Artist", "https://img.example/a.jpg", 1200)

		if err := repo.Create(artist); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}

		retrieved, err := repo.Get("artist1")
		if err != nil {
			t.Fatalf("failed to get artist: %v", err)
		}

		if retrieved.Name() != "Test Artist" {
			t.Errorf("expected name 'Test Artist', got %s", retrieved.Name())
		}

		if retrieved.Followers() != 1200 {
			t.Errorf("expected 1200 followers, got %d", retrieved.Followers())
		}
	})

	t.Run("Ensure leaves existing metadata alone", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)

		if err := repo.Ensure(models.NewArtist("artist1", "Original", "", 100)); err != nil {
			t.Fatalf("failed to ensure artist: %v", err)
		}

		if err := repo.Ensure(models.NewArtist("artist1", "Replacement", "", 999)); err != nil {
			t.Fatalf("ensure on existing artist should not error: %v", err)
		}

		retrieved, err := repo.Get("artist1")
		if err != nil {
			t.Fatalf("failed to get artist: %v", err)
		}

		if retrieved.Name() != "Original" {
			t.Errorf("expected name 'Original', got %s", retrieved.Name())
		}

		if retrieved.Followers() != 100 {
			t.Errorf("expected 100 followers, got %d", retrieved.Followers())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)

		if err := repo.Create(models.NewArtist("artist1", "Test Artist", "", 100)); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}

		artist, err := repo.Get("artist1")
		if err != nil {
			t.Fatalf("failed to get artist: %v", err)
		}

		artist.SetFollowers(5000)
		if err := repo.Update(artist); err != nil {
			t.Fatalf("failed to update artist: %v", err)
		}

		retrieved, err := repo.Get("artist1")
		if err != nil {
			t.Fatalf("failed to get updated artist: %v", err)
		}

		if retrieved.Followers() != 5000 {
			t.Errorf("expected 5000 followers, got %d", retrieved.Followers())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)

		if err := repo.Create(models.NewArtist("artist1", "Test Artist", "", 100)); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}

		if err := repo.Delete("artist1"); err != nil {
			t.Fatalf("failed to delete artist: %v", err)
		}

		if _, err := repo.Get("artist1"); err == nil {
			t.Error("expected error when getting deleted artist")
		}
	})

	t.Run("ListIDs", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)

		for _, id := range []string{"b", "a", "c"} {
			if err := repo.Create(models.NewArtist(id, "Artist "+id, "", 0)); err != nil {
				t.Fatalf("failed to create artist: %v", err)
			}
		}

		ids, err := repo.ListIDs()
		if err != nil {
			t.Fatalf("failed to list artist IDs: %v", err)
		}

		want := []string{"a", "b", "c"}
		if len(ids) != len(want) {
			t.Fatalf("expected %d IDs, got %d", len(want), len(ids))
		}
		for i, id := range want {
			if ids[i] != id {
				t.Errorf("expected ID %s at position %d, got %s", id, i, ids[i])
			}
		}
	})
}

func TestTrackRepository(t *testing.T) {
	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewTrack("track1", "Test Song", "Test Artist", "https://img.example/t.jpg", 73)

		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		retrieved, err := repo.Get("track1")
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}

		if retrieved.Name() != "Test Song" {
			t.Errorf("expected name 'Test Song', got %s", retrieved.Name())
		}

		if retrieved.Artists() != "Test Artist" {
			t.Errorf("expected artists 'Test Artist', got %s", retrieved.Artists())
		}

		if retrieved.Popularity() != 73 {
			t.Errorf("expected popularity 73, got %d", retrieved.Popularity())
		}
	})

	t.Run("Ensure leaves existing metadata alone", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)

		if err := repo.Ensure(models.NewTrack("track1", "Original", "A", "", 50)); err != nil {
			t.Fatalf("failed to ensure track: %v", err)
		}

		if err := repo.Ensure(models.NewTrack("track1", "Replacement", "B", "", 99)); err != nil {
			t.Fatalf("ensure on existing track should not error: %v", err)
		}

		retrieved, err := repo.Get("track1")
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}

		if retrieved.Name() != "Original" {
			t.Errorf("expected name 'Original', got %s", retrieved.Name())
		}

		if retrieved.Popularity() != 50 {
			t.Errorf("expected popularity 50, got %d", retrieved.Popularity())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)

		if err := repo.Create(models.NewTrack("track1", "Test Song", "A", "", 50)); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		track, err := repo.Get("track1")
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}

		track.SetPopularity(88)
		if err := repo.Update(track); err != nil {
			t.Fatalf("failed to update track: %v", err)
		}

		retrieved, err := repo.Get("track1")
		if err != nil {
			t.Fatalf("failed to get updated track: %v", err)
		}

		if retrieved.Popularity() != 88 {
			t.Errorf("expected popularity 88, got %d", retrieved.Popularity())
		}
	})
}

func TestFavoriteRepository(t *testing.T) {
	t.Run("Link deduplicates", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewFavoriteRepository(db)

		linked, err := repo.Link(models.NewFavoriteEntry("user1", "artist1", models.AllTimeArtist))
		if err != nil {
			t.Fatalf("failed to link favorite: %v", err)
		}
		if !linked {
			t.Error("first link should insert a row")
		}

		linked, err = repo.Link(models.NewFavoriteEntry("user1", "artist1", models.AllTimeArtist))
		if err != nil {
			t.Fatalf("duplicate link should not error: %v", err)
		}
		if linked {
			t.Error("duplicate link should not insert a row")
		}

		count, err := repo.CountByEntity("artist1", models.AllTimeArtist)
		if err != nil {
			t.Fatalf("failed to count favorites: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 favorite link, got %d", count)
		}
	})

	t.Run("Same entity in different categories", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewFavoriteRepository(db)

		for _, category := range []models.Category{models.AllTimeArtist, models.CurrentArtist} {
			linked, err := repo.Link(models.NewFavoriteEntry("user1", "artist1", category))
			if err != nil {
				t.Fatalf("failed to link favorite in %s: %v", category, err)
			}
			if !linked {
				t.Errorf("link in %s should insert a row", category)
			}
		}
	})

	t.Run("Unlink", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewFavoriteRepository(db)

		if _, err := repo.Link(models.NewFavoriteEntry("user1", "artist1", models.AllTimeArtist)); err != nil {
			t.Fatalf("failed to link favorite: %v", err)
		}

		removed, err := repo.Unlink("user1", "artist1", models.AllTimeArtist)
		if err != nil {
			t.Fatalf("failed to unlink favorite: %v", err)
		}
		if removed != 1 {
			t.Errorf("expected 1 row removed, got %d", removed)
		}

		removed, err = repo.Unlink("user1", "artist1", models.AllTimeArtist)
		if err != nil {
			t.Fatalf("unlinking an absent favorite should not error: %v", err)
		}
		if removed != 0 {
			t.Errorf("expected 0 rows removed, got %d", removed)
		}
	})

	t.Run("ListEntityIDs preserves insertion order", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewFavoriteRepository(db)

		for _, id := range []string{"c", "a", "b"} {
			if _, err := repo.Link(models.NewFavoriteEntry("user1", id, models.AllTimeTrack)); err != nil {
				t.Fatalf("failed to link favorite: %v", err)
			}
		}

		ids, err := repo.ListEntityIDs("user1", models.AllTimeTrack)
		if err != nil {
			t.Fatalf("failed to list entity IDs: %v", err)
		}

		want := []string{"c", "a", "b"}
		if len(ids) != len(want) {
			t.Fatalf("expected %d IDs, got %d", len(want), len(ids))
		}
		for i, id := range want {
			if ids[i] != id {
				t.Errorf("expected ID %s at position %d, got %s", id, i, ids[i])
			}
		}
	})

	t.Run("List filters by user and category", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewFavoriteRepository(db)

		if _, err := repo.Link(models.NewFavoriteEntry("user1", "a", models.AllTimeArtist)); err != nil {
			t.Fatalf("failed to link favorite: %v", err)
		}
		if _, err := repo.Link(models.NewFavoriteEntry("user1", "t", models.AllTimeTrack)); err != nil {
			t.Fatalf("failed to link favorite: %v", err)
		}
		if _, err := repo.Link(models.NewFavoriteEntry("user2", "a", models.AllTimeArtist)); err != nil {
			t.Fatalf("failed to link favorite: %v", err)
		}

		entries, err := repo.List(map[string]any{"user_id": "user1"})
		if err != nil {
			t.Fatalf("failed to list favorites: %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("expected 2 favorites for user1, got %d", len(entries))
		}

		entries, err = repo.List(map[string]any{"user_id": "user1", "category": string(models.AllTimeTrack)})
		if err != nil {
			t.Fatalf("failed to list filtered favorites: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("expected 1 favorite, got %d", len(entries))
		}
		if len(entries) > 0 && entries[0].EntityID() != "t" {
			t.Errorf("expected entity t, got %s", entries[0].EntityID())
		}
	})
}

func TestRankingRepository(t *testing.T) {
	t.Run("Increment creates then bumps", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRankingRepository(db)

		if err := repo.Increment("artist1", models.AllTimeArtist, 100); err != nil {
			t.Fatalf("failed to increment: %v", err)
		}

		count, err := repo.Count("artist1", models.AllTimeArtist)
		if err != nil {
			t.Fatalf("failed to get count: %v", err)
		}
		if count != 1 {
			t.Errorf("expected count 1, got %d", count)
		}

		if err := repo.Increment("artist1", models.AllTimeArtist, 250); err != nil {
			t.Fatalf("failed to increment existing row: %v", err)
		}

		count, err = repo.Count("artist1", models.AllTimeArtist)
		if err != nil {
			t.Fatalf("failed to get count: %v", err)
		}
		if count != 2 {
			t.Errorf("expected count 2, got %d", count)
		}

		var metric int
		err = db.QueryRow("SELECT metric FROM rankings WHERE entity_id = ? AND category = ?", "artist1", string(models.AllTimeArtist)).Scan(&metric)
		if err != nil {
			t.Fatalf("failed to query metric: %v", err)
		}
		if metric != 250 {
			t.Errorf("expected metric overwritten to 250, got %d", metric)
		}
	})

	t.Run("Decrement and Prune", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRankingRepository(db)

		if err := repo.Increment("artist1", models.AllTimeArtist, 100); err != nil {
			t.Fatalf("failed to increment: %v", err)
		}
		if err := repo.Increment("artist1", models.AllTimeArtist, 100); err != nil {
			t.Fatalf("failed to increment: %v", err)
		}

		if err := repo.Decrement("artist1", models.AllTimeArtist); err != nil {
			t.Fatalf("failed to decrement: %v", err)
		}
		if err := repo.Prune("artist1", models.AllTimeArtist); err != nil {
			t.Fatalf("failed to prune: %v", err)
		}

		count, err := repo.Count("artist1", models.AllTimeArtist)
		if err != nil {
			t.Fatalf("failed to get count: %v", err)
		}
		if count != 1 {
			t.Errorf("row should survive at count 1, got %d", count)
		}

		if err := repo.Decrement("artist1", models.AllTimeArtist); err != nil {
			t.Fatalf("failed to decrement: %v", err)
		}
		if err := repo.Prune("artist1", models.AllTimeArtist); err != nil {
			t.Fatalf("failed to prune: %v", err)
		}

		var rows int
		if err := db.QueryRow("SELECT COUNT(*) FROM rankings").Scan(&rows); err != nil {
			t.Fatalf("failed to count ranking rows: %v", err)
		}
		if rows != 0 {
			t.Errorf("expected ranking row to be pruned, found %d rows", rows)
		}
	})

	t.Run("Decrement on missing row is a no-op", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRankingRepository(db)

		if err := repo.Decrement("ghost", models.CurrentTrack); err != nil {
			t.Fatalf("decrementing a missing row should not error: %v", err)
		}

		zero, err := repo.ZeroCountRows()
		if err != nil {
			t.Fatalf("failed to query zero-count rows: %v", err)
		}
		if zero != 0 {
			t.Errorf("expected no zero-count rows, got %d", zero)
		}
	})

	t.Run("TopN joins catalog and orders deterministically", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		artists := NewArtistRepository(db)
		repo := NewRankingRepository(db)

		for _, a := range []struct {
			id        string
			followers int
			count     int
		}{
			{"a1", 500, 2},
			{"a2", 900, 1},
			{"a3", 900, 1},
			{"a4", 100, 1},
		} {
			if err := artists.Create(models.NewArtist(a.id, "Artist "+a.id, "", a.followers)); err != nil {
				t.Fatalf("failed to create artist: %v", err)
			}
			for i := 0; i < a.count; i++ {
				if err := repo.Increment(a.id, models.AllTimeArtist, a.followers); err != nil {
					t.Fatalf("failed to increment: %v", err)
				}
			}
		}

		entries, err := repo.TopN(models.AllTimeArtist, 10)
		if err != nil {
			t.Fatalf("failed to query top N: %v", err)
		}

		want := []string{"a1", "a2", "a3", "a4"}
		if len(entries) != len(want) {
			t.Fatalf("expected %d entries, got %d", len(want), len(entries))
		}
		for i, id := range want {
			if entries[i].EntityID != id {
				t.Errorf("expected %s at rank %d, got %s", id, i+1, entries[i].EntityID)
			}
		}

		limited, err := repo.TopN(models.AllTimeArtist, 2)
		if err != nil {
			t.Fatalf("failed to query limited top N: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 entries, got %d", len(limited))
		}
	})

	t.Run("TopN rejects invalid input", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRankingRepository(db)

		if _, err := repo.TopN(models.Category("BOGUS"), 10); err == nil {
			t.Error("expected error for invalid category")
		}

		if _, err := repo.TopN(models.AllTimeArtist, 0); err == nil {
			t.Error("expected error for non-positive limit")
		}
	})
}
