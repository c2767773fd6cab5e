package models

import (
	"fmt"
	"time"
)

// FavoriteItem is the wire-level representation of one submitted favorite.
//
// Carries the display metadata supplied by the caller. Followers is set for
// artist categories, Popularity (and Artists, the display string) for track
// categories.
type FavoriteItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ImageURL   string `json:"imageUrl,omitempty"`
	Followers  int    `json:"followers,omitempty"`
	Popularity int    `json:"popularity,omitempty"`
	Artists    string `json:"artists,omitempty"`
}

// Metric returns the category-appropriate tiebreak metric for this item.
func (i FavoriteItem) Metric(category Category) int {
	if category.IsArtist() {
		return i.Followers
	}
	return i.Popularity
}

// UserFavorites groups a user's current favorites across the four categories,
// each entry enriched with live catalog data.
type UserFavorites struct {
	UserID         string         `json:"userId"`
	AllTimeArtists []FavoriteItem `json:"allTimeArtists"`
	AllTimeTracks  []FavoriteItem `json:"allTimeTracks"`
	CurrentArtists []FavoriteItem `json:"currentArtists"`
	CurrentTracks  []FavoriteItem `json:"currentTracks"`
}

// NewUserFavorites creates an empty favorites view for the user. Every
// category starts as an empty set so the JSON encoding never emits null.
func NewUserFavorites(userID string) *UserFavorites {
	return &UserFavorites{
		UserID:         userID,
		AllTimeArtists: []FavoriteItem{},
		AllTimeTracks:  []FavoriteItem{},
		CurrentArtists: []FavoriteItem{},
		CurrentTracks:  []FavoriteItem{},
	}
}

// SetCategory replaces one category's item set.
func (u *UserFavorites) SetCategory(category Category, items []FavoriteItem) {
	switch category {
	case AllTimeArtist:
		u.AllTimeArtists = items
	case AllTimeTrack:
		u.AllTimeTracks = items
	case CurrentArtist:
		u.CurrentArtists = items
	case CurrentTrack:
		u.CurrentTracks = items
	}
}

// Category returns one category's item set.
func (u *UserFavorites) Category(category Category) []FavoriteItem {
	switch category {
	case AllTimeArtist:
		return u.AllTimeArtists
	case AllTimeTrack:
		return u.AllTimeTracks
	case CurrentArtist:
		return u.CurrentArtists
	case CurrentTrack:
		return u.CurrentTracks
	}
	return nil
}

// RankedEntry is one row of a top-N ranking view: catalog metadata joined
// with the live reference count and tiebreak metric.
type RankedEntry struct {
	EntityID string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
	Artists  string `json:"artists,omitempty"`
	Count    int    `json:"count"`
	Metric   int    `json:"metric"`
}

// Artist is the persisted catalog cache row for one artist.
//
// Created lazily on first favorite; metadata is only overwritten by the
// refresh job, never by the reconciler.
type Artist struct {
	id        string
	name      string
	imageURL  string
	followers int
	createdAt time.Time
	updatedAt time.Time
}

// NewArtist creates an Artist keyed by its catalog ID.
func NewArtist(id, name, imageURL string, followers int) *Artist {
	now := time.Now()
	return &Artist{
		id:        id,
		name:      name,
		imageURL:  imageURL,
		followers: followers,
		createdAt: now,
		updatedAt: now,
	}
}

func (a *Artist) ID() string           { return a.id }
func (a *Artist) Name() string         { return a.name }
func (a *Artist) ImageURL() string     { return a.imageURL }
func (a *Artist) Followers() int       { return a.followers }
func (a *Artist) CreatedAt() time.Time { return a.createdAt }
func (a *Artist) UpdatedAt() time.Time { return a.updatedAt }

func (a *Artist) SetName(name string)      { a.name = name }
func (a *Artist) SetImageURL(url string)   { a.imageURL = url }
func (a *Artist) SetFollowers(n int)       { a.followers = n }
func (a *Artist) SetCreatedAt(t time.Time) { a.createdAt = t }
func (a *Artist) SetUpdatedAt(t time.Time) { a.updatedAt = t }

// Validate checks that the artist has a catalog ID and a name.
func (a *Artist) Validate() error {
	if a.id == "" {
		return fmt.Errorf("artist ID is required")
	}
	if a.name == "" {
		return fmt.Errorf("artist name is required")
	}
	return nil
}

// Item converts the persisted artist into its wire representation.
func (a *Artist) Item() FavoriteItem {
	return FavoriteItem{
		ID:        a.id,
		Name:      a.name,
		ImageURL:  a.imageURL,
		Followers: a.followers,
	}
}

// Track is the persisted catalog cache row for one track.
type Track struct {
	id         string
	name       string
	artists    string
	imageURL   string
	popularity int
	createdAt  time.Time
	updatedAt  time.Time
}

// NewTrack creates a Track keyed by its catalog ID. artists is the display
// string of the performing artists, not a relation.
func NewTrack(id, name, artists, imageURL string, popularity int) *Track {
	now := time.Now()
	return &Track{
		id:         id,
		name:       name,
		artists:    artists,
		imageURL:   imageURL,
		popularity: popularity,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (t *Track) ID() string           { return t.id }
func (t *Track) Name() string         { return t.name }
func (t *Track) Artists() string      { return t.artists }
func (t *Track) ImageURL() string     { return t.imageURL }
func (t *Track) Popularity() int      { return t.popularity }
func (t *Track) CreatedAt() time.Time { return t.createdAt }
func (t *Track) UpdatedAt() time.Time { return t.updatedAt }

func (t *Track) SetName(name string)       { t.name = name }
func (t *Track) SetArtists(s string)       { t.artists = s }
func (t *Track) SetImageURL(url string)    { t.imageURL = url }
func (t *Track) SetPopularity(n int)       { t.popularity = n }
func (t *Track) SetCreatedAt(ts time.Time) { t.createdAt = ts }
func (t *Track) SetUpdatedAt(ts time.Time) { t.updatedAt = ts }

// Validate checks that the track has a catalog ID and a name.
func (t *Track) Validate() error {
	if t.id == "" {
		return fmt.Errorf("track ID is required")
	}
	if t.name == "" {
		return fmt.Errorf("track name is required")
	}
	return nil
}

// Item converts the persisted track into its wire representation.
func (t *Track) Item() FavoriteItem {
	return FavoriteItem{
		ID:         t.id,
		Name:       t.name,
		Artists:    t.artists,
		ImageURL:   t.imageURL,
		Popularity: t.popularity,
	}
}

// FavoriteEntry links one user to one catalog entity in one category.
//
// (userID, entityID, category) is unique; the database constraint guards
// concurrent duplicate inserts.
type FavoriteEntry struct {
	id        string
	userID    string
	entityID  string
	category  Category
	createdAt time.Time
	updatedAt time.Time
}

// NewFavoriteEntry creates a FavoriteEntry; the row ID is assigned on insert.
func NewFavoriteEntry(userID, entityID string, category Category) *FavoriteEntry {
	now := time.Now()
	return &FavoriteEntry{
		userID:    userID,
		entityID:  entityID,
		category:  category,
		createdAt: now,
		updatedAt: now,
	}
}

func (f *FavoriteEntry) ID() string           { return f.id }
func (f *FavoriteEntry) UserID() string       { return f.userID }
func (f *FavoriteEntry) EntityID() string     { return f.entityID }
func (f *FavoriteEntry) Category() Category   { return f.category }
func (f *FavoriteEntry) CreatedAt() time.Time { return f.createdAt }
func (f *FavoriteEntry) UpdatedAt() time.Time { return f.updatedAt }

func (f *FavoriteEntry) SetID(id string)          { f.id = id }
func (f *FavoriteEntry) SetCreatedAt(t time.Time) { f.createdAt = t }
func (f *FavoriteEntry) SetUpdatedAt(t time.Time) { f.updatedAt = t }

// Validate checks that the entry carries a user, an entity, and a known category.
func (f *FavoriteEntry) Validate() error {
	if f.userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if f.entityID == "" {
		return fmt.Errorf("entity ID is required")
	}
	if !f.category.Valid() {
		return fmt.Errorf("unknown category %q", f.category)
	}
	return nil
}
