// package services defines interface Catalog for interacting with music catalog APIs
//
// Spotify is the only implementation; the refresh job and CLI depend on the
// interface so tests can substitute a mock.
package services

import (
	"context"
)

// Catalog defines the interface for a music catalog provider that can resolve
// artist and track metadata by ID.
type Catalog interface {
	// Authenticate obtains an API token. For Spotify this is the
	// client-credentials flow; no user interaction is involved.
	Authenticate(ctx context.Context) error

	// SeveralArtists retrieves metadata for up to 50 artist IDs in one call.
	SeveralArtists(ctx context.Context, artistIDs []string) ([]ArtistRecord, error)

	// SeveralTracks retrieves metadata for up to 50 track IDs in one call.
	SeveralTracks(ctx context.Context, trackIDs []string) ([]TrackRecord, error)

	// Name returns the name of the catalog provider (e.g., "Spotify")
	Name() string
}

// ArtistRecord is catalog artist metadata, provider-neutral.
type ArtistRecord struct {
	ID        string
	Name      string
	ImageURL  string
	Followers int
}

// TrackRecord is catalog track metadata, provider-neutral.
type TrackRecord struct {
	ID         string
	Name       string
	Artists    string // display string of the performing artists
	ImageURL   string
	Popularity int
}
