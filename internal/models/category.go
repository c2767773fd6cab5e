package models

import (
	"fmt"
)

// Category identifies one of the four fixed favorite slots a user can fill.
//
// The value doubles as the discriminant between artist- and track-shaped
// entities: artist categories rank by follower count, track categories by
// popularity.
type Category string

const (
	AllTimeArtist Category = "ALL_TIME_ARTIST"
	AllTimeTrack  Category = "ALL_TIME_TRACK"
	CurrentArtist Category = "CURRENT_ARTIST"
	CurrentTrack  Category = "CURRENT_TRACK"
)

// Categories returns all valid categories in their canonical order.
//
// Reconciliation applies categories in this order so a given submission
// always produces the same write sequence.
func Categories() []Category {
	return []Category{AllTimeArtist, AllTimeTrack, CurrentArtist, CurrentTrack}
}

// ParseCategory converts a raw string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case AllTimeArtist, AllTimeTrack, CurrentArtist, CurrentTrack:
		return true
	}
	return false
}

// IsArtist reports whether c ranks artists (as opposed to tracks).
func (c Category) IsArtist() bool {
	return c == AllTimeArtist || c == CurrentArtist
}

// MetricName returns the name of the tiebreak metric for this category.
func (c Category) MetricName() string {
	if c.IsArtist() {
		return "followers"
	}
	return "popularity"
}

func (c Category) String() string {
	return string(c)
}
