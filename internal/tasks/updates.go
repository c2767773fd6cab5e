package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ListEntities Phase = iota
	FetchArtists
	FetchTracks
	UpdateArtists
	UpdateTracks
)

func (p Phase) String() string {
	switch p {
	case ListEntities:
		return "list_entities"
	case FetchArtists:
		return "fetch_artists"
	case FetchTracks:
		return "fetch_tracks"
	case UpdateArtists:
		return "update_artists"
	case UpdateTracks:
		return "update_tracks"
	default:
		return ""
	}
}

func listEntitiesUpdate(artists, tracks int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ListEntities,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d artists and %d tracks to refresh", artists, tracks),
	}
}

func fetchBatchUpdate(phase Phase, step, total, size int) ProgressUpdate {
	noun := "artists"
	if phase == FetchTracks {
		noun = "tracks"
	}
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %d %s...", step, total, size, noun),
	}
}

func updateBatchUpdate(phase Phase, step, total, updated int) ProgressUpdate {
	noun := "artists"
	if phase == UpdateTracks {
		noun = "tracks"
	}
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Updated %d %s", step, total, updated, noun),
	}
}
