package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/jihohub/track-list-now/internal/models"
)

var (
	_ list.Item = categoryItem{}
	_ list.Item = entryItem{}
)

// categoryItem wraps [models.Category] to implement [list.Item].
type categoryItem struct {
	category models.Category
}

func (i categoryItem) FilterValue() string { return string(i.category) }
func (i categoryItem) Title() string       { return string(i.category) }
func (i categoryItem) Description() string {
	if i.category.IsArtist() {
		return "artists ranked by favorites, tiebreak followers"
	}
	return "tracks ranked by favorites, tiebreak popularity"
}

// entryItem wraps [models.RankedEntry] to implement [list.Item].
type entryItem struct {
	rank  int
	entry models.RankedEntry
}

func (i entryItem) FilterValue() string { return i.entry.Name }
func (i entryItem) Title() string {
	return fmt.Sprintf("%d. %s", i.rank, i.entry.Name)
}
func (i entryItem) Description() string {
	desc := fmt.Sprintf("%d favorites", i.entry.Count)
	if i.entry.Artists != "" {
		desc = fmt.Sprintf("%s • %s", i.entry.Artists, desc)
	}
	return desc
}
