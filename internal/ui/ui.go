package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jihohub/track-list-now/internal/models"
	"github.com/jihohub/track-list-now/internal/ranking"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CategoryListView ViewState = iota
	RankingView
)

// rankingFetchedMsg carries one category's top-N read result.
type rankingFetchedMsg struct {
	category models.Category
	entries  []models.RankedEntry
	err      error
}

// Model represents the TUI application state.
type Model struct {
	view         ViewState
	aggregate    *ranking.Aggregate
	limit        int
	width        int
	height       int
	categoryList list.Model
	entryList    list.Model
	category     models.Category
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model over the ranking aggregate. limit bounds
// how many entries each category view loads.
func NewModel(aggregate *ranking.Aggregate, limit int) *Model {
	items := make([]list.Item, 0, 4)
	for _, category := range models.Categories() {
		items = append(items, categoryItem{category: category})
	}

	categoryList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	categoryList.Title = "Track List Now"

	return &Model{
		view:         CategoryListView,
		aggregate:    aggregate,
		limit:        limit,
		categoryList: categoryList,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init implements [tea.Model]. The category list is static, so there is
// nothing to fetch up front.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.categoryList.SetSize(msg.Width-4, msg.Height-8)
		if m.entryList.Width() != 0 {
			m.entryList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CategoryListView:
			return m.handleCategoryListKeys(msg)
		case RankingView:
			return m.handleRankingKeys(msg)
		}

	case rankingFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.category = msg.category
		items := make([]list.Item, len(msg.entries))
		for i, entry := range msg.entries {
			items[i] = entryItem{rank: i + 1, entry: entry}
		}
		m.entryList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.entryList.Title = fmt.Sprintf("Top %d — %s", len(items), msg.category)
		m.entryList.SetSize(m.width-4, m.height-8)
		m.view = RankingView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case CategoryListView:
		return m.renderCategoryList()
	case RankingView:
		return m.renderRanking()
	default:
		return ""
	}
}

func (m *Model) handleCategoryListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if selected := m.categoryList.SelectedItem(); selected != nil {
			if item, ok := selected.(categoryItem); ok {
				return m, m.fetchRanking(item.category)
			}
		}
	}

	var cmd tea.Cmd
	m.categoryList, cmd = m.categoryList.Update(msg)
	return m, cmd
}

func (m *Model) handleRankingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = CategoryListView
		return m, nil
	case "r":
		return m, m.fetchRanking(m.category)
	}

	var cmd tea.Cmd
	m.entryList, cmd = m.entryList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CategoryListView:
		m.categoryList, cmd = m.categoryList.Update(msg)
	case RankingView:
		m.entryList, cmd = m.entryList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchRanking(category models.Category) tea.Cmd {
	return func() tea.Msg {
		entries, err := m.aggregate.TopN(category, m.limit)
		return rankingFetchedMsg{category: category, entries: entries, err: err}
	}
}

func (m *Model) renderCategoryList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.categoryList.View(), helpView)
}

func (m *Model) renderRanking() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.reload, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.entryList.View(), helpView)
}
