package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/greenie/internal/models"
)

type ToggleHabitMsg struct {
	ID string
}

type TrackHabitMsg struct {
	ID string
}

type UntrackHabitMsg struct {
	ID string
}

type Item struct {
	Habit     models.Habit
	IsTracked bool
	IsDone    bool
}

func (i Item) Title() string {
	title := i.Habit.Name
	if i.IsDone {
		title = "✓ " + title
	} else {
		title = "○ " + title
	}
	if i.IsTracked {
		title += " ★"
	}
	return title
}

func (i Item) Description() string {
	desc := fmt.Sprintf("+%d pts | %s", i.Habit.Points, i.Habit.Category)
	if i.IsDone {
		desc += " | done today"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Toggle  key.Binding
	Track   key.Binding
	Untrack key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "done/undo"),
		),
		Track: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "track"),
		),
		Untrack: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "untrack"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Track, keys.Untrack}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Track, keys.Untrack}
	}
	return Model{list: l, keys: keys}
}

// SetHabits rebuilds the items from the catalog, the user's tracked habits
// and today's progress. Tracked habits are listed first.
func (m *Model) SetHabits(habits []models.Habit, user *models.UserProfile, today models.DailyProgress) {
	var tracked, rest []list.Item
	for _, h := range habits {
		item := Item{Habit: h, IsDone: today.HasCompleted(h.ID)}
		if user != nil && user.IsTracking(h.ID) {
			item.IsTracked = true
			tracked = append(tracked, item)
			continue
		}
		rest = append(rest, item)
	}
	m.list.SetItems(append(tracked, rest...))
}

func (m Model) Items() []Item {
	out := make([]Item, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if i, ok := it.(Item); ok {
			out = append(out, i)
		}
	}
	return out
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Track):
			if i, ok := m.list.SelectedItem().(Item); ok && !i.IsTracked {
				return m, func() tea.Msg { return TrackHabitMsg{ID: i.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Untrack):
			if i, ok := m.list.SelectedItem().(Item); ok && i.IsTracked {
				return m, func() tea.Msg { return UntrackHabitMsg{ID: i.Habit.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  The habit catalog is empty."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
