package activitylist

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/greenie/internal/constants"
	"github.com/julianstephens/greenie/internal/models"
)

type AddActivityMsg struct{}

type DeleteActivityMsg struct {
	ID string
}

type Item struct {
	Activity models.Activity
}

func (i Item) Title() string {
	return fmt.Sprintf("%s  %.2f kg CO₂", i.Activity.ActivityType, i.Activity.KgCO2)
}

func (i Item) Description() string {
	return fmt.Sprintf("%s %s | %s",
		strconv.FormatFloat(i.Activity.Quantity, 'f', -1, 64),
		i.Activity.Unit,
		i.Activity.Timestamp.Format(constants.TimeFormat),
	)
}

func (i Item) FilterValue() string { return string(i.Activity.ActivityType) }

type KeyMap struct {
	Add    key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "log activity"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(activities []models.Activity, width, height int) Model {
	l := list.New(toItems(activities), list.NewDefaultDelegate(), width, height)
	l.Title = "Today's activities"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

// SetActivities replaces the list, newest first.
func (m *Model) SetActivities(activities []models.Activity) {
	m.list.SetItems(toItems(activities))
}

func toItems(activities []models.Activity) []list.Item {
	items := make([]list.Item, 0, len(activities))
	for i := len(activities) - 1; i >= 0; i-- {
		items = append(items, Item{Activity: activities[i]})
	}
	return items
}

func (m Model) Len() int { return len(m.list.Items()) }

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
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddActivityMsg{} }
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteActivityMsg{ID: i.Activity.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  Nothing logged today.\n  Press 'a' to log an activity."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
