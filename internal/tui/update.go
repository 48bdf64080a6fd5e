package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/greenie/internal/tui/components/activitylist"
	"github.com/julianstephens/greenie/internal/tui/components/chat"
	"github.com/julianstephens/greenie/internal/tui/components/habitlist"
)

const tabCount = 5

// chrome is the vertical space taken by tabs, status and help.
const chrome = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.plantBar.Width = min(max(msg.Width-12, 10), 60)
		m.carbonBar.Width = m.plantBar.Width
		h, v := docStyle.GetFrameSize()
		m.habitsModel.SetSize(msg.Width-h, msg.Height-v-chrome)
		m.activitiesModel.SetSize(msg.Width-h, msg.Height-v-chrome)
		m.chatModel.SetSize(msg.Width-h, msg.Height-v-chrome)
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width - h)
		}
		return m, nil
	}

	switch m.state {
	case StateSignup, StateOnboarding, StateLogActivity, StateEditProfile:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if handled, cmd := m.handleComponentMsg(msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		// The coach tab owns the keyboard except for navigation and ctrl+c.
		if m.state == StateChat {
			switch {
			case key.Matches(msg, m.keys.ForceQuit):
				m.quitting = true
				return m, tea.Quit
			case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
				return m.switchTab(key.Matches(msg, m.keys.Tab))
			}
			var cmd tea.Cmd
			m.chatModel, cmd = m.chatModel.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			return m.switchTab(true)
		case key.Matches(msg, m.keys.ShiftTab):
			return m.switchTab(false)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		switch m.state {
		case StateDashboard:
			if key.Matches(msg, m.keys.Log) {
				m.startLogActivity()
				return m, m.form.Init()
			}
		case StateProfile:
			switch {
			case key.Matches(msg, m.keys.Edit):
				m.startEditProfile()
				if m.form != nil {
					return m, m.form.Init()
				}
			case key.Matches(msg, m.keys.Onboard):
				m.startOnboarding()
				return m, m.form.Init()
			case key.Matches(msg, m.keys.Logout):
				if err := m.sess.Logout(); err != nil {
					m.setResult("", err)
					return m, nil
				}
				m.refresh()
				m.startSignup()
				return m, m.form.Init()
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case StateActivities:
		m.activitiesModel, cmd = m.activitiesModel.Update(msg)
	case StateChat:
		m.chatModel, cmd = m.chatModel.Update(msg)
	}
	return m, cmd
}

func (m Model) switchTab(forward bool) (tea.Model, tea.Cmd) {
	if forward {
		m.state = (m.state + 1) % tabCount
	} else {
		m.state = (m.state - 1 + tabCount) % tabCount
	}
	m.refresh()
	if m.state == StateChat {
		return m, m.chatModel.Focus()
	}
	m.chatModel.Blur()
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, m.keys.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEsc {
			if m.state == StateSignup {
				m.quitting = true
				return m, tea.Quit
			}
			m.state = m.abortState()
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		next, err := m.submitForm()
		if err != nil {
			// Stay in the form so the user can correct the input
			m.setResult("", err)
			m.form.State = huh.StateNormal
			return m, tea.Batch(cmds...)
		}
		m.err = nil
		if next != StateOnboarding {
			m.form = nil
		}
		m.state = next
		m.refresh()
		if m.form != nil {
			cmds = append(cmds, m.form.Init())
		}
	case huh.StateAborted:
		m.state = m.abortState()
		m.form = nil
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		err := m.sess.DeleteActivity(m.activityToDeleteID)
		m.setResult("Activity deleted.", err)
		m.refresh()
		m.activityToDeleteID = ""
		m.state = StateActivities
	case key.Matches(keyMsg, m.keys.Cancel), key.Matches(keyMsg, m.keys.Quit):
		m.activityToDeleteID = ""
		m.state = StateActivities
	}
	return m, nil
}

// handleComponentMsg applies the actions emitted by the child components.
func (m *Model) handleComponentMsg(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case habitlist.ToggleHabitMsg:
		done, err := m.sess.ToggleHabit(msg.ID)
		status := "Habit undone."
		if done {
			status = "Habit done! 🌱"
		}
		m.setResult(status, err)
		m.refresh()
		return true, nil

	case habitlist.TrackHabitMsg:
		m.setResult("Habit tracked.", m.sess.TrackHabit(msg.ID))
		m.refresh()
		return true, nil

	case habitlist.UntrackHabitMsg:
		m.setResult("Habit untracked.", m.sess.UntrackHabit(msg.ID))
		m.refresh()
		return true, nil

	case activitylist.AddActivityMsg:
		m.startLogActivity()
		return true, m.form.Init()

	case activitylist.DeleteActivityMsg:
		m.activityToDeleteID = msg.ID
		m.state = StateConfirmDelete
		return true, nil

	case chat.SendMsg:
		_, err := m.sess.SendChat(msg.Text)
		m.setResult("", err)
		if err != nil {
			m.err = fmt.Errorf("message not sent: %w", err)
		}
		m.refresh()
		return true, nil
	}
	return false, nil
}
