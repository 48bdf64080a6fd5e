package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/greenie/internal/models"
	"github.com/julianstephens/greenie/internal/session"
	"github.com/julianstephens/greenie/internal/tui/components/activitylist"
	"github.com/julianstephens/greenie/internal/tui/components/chat"
	"github.com/julianstephens/greenie/internal/tui/components/habitlist"
	"github.com/julianstephens/greenie/internal/tui/components/onboarding"
)

type SessionState int

const (
	StateDashboard SessionState = iota
	StateHabits
	StateActivities
	StateChat
	StateProfile
	StateSignup
	StateOnboarding
	StateLogActivity
	StateEditProfile
	StateConfirmDelete
)

var tabTitles = []string{"Dashboard", "Habits", "Activities", "Coach", "Profile"}

type SignupFormModel struct {
	Email string
	Name  string
}

type ActivityFormModel struct {
	Type     models.ActivityType
	Quantity string
}

type ProfileFormModel struct {
	Name            string
	Email           string
	Diet            models.DietPreference
	Commute         models.CommutePreference
	Goal            string
	DailyTip        bool
	TipTime         string
	GoalMet         bool
	StreakMilestone bool
}

type Model struct {
	sess  *session.Session
	state SessionState
	keys  KeyMap
	help  help.Model

	plantBar  progress.Model
	carbonBar progress.Model

	habitsModel     habitlist.Model
	activitiesModel activitylist.Model
	chatModel       chat.Model

	form         *huh.Form
	signupForm   *SignupFormModel
	answers      *onboarding.Answers
	activityForm *ActivityFormModel
	profileForm  *ProfileFormModel

	activityToDeleteID string
	status             string
	err                error
	quitting           bool
	width              int
	height             int
}

// NewModel builds the TUI over an open session. Signed-out sessions start
// at the sign-up form and unfinished onboarding resumes at the questionnaire.
func NewModel(sess *session.Session) Model {
	m := Model{
		sess:            sess,
		state:           StateDashboard,
		keys:            DefaultKeyMap(),
		help:            help.New(),
		plantBar:        progress.New(progress.WithGradient("#A8E6A1", "#2E8B57")),
		carbonBar:       progress.New(progress.WithGradient("#8FD694", "#E4572E")),
		habitsModel:     habitlist.New(0, 0),
		activitiesModel: activitylist.New(nil, 0, 0),
		chatModel:       chat.New(0, 0),
	}
	m.refresh()

	st := sess.State()
	switch {
	case st.User == nil:
		m.startSignup()
	case !st.OnboardingCompleted:
		m.startOnboarding()
	}
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateDashboard:
		keys = append(keys, m.keys.Log)
	case StateChat:
		keys = []key.Binding{m.keys.Tab, m.keys.ForceQuit, m.keys.Enter}
	case StateProfile:
		keys = append(keys, m.keys.Edit, m.keys.Onboard, m.keys.Logout)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}

	var actions []key.Binding
	switch m.state {
	case StateDashboard:
		actions = []key.Binding{m.keys.Log}
	case StateHabits:
		hk := habitlist.DefaultKeyMap()
		actions = []key.Binding{hk.Toggle, hk.Track, hk.Untrack}
	case StateActivities:
		ak := activitylist.DefaultKeyMap()
		actions = []key.Binding{ak.Add, ak.Delete}
	case StateProfile:
		actions = []key.Binding{m.keys.Edit, m.keys.Onboard, m.keys.Logout}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	if m.form != nil {
		return m.form.Init()
	}
	return nil
}

// refresh copies the session snapshot into the child components.
func (m *Model) refresh() {
	st := m.sess.State()
	today := m.sess.Today()
	m.habitsModel.SetHabits(st.Habits, st.User, today)
	m.activitiesModel.SetActivities(st.ActivitiesOn(today.Date))
	m.chatModel.SetMessages(st.ChatMessages)
}

func (m *Model) setResult(status string, err error) {
	m.err = err
	if err != nil {
		m.status = ""
		return
	}
	m.status = status
}
