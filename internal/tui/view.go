package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/greenie/internal/constants"
	"github.com/julianstephens/greenie/internal/plant"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateDashboard:
		content = m.viewDashboard()
	case StateHabits:
		content = docStyle.Render(m.habitsModel.View())
	case StateActivities:
		content = docStyle.Render(m.activitiesModel.View())
	case StateChat:
		content = docStyle.Render(m.chatModel.View())
	case StateProfile:
		content = m.viewProfile()
	case StateSignup, StateOnboarding, StateLogActivity, StateEditProfile:
		if m.form != nil {
			content = docStyle.Render(m.form.View())
		}
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
	return ui
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return dangerStyle.Render("✗ " + m.err.Error())
	}
	if m.status != "" {
		return successStyle.Render(m.status)
	}
	return ""
}

func (m Model) viewDashboard() string {
	st := m.sess.State()
	if st.User == nil {
		return docStyle.Render("Not signed in.")
	}
	u := st.User
	today := m.sess.Today()

	var b strings.Builder

	stage := plant.CurrentStage(u.TotalPoints)
	b.WriteString(headingStyle.Render(fmt.Sprintf("🌱 %s", stage.Name)) + "\n")
	b.WriteString(mutedStyle.Render(stage.Description) + "\n")
	b.WriteString(m.plantBar.ViewAs(plant.ProgressFraction(u.TotalPoints)) + "\n")
	if next, ok := plant.NextStage(u.TotalPoints); ok {
		b.WriteString(fmt.Sprintf("%d pts · %d to %s\n\n", u.TotalPoints, plant.PointsToNext(u.TotalPoints), next.Name))
	} else {
		b.WriteString(fmt.Sprintf("%d pts · fully grown\n\n", u.TotalPoints))
	}

	b.WriteString(headingStyle.Render("Today's footprint") + "\n")
	fraction := 0.0
	if u.DailyCarbonGoal > 0 {
		fraction = min(today.TotalKgCO2/u.DailyCarbonGoal, 1)
	}
	b.WriteString(m.carbonBar.ViewAs(fraction) + "\n")
	b.WriteString(fmt.Sprintf("%.2f / %.2f kg CO₂  ", today.TotalKgCO2, u.DailyCarbonGoal))
	if today.GoalMet {
		b.WriteString(successStyle.Render("within goal") + "\n\n")
	} else {
		b.WriteString(warningStyle.Render("over goal") + "\n\n")
	}

	b.WriteString(headingStyle.Render(fmt.Sprintf("Habits · 🔥 %d day streak · +%d pts today", u.CurrentStreak, today.PointsEarned)) + "\n")
	active := st.ActiveHabits()
	if len(active) == 0 {
		b.WriteString(mutedStyle.Render("No tracked habits. Track some on the Habits tab.") + "\n")
	}
	for _, h := range active {
		mark := "○"
		if today.HasCompleted(h.ID) {
			mark = successStyle.Render("✓")
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", mark, h.Name, mutedStyle.Render(fmt.Sprintf("+%d", h.Points))))
	}

	return docStyle.Render(b.String())
}

func (m Model) viewProfile() string {
	u := m.sess.State().User
	if u == nil {
		return docStyle.Render("Not signed in.")
	}
	n := u.NotificationSettings
	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}

	rows := [][2]string{
		{"Name", u.Name},
		{"Email", u.Email},
		{"Diet", string(u.DietPreference)},
		{"Commute", string(u.CommutePreference)},
		{"Daily goal", fmt.Sprintf("%.2f kg CO₂", u.DailyCarbonGoal)},
		{"Total points", fmt.Sprintf("%d", u.TotalPoints)},
		{"Streak", fmt.Sprintf("%d day(s)", u.CurrentStreak)},
		{"Member since", u.CreatedAt.Format(constants.DateFormat)},
		{"Daily tip", fmt.Sprintf("%s at %s", onOff(n.DailyTip), n.TipTime)},
		{"Goal met alerts", onOff(n.GoalMet)},
		{"Streak alerts", onOff(n.StreakMilestone)},
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render("Profile") + "\n\n")
	label := mutedStyle.Width(18)
	for _, r := range rows {
		b.WriteString(label.Render(r[0]) + r[1] + "\n")
	}
	return docStyle.Render(b.String())
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete this activity? Its footprint will be removed from today."),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
