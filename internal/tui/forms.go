package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/greenie/internal/carbon"
	"github.com/julianstephens/greenie/internal/models"
	"github.com/julianstephens/greenie/internal/tui/components/onboarding"
	"github.com/julianstephens/greenie/internal/validation"
)

func (m *Model) startSignup() {
	m.signupForm = &SignupFormModel{}
	m.form = NewSignupForm(m.signupForm)
	m.state = StateSignup
}

func (m *Model) startOnboarding() {
	st := m.sess.State()
	m.answers = &onboarding.Answers{}
	if st.User != nil {
		m.answers.Diet = st.User.DietPreference
		m.answers.Commute = st.User.CommutePreference
		m.answers.Goal = st.User.DailyCarbonGoal
		m.answers.HabitIDs = st.User.ActiveHabits
	}
	m.form = onboarding.NewForm(st.Habits, m.answers)
	m.state = StateOnboarding
}

func (m *Model) startLogActivity() {
	m.activityForm = &ActivityFormModel{Type: models.ActivityCar}
	m.form = NewActivityForm(m.activityForm)
	m.state = StateLogActivity
}

func (m *Model) startEditProfile() {
	u := m.sess.State().User
	if u == nil {
		return
	}
	m.profileForm = &ProfileFormModel{
		Name:            u.Name,
		Email:           u.Email,
		Diet:            u.DietPreference,
		Commute:         u.CommutePreference,
		Goal:            strconv.FormatFloat(u.DailyCarbonGoal, 'f', -1, 64),
		DailyTip:        u.NotificationSettings.DailyTip,
		TipTime:         u.NotificationSettings.TipTime,
		GoalMet:         u.NotificationSettings.GoalMet,
		StreakMilestone: u.NotificationSettings.StreakMilestone,
	}
	m.form = NewProfileForm(m.profileForm)
	m.state = StateEditProfile
}

// NewSignupForm creates the local account form.
func NewSignupForm(fm *SignupFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to Greenie 🌱").
				Description("Create a local account to start tracking your footprint."),
			huh.NewInput().
				Title("Email").
				Value(&fm.Email).
				Validate(validation.Email),
			huh.NewInput().
				Title("Name").
				Placeholder("User").
				Value(&fm.Name),
		),
	)
}

// NewActivityForm creates the log activity form.
func NewActivityForm(fm *ActivityFormModel) *huh.Form {
	options := make([]huh.Option[models.ActivityType], 0)
	for _, t := range carbon.SelectableTypes() {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", t.Name, t.Unit), t.ID))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.ActivityType]().
				Title("Activity").
				Options(options...).
				Value(&fm.Type),
			huh.NewInput().
				Title("Quantity").
				Value(&fm.Quantity).
				Validate(func(s string) error {
					q, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil {
						return fmt.Errorf("quantity must be a number")
					}
					return validation.Quantity(q)
				}),
		),
	)
}

// NewProfileForm creates the edit profile form.
func NewProfileForm(fm *ProfileFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Email").
				Value(&fm.Email).
				Validate(validation.Email),
			huh.NewSelect[models.DietPreference]().
				Title("Diet").
				Options(
					huh.NewOption("Omnivore", models.DietOmnivore),
					huh.NewOption("Vegetarian", models.DietVegetarian),
					huh.NewOption("Vegan", models.DietVegan),
					huh.NewOption("Pescatarian", models.DietPescatarian),
				).
				Value(&fm.Diet),
			huh.NewSelect[models.CommutePreference]().
				Title("Commute").
				Options(
					huh.NewOption("Car", models.CommuteCar),
					huh.NewOption("Public transit", models.CommuteTransit),
					huh.NewOption("Bike", models.CommuteBike),
				).
				Value(&fm.Commute),
			huh.NewInput().
				Title("Daily carbon goal (kg CO₂)").
				Value(&fm.Goal).
				Validate(func(s string) error {
					g, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil {
						return fmt.Errorf("goal must be a number")
					}
					return validation.Goal(g)
				}),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Daily tip").
				Value(&fm.DailyTip),
			huh.NewInput().
				Title("Tip time (HH:MM)").
				Value(&fm.TipTime).
				Validate(validation.TimeOfDay),
			huh.NewConfirm().
				Title("Notify when today's goal is met").
				Value(&fm.GoalMet),
			huh.NewConfirm().
				Title("Notify on streak milestones").
				Value(&fm.StreakMilestone),
		),
	)
}

// submitForm applies a completed form and reports where to go next.
func (m *Model) submitForm() (SessionState, error) {
	switch m.state {
	case StateSignup:
		if _, err := m.sess.SignUp(m.signupForm.Email, m.signupForm.Name); err != nil {
			return StateSignup, err
		}
		m.startOnboarding()
		return StateOnboarding, nil

	case StateOnboarding:
		a := m.answers
		if err := m.sess.CompleteOnboarding(a.Diet, a.Commute, a.Goal, a.HabitIDs); err != nil {
			return StateOnboarding, err
		}
		m.status = "Onboarding complete. Let's grow! 🌱"
		return StateDashboard, nil

	case StateLogActivity:
		q, err := strconv.ParseFloat(strings.TrimSpace(m.activityForm.Quantity), 64)
		if err != nil {
			return StateLogActivity, err
		}
		a, err := m.sess.LogActivity(m.activityForm.Type, q)
		if err != nil {
			return StateLogActivity, err
		}
		m.status = fmt.Sprintf("Logged %s: %.2f kg CO₂", a.ActivityType, a.KgCO2)
		return StateActivities, nil

	case StateEditProfile:
		fm := m.profileForm
		goal, err := strconv.ParseFloat(strings.TrimSpace(fm.Goal), 64)
		if err != nil {
			return StateEditProfile, err
		}
		settings := models.NotificationSettings{
			DailyTip:        fm.DailyTip,
			TipTime:         fm.TipTime,
			GoalMet:         fm.GoalMet,
			StreakMilestone: fm.StreakMilestone,
		}
		patch := models.ProfilePatch{
			Name:                 &fm.Name,
			Email:                &fm.Email,
			DietPreference:       &fm.Diet,
			CommutePreference:    &fm.Commute,
			DailyCarbonGoal:      &goal,
			NotificationSettings: &settings,
		}
		if err := m.sess.UpdateProfile(patch); err != nil {
			return StateEditProfile, err
		}
		m.status = "Profile updated."
		return StateProfile, nil
	}
	return StateDashboard, nil
}

// abortState is where a cancelled form returns to.
func (m *Model) abortState() SessionState {
	switch m.state {
	case StateLogActivity:
		return StateActivities
	case StateEditProfile, StateOnboarding:
		if m.sess.State().User == nil {
			return StateSignup
		}
		return StateProfile
	}
	return m.state
}
