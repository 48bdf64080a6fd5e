// Package onboarding builds the first-run questionnaire shared by the CLI and the TUI.
package onboarding

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/greenie/internal/constants"
	"github.com/julianstephens/greenie/internal/models"
)

// Answers collects the onboarding choices.
type Answers struct {
	Diet     models.DietPreference
	Commute  models.CommutePreference
	Goal     float64
	HabitIDs []string
}

// Defaults fills unset answers with the sign-up defaults.
func (a *Answers) Defaults() {
	if a.Diet == "" {
		a.Diet = models.DietOmnivore
	}
	if a.Commute == "" {
		a.Commute = models.CommuteCar
	}
	if a.Goal == 0 {
		a.Goal = constants.DefaultDailyCarbonGoal
	}
}

// NewForm creates the onboarding form over the given habit catalog.
func NewForm(habits []models.Habit, a *Answers) *huh.Form {
	a.Defaults()

	goals := make([]huh.Option[float64], 0, len(constants.CarbonGoalOptions))
	for _, g := range constants.CarbonGoalOptions {
		goals = append(goals, huh.NewOption(fmt.Sprintf("%.0f kg CO₂ / day", g), g))
	}

	habitOptions := make([]huh.Option[string], 0, len(habits))
	for _, h := range habits {
		habitOptions = append(habitOptions, huh.NewOption(fmt.Sprintf("%s (+%d pts)", h.Name, h.Points), h.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.DietPreference]().
				Title("Diet").
				Options(
					huh.NewOption("Omnivore", models.DietOmnivore),
					huh.NewOption("Vegetarian", models.DietVegetarian),
					huh.NewOption("Vegan", models.DietVegan),
					huh.NewOption("Pescatarian", models.DietPescatarian),
				).
				Value(&a.Diet),
			huh.NewSelect[models.CommutePreference]().
				Title("Commute").
				Options(
					huh.NewOption("Car", models.CommuteCar),
					huh.NewOption("Public transit", models.CommuteTransit),
					huh.NewOption("Bike", models.CommuteBike),
				).
				Value(&a.Commute),
			huh.NewSelect[float64]().
				Title("Daily carbon goal").
				Options(goals...).
				Value(&a.Goal),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Habits to track").
				Options(habitOptions...).
				Value(&a.HabitIDs),
		),
	)
}
