// Package state holds the single authoritative session state and the pure
// transition function that is the only way to change it.
package state

import (
	"slices"

	"github.com/google/uuid"

	"github.com/julianstephens/greenie/internal/clock"
	"github.com/julianstephens/greenie/internal/models"
)

// State is the in-memory session state. A nil User means nobody is signed in.
type State struct {
	User                *models.UserProfile      `json:"user"`
	Authenticated       bool                     `json:"authenticated"`
	Loading             bool                     `json:"loading"`
	Activities          []models.Activity        `json:"activities"`
	DailyProgress       *models.DailyProgress    `json:"daily_progress"`
	ChatMessages        []models.ChatMessage     `json:"chat_messages"`
	Habits              []models.Habit           `json:"habits"`
	HabitCompletions    []models.HabitCompletion `json:"habit_completions"`
	OnboardingCompleted bool                     `json:"onboarding_completed"`
}

// Initial returns the state of a fresh session before anything is loaded.
func Initial() State {
	return State{
		Loading:          true,
		Activities:       []models.Activity{},
		ChatMessages:     []models.ChatMessage{},
		Habits:           []models.Habit{},
		HabitCompletions: []models.HabitCompletion{},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	if s.User != nil {
		u := s.User.Clone()
		out.User = &u
	}
	if s.DailyProgress != nil {
		p := s.DailyProgress.Clone()
		out.DailyProgress = &p
	}
	out.Activities = cloneOrEmpty(s.Activities)
	out.ChatMessages = cloneOrEmpty(s.ChatMessages)
	out.Habits = cloneOrEmpty(s.Habits)
	out.HabitCompletions = cloneOrEmpty(s.HabitCompletions)
	return out
}

// Habit looks up a catalog entry by id.
func (s State) Habit(id string) (models.Habit, bool) {
	return models.FindHabit(s.Habits, id)
}

// ActiveHabits returns the catalog entries the user tracks, in catalog order.
func (s State) ActiveHabits() []models.Habit {
	if s.User == nil {
		return nil
	}
	var out []models.Habit
	for _, h := range s.Habits {
		if s.User.IsTracking(h.ID) {
			out = append(out, h)
		}
	}
	return out
}

// ActivitiesOn returns the activities logged on day (YYYY-MM-DD).
func (s State) ActivitiesOn(day string) []models.Activity {
	var out []models.Activity
	for _, a := range s.Activities {
		if a.Day() == day {
			out = append(out, a)
		}
	}
	return out
}

// CompletionsOn returns the habit completions recorded for day.
func (s State) CompletionsOn(day string) []models.HabitCompletion {
	var out []models.HabitCompletion
	for _, c := range s.HabitCompletions {
		if c.Date == day {
			out = append(out, c)
		}
	}
	return out
}

// Env carries the non-deterministic collaborators the reducer needs.
type Env struct {
	NewID func() string
	Clock clock.Clock
}

// DefaultEnv uses random UUIDs and the system clock.
func DefaultEnv() Env {
	return Env{
		NewID: uuid.NewString,
		Clock: clock.System{},
	}
}

func (e Env) withDefaults() Env {
	if e.NewID == nil {
		e.NewID = uuid.NewString
	}
	if e.Clock == nil {
		e.Clock = clock.System{}
	}
	return e
}

func cloneOrEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}
