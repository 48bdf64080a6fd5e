package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/greenie/internal/catalog"
	"github.com/julianstephens/greenie/internal/models"
	"github.com/julianstephens/greenie/internal/state"
)

func TestFieldValidators(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"positive quantity", Quantity(12.5), nil},
		{"zero quantity", Quantity(0), ErrInvalidQuantity},
		{"negative quantity", Quantity(-3), ErrInvalidQuantity},
		{"NaN quantity", Quantity(math.NaN()), ErrInvalidQuantity},
		{"infinite quantity", Quantity(math.Inf(1)), ErrInvalidQuantity},
		{"goal", Goal(8), nil},
		{"zero goal", Goal(0), ErrInvalidGoal},
		{"date", Date("2025-06-14"), nil},
		{"bad date", Date("14/06/2025"), ErrInvalidDate},
		{"impossible date", Date("2025-02-30"), ErrInvalidDate},
		{"time", TimeOfDay("09:00"), nil},
		{"bad time", TimeOfDay("9am"), ErrInvalidTime},
		{"out of range time", TimeOfDay("25:00"), ErrInvalidTime},
		{"email", Email("ada@example.com"), nil},
		{"email with name", Email("Ada <ada@example.com>"), ErrInvalidEmail},
		{"not an email", Email("ada"), ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr == nil {
				if tt.err != nil {
					t.Errorf("unexpected error: %v", tt.err)
				}
				return
			}
			if !errors.Is(tt.err, tt.wantErr) {
				t.Errorf("error = %v, want %v", tt.err, tt.wantErr)
			}
		})
	}
}

// consistentState returns a snapshot whose aggregates agree with its history.
func consistentState() state.State {
	at := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	s := state.Initial()
	s.Habits = catalog.Default()
	s.User = &models.UserProfile{
		ID:              "u",
		DailyCarbonGoal: 8,
		TotalPoints:     13,
		PlantStage:      0,
		ActiveHabits:    []string{"1", "6"},
		NotificationSettings: models.NotificationSettings{
			TipTime: "09:00",
		},
	}
	s.HabitCompletions = []models.HabitCompletion{
		{ID: "c1", HabitID: "1", Date: "2025-06-13", PointsEarned: 5},
		{ID: "c2", HabitID: "6", Date: "2025-06-14", PointsEarned: 8},
	}
	s.Activities = []models.Activity{
		{ID: "a1", ActivityType: models.ActivityCar, Quantity: 10, KgCO2: 2.1, Timestamp: at},
		{ID: "a2", ActivityType: models.ActivityShower, Quantity: 5, KgCO2: 2.5, Timestamp: at},
		{ID: "a0", ActivityType: models.ActivityWaste, Quantity: 1, KgCO2: 1.2, Timestamp: at.AddDate(0, 0, -1)},
	}
	s.DailyProgress = &models.DailyProgress{
		Date:            "2025-06-14",
		TotalKgCO2:      4.6,
		PointsEarned:    8,
		HabitsCompleted: []string{"6"},
		GoalMet:         true,
	}
	return s
}

func conflictTypes(r ValidationResult) []ConflictType {
	var out []ConflictType
	for _, c := range r.Conflicts {
		out = append(out, c.Type)
	}
	return out
}

func TestValidateStateConsistent(t *testing.T) {
	result := New().ValidateState(consistentState())
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got: %s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report %q", result.FormatReport())
	}
}

func TestValidateStateEmpty(t *testing.T) {
	result := New().ValidateState(state.Initial())
	if result.HasConflicts() {
		t.Errorf("expected no conflicts for the initial state, got: %s", result.FormatReport())
	}
}

func TestValidateStateDetectsConflicts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *state.State)
		want   ConflictType
	}{
		{"duplicate habit id", func(s *state.State) {
			s.Habits = append(s.Habits, s.Habits[0])
		}, ConflictDuplicateHabitID},
		{"invalid habit", func(s *state.State) {
			s.Habits[2].Points = 0
		}, ConflictInvalidHabit},
		{"unknown active habit", func(s *state.State) {
			s.User.ActiveHabits = append(s.User.ActiveHabits, "42")
		}, ConflictUnknownActiveHabit},
		{"completion of unknown habit", func(s *state.State) {
			s.HabitCompletions = append(s.HabitCompletions, models.HabitCompletion{ID: "c3", HabitID: "42", Date: "2025-06-14"})
		}, ConflictUnknownHabitReference},
		{"duplicate completion", func(s *state.State) {
			s.HabitCompletions = append(s.HabitCompletions, models.HabitCompletion{ID: "c3", HabitID: "6", Date: "2025-06-14"})
		}, ConflictDuplicateCompletion},
		{"invalid activity", func(s *state.State) {
			s.Activities[0].Quantity = -1
		}, ConflictInvalidActivity},
		{"bad completion date", func(s *state.State) {
			s.HabitCompletions[0].Date = "yesterday"
		}, ConflictInvalidDateTime},
		{"bad tip time", func(s *state.State) {
			s.User.NotificationSettings.TipTime = "noon"
		}, ConflictInvalidDateTime},
		{"carbon drift", func(s *state.State) {
			s.DailyProgress.TotalKgCO2 = 9
		}, ConflictCarbonTotalDrift},
		{"points drift", func(s *state.State) {
			s.User.TotalPoints = 100
			s.User.PlantStage = 2
		}, ConflictPointsDrift},
		{"plant stage drift", func(s *state.State) {
			s.User.PlantStage = 4
		}, ConflictPlantStageDrift},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := consistentState()
			tt.mutate(&s)
			result := New().ValidateState(s)
			found := false
			for _, ct := range conflictTypes(result) {
				if ct == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %s, got %v", tt.want, conflictTypes(result))
			}
			if !strings.HasPrefix(result.FormatReport(), "Conflicts detected:") {
				t.Errorf("unexpected report %q", result.FormatReport())
			}
		})
	}
}
