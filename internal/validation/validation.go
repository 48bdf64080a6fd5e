// Package validation checks user input and audits session snapshots for
// inconsistencies.
package validation

import (
	"errors"
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/julianstephens/greenie/internal/carbon"
	"github.com/julianstephens/greenie/internal/constants"
	"github.com/julianstephens/greenie/internal/models"
	"github.com/julianstephens/greenie/internal/plant"
	"github.com/julianstephens/greenie/internal/state"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive number")
	ErrInvalidGoal     = errors.New("daily carbon goal must be a positive number")
	ErrInvalidDate     = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidTime     = errors.New("time must be in HH:MM format")
	ErrInvalidEmail    = errors.New("invalid email address")
)

// Quantity rejects zero, negative and non-finite amounts.
func Quantity(q float64) error {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidQuantity, q)
	}
	return nil
}

// Goal rejects non-positive daily carbon goals.
func Goal(kg float64) error {
	if kg <= 0 || math.IsNaN(kg) || math.IsInf(kg, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidGoal, kg)
	}
	return nil
}

func Date(s string) error {
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return nil
}

func TimeOfDay(s string) error {
	if _, err := time.Parse(constants.TimeFormat, s); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return nil
}

// Email accepts a bare address such as ada@example.com.
func Email(s string) error {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != strings.TrimSpace(s) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, s)
	}
	return nil
}

// ConflictType names one kind of snapshot inconsistency.
type ConflictType string

const (
	ConflictDuplicateHabitID      ConflictType = "duplicate_habit_id"
	ConflictInvalidHabit          ConflictType = "invalid_habit"
	ConflictUnknownActiveHabit    ConflictType = "unknown_active_habit"
	ConflictUnknownHabitReference ConflictType = "unknown_habit_reference"
	ConflictDuplicateCompletion   ConflictType = "duplicate_completion"
	ConflictInvalidActivity       ConflictType = "invalid_activity"
	ConflictInvalidDateTime       ConflictType = "invalid_datetime"
	ConflictCarbonTotalDrift      ConflictType = "carbon_total_drift"
	ConflictPointsDrift           ConflictType = "points_drift"
	ConflictPlantStageDrift       ConflictType = "plant_stage_drift"
)

// Conflict is one detected inconsistency.
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD, when the conflict is tied to a day
	IDs         []string // ids of the records involved
}

// ValidationResult collects every conflict found in a snapshot.
type ValidationResult struct {
	Conflicts []Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// FormatReport returns a human-readable report of all conflicts.
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}
	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator audits session snapshots.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateState checks catalog integrity, record references, and that the
// stored aggregates agree with the history they summarise.
func (v *Validator) ValidateState(s state.State) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	v.validateCatalog(s.Habits, &result)
	v.validateCompletions(s, &result)
	v.validateActivities(s.Activities, &result)
	v.validateUser(s, &result)
	v.validateDailyProgress(s, &result)
	return result
}

func (v *Validator) validateCatalog(habits []models.Habit, result *ValidationResult) {
	seen := map[string]bool{}
	for _, h := range habits {
		if seen[h.ID] {
			result.add(Conflict{
				Type:        ConflictDuplicateHabitID,
				Description: fmt.Sprintf("Duplicate habit id %q in catalog", h.ID),
				IDs:         []string{h.ID},
			})
		}
		seen[h.ID] = true
		if err := h.Validate(); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidHabit,
				Description: fmt.Sprintf("Habit %q is invalid: %v", h.ID, err),
				IDs:         []string{h.ID},
			})
		}
	}
}

func (v *Validator) validateCompletions(s state.State, result *ValidationResult) {
	type key struct{ habit, date string }
	seen := map[key]string{}
	for _, c := range s.HabitCompletions {
		if Date(c.Date) != nil {
			result.add(Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Completion %s has invalid date %q", c.ID, c.Date),
				IDs:         []string{c.ID},
			})
		}
		if _, ok := s.Habit(c.HabitID); !ok {
			result.add(Conflict{
				Type:        ConflictUnknownHabitReference,
				Description: fmt.Sprintf("Completion %s references unknown habit %q", c.ID, c.HabitID),
				Date:        c.Date,
				IDs:         []string{c.ID},
			})
		}
		k := key{c.HabitID, c.Date}
		if first, dup := seen[k]; dup {
			result.add(Conflict{
				Type:        ConflictDuplicateCompletion,
				Description: fmt.Sprintf("Habit %q completed more than once on %s", c.HabitID, c.Date),
				Date:        c.Date,
				IDs:         []string{first, c.ID},
			})
			continue
		}
		seen[k] = c.ID
	}
}

func (v *Validator) validateActivities(activities []models.Activity, result *ValidationResult) {
	for _, a := range activities {
		var problems []string
		if !a.ActivityType.Valid() {
			problems = append(problems, fmt.Sprintf("unknown type %q", a.ActivityType))
		}
		if Quantity(a.Quantity) != nil {
			problems = append(problems, fmt.Sprintf("non-positive quantity %v", a.Quantity))
		}
		if a.KgCO2 < 0 {
			problems = append(problems, fmt.Sprintf("negative footprint %v", a.KgCO2))
		}
		if len(problems) > 0 {
			result.add(Conflict{
				Type:        ConflictInvalidActivity,
				Description: fmt.Sprintf("Activity %s: %s", a.ID, strings.Join(problems, ", ")),
				Date:        a.Day(),
				IDs:         []string{a.ID},
			})
		}
	}
}

func (v *Validator) validateUser(s state.State, result *ValidationResult) {
	u := s.User
	if u == nil {
		return
	}

	for _, id := range u.ActiveHabits {
		if _, ok := s.Habit(id); !ok {
			result.add(Conflict{
				Type:        ConflictUnknownActiveHabit,
				Description: fmt.Sprintf("Active habit %q is not in the catalog", id),
				IDs:         []string{id},
			})
		}
	}

	if tt := u.NotificationSettings.TipTime; tt != "" && TimeOfDay(tt) != nil {
		result.add(Conflict{
			Type:        ConflictInvalidDateTime,
			Description: fmt.Sprintf("Daily tip time %q is not HH:MM", tt),
		})
	}

	earned := 0
	for _, c := range s.HabitCompletions {
		earned += c.PointsEarned
	}
	if earned != u.TotalPoints {
		result.add(Conflict{
			Type:        ConflictPointsDrift,
			Description: fmt.Sprintf("Total points %d differ from the %d earned by completions", u.TotalPoints, earned),
		})
	}

	if want := plant.CurrentStage(u.TotalPoints).ID; u.PlantStage != want {
		result.add(Conflict{
			Type:        ConflictPlantStageDrift,
			Description: fmt.Sprintf("Plant stage %d does not match %d points (expected stage %d)", u.PlantStage, u.TotalPoints, want),
		})
	}
}

func (v *Validator) validateDailyProgress(s state.State, result *ValidationResult) {
	p := s.DailyProgress
	if p == nil {
		return
	}
	if Date(p.Date) != nil {
		result.add(Conflict{
			Type:        ConflictInvalidDateTime,
			Description: fmt.Sprintf("Daily progress has invalid date %q", p.Date),
		})
		return
	}

	logged := 0.0
	for _, a := range s.ActivitiesOn(p.Date) {
		logged += a.KgCO2
	}
	logged = carbon.Round2(logged)
	if math.Abs(logged-p.TotalKgCO2) > 0.011 {
		result.add(Conflict{
			Type:        ConflictCarbonTotalDrift,
			Description: fmt.Sprintf("Daily total %.2f kg on %s differs from %.2f kg of logged activities", p.TotalKgCO2, p.Date, logged),
			Date:        p.Date,
		})
	}

	for _, id := range p.HabitsCompleted {
		if _, ok := s.Habit(id); !ok {
			result.add(Conflict{
				Type:        ConflictUnknownHabitReference,
				Description: fmt.Sprintf("Daily progress for %s lists unknown habit %q", p.Date, id),
				Date:        p.Date,
				IDs:         []string{id},
			})
		}
	}
}
