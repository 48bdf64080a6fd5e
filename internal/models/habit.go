package models

import "fmt"

type HabitCategory string

const (
	CategoryTransport HabitCategory = "transport"
	CategoryFood      HabitCategory = "food"
	CategoryEnergy    HabitCategory = "energy"
	CategoryWaste     HabitCategory = "waste"
)

func (c HabitCategory) Valid() bool {
	switch c {
	case CategoryTransport, CategoryFood, CategoryEnergy, CategoryWaste:
		return true
	}
	return false
}

// Habit is a catalog entry describing a trackable green behavior
type Habit struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Points      int           `json:"points"`
	Icon        string        `json:"icon"`
	Category    HabitCategory `json:"category"`
}

// Validate checks the catalog invariants of a single habit.
func (h Habit) Validate() error {
	if h.ID == "" {
		return fmt.Errorf("habit id is required")
	}
	if h.Name == "" {
		return fmt.Errorf("habit %s: name is required", h.ID)
	}
	if h.Points <= 0 {
		return fmt.Errorf("habit %s: points must be positive, got %d", h.ID, h.Points)
	}
	if !h.Category.Valid() {
		return fmt.Errorf("habit %s: invalid category %q", h.ID, h.Category)
	}
	return nil
}

// HabitCompletion records that a habit was done on a calendar day.
// PointsEarned is copied from the catalog when the completion is recorded.
type HabitCompletion struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	HabitID      string `json:"habit_id"`
	Date         string `json:"date"` // YYYY-MM-DD format
	PointsEarned int    `json:"points_earned"`
}

// FindHabit returns the catalog entry with the given id.
func FindHabit(habits []Habit, id string) (Habit, bool) {
	for _, h := range habits {
		if h.ID == id {
			return h, true
		}
	}
	return Habit{}, false
}
