package models

import (
	"slices"
	"time"
)

// DailyProgress is the aggregate snapshot for a single day
type DailyProgress struct {
	Date            string   `json:"date"` // YYYY-MM-DD format
	TotalKgCO2      float64  `json:"total_kg_co2"`
	PointsEarned    int      `json:"points_earned"`
	HabitsCompleted []string `json:"habits_completed"`
	GoalMet         bool     `json:"goal_met"`
}

// NewDailyProgress returns an empty snapshot for date.
func NewDailyProgress(date string) DailyProgress {
	return DailyProgress{
		Date:            date,
		HabitsCompleted: []string{},
		GoalMet:         true,
	}
}

// HasCompleted reports whether habitID is among today's completed habits.
func (p DailyProgress) HasCompleted(habitID string) bool {
	return slices.Contains(p.HabitsCompleted, habitID)
}

// WithGoal recomputes GoalMet against a daily carbon goal.
func (p DailyProgress) WithGoal(goal float64) DailyProgress {
	p.GoalMet = p.TotalKgCO2 <= goal
	return p
}

// Clone returns a copy that shares no slices with p.
func (p DailyProgress) Clone() DailyProgress {
	p.HabitsCompleted = slices.Clone(p.HabitsCompleted)
	return p
}

// PlantStage is a gamification tier keyed by a lifetime point threshold
type PlantStage struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	MinPoints   int    `json:"min_points"`
	Description string `json:"description"`
}

// ChatMessage is a transcript entry
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"is_user"`
	Timestamp time.Time `json:"timestamp"`
}
