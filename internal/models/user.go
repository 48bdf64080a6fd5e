package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type DietPreference string

const (
	DietOmnivore    DietPreference = "omnivore"
	DietVegetarian  DietPreference = "vegetarian"
	DietVegan       DietPreference = "vegan"
	DietPescatarian DietPreference = "pescatarian"
)

func (d DietPreference) Valid() bool {
	switch d {
	case DietOmnivore, DietVegetarian, DietVegan, DietPescatarian:
		return true
	}
	return false
}

func ParseDiet(s string) (DietPreference, error) {
	d := DietPreference(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("invalid diet preference: %s (expected omnivore, vegetarian, vegan or pescatarian)", s)
	}
	return d, nil
}

type CommutePreference string

const (
	CommuteCar     CommutePreference = "car"
	CommuteTransit CommutePreference = "transit"
	CommuteBike    CommutePreference = "bike"
)

func (c CommutePreference) Valid() bool {
	switch c {
	case CommuteCar, CommuteTransit, CommuteBike:
		return true
	}
	return false
}

func ParseCommute(s string) (CommutePreference, error) {
	c := CommutePreference(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("invalid commute preference: %s (expected car, transit or bike)", s)
	}
	return c, nil
}

// NotificationSettings holds the user's notification toggles
type NotificationSettings struct {
	DailyTip        bool   `json:"daily_tip"`
	GoalMet         bool   `json:"goal_met"`
	StreakMilestone bool   `json:"streak_milestone"`
	TipTime         string `json:"tip_time"` // HH:MM format
}

// UserProfile is the identity, preferences and gamification state of the session user.
// PlantStage is derived from TotalPoints and is not authoritative.
type UserProfile struct {
	ID                   string               `json:"id"`
	Email                string               `json:"email"`
	Name                 string               `json:"name"`
	DietPreference       DietPreference       `json:"diet_preference"`
	CommutePreference    CommutePreference    `json:"commute_preference"`
	DailyCarbonGoal      float64              `json:"daily_carbon_goal"`
	TotalPoints          int                  `json:"total_points"`
	CurrentStreak        int                  `json:"current_streak"`
	PlantStage           int                  `json:"plant_stage"`
	ActiveHabits         []string             `json:"active_habits"`
	Badges               []string             `json:"badges"`
	NotificationSettings NotificationSettings `json:"notification_settings"`
	CreatedAt            time.Time            `json:"created_at"`
}

// Clone returns a copy that shares no slices with u.
func (u UserProfile) Clone() UserProfile {
	u.ActiveHabits = slices.Clone(u.ActiveHabits)
	u.Badges = slices.Clone(u.Badges)
	return u
}

// IsTracking reports whether habitID is one of the user's active habits.
func (u UserProfile) IsTracking(habitID string) bool {
	return slices.Contains(u.ActiveHabits, habitID)
}

// ProfilePatch is a partial UserProfile. Nil fields are left untouched by Apply.
type ProfilePatch struct {
	Email                *string
	Name                 *string
	DietPreference       *DietPreference
	CommutePreference    *CommutePreference
	DailyCarbonGoal      *float64
	TotalPoints          *int
	CurrentStreak        *int
	ActiveHabits         []string
	Badges               []string
	NotificationSettings *NotificationSettings
}

// Apply shallow-merges the non-nil fields of p into u and returns the result.
func (p ProfilePatch) Apply(u UserProfile) UserProfile {
	u = u.Clone()
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.DietPreference != nil {
		u.DietPreference = *p.DietPreference
	}
	if p.CommutePreference != nil {
		u.CommutePreference = *p.CommutePreference
	}
	if p.DailyCarbonGoal != nil {
		u.DailyCarbonGoal = *p.DailyCarbonGoal
	}
	if p.TotalPoints != nil {
		u.TotalPoints = *p.TotalPoints
	}
	if p.CurrentStreak != nil {
		u.CurrentStreak = *p.CurrentStreak
	}
	if p.ActiveHabits != nil {
		u.ActiveHabits = slices.Clone(p.ActiveHabits)
	}
	if p.Badges != nil {
		u.Badges = slices.Clone(p.Badges)
	}
	if p.NotificationSettings != nil {
		u.NotificationSettings = *p.NotificationSettings
	}
	return u
}

// IsEmpty reports whether the patch changes nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.Email == nil && p.Name == nil && p.DietPreference == nil &&
		p.CommutePreference == nil && p.DailyCarbonGoal == nil && p.TotalPoints == nil &&
		p.CurrentStreak == nil && p.ActiveHabits == nil && p.Badges == nil &&
		p.NotificationSettings == nil
}
