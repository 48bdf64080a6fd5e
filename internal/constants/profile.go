package constants

const (
	// Profile defaults applied at sign-up
	DefaultUserName        = "User"
	DefaultDailyCarbonGoal = 8.0 // kg CO2 per day
	DefaultTipTime         = "09:00"

	// Chat
	CoachName = "Greenie"
)

// CarbonGoalOptions are the daily goals offered during onboarding (kg CO2).
var CarbonGoalOptions = []float64{6, 8, 10, 12}

// StreakMilestones are the streak lengths (days) that trigger a notification.
var StreakMilestones = []int{3, 7, 14, 30, 100}
