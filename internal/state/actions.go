package state

import "github.com/julianstephens/greenie/internal/models"

// ActionType names an action in the closed action vocabulary.
type ActionType string

const (
	TypeSetUser                ActionType = "SET_USER"
	TypeSetLoading             ActionType = "SET_LOADING"
	TypeSetAuthenticated       ActionType = "SET_AUTHENTICATED"
	TypeAddActivity            ActionType = "ADD_ACTIVITY"
	TypeUpdateDailyProgress    ActionType = "UPDATE_DAILY_PROGRESS"
	TypeAddChatMessage         ActionType = "ADD_CHAT_MESSAGE"
	TypeCompleteHabit          ActionType = "COMPLETE_HABIT"
	TypeSetHabits              ActionType = "SET_HABITS"
	TypeSetOnboardingCompleted ActionType = "SET_ONBOARDING_COMPLETED"
	TypeUpdateUserProfile      ActionType = "UPDATE_USER_PROFILE"
	TypeLogout                 ActionType = "LOGOUT"

	TypeRecordHabitCompletion  ActionType = "RECORD_HABIT_COMPLETION"
	TypeRetractHabitCompletion ActionType = "RETRACT_HABIT_COMPLETION"
	TypeLogActivity            ActionType = "LOG_ACTIVITY"
	TypeDeleteActivity         ActionType = "DELETE_ACTIVITY"
	TypeRolloverDay            ActionType = "ROLLOVER_DAY"
)

// Action is a state transition request. The set of implementations is closed
// to this package.
type Action interface {
	Type() ActionType
	sealed()
}

type SetUser struct {
	User models.UserProfile
}

type SetLoading struct {
	Loading bool
}

type SetAuthenticated struct {
	Authenticated bool
}

// AddActivity appends to the activity log only. Callers that want today's
// totals updated dispatch UpdateDailyProgress as well, or use LogActivity.
type AddActivity struct {
	Activity models.Activity
}

type UpdateDailyProgress struct {
	Progress models.DailyProgress
}

type AddChatMessage struct {
	Message models.ChatMessage
}

// CompleteHabit appends a completion and raises the lifetime total. It does
// not touch DailyProgress.
type CompleteHabit struct {
	HabitID string
	Date    string
}

type SetHabits struct {
	Habits []models.Habit
}

type SetOnboardingCompleted struct {
	Completed bool
}

type UpdateUserProfile struct {
	Patch models.ProfilePatch
}

type Logout struct{}

// RecordHabitCompletion updates the completion log, the lifetime total and
// the daily aggregate in one step.
type RecordHabitCompletion struct {
	HabitID string
	Date    string
}

// RetractHabitCompletion undoes RecordHabitCompletion for the same habit and day.
type RetractHabitCompletion struct {
	HabitID string
	Date    string
}

// LogActivity appends an activity and adds it to the daily aggregate of its day.
type LogActivity struct {
	Activity models.Activity
}

type DeleteActivity struct {
	ID string
}

// RolloverDay starts a fresh DailyProgress when the stored one is for another day.
type RolloverDay struct {
	Date string
}

func (SetUser) Type() ActionType                { return TypeSetUser }
func (SetLoading) Type() ActionType             { return TypeSetLoading }
func (SetAuthenticated) Type() ActionType       { return TypeSetAuthenticated }
func (AddActivity) Type() ActionType            { return TypeAddActivity }
func (UpdateDailyProgress) Type() ActionType    { return TypeUpdateDailyProgress }
func (AddChatMessage) Type() ActionType         { return TypeAddChatMessage }
func (CompleteHabit) Type() ActionType          { return TypeCompleteHabit }
func (SetHabits) Type() ActionType              { return TypeSetHabits }
func (SetOnboardingCompleted) Type() ActionType { return TypeSetOnboardingCompleted }
func (UpdateUserProfile) Type() ActionType      { return TypeUpdateUserProfile }
func (Logout) Type() ActionType                 { return TypeLogout }
func (RecordHabitCompletion) Type() ActionType  { return TypeRecordHabitCompletion }
func (RetractHabitCompletion) Type() ActionType { return TypeRetractHabitCompletion }
func (LogActivity) Type() ActionType            { return TypeLogActivity }
func (DeleteActivity) Type() ActionType         { return TypeDeleteActivity }
func (RolloverDay) Type() ActionType            { return TypeRolloverDay }

func (SetUser) sealed()                {}
func (SetLoading) sealed()             {}
func (SetAuthenticated) sealed()       {}
func (AddActivity) sealed()            {}
func (UpdateDailyProgress) sealed()    {}
func (AddChatMessage) sealed()         {}
func (CompleteHabit) sealed()          {}
func (SetHabits) sealed()              {}
func (SetOnboardingCompleted) sealed() {}
func (UpdateUserProfile) sealed()      {}
func (Logout) sealed()                 {}
func (RecordHabitCompletion) sealed()  {}
func (RetractHabitCompletion) sealed() {}
func (LogActivity) sealed()            {}
func (DeleteActivity) sealed()         {}
func (RolloverDay) sealed()            {}
