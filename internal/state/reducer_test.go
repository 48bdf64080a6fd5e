package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/greenie/internal/catalog"
	"github.com/julianstephens/greenie/internal/clock"
	"github.com/julianstephens/greenie/internal/models"
)

const today = "2025-06-14"

var now = time.Date(2025, 6, 14, 10, 30, 0, 0, time.UTC)

func testEnv() Env {
	n := 0
	return Env{
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
		Clock: clock.Fixed{T: now},
	}
}

func testUser() models.UserProfile {
	return models.UserProfile{
		ID:                "user-1",
		Email:             "alex@example.com",
		Name:              "Alex",
		DietPreference:    models.DietOmnivore,
		CommutePreference: models.CommuteCar,
		DailyCarbonGoal:   8,
		ActiveHabits:      []string{"1", "6"},
		Badges:            []string{},
		CreatedAt:         now,
	}
}

// signedIn returns a state with the default catalog, a user and today's progress.
func signedIn(t *testing.T) State {
	t.Helper()
	env := testEnv()
	s := Reduce(Initial(), SetHabits{Habits: catalog.Default()}, env)
	s = Reduce(s, SetUser{User: testUser()}, env)
	s = Reduce(s, RolloverDay{Date: today}, env)
	require.NotNil(t, s.DailyProgress)
	return s
}

func TestInitialState(t *testing.T) {
	s := Initial()
	assert.Nil(t, s.User)
	assert.False(t, s.Authenticated)
	assert.True(t, s.Loading)
	assert.Nil(t, s.DailyProgress)
	assert.Empty(t, s.Activities)
	assert.Empty(t, s.Habits)
	assert.False(t, s.OnboardingCompleted)
}

func TestSetUser(t *testing.T) {
	u := testUser()
	u.TotalPoints = 90
	s := Reduce(Initial(), SetUser{User: u}, testEnv())

	require.NotNil(t, s.User)
	assert.True(t, s.Authenticated)
	assert.False(t, s.Loading)
	assert.Equal(t, "Alex", s.User.Name)
	assert.Equal(t, 2, s.User.PlantStage, "plant stage is derived from points")
}

func TestFlags(t *testing.T) {
	env := testEnv()
	s := Reduce(Initial(), SetLoading{Loading: false}, env)
	assert.False(t, s.Loading)
	s = Reduce(s, SetAuthenticated{Authenticated: true}, env)
	assert.True(t, s.Authenticated)
	s = Reduce(s, SetOnboardingCompleted{Completed: true}, env)
	assert.True(t, s.OnboardingCompleted)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := signedIn(t)
	before := s.Clone()

	_ = Reduce(s, RecordHabitCompletion{HabitID: "6", Date: today}, testEnv())
	_ = Reduce(s, UpdateUserProfile{Patch: models.ProfilePatch{ActiveHabits: []string{"2"}}}, testEnv())
	_ = Reduce(s, LogActivity{Activity: models.Activity{ID: "a", KgCO2: 3, Timestamp: now}}, testEnv())

	assert.Equal(t, before, s)
}

func TestAddActivityDoesNotRecomputeProgress(t *testing.T) {
	s := signedIn(t)
	act := models.Activity{ID: "a1", UserID: "user-1", ActivityType: models.ActivityCar, Quantity: 10, Unit: "km", KgCO2: 2.1, Timestamp: now}

	s = Reduce(s, AddActivity{Activity: act}, testEnv())
	require.Len(t, s.Activities, 1)
	assert.Equal(t, act, s.Activities[0])
	assert.Equal(t, 0.0, s.DailyProgress.TotalKgCO2)
}

func TestUpdateDailyProgressReplacesSnapshot(t *testing.T) {
	s := signedIn(t)
	p := models.DailyProgress{Date: today, TotalKgCO2: 12.5, PointsEarned: 9, HabitsCompleted: []string{"1", "3"}, GoalMet: false}

	s = Reduce(s, UpdateDailyProgress{Progress: p}, testEnv())
	assert.Equal(t, p, *s.DailyProgress)

	p.HabitsCompleted[0] = "changed"
	assert.Equal(t, "1", s.DailyProgress.HabitsCompleted[0], "state must not alias the payload")
}

func TestAddChatMessage(t *testing.T) {
	env := testEnv()
	s := Reduce(Initial(), AddChatMessage{Message: models.ChatMessage{ID: "m1", Text: "hi", IsUser: true, Timestamp: now}}, env)
	s = Reduce(s, AddChatMessage{Message: models.ChatMessage{ID: "m2", Text: "hello", Timestamp: now}}, env)
	require.Len(t, s.ChatMessages, 2)
	assert.Equal(t, "m1", s.ChatMessages[0].ID)
	assert.False(t, s.ChatMessages[1].IsUser)
}

func TestCompleteHabitMeatFreeDay(t *testing.T) {
	s := signedIn(t)
	startPoints := s.User.TotalPoints

	s = Reduce(s, CompleteHabit{HabitID: "6", Date: today}, testEnv())

	assert.Equal(t, startPoints+8, s.User.TotalPoints)
	require.Len(t, s.HabitCompletions, 1)
	c := s.HabitCompletions[0]
	assert.Equal(t, 8, c.PointsEarned)
	assert.Equal(t, "6", c.HabitID)
	assert.Equal(t, today, c.Date)
	assert.Equal(t, "user-1", c.UserID)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, 0, s.DailyProgress.PointsEarned, "CompleteHabit leaves daily progress to the caller")
}

func TestCompleteHabitUnknownHabitAwardsZero(t *testing.T) {
	s := signedIn(t)
	s = Reduce(s, CompleteHabit{HabitID: "does-not-exist", Date: today}, testEnv())

	assert.Equal(t, 0, s.User.TotalPoints)
	require.Len(t, s.HabitCompletions, 1)
	assert.Equal(t, 0, s.HabitCompletions[0].PointsEarned)
}

func TestCompleteHabitWithoutUser(t *testing.T) {
	env := testEnv()
	s := Reduce(Initial(), SetHabits{Habits: catalog.Default()}, env)
	s = Reduce(s, CompleteHabit{HabitID: "1", Date: today}, env)

	assert.Nil(t, s.User)
	require.Len(t, s.HabitCompletions, 1)
	assert.Equal(t, "", s.HabitCompletions[0].UserID)
	assert.Equal(t, 5, s.HabitCompletions[0].PointsEarned)
}

func TestCompletionKeepsPointsWhenCatalogChanges(t *testing.T) {
	s := signedIn(t)
	s = Reduce(s, CompleteHabit{HabitID: "6", Date: today}, testEnv())

	changed := catalog.Default()
	changed[5].Points = 50
	s = Reduce(s, SetHabits{Habits: changed}, testEnv())

	assert.Equal(t, 8, s.HabitCompletions[0].PointsEarned)
	assert.Equal(t, 8, s.User.TotalPoints)
}

func TestSetHabitsIsIdempotent(t *testing.T) {
	env := testEnv()
	habits := catalog.Default()
	once := Reduce(Initial(), SetHabits{Habits: habits}, env)
	twice := Reduce(once, SetHabits{Habits: habits}, env)

	assert.Equal(t, once.Habits, twice.Habits)
	assert.Len(t, twice.Habits, len(habits))
}

func TestUpdateUserProfile(t *testing.T) {
	s := signedIn(t)
	name := "Alexandra"
	goal := 6.0
	diet := models.DietVegan

	s = Reduce(s, UpdateUserProfile{Patch: models.ProfilePatch{
		Name:            &name,
		DailyCarbonGoal: &goal,
		DietPreference:  &diet,
	}}, testEnv())

	assert.Equal(t, "Alexandra", s.User.Name)
	assert.Equal(t, 6.0, s.User.DailyCarbonGoal)
	assert.Equal(t, models.DietVegan, s.User.DietPreference)
	assert.Equal(t, "alex@example.com", s.User.Email, "unset fields are preserved")
	assert.Equal(t, []string{"1", "6"}, s.User.ActiveHabits)
}

func TestUpdateUserProfileWithoutUserIsNoop(t *testing.T) {
	name := "Nobody"
	s := Reduce(Initial(), UpdateUserProfile{Patch: models.ProfilePatch{Name: &name}}, testEnv())
	assert.Nil(t, s.User)
}

func TestUpdateUserProfileClampsPoints(t *testing.T) {
	s := signedIn(t)
	negative := -40
	s = Reduce(s, UpdateUserProfile{Patch: models.ProfilePatch{TotalPoints: &negative}}, testEnv())
	assert.Equal(t, 0, s.User.TotalPoints)
	assert.Equal(t, 0, s.User.PlantStage)
}

func TestLogoutPreservesCatalog(t *testing.T) {
	s := signedIn(t)
	env := testEnv()
	s = Reduce(s, LogActivity{Activity: models.Activity{ID: "a1", KgCO2: 2.1, Timestamp: now}}, env)
	s = Reduce(s, AddChatMessage{Message: models.ChatMessage{ID: "m1", Text: "hi"}}, env)
	s = Reduce(s, RecordHabitCompletion{HabitID: "1", Date: today}, env)
	s = Reduce(s, SetOnboardingCompleted{Completed: true}, env)
	habits := s.Habits

	s = Reduce(s, Logout{}, env)

	assert.Nil(t, s.User)
	assert.False(t, s.Authenticated)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Activities)
	assert.Empty(t, s.ChatMessages)
	assert.Empty(t, s.HabitCompletions)
	assert.Nil(t, s.DailyProgress)
	assert.False(t, s.OnboardingCompleted)
	assert.Equal(t, habits, s.Habits)
}

func TestRecordHabitCompletionUpdatesBothTotals(t *testing.T) {
	s := signedIn(t)
	s = Reduce(s, RecordHabitCompletion{HabitID: "6", Date: today}, testEnv())

	assert.Equal(t, 8, s.User.TotalPoints)
	assert.Equal(t, 8, s.DailyProgress.PointsEarned)
	assert.Equal(t, []string{"6"}, s.DailyProgress.HabitsCompleted)
	require.Len(t, s.HabitCompletions, 1)
	assert.Equal(t, 1, s.User.CurrentStreak)
}

func TestRecordHabitCompletionTwiceAwardsOnce(t *testing.T) {
	s := signedIn(t)
	env := testEnv()
	s = Reduce(s, RecordHabitCompletion{HabitID: "6", Date: today}, env)
	s = Reduce(s, RecordHabitCompletion{HabitID: "6", Date: today}, env)

	assert.Equal(t, 8, s.User.TotalPoints)
	assert.Len(t, s.HabitCompletions, 1)
	assert.Equal(t, 8, s.DailyProgress.PointsEarned)
}

func TestRecordHabitCompletionUnknownHabitIsNoop(t *testing.T) {
	s := signedIn(t)
	next := Reduce(s, RecordHabitCompletion{HabitID: "nope", Date: today}, testEnv())
	assert.Equal(t, s, next)
}

func TestRecordHabitCompletionForAnotherDay(t *testing.T) {
	s := signedIn(t)
	s = Reduce(s, RecordHabitCompletion{HabitID: "1", Date: "2025-06-13"}, testEnv())

	assert.Equal(t, 5, s.User.TotalPoints)
	assert.Equal(t, 0, s.DailyProgress.PointsEarned, "only today's aggregate is updated")
	assert.Empty(t, s.DailyProgress.HabitsCompleted)
}

func TestRetractRestoresTotals(t *testing.T) {
	s := signedIn(t)
	env := testEnv()
	before := s

	s = Reduce(s, RecordHabitCompletion{HabitID: "6", Date: today}, env)
	s = Reduce(s, RetractHabitCompletion{HabitID: "6", Date: today}, env)

	assert.Equal(t, before.User.TotalPoints, s.User.TotalPoints)
	assert.Equal(t, before.DailyProgress.PointsEarned, s.DailyProgress.PointsEarned)
	assert.Empty(t, s.DailyProgress.HabitsCompleted)
	assert.Empty(t, s.HabitCompletions)
	assert.Equal(t, 0, s.User.CurrentStreak)
}

func TestRetractMissingCompletionIsNoop(t *testing.T) {
	s := signedIn(t)
	next := Reduce(s, RetractHabitCompletion{HabitID: "6", Date: today}, testEnv())
	assert.Equal(t, s, next)
}

func TestPointsDrivePlantStage(t *testing.T) {
	s := signedIn(t)
	points := 80
	s = Reduce(s, UpdateUserProfile{Patch: models.ProfilePatch{TotalPoints: &points}}, testEnv())
	assert.Equal(t, 1, s.User.PlantStage)

	s = Reduce(s, RecordHabitCompletion{HabitID: "6", Date: today}, testEnv())
	assert.Equal(t, 88, s.User.TotalPoints)
	assert.Equal(t, 2, s.User.PlantStage)
}

func TestLogActivityUpdatesTodaysTotal(t *testing.T) {
	s := signedIn(t)
	env := testEnv()
	s = Reduce(s, LogActivity{Activity: models.Activity{ID: "a1", ActivityType: models.ActivityCar, KgCO2: 2.1, Timestamp: now}}, env)
	s = Reduce(s, LogActivity{Activity: models.Activity{ID: "a2", ActivityType: models.ActivityWaste, KgCO2: 6.0, Timestamp: now}}, env)

	assert.Len(t, s.Activities, 2)
	assert.InDelta(t, 8.1, s.DailyProgress.TotalKgCO2, 1e-9)
	assert.False(t, s.DailyProgress.GoalMet, "8.1 kg exceeds the 8 kg goal")

	s = Reduce(s, DeleteActivity{ID: "a2"}, env)
	assert.Len(t, s.Activities, 1)
	assert.InDelta(t, 2.1, s.DailyProgress.TotalKgCO2, 1e-9)
	assert.True(t, s.DailyProgress.GoalMet)
}

func TestLogActivityFromAnotherDay(t *testing.T) {
	s := signedIn(t)
	yesterday := now.AddDate(0, 0, -1)
	s = Reduce(s, LogActivity{Activity: models.Activity{ID: "a1", KgCO2: 4, Timestamp: yesterday}}, testEnv())

	assert.Len(t, s.Activities, 1)
	assert.Equal(t, 0.0, s.DailyProgress.TotalKgCO2)
}

func TestDeleteUnknownActivityIsNoop(t *testing.T) {
	s := signedIn(t)
	next := Reduce(s, DeleteActivity{ID: "missing"}, testEnv())
	assert.Equal(t, s, next)
}

func TestRolloverDay(t *testing.T) {
	s := signedIn(t)
	env := testEnv()
	s = Reduce(s, RecordHabitCompletion{HabitID: "6", Date: today}, env)
	s = Reduce(s, LogActivity{Activity: models.Activity{ID: "a1", KgCO2: 2.1, Timestamp: now}}, env)

	same := Reduce(s, RolloverDay{Date: today}, env)
	assert.Equal(t, s.DailyProgress, same.DailyProgress, "same day keeps the aggregate")

	next := Reduce(s, RolloverDay{Date: "2025-06-15"}, env)
	require.NotNil(t, next.DailyProgress)
	assert.Equal(t, "2025-06-15", next.DailyProgress.Date)
	assert.Equal(t, 0.0, next.DailyProgress.TotalKgCO2)
	assert.Equal(t, 0, next.DailyProgress.PointsEarned)
	assert.Empty(t, next.DailyProgress.HabitsCompleted)
	assert.True(t, next.DailyProgress.GoalMet)
	assert.Equal(t, 8, next.User.TotalPoints, "lifetime points survive the rollover")
	assert.Equal(t, 1, next.User.CurrentStreak)

	gap := Reduce(s, RolloverDay{Date: "2025-06-17"}, env)
	assert.Equal(t, 0, gap.User.CurrentStreak)
}

func TestRolloverWithoutUserDoesNotCreateProgress(t *testing.T) {
	s := Reduce(Initial(), RolloverDay{Date: today}, testEnv())
	assert.Nil(t, s.DailyProgress)
}
