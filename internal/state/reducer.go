package state

import (
	"slices"

	"github.com/julianstephens/greenie/internal/carbon"
	"github.com/julianstephens/greenie/internal/clock"
	"github.com/julianstephens/greenie/internal/models"
	"github.com/julianstephens/greenie/internal/plant"
	"github.com/julianstephens/greenie/internal/streak"
)

// Reduce applies a to s and returns the next state. s is never modified.
// Payloads are accepted as-is: unknown habits earn 0 points and profile
// edits without a user are ignored.
func Reduce(s State, a Action, env Env) State {
	env = env.withDefaults()
	next := s.Clone()

	switch a := a.(type) {
	case SetUser:
		u := withDerivedStage(a.User.Clone())
		next.User = &u
		next.Authenticated = true
		next.Loading = false

	case SetLoading:
		next.Loading = a.Loading

	case SetAuthenticated:
		next.Authenticated = a.Authenticated

	case AddActivity:
		next.Activities = append(next.Activities, a.Activity)

	case UpdateDailyProgress:
		p := a.Progress.Clone()
		next.DailyProgress = &p

	case AddChatMessage:
		next.ChatMessages = append(next.ChatMessages, a.Message)

	case CompleteHabit:
		points := 0
		if h, ok := next.Habit(a.HabitID); ok {
			points = h.Points
		}
		next.HabitCompletions = append(next.HabitCompletions, newCompletion(next, env, a.HabitID, a.Date, points))
		if next.User != nil {
			next.User.TotalPoints += points
			*next.User = withDerivedStage(*next.User)
			next.User.CurrentStreak = streak.Current(next.HabitCompletions, clock.Today(env.Clock))
		}

	case SetHabits:
		next.Habits = slices.Clone(a.Habits)
		if next.Habits == nil {
			next.Habits = []models.Habit{}
		}

	case SetOnboardingCompleted:
		next.OnboardingCompleted = a.Completed

	case UpdateUserProfile:
		if next.User == nil {
			break
		}
		u := withDerivedStage(a.Patch.Apply(*next.User))
		next.User = &u
		if next.DailyProgress != nil {
			p := next.DailyProgress.WithGoal(u.DailyCarbonGoal)
			next.DailyProgress = &p
		}

	case Logout:
		habits := next.Habits
		next = Initial()
		next.Loading = false
		next.Habits = habits

	case RecordHabitCompletion:
		next = recordCompletion(next, env, a.HabitID, a.Date)

	case RetractHabitCompletion:
		next = retractCompletion(next, env, a.HabitID, a.Date)

	case LogActivity:
		next.Activities = append(next.Activities, a.Activity)
		next = adjustDailyCarbon(next, a.Activity.Day(), a.Activity.KgCO2)

	case DeleteActivity:
		idx := slices.IndexFunc(next.Activities, func(act models.Activity) bool { return act.ID == a.ID })
		if idx < 0 {
			break
		}
		removed := next.Activities[idx]
		next.Activities = slices.Delete(next.Activities, idx, idx+1)
		next = adjustDailyCarbon(next, removed.Day(), -removed.KgCO2)

	case RolloverDay:
		stale := next.DailyProgress != nil && next.DailyProgress.Date != a.Date
		missing := next.DailyProgress == nil && next.User != nil
		if stale || missing {
			p := models.NewDailyProgress(a.Date)
			if next.User != nil {
				p = p.WithGoal(next.User.DailyCarbonGoal)
			}
			next.DailyProgress = &p
		}
		if next.User != nil {
			next.User.CurrentStreak = streak.Current(next.HabitCompletions, a.Date)
		}

	default:
		return s
	}

	return next
}

func recordCompletion(s State, env Env, habitID, date string) State {
	h, ok := s.Habit(habitID)
	if !ok {
		return s
	}
	if hasCompletion(s, habitID, date) {
		return s
	}

	s.HabitCompletions = append(s.HabitCompletions, newCompletion(s, env, habitID, date, h.Points))
	if s.User != nil {
		s.User.TotalPoints += h.Points
		*s.User = withDerivedStage(*s.User)
		s.User.CurrentStreak = streak.Current(s.HabitCompletions, clock.Today(env.Clock))
	}

	if p := s.DailyProgress; p != nil && p.Date == date && !p.HasCompleted(habitID) {
		p.HabitsCompleted = append(p.HabitsCompleted, habitID)
		p.PointsEarned += h.Points
	}
	return s
}

func retractCompletion(s State, env Env, habitID, date string) State {
	idx := -1
	for i := len(s.HabitCompletions) - 1; i >= 0; i-- {
		c := s.HabitCompletions[i]
		if c.HabitID == habitID && c.Date == date {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}

	removed := s.HabitCompletions[idx]
	s.HabitCompletions = slices.Delete(s.HabitCompletions, idx, idx+1)
	if s.User != nil {
		s.User.TotalPoints = max(s.User.TotalPoints-removed.PointsEarned, 0)
		*s.User = withDerivedStage(*s.User)
		s.User.CurrentStreak = streak.Current(s.HabitCompletions, clock.Today(env.Clock))
	}

	if p := s.DailyProgress; p != nil && p.Date == date && p.HasCompleted(habitID) {
		p.HabitsCompleted = slices.DeleteFunc(p.HabitsCompleted, func(id string) bool { return id == habitID })
		p.PointsEarned = max(p.PointsEarned-removed.PointsEarned, 0)
	}
	return s
}

// adjustDailyCarbon adds kg to the daily total when the aggregate is for day.
func adjustDailyCarbon(s State, day string, kg float64) State {
	p := s.DailyProgress
	if p == nil || p.Date != day {
		return s
	}
	p.TotalKgCO2 = max(carbon.Round2(p.TotalKgCO2+kg), 0)
	if s.User != nil {
		*p = p.WithGoal(s.User.DailyCarbonGoal)
	}
	return s
}

func hasCompletion(s State, habitID, date string) bool {
	return slices.ContainsFunc(s.HabitCompletions, func(c models.HabitCompletion) bool {
		return c.HabitID == habitID && c.Date == date
	})
}

func newCompletion(s State, env Env, habitID, date string, points int) models.HabitCompletion {
	userID := ""
	if s.User != nil {
		userID = s.User.ID
	}
	return models.HabitCompletion{
		ID:           env.NewID(),
		UserID:       userID,
		HabitID:      habitID,
		Date:         date,
		PointsEarned: points,
	}
}

func withDerivedStage(u models.UserProfile) models.UserProfile {
	u.TotalPoints = max(u.TotalPoints, 0)
	u.PlantStage = plant.CurrentStage(u.TotalPoints).ID
	return u
}
