// Package session is the explicit context object the CLI and TUI drive. It
// owns the state store, persistence, the clock and the notifier, validates
// input before dispatching actions, and persists after every change.
package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/greenie/internal/carbon"
	"github.com/julianstephens/greenie/internal/catalog"
	"github.com/julianstephens/greenie/internal/clock"
	"github.com/julianstephens/greenie/internal/coach"
	"github.com/julianstephens/greenie/internal/constants"
	"github.com/julianstephens/greenie/internal/logger"
	"github.com/julianstephens/greenie/internal/models"
	"github.com/julianstephens/greenie/internal/notifier"
	"github.com/julianstephens/greenie/internal/state"
	"github.com/julianstephens/greenie/internal/storage"
	"github.com/julianstephens/greenie/internal/validation"
)

var (
	ErrNotAuthenticated     = errors.New("not signed in, run 'greenie signup' first")
	ErrAlreadyAuthenticated = errors.New("already signed in, run 'greenie logout' first")
	ErrUnknownHabit         = errors.New("unknown habit")
	ErrInvalidQuantity      = validation.ErrInvalidQuantity
	ErrUnknownActivityType  = carbon.ErrUnknownActivityType
	ErrUnknownActivity      = errors.New("unknown activity")
	ErrEmptyMessage         = errors.New("message cannot be empty")
)

type Session struct {
	store    *state.Store
	provider storage.Provider
	clock    clock.Clock
	notifier notifier.Sender
	habits   []models.Habit
	newID    func() string
	autosave bool
}

type Option func(*Session)

// WithNotifier sends goal and streak notifications through n.
func WithNotifier(n notifier.Sender) Option {
	return func(s *Session) { s.notifier = n }
}

// WithCatalog replaces the habit catalog on open instead of keeping the
// persisted one.
func WithCatalog(habits []models.Habit) Option {
	return func(s *Session) { s.habits = slices.Clone(habits) }
}

// WithIDGenerator overrides the random UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

// WithAutosave controls whether every operation persists the snapshot.
// It defaults to true when a provider is given.
func WithAutosave(on bool) Option {
	return func(s *Session) { s.autosave = on }
}

// Open loads the persisted snapshot from provider (nil keeps the session in
// memory), installs the habit catalog, clears the loading flag and rolls
// the daily progress over to today.
func Open(provider storage.Provider, clk clock.Clock, opts ...Option) (*Session, error) {
	if clk == nil {
		clk = clock.System{}
	}
	s := &Session{
		provider: provider,
		clock:    clk,
		autosave: provider != nil,
	}
	for _, opt := range opts {
		opt(s)
	}

	initial := state.Initial()
	if provider != nil {
		loaded, err := provider.LoadState()
		if err != nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		initial = loaded
	}

	env := state.DefaultEnv()
	env.Clock = clk
	if s.newID != nil {
		env.NewID = s.newID
	}
	s.newID = env.NewID
	s.store = state.NewStore(initial, env)

	switch {
	case s.habits != nil:
		s.store.Dispatch(state.SetHabits{Habits: s.habits})
	case len(initial.Habits) == 0:
		s.store.Dispatch(state.SetHabits{Habits: catalog.Default()})
	}
	s.store.Dispatch(state.SetLoading{Loading: false})
	s.rollover()

	logger.Debug("Session opened", "authenticated", initial.Authenticated, "storage", configPath(provider))
	return s, nil
}

func configPath(p storage.Provider) string {
	if p == nil {
		return "memory"
	}
	return p.GetConfigPath()
}

// State returns a snapshot of the session state.
func (s *Session) State() state.State {
	return s.store.Snapshot()
}

// Subscribe registers fn to receive every new snapshot.
func (s *Session) Subscribe(fn func(state.State)) func() {
	return s.store.Subscribe(fn)
}

// Today returns today's progress, rolling over a stale aggregate first.
// Without a user it returns an empty progress for today.
func (s *Session) Today() models.DailyProgress {
	st := s.rollover()
	if st.DailyProgress == nil {
		return models.NewDailyProgress(s.today())
	}
	return st.DailyProgress.Clone()
}

// Save persists the current snapshot. Without a provider it does nothing.
func (s *Session) Save() error {
	if s.provider == nil {
		return nil
	}
	if err := s.provider.SaveState(s.store.Snapshot()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// SignUp creates the simulated account with default preferences and starts
// onboarding.
func (s *Session) SignUp(email, name string) (models.UserProfile, error) {
	if s.store.Snapshot().Authenticated {
		return models.UserProfile{}, ErrAlreadyAuthenticated
	}
	email = strings.TrimSpace(email)
	if err := validation.Email(email); err != nil {
		return models.UserProfile{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = constants.DefaultUserName
	}

	user := models.UserProfile{
		ID:                s.newID(),
		Email:             email,
		Name:              name,
		DietPreference:    models.DietOmnivore,
		CommutePreference: models.CommuteCar,
		DailyCarbonGoal:   constants.DefaultDailyCarbonGoal,
		ActiveHabits:      []string{},
		Badges:            []string{},
		NotificationSettings: models.NotificationSettings{
			DailyTip:        true,
			GoalMet:         true,
			StreakMilestone: true,
			TipTime:         constants.DefaultTipTime,
		},
		CreatedAt: s.clock.Now(),
	}

	s.store.Dispatch(state.SetUser{User: user})
	s.store.Dispatch(state.SetOnboardingCompleted{Completed: false})
	st := s.rollover()
	if len(st.ChatMessages) == 0 {
		s.addChat(coach.Welcome, false)
	}
	logger.Info("User signed up", "id", user.ID)
	return s.store.Snapshot().User.Clone(), s.persist()
}

// CompleteOnboarding records the onboarding answers and marks onboarding done.
func (s *Session) CompleteOnboarding(diet models.DietPreference, commute models.CommutePreference, goal float64, habitIDs []string) error {
	if _, err := s.requireUser(); err != nil {
		return err
	}
	if !diet.Valid() {
		return fmt.Errorf("invalid diet preference %q", diet)
	}
	if !commute.Valid() {
		return fmt.Errorf("invalid commute preference %q", commute)
	}
	if err := validation.Goal(goal); err != nil {
		return err
	}
	if err := s.checkHabits(habitIDs); err != nil {
		return err
	}

	habits := dedupe(habitIDs)
	s.store.Dispatch(state.UpdateUserProfile{Patch: models.ProfilePatch{
		DietPreference:    &diet,
		CommutePreference: &commute,
		DailyCarbonGoal:   &goal,
		ActiveHabits:      habits,
	}})
	s.store.Dispatch(state.SetOnboardingCompleted{Completed: true})
	s.rollover()
	return s.persist()
}

// LogActivity records an emitting activity for now and adds its footprint
// to today's total.
func (s *Session) LogActivity(activityType models.ActivityType, quantity float64) (models.Activity, error) {
	user, err := s.requireUser()
	if err != nil {
		return models.Activity{}, err
	}
	if err := validation.Quantity(quantity); err != nil {
		return models.Activity{}, err
	}
	if !activityType.Valid() {
		return models.Activity{}, fmt.Errorf("%w: %s", ErrUnknownActivityType, activityType)
	}
	kg, err := carbon.Footprint(activityType, quantity)
	if err != nil {
		return models.Activity{}, err
	}
	if kg == 0 {
		return models.Activity{}, fmt.Errorf("%w: %v %s is too small to register", ErrInvalidQuantity, quantity, carbon.UnitFor(activityType))
	}

	activity := models.Activity{
		ID:           s.newID(),
		UserID:       user.ID,
		ActivityType: activityType,
		Quantity:     quantity,
		Unit:         carbon.UnitFor(activityType),
		KgCO2:        kg,
		Timestamp:    s.clock.Now(),
	}
	s.apply(state.LogActivity{Activity: activity})
	logger.Debug("Logged activity", "type", activityType, "quantity", quantity, "kg", kg)
	return activity, s.persist()
}

// DeleteActivity removes a logged activity and its footprint.
func (s *Session) DeleteActivity(id string) error {
	if _, err := s.requireUser(); err != nil {
		return err
	}
	if !slices.ContainsFunc(s.store.Snapshot().Activities, func(a models.Activity) bool { return a.ID == id }) {
		return fmt.Errorf("%w: %s", ErrUnknownActivity, id)
	}
	s.apply(state.DeleteActivity{ID: id})
	return s.persist()
}

// ToggleHabit marks habitID done for today, or undoes today's completion.
// It reports whether the habit is completed afterwards.
func (s *Session) ToggleHabit(habitID string) (bool, error) {
	if _, err := s.requireUser(); err != nil {
		return false, err
	}
	if _, err := s.habit(habitID); err != nil {
		return false, err
	}

	today := s.today()
	done := slices.ContainsFunc(s.store.Snapshot().HabitCompletions, func(c models.HabitCompletion) bool {
		return c.HabitID == habitID && c.Date == today
	})
	if done {
		s.apply(state.RetractHabitCompletion{HabitID: habitID, Date: today})
	} else {
		s.apply(state.RecordHabitCompletion{HabitID: habitID, Date: today})
	}
	return !done, s.persist()
}

// CompleteHabit appends a completion for today without deduplication and
// without touching today's aggregate.
func (s *Session) CompleteHabit(habitID string) (models.HabitCompletion, error) {
	if _, err := s.requireUser(); err != nil {
		return models.HabitCompletion{}, err
	}
	if _, err := s.habit(habitID); err != nil {
		return models.HabitCompletion{}, err
	}
	next := s.apply(state.CompleteHabit{HabitID: habitID, Date: s.today()})
	c := next.HabitCompletions[len(next.HabitCompletions)-1]
	return c, s.persist()
}

// TrackHabit adds habitID to the user's active habits.
func (s *Session) TrackHabit(habitID string) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	if _, err := s.habit(habitID); err != nil {
		return err
	}
	if user.IsTracking(habitID) {
		return nil
	}
	active := append(slices.Clone(user.ActiveHabits), habitID)
	s.store.Dispatch(state.UpdateUserProfile{Patch: models.ProfilePatch{ActiveHabits: active}})
	return s.persist()
}

// UntrackHabit removes habitID from the user's active habits. Past
// completions are kept.
func (s *Session) UntrackHabit(habitID string) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	if !user.IsTracking(habitID) {
		return fmt.Errorf("%w: %s is not tracked", ErrUnknownHabit, habitID)
	}
	active := slices.DeleteFunc(slices.Clone(user.ActiveHabits), func(id string) bool { return id == habitID })
	s.store.Dispatch(state.UpdateUserProfile{Patch: models.ProfilePatch{ActiveHabits: active}})
	return s.persist()
}

// SendChat appends the user's message and the coach's reply, returning both.
func (s *Session) SendChat(text string) ([]models.ChatMessage, error) {
	if _, err := s.requireUser(); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	msgs := []models.ChatMessage{
		s.addChat(text, true),
		s.addChat(coach.Reply(text), false),
	}
	return msgs, s.persist()
}

// UpdateProfile validates and applies a partial profile update.
func (s *Session) UpdateProfile(patch models.ProfilePatch) error {
	if _, err := s.requireUser(); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}
	if err := s.checkPatch(patch); err != nil {
		return err
	}
	if patch.ActiveHabits != nil {
		patch.ActiveHabits = dedupe(patch.ActiveHabits)
	}
	s.apply(state.UpdateUserProfile{Patch: patch})
	return s.persist()
}

// Logout clears the session but keeps the habit catalog.
func (s *Session) Logout() error {
	s.store.Dispatch(state.Logout{})
	logger.Info("User logged out")
	return s.persist()
}

// SendDailyTip delivers the coach's daily tip when the user has tips
// enabled. It reports whether a notification was attempted.
func (s *Session) SendDailyTip() (bool, error) {
	user, err := s.requireUser()
	if err != nil {
		return false, err
	}
	if !user.NotificationSettings.DailyTip || s.notifier == nil {
		return false, nil
	}
	return true, s.notifier.Notify(coach.DailyTip)
}

func (s *Session) checkPatch(p models.ProfilePatch) error {
	if p.Email != nil {
		if err := validation.Email(*p.Email); err != nil {
			return err
		}
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if p.DietPreference != nil && !p.DietPreference.Valid() {
		return fmt.Errorf("invalid diet preference %q", *p.DietPreference)
	}
	if p.CommutePreference != nil && !p.CommutePreference.Valid() {
		return fmt.Errorf("invalid commute preference %q", *p.CommutePreference)
	}
	if p.DailyCarbonGoal != nil {
		if err := validation.Goal(*p.DailyCarbonGoal); err != nil {
			return err
		}
	}
	if p.TotalPoints != nil && *p.TotalPoints < 0 {
		return errors.New("total points cannot be negative")
	}
	if p.CurrentStreak != nil && *p.CurrentStreak < 0 {
		return errors.New("streak cannot be negative")
	}
	if p.NotificationSettings != nil {
		if err := validation.TimeOfDay(p.NotificationSettings.TipTime); err != nil {
			return err
		}
	}
	if p.ActiveHabits != nil {
		return s.checkHabits(p.ActiveHabits)
	}
	return nil
}

// apply dispatches a and sends any notifications the change earned.
func (s *Session) apply(a state.Action) state.State {
	prev := s.rollover()
	next := s.store.Dispatch(a)
	s.notifyTransition(prev, next)
	return next
}

func (s *Session) notifyTransition(prev, next state.State) {
	if s.notifier == nil || next.User == nil || prev.User == nil {
		return
	}
	u := next.User
	msgs := notifier.Transition(u.NotificationSettings, u.DailyCarbonGoal,
		prev.DailyProgress, next.DailyProgress, prev.User.CurrentStreak, u.CurrentStreak)
	for _, msg := range msgs {
		if err := s.notifier.Notify(msg); err != nil {
			logger.Warn("Failed to send notification", "error", err)
		}
	}
}

func (s *Session) rollover() state.State {
	return s.store.Dispatch(state.RolloverDay{Date: s.today()})
}

func (s *Session) today() string {
	return clock.Today(s.clock)
}

func (s *Session) persist() error {
	if !s.autosave {
		return nil
	}
	return s.Save()
}

func (s *Session) addChat(text string, fromUser bool) models.ChatMessage {
	msg := models.ChatMessage{
		ID:        s.newID(),
		Text:      text,
		IsUser:    fromUser,
		Timestamp: s.clock.Now(),
	}
	s.store.Dispatch(state.AddChatMessage{Message: msg})
	return msg
}

func (s *Session) requireUser() (models.UserProfile, error) {
	st := s.store.Snapshot()
	if !st.Authenticated || st.User == nil {
		return models.UserProfile{}, ErrNotAuthenticated
	}
	return *st.User, nil
}

func (s *Session) habit(id string) (models.Habit, error) {
	h, ok := s.store.Snapshot().Habit(id)
	if !ok {
		return models.Habit{}, fmt.Errorf("%w: %s", ErrUnknownHabit, id)
	}
	return h, nil
}

func (s *Session) checkHabits(ids []string) error {
	st := s.store.Snapshot()
	for _, id := range ids {
		if _, ok := st.Habit(id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownHabit, id)
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
