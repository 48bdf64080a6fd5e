package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/greenie/internal/migration"
	"github.com/julianstephens/greenie/internal/models"
	"github.com/julianstephens/greenie/internal/state"
)

// snapshotTables lists every table SaveState rewrites, children first.
var snapshotTables = []string{
	"chat_messages",
	"daily_progress",
	"habit_completions",
	"activities",
	"habits",
	"users",
	"session",
}

// Rebind rewrites ? placeholders into the dialect's bind syntax.
func Rebind(d migration.Dialect, query string) string {
	if d != migration.Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// WriteSnapshot replaces all stored rows with s inside tx.
func WriteSnapshot(tx *sql.Tx, d migration.Dialect, s state.State, savedAt time.Time) error {
	exec := func(query string, args ...any) error {
		_, err := tx.Exec(Rebind(d, query), args...)
		return err
	}

	for _, table := range snapshotTables {
		if err := exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	var userID sql.NullString
	if s.User != nil {
		userID = sql.NullString{String: s.User.ID, Valid: true}
		if err := writeUser(exec, *s.User); err != nil {
			return err
		}
	}
	if err := exec(
		"INSERT INTO session (id, user_id, authenticated, onboarding_completed, saved_at) VALUES (1, ?, ?, ?, ?)",
		userID, s.Authenticated, s.OnboardingCompleted, formatTime(savedAt),
	); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	for i, h := range s.Habits {
		if err := exec(
			"INSERT INTO habits (id, position, name, description, points, icon, category) VALUES (?, ?, ?, ?, ?, ?, ?)",
			h.ID, i, h.Name, h.Description, h.Points, h.Icon, string(h.Category),
		); err != nil {
			return fmt.Errorf("failed to save habit %s: %w", h.ID, err)
		}
	}

	for i, a := range s.Activities {
		if err := exec(
			"INSERT INTO activities (id, position, user_id, activity_type, quantity, unit, kg_co2, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			a.ID, i, a.UserID, string(a.ActivityType), a.Quantity, a.Unit, a.KgCO2, formatTime(a.Timestamp),
		); err != nil {
			return fmt.Errorf("failed to save activity %s: %w", a.ID, err)
		}
	}

	for i, c := range s.HabitCompletions {
		if err := exec(
			"INSERT INTO habit_completions (id, position, user_id, habit_id, date, points_earned) VALUES (?, ?, ?, ?, ?, ?)",
			c.ID, i, c.UserID, c.HabitID, c.Date, c.PointsEarned,
		); err != nil {
			return fmt.Errorf("failed to save habit completion %s: %w", c.ID, err)
		}
	}

	if p := s.DailyProgress; p != nil {
		completed, err := encodeList(p.HabitsCompleted)
		if err != nil {
			return err
		}
		if err := exec(
			"INSERT INTO daily_progress (date, total_kg_co2, points_earned, habits_completed, goal_met) VALUES (?, ?, ?, ?, ?)",
			p.Date, p.TotalKgCO2, p.PointsEarned, completed, p.GoalMet,
		); err != nil {
			return fmt.Errorf("failed to save daily progress: %w", err)
		}
	}

	for i, m := range s.ChatMessages {
		if err := exec(
			"INSERT INTO chat_messages (id, position, text, is_user, timestamp) VALUES (?, ?, ?, ?, ?)",
			m.ID, i, m.Text, m.IsUser, formatTime(m.Timestamp),
		); err != nil {
			return fmt.Errorf("failed to save chat message %s: %w", m.ID, err)
		}
	}

	return nil
}

func writeUser(exec func(string, ...any) error, u models.UserProfile) error {
	active, err := encodeList(u.ActiveHabits)
	if err != nil {
		return err
	}
	badges, err := encodeList(u.Badges)
	if err != nil {
		return err
	}
	ns := u.NotificationSettings
	err = exec(`INSERT INTO users (
			id, email, name, diet_preference, commute_preference, daily_carbon_goal,
			total_points, current_streak, plant_stage, active_habits, badges,
			notify_daily_tip, notify_goal_met, notify_streak_milestone, tip_time, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, string(u.DietPreference), string(u.CommutePreference), u.DailyCarbonGoal,
		u.TotalPoints, u.CurrentStreak, u.PlantStage, active, badges,
		ns.DailyTip, ns.GoalMet, ns.StreakMilestone, ns.TipTime, formatTime(u.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// ReadSnapshot loads the stored snapshot. A database without a session row
// yields state.Initial.
func ReadSnapshot(db *sql.DB, d migration.Dialect) (state.State, error) {
	s := state.Initial()

	var userID sql.NullString
	var savedAt timeValue
	err := db.QueryRow("SELECT user_id, authenticated, onboarding_completed, saved_at FROM session WHERE id = 1").
		Scan(&userID, &s.Authenticated, &s.OnboardingCompleted, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read session: %w", err)
	}

	if userID.Valid {
		u, err := readUser(db, d, userID.String)
		if err != nil {
			return s, err
		}
		s.User = u
	}

	if s.Habits, err = readHabits(db); err != nil {
		return s, err
	}
	if s.Activities, err = readActivities(db); err != nil {
		return s, err
	}
	if s.HabitCompletions, err = readCompletions(db); err != nil {
		return s, err
	}
	if s.DailyProgress, err = readDailyProgress(db); err != nil {
		return s, err
	}
	if s.ChatMessages, err = readChat(db); err != nil {
		return s, err
	}
	return s, nil
}

func readUser(db *sql.DB, d migration.Dialect, id string) (*models.UserProfile, error) {
	var (
		u              models.UserProfile
		diet, commute  string
		active, badges string
		createdAt      timeValue
	)
	err := db.QueryRow(Rebind(d, `SELECT
			id, email, name, diet_preference, commute_preference, daily_carbon_goal,
			total_points, current_streak, plant_stage, active_habits, badges,
			notify_daily_tip, notify_goal_met, notify_streak_milestone, tip_time, created_at
		FROM users WHERE id = ?`), id).Scan(
		&u.ID, &u.Email, &u.Name, &diet, &commute, &u.DailyCarbonGoal,
		&u.TotalPoints, &u.CurrentStreak, &u.PlantStage, &active, &badges,
		&u.NotificationSettings.DailyTip, &u.NotificationSettings.GoalMet,
		&u.NotificationSettings.StreakMilestone, &u.NotificationSettings.TipTime, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session references missing user %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	u.DietPreference = models.DietPreference(diet)
	u.CommutePreference = models.CommutePreference(commute)
	u.CreatedAt = createdAt.Time
	if u.ActiveHabits, err = decodeList(active); err != nil {
		return nil, err
	}
	if u.Badges, err = decodeList(badges); err != nil {
		return nil, err
	}
	return &u, nil
}

func readHabits(db *sql.DB) ([]models.Habit, error) {
	rows, err := db.Query("SELECT id, name, description, points, icon, category FROM habits ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		var h models.Habit
		var category string
		if err := rows.Scan(&h.ID, &h.Name, &h.Description, &h.Points, &h.Icon, &category); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		h.Category = models.HabitCategory(category)
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func readActivities(db *sql.DB) ([]models.Activity, error) {
	rows, err := db.Query("SELECT id, user_id, activity_type, quantity, unit, kg_co2, timestamp FROM activities ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to read activities: %w", err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		var typ string
		var ts timeValue
		if err := rows.Scan(&a.ID, &a.UserID, &typ, &a.Quantity, &a.Unit, &a.KgCO2, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		a.ActivityType = models.ActivityType(typ)
		a.Timestamp = ts.Time
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func readCompletions(db *sql.DB) ([]models.HabitCompletion, error) {
	rows, err := db.Query("SELECT id, user_id, habit_id, date, points_earned FROM habit_completions ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to read habit completions: %w", err)
	}
	defer rows.Close()

	completions := []models.HabitCompletion{}
	for rows.Next() {
		var c models.HabitCompletion
		if err := rows.Scan(&c.ID, &c.UserID, &c.HabitID, &c.Date, &c.PointsEarned); err != nil {
			return nil, fmt.Errorf("failed to scan habit completion: %w", err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func readDailyProgress(db *sql.DB) (*models.DailyProgress, error) {
	var p models.DailyProgress
	var completed string
	err := db.QueryRow("SELECT date, total_kg_co2, points_earned, habits_completed, goal_met FROM daily_progress ORDER BY date DESC LIMIT 1").
		Scan(&p.Date, &p.TotalKgCO2, &p.PointsEarned, &completed, &p.GoalMet)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read daily progress: %w", err)
	}
	if p.HabitsCompleted, err = decodeList(completed); err != nil {
		return nil, err
	}
	return &p, nil
}

func readChat(db *sql.DB) ([]models.ChatMessage, error) {
	rows, err := db.Query("SELECT id, text, is_user, timestamp FROM chat_messages ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to read chat messages: %w", err)
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		var ts timeValue
		if err := rows.Scan(&m.ID, &m.Text, &m.IsUser, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		m.Timestamp = ts.Time
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func encodeList(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(data), nil
}

func decodeList(raw string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to decode list %q: %w", raw, err)
	}
	return out, nil
}

// formatTime keeps the writer's UTC offset so an activity stays on the
// calendar day it was logged on after a reload.
func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// timeValue scans a timestamp stored either as RFC 3339 text (SQLite) or as
// a native timestamp (PostgreSQL). TIMESTAMPTZ does not keep the offset, so
// native values are read back in the local zone, the same zone clock.System
// uses for today.
type timeValue struct {
	time.Time
}

func (v *timeValue) Scan(src any) error {
	switch t := src.(type) {
	case nil:
		v.Time = time.Time{}
	case time.Time:
		v.Time = t.Local()
	case string:
		return v.parse(t)
	case []byte:
		return v.parse(string(t))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
	return nil
}

func (v *timeValue) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	v.Time = t
	return nil
}
