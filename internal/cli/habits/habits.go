package habits

import (
	"fmt"
	"time"

	"github.com/julianstephens/greenie/internal/cli"
	"github.com/julianstephens/greenie/internal/constants"
	"github.com/julianstephens/greenie/internal/models"
	"github.com/julianstephens/greenie/internal/streak"
)

type HabitCmd struct {
	List     ListCmd     `cmd:"" default:"1" help:"List the habit catalog."`
	Track    TrackCmd    `cmd:"" help:"Start tracking a habit."`
	Untrack  UntrackCmd  `cmd:"" help:"Stop tracking a habit."`
	Toggle   ToggleCmd   `cmd:"" help:"Mark a habit done for today, or undo it."`
	Complete CompleteCmd `cmd:"" help:"Record a completion for today without toggling."`
	History  HistoryCmd  `cmd:"" help:"Show completion history and streaks."`
}

type ListCmd struct {
	Tracked bool `help:"Only show tracked habits."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	st := sess.State()
	today := sess.Today()

	habits := st.Habits
	if c.Tracked {
		habits = st.ActiveHabits()
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		tracked := " "
		if st.User != nil && st.User.IsTracking(h.ID) {
			tracked = "★"
		}
		status := "○"
		if today.HasCompleted(h.ID) {
			status = "✓"
		}
		fmt.Printf("  %s %s [%s] %-32s +%d pts  %s\n", status, tracked, h.ID, h.Name, h.Points, h.Category)
	}
	fmt.Println("\n★ tracked   ✓ done today")
	return nil
}

type TrackCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *TrackCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	if err := sess.TrackHabit(c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Tracking habit %s\n", c.ID)
	return nil
}

type UntrackCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *UntrackCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	if err := sess.UntrackHabit(c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Stopped tracking habit %s\n", c.ID)
	return nil
}

type ToggleCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	done, err := sess.ToggleHabit(c.ID)
	if err != nil {
		return err
	}
	st := sess.State()
	h, _ := st.Habit(c.ID)
	if done {
		fmt.Printf("✓ %s done (+%d pts)\n", h.Name, h.Points)
	} else {
		fmt.Printf("○ %s undone (-%d pts)\n", h.Name, h.Points)
	}
	fmt.Printf("  Total points: %d, streak: %d day(s)\n", st.User.TotalPoints, st.User.CurrentStreak)
	return nil
}

type CompleteCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *CompleteCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	completion, err := sess.CompleteHabit(c.ID)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Recorded habit %s for %s (+%d pts)\n", completion.HabitID, completion.Date, completion.PointsEarned)
	return nil
}

type HistoryCmd struct {
	ID   string `arg:"" optional:"" help:"Habit ID (all habits if omitted)."`
	Days int    `help:"Number of days to show." default:"14"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	st := sess.State()
	if st.User == nil {
		return fmt.Errorf("not signed in, run 'greenie signup' first")
	}

	var completions []models.HabitCompletion
	for _, hc := range st.HabitCompletions {
		if c.ID == "" || hc.HabitID == c.ID {
			completions = append(completions, hc)
		}
	}

	label := "All habits"
	if c.ID != "" {
		h, ok := st.Habit(c.ID)
		if !ok {
			return fmt.Errorf("habit not found: %s", c.ID)
		}
		label = h.Name
	}

	today := sess.Today().Date
	fmt.Printf("%s\n", label)
	fmt.Printf("  Current streak: %d day(s)\n", streak.Current(completions, today))
	fmt.Printf("  Longest streak: %d day(s)\n", streak.Longest(completions))
	fmt.Printf("  Completions:    %d\n\n", len(completions))

	days := make(map[string]bool, len(completions))
	for _, hc := range completions {
		days[hc.Date] = true
	}
	end, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return err
	}
	grid := ""
	for i := max(c.Days, 1) - 1; i >= 0; i-- {
		if days[end.AddDate(0, 0, -i).Format(constants.DateFormat)] {
			grid += "■"
		} else {
			grid += "□"
		}
	}
	fmt.Printf("  %s  (last %d days, ending %s)\n", grid, max(c.Days, 1), today)
	return nil
}
