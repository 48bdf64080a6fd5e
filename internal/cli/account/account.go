package account

import (
	"fmt"
	"strings"

	"github.com/julianstephens/greenie/internal/cli"
	"github.com/julianstephens/greenie/internal/constants"
	"github.com/julianstephens/greenie/internal/models"
	"github.com/julianstephens/greenie/internal/tui/components/onboarding"
)

type SignupCmd struct {
	Email string `arg:"" help:"Email address for the local account."`
	Name  string `help:"Display name." default:""`
}

func (c *SignupCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	user, err := sess.SignUp(c.Email, c.Name)
	if err != nil {
		return err
	}

	fmt.Printf("Welcome, %s! 🌱\n", user.Name)
	fmt.Println("Run 'greenie onboard' to choose your goal and habits.")
	return nil
}

type OnboardCmd struct {
	Diet    string   `help:"Diet preference (omnivore, vegetarian, vegan, pescatarian)."`
	Commute string   `help:"Commute preference (car, transit, bike)."`
	Goal    float64  `help:"Daily carbon goal in kg CO2."`
	Habits  []string `help:"Habit ids to track (comma-separated)."`
}

func (c *OnboardCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	st := sess.State()
	if st.User == nil {
		return fmt.Errorf("not signed in, run 'greenie signup' first")
	}

	answers := onboarding.Answers{
		Diet:     st.User.DietPreference,
		Commute:  st.User.CommutePreference,
		Goal:     st.User.DailyCarbonGoal,
		HabitIDs: st.User.ActiveHabits,
	}

	if c.Diet == "" || c.Commute == "" || c.Goal == 0 {
		if err := onboarding.NewForm(st.Habits, &answers).Run(); err != nil {
			return fmt.Errorf("onboarding cancelled: %w", err)
		}
	}
	if c.Diet != "" {
		if answers.Diet, err = models.ParseDiet(c.Diet); err != nil {
			return err
		}
	}
	if c.Commute != "" {
		if answers.Commute, err = models.ParseCommute(c.Commute); err != nil {
			return err
		}
	}
	if c.Goal != 0 {
		answers.Goal = c.Goal
	}
	if c.Habits != nil {
		answers.HabitIDs = c.Habits
	}

	if err := sess.CompleteOnboarding(answers.Diet, answers.Commute, answers.Goal, answers.HabitIDs); err != nil {
		return err
	}

	fmt.Printf("✓ Onboarding complete: %s, %s commute, goal %.0f kg CO₂/day, %d habit(s) tracked\n",
		answers.Diet, answers.Commute, answers.Goal, len(answers.HabitIDs))
	return nil
}

type ProfileCmd struct {
	Show ProfileShowCmd `cmd:"" default:"1" help:"Show your profile."`
	Set  ProfileSetCmd  `cmd:"" help:"Update profile fields."`
}

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	st := sess.State()
	u := st.User
	if u == nil {
		fmt.Println("Not signed in.")
		return nil
	}

	fmt.Println("Profile:")
	fmt.Printf("  Name:            %s\n", u.Name)
	fmt.Printf("  Email:           %s\n", u.Email)
	fmt.Printf("  Diet:            %s\n", u.DietPreference)
	fmt.Printf("  Commute:         %s\n", u.CommutePreference)
	fmt.Printf("  Daily goal:      %s\n", cli.FormatKg(u.DailyCarbonGoal))
	fmt.Printf("  Total points:    %d\n", u.TotalPoints)
	fmt.Printf("  Current streak:  %d day(s)\n", u.CurrentStreak)
	fmt.Printf("  Member since:    %s\n", u.CreatedAt.Format(constants.DateFormat))
	if !st.OnboardingCompleted {
		fmt.Println("  Onboarding:      pending (run 'greenie onboard')")
	}

	var tracked []string
	for _, h := range st.ActiveHabits() {
		tracked = append(tracked, h.Name)
	}
	if len(tracked) == 0 {
		tracked = []string{"none"}
	}
	fmt.Printf("  Tracked habits:  %s\n", strings.Join(tracked, ", "))

	n := u.NotificationSettings
	fmt.Println("\nNotification Settings:")
	fmt.Printf("  Daily tip:         %v (at %s)\n", n.DailyTip, n.TipTime)
	fmt.Printf("  Goal met:          %v\n", n.GoalMet)
	fmt.Printf("  Streak milestones: %v\n", n.StreakMilestone)
	return nil
}

type ProfileSetCmd struct {
	Name    *string  `help:"Display name."`
	Email   *string  `help:"Email address."`
	Diet    *string  `help:"Diet preference (omnivore, vegetarian, vegan, pescatarian)."`
	Commute *string  `help:"Commute preference (car, transit, bike)."`
	Goal    *float64 `help:"Daily carbon goal in kg CO2."`

	DailyTip        *bool   `help:"Enable or disable the daily tip."`
	TipTime         *string `help:"Time of the daily tip (HH:MM)."`
	GoalMet         *bool   `help:"Notify when today's goal is met."`
	StreakMilestone *bool   `help:"Notify on streak milestones."`
}

func (c *ProfileSetCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	st := sess.State()
	if st.User == nil {
		return fmt.Errorf("not signed in, run 'greenie signup' first")
	}

	patch := models.ProfilePatch{
		Name:            c.Name,
		Email:           c.Email,
		DailyCarbonGoal: c.Goal,
	}
	if c.Diet != nil {
		diet, err := models.ParseDiet(*c.Diet)
		if err != nil {
			return err
		}
		patch.DietPreference = &diet
	}
	if c.Commute != nil {
		commute, err := models.ParseCommute(*c.Commute)
		if err != nil {
			return err
		}
		patch.CommutePreference = &commute
	}

	if c.DailyTip != nil || c.TipTime != nil || c.GoalMet != nil || c.StreakMilestone != nil {
		n := st.User.NotificationSettings
		if c.DailyTip != nil {
			n.DailyTip = *c.DailyTip
		}
		if c.TipTime != nil {
			n.TipTime = *c.TipTime
		}
		if c.GoalMet != nil {
			n.GoalMet = *c.GoalMet
		}
		if c.StreakMilestone != nil {
			n.StreakMilestone = *c.StreakMilestone
		}
		patch.NotificationSettings = &n
	}

	if patch.IsEmpty() {
		fmt.Println("No changes specified. Use 'greenie profile show' to view your profile or flags to update it.")
		return nil
	}
	if err := sess.UpdateProfile(patch); err != nil {
		return err
	}
	fmt.Println("Profile updated successfully.")
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	if err := sess.Logout(); err != nil {
		return err
	}
	fmt.Println("Signed out. Your habit catalog is kept for next time.")
	return nil
}
