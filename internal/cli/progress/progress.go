package progress

import (
	"fmt"
	"strings"

	"github.com/julianstephens/greenie/internal/cli"
	"github.com/julianstephens/greenie/internal/constants"
	"github.com/julianstephens/greenie/internal/plant"
)

const barWidth = 24

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	st := sess.State()
	if st.User == nil {
		return fmt.Errorf("not signed in, run 'greenie signup' first")
	}
	today := sess.Today()
	goal := st.User.DailyCarbonGoal

	fmt.Printf("Today (%s)\n\n", today.Date)
	fraction := 0.0
	if goal > 0 {
		fraction = today.TotalKgCO2 / goal
	}
	fmt.Printf("  Carbon: %s %s / %s\n", cli.ProgressBar(fraction, barWidth), cli.FormatKg(today.TotalKgCO2), cli.FormatKg(goal))
	if today.GoalMet {
		fmt.Println("  ✓ Within your daily goal")
	} else {
		fmt.Printf("  ⚠ %s over your daily goal\n", cli.FormatKg(today.TotalKgCO2-goal))
	}
	fmt.Printf("  Points today: %d   Streak: %d day(s)\n", today.PointsEarned, st.User.CurrentStreak)

	active := st.ActiveHabits()
	if len(active) == 0 {
		fmt.Println("\n  No tracked habits. Run 'greenie habit track <id>' to add one.")
		return nil
	}
	fmt.Println("\n  Habits:")
	for _, h := range active {
		mark := "○"
		if today.HasCompleted(h.ID) {
			mark = "✓"
		}
		fmt.Printf("    %s [%s] %s (+%d pts)\n", mark, h.ID, h.Name, h.Points)
	}
	return nil
}

type PlantCmd struct{}

func (c *PlantCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	st := sess.State()
	if st.User == nil {
		return fmt.Errorf("not signed in, run 'greenie signup' first")
	}
	points := st.User.TotalPoints
	stage := plant.CurrentStage(points)

	fmt.Printf("🌱 %s (stage %d)\n", stage.Name, stage.ID)
	fmt.Printf("  %s\n\n", stage.Description)
	fmt.Printf("  Total points: %d\n", points)
	if next, ok := plant.NextStage(points); ok {
		fmt.Printf("  %s %d pts to %s\n", cli.ProgressBar(plant.ProgressFraction(points), barWidth), plant.PointsToNext(points), next.Name)
	} else {
		fmt.Printf("  %s fully grown\n", cli.ProgressBar(1, barWidth))
	}
	return nil
}

type ChatCmd struct {
	Message []string `arg:"" optional:"" help:"Message for the coach. Shows the transcript when omitted."`
	Limit   int      `help:"Number of transcript messages to show." default:"10"`
}

func (c *ChatCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	if len(c.Message) == 0 {
		msgs := sess.State().ChatMessages
		if len(msgs) > c.Limit && c.Limit > 0 {
			msgs = msgs[len(msgs)-c.Limit:]
		}
		if len(msgs) == 0 {
			fmt.Println("No messages yet.")
		}
		for _, m := range msgs {
			who := constants.CoachName
			if m.IsUser {
				who = "You"
			}
			fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format(constants.TimeFormat), who, m.Text)
		}
		return nil
	}

	msgs, err := sess.SendChat(strings.Join(c.Message, " "))
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", constants.CoachName, msgs[len(msgs)-1].Text)
	return nil
}
