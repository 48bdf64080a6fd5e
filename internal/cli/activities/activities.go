package activities

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/greenie/internal/carbon"
	"github.com/julianstephens/greenie/internal/cli"
	"github.com/julianstephens/greenie/internal/constants"
	"github.com/julianstephens/greenie/internal/models"
)

type LogCmd struct {
	Type     string  `arg:"" help:"Activity type (car, transit, shower, cooking, waste)."`
	Quantity float64 `arg:"" help:"Amount in the activity's unit (km, minutes, hours, kg)."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	activityType, err := models.ParseActivityType(c.Type)
	if err != nil {
		return err
	}
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	activity, err := sess.LogActivity(activityType, c.Quantity)
	if err != nil {
		return err
	}

	today := sess.Today()
	fmt.Printf("✓ Logged %s %s %s: %s\n",
		strconv.FormatFloat(activity.Quantity, 'f', -1, 64), activity.Unit, activity.ActivityType, cli.FormatKg(activity.KgCO2))
	fmt.Printf("  Today: %s of %s\n", cli.FormatKg(today.TotalKgCO2), cli.FormatKg(sess.State().User.DailyCarbonGoal))
	return nil
}

type ActivityCmd struct {
	List   ListCmd   `cmd:"" default:"1" help:"List logged activities."`
	Delete DeleteCmd `cmd:"" help:"Delete a logged activity."`
	Types  TypesCmd  `cmd:"" help:"Show the activity types and their units."`
}

type ListCmd struct {
	All bool `help:"List activities from every day, not just today."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	st := sess.State()
	if st.User == nil {
		return fmt.Errorf("not signed in, run 'greenie signup' first")
	}

	activities := st.Activities
	if !c.All {
		activities = st.ActivitiesOn(sess.Today().Date)
	}
	if len(activities) == 0 {
		fmt.Println("No activities logged.")
		return nil
	}

	var total float64
	for _, a := range activities {
		total += a.KgCO2
		fmt.Printf("  %s  %-10s %8s %-8s %s  (%s)\n",
			a.Timestamp.Format(constants.DateFormat+" "+constants.TimeFormat),
			a.ActivityType,
			strconv.FormatFloat(a.Quantity, 'f', -1, 64),
			a.Unit,
			cli.FormatKg(a.KgCO2),
			a.ID,
		)
	}
	fmt.Printf("\nTotal: %s\n", cli.FormatKg(carbon.Round2(total)))
	return nil
}

type DeleteCmd struct {
	ID string `arg:"" help:"ID of the activity to delete."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	if err := sess.DeleteActivity(c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted activity %s\n", c.ID)
	fmt.Printf("  Today: %s\n", cli.FormatKg(sess.Today().TotalKgCO2))
	return nil
}

type TypesCmd struct{}

func (c *TypesCmd) Run(ctx *cli.Context) error {
	for _, t := range carbon.SelectableTypes() {
		f, err := carbon.Lookup(t.ID)
		if err != nil {
			return err
		}
		fmt.Printf("  %-8s %-15s %.3f kg CO₂ per %s\n", t.ID, t.Name, f.KgPerUnit, t.Unit)
	}
	return nil
}
