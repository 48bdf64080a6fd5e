package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/greenie/internal/cli"
	"github.com/julianstephens/greenie/internal/coach"
	"github.com/julianstephens/greenie/internal/constants"
)

// TipCmd sends the daily tip. With --scheduled it only fires during the
// minute matching the user's tip time, so it can run from cron every minute.
type TipCmd struct {
	DryRun    bool `help:"Print the tip to stdout instead of sending it."`
	Scheduled bool `help:"Only send when the current time matches the configured tip time."`
}

func (c *TipCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	user := sess.State().User
	if user == nil {
		if c.DryRun {
			fmt.Println("Not signed in.")
		}
		return nil
	}

	settings := user.NotificationSettings
	if !settings.DailyTip {
		if c.DryRun {
			fmt.Println("Daily tips are disabled in your profile.")
		}
		return nil
	}

	now := time.Now()
	if ctx.Clock != nil {
		now = ctx.Clock.Now()
	}
	if c.Scheduled && now.Format(constants.TimeFormat) != settings.TipTime {
		return nil
	}

	if c.DryRun {
		fmt.Println("[DryRun] " + coach.DailyTip)
		return nil
	}

	sent, err := sess.SendDailyTip()
	if err != nil {
		return fmt.Errorf("failed to send tip: %w", err)
	}
	if !sent {
		return fmt.Errorf("no notifier configured")
	}
	return nil
}
