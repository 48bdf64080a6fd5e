package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/greenie/internal/cli"
	"github.com/julianstephens/greenie/internal/models"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpState    *DebugDumpStateCmd    `cmd:"" help:"Dump the whole session snapshot as JSON."`
	DumpActivity *DebugDumpActivityCmd `cmd:"" help:"Dump activity data as JSON."`
	DumpHabit    *DebugDumpHabitCmd    `cmd:"" help:"Dump habit data as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpStateCmd struct{}

func (cmd *DebugDumpStateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	snapshot, err := ctx.Store.LoadState()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	return printJSON(snapshot)
}

type DebugDumpActivityCmd struct {
	ID string `arg:"" help:"ID of the activity to dump."`
}

func (cmd *DebugDumpActivityCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	snapshot, err := ctx.Store.LoadState()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	for _, a := range snapshot.Activities {
		if a.ID == cmd.ID {
			return printJSON(a)
		}
	}
	return fmt.Errorf("activity not found: %s", cmd.ID)
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	snapshot, err := ctx.Store.LoadState()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	habit, ok := snapshot.Habit(cmd.ID)
	if !ok {
		return fmt.Errorf("habit not found: %s", cmd.ID)
	}

	var completions []models.HabitCompletion
	for _, c := range snapshot.HabitCompletions {
		if c.HabitID == habit.ID {
			completions = append(completions, c)
		}
	}
	return printJSON(struct {
		models.Habit
		Completions []models.HabitCompletion `json:"completions"`
	}{habit, completions})
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
