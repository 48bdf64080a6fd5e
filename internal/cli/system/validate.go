package system

import (
	"fmt"

	"github.com/julianstephens/greenie/internal/cli"
	"github.com/julianstephens/greenie/internal/validation"
)

type ValidateCmd struct {
	Strict bool `help:"Exit with an error when conflicts are found."`
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	snapshot, err := ctx.Store.LoadState()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	fmt.Println("Validating session...")
	result := validation.New().ValidateState(snapshot)

	fmt.Println()
	fmt.Println(result.FormatReport())

	if result.HasConflicts() && cmd.Strict {
		return fmt.Errorf("%d conflict(s) found", len(result.Conflicts))
	}
	return nil
}
