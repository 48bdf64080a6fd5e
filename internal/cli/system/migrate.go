package system

import (
	"fmt"

	"github.com/julianstephens/greenie/internal/cli"
	"github.com/julianstephens/greenie/internal/migration"
)

// migrator is implemented by every SQL-backed storage provider.
type migrator interface {
	Runner() (*migration.Runner, error)
	Migrate(logFn func(string)) (int, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("storage %s does not support migrations", ctx.Store.GetConfigPath())
	}

	count, err := m.Migrate(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
