package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/greenie/internal/catalog"
	"github.com/julianstephens/greenie/internal/cli"
	"github.com/julianstephens/greenie/internal/cli/account"
	"github.com/julianstephens/greenie/internal/cli/activities"
	"github.com/julianstephens/greenie/internal/cli/backups"
	"github.com/julianstephens/greenie/internal/cli/habits"
	"github.com/julianstephens/greenie/internal/cli/progress"
	"github.com/julianstephens/greenie/internal/cli/system"
	"github.com/julianstephens/greenie/internal/clock"
	"github.com/julianstephens/greenie/internal/constants"
	apperrors "github.com/julianstephens/greenie/internal/errors"
	"github.com/julianstephens/greenie/internal/logger"
	"github.com/julianstephens/greenie/internal/models"
	"github.com/julianstephens/greenie/internal/notifier"
	"github.com/julianstephens/greenie/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use GREENIE_DB_CONNECTION, .pgpass, or the OS keyring instead." type:"string" default:"~/.config/greenie/greenie.db"`
	Catalog string `help:"Path to a JSON habit catalog that replaces the built-in one." type:"path"`
	Debug   bool   `help:"Enable debug logging on stderr."`

	Init     system.InitCmd         `cmd:"" help:"Initialize greenie storage."`
	Migrate  system.MigrateCmd      `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd          `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Signup   account.SignupCmd      `cmd:"" help:"Create the local account."`
	Onboard  account.OnboardCmd     `cmd:"" help:"Choose your diet, commute, daily goal and habits."`
	Profile  account.ProfileCmd     `cmd:"" help:"Show or update your profile."`
	Logout   account.LogoutCmd      `cmd:"" help:"Sign out, keeping the habit catalog."`
	Today    progress.TodayCmd      `cmd:"" help:"Show today's footprint and habits."`
	Plant    progress.PlantCmd      `cmd:"" help:"Show your plant's growth."`
	Chat     progress.ChatCmd       `cmd:"" help:"Talk to the Greenie coach."`
	Log      activities.LogCmd      `cmd:"" help:"Log an emitting activity."`
	Activity activities.ActivityCmd `cmd:"" help:"Manage logged activities."`
	Habit    habits.HabitCmd        `cmd:"" help:"Manage habits and habit tracking."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	ConfigCmd system.ConfigCmd   `cmd:"" name:"config" help:"Manage the PostgreSQL connection stored in the OS keyring."`
	Tip       system.TipCmd      `cmd:"" help:"Send the daily tip notification."`
	Validate  system.ValidateCmd `cmd:"" help:"Validate stored data for inconsistencies."`
	DebugCmd  system.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

// selfLoading commands open the store themselves, or never need it.
var selfLoading = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"config":  true,
	"tui":     true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Carbon footprint and green habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configDir := filepath.Join(os.TempDir(), constants.AppName)
	if dir, err := os.UserConfigDir(); err == nil {
		configDir = filepath.Join(dir, constants.AppName)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir, Name: constants.AppName}); err != nil {
		apperrors.Fatalf("failed to initialize logger: %v", err)
	}

	store, err := cli.ResolveProvider(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}

	var habitCatalog []models.Habit
	if CLI.Catalog != "" {
		if habitCatalog, err = catalog.Load(CLI.Catalog); err != nil {
			apperrors.Fatal(err)
		}
	}

	appCtx := &cli.Context{
		Store:    store,
		Clock:    clock.System{},
		Notifier: notifier.New(),
		Catalog:  habitCatalog,
	}

	command := strings.Fields(ctx.Command())
	if len(command) > 0 && !selfLoading[command[0]] {
		if err := store.Load(); err != nil {
			if errors.Is(err, storage.ErrNotInitialized) {
				err = apperrors.WithHint(err, "Run 'greenie init' to create the database")
			}
			apperrors.Fatal(err)
		}
	}
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		_ = store.Close()
		apperrors.Fatal(err)
	}
}
