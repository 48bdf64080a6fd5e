package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/greenie/internal/backup"
	"github.com/julianstephens/greenie/internal/clock"
	"github.com/julianstephens/greenie/internal/constants"
	apperrors "github.com/julianstephens/greenie/internal/errors"
	"github.com/julianstephens/greenie/internal/keyring"
	"github.com/julianstephens/greenie/internal/logger"
	"github.com/julianstephens/greenie/internal/models"
	"github.com/julianstephens/greenie/internal/notifier"
	"github.com/julianstephens/greenie/internal/session"
	"github.com/julianstephens/greenie/internal/storage"
	"github.com/julianstephens/greenie/internal/storage/jsonfile"
	"github.com/julianstephens/greenie/internal/storage/postgres"
	"github.com/julianstephens/greenie/internal/storage/sqlite"
)

type Context struct {
	Store    storage.Provider
	Clock    clock.Clock
	Notifier notifier.Sender
	// Catalog overrides the persisted habit catalog when non-nil.
	Catalog []models.Habit

	session *session.Session
}

// Session opens the session on first use. The store must already be loaded.
func (c *Context) Session() (*session.Session, error) {
	if c.session != nil {
		return c.session, nil
	}
	var opts []session.Option
	if c.Notifier != nil {
		opts = append(opts, session.WithNotifier(c.Notifier))
	}
	if c.Catalog != nil {
		opts = append(opts, session.WithCatalog(c.Catalog))
	}
	s, err := session.Open(c.Store, c.Clock, opts...)
	if err != nil {
		return nil, err
	}
	c.session = s
	return s, nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors.
// Only SQLite stores are backed up.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveProvider picks the storage backend for the --config value. An
// explicit PostgreSQL URL wins; otherwise, when config is the default path,
// GREENIE_DB_CONNECTION and then the OS keyring are consulted before falling
// back to a local file: a JSON snapshot for .json paths, SQLite otherwise.
func ResolveProvider(config string) (storage.Provider, error) {
	if postgres.IsConnString(config) {
		if postgres.HasEmbeddedCredentials(config) {
			return nil, apperrors.WithHint(
				fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed"),
				"Use 'greenie config set-connection', "+constants.EnvDBConnection+" or a .pgpass file instead",
			)
		}
		return postgres.New(config), nil
	}

	if config == "" || config == constants.DefaultConfigPath {
		if connStr := os.Getenv(constants.EnvDBConnection); connStr != "" {
			logger.Debug("Using connection string from environment")
			return postgres.New(connStr), nil
		}
		connStr, err := keyring.GetConnectionString()
		switch {
		case err == nil:
			logger.Debug("Using connection string from keyring")
			return postgres.New(connStr), nil
		case !errors.Is(err, keyring.ErrNotFound):
			logger.Debug("Keyring lookup failed", "error", err)
		}
		config = constants.DefaultConfigPath
	}

	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	if jsonfile.IsJSONPath(path) {
		return jsonfile.New(path), nil
	}
	return sqlite.NewStore(path), nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// FormatKg renders a footprint the way every command prints it.
func FormatKg(kg float64) string {
	return fmt.Sprintf("%.2f kg CO₂", kg)
}

// ProgressBar draws a fixed-width text bar for fraction in [0, 1].
func ProgressBar(fraction float64, width int) string {
	fraction = min(max(fraction, 0), 1)
	filled := int(fraction*float64(width) + 0.5)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
