package backups

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/greenie/internal/backup"
	"github.com/julianstephens/greenie/internal/cli"
	"github.com/julianstephens/greenie/internal/clock"
	"github.com/julianstephens/greenie/internal/storage/postgres"
	"github.com/julianstephens/greenie/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := &cli.Context{
		Store: store,
		Clock: clock.Fixed{T: time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)},
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, cleanup
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list with no backups failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}

	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("backup list failed: %v", err)
	}
}

func TestBackupRestoreByName(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	sess, err := ctx.Session()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sess.SignUp("sam@example.com", "Sam"); err != nil {
		t.Fatal(err)
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	path, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	if err := sess.Logout(); err != nil {
		t.Fatal(err)
	}

	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(path), Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("failed to reload store: %v", err)
	}
	snapshot, err := ctx.Store.LoadState()
	if err != nil {
		t.Fatal(err)
	}
	if snapshot.User == nil || snapshot.User.Email != "sam@example.com" {
		t.Errorf("expected the signed-in session to be restored, got %+v", snapshot.User)
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &BackupRestoreCmd{BackupFile: "greenie-20250101-0000.db", Yes: true}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected an error for a missing backup")
	}
}

func TestBackupsRequireSQLite(t *testing.T) {
	ctx := &cli.Context{Store: postgres.New("postgres://greenie@localhost/greenie")}

	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected backups to be refused for PostgreSQL")
	}
	if err := (&BackupListCmd{}).Run(ctx); err == nil {
		t.Error("expected backup listing to be refused for PostgreSQL")
	}
}
