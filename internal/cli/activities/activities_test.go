package activities

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/greenie/internal/cli"
	"github.com/julianstephens/greenie/internal/clock"
	"github.com/julianstephens/greenie/internal/session"
	"github.com/julianstephens/greenie/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := &cli.Context{
		Store: store,
		Clock: clock.Fixed{T: time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)},
	}
	sess, err := ctx.Session()
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}
	if _, err := sess.SignUp("sam@example.com", "Sam"); err != nil {
		t.Fatalf("failed to sign up: %v", err)
	}

	return ctx, func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
}

func TestLogCmd(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&LogCmd{Type: "car", Quantity: 10}).Run(ctx); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if err := (&LogCmd{Type: "Shower", Quantity: 5}).Run(ctx); err != nil {
		t.Fatalf("log failed: %v", err)
	}

	sess, _ := ctx.Session()
	if got := sess.Today().TotalKgCO2; got != 4.6 {
		t.Errorf("expected 4.6 kg today, got %v", got)
	}
}

func TestLogCmd_Invalid(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&LogCmd{Type: "plane", Quantity: 10}).Run(ctx); err == nil {
		t.Error("expected an error for an unknown type")
	}
	if err := (&LogCmd{Type: "car", Quantity: 0}).Run(ctx); !errors.Is(err, session.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := (&LogCmd{Type: "electricity", Quantity: 3}).Run(ctx); !errors.Is(err, session.ErrUnknownActivityType) {
		t.Errorf("expected ErrUnknownActivityType, got %v", err)
	}
}

func TestListAndDeleteCmd(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatalf("empty list failed: %v", err)
	}
	if err := (&LogCmd{Type: "transit", Quantity: 12}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&ListCmd{All: true}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}

	sess, _ := ctx.Session()
	id := sess.State().Activities[0].ID
	if err := (&DeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if n := len(sess.State().Activities); n != 0 {
		t.Errorf("expected no activities after delete, got %d", n)
	}
	if err := (&DeleteCmd{ID: id}).Run(ctx); !errors.Is(err, session.ErrUnknownActivity) {
		t.Errorf("expected ErrUnknownActivity, got %v", err)
	}
}

func TestTypesCmd(t *testing.T) {
	if err := (&TypesCmd{}).Run(&cli.Context{}); err != nil {
		t.Errorf("types failed: %v", err)
	}
}
