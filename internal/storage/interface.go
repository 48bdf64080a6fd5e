package storage

import (
	"errors"

	"github.com/julianstephens/greenie/internal/state"
)

// ErrNotInitialized is returned by Load when the backing store has not been
// created yet.
var ErrNotInitialized = errors.New("storage not initialized, run 'greenie init' first")

// Provider persists session snapshots. SaveState replaces everything stored
// with s; LoadState returns the last saved snapshot, or state.Initial when
// nothing has been saved.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Snapshot
	LoadState() (state.State, error)
	SaveState(s state.State) error

	// Utils
	GetConfigPath() string
}
