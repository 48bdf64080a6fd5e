// Package jsonfile stores the session snapshot as a single JSON document.
// It is meant for exports and small setups; it has no schema migrations.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/greenie/internal/state"
	"github.com/julianstephens/greenie/internal/storage"
)

// FormatVersion is written to every document.
const FormatVersion = 1

type document struct {
	Version int         `json:"version"`
	SavedAt time.Time   `json:"saved_at"`
	State   state.State `json:"state"`
}

type Store struct {
	path   string
	loaded bool
}

func New(path string) *Store {
	return &Store{path: path}
}

// IsJSONPath reports whether path names a JSON snapshot file.
func IsJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		s.loaded = true
		return nil
	}
	if err := s.write(state.Initial()); err != nil {
		return err
	}
	s.loaded = true
	return nil
}

func (s *Store) Load() error {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}
	s.loaded = true
	return nil
}

func (s *Store) Close() error {
	s.loaded = false
	return nil
}

func (s *Store) LoadState() (state.State, error) {
	if !s.loaded {
		return state.Initial(), storage.ErrNotInitialized
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return state.Initial(), fmt.Errorf("failed to read storage: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return state.Initial(), fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > FormatVersion {
		return state.Initial(), fmt.Errorf("snapshot format %d is newer than supported format %d", doc.Version, FormatVersion)
	}

	// Documents written by hand may omit the slices
	out := doc.State
	empty := state.Initial()
	if out.Activities == nil {
		out.Activities = empty.Activities
	}
	if out.ChatMessages == nil {
		out.ChatMessages = empty.ChatMessages
	}
	if out.Habits == nil {
		out.Habits = empty.Habits
	}
	if out.HabitCompletions == nil {
		out.HabitCompletions = empty.HabitCompletions
	}
	out.Loading = false
	return out, nil
}

func (s *Store) SaveState(st state.State) error {
	if !s.loaded {
		return storage.ErrNotInitialized
	}
	return s.write(st)
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// write replaces the file through a temporary sibling so readers never see
// a partial document.
func (s *Store) write(st state.State) error {
	data, err := json.MarshalIndent(document{
		Version: FormatVersion,
		SavedAt: time.Now().UTC(),
		State:   st,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".greenie-*.json")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpPath := tmp.Name()
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}
