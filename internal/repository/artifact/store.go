package artifact

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"sofida/business/discount"
)

// ErrNotLoaded marks every load failure so callers can tell a degraded model
// slot apart from a bad request.
var ErrNotLoaded = errors.New("model artifacts not loaded")

// Status describes the store for health reporting.
type Status struct {
	Prefix       string `json:"artifact_prefix"`
	Loaded       bool   `json:"model_loaded"`
	LoadedAtUnix int64  `json:"loaded_at_unix,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Store owns the single in-memory slot for loaded model artifacts.
// Lifecycle: init empty -> lazy load on first Snapshot (or eager Load at
// startup) -> optional forced Reload -> process exit. The lock serializes
// loads against reads, so a reader sees either the fully-old or fully-new
// snapshot, never a mix of model and vocabulary.
type Store struct {
	prefix string

	mu      sync.RWMutex
	snap    *discount.ModelSnapshot
	loadErr error
}

func NewStore(prefix string) *Store {
	return &Store{prefix: prefix}
}

// Snapshot returns the current immutable snapshot, loading artifacts on first
// use. Concurrent callers share one load.
func (s *Store) Snapshot(ctx context.Context) (*discount.ModelSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap != nil {
		return s.snap, nil
	}

	s.load()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.snap, nil
}

// Reload forces a fresh load. On failure the slot is cleared rather than left
// pointing at stale artifacts, and the error is retained for health reporting.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load()
	return s.loadErr
}

// load must be called with the write lock held.
func (s *Store) load() {
	arts, err := LoadArtifacts(s.prefix)
	if err != nil {
		s.snap = nil
		s.loadErr = fmt.Errorf("%w: %w", ErrNotLoaded, err)
		return
	}

	s.snap = &discount.ModelSnapshot{
		Model:        arts.Model,
		FeatureCols:  arts.FeatureCols,
		Vocabulary:   arts.Vocabulary,
		LoadedAtUnix: time.Now().Unix(),
	}
	s.loadErr = nil
}

// Status reports without triggering a load.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Prefix: s.prefix,
		Loaded: s.snap != nil,
	}
	if s.snap != nil {
		st.LoadedAtUnix = s.snap.LoadedAtUnix
	}
	if s.loadErr != nil {
		st.Error = s.loadErr.Error()
	}
	return st
}
