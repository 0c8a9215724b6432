package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/logos/pkg/logos/internalerr"
	"github.com/cognicore/logos/pkg/logos/logic"
	"github.com/cognicore/logos/pkg/logos/store"
)

// Store is an in-memory implementation of store.Store
type Store struct {
	mu       sync.RWMutex
	programs map[string]logic.Program
	runs     map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		programs: make(map[string]logic.Program),
		runs:     make(map[string]store.Run),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveProgram replaces the program stored under name.
func (s *Store) SaveProgram(ctx context.Context, name string, p logic.Program) error {
	if name == "" {
		return fmt.Errorf("save program: empty name: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs[name] = p
	return nil
}

// AppendClauses adds clauses at the end of a program, creating it if needed.
func (s *Store) AppendClauses(ctx context.Context, name string, clauses ...logic.Clause) error {
	if name == "" {
		return fmt.Errorf("append clauses: empty name: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs[name] = s.programs[name].Extend(clauses...)
	return nil
}

// GetProgram returns the program stored under name.
func (s *Store) GetProgram(ctx context.Context, name string) (logic.Program, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.programs[name]
	return p, ok, nil
}

// ListPrograms returns program names in sorted order.
func (s *Store) ListPrograms(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.programs))
	for name := range s.programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// SaveRun records a learning run. IDs must be unique.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("save run: empty id: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[r.ID]; exists {
		return fmt.Errorf("save run %s: %w", r.ID, internalerr.ErrDuplicate)
	}
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, false, nil
	}
	return copyRun(r), true, nil
}

// RunsForProgram returns the newest runs first.
func (s *Store) RunsForProgram(ctx context.Context, program string, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	var out []store.Run
	for _, r := range s.runs {
		if r.Program == program {
			out = append(out, copyRun(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyRun(r store.Run) store.Run {
	r.Clauses = append([]logic.Clause(nil), r.Clauses...)
	return r
}
