package store

import (
	"context"
	"time"

	"github.com/cognicore/logos/pkg/logos/logic"
)

// Store persists named programs and the learning runs made against them
type Store interface {
	Close() error

	// Programs
	SaveProgram(ctx context.Context, name string, p logic.Program) error
	AppendClauses(ctx context.Context, name string, clauses ...logic.Clause) error
	GetProgram(ctx context.Context, name string) (logic.Program, bool, error)
	ListPrograms(ctx context.Context) ([]string, error)

	// Learning runs
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	RunsForProgram(ctx context.Context, program string, limit int) ([]Run, error)
}

// Run records one call to the learner
type Run struct {
	ID        string // ULID, sortable by creation time
	Program   string
	Target    logic.Literal
	Clauses   []logic.Clause
	Positives int
	Negatives int
	CreatedAt time.Time
}
