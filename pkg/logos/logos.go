package logos

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/logos/pkg/logos/foil"
	"github.com/cognicore/logos/pkg/logos/internalerr"
	"github.com/cognicore/logos/pkg/logos/logic"
	"github.com/cognicore/logos/pkg/logos/resolve"
	"github.com/cognicore/logos/pkg/logos/rete"
	"github.com/cognicore/logos/pkg/logos/store"
	"github.com/cognicore/logos/pkg/logos/store/memstore"
)

// Logos is the main engine facade. It keeps named programs in a store and
// caches the resolvers and worlds built from them.
type Logos struct {
	mu        sync.Mutex
	store     store.Store
	learner   foil.Options
	resolvers *lru.Cache[string, *resolve.Resolver]
	worlds    *lru.Cache[string, *rete.World]
	entropy   *ulid.MonotonicEntropy
	now       func() time.Time
	closed    bool
}

// Options configures a Logos instance
type Options struct {
	Store     store.Store // nil uses an in-memory store
	Learner   foil.Options
	CacheSize int // entries per cache, default 64
}

// New creates a Logos instance with the given dependencies
func New(opts Options) (*Logos, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = 64
	}
	resolvers, err := lru.New[string, *resolve.Resolver](size)
	if err != nil {
		return nil, fmt.Errorf("resolver cache: %w", err)
	}
	worlds, err := lru.New[string, *rete.World](size)
	if err != nil {
		return nil, fmt.Errorf("world cache: %w", err)
	}

	st := opts.Store
	if st == nil {
		st = memstore.New()
	}
	return &Logos{
		store:     st,
		learner:   opts.Learner,
		resolvers: resolvers,
		worlds:    worlds,
		entropy:   ulid.Monotonic(rand.Reader, 0),
		now:       time.Now,
	}, nil
}

// Close cleanly shuts down the Logos instance
func (l *Logos) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	l.resolvers.Purge()
	l.worlds.Purge()
	return l.store.Close()
}

// Program returns the stored program, or ErrNotFound.
func (l *Logos) Program(ctx context.Context, name string) (logic.Program, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.program(ctx, name)
}

func (l *Logos) program(ctx context.Context, name string) (logic.Program, error) {
	if l.closed {
		return logic.Program{}, internalerr.ErrStoreUnavailable
	}
	p, ok, err := l.store.GetProgram(ctx, name)
	if err != nil {
		return logic.Program{}, fmt.Errorf("program %s: %w", name, err)
	}
	if !ok {
		return logic.Program{}, fmt.Errorf("program %s: %w", name, internalerr.ErrNotFound)
	}
	return p, nil
}

// SaveProgram stores p under name, replacing any earlier clauses.
func (l *Logos) SaveProgram(ctx context.Context, name string, p logic.Program) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return internalerr.ErrStoreUnavailable
	}
	return l.store.SaveProgram(ctx, name, p)
}

// Assert appends clauses to a named program, creating it if needed.
func (l *Logos) Assert(ctx context.Context, name string, clauses ...logic.Clause) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return internalerr.ErrStoreUnavailable
	}
	return l.store.AppendClauses(ctx, name, clauses...)
}

// Resolve proves a ground query against a named program. Resolvers are
// cached per program content, so their tables survive between calls.
func (l *Logos) Resolve(ctx context.Context, name string, q logic.Literal) (resolve.Trace, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, err := l.program(ctx, name)
	if err != nil {
		return nil, false, err
	}

	key := p.Key()
	r, ok := l.resolvers.Get(key)
	if !ok {
		r = resolve.New(p)
		l.resolvers.Add(key, r)
	}
	return r.Resolve(q)
}

// World returns the least model of a named program. The returned World is
// shared with later callers and must not be modified.
func (l *Logos) World(ctx context.Context, name string) (*rete.World, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, err := l.program(ctx, name)
	if err != nil {
		return nil, err
	}

	key := p.Key()
	if w, ok := l.worlds.Get(key); ok {
		return w, nil
	}
	w := rete.Materialize(p)
	l.worlds.Add(key, w)
	return w, nil
}

// Learn runs the learner with the named program as background and records
// the run. The program itself is left unchanged; pass run.Clauses to Assert
// to keep the result.
func (l *Logos) Learn(ctx context.Context, name string, target logic.Literal, examples []foil.Example) (store.Run, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, err := l.program(ctx, name)
	if err != nil {
		return store.Run{}, err
	}

	learner := foil.Learner{Background: p, Options: l.learner}
	clauses, err := learner.Learn(target, examples)
	if err != nil {
		return store.Run{}, fmt.Errorf("learn %s: %w", target, err)
	}

	now := l.now()
	run := store.Run{
		ID:        ulid.MustNew(ulid.Timestamp(now), l.entropy).String(),
		Program:   name,
		Target:    target,
		Clauses:   clauses,
		CreatedAt: now,
	}
	for _, ex := range examples {
		if ex.Positive {
			run.Positives++
		} else {
			run.Negatives++
		}
	}
	if err := l.store.SaveRun(ctx, run); err != nil {
		return store.Run{}, err
	}
	return run, nil
}

// Runs returns recent learning runs for a program, newest first.
func (l *Logos) Runs(ctx context.Context, name string, limit int) ([]store.Run, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, internalerr.ErrStoreUnavailable
	}
	return l.store.RunsForProgram(ctx, name, limit)
}
