// Package resolve implements backward chaining over a logic.Program with
// committed choice: the first clause whose head matches a goal is the only
// clause ever tried for it. Results are tabled per ground query.
package resolve

import (
	"fmt"
	"strings"

	"github.com/cognicore/logos/pkg/logos/internalerr"
	"github.com/cognicore/logos/pkg/logos/logic"
	"github.com/cognicore/logos/pkg/logos/term"
)

// Step is one resolution step: the clause used, the goal it proved and the
// bindings that made the clause apply.
type Step struct {
	Clause  int
	Literal logic.Literal
	Subst   term.Substitution
}

// Trace is a proof, the step for the query first, followed by the proofs of
// the body goals in order.
type Trace []Step

func (t Trace) String() string {
	var b strings.Builder
	for i, s := range t {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d: %s %s", s.Clause, s.Literal, s.Subst)
	}
	return b.String()
}

type entry struct {
	trace Trace
	ok    bool
}

// Resolver answers ground queries against one program. Not safe for
// concurrent use.
type Resolver struct {
	program   logic.Program
	constants []term.Term
	cache     map[string]entry
}

// New returns a resolver with an empty table.
func New(p logic.Program) *Resolver {
	return &Resolver{
		program:   p,
		constants: p.Constants(),
		cache:     make(map[string]entry),
	}
}

// Program returns the program the resolver answers for.
func (r *Resolver) Program() logic.Program { return r.program }

// CacheLen returns the number of tabled queries.
func (r *Resolver) CacheLen() int { return len(r.cache) }

// Resolve proves a ground query. A missing proof is (nil, false, nil); a
// query with variables is an error wrapping internalerr.ErrNonGround.
func (r *Resolver) Resolve(q logic.Literal) (Trace, bool, error) {
	if !q.IsGround() {
		return nil, false, fmt.Errorf("resolve %s: %w", q, internalerr.ErrNonGround)
	}
	trace, ok := r.resolve(q)
	return trace, ok, nil
}

func (r *Resolver) resolve(q logic.Literal) (Trace, bool) {
	key := q.Key()
	if e, hit := r.cache[key]; hit {
		return e.trace, e.ok
	}

	trace, ok := r.prove(q)
	r.cache[key] = entry{trace: trace, ok: ok}
	return trace, ok
}

func (r *Resolver) prove(q logic.Literal) (Trace, bool) {
	for i := 0; i < r.program.Len(); i++ {
		c := r.program.Clause(i)
		sub, ok := c.Head.Unify(q)
		if !ok {
			continue
		}
		if c.IsFact() {
			return Trace{{Clause: i, Literal: q, Subst: sub}}, true
		}
		// Committed to clause i: a failing body fails the query.
		sub, subtraces, ok := r.proveBody(c, 0, sub)
		if !ok {
			return nil, false
		}
		trace := Trace{{Clause: i, Literal: q, Subst: sub}}
		for _, st := range subtraces {
			trace = append(trace, st...)
		}
		return trace, true
	}
	return nil, false
}

// proveBody proves body literals from index i on. Literals whose variables
// are not fixed by the head are grounded over the program constants, and
// only those groundings are retried on failure.
func (r *Resolver) proveBody(c logic.Clause, i int, sub term.Substitution) (term.Substitution, []Trace, bool) {
	if i == c.BodyLen() {
		return sub, nil, true
	}
	goal := c.BodyAt(i).Substitute(sub)
	if goal.IsGround() {
		t, ok := r.resolve(goal)
		if !ok {
			return nil, nil, false
		}
		final, rest, ok := r.proveBody(c, i+1, sub)
		if !ok {
			return nil, nil, false
		}
		return final, append([]Trace{t}, rest...), true
	}

	var (
		final  term.Substitution
		traces []Trace
		found  bool
	)
	logic.Groundings(goal.Vars(), r.constants, sub, func(g term.Substitution) bool {
		t, ok := r.resolve(goal.Substitute(g))
		if !ok {
			return true
		}
		f, rest, ok := r.proveBody(c, i+1, g)
		if !ok {
			return true
		}
		final, traces, found = f, append([]Trace{t}, rest...), true
		return false
	})
	return final, traces, found
}
