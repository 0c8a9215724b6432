// Package foil induces clauses for a target predicate from labeled ground
// examples with a FOIL-style covering search: one clause at a time, each
// body grown greedily by information gain until no negative example
// satisfies it.
package foil

import (
	"fmt"
	"sort"

	"github.com/cognicore/logos/pkg/logos/internalerr"
	"github.com/cognicore/logos/pkg/logos/logic"
	"github.com/cognicore/logos/pkg/logos/rete"
	"github.com/cognicore/logos/pkg/logos/term"
)

// Options bound the search. Zero values fall back to defaults.
type Options struct {
	MaxBodyLiterals int  // literals per learned clause
	MaxNewVars      int  // fresh variables a single candidate may introduce
	MaxClauses      int  // clauses per Learn call
	AllowRecursion  bool // let bodies mention the target predicate
}

func (o Options) withDefaults() Options {
	if o.MaxBodyLiterals <= 0 {
		o.MaxBodyLiterals = 4
	}
	if o.MaxNewVars <= 0 {
		o.MaxNewVars = 1
	}
	if o.MaxClauses <= 0 {
		o.MaxClauses = 32
	}
	return o
}

// Learner learns clauses over a fixed background program.
type Learner struct {
	Background logic.Program
	Options    Options
}

// binding is one live example: the example's bindings for every clause
// variable introduced so far.
type binding struct {
	sub      term.Substitution
	positive bool
}

type search struct {
	opts   Options
	target logic.Literal
	facts  map[logic.Signature][]logic.Literal
	sigs   []logic.Signature
}

// Learn returns clauses with head target that, added to the background,
// derive every positive example and no negative one in the background's
// least model. Every head variable of a learned clause occurs in its body.
func (l *Learner) Learn(target logic.Literal, examples []Example) ([]logic.Clause, error) {
	opts := l.Options.withDefaults()

	var pos, neg []Example
	for _, ex := range examples {
		if !ex.Fact.IsGround() {
			return nil, fmt.Errorf("example %s: %w", ex.Fact, internalerr.ErrNonGround)
		}
		if _, ok := target.Unify(ex.Fact); !ok {
			return nil, fmt.Errorf("example %s does not match target %s: %w", ex.Fact, target, internalerr.ErrInvalidInput)
		}
		if ex.Positive {
			pos = append(pos, ex)
		} else {
			neg = append(neg, ex)
		}
	}

	s := &search{
		opts:   opts,
		target: target,
		facts:  make(map[logic.Signature][]logic.Literal),
	}
	world := rete.Materialize(l.Background)
	for _, f := range world.Literals() {
		sig := f.Signature()
		s.facts[sig] = append(s.facts[sig], f)
	}
	targetSig := target.Signature()
	hasTarget := false
	for _, sig := range l.Background.Signatures() {
		if sig == targetSig {
			hasTarget = true
			if !opts.AllowRecursion {
				continue
			}
		}
		s.sigs = append(s.sigs, sig)
	}
	if opts.AllowRecursion {
		// Recursive literals are scored against the positives, the
		// extension the target is meant to have.
		for _, ex := range pos {
			if !world.Contains(ex.Fact) {
				s.facts[targetSig] = append(s.facts[targetSig], ex.Fact)
			}
		}
		if !hasTarget {
			s.sigs = append(s.sigs, targetSig)
			sort.Slice(s.sigs, func(i, j int) bool { return s.sigs[i].Less(s.sigs[j]) })
		}
	}

	var learned []logic.Clause
	for len(pos) > 0 {
		if len(learned) >= opts.MaxClauses {
			return learned, fmt.Errorf("%d clauses leave %d positives uncovered: %w", len(learned), len(pos), internalerr.ErrNoConvergence)
		}
		clause, err := s.newClause(pos, neg)
		if err != nil {
			return learned, err
		}

		covered := rete.Materialize(l.Background.Extend(append(learned, clause)...))
		for _, ex := range neg {
			if covered.Contains(ex.Fact) {
				return learned, fmt.Errorf("clause %s derives negative %s: %w", clause, ex.Fact, internalerr.ErrNoConvergence)
			}
		}
		remaining := make([]Example, 0, len(pos))
		for _, ex := range pos {
			if !covered.Contains(ex.Fact) {
				remaining = append(remaining, ex)
			}
		}
		if len(remaining) == len(pos) {
			return learned, fmt.Errorf("clause %s covers no remaining positive: %w", clause, internalerr.ErrNoConvergence)
		}
		learned = append(learned, clause)
		pos = remaining
	}
	return learned, nil
}

// newClause grows one body until it excludes every negative and binds
// every head variable.
func (s *search) newClause(pos, neg []Example) (logic.Clause, error) {
	live := make([]binding, 0, len(pos)+len(neg))
	for _, ex := range append(append([]Example(nil), pos...), neg...) {
		sub, _ := s.target.Unify(ex.Fact)
		live = append(live, binding{sub: sub, positive: ex.Positive})
	}

	vars := s.target.Vars()
	var body []logic.Literal
	for {
		separating := hasNegative(live)
		unbound := unboundHeadVars(s.target, body)
		if !separating && len(unbound) == 0 {
			break
		}
		if len(body) >= s.opts.MaxBodyLiterals {
			return logic.Clause{}, fmt.Errorf("body %v reached %d literals: %w", body, len(body), internalerr.ErrNoConvergence)
		}

		current := Info(countPositive(live), len(live))
		var (
			best    logic.Literal
			bestSet []binding
			bestVal float64
			found   bool
		)
		for _, cand := range s.candidates(vars, body) {
			ext, covered := s.extend(live, cand)
			var val float64
			if separating {
				// Only literals that gain information make progress.
				val = Gain(covered, current, Info(countPositive(ext), len(ext)))
				if !(val > 0) {
					continue
				}
			} else {
				// No negatives left: bind a missing head variable while
				// keeping as many positives as possible.
				if covered == 0 || !mentionsAny(cand, unbound) {
					continue
				}
				val = float64(covered)
			}
			// Strictly better only: the first of equally good literals wins.
			if !found || val > bestVal {
				best, bestSet, bestVal, found = cand, ext, val, true
			}
		}
		if !found {
			if separating {
				return logic.Clause{}, fmt.Errorf("no literal separates %d negatives after %v: %w", len(live)-countPositive(live), body, internalerr.ErrNoConvergence)
			}
			return logic.Clause{}, fmt.Errorf("no literal binds %v after %v: %w", unbound, body, internalerr.ErrNoConvergence)
		}

		body = append(body, best)
		live = bestSet
		for _, v := range best.Vars() {
			if !containsTerm(vars, v) {
				vars = append(vars, v)
			}
		}
	}
	return logic.NewClause(s.target, body...), nil
}

// unboundHeadVars returns the head variables no body literal mentions.
func unboundHeadVars(head logic.Literal, body []logic.Literal) []term.Term {
	var bound []term.Term
	for _, l := range body {
		bound = append(bound, l.Vars()...)
	}
	var out []term.Term
	for _, v := range head.Vars() {
		if !containsTerm(bound, v) {
			out = append(out, v)
		}
	}
	return out
}

func mentionsAny(l logic.Literal, vars []term.Term) bool {
	for _, v := range l.Vars() {
		if containsTerm(vars, v) {
			return true
		}
	}
	return false
}

// extend rebinds every live example against lit. A binding with several
// matching facts yields several extended bindings; covered counts the
// positives that kept at least one.
func (s *search) extend(live []binding, lit logic.Literal) ([]binding, int) {
	var out []binding
	covered := 0
	facts := s.facts[lit.Signature()]
	for _, b := range live {
		n := 0
		for _, f := range facts {
			sub, ok := lit.UnifyWith(b.sub, f)
			if !ok {
				continue
			}
			out = append(out, binding{sub: sub, positive: b.positive})
			n++
		}
		if n > 0 && b.positive {
			covered++
		}
	}
	return out, covered
}

func hasNegative(bs []binding) bool {
	for _, b := range bs {
		if !b.positive {
			return true
		}
	}
	return false
}

func countPositive(bs []binding) int {
	n := 0
	for _, b := range bs {
		if b.positive {
			n++
		}
	}
	return n
}

func containsTerm(ts []term.Term, t term.Term) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}
