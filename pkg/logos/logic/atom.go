// Package logic defines the logic objects the engine reasons over: atoms,
// literals, clauses and programs, together with one-directional
// unification and substitution.
//
// All values are immutable once built. Constructors copy their slices and
// accessors hand out copies, so a Program can be shared freely between a
// resolver, a pattern network and a learner.
package logic

import (
	"strconv"
	"strings"

	"github.com/cognicore/logos/pkg/logos/term"
)

// Atom is a functor applied to an ordered, fixed-length argument list.
type Atom struct {
	Functor string
	args    []term.Term
}

// NewAtom builds an atom. The argument slice is copied.
func NewAtom(functor string, args ...term.Term) Atom {
	return Atom{Functor: functor, args: append([]term.Term(nil), args...)}
}

func (a Atom) Arity() int { return len(a.args) }

// Arg returns the i-th argument.
func (a Atom) Arg(i int) term.Term { return a.args[i] }

// Args returns a copy of the arguments.
func (a Atom) Args() []term.Term { return append([]term.Term(nil), a.args...) }

// IsGround reports whether no argument is a variable.
func (a Atom) IsGround() bool {
	for _, t := range a.args {
		if t.IsVar() {
			return false
		}
	}
	return true
}

// Vars returns the distinct variables of a in order of first appearance.
func (a Atom) Vars() []term.Term {
	return appendVars(nil, a.args)
}

func appendVars(vars []term.Term, args []term.Term) []term.Term {
	for _, t := range args {
		if !t.IsVar() {
			continue
		}
		seen := false
		for _, v := range vars {
			if v == t {
				seen = true
				break
			}
		}
		if !seen {
			vars = append(vars, t)
		}
	}
	return vars
}

func (a Atom) Equal(o Atom) bool {
	if a.Functor != o.Functor || len(a.args) != len(o.args) {
		return false
	}
	for i := range a.args {
		if a.args[i] != o.args[i] {
			return false
		}
	}
	return true
}

// Key identifies an atom structurally.
func (a Atom) Key() string {
	var b strings.Builder
	b.WriteString(strconv.Quote(a.Functor))
	b.WriteByte('/')
	for i, t := range a.args {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(t.Key())
	}
	return b.String()
}

func (a Atom) String() string {
	if len(a.args) == 0 {
		return a.Functor
	}
	var b strings.Builder
	b.WriteString(a.Functor)
	b.WriteByte('(')
	for i, t := range a.args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Unify matches a possibly non-ground pattern against a ground atom.
// Variables on the left are bound; constants on the left must equal the
// argument on the right. Nothing on the right is ever bound.
func Unify(pattern, ground Atom) (term.Substitution, bool) {
	return unifyWith(term.Substitution{}, pattern, ground)
}

func unifyWith(sub term.Substitution, pattern, ground Atom) (term.Substitution, bool) {
	if pattern.Functor != ground.Functor || len(pattern.args) != len(ground.args) {
		return nil, false
	}
	for i, left := range pattern.args {
		right := ground.args[i]
		if left.IsVar() {
			var ok bool
			if sub, ok = sub.Bind(left, right); !ok {
				return nil, false
			}
			continue
		}
		if left != right {
			return nil, false
		}
	}
	return sub, true
}

// Substitute replaces every variable of a bound in sub.
func Substitute(a Atom, sub term.Substitution) Atom {
	args := make([]term.Term, len(a.args))
	for i, t := range a.args {
		args[i] = sub.Apply(t)
	}
	return Atom{Functor: a.Functor, args: args}
}
