package logic

import (
	"github.com/cognicore/logos/pkg/logos/term"
)

// Literal is an atom with a polarity.
type Literal struct {
	Atom
	Negated bool
}

// Pos returns the positive literal of a.
func Pos(a Atom) Literal { return Literal{Atom: a} }

// Neg returns the negated literal of a.
func Neg(a Atom) Literal { return Literal{Atom: a, Negated: true} }

// Lit builds a positive literal from Go scalars, see term.Of. It panics on
// arguments term.Of rejects and is meant for fixtures and examples.
func Lit(functor string, args ...any) Literal {
	terms := make([]term.Term, len(args))
	for i, v := range args {
		terms[i] = term.MustOf(v)
	}
	return Pos(Atom{Functor: functor, args: terms})
}

// Complement flips the polarity and keeps the atom.
func (l Literal) Complement() Literal {
	return Literal{Atom: l.Atom, Negated: !l.Negated}
}

func (l Literal) Equal(o Literal) bool {
	return l.Negated == o.Negated && l.Atom.Equal(o.Atom)
}

func (l Literal) Key() string {
	if l.Negated {
		return "~" + l.Atom.Key()
	}
	return l.Atom.Key()
}

func (l Literal) String() string {
	if l.Negated {
		return "~" + l.Atom.String()
	}
	return l.Atom.String()
}

// Unify matches l against a ground literal of the same polarity.
func (l Literal) Unify(ground Literal) (term.Substitution, bool) {
	if l.Negated != ground.Negated {
		return nil, false
	}
	return Unify(l.Atom, ground.Atom)
}

// UnifyWith is Unify starting from existing bindings.
func (l Literal) UnifyWith(sub term.Substitution, ground Literal) (term.Substitution, bool) {
	if l.Negated != ground.Negated {
		return nil, false
	}
	return unifyWith(sub, l.Atom, ground.Atom)
}

func (l Literal) Substitute(sub term.Substitution) Literal {
	return Literal{Atom: Substitute(l.Atom, sub), Negated: l.Negated}
}

// Signature is the shape of a literal: functor, arity and polarity.
type Signature struct {
	Functor string
	Arity   int
	Negated bool
}

func (l Literal) Signature() Signature {
	return Signature{Functor: l.Functor, Arity: l.Arity(), Negated: l.Negated}
}

// Less orders signatures for deterministic candidate generation.
func (s Signature) Less(o Signature) bool {
	if s.Functor != o.Functor {
		return s.Functor < o.Functor
	}
	if s.Arity != o.Arity {
		return s.Arity < o.Arity
	}
	return !s.Negated && o.Negated
}
