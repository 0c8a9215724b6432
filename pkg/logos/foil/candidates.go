package foil

import (
	"strconv"

	"github.com/cognicore/logos/pkg/logos/logic"
	"github.com/cognicore/logos/pkg/logos/term"
)

// candidates lists every literal over the background signatures whose
// arguments are clause variables or fresh ones. Fresh variables are
// numbered in order of first use, so p(V0, X) and p(V1, X) are one
// candidate, and each literal keeps at least one existing variable.
func (s *search) candidates(vars []term.Term, body []logic.Literal) []logic.Literal {
	fresh := freshVars(vars, s.opts.MaxNewVars)

	var out []logic.Literal
	for _, sig := range s.sigs {
		args := make([]term.Term, sig.Arity)
		var fill func(slot, used int, anchored bool)
		fill = func(slot, used int, anchored bool) {
			if slot == sig.Arity {
				if !anchored {
					return
				}
				lit := logic.Literal{Atom: logic.NewAtom(sig.Functor, args...), Negated: sig.Negated}
				if lit.Equal(s.target) || containsLiteral(body, lit) {
					return
				}
				out = append(out, lit)
				return
			}
			for _, v := range vars {
				args[slot] = v
				fill(slot+1, used, true)
			}
			for j := 0; j <= used && j < len(fresh); j++ {
				args[slot] = fresh[j]
				next := used
				if j == used {
					next++
				}
				fill(slot+1, next, anchored)
			}
		}
		fill(0, 0, false)
	}
	return out
}

// freshVars returns n variable names V0, V1, ... that do not clash with
// vars.
func freshVars(vars []term.Term, n int) []term.Term {
	out := make([]term.Term, 0, n)
	for i := 0; len(out) < n; i++ {
		v := term.Var("V" + strconv.Itoa(i))
		if !containsTerm(vars, v) {
			out = append(out, v)
		}
	}
	return out
}

func containsLiteral(ls []logic.Literal, l logic.Literal) bool {
	for _, x := range ls {
		if x.Equal(l) {
			return true
		}
	}
	return false
}
