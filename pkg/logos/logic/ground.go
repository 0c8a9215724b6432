package logic

import "github.com/cognicore/logos/pkg/logos/term"

// Groundings calls fn with sub extended by every assignment of vars over
// constants, in lexicographic constant order, until fn returns false.
func Groundings(vars, constants []term.Term, sub term.Substitution, fn func(term.Substitution) bool) bool {
	if len(vars) == 0 {
		return fn(sub)
	}
	if _, bound := sub[vars[0]]; bound {
		return Groundings(vars[1:], constants, sub, fn)
	}
	for _, k := range constants {
		next, _ := sub.Bind(vars[0], k)
		if !Groundings(vars[1:], constants, next, fn) {
			return false
		}
	}
	return true
}
