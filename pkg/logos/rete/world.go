package rete

import (
	"sort"
	"strings"

	"github.com/cognicore/logos/pkg/logos/logic"
)

// World is the set of ground literals derived by a network, in the order
// they were first produced, each with the grounded clause that produced it.
type World struct {
	agenda []logic.Clause
	index  map[string]int
}

func newWorld() *World {
	return &World{index: make(map[string]int)}
}

func (w *World) add(c logic.Clause) bool {
	key := c.Head.Key()
	if _, ok := w.index[key]; ok {
		return false
	}
	w.index[key] = len(w.agenda)
	w.agenda = append(w.agenda, c)
	return true
}

func (w *World) Len() int { return len(w.agenda) }

func (w *World) Contains(l logic.Literal) bool {
	_, ok := w.index[l.Key()]
	return ok
}

// Literals returns every derived literal in derivation order.
func (w *World) Literals() []logic.Literal {
	out := make([]logic.Literal, len(w.agenda))
	for i, c := range w.agenda {
		out[i] = c.Head
	}
	return out
}

// Support returns the grounded clause that first produced l. Facts come
// back as body-less clauses.
func (w *World) Support(l logic.Literal) (logic.Clause, bool) {
	i, ok := w.index[l.Key()]
	if !ok {
		return logic.Clause{}, false
	}
	return w.agenda[i], true
}

// Agenda returns the grounded clauses in derivation order.
func (w *World) Agenda() []logic.Clause {
	return append([]logic.Clause(nil), w.agenda...)
}

// Select returns the derived literals with the given functor and arity.
func (w *World) Select(functor string, arity int) []logic.Literal {
	var out []logic.Literal
	for _, c := range w.agenda {
		if c.Head.Functor == functor && c.Head.Arity() == arity {
			out = append(out, c.Head)
		}
	}
	return out
}

// String renders the literals sorted, one per line, which makes two worlds
// comparable regardless of derivation order.
func (w *World) String() string {
	lines := make([]string, len(w.agenda))
	for i, c := range w.agenda {
		lines[i] = c.Head.String()
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
