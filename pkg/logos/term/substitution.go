package term

import (
	"sort"
	"strings"
)

// Substitution binds variables to terms. Values are never modified after
// they are handed out; Bind and Merge return fresh maps.
type Substitution map[Term]Term

// Lookup returns the binding for v.
func (s Substitution) Lookup(v Term) (Term, bool) {
	t, ok := s[v]
	return t, ok
}

// Bind returns a copy of s extended with v -> t. It reports false when v is
// already bound to a different term.
func (s Substitution) Bind(v, t Term) (Substitution, bool) {
	if old, ok := s[v]; ok {
		return s, old == t
	}
	out := make(Substitution, len(s)+1)
	for k, val := range s {
		out[k] = val
	}
	out[v] = t
	return out, true
}

// Merge combines two substitutions that agree on every variable they share.
func (s Substitution) Merge(o Substitution) (Substitution, bool) {
	small, large := s, o
	if len(small) > len(large) {
		small, large = large, small
	}
	for v, t := range small {
		if other, ok := large[v]; ok && other != t {
			return nil, false
		}
	}
	out := make(Substitution, len(s)+len(o))
	for v, t := range s {
		out[v] = t
	}
	for v, t := range o {
		out[v] = t
	}
	return out, true
}

// Apply resolves t through s. Unbound variables and constants come back
// unchanged.
func (s Substitution) Apply(t Term) Term {
	if !t.IsVar() {
		return t
	}
	if bound, ok := s[t]; ok {
		return bound
	}
	return t
}

// Vars returns the bound variables in name order.
func (s Substitution) Vars() []Term {
	vars := make([]Term, 0, len(s))
	for v := range s {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Compare(vars[j]) < 0 })
	return vars
}

func (s Substitution) Equal(o Substitution) bool {
	if len(s) != len(o) {
		return false
	}
	for v, t := range s {
		if other, ok := o[v]; !ok || other != t {
			return false
		}
	}
	return true
}

// Key is a canonical rendering used to deduplicate substitutions.
func (s Substitution) Key() string {
	var b strings.Builder
	for i, v := range s.Vars() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v.Key())
		b.WriteByte('=')
		b.WriteString(s[v].Key())
	}
	return b.String()
}

func (s Substitution) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, v := range s.Vars() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
		b.WriteString(": ")
		b.WriteString(s[v].String())
	}
	b.WriteByte('}')
	return b.String()
}
