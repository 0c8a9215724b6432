package logic

import (
	"sort"
	"strings"

	"github.com/cognicore/logos/pkg/logos/term"
)

// Program is an ordered clause sequence. Order matters to the resolver,
// which commits to the first clause whose head matches.
type Program struct {
	clauses []Clause
}

// NewProgram builds a program from clauses in order.
func NewProgram(clauses ...Clause) Program {
	return Program{clauses: append([]Clause(nil), clauses...)}
}

func (p Program) Len() int { return len(p.clauses) }

// Clause returns the i-th clause.
func (p Program) Clause(i int) Clause { return p.clauses[i] }

// Clauses returns a copy of the clause list.
func (p Program) Clauses() []Clause { return append([]Clause(nil), p.clauses...) }

// Facts returns the body-less clauses in program order.
func (p Program) Facts() []Clause {
	var out []Clause
	for _, c := range p.clauses {
		if c.IsFact() {
			out = append(out, c)
		}
	}
	return out
}

// Rules returns the clauses with a body in program order.
func (p Program) Rules() []Clause {
	var out []Clause
	for _, c := range p.clauses {
		if !c.IsFact() {
			out = append(out, c)
		}
	}
	return out
}

func (p Program) IsGround() bool {
	for _, c := range p.clauses {
		if !c.IsGround() {
			return false
		}
	}
	return true
}

// Extend returns a new program with clauses appended.
func (p Program) Extend(clauses ...Clause) Program {
	out := make([]Clause, 0, len(p.clauses)+len(clauses))
	out = append(out, p.clauses...)
	out = append(out, clauses...)
	return Program{clauses: out}
}

// Constants returns every ground term of the program, sorted and
// deduplicated.
func (p Program) Constants() []term.Term {
	seen := make(map[term.Term]struct{})
	add := func(l Literal) {
		for _, t := range l.args {
			if t.IsGround() {
				seen[t] = struct{}{}
			}
		}
	}
	for _, c := range p.clauses {
		add(c.Head)
		for _, l := range c.body {
			add(l)
		}
	}
	return SortedTerms(seen)
}

// SortedTerms flattens a term set in term.Compare order.
func SortedTerms(set map[term.Term]struct{}) []term.Term {
	out := make([]term.Term, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// Signatures lists the distinct shapes of every literal in the program.
func (p Program) Signatures() []Signature {
	seen := make(map[Signature]struct{})
	for _, c := range p.clauses {
		seen[c.Head.Signature()] = struct{}{}
		for _, l := range c.body {
			seen[l.Signature()] = struct{}{}
		}
	}
	out := make([]Signature, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Key identifies a program structurally, clause order included. Unlike
// String it tells the number 1 from the symbol "1".
func (p Program) Key() string {
	var b strings.Builder
	for i, c := range p.clauses {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(c.Key())
	}
	return b.String()
}

func (p Program) String() string {
	var b strings.Builder
	for i, c := range p.clauses {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(c.String())
	}
	return b.String()
}
