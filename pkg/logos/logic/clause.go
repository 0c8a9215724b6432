package logic

import (
	"strings"

	"github.com/cognicore/logos/pkg/logos/term"
)

// Clause is a head literal and an ordered body. An empty body makes a fact.
type Clause struct {
	Head Literal
	body []Literal
}

// NewClause builds a clause. The body slice is copied.
func NewClause(head Literal, body ...Literal) Clause {
	return Clause{Head: head, body: append([]Literal(nil), body...)}
}

// Fact builds a body-less clause.
func Fact(head Literal) Clause { return Clause{Head: head} }

// Body returns a copy of the body literals.
func (c Clause) Body() []Literal { return append([]Literal(nil), c.body...) }

// BodyLen returns the number of body literals.
func (c Clause) BodyLen() int { return len(c.body) }

// BodyAt returns the i-th body literal.
func (c Clause) BodyAt(i int) Literal { return c.body[i] }

func (c Clause) IsFact() bool { return len(c.body) == 0 }

func (c Clause) IsGround() bool {
	if !c.Head.IsGround() {
		return false
	}
	for _, l := range c.body {
		if !l.IsGround() {
			return false
		}
	}
	return true
}

// Vars returns the clause variables, head first, in order of appearance.
func (c Clause) Vars() []term.Term {
	vars := appendVars(nil, c.Head.args)
	for _, l := range c.body {
		vars = appendVars(vars, l.args)
	}
	return vars
}

// BodyVars returns the variables occurring in the body.
func (c Clause) BodyVars() []term.Term {
	var vars []term.Term
	for _, l := range c.body {
		vars = appendVars(vars, l.args)
	}
	return vars
}

func (c Clause) Equal(o Clause) bool {
	if !c.Head.Equal(o.Head) || len(c.body) != len(o.body) {
		return false
	}
	for i := range c.body {
		if !c.body[i].Equal(o.body[i]) {
			return false
		}
	}
	return true
}

func (c Clause) Key() string {
	var b strings.Builder
	b.WriteString(c.Head.Key())
	for i, l := range c.body {
		if i == 0 {
			b.WriteString(":-")
		} else {
			b.WriteByte('&')
		}
		b.WriteString(l.Key())
	}
	return b.String()
}

// Substitute applies sub to the head and every body literal.
func (c Clause) Substitute(sub term.Substitution) Clause {
	body := make([]Literal, len(c.body))
	for i, l := range c.body {
		body[i] = l.Substitute(sub)
	}
	return Clause{Head: c.Head.Substitute(sub), body: body}
}

func (c Clause) String() string {
	if len(c.body) == 0 {
		return c.Head.String() + "."
	}
	var b strings.Builder
	b.WriteString(c.Head.String())
	b.WriteString(" :- ")
	for i, l := range c.body {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(l.String())
	}
	b.WriteByte('.')
	return b.String()
}
