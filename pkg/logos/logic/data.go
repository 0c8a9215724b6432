package logic

import (
	"fmt"

	"github.com/cognicore/logos/pkg/logos/internalerr"
	"github.com/cognicore/logos/pkg/logos/term"
)

// LiteralDoc is the document form of a literal, shared by the YAML
// configuration files and the JSON columns of the sqlite store. Arguments
// are plain scalars read through term.Of, so strings starting with an
// uppercase letter or underscore come back as variables. A symbol whose
// name reads as a variable is written as {sym: Name}.
type LiteralDoc struct {
	Functor string `json:"functor" yaml:"functor"`
	Args    []any  `json:"args,omitempty" yaml:"args,omitempty"`
	Negated bool   `json:"negated,omitempty" yaml:"negated,omitempty"`
}

// ClauseDoc is the document form of a clause.
type ClauseDoc struct {
	Head LiteralDoc   `json:"head" yaml:"head"`
	Body []LiteralDoc `json:"body,omitempty" yaml:"body,omitempty"`
}

func EncodeLiteral(l Literal) LiteralDoc {
	doc := LiteralDoc{Functor: l.Functor, Negated: l.Negated}
	for _, t := range l.args {
		doc.Args = append(doc.Args, encodeTerm(t))
	}
	return doc
}

func DecodeLiteral(doc LiteralDoc) (Literal, error) {
	if doc.Functor == "" {
		return Literal{}, fmt.Errorf("literal without functor: %w", internalerr.ErrInvalidInput)
	}
	args := make([]term.Term, len(doc.Args))
	for i, v := range doc.Args {
		t, err := decodeTerm(v)
		if err != nil {
			return Literal{}, fmt.Errorf("%s argument %d: %w", doc.Functor, i, err)
		}
		args[i] = t
	}
	return Literal{Atom: Atom{Functor: doc.Functor, args: args}, Negated: doc.Negated}, nil
}

func EncodeClause(c Clause) ClauseDoc {
	doc := ClauseDoc{Head: EncodeLiteral(c.Head)}
	for _, l := range c.body {
		doc.Body = append(doc.Body, EncodeLiteral(l))
	}
	return doc
}

func DecodeClause(doc ClauseDoc) (Clause, error) {
	head, err := DecodeLiteral(doc.Head)
	if err != nil {
		return Clause{}, fmt.Errorf("head: %w", err)
	}
	body := make([]Literal, 0, len(doc.Body))
	for i, ld := range doc.Body {
		l, err := DecodeLiteral(ld)
		if err != nil {
			return Clause{}, fmt.Errorf("body literal %d: %w", i, err)
		}
		body = append(body, l)
	}
	return Clause{Head: head, body: body}, nil
}

func EncodeProgram(p Program) []ClauseDoc {
	docs := make([]ClauseDoc, len(p.clauses))
	for i, c := range p.clauses {
		docs[i] = EncodeClause(c)
	}
	return docs
}

func DecodeProgram(docs []ClauseDoc) (Program, error) {
	clauses := make([]Clause, 0, len(docs))
	for i, doc := range docs {
		c, err := DecodeClause(doc)
		if err != nil {
			return Program{}, fmt.Errorf("clause %d: %w", i, err)
		}
		clauses = append(clauses, c)
	}
	return Program{clauses: clauses}, nil
}

const symKey = "sym"

func encodeTerm(t term.Term) any {
	if t.Kind() == term.KindSymbol && term.IsVarName(t.Name()) {
		return map[string]any{symKey: t.Name()}
	}
	return t.Value()
}

func decodeTerm(v any) (term.Term, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return term.Of(v)
	}
	name, ok := m[symKey].(string)
	if !ok || len(m) != 1 {
		return term.Term{}, fmt.Errorf("tagged term %v: %w", m, internalerr.ErrInvalidInput)
	}
	return term.Sym(name), nil
}
