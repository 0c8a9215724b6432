// Package term holds the atomic vocabulary of the engine: constants,
// variables and the substitutions that bind one to the other.
package term

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/logos/pkg/logos/internalerr"
)

// Kind distinguishes the four shapes a Term can take.
type Kind uint8

const (
	KindBool Kind = iota
	KindNumber
	KindSymbol
	KindVariable
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindSymbol:
		return "symbol"
	case KindVariable:
		return "variable"
	}
	return "unknown"
}

// Term is either a constant (bool, number, symbol) or a variable.
// Terms are comparable values and can be used directly as map keys.
type Term struct {
	kind Kind
	b    bool
	n    float64
	s    string
}

// Bool returns a boolean constant.
func Bool(b bool) Term { return Term{kind: KindBool, b: b} }

// Number returns a numeric constant. Negative zero is stored as zero so that
// == and Key agree. NaN is not a constant and panics; Of reports it as an
// error instead.
func Number(n float64) Term {
	if math.IsNaN(n) {
		panic("term: NaN is not a number constant")
	}
	if n == 0 {
		n = 0
	}
	return Term{kind: KindNumber, n: n}
}

// Sym returns an opaque symbol constant. The name is taken as is, even when
// it would read as a variable.
func Sym(name string) Term { return Term{kind: KindSymbol, s: name} }

// Var returns a variable with the given name.
func Var(name string) Term { return Term{kind: KindVariable, s: name} }

// IsVarName reports whether name reads as a variable: a leading underscore
// or uppercase letter.
func IsVarName(name string) bool {
	if name == "" {
		return false
	}
	if name[0] == '_' {
		return true
	}
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// Of converts a Go scalar into a Term. Strings become variables or symbols
// according to IsVarName.
func Of(v any) (Term, error) {
	switch x := v.(type) {
	case Term:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		if IsVarName(x) {
			return Var(x), nil
		}
		return Sym(x), nil
	case int:
		return Number(float64(x)), nil
	case int8:
		return Number(float64(x)), nil
	case int16:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case uint:
		return Number(float64(x)), nil
	case uint8:
		return Number(float64(x)), nil
	case uint16:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case float32:
		return number(float64(x))
	case float64:
		return number(x)
	}
	return Term{}, fmt.Errorf("term of %T: %w", v, internalerr.ErrInvalidInput)
}

func number(n float64) (Term, error) {
	if math.IsNaN(n) {
		return Term{}, fmt.Errorf("term of NaN: %w", internalerr.ErrInvalidInput)
	}
	return Number(n), nil
}

// MustOf is Of for fixtures and literals known to be valid.
func MustOf(v any) Term {
	t, err := Of(v)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse reads a single scalar word as typed on a command line.
func Parse(s string) Term {
	s = strings.TrimSpace(s)
	switch s {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(n) {
		return Number(n)
	}
	if IsVarName(s) {
		return Var(s)
	}
	return Sym(s)
}

func (t Term) Kind() Kind { return t.kind }

// IsVar reports whether t is a variable.
func (t Term) IsVar() bool { return t.kind == KindVariable }

// IsGround reports whether t is a constant.
func (t Term) IsGround() bool { return t.kind != KindVariable }

// Name returns the symbol or variable name, or "" for other kinds.
func (t Term) Name() string {
	if t.kind == KindSymbol || t.kind == KindVariable {
		return t.s
	}
	return ""
}

// Value returns the Go value behind a constant: bool, float64 or string.
// Variables return their name.
func (t Term) Value() any {
	switch t.kind {
	case KindBool:
		return t.b
	case KindNumber:
		return t.n
	}
	return t.s
}

func (t Term) String() string {
	switch t.kind {
	case KindBool:
		return strconv.FormatBool(t.b)
	case KindNumber:
		return strconv.FormatFloat(t.n, 'g', -1, 64)
	}
	return t.s
}

// Key is a rendering that never collides across kinds, so that the symbol
// "1" and the number 1 stay apart in memo tables. Names are quoted, so a
// Key never contains an unquoted separator.
func (t Term) Key() string {
	switch t.kind {
	case KindBool:
		return "b:" + strconv.FormatBool(t.b)
	case KindNumber:
		return "n:" + strconv.FormatFloat(t.n, 'g', -1, 64)
	case KindSymbol:
		return "s:" + strconv.Quote(t.s)
	}
	return "v:" + strconv.Quote(t.s)
}

// Compare orders terms by kind, then by value. It returns -1, 0 or +1.
func (t Term) Compare(o Term) int {
	if t.kind != o.kind {
		if t.kind < o.kind {
			return -1
		}
		return 1
	}
	switch t.kind {
	case KindBool:
		switch {
		case t.b == o.b:
			return 0
		case !t.b:
			return -1
		}
		return 1
	case KindNumber:
		switch {
		case t.n < o.n:
			return -1
		case t.n > o.n:
			return 1
		}
		return 0
	}
	return strings.Compare(t.s, o.s)
}
