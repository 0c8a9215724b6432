package resolve

import (
	"errors"
	"testing"

	"github.com/cognicore/logos/pkg/logos/internalerr"
	"github.com/cognicore/logos/pkg/logos/logic"
	"github.com/cognicore/logos/pkg/logos/term"
)

func swapProgram() logic.Program {
	return logic.NewProgram(
		logic.NewClause(logic.Lit("q", "X", "Y"), logic.Lit("p", "Y", "X")),
		logic.Fact(logic.Lit("p", 1, 2)),
	)
}

func TestResolveSwap(t *testing.T) {
	r := New(swapProgram())

	trace, ok, err := r.Resolve(logic.Lit("q", 2, 1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !ok {
		t.Fatal("expected q(2, 1) to resolve")
	}
	if len(trace) != 2 {
		t.Fatalf("expected a two-step trace, got %v", trace)
	}
	want := term.Substitution{term.Var("X"): term.Number(2), term.Var("Y"): term.Number(1)}
	if trace[0].Clause != 0 || !trace[0].Subst.Equal(want) {
		t.Errorf("first step = %d %v, want 0 %v", trace[0].Clause, trace[0].Subst, want)
	}
	if trace[1].Clause != 1 || trace[1].Literal.String() != "p(1, 2)" {
		t.Errorf("second step = %d %s", trace[1].Clause, trace[1].Literal)
	}

	_, ok, err = r.Resolve(logic.Lit("q", 1, 2))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ok {
		t.Error("q(1, 2) should not resolve")
	}
}

func TestResolveRejectsNonGround(t *testing.T) {
	r := New(swapProgram())
	_, _, err := r.Resolve(logic.Lit("q", "X", 1))
	if !errors.Is(err, internalerr.ErrNonGround) {
		t.Fatalf("expected ErrNonGround, got %v", err)
	}
	if r.CacheLen() != 0 {
		t.Error("a rejected query must not be tabled")
	}
}

func TestResolveTabling(t *testing.T) {
	r := New(swapProgram())
	q := logic.Lit("q", 2, 1)

	first, _, _ := r.Resolve(q)
	size := r.CacheLen()
	second, _, _ := r.Resolve(q)

	if r.CacheLen() != size {
		t.Errorf("second call grew the table from %d to %d", size, r.CacheLen())
	}
	if first.String() != second.String() {
		t.Errorf("traces differ:\n%s\n---\n%s", first, second)
	}

	// Failures are tabled too.
	r.Resolve(logic.Lit("q", 1, 2))
	size = r.CacheLen()
	r.Resolve(logic.Lit("q", 1, 2))
	if r.CacheLen() != size {
		t.Error("cached failure was recomputed into a new entry")
	}
}

func TestResolveCommitsToFirstMatchingClause(t *testing.T) {
	p := logic.NewProgram(
		logic.NewClause(logic.Lit("r", "X"), logic.Lit("s", "X")),
		logic.Fact(logic.Lit("r", "a")),
		logic.Fact(logic.Lit("s", "b")),
	)
	r := New(p)

	if _, ok, _ := r.Resolve(logic.Lit("r", "a")); ok {
		t.Error("r(a) must fail: the first clause matches and its body fails")
	}
	if _, ok, _ := r.Resolve(logic.Lit("r", "b")); !ok {
		t.Error("r(b) should resolve through s(b)")
	}
}

func TestResolveExistentialBodyVariables(t *testing.T) {
	p := logic.NewProgram(
		logic.NewClause(logic.Lit("grandparent", "X", "Y"), logic.Lit("parent", "X", "Z"), logic.Lit("parent", "Z", "Y")),
		logic.Fact(logic.Lit("parent", "ann", "bob")),
		logic.Fact(logic.Lit("parent", "ann", "cat")),
		logic.Fact(logic.Lit("parent", "cat", "dan")),
	)
	r := New(p)

	trace, ok, err := r.Resolve(logic.Lit("grandparent", "ann", "dan"))
	if err != nil || !ok {
		t.Fatalf("expected grandparent(ann, dan), ok=%v err=%v", ok, err)
	}
	// bob is tried first for Z and rejected by the second literal.
	z, _ := trace[0].Subst.Lookup(term.Var("Z"))
	if z != term.Sym("cat") {
		t.Errorf("Z = %v, want cat", z)
	}
	if len(trace) != 3 {
		t.Errorf("trace length = %d, want 3:\n%s", len(trace), trace)
	}

	if _, ok, _ := r.Resolve(logic.Lit("grandparent", "bob", "dan")); ok {
		t.Error("grandparent(bob, dan) should not resolve")
	}
}

func TestResolveNegatedLiteralsMatchByPolarity(t *testing.T) {
	p := logic.NewProgram(
		logic.Fact(logic.Lit("open", "door").Complement()),
	)
	r := New(p)
	if _, ok, _ := r.Resolve(logic.Lit("open", "door")); ok {
		t.Error("positive query must not match a negated fact")
	}
	if _, ok, _ := r.Resolve(logic.Lit("open", "door").Complement()); !ok {
		t.Error("negated query should match the negated fact")
	}
}
