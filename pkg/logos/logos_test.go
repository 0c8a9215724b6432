package logos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/logos/pkg/logos/foil"
	"github.com/cognicore/logos/pkg/logos/internalerr"
	"github.com/cognicore/logos/pkg/logos/logic"
	"github.com/cognicore/logos/pkg/logos/term"
)

func newTestLogos(t *testing.T) *Logos {
	t.Helper()
	l, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func family() []logic.Clause {
	return []logic.Clause{
		logic.Fact(logic.Lit("parent", "a", "b")),
		logic.Fact(logic.Lit("parent", "b", "c")),
		logic.Fact(logic.Lit("parent", "b", "d")),
		logic.Fact(logic.Lit("parent", "c", "e")),
		logic.Fact(logic.Lit("parent", "d", "f")),
	}
}

func TestLogos_ResolveAndWorld(t *testing.T) {
	ctx := context.Background()
	l := newTestLogos(t)

	edges := []logic.Clause{
		logic.Fact(logic.Lit("edge", 0, 1)),
		logic.Fact(logic.Lit("edge", 1, 2)),
		logic.NewClause(logic.Lit("path", "X", "Y"), logic.Lit("edge", "X", "Y")),
		logic.NewClause(logic.Lit("path", "X", "Y"), logic.Lit("edge", "X", "Z"), logic.Lit("path", "Z", "Y")),
	}
	if err := l.Assert(ctx, "graph", edges...); err != nil {
		t.Fatalf("Assert: %v", err)
	}

	w, err := l.World(ctx, "graph")
	if err != nil {
		t.Fatalf("World: %v", err)
	}
	if !w.Contains(logic.Lit("path", 0, 2)) || w.Contains(logic.Lit("path", 2, 0)) {
		t.Errorf("unexpected world:\n%s", w)
	}
	again, _ := l.World(ctx, "graph")
	if again != w {
		t.Error("expected cached world for unchanged program")
	}

	_, ok, err := l.Resolve(ctx, "graph", logic.Lit("edge", 0, 1))
	if err != nil || !ok {
		t.Errorf("Resolve edge(0, 1): ok=%v err=%v", ok, err)
	}

	// New clauses change the program key, so the cached world is not reused
	l.Assert(ctx, "graph", logic.Fact(logic.Lit("edge", 2, 3)))
	w2, _ := l.World(ctx, "graph")
	if !w2.Contains(logic.Lit("path", 0, 3)) {
		t.Error("world not rebuilt after Assert")
	}
}

func TestLogos_CacheTellsNumbersFromSymbols(t *testing.T) {
	ctx := context.Background()
	l := newTestLogos(t)

	// Both programs print as "p(1).".
	l.Assert(ctx, "num", logic.Fact(logic.Lit("p", term.Number(1))))
	l.Assert(ctx, "sym", logic.Fact(logic.Lit("p", term.Sym("1"))))

	q := logic.Lit("p", term.Number(1))
	if _, ok, err := l.Resolve(ctx, "num", q); err != nil || !ok {
		t.Fatalf("Resolve on num: ok=%v err=%v", ok, err)
	}
	if _, ok, err := l.Resolve(ctx, "sym", q); err != nil || ok {
		t.Errorf("Resolve on sym reused the num resolver: ok=%v err=%v", ok, err)
	}

	wNum, _ := l.World(ctx, "num")
	wSym, _ := l.World(ctx, "sym")
	if wNum == wSym {
		t.Fatal("programs with different terms share a cached world")
	}
	if !wSym.Contains(logic.Lit("p", term.Sym("1"))) || wSym.Contains(q) {
		t.Errorf("sym world = %s", wSym)
	}
}

func TestLogos_ResolveNonGround(t *testing.T) {
	ctx := context.Background()
	l := newTestLogos(t)
	l.Assert(ctx, "family", family()...)

	_, _, err := l.Resolve(ctx, "family", logic.Lit("parent", "X", "b"))
	if !errors.Is(err, internalerr.ErrNonGround) {
		t.Fatalf("expected ErrNonGround, got %v", err)
	}
}

func TestLogos_MissingProgram(t *testing.T) {
	l := newTestLogos(t)
	if _, err := l.World(context.Background(), "nope"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLogos_LearnRecordsRun(t *testing.T) {
	ctx := context.Background()
	l := newTestLogos(t)
	l.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	l.Assert(ctx, "family", family()...)

	target := logic.Lit("grandparent", "X", "Y")
	gp := func(x, y string) logic.Literal { return logic.Lit("grandparent", x, y) }
	examples := []foil.Example{
		foil.Pos(gp("a", "c")), foil.Pos(gp("a", "d")), foil.Pos(gp("b", "e")), foil.Pos(gp("b", "f")),
		foil.Neg(gp("a", "b")), foil.Neg(gp("b", "c")), foil.Neg(gp("c", "e")),
		foil.Neg(gp("a", "e")), foil.Neg(gp("e", "a")), foil.Neg(gp("c", "a")),
	}

	run, err := l.Learn(ctx, "family", target, examples)
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if run.ID == "" || run.Positives != 4 || run.Negatives != 6 {
		t.Errorf("run = %+v", run)
	}
	if len(run.Clauses) != 1 || run.Clauses[0].String() != "grandparent(X, Y) :- parent(X, V0), parent(V0, Y)." {
		t.Errorf("clauses = %v", run.Clauses)
	}

	p, _ := l.Program(ctx, "family")
	if p.Len() != 5 {
		t.Error("Learn should not modify the stored program")
	}

	second, err := l.Learn(ctx, "family", target, examples)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID <= run.ID {
		t.Errorf("run ids not monotonic: %s then %s", run.ID, second.ID)
	}

	runs, err := l.Runs(ctx, "family", 10)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != second.ID {
		t.Errorf("runs = %+v", runs)
	}
}

func TestLogos_LearnNoConvergence(t *testing.T) {
	ctx := context.Background()
	l := newTestLogos(t)
	l.Assert(ctx, "family", family()...)

	// Same arguments labelled both ways can never be separated
	examples := []foil.Example{
		foil.Pos(logic.Lit("odd", "a")),
		foil.Neg(logic.Lit("odd", "b")),
	}
	_, err := l.Learn(ctx, "family", logic.Lit("odd", "X"), append(examples, foil.Neg(logic.Lit("odd", "a"))))
	if !errors.Is(err, internalerr.ErrNoConvergence) {
		t.Fatalf("expected ErrNoConvergence, got %v", err)
	}
	runs, _ := l.Runs(ctx, "family", 0)
	if len(runs) != 0 {
		t.Error("failed run should not be recorded")
	}
}

func TestLogos_Closed(t *testing.T) {
	l, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := l.Program(context.Background(), "x"); !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
	if err := l.Assert(context.Background(), "x"); !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}
