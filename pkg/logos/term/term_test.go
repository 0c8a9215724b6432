package term

import (
	"errors"
	"math"
	"testing"

	"github.com/cognicore/logos/pkg/logos/internalerr"
)

func TestOfClassifiesStrings(t *testing.T) {
	tests := []struct {
		in   any
		kind Kind
		str  string
	}{
		{"X", KindVariable, "X"},
		{"_tmp", KindVariable, "_tmp"},
		{"Éclair", KindVariable, "Éclair"},
		{"bob", KindSymbol, "bob"},
		{"1abc", KindSymbol, "1abc"},
		{3, KindNumber, "3"},
		{2.5, KindNumber, "2.5"},
		{int64(-7), KindNumber, "-7"},
		{true, KindBool, "true"},
	}

	for _, tt := range tests {
		got, err := Of(tt.in)
		if err != nil {
			t.Fatalf("Of(%v): %v", tt.in, err)
		}
		if got.Kind() != tt.kind {
			t.Errorf("Of(%v) kind = %s, want %s", tt.in, got.Kind(), tt.kind)
		}
		if got.String() != tt.str {
			t.Errorf("Of(%v) = %q, want %q", tt.in, got.String(), tt.str)
		}
	}
}

func TestOfRejectsUnsupported(t *testing.T) {
	_, err := Of([]int{1})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParse(t *testing.T) {
	if got := Parse("42"); got != Number(42) {
		t.Errorf("Parse(42) = %v", got)
	}
	if got := Parse("false"); got != Bool(false) {
		t.Errorf("Parse(false) = %v", got)
	}
	if got := Parse(" Y "); got != Var("Y") {
		t.Errorf("Parse(Y) = %v", got)
	}
	if got := Parse("edge"); got != Sym("edge") {
		t.Errorf("Parse(edge) = %v", got)
	}
}

func TestKeyDistinguishesKinds(t *testing.T) {
	if Sym("1").Key() == Number(1).Key() {
		t.Error("symbol 1 and number 1 must have different keys")
	}
	if Sym("1").String() != Number(1).String() {
		t.Error("symbol 1 and number 1 should render the same")
	}
	if Sym("X") == Var("X") {
		t.Error("symbol X and variable X must differ")
	}
}

func TestNumberNormalizesZeroAndRejectsNaN(t *testing.T) {
	negZero := Number(math.Copysign(0, -1))
	if negZero != Number(0) || negZero.Key() != Number(0).Key() {
		t.Errorf("-0 = %v (key %s), want 0", negZero, negZero.Key())
	}
	if _, err := Of(math.NaN()); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Of(NaN): expected ErrInvalidInput, got %v", err)
	}
	if _, err := Of(float32(math.NaN())); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Of(float32 NaN): expected ErrInvalidInput, got %v", err)
	}
	if got := Parse("NaN"); got.Kind() == KindNumber {
		t.Errorf("Parse(NaN) = %v, want a non-number", got)
	}
	if got := Parse("-0"); got != Number(0) {
		t.Errorf("Parse(-0) = %v", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Number(NaN) should panic")
		}
	}()
	Number(math.NaN())
}

func TestCompareOrdersByKindThenValue(t *testing.T) {
	ordered := []Term{Bool(false), Bool(true), Number(-1), Number(2), Sym("a"), Sym("b"), Var("X")}
	for i := 0; i < len(ordered)-1; i++ {
		if ordered[i].Compare(ordered[i+1]) >= 0 {
			t.Errorf("expected %v < %v", ordered[i], ordered[i+1])
		}
		if ordered[i+1].Compare(ordered[i]) <= 0 {
			t.Errorf("expected %v > %v", ordered[i+1], ordered[i])
		}
	}
	if Sym("a").Compare(Sym("a")) != 0 {
		t.Error("equal terms should compare 0")
	}
}

func TestSubstitutionBindIsPersistent(t *testing.T) {
	x, y := Var("X"), Var("Y")
	s0 := Substitution{}
	s1, ok := s0.Bind(x, Sym("a"))
	if !ok {
		t.Fatal("bind on empty substitution failed")
	}
	if len(s0) != 0 {
		t.Fatal("Bind mutated its receiver")
	}

	if _, ok := s1.Bind(x, Sym("b")); ok {
		t.Error("expected conflict binding X twice")
	}
	if _, ok := s1.Bind(x, Sym("a")); !ok {
		t.Error("rebinding to the same value should succeed")
	}

	s2, ok := s1.Bind(y, Number(1))
	if !ok || len(s2) != 2 || len(s1) != 1 {
		t.Fatalf("unexpected bind result: %v / %v", s1, s2)
	}
	if s2.String() != "{X: a, Y: 1}" {
		t.Errorf("String() = %s", s2.String())
	}
}

func TestSubstitutionMerge(t *testing.T) {
	x, y, z := Var("X"), Var("Y"), Var("Z")
	a := Substitution{x: Sym("a"), y: Sym("b")}
	b := Substitution{y: Sym("b"), z: Sym("c")}

	merged, ok := a.Merge(b)
	if !ok {
		t.Fatal("compatible substitutions failed to merge")
	}
	want := Substitution{x: Sym("a"), y: Sym("b"), z: Sym("c")}
	if !merged.Equal(want) {
		t.Errorf("Merge = %v, want %v", merged, want)
	}

	c := Substitution{y: Sym("other")}
	if _, ok := a.Merge(c); ok {
		t.Error("expected conflicting merge to fail")
	}
}

func TestSubstitutionKeyIsCanonical(t *testing.T) {
	a := Substitution{Var("X"): Number(1), Var("Y"): Sym("q")}
	b := Substitution{Var("Y"): Sym("q"), Var("X"): Number(1)}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %q vs %q", a.Key(), b.Key())
	}
	if a.Apply(Var("X")) != Number(1) || a.Apply(Var("W")) != Var("W") || a.Apply(Sym("k")) != Sym("k") {
		t.Error("Apply returned unexpected terms")
	}
}
