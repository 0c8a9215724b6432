package foil

import (
	"fmt"

	"github.com/cognicore/logos/pkg/logos/internalerr"
	"github.com/cognicore/logos/pkg/logos/logic"
)

// Example is a ground instance of the target predicate labeled positive or
// negative.
type Example struct {
	Fact     logic.Literal
	Positive bool
}

// NewExample validates that fact is ground.
func NewExample(fact logic.Literal, positive bool) (Example, error) {
	if !fact.IsGround() {
		return Example{}, fmt.Errorf("example %s: %w", fact, internalerr.ErrNonGround)
	}
	return Example{Fact: fact, Positive: positive}, nil
}

// Pos is NewExample for a positive fixture. It panics on a non-ground fact.
func Pos(fact logic.Literal) Example { return mustExample(fact, true) }

// Neg is NewExample for a negative fixture. It panics on a non-ground fact.
func Neg(fact logic.Literal) Example { return mustExample(fact, false) }

func mustExample(fact logic.Literal, positive bool) Example {
	ex, err := NewExample(fact, positive)
	if err != nil {
		panic(err)
	}
	return ex
}

func (e Example) String() string {
	if e.Positive {
		return "+" + e.Fact.String()
	}
	return "-" + e.Fact.String()
}
