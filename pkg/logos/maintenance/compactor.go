package maintenance

import (
	"context"
	"errors"

	"github.com/cognicore/logos/pkg/logos/logic"
	"github.com/cognicore/logos/pkg/logos/store"
)

// Compactor rewrites stored programs without duplicate clauses. Learned
// clauses appended over several runs often repeat ones already present.
type Compactor struct {
	Store    store.Store
	Programs []string // empty compacts every stored program
}

// Result summarizes the compaction run.
type Result struct {
	Processed int
	Updated   int
	Removed   int
	Errors    int
}

// Compact keeps the first occurrence of each clause, in program order.
func (c *Compactor) Compact(ctx context.Context) (Result, error) {
	var res Result
	if c.Store == nil {
		return res, errors.New("compactor: invalid configuration")
	}

	names := c.Programs
	if len(names) == 0 {
		var err error
		if names, err = c.Store.ListPrograms(ctx); err != nil {
			return res, err
		}
	}

	for _, name := range names {
		p, ok, err := c.Store.GetProgram(ctx, name)
		if err != nil {
			res.Errors++
			continue
		}
		if !ok {
			continue
		}
		res.Processed++

		kept := dedupe(p.Clauses())
		if len(kept) == p.Len() {
			continue
		}
		if err := c.Store.SaveProgram(ctx, name, logic.NewProgram(kept...)); err != nil {
			res.Errors++
			continue
		}
		res.Updated++
		res.Removed += p.Len() - len(kept)
	}
	return res, nil
}

func dedupe(clauses []logic.Clause) []logic.Clause {
	seen := make(map[string]struct{}, len(clauses))
	out := clauses[:0]
	for _, c := range clauses {
		k := c.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}
