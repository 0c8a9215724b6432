package maintenance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/logos/pkg/logos/store"
)

// RuleWriter persists learned rules to a destination (file, DB, etc.).
type RuleWriter interface {
	WriteRules(ctx context.Context, content string) error
}

// RuleExporter renders learning runs as Prolog-style clauses.
type RuleExporter struct {
	Writer RuleWriter
}

func (e *RuleExporter) Export(ctx context.Context, runs ...store.Run) error {
	if e.Writer == nil {
		return fmt.Errorf("rule exporter: nil writer")
	}
	var b strings.Builder
	for _, r := range runs {
		fmt.Fprintf(&b, "%% %s/%d from %d positive and %d negative examples",
			r.Target.Functor, r.Target.Arity(), r.Positives, r.Negatives)
		if r.ID != "" {
			fmt.Fprintf(&b, " (run %s)", r.ID)
		}
		b.WriteByte('\n')
		for _, c := range r.Clauses {
			b.WriteString(c.String())
			b.WriteByte('\n')
		}
	}
	return e.Writer.WriteRules(ctx, b.String())
}

// FileWriter writes exported rules to a file, replacing its contents.
type FileWriter struct {
	Path string
}

func (w FileWriter) WriteRules(ctx context.Context, content string) error {
	if w.Path == "" {
		return fmt.Errorf("file writer: empty path")
	}
	if dir := filepath.Dir(w.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(w.Path, []byte(content), 0644)
}
