package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/cognicore/logos/pkg/logos"
	"github.com/cognicore/logos/pkg/logos/config"
	"github.com/cognicore/logos/pkg/logos/logic"
	"github.com/cognicore/logos/pkg/logos/maintenance"
	"github.com/cognicore/logos/pkg/logos/store"
	"github.com/cognicore/logos/pkg/logos/store/memstore"
	"github.com/cognicore/logos/pkg/logos/store/sqlite"
	"github.com/cognicore/logos/pkg/logos/term"
)

const usage = `usage: logos <command> [flags]

commands:
  world    materialize the least model of a program
  resolve  prove a ground goal against a program
  learn    learn clauses for a target from labelled examples
  runs     list recorded learning runs
  compact  remove duplicate clauses from stored programs
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	var err error
	switch os.Args[1] {
	case "world":
		err = runWorld(ctx, os.Args[2:], os.Stdout)
	case "resolve":
		err = runResolve(ctx, os.Args[2:], os.Stdout)
	case "learn":
		err = runLearn(ctx, os.Args[2:], os.Stdout)
	case "runs":
		err = runRuns(ctx, os.Args[2:], os.Stdout)
	case "compact":
		err = runCompact(ctx, os.Args[2:], os.Stdout)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

// common holds the flags every command accepts
type common struct {
	configPath  string
	programPath string
	dbPath      string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Optional: logos.yaml with learner/cache/store settings")
	fs.StringVar(&c.programPath, "program", "", "Program document (YAML)")
	fs.StringVar(&c.dbPath, "db", "", "Optional: SQLite database path (overrides store.path)")
}

// engine bundles what a command needs: the facade, the raw store, and the
// loaded documents.
type engine struct {
	logos *logos.Logos
	store store.Store
	comp  *config.Components
}

// buildEngine loads configuration, opens the store and installs the program
// document, if any, under its name.
func buildEngine(ctx context.Context, c common, examplesPath string) (*engine, func(), error) {
	loader := config.Loader{
		ConfigPath:   c.configPath,
		ProgramPath:  c.programPath,
		ExamplesPath: examplesPath,
	}
	comp, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}

	dbPath := c.dbPath
	if dbPath == "" {
		dbPath = comp.Config.Store.Path
	}
	var st store.Store
	if dbPath != "" {
		st, err = sqlite.OpenSQLite(ctx, dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open store %s: %w", dbPath, err)
		}
	} else {
		st = memstore.New()
	}

	l, err := logos.New(logos.Options{
		Store:     st,
		Learner:   comp.Config.FoilOptions(),
		CacheSize: comp.Config.Cache.Worlds,
	})
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	cleanup := func() {
		if err := l.Close(); err != nil {
			log.Printf("close: %v", err)
		}
	}

	if comp.ProgramName != "" {
		if err := l.SaveProgram(ctx, comp.ProgramName, comp.Program); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("save program: %w", err)
		}
	}
	return &engine{logos: l, store: st, comp: comp}, cleanup, nil
}

func runWorld(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("world", flag.ContinueOnError)
	var c common
	c.register(fs)
	functor := fs.String("functor", "", "Optional: only print literals with this functor")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.programPath == "" {
		return errors.New("--program required")
	}

	eng, cleanup, err := buildEngine(ctx, c, "")
	if err != nil {
		return err
	}
	defer cleanup()

	w, err := eng.logos.World(ctx, eng.comp.ProgramName)
	if err != nil {
		return err
	}
	n := 0
	for _, l := range w.Literals() {
		if *functor != "" && l.Functor != *functor {
			continue
		}
		fmt.Fprintln(out, l)
		n++
	}
	log.Printf("%s literals derived from %s clauses", humanize.Comma(int64(n)), humanize.Comma(int64(eng.comp.Program.Len())))
	return nil
}

func runResolve(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	var c common
	c.register(fs)
	goal := fs.String("goal", "", "Goal functor (required)")
	goalArgs := fs.String("args", "", "Comma-separated ground arguments")
	negated := fs.Bool("neg", false, "Prove the negated literal")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.programPath == "" {
		return errors.New("--program required")
	}
	if *goal == "" {
		return errors.New("--goal required")
	}

	eng, cleanup, err := buildEngine(ctx, c, "")
	if err != nil {
		return err
	}
	defer cleanup()

	q := logic.Pos(logic.NewAtom(*goal, parseArgs(*goalArgs)...))
	if *negated {
		q = q.Complement()
	}
	trace, ok, err := eng.logos.Resolve(ctx, eng.comp.ProgramName, q)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(out, "%s: no proof\n", q)
		return nil
	}
	fmt.Fprintf(out, "%s: proved in %d steps\n", q, len(trace))
	fmt.Fprintln(out, trace)
	return nil
}

func runLearn(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("learn", flag.ContinueOnError)
	var c common
	c.register(fs)
	examplesPath := fs.String("examples", "", "Examples document (required)")
	outPath := fs.String("out", "", "Optional: write learned clauses to this file")
	keep := fs.Bool("save", false, "Append learned clauses to the stored program")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.programPath == "" {
		return errors.New("--program required")
	}
	if *examplesPath == "" {
		return errors.New("--examples required")
	}

	eng, cleanup, err := buildEngine(ctx, c, *examplesPath)
	if err != nil {
		return err
	}
	defer cleanup()

	comp := eng.comp
	log.Printf("learning %s from %s examples", comp.Target, humanize.Comma(int64(len(comp.Examples))))
	run, err := eng.logos.Learn(ctx, comp.ProgramName, comp.Target, comp.Examples)
	if err != nil {
		return err
	}
	log.Printf("run %s: %d clauses", run.ID, len(run.Clauses))

	if *keep {
		if err := eng.logos.Assert(ctx, comp.ProgramName, run.Clauses...); err != nil {
			return fmt.Errorf("save clauses: %w", err)
		}
	}

	var writer maintenance.RuleWriter = stdoutWriter{out}
	if *outPath != "" {
		writer = maintenance.FileWriter{Path: *outPath}
	}
	exporter := maintenance.RuleExporter{Writer: writer}
	return exporter.Export(ctx, run)
}

func runRuns(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	var c common
	c.register(fs)
	name := fs.String("name", "", "Program name (defaults to the program document's name)")
	limit := fs.Int("limit", 20, "Maximum runs to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	eng, cleanup, err := buildEngine(ctx, c, "")
	if err != nil {
		return err
	}
	defer cleanup()

	program := *name
	if program == "" {
		program = eng.comp.ProgramName
	}
	if program == "" {
		return errors.New("--name or --program required")
	}
	runs, err := eng.logos.Runs(ctx, program, *limit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  %s  %d clauses  +%d/-%d\n",
			r.ID, humanize.Time(r.CreatedAt), r.Target, len(r.Clauses), r.Positives, r.Negatives)
	}
	return nil
}

func runCompact(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("compact", flag.ContinueOnError)
	var c common
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	eng, cleanup, err := buildEngine(ctx, c, "")
	if err != nil {
		return err
	}
	defer cleanup()

	compactor := maintenance.Compactor{Store: eng.store, Programs: fs.Args()}
	res, err := compactor.Compact(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "processed %s programs, updated %s, removed %s clauses, %d errors\n",
		humanize.Comma(int64(res.Processed)), humanize.Comma(int64(res.Updated)),
		humanize.Comma(int64(res.Removed)), res.Errors)
	return nil
}

// parseArgs splits a comma-separated flag value into terms.
func parseArgs(s string) []term.Term {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]term.Term, 0, len(parts))
	for _, p := range parts {
		out = append(out, term.Parse(p))
	}
	return out
}

type stdoutWriter struct {
	w io.Writer
}

func (s stdoutWriter) WriteRules(ctx context.Context, content string) error {
	_, err := io.WriteString(s.w, content)
	return err
}
