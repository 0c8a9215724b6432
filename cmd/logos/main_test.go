package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/logos/pkg/logos/term"
)

const (
	graphProgram    = "../../testdata/graph/program.yaml"
	familyProgram   = "../../testdata/family/program.yaml"
	familyExamples  = "../../testdata/family/examples.yaml"
	defaultSettings = "../../testdata/logos.yaml"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []term.Term
	}{
		{"", nil},
		{"  ", nil},
		{"0,5", []term.Term{term.Number(0), term.Number(5)}},
		{"a, X ,true", []term.Term{term.Sym("a"), term.Var("X"), term.Bool(true)}},
	}
	for _, tt := range tests {
		got := parseArgs(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("parseArgs(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseArgs(%q)[%d] = %v, want %v", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestRunWorld(t *testing.T) {
	var out bytes.Buffer
	err := runWorld(context.Background(), []string{"-program", graphProgram, "-functor", "path"}, &out)
	if err != nil {
		t.Fatalf("runWorld: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "path(0, 3)") || strings.Contains(got, "path(3, 0)") {
		t.Errorf("unexpected world:\n%s", got)
	}
	if strings.Contains(got, "edge(") {
		t.Error("functor filter not applied")
	}
}

func TestRunWorldRequiresProgram(t *testing.T) {
	if err := runWorld(context.Background(), nil, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error without --program")
	}
}

func TestRunResolve(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	if err := runResolve(ctx, []string{"-program", graphProgram, "-goal", "edge", "-args", "0,1"}, &out); err != nil {
		t.Fatalf("runResolve: %v", err)
	}
	if !strings.HasPrefix(out.String(), "edge(0, 1): proved") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := runResolve(ctx, []string{"-program", graphProgram, "-goal", "edge", "-args", "1,0"}, &out); err != nil {
		t.Fatalf("runResolve: %v", err)
	}
	if !strings.Contains(out.String(), "no proof") {
		t.Errorf("output = %q", out.String())
	}

	if err := runResolve(ctx, []string{"-program", graphProgram, "-goal", "edge", "-args", "X,1"}, &out); err == nil {
		t.Error("expected error for non-ground goal")
	}
}

func TestRunLearnWithDatabase(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "logos.db")
	rulesPath := filepath.Join(dir, "rules.pl")

	args := []string{
		"-config", defaultSettings,
		"-program", familyProgram,
		"-examples", familyExamples,
		"-db", dbPath,
		"-out", rulesPath,
	}
	if err := runLearn(ctx, args, &bytes.Buffer{}); err != nil {
		t.Fatalf("runLearn: %v", err)
	}

	data, err := os.ReadFile(rulesPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "grandparent(X, Y) :- parent(X, V0), parent(V0, Y).") {
		t.Errorf("rules = %s", data)
	}

	var out bytes.Buffer
	if err := runRuns(ctx, []string{"-db", dbPath, "-name", "family"}, &out); err != nil {
		t.Fatalf("runRuns: %v", err)
	}
	if strings.Count(out.String(), "\n") != 1 || !strings.Contains(out.String(), "+4/-6") {
		t.Errorf("runs output = %q", out.String())
	}
}

func TestRunLearnSaveThenCompact(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "logos.db")

	learn := []string{"-program", familyProgram, "-examples", familyExamples, "-db", dbPath, "-save"}
	if err := runLearn(ctx, learn, &bytes.Buffer{}); err != nil {
		t.Fatalf("runLearn: %v", err)
	}

	var out bytes.Buffer
	if err := runCompact(ctx, []string{"-db", dbPath}, &out); err != nil {
		t.Fatalf("runCompact: %v", err)
	}
	if !strings.Contains(out.String(), "processed 1 programs, updated 0") {
		t.Errorf("compact output = %q", out.String())
	}
}
