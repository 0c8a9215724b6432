package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cognicore/logos/pkg/logos/foil"
	"github.com/cognicore/logos/pkg/logos/logic"
)

// Loader loads all configuration files a run needs
type Loader struct {
	ConfigPath   string
	ProgramPath  string
	ExamplesPath string
}

// Components holds everything a Loader read
type Components struct {
	Config      Config
	ProgramName string
	Program     logic.Program
	Target      logic.Literal
	Examples    []foil.Example
	HasExamples bool
}

// Load reads the configured files. Missing optional paths fall back to defaults.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{Config: Default()}

	if l.ConfigPath != "" {
		cfg, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		comp.Config = cfg
	}

	if l.ProgramPath != "" {
		name, p, err := LoadProgram(l.ProgramPath)
		if err != nil {
			return nil, fmt.Errorf("load program: %w", err)
		}
		if name == "" {
			base := filepath.Base(l.ProgramPath)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		comp.ProgramName = name
		comp.Program = p
	}

	if l.ExamplesPath != "" {
		target, examples, err := LoadExamples(l.ExamplesPath)
		if err != nil {
			return nil, fmt.Errorf("load examples: %w", err)
		}
		comp.Target = target
		comp.Examples = examples
		comp.HasExamples = true
	}

	return comp, nil
}
