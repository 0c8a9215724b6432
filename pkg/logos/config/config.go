package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/logos/pkg/logos/foil"
	"github.com/cognicore/logos/pkg/logos/internalerr"
	"github.com/cognicore/logos/pkg/logos/logic"
)

// Config is the top-level logos configuration file
type Config struct {
	Learner Learner `yaml:"learner"`
	Cache   Cache   `yaml:"cache"`
	Store   Store   `yaml:"store"`
}

// Learner mirrors foil.Options
type Learner struct {
	MaxBodyLiterals int  `yaml:"max_body_literals"`
	MaxNewVars      int  `yaml:"max_new_vars"`
	MaxClauses      int  `yaml:"max_clauses"`
	AllowRecursion  bool `yaml:"allow_recursion"`
}

// Cache sizes the facade caches
type Cache struct {
	Worlds int `yaml:"worlds"`
}

// Store selects the persistence backend. An empty path keeps everything in memory.
type Store struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Learner: Learner{MaxBodyLiterals: 4, MaxNewVars: 1, MaxClauses: 32},
		Cache:   Cache{Worlds: 64},
	}
}

// Load reads a YAML configuration file on top of Default
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects negative limits
func (c Config) Validate() error {
	switch {
	case c.Learner.MaxBodyLiterals < 0:
		return fmt.Errorf("learner.max_body_literals %d: %w", c.Learner.MaxBodyLiterals, internalerr.ErrInvalidConfig)
	case c.Learner.MaxNewVars < 0:
		return fmt.Errorf("learner.max_new_vars %d: %w", c.Learner.MaxNewVars, internalerr.ErrInvalidConfig)
	case c.Learner.MaxClauses < 0:
		return fmt.Errorf("learner.max_clauses %d: %w", c.Learner.MaxClauses, internalerr.ErrInvalidConfig)
	case c.Cache.Worlds < 0:
		return fmt.Errorf("cache.worlds %d: %w", c.Cache.Worlds, internalerr.ErrInvalidConfig)
	}
	return nil
}

// FoilOptions converts the learner section
func (c Config) FoilOptions() foil.Options {
	return foil.Options{
		MaxBodyLiterals: c.Learner.MaxBodyLiterals,
		MaxNewVars:      c.Learner.MaxNewVars,
		MaxClauses:      c.Learner.MaxClauses,
		AllowRecursion:  c.Learner.AllowRecursion,
	}
}

// ProgramFile is the on-disk form of a program
type ProgramFile struct {
	Name    string            `yaml:"name"`
	Clauses []logic.ClauseDoc `yaml:"clauses"`
}

// LoadProgram loads a program document from a YAML file
func LoadProgram(path string) (string, logic.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", logic.Program{}, err
	}

	var pf ProgramFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return "", logic.Program{}, fmt.Errorf("parse %s: %w", path, err)
	}

	p, err := logic.DecodeProgram(pf.Clauses)
	if err != nil {
		return "", logic.Program{}, fmt.Errorf("%s: %w", path, err)
	}
	return pf.Name, p, nil
}

// ExampleDoc is one labeled example
type ExampleDoc struct {
	Fact     logic.LiteralDoc `yaml:"fact"`
	Positive bool             `yaml:"positive"`
}

// ExamplesFile is the on-disk form of a learning task
type ExamplesFile struct {
	Target   logic.LiteralDoc `yaml:"target"`
	Examples []ExampleDoc     `yaml:"examples"`
}

// LoadExamples loads a target schema and its labeled examples
func LoadExamples(path string) (logic.Literal, []foil.Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return logic.Literal{}, nil, err
	}

	var ef ExamplesFile
	if err := yaml.Unmarshal(data, &ef); err != nil {
		return logic.Literal{}, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	target, err := logic.DecodeLiteral(ef.Target)
	if err != nil {
		return logic.Literal{}, nil, fmt.Errorf("%s target: %w", path, err)
	}

	examples := make([]foil.Example, 0, len(ef.Examples))
	for i, doc := range ef.Examples {
		fact, err := logic.DecodeLiteral(doc.Fact)
		if err != nil {
			return logic.Literal{}, nil, fmt.Errorf("%s example %d: %w", path, i, err)
		}
		ex, err := foil.NewExample(fact, doc.Positive)
		if err != nil {
			return logic.Literal{}, nil, fmt.Errorf("%s example %d: %w", path, i, err)
		}
		examples = append(examples, ex)
	}
	return target, examples, nil
}
