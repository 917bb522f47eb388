// Package config loads spindle settings from an optional
// .spindle.yaml file, with documented defaults for everything.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/unbound-force/spindle/internal/dial"
)

// DefaultFile is the config file name searched for in the working
// directory when no explicit path is given.
const DefaultFile = ".spindle.yaml"

// Duration wraps time.Duration so YAML can carry Go duration strings
// like "30s" or "2m".
type Duration time.Duration

// UnmarshalYAML decodes a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML encodes the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) String() string { return time.Duration(d).String() }

// Config holds all spindle settings.
type Config struct {
	Dial struct {
		// Start is the starting dial position. Defaults to 50.
		Start int64 `yaml:"start"`
	} `yaml:"dial"`

	Output struct {
		// Format is the default output format: "text" or "json".
		Format string `yaml:"format"`
	} `yaml:"output"`

	Mutate struct {
		// TestTimeout bounds each go test run against a mutant.
		TestTimeout Duration `yaml:"test_timeout"`

		// MinScore causes a non-zero exit when the mutation score
		// falls below it. Zero means report-only.
		MinScore float64 `yaml:"min_score"`
	} `yaml:"mutate"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	var cfg Config
	cfg.Dial.Start = dial.DefaultStart
	cfg.Output.Format = "text"
	cfg.Mutate.TestTimeout = Duration(2 * time.Minute)
	cfg.Mutate.MinScore = 0
	return cfg
}

// Load reads the config file at path, or DefaultFile in the working
// directory when path is empty. A missing file is not an error; the
// defaults are returned.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks settings that have a constrained range. The start
// position is deliberately unconstrained: the mover accepts any
// integer, normalized or not.
func (c Config) Validate() error {
	if c.Output.Format != "text" && c.Output.Format != "json" {
		return fmt.Errorf("invalid output format %q: must be 'text' or 'json'", c.Output.Format)
	}
	if c.Mutate.TestTimeout <= 0 {
		return fmt.Errorf("invalid mutate test_timeout %s: must be positive", c.Mutate.TestTimeout)
	}
	if c.Mutate.MinScore < 0 || c.Mutate.MinScore > 100 {
		return fmt.Errorf("invalid mutate min_score %.1f: must be in [0, 100]", c.Mutate.MinScore)
	}
	return nil
}
