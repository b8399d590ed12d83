package autocanon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the .autocanon.yaml configuration file.
type Config struct {
	// Datasets is the path to the parameter dataset index (TSV).
	Datasets string `yaml:"datasets,omitempty"`

	// Constants is the path to the sample constants file (TSV).
	Constants string `yaml:"constants,omitempty"`

	// Pruning is the fraction of examples a candidate must exceed to be kept.
	Pruning *float64 `yaml:"pruning,omitempty"`

	// Denominator selects how the pruning threshold is computed.
	// One of DenominatorWithCandidates or DenominatorAllExamples.
	Denominator string `yaml:"denominator,omitempty"`

	// Skip is an expression selecting arguments to leave out of generation.
	Skip string `yaml:"skip,omitempty"`

	// Debug writes the scorer request and response next to DebugDir.
	Debug    bool   `yaml:"debug,omitempty"`
	DebugDir string `yaml:"debug_dir,omitempty"`

	// Scorer configures the external scoring process.
	Scorer ScorerConfig `yaml:"scorer,omitempty"`
}

// ScorerConfig holds settings for the external scoring process.
type ScorerConfig struct {
	// Command is the program and leading arguments, e.g. ["python3", "score.py"].
	Command []string `yaml:"command,omitempty"`

	// Model is passed as --model-name-or-path.
	Model string `yaml:"model,omitempty"`

	// Paraphraser toggles --is-paraphraser.
	Paraphraser bool `yaml:"paraphraser,omitempty"`

	// Mask selects --mask (default) or --no-mask.
	Mask *bool `yaml:"mask,omitempty"`

	// KSynonyms and KAdjectives are passed through when positive.
	KSynonyms   int `yaml:"k_synonyms,omitempty"`
	KAdjectives int `yaml:"k_adjectives,omitempty"`

	// Timeout bounds the whole scoring call.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// DefaultConfig returns a Config with every default filled in.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()

	return cfg
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Pruning == nil {
		p := DefaultPruning
		c.Pruning = &p
	}

	if c.Denominator == "" {
		c.Denominator = DefaultDenominator
	}

	if c.Skip == "" {
		c.Skip = DefaultSkipExpr
	}

	if c.DebugDir == "" {
		c.DebugDir = "."
	}

	if len(c.Scorer.Command) == 0 {
		c.Scorer.Command = append([]string(nil), DefaultScorerCommand...)
	}

	if c.Scorer.Model == "" {
		c.Scorer.Model = DefaultModel
	}

	if c.Scorer.Mask == nil {
		mask := true
		c.Scorer.Mask = &mask
	}

	if c.Scorer.Timeout == 0 {
		c.Scorer.Timeout = DefaultTimeout
	}
}

// PruningRatio returns the configured pruning ratio or the default.
func (c *Config) PruningRatio() float64 {
	if c.Pruning == nil {
		return DefaultPruning
	}

	return *c.Pruning
}

// MaskEnabled returns the configured mask toggle or the default.
func (c *Config) MaskEnabled() bool {
	if c.Scorer.Mask == nil {
		return true
	}

	return *c.Scorer.Mask
}

// Validate reports configuration values that cannot produce a run.
func (c *Config) Validate() error {
	if p := c.PruningRatio(); p < 0 || p > 1 {
		return fmt.Errorf("%w: pruning %v outside [0, 1]", ErrInvalidConfig, p)
	}

	switch c.Denominator {
	case "", DenominatorWithCandidates, DenominatorAllExamples:
	default:
		return fmt.Errorf("%w: unknown denominator %q", ErrInvalidConfig, c.Denominator)
	}

	if len(c.Scorer.Command) == 0 || c.Scorer.Command[0] == "" {
		return fmt.Errorf("%w: empty scorer command", ErrInvalidConfig)
	}

	if c.Scorer.Timeout < 0 {
		return fmt.Errorf("%w: negative scorer timeout", ErrInvalidConfig)
	}

	return nil
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".autocanon.yaml", ".autocanon.yml", "autocanon.yaml", "autocanon.yml"}

// LoadConfig finds and loads the nearest .autocanon.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
// Relative dataset and constants paths are resolved against the config's directory.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	cfg.Datasets = resolveRelative(base, cfg.Datasets)
	cfg.Constants = resolveRelative(base, cfg.Constants)

	return &cfg, nil
}

func resolveRelative(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(base, path)
}
