package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoDSN is returned by RequireDatabase when no DSN is configured.
var ErrNoDSN = errors.New("database.dsn is required")

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	if c.Corpus.Path == "" {
		return fmt.Errorf("corpus.path is required")
	}
	if err := c.Decoder.validate(); err != nil {
		return fmt.Errorf("decoder: %w", err)
	}
	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}
	return nil
}

func (d *DecoderConfig) validate() error {
	if d.StackSize < 1 {
		return fmt.Errorf("stack_size must be >= 1 (got %d)", d.StackSize)
	}
	if d.BeamWidth < 0 {
		return fmt.Errorf("beam_width must be >= 0 (got %v)", d.BeamWidth)
	}
	if d.MaxPhraseLength < 1 {
		return fmt.Errorf("max_phrase_length must be >= 1 (got %d)", d.MaxPhraseLength)
	}
	if d.OOVLog10Prob > 0 {
		return fmt.Errorf("oov_log10_prob must be <= 0 (got %v)", d.OOVLog10Prob)
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns (%d) exceeds max_conns (%d)", d.MinConns, d.MaxConns)
	}
	if d.FetchConcurrency < 1 {
		return fmt.Errorf("fetch_concurrency must be >= 1 (got %d)", d.FetchConcurrency)
	}
	return nil
}

// RequireDatabase reports whether the database section can open a pool.
func (c *Config) RequireDatabase() error {
	if c.Database.DSN == "" {
		return ErrNoDSN
	}
	return nil
}
