package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MrWong99/phonoglyph/pkg/g2p"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and
// [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	// LoadFromReader errors are already prefixed (decode) or name the
	// failing field (validation); wrapping them again would double up.
	return LoadFromReader(f)
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	// Pipeline
	if cfg.Pipeline.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("pipeline.concurrency %d must not be negative", cfg.Pipeline.Concurrency))
	}
	if v := cfg.Pipeline.DefaultVoice; v != "" {
		// Unknown dialect prefixes fall back to the default dialect rather
		// than failing, but they are usually typos — warn about them.
		if v[0] != 'a' && v[0] != 'b' {
			slog.Warn("default voice has no recognised dialect prefix; falling back",
				"voice", v,
				"dialect", g2p.DefaultDialect,
			)
		}
	}

	// Backend
	if cfg.Backend.Name != "" && !cfg.Backend.Name.IsValid() {
		errs = append(errs, fmt.Errorf("backend.name %q is invalid; valid values: goruut, espeak, lexicon", cfg.Backend.Name))
	}
	if cfg.Backend.Name == BackendEspeak && cfg.Backend.BaseURL == "" {
		errs = append(errs, errors.New("backend.base_url is required when backend.name is espeak"))
	}
	if cfg.Backend.Name == BackendLexicon && cfg.Backend.LexiconPath == "" {
		errs = append(errs, errors.New("backend.lexicon_path is required when backend.name is lexicon"))
	}
	if cfg.Backend.Timeout < 0 {
		errs = append(errs, fmt.Errorf("backend.timeout %s must not be negative", cfg.Backend.Timeout))
	}
	if cfg.Backend.Timeout != 0 && cfg.Backend.Name != BackendEspeak {
		slog.Warn("backend.timeout is only used by the espeak backend",
			"backend", cfg.Backend.Name,
		)
	}

	return errors.Join(errs...)
}
