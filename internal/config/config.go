// Package config provides the configuration schema and loader for the
// Phonoglyph phonemization service.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a [time.Duration] that unmarshals from YAML strings like
// "10s" or "1m30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("config: duration must be a string like \"10s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns d as a [time.Duration].
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String returns the standard duration formatting.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// LogLevel controls log verbosity for the Phonoglyph server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// BackendName selects the grapheme-to-phoneme backend implementation.
type BackendName string

const (
	// BackendGoruut runs the in-process goruut phonemizer. The default.
	BackendGoruut BackendName = "goruut"

	// BackendEspeak delegates to an espeak-ng phonemization server over HTTP.
	BackendEspeak BackendName = "espeak"

	// BackendLexicon uses a local pronunciation dictionary file.
	BackendLexicon BackendName = "lexicon"
)

// IsValid reports whether b is a recognised backend name.
func (b BackendName) IsValid() bool {
	switch b {
	case BackendGoruut, BackendEspeak, BackendLexicon:
		return true
	}
	return false
}

// Config is the root configuration structure for Phonoglyph.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Backend  BackendConfig  `yaml:"backend"`
}

// ServerConfig holds network and logging settings for the Phonoglyph server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	// Required when running in serve mode.
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// PipelineConfig holds phonemization pipeline settings.
type PipelineConfig struct {
	// DefaultVoice is the voice selector used when a request names none
	// (e.g., "am_michael"). Only its dialect prefix affects phonemization.
	DefaultVoice string `yaml:"default_voice"`

	// Concurrency bounds how many segment conversions run in parallel per
	// phonemize call. 0 means the pipeline default.
	Concurrency int `yaml:"concurrency"`
}

// BackendConfig selects and configures the grapheme-to-phoneme backend.
type BackendConfig struct {
	// Name selects the backend implementation. Defaults to "goruut".
	Name BackendName `yaml:"name"`

	// BaseURL is the espeak server address. Required for the "espeak"
	// backend, ignored otherwise.
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-request timeout for the "espeak" backend.
	// 0 means the backend default.
	Timeout Duration `yaml:"timeout"`

	// LexiconPath is the pronunciation dictionary file. Required for the
	// "lexicon" backend, ignored otherwise.
	LexiconPath string `yaml:"lexicon_path"`

	// SkipUnknown makes the "lexicon" backend pass unknown words through
	// untranscribed instead of failing the call.
	SkipUnknown bool `yaml:"skip_unknown"`
}
