package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// validProviderNames lists the recognised completion-backend names.
var validProviderNames = []string{
	"openai", "anthropic", "gemini", "ollama", "deepseek",
	"mistral", "groq", "llamacpp", "llamafile",
}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults, and
// validates the result. Useful in tests where configs are constructed from
// string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero values with working defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
	if cfg.Extraction.Mode == "" {
		cfg.Extraction.Mode = ModeAuto
	}
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if !cfg.Extraction.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("extraction.mode %q is invalid; valid values: heuristic, model, auto", cfg.Extraction.Mode))
	}
	if cfg.Extraction.FuzzyThreshold < 0 || cfg.Extraction.FuzzyThreshold > 1 {
		errs = append(errs, fmt.Errorf("extraction.fuzzy_threshold %v is out of range (0, 1]", cfg.Extraction.FuzzyThreshold))
	}

	// A model-using mode needs a provider.
	if cfg.Extraction.Mode != ModeHeuristic {
		if cfg.Provider.Name == "" {
			errs = append(errs, fmt.Errorf("provider.name is required for extraction mode %q", cfg.Extraction.Mode))
		} else if !slices.Contains(validProviderNames, cfg.Provider.Name) {
			errs = append(errs, fmt.Errorf("provider.name %q is unknown; valid values: %v", cfg.Provider.Name, validProviderNames))
		}
		if cfg.Provider.Model == "" {
			errs = append(errs, fmt.Errorf("provider.model is required for extraction mode %q", cfg.Extraction.Mode))
		}
	}

	if cfg.Provider.Temperature < 0 || cfg.Provider.Temperature > 2 {
		errs = append(errs, fmt.Errorf("provider.temperature %v is out of range [0, 2]", cfg.Provider.Temperature))
	}
	if cfg.Provider.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("provider.timeout_seconds must not be negative"))
	}

	return errors.Join(errs...)
}

// APIKey resolves the provider API key from the environment.
func (p ProviderConfig) APIKey() string {
	if p.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(p.APIKeyEnv)
}
