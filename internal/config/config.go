// Package config provides the configuration schema and loader for the
// taskmill extraction server.
package config

import "log/slog"

// LogLevel controls log verbosity for the server.
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

// Slog maps l onto the corresponding slog level. Unknown values map to info.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Mode selects how transcripts are extracted.
type Mode string

const (
	// ModeHeuristic uses only the pattern bank; no model calls are made.
	ModeHeuristic Mode = "heuristic"

	// ModeModel uses only the generative model; model failures surface to
	// the caller.
	ModeModel Mode = "model"

	// ModeAuto prefers the model and falls back to the pattern bank when
	// the completion service fails.
	ModeAuto Mode = "auto"
)

// IsValid reports whether m is a recognised extraction mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeHeuristic, ModeModel, ModeAuto:
		return true
	}
	return false
}

// Config is the root configuration structure, typically loaded from a YAML
// file via [Load] or [LoadFromReader].
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Provider   ProviderConfig   `yaml:"provider"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Database   DatabaseConfig   `yaml:"database"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the HTTP server listens on
	// (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// ProviderConfig selects and configures the text-completion backend.
type ProviderConfig struct {
	// Name is the backend name: "openai" for the native OpenAI client, or
	// any backend supported by any-llm ("anthropic", "gemini", "ollama",
	// "deepseek", "mistral", "groq", "llamacpp", "llamafile").
	Name string `yaml:"name"`

	// Model is the model identifier (e.g., "gpt-4o-mini").
	Model string `yaml:"model"`

	// APIKeyEnv names the environment variable holding the API key. The
	// key itself never appears in config files. Empty means the backend's
	// conventional variable (OPENAI_API_KEY and friends).
	APIKeyEnv string `yaml:"api_key_env"`

	// BaseURL overrides the backend's API base URL, for gateways and local
	// servers.
	BaseURL string `yaml:"base_url"`

	// Temperature is the sampling temperature for extraction requests.
	Temperature float64 `yaml:"temperature"`

	// MaxTokens caps completion length. Zero means the adapter default.
	MaxTokens int `yaml:"max_tokens"`

	// TimeoutSeconds bounds one completion request. Zero disables the
	// bound, which risks stalling extraction on a hung connection.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// ExtractionConfig tunes the pipeline.
type ExtractionConfig struct {
	// Mode selects the extractor composition. Default: auto.
	Mode Mode `yaml:"mode"`

	// FuzzyAssignee enables Jaro-Winkler fallback matching of assignee
	// hints against the roster when substring matching finds nobody.
	FuzzyAssignee bool `yaml:"fuzzy_assignee"`

	// FuzzyThreshold is the minimum similarity for a fuzzy match, in
	// (0, 1]. Zero selects the resolver default.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
}

// DatabaseConfig configures PostgreSQL persistence. An empty DSN selects
// the in-memory stores.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}
