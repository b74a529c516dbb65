package config_test

import (
	"strings"
	"testing"

	"github.com/taskmill/taskmill/internal/config"
)

func TestLoadFromReader_Complete(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  listen_addr: ":9090"
  log_level: debug
provider:
  name: anthropic
  model: claude-sonnet-4-5
  api_key_env: ANTHROPIC_API_KEY
  temperature: 0.1
  max_tokens: 4096
  timeout_seconds: 30
extraction:
  mode: auto
  fuzzy_assignee: true
  fuzzy_threshold: 0.9
database:
  dsn: "postgres://localhost/taskmill"
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("unexpected listen addr: %q", cfg.Server.ListenAddr)
	}
	if cfg.Server.LogLevel != config.LogDebug {
		t.Errorf("unexpected log level: %q", cfg.Server.LogLevel)
	}
	if cfg.Provider.Name != "anthropic" || cfg.Provider.Model != "claude-sonnet-4-5" {
		t.Errorf("unexpected provider: %+v", cfg.Provider)
	}
	if !cfg.Extraction.FuzzyAssignee || cfg.Extraction.FuzzyThreshold != 0.9 {
		t.Errorf("unexpected extraction config: %+v", cfg.Extraction)
	}
	if cfg.Database.DSN != "postgres://localhost/taskmill" {
		t.Errorf("unexpected dsn: %q", cfg.Database.DSN)
	}
}

func TestLoadFromReader_Defaults(t *testing.T) {
	t.Parallel()
	yaml := `
extraction:
  mode: heuristic
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("expected default listen addr, got %q", cfg.Server.ListenAddr)
	}
	if cfg.Server.LogLevel != config.LogInfo {
		t.Errorf("expected default log level info, got %q", cfg.Server.LogLevel)
	}
}

func TestLoadFromReader_DefaultModeNeedsProvider(t *testing.T) {
	t.Parallel()
	// The default mode is auto, which requires a configured provider.
	_, err := config.LoadFromReader(strings.NewReader(`server: {}`))
	if err == nil {
		t.Fatal("expected a validation error, got nil")
	}
	if !strings.Contains(err.Error(), "provider.name") {
		t.Errorf("error should mention provider.name, got: %v", err)
	}
}

func TestLoadFromReader_UnknownFieldRejected(t *testing.T) {
	t.Parallel()
	yaml := `
extraction:
  mode: heuristic
  typo_field: true
`
	if _, err := config.LoadFromReader(strings.NewReader(yaml)); err == nil {
		t.Fatal("expected an error for an unknown field, got nil")
	}
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: loud
provider:
  name: skynet
  model: t800
  temperature: 5
extraction:
  mode: model
  fuzzy_threshold: 2
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected validation errors, got nil")
	}
	for _, want := range []string{"log_level", "provider.name", "temperature", "fuzzy_threshold"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s, got: %v", want, err)
		}
	}
}

func TestLoadFromReader_HeuristicModeNeedsNoProvider(t *testing.T) {
	t.Parallel()
	yaml := `
extraction:
  mode: heuristic
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Extraction.Mode != config.ModeHeuristic {
		t.Errorf("unexpected mode: %q", cfg.Extraction.Mode)
	}
}

func TestAPIKey_ReadsNamedEnvVar(t *testing.T) {
	t.Setenv("TASKMILL_TEST_KEY", "sk-test")

	p := config.ProviderConfig{APIKeyEnv: "TASKMILL_TEST_KEY"}
	if got := p.APIKey(); got != "sk-test" {
		t.Errorf("expected sk-test, got %q", got)
	}

	p = config.ProviderConfig{}
	if got := p.APIKey(); got != "" {
		t.Errorf("expected empty key without APIKeyEnv, got %q", got)
	}
}

func TestMode_IsValid(t *testing.T) {
	t.Parallel()
	for _, m := range []config.Mode{config.ModeHeuristic, config.ModeModel, config.ModeAuto} {
		if !m.IsValid() {
			t.Errorf("%q should be valid", m)
		}
	}
	if config.Mode("turbo").IsValid() {
		t.Error("unknown mode should be invalid")
	}
}
