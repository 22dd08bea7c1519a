package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindConfig_Explicit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	os.WriteFile(path, []byte("listen:\n  port: 9999\n"), 0600)

	got, err := FindConfig(path)
	if err != nil {
		t.Fatalf("FindConfig(%q) error: %v", path, err)
	}
	if got != path {
		t.Errorf("FindConfig(%q) = %q, want %q", path, got, path)
	}
}

func TestFindConfig_ExplicitMissing(t *testing.T) {
	_, err := FindConfig("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("FindConfig with missing explicit path should error")
	}
}

func TestFindConfig_CWD(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("listen:\n  port: 8080\n"), 0600)

	orig, _ := os.Getwd()
	os.Chdir(dir)
	defer os.Chdir(orig)

	got, err := FindConfig("")
	if err != nil {
		t.Fatalf("FindConfig(\"\") error: %v", err)
	}
	if got != "config.yaml" {
		t.Errorf("FindConfig(\"\") = %q, want %q", got, "config.yaml")
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("openai:\n  api_key: ${FOREMAN_TEST_KEY}\n"), 0600)
	t.Setenv("FOREMAN_TEST_KEY", "sk-test-123")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-test-123" {
		t.Errorf("api_key = %q, want %q", cfg.OpenAI.APIKey, "sk-test-123")
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("log_level: debug\n"), 0600)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Listen.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Listen.Port)
	}
	if cfg.Listen.MaxBodyMB != 50 {
		t.Errorf("max_body_mb = %d, want 50", cfg.Listen.MaxBodyMB)
	}
	if cfg.Models.Default != "gpt-4o" || cfg.Models.Vision != "gpt-4o" {
		t.Errorf("models = %q/%q, want gpt-4o/gpt-4o", cfg.Models.Default, cfg.Models.Vision)
	}
	if cfg.Models.Temperature != 0.7 || cfg.Models.MaxTokens != 2000 {
		t.Errorf("temperature/max_tokens = %v/%d", cfg.Models.Temperature, cfg.Models.MaxTokens)
	}
	if got := cfg.ProviderFor("gpt-4o"); got != "openai" {
		t.Errorf("ProviderFor(gpt-4o) = %q, want openai", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid openai",
			mutate: func(c *Config) { c.OpenAI.APIKey = "sk" },
		},
		{
			name:    "missing openai key",
			mutate:  func(c *Config) {},
			wantErr: "openai.api_key",
		},
		{
			name: "anthropic default",
			mutate: func(c *Config) {
				c.Models.Default = "claude-sonnet-4-20250514"
				c.Models.Vision = "claude-sonnet-4-20250514"
				c.Models.Available = []ModelConfig{{Name: "claude-sonnet-4-20250514", Provider: "anthropic"}}
				c.Anthropic.APIKey = "sk-ant"
			},
		},
		{
			name: "unlisted model",
			mutate: func(c *Config) {
				c.OpenAI.APIKey = "sk"
				c.Models.Vision = "gpt-9"
			},
			wantErr: "not listed",
		},
		{
			name: "bad log level",
			mutate: func(c *Config) {
				c.OpenAI.APIKey = "sk"
				c.LogLevel = "loud"
			},
			wantErr: "unknown log level",
		},
		{
			name: "bad timezone",
			mutate: func(c *Config) {
				c.OpenAI.APIKey = "sk"
				c.Company.Timezone = "Mars/Olympus_Mons"
			},
			wantErr: "company.timezone",
		},
		{
			name: "bad port",
			mutate: func(c *Config) {
				c.OpenAI.APIKey = "sk"
				c.Listen.Port = 70000
			},
			wantErr: "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCompanyLocation(t *testing.T) {
	loc, err := CompanyConfig{Timezone: "America/Chicago"}.Location()
	if err != nil {
		t.Fatalf("Location() error: %v", err)
	}
	if loc.String() != "America/Chicago" {
		t.Errorf("Location() = %s, want America/Chicago", loc)
	}
}
