// Package config handles Foreman configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./config.yaml, ~/.config/foreman/config.yaml, /etc/foreman/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "foreman", "config.yaml"))
	}

	paths = append(paths, "/etc/foreman/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all Foreman configuration.
type Config struct {
	Listen       ListenConfig            `yaml:"listen"`
	Models       ModelsConfig            `yaml:"models"`
	OpenAI       OpenAIConfig            `yaml:"openai"`
	Anthropic    AnthropicConfig         `yaml:"anthropic"`
	Orchestrator OrchestratorConfig      `yaml:"orchestrator"`
	Company      CompanyConfig           `yaml:"company"`
	Pricing      map[string]PricingEntry `yaml:"pricing"`
	DataDir      string                  `yaml:"data_dir"`
	TalentsDir   string                  `yaml:"talents_dir"`
	LogLevel     string                  `yaml:"log_level"`
	LogFormat    string                  `yaml:"log_format"`
}

// ListenConfig defines the API server settings.
type ListenConfig struct {
	Address string `yaml:"address"` // Bind address (default: "" = all interfaces)
	Port    int    `yaml:"port"`
	// MaxBodyMB caps inbound request bodies. Attachments arrive inline
	// as data URIs, so this needs to admit photos and plan sheets.
	MaxBodyMB int `yaml:"max_body_mb"`
}

// ModelsConfig defines model routing settings.
type ModelsConfig struct {
	Default     string        `yaml:"default"`
	Vision      string        `yaml:"vision"` // receipt and takeoff analysis; defaults to Default
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Available   []ModelConfig `yaml:"available"`
}

// ModelConfig maps a model name to the provider serving it.
type ModelConfig struct {
	Name     string `yaml:"name"`
	Provider string `yaml:"provider"` // openai, anthropic
}

// OpenAIConfig defines OpenAI API settings.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// AnthropicConfig defines Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
}

// OrchestratorConfig bounds each state of a conversation turn.
type OrchestratorConfig struct {
	ModelTimeoutSec int `yaml:"model_timeout_sec"`
	ToolTimeoutSec  int `yaml:"tool_timeout_sec"`
}

// ModelTimeout returns the per-model-call deadline.
func (o OrchestratorConfig) ModelTimeout() time.Duration {
	return time.Duration(o.ModelTimeoutSec) * time.Second
}

// ToolTimeout returns the per-operation deadline.
func (o OrchestratorConfig) ToolTimeout() time.Duration {
	return time.Duration(o.ToolTimeoutSec) * time.Second
}

// CompanyConfig holds business-wide settings.
type CompanyConfig struct {
	// Name is how the assistant refers to the business.
	Name string `yaml:"name"`

	// Timezone is the IANA zone used for "today", clock entries and
	// per-day overtime. Defaults to the host's local zone.
	Timezone string `yaml:"timezone"`
}

// Location resolves Timezone. An empty value yields time.Local.
func (c CompanyConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// PricingEntry is the USD cost per million tokens for a model.
type PricingEntry struct {
	InputPerMillion  float64 `yaml:"input_per_million"`
	OutputPerMillion float64 `yaml:"output_per_million"`
}

// Load reads configuration from a YAML file, expands environment
// variables, and fills defaults. Call Validate before use.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

// Default returns a configuration suitable for local development.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Listen.Port == 0 {
		c.Listen.Port = 8080
	}
	if c.Listen.MaxBodyMB == 0 {
		c.Listen.MaxBodyMB = 50
	}
	if c.Models.Default == "" {
		c.Models.Default = "gpt-4o"
	}
	if c.Models.Vision == "" {
		c.Models.Vision = c.Models.Default
	}
	if c.Models.Temperature == 0 {
		c.Models.Temperature = 0.7
	}
	if c.Models.MaxTokens == 0 {
		c.Models.MaxTokens = 2000
	}
	if len(c.Models.Available) == 0 {
		c.Models.Available = []ModelConfig{{Name: c.Models.Default, Provider: "openai"}}
	}
	if c.Orchestrator.ModelTimeoutSec == 0 {
		c.Orchestrator.ModelTimeoutSec = 90
	}
	if c.Orchestrator.ToolTimeoutSec == 0 {
		c.Orchestrator.ToolTimeoutSec = 60
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.Pricing == nil {
		c.Pricing = map[string]PricingEntry{
			"gpt-4o":      {InputPerMillion: 2.50, OutputPerMillion: 10.00},
			"gpt-4o-mini": {InputPerMillion: 0.15, OutputPerMillion: 0.60},
		}
	}
}

// ProviderFor returns the provider configured for a model, or "".
func (c *Config) ProviderFor(model string) string {
	for _, m := range c.Models.Available {
		if m.Name == model {
			return m.Provider
		}
	}
	return ""
}

// Validate checks the configuration for values that would fail later
// at runtime.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q (valid: text, json)", c.LogFormat)
	}
	if c.Listen.Port < 1 || c.Listen.Port > 65535 {
		return fmt.Errorf("listen.port %d out of range", c.Listen.Port)
	}
	if c.Listen.MaxBodyMB < 1 {
		return fmt.Errorf("listen.max_body_mb must be positive")
	}
	if _, err := c.Company.Location(); err != nil {
		return fmt.Errorf("company.timezone: %w", err)
	}
	if c.Models.Temperature < 0 || c.Models.Temperature > 2 {
		return fmt.Errorf("models.temperature %.2f out of range 0-2", c.Models.Temperature)
	}

	for _, model := range []string{c.Models.Default, c.Models.Vision} {
		switch p := c.ProviderFor(model); p {
		case "openai":
			if c.OpenAI.APIKey == "" {
				return fmt.Errorf("model %q uses openai but openai.api_key is empty", model)
			}
		case "anthropic":
			if c.Anthropic.APIKey == "" {
				return fmt.Errorf("model %q uses anthropic but anthropic.api_key is empty", model)
			}
		case "":
			return fmt.Errorf("model %q is not listed in models.available", model)
		default:
			return fmt.Errorf("model %q has unknown provider %q", model, p)
		}
	}
	return nil
}
