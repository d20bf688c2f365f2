// Package settings loads the YAML settings file that drives title generation:
// the selected provider, the prompt block and the per-provider options.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultProvider is used when llm_provider is not set, matching installs that
// predate provider selection.
const DefaultProvider = "openai"

// DefaultTimeout bounds every outbound HTTP call when timeout is not set.
const DefaultTimeout = 30 * time.Second

// ErrEmpty is returned when the settings document has no content.
var ErrEmpty = errors.New("settings: empty document")

// Settings is the parsed settings file. It is read once and never mutated by
// the components that consume it.
type Settings struct {
	LLMProvider string      `yaml:"llm_provider,omitempty"`
	WithDate    bool        `yaml:"with_date"`
	Prompt      *Prompt     `yaml:"prompt,omitempty"`
	Timeout     string      `yaml:"timeout,omitempty"` // Duration string, e.g. "30s".
	Log         LogSettings `yaml:"log,omitempty"`

	// Extra holds every other top-level key: per-provider blocks such as
	// "openai" and legacy flat keys such as "openai_model".
	Extra map[string]yaml.Node `yaml:",inline"`
}

// Prompt holds the fragments that are concatenated into the final prompt.
type Prompt struct {
	Main        string `yaml:"main"`
	WithDate    string `yaml:"with_date"`
	NoDate      string `yaml:"no_date"`
	PreContent  string `yaml:"pre_content"`
	PostContent string `yaml:"post_content"`
}

// MarshalYAML writes every fragment double-quoted so leading newlines survive
// a round trip.
func (p Prompt) MarshalYAML() (any, error) {
	fields := []struct{ key, value string }{
		{"main", p.Main},
		{"with_date", p.WithDate},
		{"no_date", p.NoDate},
		{"pre_content", p.PreContent},
		{"post_content", p.PostContent},
	}

	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range fields {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: f.value},
		)
	}

	return node, nil
}

// ProviderSettings is the per-provider block keyed by provider name.
type ProviderSettings struct {
	Model        string `yaml:"model,omitempty"`
	BaseURL      string `yaml:"base_url,omitempty"`
	APIKey       string `yaml:"api_key,omitempty"` //nolint:gosec // configuration field, not a hardcoded secret
	Organization string `yaml:"organization,omitempty"`
}

// LogSettings controls logger construction.
type LogSettings struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Load reads a YAML file and returns its Settings.
// Environment variables referenced as ${VAR} or $VAR are expanded before
// parsing so credentials can live in the environment or a .env file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return nil, fmt.Errorf("settings: load: %w", err)
	}

	return Parse(data)
}

// LoadLenient is Load for callers that must keep going without settings. On
// failure the error is logged and nil is returned; consumers treat nil as
// "no settings" and fail at the point where a setting is required.
func LoadLenient(path string, log *slog.Logger) *Settings {
	s, err := Load(path)
	if err != nil {
		log.Error("error loading settings file", "path", path, "error", err)
		return nil
	}

	return s
}

// Parse decodes a settings document.
func Parse(data []byte) (*Settings, error) {
	expanded := os.ExpandEnv(string(data))
	if strings.TrimSpace(expanded) == "" {
		return nil, ErrEmpty
	}

	var s Settings
	if err := yaml.Unmarshal([]byte(expanded), &s); err != nil {
		return nil, fmt.Errorf("settings: parse: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// Marshal encodes s as a YAML document.
func (s *Settings) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("settings: marshal: %w", err)
	}

	return data, nil
}

// Validate checks the fields that have a constrained format.
func (s *Settings) Validate() error {
	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil {
			return fmt.Errorf("settings: invalid timeout %q: %w", s.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("settings: timeout must be positive, got %q", s.Timeout)
		}
	}

	return nil
}

// ProviderName returns the configured provider in lower case, or
// DefaultProvider when unset. A nil receiver yields DefaultProvider.
func (s *Settings) ProviderName() string {
	if s == nil {
		return DefaultProvider
	}

	name := strings.ToLower(strings.TrimSpace(s.LLMProvider))
	if name == "" {
		return DefaultProvider
	}

	return name
}

// HTTPTimeout returns the configured timeout or DefaultTimeout.
func (s *Settings) HTTPTimeout() time.Duration {
	if s == nil || s.Timeout == "" {
		return DefaultTimeout
	}

	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}

	return d
}

// Provider returns the block keyed by name. The bool is false when the key is
// absent or is not a mapping.
func (s *Settings) Provider(name string) (ProviderSettings, bool) {
	if s == nil {
		return ProviderSettings{}, false
	}

	node, ok := s.Extra[name]
	if !ok || node.Kind != yaml.MappingNode {
		return ProviderSettings{}, false
	}

	var ps ProviderSettings
	if err := node.Decode(&ps); err != nil {
		return ProviderSettings{}, false
	}

	return ps, true
}

// SetProvider stores ps under name, replacing any existing block.
func (s *Settings) SetProvider(name string, ps ProviderSettings) error {
	var node yaml.Node
	if err := node.Encode(ps); err != nil {
		return fmt.Errorf("settings: encode provider %q: %w", name, err)
	}

	if s.Extra == nil {
		s.Extra = make(map[string]yaml.Node)
	}
	s.Extra[name] = node

	return nil
}

// Model resolves the model for a provider. The nested "<name>.model" key wins;
// the legacy flat "<name>_model" key is the fallback; def is used when neither
// is set.
func (s *Settings) Model(name, def string) string {
	if ps, ok := s.Provider(name); ok && ps.Model != "" {
		return ps.Model
	}

	if s != nil {
		if node, ok := s.Extra[name+"_model"]; ok && node.Kind == yaml.ScalarNode && node.Value != "" {
			return node.Value
		}
	}

	return def
}
