package renamer

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/germanamz/ngx-renamer/pkg/logging"
	"github.com/germanamz/ngx-renamer/pkg/modeladapter"
	"github.com/germanamz/ngx-renamer/pkg/providers/anthropic"
	"github.com/germanamz/ngx-renamer/pkg/providers/gemini"
	"github.com/germanamz/ngx-renamer/pkg/providers/grok"
	"github.com/germanamz/ngx-renamer/pkg/providers/ollama"
	"github.com/germanamz/ngx-renamer/pkg/providers/openai"
	"github.com/germanamz/ngx-renamer/pkg/settings"
)

// Environment variable names holding provider credentials.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvOllamaURL    = "OLLAMA_BASE_URL"
	EnvOllamaKey    = "OLLAMA_API_KEY" //nolint:gosec // variable name, not a secret
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvXAIKey       = "XAI_API_KEY"
	EnvGeminiKey    = "GEMINI_API_KEY"
)

// Credentials maps credential environment variable names to their values.
type Credentials map[string]string

// CredentialsFromEnv reads every known credential variable from the process
// environment. Unset variables are omitted.
func CredentialsFromEnv() Credentials {
	creds := Credentials{}
	for _, name := range []string{EnvOpenAIKey, EnvOllamaURL, EnvOllamaKey, EnvAnthropicKey, EnvXAIKey, EnvGeminiKey} {
		if v, ok := os.LookupEnv(name); ok {
			creds[name] = v
		}
	}

	return creds
}

// Get returns the trimmed value for name, or "" when unset.
func (c Credentials) Get(name string) string {
	return strings.TrimSpace(c[name])
}

// ProviderConfig is everything a constructor needs to build a provider.
type ProviderConfig struct {
	Name       string // Registered provider name.
	Credential string // Value of the required credential.
	Creds      Credentials
	Settings   *settings.Settings
	Block      settings.ProviderSettings // The provider's settings block, if any.
	Model      string
	Client     *http.Client
	Log        *slog.Logger
}

// ProviderFactory creates a TitleGenerator from a ProviderConfig.
type ProviderFactory func(cfg ProviderConfig) (modeladapter.TitleGenerator, error)

// Registration describes a provider known to the factory.
type Registration struct {
	Name         string   // Lower-case lookup key.
	Display      string   // Name used in messages, e.g. "OpenAI".
	Aliases      []string // Extra lookup keys.
	Credential   string   // Required environment variable.
	Alternative  string   // Provider suggested when the credential is missing.
	DefaultModel string
	New          ProviderFactory
}

var (
	registryMu  sync.RWMutex
	registry    = map[string]Registration{}
	aliases     = map[string]string{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		for _, r := range []Registration{
			{Name: "openai", Display: "OpenAI", Credential: EnvOpenAIKey, Alternative: "ollama", DefaultModel: openai.DefaultModel, New: newOpenAI},
			{Name: "ollama", Display: "Ollama", Credential: EnvOllamaURL, Alternative: "openai", DefaultModel: ollama.DefaultModel, New: newOllama},
			{Name: "claude", Display: "Claude", Aliases: []string{"anthropic"}, Credential: EnvAnthropicKey, Alternative: "ollama", DefaultModel: anthropic.DefaultModel, New: newClaude},
			{Name: "grok", Display: "Grok", Credential: EnvXAIKey, Alternative: "ollama", DefaultModel: grok.DefaultModel, New: newGrok},
			{Name: "gemini", Display: "Gemini", Credential: EnvGeminiKey, Alternative: "ollama", DefaultModel: gemini.DefaultModel, New: newGemini},
		} {
			register(r)
		}
	})
}

func register(r Registration) {
	registry[r.Name] = r
	for _, a := range r.Aliases {
		aliases[strings.ToLower(a)] = r.Name
	}
}

// RegisterProvider adds or replaces a provider registration. It can be called
// before CreateProvider to extend the factory with additional providers.
func RegisterProvider(r Registration) {
	ensureDefaults()

	registryMu.Lock()
	defer registryMu.Unlock()

	r.Name = strings.ToLower(r.Name)
	register(r)
}

// lookup resolves name or one of its aliases, case-insensitively.
func lookup(name string) (Registration, bool) {
	ensureDefaults()

	registryMu.RLock()
	defer registryMu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}

	r, ok := registry[key]
	return r, ok
}

// Providers returns every registration sorted by name.
func Providers() []Registration {
	ensureDefaults()

	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]Registration, 0, len(registry))
	for _, r := range registry {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// ProviderNames returns the registered names sorted.
func ProviderNames() []string {
	regs := Providers()
	names := make([]string, len(regs))
	for i, r := range regs {
		names[i] = r.Name
	}

	return names
}

// Option configures CreateProvider.
type Option func(*ProviderConfig)

// WithLogger sets the provider's logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *ProviderConfig) { c.Log = log }
}

// WithHTTPClient sets the provider's HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *ProviderConfig) { c.Client = client }
}

// CreateProvider builds the provider registered under name. The required
// credential is taken from creds, falling back to the provider's settings
// block (api_key, or base_url for Ollama). s may be nil; generation then
// fails when the prompt is built.
func CreateProvider(name string, creds Credentials, s *settings.Settings, opts ...Option) (modeladapter.TitleGenerator, error) {
	reg, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q, valid providers: %s", ErrUnknownProvider, name, strings.Join(ProviderNames(), ", "))
	}

	cfg := ProviderConfig{
		Name:     reg.Name,
		Creds:    creds,
		Settings: s,
		Log:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Log == nil {
		cfg.Log = logging.NewNop()
	}

	cfg.Block, _ = s.Provider(reg.Name)
	for _, a := range reg.Aliases {
		if cfg.Block != (settings.ProviderSettings{}) {
			break
		}
		cfg.Block, _ = s.Provider(a)
	}

	cfg.Credential = creds.Get(reg.Credential)
	if cfg.Credential == "" {
		cfg.Credential = strings.TrimSpace(fallbackCredential(reg, cfg.Block))
	}
	if cfg.Credential == "" {
		return nil, missingCredential(reg)
	}

	cfg.Model = s.Model(reg.Name, "")
	for _, a := range reg.Aliases {
		if cfg.Model != "" {
			break
		}
		cfg.Model = s.Model(a, "")
	}
	if cfg.Model == "" {
		cfg.Model = reg.DefaultModel
	}

	g, err := reg.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("renamer: create %s provider: %w", reg.Name, err)
	}

	cfg.Log.Info("created provider", logging.FieldProvider, reg.Name, logging.FieldModel, cfg.Model)

	return g, nil
}

func fallbackCredential(reg Registration, block settings.ProviderSettings) string {
	if reg.Credential == EnvOllamaURL {
		return block.BaseURL
	}

	return block.APIKey
}

func missingCredential(reg Registration) error {
	return fmt.Errorf(
		"%w: %s environment variable is required when using %s provider. Either set %s or change llm_provider to '%s' in settings.yaml",
		ErrMissingCredential, reg.Credential, reg.Display, reg.Credential, reg.Alternative,
	)
}

// adapter applies the settings, logger and client shared by every provider.
func adapter(a *modeladapter.ModelAdapter, cfg ProviderConfig) {
	a.Settings = cfg.Settings
	a.Log = cfg.Log.With(logging.FieldProvider, cfg.Name)
	a.Client = cfg.Client
}

func baseURL(block settings.ProviderSettings, def string) string {
	if block.BaseURL != "" {
		return strings.TrimRight(block.BaseURL, "/")
	}

	return def
}

func newOpenAI(cfg ProviderConfig) (modeladapter.TitleGenerator, error) {
	a := openai.New(baseURL(cfg.Block, openai.DefaultBaseURL), cfg.Credential, cfg.Model)
	a.SetOrganization(cfg.Block.Organization)
	adapter(&a.ModelAdapter, cfg)

	return a, nil
}

func newOllama(cfg ProviderConfig) (modeladapter.TitleGenerator, error) {
	key := cfg.Creds.Get(EnvOllamaKey)
	if key == "" {
		key = cfg.Block.APIKey
	}

	a := ollama.New(cfg.Credential, key, cfg.Model)
	adapter(&a.ModelAdapter, cfg)

	return a, nil
}

func newClaude(cfg ProviderConfig) (modeladapter.TitleGenerator, error) {
	a := anthropic.New(baseURL(cfg.Block, anthropic.DefaultBaseURL), cfg.Credential, cfg.Model)
	adapter(&a.ModelAdapter, cfg)

	return a, nil
}

func newGrok(cfg ProviderConfig) (modeladapter.TitleGenerator, error) {
	a := grok.New(cfg.Credential, cfg.Client)
	a.BaseURL = baseURL(cfg.Block, grok.DefaultBaseURL)
	a.Name = cfg.Model
	adapter(&a.ModelAdapter, cfg)

	return a, nil
}

func newGemini(cfg ProviderConfig) (modeladapter.TitleGenerator, error) {
	a := gemini.New(baseURL(cfg.Block, gemini.DefaultBaseURL), cfg.Credential, cfg.Model)
	adapter(&a.ModelAdapter, cfg)

	return a, nil
}

// Lookup returns the registration for name or one of its aliases.
func Lookup(name string) (Registration, bool) {
	return lookup(name)
}
