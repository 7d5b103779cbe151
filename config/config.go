package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/queryops/backend"
	"github.com/jonwraymond/queryops/filter"
	"github.com/jonwraymond/queryops/provider"
)

// Config is the root of the gateway configuration document.
type Config struct {
	LLMProviders []ProviderConfig `yaml:"llm_providers"`
	Service      ServiceConfig    `yaml:"ols_config"`
	Dev          DevConfig        `yaml:"dev_config"`
}

// ProviderConfig describes one LLM provider and the models it serves.
type ProviderConfig struct {
	Name            string        `yaml:"name"`
	ProjectID       string        `yaml:"project_id"`
	CredentialsPath string        `yaml:"credentials_path"`
	Models          []ModelConfig `yaml:"models"`
}

// ModelConfig names one model a provider serves.
type ModelConfig struct {
	Name string `yaml:"name"`
}

// ServiceConfig holds the gateway's own settings.
type ServiceConfig struct {
	ReferenceContent  *ReferenceContentConfig `yaml:"reference_content"`
	ConversationCache CacheConfig             `yaml:"conversation_cache"`
	Logger            LoggerConfig            `yaml:"logger_config"`
	DefaultProvider   string                  `yaml:"default_provider"`
	DefaultModel      string                  `yaml:"default_model"`
	QueryFilters      []QueryFilterConfig     `yaml:"query_filters"`
}

// ReferenceContentConfig locates the product documentation index.
type ReferenceContentConfig struct {
	ProductDocsIndexPath string `yaml:"product_docs_index_path"`
	ProductDocsIndexID   string `yaml:"product_docs_index_id"`
}

// CacheConfig selects and parameterizes the conversation cache backend.
// Exactly one backend is active per process; switching requires a restart.
type CacheConfig struct {
	Type   string             `yaml:"type"` // memory|remote
	Memory *MemoryCacheConfig `yaml:"memory"`
	Remote *RemoteCacheConfig `yaml:"remote"`
}

// MemoryCacheConfig bounds the in-memory backend.
type MemoryCacheConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

// RemoteCacheConfig connects the remote TLS-secured backend.
type RemoteCacheConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	CertPath       string `yaml:"cert_path"`
	KeyPath        string `yaml:"key_path"`
	CACertPath     string `yaml:"ca_cert_path"`
	AuthMode       string `yaml:"auth_mode"` // none|optional|required
	PasswordPath   string `yaml:"password_path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LoggerConfig sets the default log level.
type LoggerConfig struct {
	DefaultLevel string `yaml:"default_level"`
}

// QueryFilterConfig is one ordered pattern/replacement rule.
type QueryFilterConfig struct {
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	ReplaceWith string `yaml:"replace_with"`
}

// DevConfig holds development-mode overrides.
type DevConfig struct {
	LLMParams   LLMParams `yaml:"llm_params"`
	DisableAuth bool      `yaml:"disable_auth"`
}

// LLMParams are sampling knobs passed through to providers.
type LLMParams struct {
	Temperature float64 `yaml:"temperature"`
}

// Load reads, env-expands, parses, and validates the document at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %v", ErrInvalid, path, err)
	}
	return Parse(raw)
}

// Parse env-expands, parses, and validates a raw document. Unknown keys
// are rejected: a typoed key silently ignored is a misconfiguration that
// only shows up in production behavior.
func Parse(raw []byte) (*Config, error) {
	expanded, err := expandEnvStrict(string(raw))
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing document: %v", ErrInvalid, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the whole document. Any error here must abort startup.
func (c *Config) Validate() error {
	if len(c.LLMProviders) == 0 {
		return fmt.Errorf("%w: at least one llm provider is required", ErrInvalid)
	}

	seen := make(map[string]map[string]bool, len(c.LLMProviders))
	for i, p := range c.LLMProviders {
		if p.Name == "" {
			return fmt.Errorf("%w: llm provider at index %d has no name", ErrInvalid, i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: duplicate llm provider %q", ErrInvalid, p.Name)
		}
		if len(p.Models) == 0 {
			return fmt.Errorf("%w: provider %q serves no models", ErrInvalid, p.Name)
		}
		models := make(map[string]bool, len(p.Models))
		for _, m := range p.Models {
			if m.Name == "" {
				return fmt.Errorf("%w: provider %q has an unnamed model", ErrInvalid, p.Name)
			}
			models[m.Name] = true
		}
		seen[p.Name] = models
	}

	// The default reference must resolve at load time, not at first use.
	if c.Service.DefaultProvider == "" || c.Service.DefaultModel == "" {
		return fmt.Errorf("%w: default_provider and default_model are required", ErrInvalid)
	}
	models, ok := seen[c.Service.DefaultProvider]
	if !ok {
		return fmt.Errorf("%w: default_provider %q is not configured", ErrInvalid, c.Service.DefaultProvider)
	}
	if !models[c.Service.DefaultModel] {
		return fmt.Errorf("%w: default_model %q is not served by provider %q",
			ErrInvalid, c.Service.DefaultModel, c.Service.DefaultProvider)
	}

	// Filter patterns compile now; apply never fails later.
	if _, err := c.CompileFilters(); err != nil {
		return fmt.Errorf("%w: query_filters: %v", ErrInvalid, err)
	}

	return c.validateCache()
}

func (c *Config) validateCache() error {
	cache := c.Service.ConversationCache
	switch cache.Type {
	case "memory":
		if cache.Memory == nil {
			return fmt.Errorf("%w: conversation_cache type memory requires a memory section", ErrInvalid)
		}
		if cache.Memory.MaxEntries <= 0 {
			return fmt.Errorf("%w: memory max_entries must be positive", ErrInvalid)
		}
	case "remote":
		r := cache.Remote
		if r == nil {
			return fmt.Errorf("%w: conversation_cache type remote requires a remote section", ErrInvalid)
		}
		if r.Host == "" {
			return fmt.Errorf("%w: remote cache host is required", ErrInvalid)
		}
		if r.Port <= 0 || r.Port > 65535 {
			return fmt.Errorf("%w: remote cache port %d out of range", ErrInvalid, r.Port)
		}
		if _, err := backend.ParseAuthMode(r.AuthMode); err != nil {
			return fmt.Errorf("%w: remote cache: %v", ErrInvalid, err)
		}
	case "":
		return fmt.Errorf("%w: conversation_cache type is required", ErrInvalid)
	default:
		return fmt.Errorf("%w: unknown conversation_cache type %q", ErrInvalid, cache.Type)
	}
	return nil
}

// CompileFilters compiles the ordered query filter list.
func (c *Config) CompileFilters() ([]filter.CompiledRule, error) {
	rules := make([]filter.Rule, 0, len(c.Service.QueryFilters))
	for _, qf := range c.Service.QueryFilters {
		rules = append(rules, filter.Rule{
			Name:        qf.Name,
			Pattern:     qf.Pattern,
			ReplaceWith: qf.ReplaceWith,
		})
	}
	return filter.Compile(rules)
}

// BuildBackend constructs the configured cache backend.
func (c *Config) BuildBackend() (backend.Backend, error) {
	cache := c.Service.ConversationCache
	switch cache.Type {
	case "memory":
		return backend.NewMemory(backend.MemoryConfig{MaxEntries: cache.Memory.MaxEntries}), nil
	case "remote":
		r := cache.Remote
		mode, err := backend.ParseAuthMode(r.AuthMode)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		remote, err := backend.NewRemote(backend.RemoteConfig{
			Host:         r.Host,
			Port:         r.Port,
			Timeout:      time.Duration(r.TimeoutSeconds) * time.Second,
			CertPath:     r.CertPath,
			KeyPath:      r.KeyPath,
			CACertPath:   r.CACertPath,
			AuthMode:     mode,
			PasswordPath: r.PasswordPath,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		return remote, nil
	default:
		return nil, fmt.Errorf("%w: unknown conversation_cache type %q", ErrInvalid, cache.Type)
	}
}

// BuildRegistry constructs the provider registry, asking newClient for a
// client per configured provider. The default reference is validated
// against the result.
func (c *Config) BuildRegistry(newClient func(ProviderConfig) (provider.Provider, error)) (*provider.Registry, error) {
	registry := provider.NewRegistry()
	for _, p := range c.LLMProviders {
		client, err := newClient(p)
		if err != nil {
			return nil, fmt.Errorf("%w: building client for provider %q: %v", ErrInvalid, p.Name, err)
		}
		models := make([]string, 0, len(p.Models))
		for _, m := range p.Models {
			models = append(models, m.Name)
		}
		if err := registry.Register(p.Name, models, client); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	if err := registry.Validate(c.DefaultRef()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return registry, nil
}

// DefaultRef returns the configured default provider/model reference.
func (c *Config) DefaultRef() provider.ModelRef {
	return provider.ModelRef{
		Provider: c.Service.DefaultProvider,
		Model:    c.Service.DefaultModel,
	}
}
