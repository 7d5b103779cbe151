package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonwraymond/queryops/backend"
	"github.com/jonwraymond/queryops/filter"
	"github.com/jonwraymond/queryops/provider"
)

const validDoc = `
llm_providers:
  - name: openai
    project_id: demo-project
    credentials_path: /etc/secrets/openai
    models:
      - name: gpt-4
      - name: gpt-3.5
ols_config:
  reference_content:
    product_docs_index_path: /opt/docs/index
    product_docs_index_id: product-docs
  conversation_cache:
    type: memory
    memory:
      max_entries: 100
  logger_config:
    default_level: info
  default_provider: openai
  default_model: gpt-4
  query_filters:
    - name: ip
      pattern: '\d+\.\d+\.\d+\.\d+'
      replace_with: 0.0.0.0
dev_config:
  llm_params:
    temperature: 0.2
  disable_auth: true
`

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(cfg.LLMProviders) != 1 || cfg.LLMProviders[0].Name != "openai" {
		t.Errorf("providers = %+v", cfg.LLMProviders)
	}
	if cfg.Service.DefaultProvider != "openai" || cfg.Service.DefaultModel != "gpt-4" {
		t.Errorf("defaults = %q/%q", cfg.Service.DefaultProvider, cfg.Service.DefaultModel)
	}
	if cfg.Service.ReferenceContent.ProductDocsIndexID != "product-docs" {
		t.Errorf("reference content = %+v", cfg.Service.ReferenceContent)
	}
	if cfg.Service.Logger.DefaultLevel != "info" {
		t.Errorf("log level = %q", cfg.Service.Logger.DefaultLevel)
	}
	if !cfg.Dev.DisableAuth || cfg.Dev.LLMParams.Temperature != 0.2 {
		t.Errorf("dev config = %+v", cfg.Dev)
	}
	if ref := cfg.DefaultRef(); ref != (provider.ModelRef{Provider: "openai", Model: "gpt-4"}) {
		t.Errorf("DefaultRef = %+v", ref)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	if err := os.WriteFile(path, []byte(validDoc), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load of missing file = %v, want ErrInvalid", err)
	}
}

func TestParse_InvalidDocuments(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(string) string
	}{
		{
			name: "malformed filter pattern",
			mutate: func(doc string) string {
				return strings.Replace(doc, `'\d+\.\d+\.\d+\.\d+'`, `'(unclosed'`, 1)
			},
		},
		{
			name: "unknown default provider",
			mutate: func(doc string) string {
				return strings.Replace(doc, "default_provider: openai", "default_provider: watsonx", 1)
			},
		},
		{
			name: "unknown default model",
			mutate: func(doc string) string {
				return strings.Replace(doc, "default_model: gpt-4", "default_model: granite", 1)
			},
		},
		{
			name: "missing cache type",
			mutate: func(doc string) string {
				return strings.Replace(doc, "type: memory", "type: ''", 1)
			},
		},
		{
			name: "unknown cache type",
			mutate: func(doc string) string {
				return strings.Replace(doc, "type: memory", "type: sqlite", 1)
			},
		},
		{
			name: "non-positive max entries",
			mutate: func(doc string) string {
				return strings.Replace(doc, "max_entries: 100", "max_entries: 0", 1)
			},
		},
		{
			name: "unknown top-level key",
			mutate: func(doc string) string {
				return doc + "\nsurprise_key: true\n"
			},
		},
		{
			name: "provider without models",
			mutate: func(doc string) string {
				return strings.Replace(doc,
					"    models:\n      - name: gpt-4\n      - name: gpt-3.5\n",
					"    models: []\n", 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.mutate(validDoc)))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Parse = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestParse_RemoteCacheValidation(t *testing.T) {
	remoteDoc := strings.Replace(validDoc,
		"type: memory\n    memory:\n      max_entries: 100",
		"type: remote\n    remote:\n      host: cache.internal\n      port: 6380\n      ca_cert_path: /etc/certs/ca.crt\n      auth_mode: optional\n      timeout_seconds: 3",
		1)

	cfg, err := Parse([]byte(remoteDoc))
	if err != nil {
		t.Fatalf("Parse of remote cache config failed: %v", err)
	}
	if cfg.Service.ConversationCache.Remote.Port != 6380 {
		t.Errorf("remote config = %+v", cfg.Service.ConversationCache.Remote)
	}

	badMode := strings.Replace(remoteDoc, "auth_mode: optional", "auth_mode: mutual", 1)
	if _, err := Parse([]byte(badMode)); !errors.Is(err, ErrInvalid) {
		t.Errorf("Parse with bad auth_mode = %v, want ErrInvalid", err)
	}

	noHost := strings.Replace(remoteDoc, "host: cache.internal", "host: ''", 1)
	if _, err := Parse([]byte(noHost)); !errors.Is(err, ErrInvalid) {
		t.Errorf("Parse with missing host = %v, want ErrInvalid", err)
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("GATEWAY_PROVIDER", "openai")
	t.Setenv("GATEWAY_MODEL", "gpt-4")

	doc := strings.Replace(validDoc, "default_provider: openai", "default_provider: ${GATEWAY_PROVIDER}", 1)
	doc = strings.Replace(doc, "default_model: gpt-4", "default_model: ${GATEWAY_MODEL}", 1)

	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse with env expansion failed: %v", err)
	}
	if cfg.Service.DefaultProvider != "openai" {
		t.Errorf("expanded provider = %q", cfg.Service.DefaultProvider)
	}
}

func TestParse_MissingEnvVar(t *testing.T) {
	doc := strings.Replace(validDoc, "project_id: demo-project",
		"project_id: ${DEFINITELY_NOT_SET_ANYWHERE_42}", 1)

	_, err := Parse([]byte(doc))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Parse with missing env var = %v, want ErrInvalid", err)
	}
	if err == nil || !strings.Contains(err.Error(), "DEFINITELY_NOT_SET_ANYWHERE_42") {
		t.Errorf("error should name the missing variable, got: %v", err)
	}
}

func TestCompileFilters(t *testing.T) {
	cfg, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	rules, err := cfg.CompileFilters()
	if err != nil {
		t.Fatalf("CompileFilters failed: %v", err)
	}
	if got := filter.Apply(rules, "node 10.1.2.3 is down"); got != "node 0.0.0.0 is down" {
		t.Errorf("Apply = %q", got)
	}
}

func TestBuildBackend_Memory(t *testing.T) {
	cfg, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	b, err := cfg.BuildBackend()
	if err != nil {
		t.Fatalf("BuildBackend failed: %v", err)
	}
	if _, ok := b.(*backend.Memory); !ok {
		t.Errorf("BuildBackend returned %T, want *backend.Memory", b)
	}
}

func TestBuildRegistry(t *testing.T) {
	cfg, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	registry, err := cfg.BuildRegistry(func(pc ProviderConfig) (provider.Provider, error) {
		return &provider.Static{Answer: "from " + pc.Name}, nil
	})
	if err != nil {
		t.Fatalf("BuildRegistry failed: %v", err)
	}
	if err := registry.Validate(cfg.DefaultRef()); err != nil {
		t.Errorf("default ref must resolve: %v", err)
	}

	_, err = cfg.BuildRegistry(func(pc ProviderConfig) (provider.Provider, error) {
		return nil, errors.New("no credentials")
	})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("BuildRegistry with failing factory = %v, want ErrInvalid", err)
	}
}
