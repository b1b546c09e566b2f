package provider

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZaguanLabs/csvlate"
)

// Provider names accepted by New.
const (
	NameDeepL  = "deepl"
	NameOpenAI = "openai"
	NameMock   = "mock"
)

// Config selects and configures a translation client.
type Config struct {
	Name    string // Default: NameDeepL
	APIKey  string
	Model   string // OpenAI only
	BaseURL string

	// RequestsPerMinute paces calls when positive.
	RequestsPerMinute int
}

// Names returns the supported provider names.
func Names() []string {
	names := []string{NameDeepL, NameOpenAI, NameMock}
	sort.Strings(names)
	return names
}

// New builds the client named by cfg.Name.
func New(cfg Config) (csvlate.Client, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Name))
	if name == "" {
		name = NameDeepL
	}

	key := strings.TrimSpace(cfg.APIKey)
	if key == "" && name != NameMock {
		return nil, fmt.Errorf("%s: %w", name, csvlate.ErrNoCredential)
	}

	var client csvlate.Client
	switch name {
	case NameDeepL:
		client = NewDeepLProvider(DeepLConfig{APIKey: key, BaseURL: cfg.BaseURL})
	case NameOpenAI:
		client = NewOpenAIProvider(OpenAIConfig{APIKey: key, Model: cfg.Model, BaseURL: cfg.BaseURL})
	case NameMock:
		client = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: %s)", cfg.Name, strings.Join(Names(), ", "))
	}

	if cfg.RequestsPerMinute > 0 {
		client = csvlate.NewRateLimitedClient(client, cfg.RequestsPerMinute, 1)
	}
	return client, nil
}
