package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZaguanLabs/csvlate"
)

// DeepL API hosts. Free-plan keys end in ":fx".
const (
	DeepLFreeURL = "https://api-free.deepl.com"
	DeepLProURL  = "https://api.deepl.com"
)

// DeepLProvider implements Client using the DeepL REST API.
type DeepLProvider struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// DeepLConfig holds configuration for the DeepL provider.
type DeepLConfig struct {
	APIKey     string
	BaseURL    string        // Default: chosen from the key type
	Timeout    time.Duration // Default: 30s
	HTTPClient *http.Client  // Overrides Timeout when set
}

// NewDeepLProvider creates a new DeepL provider.
func NewDeepLProvider(cfg DeepLConfig) *DeepLProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DeepLProURL
		if strings.HasSuffix(cfg.APIKey, ":fx") {
			baseURL = DeepLFreeURL
		}
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &DeepLProvider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    client,
	}
}

type deeplRequest struct {
	Text               []string `json:"text"`
	TargetLang         string   `json:"target_lang"`
	SourceLang         string   `json:"source_lang,omitempty"`
	PreserveFormatting bool     `json:"preserve_formatting,omitempty"`
	SplitSentences     string   `json:"split_sentences,omitempty"`
	Formality          string   `json:"formality,omitempty"`
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

type deeplErrorBody struct {
	Message string `json:"message"`
}

// Translate sends one text to the /v2/translate endpoint.
func (p *DeepLProvider) Translate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(deeplRequest{
		Text:               []string{req.Text},
		TargetLang:         req.TargetLang,
		SourceLang:         req.SourceLang,
		PreserveFormatting: req.PreserveFormatting,
		SplitSentences:     req.SplitSentences,
		Formality:          req.Formality,
	})
	if err != nil {
		return "", &csvlate.ProviderError{Message: "encoding DeepL request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v2/translate", bytes.NewReader(body))
	if err != nil {
		return "", &csvlate.ProviderError{Message: "building DeepL request", Cause: err}
	}
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", csvlate.UserAgent())

	resp, err := p.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &csvlate.ProviderError{Message: "DeepL request failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", &csvlate.ProviderError{Message: "reading DeepL response", Cause: err, Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, data)
	}

	var decoded deeplResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", &csvlate.ProviderError{Message: "invalid response format from DeepL", Cause: err}
	}
	if len(decoded.Translations) == 0 {
		return "", &csvlate.ProviderError{Message: "no translations in DeepL response", Retryable: true}
	}
	return decoded.Translations[0].Text, nil
}

// statusError maps a DeepL HTTP status to a typed error.
func statusError(status int, body []byte) error {
	var eb deeplErrorBody
	_ = json.Unmarshal(body, &eb)

	msg := fmt.Sprintf("DeepL returned %d", status)
	if eb.Message != "" {
		msg += ": " + eb.Message
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &csvlate.ProviderError{Message: msg, Cause: csvlate.ErrAuth}
	case status == http.StatusTooManyRequests || status >= 500:
		return &csvlate.ProviderError{Message: msg, Cause: csvlate.ErrTransient, Retryable: true}
	case status == 456:
		return &csvlate.ProviderError{Message: msg + " (quota exceeded)"}
	default:
		return &csvlate.ProviderError{Message: msg}
	}
}

// Verify DeepLProvider implements Client
var _ Client = (*DeepLProvider)(nil)
