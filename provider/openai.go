package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ZaguanLabs/csvlate"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Client using an OpenAI-compatible chat model.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Translate translates one text with a single chat completion.
func (p *OpenAIProvider) Translate(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: buildUserMessage(req)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &csvlate.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return parseResponse(resp.Choices[0].Message.Content)
}

func (p *OpenAIProvider) buildSystemPrompt(req Request) string {
	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = csvlate.SourceLang
	}

	prompt := fmt.Sprintf(`# Role
You are an expert native translator localizing software user interface strings from %s to %s.

# Task
Translate the provided string into idiomatic %s.

# Rules
- **Tokens**: Text of the form %sN%s is a protected token. Copy every token exactly once, unchanged, and place it where the grammar of the translation needs it.
- **Interpolation**: Do NOT translate variables or placeholders (e.g., {name}, %%s, $1).
- **HTML Safety**: Do NOT translate HTML tags or attributes.
- **Vocabulary**: Use the terminology common in localized software for the target language.`,
		csvlate.LanguageName(sourceLang), csvlate.LanguageName(req.TargetLang),
		csvlate.LanguageName(req.TargetLang), csvlate.TokenPrefix, csvlate.TokenSuffix)

	if req.PreserveFormatting {
		prompt += "\n- **Formatting**: Preserve leading and trailing whitespace, casing of the first letter and final punctuation."
	}
	if req.SplitSentences == csvlate.SplitNoNewlines {
		prompt += "\n- **Line Breaks**: Keep the same line breaks as the source."
	}
	switch req.Formality {
	case "more", "prefer_more":
		prompt += "\n- **Register**: Use a formal register."
	case "less", "prefer_less":
		prompt += "\n- **Register**: Use an informal register."
	}

	prompt += `

# Format
Return a valid JSON object with a single key "translation" containing the translated string.
Example: { "translation": "translated string" }
- Do NOT wrap in Markdown code blocks.`

	return prompt
}

func buildUserMessage(req Request) string {
	data, _ := json.Marshal(map[string]string{"text": req.Text})
	return string(data)
}

func parseResponse(content string) (string, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(content), &obj); err == nil {
		if s, ok := obj["translation"].(string); ok {
			return s, nil
		}

		// Fallback: first string, or first element of the first array
		for _, v := range obj {
			switch val := v.(type) {
			case string:
				return val, nil
			case []interface{}:
				if len(val) > 0 {
					if s, ok := val[0].(string); ok {
						return s, nil
					}
				}
			}
		}
	}

	return "", &csvlate.ProviderError{
		Message:   "invalid response format from OpenAI",
		Retryable: false,
	}
}

// mapOpenAIError classifies an OpenAI client error.
func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden:
			return &csvlate.ProviderError{Message: "OpenAI rejected the API key", Cause: fmt.Errorf("%w: %v", csvlate.ErrAuth, err)}
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500:
			return &csvlate.ProviderError{Message: "OpenAI API call failed", Cause: fmt.Errorf("%w: %v", csvlate.ErrTransient, err), Retryable: true}
		}
	}

	return &csvlate.ProviderError{
		Message:   "OpenAI API call failed",
		Cause:     err,
		Retryable: isRetryableError(err),
	}
}

func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"connection reset",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// Verify OpenAIProvider implements Client
var _ Client = (*OpenAIProvider)(nil)
