package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ZaguanLabs/csvlate"
)

func TestBuildSystemPrompt(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	req := Request{
		TargetLang:         "DE",
		SourceLang:         "EN",
		PreserveFormatting: true,
		SplitSentences:     csvlate.SplitNoNewlines,
		Formality:          csvlate.FormalityDefault,
	}

	prompt := p.buildSystemPrompt(req)

	if !strings.Contains(prompt, "from English to German") {
		t.Error("Prompt should name source and target languages")
	}
	if !strings.Contains(prompt, csvlate.TokenPrefix+"N"+csvlate.TokenSuffix) {
		t.Error("Prompt should describe protected tokens")
	}
	if !strings.Contains(prompt, "%s") {
		t.Error("Prompt should list printf placeholders literally")
	}
	if !strings.Contains(prompt, "Line Breaks") || !strings.Contains(prompt, "Formatting") {
		t.Error("Prompt should reflect formatting flags")
	}
	if strings.Contains(prompt, "Register") {
		t.Error("Default formality should not add a register rule")
	}
}

func TestBuildSystemPrompt_Formality(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	prompt := p.buildSystemPrompt(Request{TargetLang: "FR", Formality: "more"})

	if !strings.Contains(prompt, "formal register") {
		t.Error("Prompt should request a formal register")
	}
	if !strings.Contains(prompt, "from English to French") {
		t.Error("Source language should default to English")
	}
}

func TestBuildUserMessage(t *testing.T) {
	msg := buildUserMessage(Request{Text: "Hello §§PH_0§§"})

	var decoded map[string]string
	if err := json.Unmarshal([]byte(msg), &decoded); err != nil {
		t.Fatalf("user message is not JSON: %v", err)
	}
	if decoded["text"] != "Hello §§PH_0§§" {
		t.Errorf("Expected text field, got: %s", msg)
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
		wantErr  bool
	}{
		{"translation key", `{"translation": "Hallo"}`, "Hallo", false},
		{"other string key", `{"result": "Hallo"}`, "Hallo", false},
		{"array fallback", `{"translations": ["Hallo"]}`, "Hallo", false},
		{"not json", `Hallo`, "", true},
		{"no strings", `{"n": 1}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseResponse(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("parseResponse() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func newOpenAIServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIProvider_Translate(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"translation\": \"Hallo §§PH_0§§\"}"}, "finish_reason": "stop"}]
	}`)

	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1"})
	got, err := p.Translate(context.Background(), Request{Text: "Hello §§PH_0§§", TargetLang: "DE"})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "Hallo §§PH_0§§" {
		t.Errorf("Translate() = %q", got)
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		auth      bool
		retryable bool
	}{
		{"unauthorized", http.StatusUnauthorized, true, false},
		{"rate limited", http.StatusTooManyRequests, false, true},
		{"server error", http.StatusInternalServerError, false, true},
		{"bad request", http.StatusBadRequest, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOpenAIServer(t, tt.status, `{"error": {"message": "nope", "type": "invalid_request_error"}}`)
			p := NewOpenAIProvider(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1"})

			_, err := p.Translate(context.Background(), Request{Text: "Hello", TargetLang: "DE"})
			if err == nil {
				t.Fatal("Expected error")
			}
			if errors.Is(err, csvlate.ErrAuth) != tt.auth {
				t.Errorf("errors.Is(ErrAuth) = %v, want %v (%v)", !tt.auth, tt.auth, err)
			}
			if csvlate.IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable = %v, want %v (%v)", !tt.retryable, tt.retryable, err)
			}
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	if !isRetryableError(errors.New("dial tcp: connection refused")) {
		t.Error("connection refused should be retryable")
	}
	if isRetryableError(errors.New("invalid model")) {
		t.Error("invalid model should not be retryable")
	}
}
