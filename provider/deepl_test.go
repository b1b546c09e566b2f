package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ZaguanLabs/csvlate"
)

func TestNewDeepLProvider_BaseURL(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"abc:fx", DeepLFreeURL},
		{"abc", DeepLProURL},
	}

	for _, tt := range tests {
		p := NewDeepLProvider(DeepLConfig{APIKey: tt.key})
		if p.baseURL != tt.expected {
			t.Errorf("key %q: baseURL = %q, want %q", tt.key, p.baseURL, tt.expected)
		}
	}

	p := NewDeepLProvider(DeepLConfig{APIKey: "abc", BaseURL: "http://localhost:8080/"})
	if p.baseURL != "http://localhost:8080" {
		t.Errorf("explicit baseURL not honoured: %q", p.baseURL)
	}
}

func TestDeepLProvider_Translate(t *testing.T) {
	var got deeplRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/translate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "DeepL-Auth-Key secret" {
			t.Errorf("Authorization = %q", auth)
		}
		if ua := r.Header.Get("User-Agent"); ua != csvlate.UserAgent() {
			t.Errorf("User-Agent = %q", ua)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translations": [{"detected_source_language": "EN", "text": "Hallo §§PH_0§§"}]}`))
	}))
	defer srv.Close()

	p := NewDeepLProvider(DeepLConfig{APIKey: "secret", BaseURL: srv.URL})
	res, err := p.Translate(context.Background(), Request{
		Text:               "Hello §§PH_0§§",
		TargetLang:         "DE",
		SourceLang:         "EN",
		PreserveFormatting: true,
		SplitSentences:     csvlate.SplitNoNewlines,
		Formality:          csvlate.FormalityDefault,
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res != "Hallo §§PH_0§§" {
		t.Errorf("Translate() = %q", res)
	}

	if len(got.Text) != 1 || got.Text[0] != "Hello §§PH_0§§" {
		t.Errorf("text = %v", got.Text)
	}
	if got.TargetLang != "DE" || got.SourceLang != "EN" {
		t.Errorf("languages = %s -> %s", got.SourceLang, got.TargetLang)
	}
	if !got.PreserveFormatting || got.SplitSentences != "nonewlines" || got.Formality != "default" {
		t.Errorf("flags = %+v", got)
	}
}

func TestDeepLProvider_StatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		auth      bool
		transient bool
	}{
		{"forbidden", http.StatusForbidden, true, false},
		{"unauthorized", http.StatusUnauthorized, true, false},
		{"too many requests", http.StatusTooManyRequests, false, true},
		{"unavailable", http.StatusServiceUnavailable, false, true},
		{"quota exceeded", 456, false, false},
		{"bad request", http.StatusBadRequest, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message": "nope"}`))
			}))
			defer srv.Close()

			p := NewDeepLProvider(DeepLConfig{APIKey: "k", BaseURL: srv.URL})
			_, err := p.Translate(context.Background(), Request{Text: "Hello", TargetLang: "DE"})
			if err == nil {
				t.Fatal("Expected error")
			}
			if errors.Is(err, csvlate.ErrAuth) != tt.auth {
				t.Errorf("ErrAuth mismatch: %v", err)
			}
			if errors.Is(err, csvlate.ErrTransient) != tt.transient {
				t.Errorf("ErrTransient mismatch: %v", err)
			}
			if csvlate.IsRetryable(err) != tt.transient {
				t.Errorf("IsRetryable mismatch: %v", err)
			}
		})
	}
}

func TestDeepLProvider_EmptyTranslations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"translations": []}`))
	}))
	defer srv.Close()

	p := NewDeepLProvider(DeepLConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := p.Translate(context.Background(), Request{Text: "Hello", TargetLang: "DE"})

	var pe *csvlate.ProviderError
	if !errors.As(err, &pe) || !pe.Retryable {
		t.Errorf("Expected retryable ProviderError, got %v", err)
	}
}

func TestDeepLProvider_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := NewDeepLProvider(DeepLConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := p.Translate(ctx, Request{Text: "Hello", TargetLang: "DE"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
	if csvlate.IsRetryable(err) {
		t.Error("Context errors should not be retryable")
	}
}
