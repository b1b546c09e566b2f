package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockProvider is a mock translation client for testing and dry wiring.
type MockProvider struct {
	mu sync.Mutex

	Translations map[string]string // Map of "text|LANG" or "text" to translation
	Err          error             // Returned by every call when set
	FailTimes    int               // Number of leading calls that fail with Err

	CallCount   int      // Number of times Translate was called
	LastRequest *Request // Last request received
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello|DE":  "Hallo",
			"Hello|FR":  "Bonjour",
			"Save|DE":   "Speichern",
			"Cancel|DE": "Abbrechen",
		},
	}
}

// Translate returns mock translations. Unknown texts come back as
// "[LANG] text", which keeps placeholder tokens intact.
func (m *MockProvider) Translate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.LastRequest = &req

	if m.Err != nil && (m.FailTimes == 0 || m.CallCount <= m.FailTimes) {
		return "", m.Err
	}

	if t, ok := m.Translations[req.Text+"|"+strings.ToUpper(req.TargetLang)]; ok {
		return t, nil
	}
	if t, ok := m.Translations[req.Text]; ok {
		return t, nil
	}
	return fmt.Sprintf("[%s] %s", req.TargetLang, req.Text), nil
}

// Calls returns the number of Translate calls so far.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// Reset resets the call count and last request.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount = 0
	m.LastRequest = nil
}

// Verify MockProvider implements Client
var _ Client = (*MockProvider)(nil)
