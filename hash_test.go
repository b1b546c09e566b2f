package csvlate

import "testing"

func TestHashText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple text",
			input:    "Hello World",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HashText(tt.input)
			if result != tt.expected {
				t.Errorf("HashText(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestHashText_WhitespaceSignificant(t *testing.T) {
	if HashText("Hello World") == HashText("  Hello World") {
		t.Error("leading whitespace should change the hash")
	}
}

func TestCacheKey(t *testing.T) {
	result := CacheKey("Hello World", "DE")
	expected := "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e:DE"

	if result != expected {
		t.Errorf("CacheKey() = %q, want %q", result, expected)
	}

	if CacheKey("Hello World", "FR") == result {
		t.Error("different languages should produce different keys")
	}
}
