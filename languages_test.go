package csvlate

import "testing"

func TestLookupLanguageHeader(t *testing.T) {
	tests := []struct {
		header   string
		expected string
		ok       bool
	}{
		{"German(de)", "DE", true},
		{"Chinese (Simplified)(zh)", "ZH", true},
		{"Chinese (Traditional)(zh-Hant)", "ZH-HANT", true},
		{"Portuguese(pt)", "PT-PT", true},
		{"English(en)", "EN", true},
		{"german(de)", "", false}, // exact match only
		{"German", "", false},
		{"Key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			code, ok := LookupLanguageHeader(tt.header)
			if code != tt.expected || ok != tt.ok {
				t.Errorf("LookupLanguageHeader(%q) = (%q, %v), want (%q, %v)", tt.header, code, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestLanguageHeaders(t *testing.T) {
	headers := LanguageHeaders()

	if len(headers) != 12 {
		t.Fatalf("expected 12 language headers, got %d", len(headers))
	}

	for i := 1; i < len(headers); i++ {
		if headers[i-1].Header >= headers[i].Header {
			t.Errorf("headers not sorted: %q before %q", headers[i-1].Header, headers[i].Header)
		}
	}

	// Mutating the copy must not affect lookups.
	headers[0].Code = "XX"
	if code, _ := LookupLanguageHeader(headers[0].Header); code == "XX" {
		t.Error("LanguageHeaders should return a copy")
	}
}

func TestLanguageName(t *testing.T) {
	tests := map[string]string{
		"DE":      "German",
		"de":      "German",
		"ZH":      "Chinese (Simplified)",
		"ZH-HANT": "Chinese (Traditional)",
		"PT-PT":   "Portuguese",
		"XX":      "XX",
	}

	for code, want := range tests {
		if got := LanguageName(code); got != want {
			t.Errorf("LanguageName(%q) = %q, want %q", code, got, want)
		}
	}
}
