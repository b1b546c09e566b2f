package csvlate

import (
	"sort"
	"strings"
)

// languageHeaders maps recognized CSV headers to service target codes.
// It is never mutated; use LookupLanguageHeader and LanguageHeaders.
var languageHeaders = map[string]string{
	"Chinese (Simplified)(zh)":       "ZH",
	"Chinese (Traditional)(zh-Hant)": "ZH-HANT",
	"English(en)":                    "EN", // Source by default
	"French(fr)":                     "FR",
	"German(de)":                     "DE",
	"Japanese(ja)":                   "JA",
	"Korean(ko)":                     "KO",
	"Polish(pl)":                     "PL",
	"Portuguese(pt)":                 "PT-PT",
	"Russian(ru)":                    "RU",
	"Spanish(es)":                    "ES",
	"Turkish(tr)":                    "TR",
}

// LookupLanguageHeader returns the target code for an exact header match.
func LookupLanguageHeader(header string) (string, bool) {
	code, ok := languageHeaders[header]
	return code, ok
}

// LanguageHeader is one entry of the header table.
type LanguageHeader struct {
	Header string
	Code   string
}

// LanguageHeaders returns a copy of the header table sorted by header.
func LanguageHeaders() []LanguageHeader {
	out := make([]LanguageHeader, 0, len(languageHeaders))
	for h, c := range languageHeaders {
		out = append(out, LanguageHeader{Header: h, Code: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Header < out[j].Header })
	return out
}

// LanguageName returns the display name for a target code, e.g. "German"
// for "DE". Unknown codes are returned unchanged.
func LanguageName(code string) string {
	for h, c := range languageHeaders {
		if !strings.EqualFold(c, code) {
			continue
		}
		if i := strings.LastIndexByte(h, '('); i > 0 {
			return strings.TrimSpace(h[:i])
		}
	}
	return code
}
