package csvlate

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	urlPrefixRE = regexp.MustCompile(`(?i)^(https?://|www\.)`)
	numericRE   = regexp.MustCompile(`^\p{Nd}+(\.\p{Nd}+)?$`)
)

// IsSkippable reports whether a source cell should not be sent to the
// translation service: blank text, URLs, plain numbers, and text without
// any letter or digit.
func IsSkippable(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return true
	}
	if urlPrefixRE.MatchString(t) {
		return true
	}
	if numericRE.MatchString(t) {
		return true
	}
	return !hasLetterOrDigit(t)
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
