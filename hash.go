package csvlate

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText computes the SHA-256 hash of text. Unlike display snippets the
// text is not trimmed: whitespace is significant for cache identity.
func HashText(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a cache key from tokenized source text and a target code.
func CacheKey(tokenized, targetLang string) string {
	return HashText(tokenized) + ":" + targetLang
}
