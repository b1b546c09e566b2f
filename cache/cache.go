// Package cache provides stores for finished translations.
//
// Keys have the form "<sha256 of the tokenized source>:<LANG>" and values
// are the tokenized translations returned by the service, so a stored entry
// is reusable for every source text that tokenizes identically.
package cache

import "strings"

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error
}

// Lister is implemented by caches whose live entries can be enumerated.
type Lister interface {
	Entries() map[string]string
}

// SplitKey separates a cache key into its text hash and language code.
func SplitKey(key string) (hash, lang string, ok bool) {
	i := strings.LastIndexByte(key, ':')
	if i <= 0 || i == len(key)-1 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}
