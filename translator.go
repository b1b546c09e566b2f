package csvlate

import (
	"context"
	"strings"

	"github.com/ZaguanLabs/csvlate/cache"
)

// Sentence splitting and formality values understood by the services.
const (
	SplitNoNewlines  = "nonewlines"
	FormalityDefault = "default"
)

// Client is the translation service capability: one text to one language.
type Client interface {
	Translate(ctx context.Context, req Request) (string, error)
}

// Request contains the parameters for a single-text translation.
type Request struct {
	Text               string
	TargetLang         string
	SourceLang         string
	PreserveFormatting bool   // Keep whitespace, punctuation and casing as given
	SplitSentences     string // "nonewlines" disables automatic resplitting
	Formality          string
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// ProcessOptions configures ProcessRows.
type ProcessOptions struct {
	PreserveExisting bool // Only fill absent or blank target cells
	Logger           Logger
	Retry            RetryConfig

	// Store is an optional second-level cache shared across files and runs.
	// It is consulted after the per-invocation cache and before the service.
	Store TranslationCache

	// Markup protects inline HTML tags and skips cells with no visible text.
	Markup bool
}

// snippetLimit is the maximum number of characters shown in progress lines.
const snippetLimit = 60

// ShouldFill reports whether a target cell may be written. When preserving,
// only absent or blank cells are filled.
func ShouldFill(current string, present, preserveExisting bool) bool {
	if !preserveExisting || !present {
		return true
	}
	return strings.TrimSpace(current) == ""
}

// ProcessRows fills the target cells of rows in place and returns them with
// the per-file counters. A failing cell is counted and logged; it never
// aborts the row or the file. Cancelling ctx stops before the next row.
func ProcessRows(ctx context.Context, rows []Row, schema Schema, client Client, opts ProcessOptions) ([]Row, Stats) {
	p := &rowProcessor{
		client: client,
		opts:   opts,
		local:  cache.NewInMemoryCache(0),
		stats:  Stats{Rows: len(rows)},
	}
	if p.opts.Retry.MaxRetries == 0 {
		p.opts.Retry = DefaultRetryConfig()
	}

	for i, row := range rows {
		if ctx.Err() != nil {
			break
		}
		p.processRow(ctx, i+1, row, schema)
	}
	return rows, p.stats
}

type rowProcessor struct {
	client Client
	opts   ProcessOptions
	local  *cache.InMemoryCache
	stats  Stats
}

func (p *rowProcessor) skippable(text string) bool {
	if IsSkippable(text) {
		return true
	}
	return p.opts.Markup && IsMarkupOnly(text)
}

func (p *rowProcessor) tokenize(text string) (string, Placeholders) {
	if p.opts.Markup {
		return TokenizeMarkup(text)
	}
	return Tokenize(text)
}

func (p *rowProcessor) processRow(ctx context.Context, idx int, row Row, schema Schema) {
	log := p.opts.Logger

	source, _ := row.Get(schema.Source)
	if p.skippable(source) {
		p.stats.SkippedSourceInvalid++
		return
	}

	tokenized, placeholders := p.tokenize(source)

	for _, target := range schema.Targets {
		current, present := row.Get(target.Header)
		if !ShouldFill(current, present, p.opts.PreserveExisting) {
			p.stats.SkippedExisting++
			continue
		}

		log.log("Translating row %d to %s: '%s'", idx, target.Lang, snippet(source))

		translated, err := p.translate(ctx, tokenized, target.Lang)
		if err != nil {
			p.stats.Errors++
			log.log("  -> FAILED for '%s': %v", target.Header, err)
			continue
		}

		result := Detokenize(translated, placeholders)
		if strings.TrimSpace(result) == "" {
			continue
		}
		row[target.Header] = result
		p.stats.TranslatedCells++
		log.log("  -> Filled '%s': '%s'", target.Header, snippet(result))
	}
}

// translate resolves one (tokenized text, language) pair through the
// per-invocation cache, the optional store and finally the service.
func (p *rowProcessor) translate(ctx context.Context, tokenized, lang string) (string, error) {
	log := p.opts.Logger
	key := CacheKey(tokenized, lang)

	if cached, ok := p.local.Get(key); ok {
		log.log("  -> Cache hit")
		return cached, nil
	}

	if p.opts.Store != nil {
		if stored, ok := p.opts.Store.Get(key); ok {
			_ = p.local.Set(key, stored)
			log.log("  -> Store hit")
			return stored, nil
		}
	}

	translated, err := TranslateWithRetry(ctx, p.client, tokenized, lang, p.opts.Retry)
	if err != nil {
		return "", err
	}

	_ = p.local.Set(key, translated)
	if p.opts.Store != nil {
		_ = p.opts.Store.Set(key, translated) // Ignore store set errors
	}
	log.log("  -> API call success")
	return translated, nil
}

// snippet trims text and shortens it to snippetLimit characters.
func snippet(text string) string {
	s := strings.TrimSpace(text)
	r := []rune(s)
	if len(r) > snippetLimit {
		return string(r[:snippetLimit]) + "..."
	}
	return s
}
