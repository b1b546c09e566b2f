package csvlate

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Token delimiters. The section sign pair does not occur in normal UI text
// and survives machine translation untouched.
const (
	TokenPrefix = "§§PH_"
	TokenSuffix = "§§"
)

// placeholderPatterns are applied in order, each over the output of the previous.
var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\{[^}]*\}`), // {0}, {name}
	regexp.MustCompile(`%[sdif]`),   // %s, %d, %i, %f
	regexp.MustCompile(`\$\d+`),     // $1, $2
}

// Placeholders maps a synthetic token to the substring it replaced.
type Placeholders map[string]string

// Tokenize replaces format placeholders in text with numbered tokens so the
// translation service cannot alter them.
func Tokenize(text string) (string, Placeholders) {
	t := newTokenizer()
	return t.placeholders(text), t.mapping
}

// TokenizeMarkup behaves like Tokenize and additionally protects inline
// HTML tags. Tags are tokenized first, so a placeholder inside an attribute
// stays part of its tag.
func TokenizeMarkup(text string) (string, Placeholders) {
	t := newTokenizer()

	var b strings.Builder
	rest := text
	for _, tag := range markupTags(text) {
		i := strings.Index(rest, tag)
		if i < 0 {
			continue
		}
		b.WriteString(rest[:i])
		b.WriteString(t.replace(tag))
		rest = rest[i+len(tag):]
	}
	b.WriteString(rest)

	return t.placeholders(b.String()), t.mapping
}

// Detokenize restores every token found in text, highest index first.
// Tokens dropped by the service are lost; duplicated tokens are all restored.
func Detokenize(text string, placeholders Placeholders) string {
	tokens := make([]string, 0, len(placeholders))
	for token := range placeholders {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		return tokenIndex(tokens[i]) > tokenIndex(tokens[j])
	})

	out := text
	for _, token := range tokens {
		out = strings.ReplaceAll(out, token, placeholders[token])
	}
	return out
}

func tokenIndex(token string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(token, TokenPrefix), TokenSuffix))
	if err != nil {
		return -1
	}
	return n
}

type tokenizer struct {
	mapping Placeholders
	next    int
}

func newTokenizer() *tokenizer {
	return &tokenizer{mapping: make(Placeholders)}
}

// placeholders applies placeholderPatterns in order.
func (t *tokenizer) placeholders(text string) string {
	out := text
	for _, re := range placeholderPatterns {
		out = re.ReplaceAllStringFunc(out, t.replace)
	}
	return out
}

func (t *tokenizer) replace(original string) string {
	token := TokenPrefix + strconv.Itoa(t.next) + TokenSuffix
	t.mapping[token] = original
	t.next++
	return token
}
