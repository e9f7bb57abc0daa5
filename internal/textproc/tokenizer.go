// Package textproc provides text normalization, tokenization, and
// security-relevance extraction for the control mapping pipeline.
package textproc

import (
	"iter"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinTokenLength is the shortest token kept by the tokenizer, in runes.
const MinTokenLength = 2

// stopWords are dropped during tokenization. They carry no ranking signal
// and only inflate document lengths.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"that": true, "the": true, "to": true, "was": true, "were": true, "will": true,
	"with": true, "this": true, "but": true, "they": true, "have": true,
	"had": true, "what": true, "when": true, "where": true, "who": true, "which": true,
	"why": true, "how": true, "all": true, "any": true, "both": true, "each": true,
	"few": true, "more": true, "most": true, "other": true, "some": true, "such": true,
	"no": true, "nor": true, "not": true, "only": true, "own": true, "same": true,
	"so": true, "than": true, "too": true, "very": true, "can": true, "did": true,
	"do": true, "does": true, "doing": true, "done": true, "or": true, "if": true,
}

// foldTransformer strips combining marks after NFKD decomposition, so
// accented input tokenizes the same as its ASCII form.
var foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s and folds Unicode diacritics.
func Normalize(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		// Transform only fails on malformed input; fall back to the raw string.
		folded = s
	}
	return strings.ToLower(folded)
}

// Tokens returns a lazy, restartable sequence of normalized terms from s.
// Identical input always yields an identical sequence: the index and the
// query side of scoring depend on that.
func Tokens(s string) iter.Seq[string] {
	normalized := Normalize(s)
	return func(yield func(string) bool) {
		var b strings.Builder
		runeCount := 0
		flush := func() bool {
			if runeCount == 0 {
				return true
			}
			tok := b.String()
			b.Reset()
			n := runeCount
			runeCount = 0
			if n < MinTokenLength || stopWords[tok] {
				return true
			}
			return yield(tok)
		}
		for _, r := range normalized {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
				runeCount++
				continue
			}
			if !flush() {
				return
			}
		}
		flush()
	}
}

// Fields collects Tokens(s) into a slice.
func Fields(s string) []string {
	var out []string
	for tok := range Tokens(s) {
		out = append(out, tok)
	}
	return out
}
