package textproc

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxFallbackBytes caps the fallback excerpt when no security pattern
// matches, keeping the downstream query bounded.
const maxFallbackBytes = 40000

// DefaultWindow is the window applied to custom patterns that do not set
// their own.
const DefaultWindow = 2000

// Pattern is one security-relevance trigger: a regular expression locating
// the triggering phrase, and the number of bytes of following text to keep.
// The trigger itself stays small; the surrounding context is sliced from
// the source by position rather than matched, so windows are not limited by
// the regexp engine's repeat bounds.
type Pattern struct {
	Trigger string
	Window  int
}

// DefaultPatterns are the security-relevance triggers applied to service
// documentation. The list is deliberately a heuristic: add new keywords
// here rather than growing parsing logic.
var DefaultPatterns = []Pattern{
	{`(?i)security[^\n.]*`, 5000},
	{`(?i)compliance[^\n.]*`, 3000},
	{`(?i)data protection[^\n.]*`, 3000},
	{`(?i)authentication[^\n.]*`, 2000},
	{`(?i)authorization[^\n.]*`, 2000},
	{`(?i)encryption[^\n.]*`, 2000},
	{`(?i)access control[^\n.]*`, 2000},
	{`(?i)audit(?:ing)?\s+log[^\n.]*`, 2000},
	{`(?i)identity\s+(?:and access management|polic)[^\n.]*`, 2000},
	{`(?i)network\s+(?:boundary|isolation|firewall|acl)[^\n.]*`, 2000},
}

type compiledPattern struct {
	re     *regexp.Regexp
	window int
}

// Extractor isolates security-relevant passages from raw documentation text.
type Extractor struct {
	patterns []compiledPattern
}

// NewExtractor compiles the given patterns. With no patterns it uses
// DefaultPatterns. A pattern with Window <= 0 gets DefaultWindow.
func NewExtractor(patterns ...Pattern) (*Extractor, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Trigger)
		if err != nil {
			return nil, err
		}
		window := p.Window
		if window <= 0 {
			window = DefaultWindow
		}
		compiled = append(compiled, compiledPattern{re: re, window: window})
	}
	return &Extractor{patterns: compiled}, nil
}

// Extract returns the concatenation of every triggering phrase plus its
// following window of source text. When nothing matches, it falls back to
// a capped prefix of the full text so a non-empty document never produces
// an empty result.
func (e *Extractor) Extract(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	for _, p := range e.patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			b.WriteString(Truncate(text[loc[0]:], loc[1]-loc[0]+p.window))
			b.WriteString("\n\n")
		}
	}

	if b.Len() == 0 {
		return Truncate(text, maxFallbackBytes)
	}
	return b.String()
}

// Truncate caps s at max bytes without splitting a UTF-8 rune, backing off
// to the previous rune boundary when the cut would land mid-sequence.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
