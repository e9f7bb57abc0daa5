package textproc

import (
	"reflect"
	"strings"
	"testing"
)

func TestFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "basic sentence",
			input: "Encrypts all data at rest.",
			want:  []string{"encrypts", "data", "rest"},
		},
		{
			name:  "punctuation stripped",
			input: "firewall-rules, (inbound) access!",
			want:  []string{"firewall", "rules", "inbound", "access"},
		},
		{
			name:  "stop words and short tokens dropped",
			input: "the data is in a bucket",
			want:  []string{"data", "bucket"},
		},
		{
			name:  "single-character number fragments dropped",
			input: "TLS 1.2 encryption",
			want:  []string{"tls", "encryption"},
		},
		{
			name:  "diacritics folded",
			input: "résumé sécurité",
			want:  []string{"resume", "securite"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "only stop words",
			input: "the of and to",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fields(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Fields(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokensIdempotent(t *testing.T) {
	input := "A threat agent misconfigured inbound connection settings, allowing unauthorized access."

	once := Fields(input)
	again := Fields(strings.Join(once, " "))

	if !reflect.DeepEqual(once, again) {
		t.Errorf("re-tokenizing joined tokens changed the sequence: %v vs %v", once, again)
	}
}

func TestTokensRestartable(t *testing.T) {
	seq := Tokens("network firewall access control")

	var first, second []string
	for tok := range seq {
		first = append(first, tok)
	}
	for tok := range seq {
		second = append(second, tok)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second iteration %v differs from first %v", second, first)
	}
}

func TestTokensEarlyStop(t *testing.T) {
	var got []string
	for tok := range Tokens("encryption authentication authorization") {
		got = append(got, tok)
		break
	}
	if len(got) != 1 || got[0] != "encryption" {
		t.Errorf("got %v, want [encryption]", got)
	}
}

func TestExtract(t *testing.T) {
	ex, err := NewExtractor()
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	doc := "Marketing overview of the product.\n" +
		"Security: all data is encrypted at rest using AES-256.\n" +
		"Pricing starts at ten dollars."

	got := ex.Extract(doc)
	if !strings.Contains(got, "encrypted at rest") {
		t.Errorf("Extract() = %q, should contain the security passage", got)
	}
}

func TestExtractFallbackToFullText(t *testing.T) {
	ex, err := NewExtractor()
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	doc := "General product overview with no marked sections at all."
	if got := ex.Extract(doc); got != doc {
		t.Errorf("Extract() = %q, want full text fallback", got)
	}

	if got := ex.Extract(""); got != "" {
		t.Errorf("Extract(empty) = %q, want empty", got)
	}
}

func TestExtractCustomPatterns(t *testing.T) {
	ex, err := NewExtractor(Pattern{Trigger: `(?i)tokenization[^\n]*`})
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	doc := "Intro text.\nTokenization of card data happens on ingest.\nOutro."
	got := ex.Extract(doc)
	if !strings.Contains(got, "Tokenization of card data") {
		t.Errorf("Extract() = %q, want custom pattern match", got)
	}
}

func TestNewExtractorDefaultPatternsCompile(t *testing.T) {
	if _, err := NewExtractor(); err != nil {
		t.Fatalf("NewExtractor() with defaults failed: %v", err)
	}
}

func TestExtractWindowExceedsRegexpRepeatLimit(t *testing.T) {
	// Windows larger than the regexp engine's 1000-repeat cap are sliced
	// from the source by position, so they must work at any size.
	ex, err := NewExtractor(Pattern{Trigger: `(?i)security`, Window: 5000})
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	doc := "Security. " + strings.Repeat("Encrypted storage details. ", 300)
	got := ex.Extract(doc)
	if len(got) < 4000 {
		t.Errorf("Extract() kept %d bytes, want the full 5000-byte window", len(got))
	}
	if !strings.Contains(got, "Encrypted storage details") {
		t.Errorf("Extract() = %q..., want window content after the trigger", got[:80])
	}
}

func TestNewExtractorBadPattern(t *testing.T) {
	if _, err := NewExtractor(Pattern{Trigger: `(unclosed`}); err == nil {
		t.Error("expected compile error, got nil")
	}
}

func TestTruncateRuneBoundary(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "h"},  // é is 2 bytes starting at index 1
		{"日本語", 4, "日"}, // each rune is 3 bytes
		{"日本語", 3, "日"},
		{"日本語", 2, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.s, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}
