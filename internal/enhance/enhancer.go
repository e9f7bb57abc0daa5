// Package enhance attaches LLM-generated applicability assessments and
// justifications to a base confidence mapping. The core mapping pipeline
// never depends on this package; its output is a complete artifact on its
// own and this stage is strictly downstream.
package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/ethanolivertroy/ctrlmap/internal/confidence"
	"github.com/ethanolivertroy/ctrlmap/internal/mapping"
)

// promptTemplate frames the per-control applicability question. The model
// must answer in JSON so the verdict can be parsed back.
const promptTemplate = `You are a cybersecurity expert at a financial institution. Your task is to assess whether a cloud service needs to comply with specific security controls.

CLOUD SERVICE: %s

SECURITY DOCUMENTATION EXCERPT:
%s

ANALYST CONCERN:
%s

CONTROL POLICY:
%s

Based solely on the information above, assess whether the cloud service should be subject to this control policy.
Provide a confidence level (HIGH, MEDIUM, or LOW) and a brief justification (2-3 sentences maximum).

Answer in JSON format:
{
  "is_applicable": true/false,
  "confidence": "HIGH/MEDIUM/LOW",
  "justification": "Your brief justification here"
}`

// maxDocExcerptBytes truncates the documentation excerpt to fit the model
// context window.
const maxDocExcerptBytes = 2000

// DefaultMaxControls is how many top controls get enhanced per run.
const DefaultMaxControls = 5

// fallbackJustification is used when a model answer cannot be parsed.
const fallbackJustification = "Based on lexical retrieval score"

// Context carries the textual inputs the assessor sees alongside the
// base mapping.
type Context struct {
	Service    string
	Note       string
	DocExcerpt string // security-relevant excerpt, same text the mapper queried with
}

// Assessment is the model's verdict for one control.
type Assessment struct {
	ControlID     string           `json:"-"`
	BaseLevel     confidence.Level `json:"base_confidence"`
	Applicable    bool             `json:"llm_applicable"`
	Level         confidence.Level `json:"llm_confidence"`
	Justification string           `json:"justification"`
}

// Enriched is the enhancement output: the assessed controls in enhancement
// order (strongest base confidence first).
type Enriched struct {
	Service     string
	Assessments []Assessment
}

// MarshalJSON emits {"<service>": {"<id>": {...}, ...}} preserving
// assessment order.
func (e *Enriched) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')

	svc, err := json.Marshal(e.Service)
	if err != nil {
		return nil, err
	}
	b.Write(svc)
	b.WriteString(":{")

	for i, a := range e.Assessments {
		if i > 0 {
			b.WriteByte(',')
		}
		id, err := json.Marshal(a.ControlID)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		b.Write(id)
		b.WriteByte(':')
		b.Write(body)
	}

	b.WriteString("}}")
	return []byte(b.String()), nil
}

// Enhancer is the narrow collaborator boundary for the post-processing
// stage. Implementations must not mutate the base result.
type Enhancer interface {
	Enhance(ctx context.Context, base *mapping.Result, ec Context) (*Enriched, error)
}

// Options tunes a ModelEnhancer.
type Options struct {
	MaxControls int           // 0 means DefaultMaxControls
	Limiter     *rate.Limiter // nil means 2 requests/sec
}

// ModelEnhancer assesses controls with an LLM behind the ADK model
// interface.
type ModelEnhancer struct {
	llm         model.LLM
	maxControls int
	limiter     *rate.Limiter
}

// NewModelEnhancer wraps an LLM as an Enhancer.
func NewModelEnhancer(llm model.LLM, opts Options) *ModelEnhancer {
	if opts.MaxControls <= 0 {
		opts.MaxControls = DefaultMaxControls
	}
	if opts.Limiter == nil {
		opts.Limiter = rate.NewLimiter(rate.Limit(2), 1)
	}
	return &ModelEnhancer{
		llm:         llm,
		maxControls: opts.MaxControls,
		limiter:     opts.Limiter,
	}
}

// Enhance asks the model about the top controls of the base mapping,
// ordered by base confidence (high first, then score, then catalog order).
// An unparseable model answer degrades to the base confidence rather than
// failing the run; a transport error aborts.
func (m *ModelEnhancer) Enhance(ctx context.Context, base *mapping.Result, ec Context) (*Enriched, error) {
	selected := selectControls(base, m.maxControls)

	excerpt := ec.DocExcerpt
	if len(excerpt) > maxDocExcerptBytes {
		excerpt = excerpt[:maxDocExcerptBytes]
	}

	enriched := &Enriched{Service: base.Service}
	for _, entry := range selected {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		prompt := fmt.Sprintf(promptTemplate, ec.Service, excerpt, ec.Note, entry.Description)
		answer, err := m.generate(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("assessment of control %s failed: %w", entry.ControlID, err)
		}

		assessment := parseAssessment(answer, entry)
		enriched.Assessments = append(enriched.Assessments, assessment)
	}
	return enriched, nil
}

// selectControls picks the controls to enhance: best base confidence
// first, then highest score; the sort is stable so ties keep catalog
// order.
func selectControls(base *mapping.Result, n int) []mapping.Entry {
	entries := make([]mapping.Entry, len(base.Entries))
	copy(entries, base.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Level.Rank() != entries[j].Level.Rank() {
			return entries[i].Level.Rank() < entries[j].Level.Rank()
		}
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// generate runs one unstreamed completion and concatenates the text parts.
func (m *ModelEnhancer) generate(ctx context.Context, prompt string) (string, error) {
	req := &model.LLMRequest{
		Contents: []*genai.Content{
			{
				Role:  "user",
				Parts: []*genai.Part{genai.NewPartFromText(prompt)},
			},
		},
	}

	var b strings.Builder
	for resp, err := range m.llm.GenerateContent(ctx, req, false) {
		if err != nil {
			return "", err
		}
		if resp == nil || resp.Content == nil {
			continue
		}
		for _, part := range resp.Content.Parts {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}

// modelAnswer is the JSON shape the prompt asks for.
type modelAnswer struct {
	IsApplicable  bool   `json:"is_applicable"`
	Confidence    string `json:"confidence"`
	Justification string `json:"justification"`
}

// parseAssessment extracts the JSON verdict from the model answer. Models
// often wrap JSON in prose or code fences, so the parse takes the
// outermost brace pair. Anything unparseable degrades to the base level.
func parseAssessment(answer string, entry mapping.Entry) Assessment {
	fallback := Assessment{
		ControlID:     entry.ControlID,
		BaseLevel:     entry.Level,
		Applicable:    true,
		Level:         entry.Level,
		Justification: fallbackJustification,
	}

	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start < 0 || end <= start {
		return fallback
	}

	var parsed modelAnswer
	if err := json.Unmarshal([]byte(answer[start:end+1]), &parsed); err != nil {
		return fallback
	}

	level := confidence.Level(strings.ToLower(parsed.Confidence))
	switch level {
	case confidence.High, confidence.Medium, confidence.Low:
	default:
		return fallback
	}

	return Assessment{
		ControlID:     entry.ControlID,
		BaseLevel:     entry.Level,
		Applicable:    parsed.IsApplicable,
		Level:         level,
		Justification: parsed.Justification,
	}
}
