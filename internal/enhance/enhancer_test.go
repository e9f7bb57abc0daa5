package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"
	"testing"

	"golang.org/x/time/rate"
	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/ethanolivertroy/ctrlmap/internal/confidence"
	"github.com/ethanolivertroy/ctrlmap/internal/mapping"
)

// fakeLLM returns canned answers and records the prompts it saw.
type fakeLLM struct {
	answers []string
	err     error
	prompts []string
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		if f.err != nil {
			yield(nil, f.err)
			return
		}
		var prompt string
		for _, c := range req.Contents {
			for _, p := range c.Parts {
				prompt += p.Text
			}
		}
		f.prompts = append(f.prompts, prompt)

		answer := ""
		if len(f.answers) > 0 {
			answer = f.answers[0]
			f.answers = f.answers[1:]
		}
		yield(&model.LLMResponse{
			Content: &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{genai.NewPartFromText(answer)},
			},
			TurnComplete: true,
		}, nil)
	}
}

func baseResult() *mapping.Result {
	return &mapping.Result{
		Service: "AWS Timestream",
		Entries: []mapping.Entry{
			{ControlID: "1", Description: "network firewall access control", Score: 4.2, Level: confidence.High},
			{ControlID: "2", Description: "encryption at rest and in transit", Score: 1.5, Level: confidence.Medium},
			{ControlID: "3", Description: "audit logging", Score: 0.2, Level: confidence.Low},
		},
	}
}

func fastOptions(n int) Options {
	return Options{MaxControls: n, Limiter: rate.NewLimiter(rate.Inf, 1)}
}

func TestEnhanceParsesVerdicts(t *testing.T) {
	llm := &fakeLLM{answers: []string{
		`{"is_applicable": true, "confidence": "HIGH", "justification": "Firewall rules are in scope."}`,
		`{"is_applicable": false, "confidence": "LOW", "justification": "Encryption handled elsewhere."}`,
	}}
	e := NewModelEnhancer(llm, fastOptions(2))

	enriched, err := e.Enhance(context.Background(), baseResult(), Context{
		Service:    "AWS Timestream",
		Note:       "misconfigured inbound settings",
		DocExcerpt: "encrypts all data at rest",
	})
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}

	if len(enriched.Assessments) != 2 {
		t.Fatalf("got %d assessments, want 2", len(enriched.Assessments))
	}

	first := enriched.Assessments[0]
	if first.ControlID != "1" {
		t.Errorf("first assessed control = %s, want 1 (highest base confidence)", first.ControlID)
	}
	if !first.Applicable || first.Level != confidence.High {
		t.Errorf("first verdict = applicable=%v level=%s, want true/high", first.Applicable, first.Level)
	}
	if first.BaseLevel != confidence.High {
		t.Errorf("first BaseLevel = %s, want high", first.BaseLevel)
	}

	second := enriched.Assessments[1]
	if second.Applicable || second.Level != confidence.Low {
		t.Errorf("second verdict = applicable=%v level=%s, want false/low", second.Applicable, second.Level)
	}
}

func TestEnhancePromptContents(t *testing.T) {
	llm := &fakeLLM{answers: []string{`{"is_applicable": true, "confidence": "HIGH", "justification": "ok"}`}}
	e := NewModelEnhancer(llm, fastOptions(1))

	_, err := e.Enhance(context.Background(), baseResult(), Context{
		Service:    "AWS Timestream",
		Note:       "unauthorized access concern",
		DocExcerpt: "security documentation text",
	})
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}

	if len(llm.prompts) != 1 {
		t.Fatalf("model saw %d prompts, want 1", len(llm.prompts))
	}
	prompt := llm.prompts[0]
	for _, want := range []string{
		"AWS Timestream",
		"unauthorized access concern",
		"security documentation text",
		"network firewall access control",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestEnhanceUnparseableAnswerFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{"prose only", "I think this control probably applies."},
		{"broken json", `{"is_applicable": maybe}`},
		{"bad confidence value", `{"is_applicable": true, "confidence": "ABSOLUTE", "justification": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{answers: []string{tt.answer}}
			e := NewModelEnhancer(llm, fastOptions(1))

			enriched, err := e.Enhance(context.Background(), baseResult(), Context{Service: "svc"})
			if err != nil {
				t.Fatalf("Enhance failed: %v", err)
			}

			a := enriched.Assessments[0]
			if a.Level != a.BaseLevel {
				t.Errorf("fallback level = %s, want base %s", a.Level, a.BaseLevel)
			}
			if !a.Applicable {
				t.Error("fallback should default to applicable")
			}
			if a.Justification != fallbackJustification {
				t.Errorf("Justification = %q, want fallback text", a.Justification)
			}
		})
	}
}

func TestEnhanceFencedJSON(t *testing.T) {
	llm := &fakeLLM{answers: []string{
		"Here is my assessment:\n```json\n{\"is_applicable\": true, \"confidence\": \"medium\", \"justification\": \"partial overlap\"}\n```\n",
	}}
	e := NewModelEnhancer(llm, fastOptions(1))

	enriched, err := e.Enhance(context.Background(), baseResult(), Context{Service: "svc"})
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}
	if enriched.Assessments[0].Level != confidence.Medium {
		t.Errorf("Level = %s, want medium from fenced JSON", enriched.Assessments[0].Level)
	}
}

func TestEnhanceModelErrorAborts(t *testing.T) {
	llm := &fakeLLM{err: fmt.Errorf("connection refused")}
	e := NewModelEnhancer(llm, fastOptions(2))

	_, err := e.Enhance(context.Background(), baseResult(), Context{Service: "svc"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "control 1") {
		t.Errorf("error %q should name the failing control", err)
	}
}

func TestEnhanceRespectsMaxControls(t *testing.T) {
	llm := &fakeLLM{answers: []string{
		`{"is_applicable": true, "confidence": "high", "justification": "a"}`,
	}}
	e := NewModelEnhancer(llm, fastOptions(1))

	enriched, err := e.Enhance(context.Background(), baseResult(), Context{Service: "svc"})
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}
	if len(enriched.Assessments) != 1 {
		t.Errorf("got %d assessments, want 1", len(enriched.Assessments))
	}
}

func TestEnrichedMarshalJSON(t *testing.T) {
	enriched := &Enriched{
		Service: "svc",
		Assessments: []Assessment{
			{ControlID: "9", BaseLevel: confidence.High, Applicable: true, Level: confidence.High, Justification: "j1"},
			{ControlID: "2", BaseLevel: confidence.Medium, Applicable: false, Level: confidence.Low, Justification: "j2"},
		},
	}

	data, err := json.Marshal(enriched)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]map[string]struct {
		BaseConfidence string `json:"base_confidence"`
		LLMApplicable  bool   `json:"llm_applicable"`
		LLMConfidence  string `json:"llm_confidence"`
		Justification  string `json:"justification"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	got := decoded["svc"]["9"]
	if got.BaseConfidence != "high" || !got.LLMApplicable || got.Justification != "j1" {
		t.Errorf("assessment 9 round-trip = %+v", got)
	}
	// Enhancement order preserved in the raw bytes: "9" before "2".
	if strings.Index(string(data), `"9"`) > strings.Index(string(data), `"2"`) {
		t.Errorf("Marshal = %s, want assessment order preserved", data)
	}
}
