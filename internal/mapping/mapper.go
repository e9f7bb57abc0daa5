// Package mapping composes the catalog, extractor, tokenizer, BM25 index,
// and classifier into the control mapping pipeline.
package mapping

import (
	"fmt"

	"github.com/ethanolivertroy/ctrlmap/internal/bm25"
	"github.com/ethanolivertroy/ctrlmap/internal/catalog"
	"github.com/ethanolivertroy/ctrlmap/internal/confidence"
	"github.com/ethanolivertroy/ctrlmap/internal/textproc"
)

// maxQueryDocBytes caps how much extracted documentation feeds the
// composite query. Extracted text beyond this adds length, not signal.
const maxQueryDocBytes = 5000

// EmptyQueryError reports that all textual inputs reduced to zero tokens.
// A BM25 query with no terms cannot produce a meaningful ranking.
type EmptyQueryError struct {
	Service string
	Note    string
}

func (e *EmptyQueryError) Error() string {
	return fmt.Sprintf("query for service %q is empty after tokenization (note: %q)", e.Service, e.Note)
}

// Config carries the tunable pieces of the pipeline. Zero values fall back
// to the package defaults.
type Config struct {
	Params     bm25.Params
	Thresholds confidence.Thresholds
	Extractor  *textproc.Extractor
}

// Mapper maps a cloud service's documentation to catalog controls. Build
// one per catalog; a changed catalog requires a new Mapper. Safe for
// concurrent Map calls once constructed.
type Mapper struct {
	catalog    *catalog.Catalog
	index      *bm25.Index
	extractor  *textproc.Extractor
	thresholds confidence.Thresholds
}

// New builds the BM25 index over the catalog and returns a ready Mapper.
func New(cat *catalog.Catalog, cfg Config) (*Mapper, error) {
	if cfg.Params.K1 == 0 {
		cfg.Params.K1 = bm25.DefaultParams.K1
	}
	if cfg.Params.B == 0 {
		cfg.Params.B = bm25.DefaultParams.B
	}
	if cfg.Thresholds == (confidence.Thresholds{}) {
		cfg.Thresholds = confidence.DefaultThresholds
	}
	if cfg.Extractor == nil {
		ex, err := textproc.NewExtractor()
		if err != nil {
			return nil, err
		}
		cfg.Extractor = ex
	}

	return &Mapper{
		catalog:    cat,
		index:      bm25.Build(cat, cfg.Params),
		extractor:  cfg.Extractor,
		thresholds: cfg.Thresholds,
	}, nil
}

// Catalog returns the catalog this mapper was built from.
func (m *Mapper) Catalog() *catalog.Catalog {
	return m.catalog
}

// Extract runs the security-relevance extractor over raw documentation
// text. Exposed for the enhancement stage, which reuses the same excerpt.
func (m *Mapper) Extract(docText string) string {
	return m.extractor.Extract(docText)
}

// Map scores every catalog control against the composite query built from
// the service name, the analyst threat note, and the security-relevant
// passages of docText. The result covers every control exactly once and is
// produced atomically: any failure returns a nil result.
func (m *Mapper) Map(service, note, docText string) (*Result, error) {
	excerpt := textproc.Truncate(m.extractor.Extract(docText), maxQueryDocBytes)

	query := textproc.Fields(service + " " + note + " " + excerpt)
	if len(query) == 0 {
		return nil, &EmptyQueryError{Service: service, Note: note}
	}

	scores := m.index.ScoreAll(query)
	levels := confidence.Classify(scores, m.thresholds)

	result := &Result{
		Service: service,
		Entries: make([]Entry, 0, len(scores)),
	}
	for _, s := range scores {
		ctrl, _ := m.catalog.Get(s.ControlID)
		result.Entries = append(result.Entries, Entry{
			ControlID:   s.ControlID,
			Description: ctrl.Description,
			Score:       s.Value,
			Level:       levels[s.ControlID],
		})
	}
	return result, nil
}
