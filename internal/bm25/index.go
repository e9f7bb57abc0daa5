// Package bm25 implements Okapi BM25 ranking over the control catalog.
package bm25

import (
	"fmt"
	"math"
	"sort"

	"github.com/ethanolivertroy/ctrlmap/internal/catalog"
	"github.com/ethanolivertroy/ctrlmap/internal/textproc"
)

// Params are the BM25 tuning constants. K1 controls term frequency
// saturation, B controls document length normalization.
type Params struct {
	K1 float64
	B  float64
}

// DefaultParams are the conventional BM25 defaults.
var DefaultParams = Params{K1: 1.5, B: 0.75}

// UnknownControlError reports a scoring request for a control id that was
// not present when the index was built. This is an integration error, not
// a data condition.
type UnknownControlError struct {
	ID string
}

func (e *UnknownControlError) Error() string {
	return fmt.Sprintf("control %q is not in the index", e.ID)
}

// doc is the tokenized form of one control description.
type doc struct {
	id  string
	tf  map[string]int
	len int
}

// Index is an immutable BM25 index over control descriptions. A changed
// catalog requires building a new index. Safe for concurrent use.
type Index struct {
	docs   []doc // catalog order
	byID   map[string]int
	idf    map[string]float64
	avgLen float64
	params Params
}

// Score pairs a control id with its relevance score for one query.
type Score struct {
	ControlID string
	Value     float64
}

// Build constructs an index from the catalog. Each control description is
// tokenized, then per-term document frequencies and the corpus average
// document length are computed once.
func Build(cat *catalog.Catalog, params Params) *Index {
	controls := cat.Controls()
	idx := &Index{
		docs:   make([]doc, 0, len(controls)),
		byID:   make(map[string]int, len(controls)),
		idf:    make(map[string]float64),
		params: params,
	}

	df := make(map[string]int)
	totalLen := 0
	for _, ctrl := range controls {
		d := doc{id: ctrl.ID, tf: make(map[string]int)}
		for tok := range textproc.Tokens(ctrl.Description) {
			d.tf[tok]++
			d.len++
		}
		for term := range d.tf {
			df[term]++
		}
		totalLen += d.len
		idx.byID[ctrl.ID] = len(idx.docs)
		idx.docs = append(idx.docs, d)
	}

	n := float64(len(idx.docs))
	if n > 0 {
		idx.avgLen = float64(totalLen) / n
	}

	// IDF(t) = ln((N - df + 0.5) / (df + 0.5) + 1)
	for term, freq := range df {
		idx.idf[term] = math.Log((n-float64(freq)+0.5)/(float64(freq)+0.5) + 1)
	}

	return idx
}

// Len returns the number of indexed controls.
func (idx *Index) Len() int {
	return len(idx.docs)
}

// Score computes the BM25 score of the query terms against one control.
// Terms absent from that control contribute zero. Scoring an id that was
// not indexed returns an UnknownControlError.
func (idx *Index) Score(query []string, id string) (float64, error) {
	pos, ok := idx.byID[id]
	if !ok {
		return 0, &UnknownControlError{ID: id}
	}
	return idx.scoreDoc(query, idx.docs[pos]), nil
}

func (idx *Index) scoreDoc(query []string, d doc) float64 {
	if d.len == 0 || idx.avgLen == 0 {
		return 0
	}

	k1, b := idx.params.K1, idx.params.B
	lengthNorm := k1 * (1 - b + b*float64(d.len)/idx.avgLen)

	var score float64
	for _, term := range query {
		tf := float64(d.tf[term])
		if tf == 0 {
			continue
		}
		score += idx.idf[term] * (tf * (k1 + 1)) / (tf + lengthNorm)
	}
	return score
}

// ScoreAll scores the query against every indexed control, returned in
// catalog order.
func (idx *Index) ScoreAll(query []string) []Score {
	scores := make([]Score, len(idx.docs))
	for i, d := range idx.docs {
		scores[i] = Score{ControlID: d.id, Value: idx.scoreDoc(query, d)}
	}
	return scores
}

// Rank returns a copy of scores sorted by descending score. The sort is
// stable, so equal scores keep catalog order.
func Rank(scores []Score) []Score {
	ranked := make([]Score, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	return ranked
}
