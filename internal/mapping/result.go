package mapping

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/ethanolivertroy/ctrlmap/internal/confidence"
)

// Entry is one control's mapping outcome.
type Entry struct {
	ControlID   string
	Description string
	Score       float64
	Level       confidence.Level
}

// Result is the confidence mapping for one service. Entries are in catalog
// order and cover every catalog control exactly once. Immutable once
// produced.
type Result struct {
	Service string
	Entries []Entry
}

// Level returns the confidence level assigned to a control id.
func (r *Result) Level(id string) (confidence.Level, bool) {
	for _, e := range r.Entries {
		if e.ControlID == id {
			return e.Level, true
		}
	}
	return "", false
}

// Ranked returns the entries sorted by descending score. The sort is
// stable, so ties keep catalog order.
func (r *Result) Ranked() []Entry {
	ranked := make([]Entry, len(r.Entries))
	copy(ranked, r.Entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// MarshalJSON emits the external artifact shape,
//
//	{"<service>": {"<control-id>": "high" | "medium" | "low", ...}}
//
// with control ids in catalog order. Encoding by hand keeps the key order
// deterministic; encoding/json would sort map keys lexically.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	svc, err := json.Marshal(r.Service)
	if err != nil {
		return nil, err
	}
	buf.Write(svc)
	buf.WriteString(":{")

	for i, e := range r.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		id, err := json.Marshal(e.ControlID)
		if err != nil {
			return nil, err
		}
		buf.Write(id)
		buf.WriteByte(':')
		lvl, err := json.Marshal(string(e.Level))
		if err != nil {
			return nil, err
		}
		buf.Write(lvl)
	}

	buf.WriteString("}}")
	return buf.Bytes(), nil
}
