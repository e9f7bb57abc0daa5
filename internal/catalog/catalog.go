// Package catalog loads the security control catalog used for mapping.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Control represents a single control policy from the catalog.
type Control struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Extra       []string `json:"-"` // remaining catalog columns, carried through unused
}

// Catalog is an ordered, immutable set of controls. Order follows the
// source table and defines the tie-break order used during ranking.
type Catalog struct {
	controls []Control
	byID     map[string]int
}

// Options configures which catalog columns hold the control id and
// description. Column matching against the header row is case-insensitive.
type Options struct {
	IDColumn          string
	DescriptionColumn string
}

// DefaultOptions matches the standard controls CSV layout.
var DefaultOptions = Options{
	IDColumn:          "id",
	DescriptionColumn: "description",
}

// FormatError describes a malformed or empty catalog source.
type FormatError struct {
	Path   string // source path, empty when parsed from a reader
	Row    int    // 1-based row number, 0 when not row-specific
	Reason string
}

func (e *FormatError) Error() string {
	where := e.Path
	if where == "" {
		where = "catalog"
	}
	if e.Row > 0 {
		return fmt.Sprintf("%s: row %d: %s", where, e.Row, e.Reason)
	}
	return fmt.Sprintf("%s: %s", where, e.Reason)
}

// Load reads a controls CSV file and returns the parsed catalog.
func Load(path string, opts Options) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	cat, err := Parse(f, opts)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	return cat, nil
}

// Parse reads catalog rows from r. The first record is a header row naming
// at least the id and description columns from opts. Duplicate control ids
// are accepted; the last occurrence wins and replaces the earlier row in
// place, keeping the original catalog position.
func Parse(r io.Reader, opts Options) (*Catalog, error) {
	if opts.IDColumn == "" {
		opts.IDColumn = DefaultOptions.IDColumn
	}
	if opts.DescriptionColumn == "" {
		opts.DescriptionColumn = DefaultOptions.DescriptionColumn
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may carry extra columns

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &FormatError{Reason: "empty catalog source"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	idCol, descCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case strings.ToLower(opts.IDColumn):
			idCol = i
		case strings.ToLower(opts.DescriptionColumn):
			descCol = i
		}
	}
	if idCol < 0 {
		return nil, &FormatError{Row: 1, Reason: fmt.Sprintf("missing required column %q", opts.IDColumn)}
	}
	if descCol < 0 {
		return nil, &FormatError{Row: 1, Reason: fmt.Sprintf("missing required column %q", opts.DescriptionColumn)}
	}

	cat := &Catalog{byID: make(map[string]int)}
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, &FormatError{Row: row, Reason: err.Error()}
		}
		if idCol >= len(record) || descCol >= len(record) {
			return nil, &FormatError{Row: row, Reason: "row is missing id or description field"}
		}

		ctrl := Control{
			ID:          strings.TrimSpace(record[idCol]),
			Description: strings.TrimSpace(record[descCol]),
		}
		if ctrl.ID == "" {
			return nil, &FormatError{Row: row, Reason: "empty control id"}
		}
		for i, field := range record {
			if i != idCol && i != descCol {
				ctrl.Extra = append(ctrl.Extra, field)
			}
		}

		if pos, ok := cat.byID[ctrl.ID]; ok {
			// Last occurrence wins, original position kept.
			cat.controls[pos] = ctrl
			continue
		}
		cat.byID[ctrl.ID] = len(cat.controls)
		cat.controls = append(cat.controls, ctrl)
	}

	if len(cat.controls) == 0 {
		return nil, &FormatError{Reason: "catalog has no control rows"}
	}
	return cat, nil
}

// Len returns the number of controls in the catalog.
func (c *Catalog) Len() int {
	return len(c.controls)
}

// Controls returns the controls in catalog order. The returned slice is
// shared; callers must treat it as read-only.
func (c *Catalog) Controls() []Control {
	return c.controls
}

// Get returns the control with the given id.
func (c *Catalog) Get(id string) (Control, bool) {
	pos, ok := c.byID[id]
	if !ok {
		return Control{}, false
	}
	return c.controls[pos], true
}

// Index returns the catalog position of the given control id, or -1.
func (c *Catalog) Index(id string) int {
	pos, ok := c.byID[id]
	if !ok {
		return -1
	}
	return pos
}
