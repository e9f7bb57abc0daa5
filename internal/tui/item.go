package tui

import (
	"fmt"

	"github.com/ethanolivertroy/ctrlmap/internal/enhance"
	"github.com/ethanolivertroy/ctrlmap/internal/mapping"
)

// ControlItem adapts a mapped control for the bubbles list. Assessment
// is nil unless a model assessment pass ran for this control.
type ControlItem struct {
	Entry      mapping.Entry
	Assessment *enhance.Assessment
}

// Title returns the list title line
func (c ControlItem) Title() string {
	return c.Entry.Description
}

// Description returns the list description line
func (c ControlItem) Description() string {
	return fmt.Sprintf("score %.3f | %s", c.Entry.Score, c.Entry.Level)
}

// FilterValue is what the list filters against
func (c ControlItem) FilterValue() string {
	return c.Entry.ControlID + " " + c.Entry.Description
}

// Assessed reports whether a model verdict is attached
func (c ControlItem) Assessed() bool {
	return c.Assessment != nil
}
