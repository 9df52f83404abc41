// Package list holds the item model shared by the list-style widgets
// (tasks, shopping, personal, bucket, reminders, projects, dynamic lists)
// and the archive sweep that ages completed items out of the active set.
package list

import (
	"strings"
	"sync/atomic"
	"time"
)

// MaxSubItemDepth bounds sub-item nesting. Deeper payloads are truncated on
// normalization rather than rejected.
const MaxSubItemDepth = 3

// Item is one entry in a list widget.
//
// IDs are client-generated from the wall clock, matching what the backend
// expects. They are unique enough within one device's session but NOT
// guaranteed globally unique across devices; the backend treats them as
// opaque.
type Item struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	ArchivedAt  *time.Time `json:"archivedAt,omitempty"`
	SubItems    []Item     `json:"sub_items,omitempty"`
}

var idCounter atomic.Int64

// NewItemID generates a timestamp-derived item id. A monotonic counter is
// mixed into the low bits so two adds within the same millisecond still get
// distinct ids on this device.
func NewItemID(now time.Time) int64 {
	return now.UnixMilli()*1000 + idCounter.Add(1)%1000
}

// Normalize trims text and clamps sub-item depth.
func (it Item) Normalize() Item {
	it.Text = strings.TrimSpace(it.Text)
	it.SubItems = clampDepth(it.SubItems, MaxSubItemDepth-1)
	return it
}

func clampDepth(items []Item, remaining int) []Item {
	if len(items) == 0 {
		return nil
	}
	if remaining <= 0 {
		return nil
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		it.Text = strings.TrimSpace(it.Text)
		it.SubItems = clampDepth(it.SubItems, remaining-1)
		out = append(out, it)
	}
	return out
}

// DisplayText is what the widgets render for an item; empty text gets the
// same fallback the old dashboard used instead of failing the render.
func (it Item) DisplayText() string {
	if strings.TrimSpace(it.Text) == "" {
		return "Untitled"
	}
	return it.Text
}
