package list

import (
	"fmt"
	"testing"
	"time"
)

func tp(t time.Time) *time.Time { return &t }

func TestSweepPartitionInvariant(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	active := []Item{
		{ID: 1, Text: "Milk", Completed: true, CompletedAt: tp(now.Add(-25 * time.Hour))},
		{ID: 2, Text: "Eggs", Completed: true, CompletedAt: tp(now.Add(-2 * time.Hour))},
		{ID: 3, Text: "Bread", Completed: false},
		{ID: 4, Text: "Butter", Completed: true, CompletedAt: tp(now.Add(-48 * time.Hour))},
	}

	res := Sweep(active, nil, now)

	if res.Moved != 2 {
		t.Fatalf("Moved = %d, want 2", res.Moved)
	}
	// Nothing in the active set may still be completed-and-stale.
	cutoff := now.Add(-ArchiveAfter)
	for _, it := range res.Active {
		if it.Completed && it.CompletedAt != nil && it.CompletedAt.Before(cutoff) {
			t.Fatalf("item %d still active after sweep", it.ID)
		}
	}
	if len(res.Active) != 2 {
		t.Fatalf("Active = %d items, want 2", len(res.Active))
	}
	for _, it := range res.Archived {
		if it.ArchivedAt == nil {
			t.Fatalf("archived item %d missing ArchivedAt", it.ID)
		}
		if !it.ArchivedAt.Equal(now) {
			t.Fatalf("archived item %d has ArchivedAt %v, want sweep time", it.ID, it.ArchivedAt)
		}
	}
	// Newest-completed first among the freshly moved.
	if res.Archived[0].ID != 1 || res.Archived[1].ID != 4 {
		t.Fatalf("archive order = [%d %d], want [1 4]", res.Archived[0].ID, res.Archived[1].ID)
	}
}

func TestSweepCapEvictsOldest(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Pre-existing archive already at the cap, newest first.
	var archived []Item
	for i := 0; i < ArchiveCap; i++ {
		ts := now.Add(-time.Duration(i+1) * time.Hour)
		archived = append(archived, Item{ID: int64(100 + i), Text: fmt.Sprintf("old-%d", i), ArchivedAt: &ts})
	}

	active := []Item{
		{ID: 1, Text: "fresh", Completed: true, CompletedAt: tp(now.Add(-30 * time.Hour))},
		{ID: 2, Text: "fresher", Completed: true, CompletedAt: tp(now.Add(-26 * time.Hour))},
	}

	res := Sweep(active, archived, now)

	if len(res.Archived) != ArchiveCap {
		t.Fatalf("archive length = %d, want %d", len(res.Archived), ArchiveCap)
	}
	if res.Evicted != 2 {
		t.Fatalf("Evicted = %d, want 2", res.Evicted)
	}
	// The newly moved items are the newest and must be retained at the front.
	if res.Archived[0].ID != 2 || res.Archived[1].ID != 1 {
		t.Fatalf("front of archive = [%d %d], want [2 1]", res.Archived[0].ID, res.Archived[1].ID)
	}
	// The two oldest pre-existing entries fell off the tail.
	last := res.Archived[len(res.Archived)-1]
	if last.ID != int64(100+ArchiveCap-3) {
		t.Fatalf("tail of archive = %d, want %d", last.ID, 100+ArchiveCap-3)
	}
}

func TestSweepRepeatedStaysBounded(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var archived []Item
	for round := 0; round < 10; round++ {
		var active []Item
		for i := 0; i < 10; i++ {
			active = append(active, Item{
				ID:          int64(round*100 + i),
				Text:        "done",
				Completed:   true,
				CompletedAt: tp(now.Add(-25 * time.Hour)),
			})
		}
		res := Sweep(active, archived, now.Add(time.Duration(round)*time.Hour))
		archived = res.Archived
		if len(archived) > ArchiveCap {
			t.Fatalf("round %d: archive grew to %d", round, len(archived))
		}
	}
	if len(archived) != ArchiveCap {
		t.Fatalf("archive = %d, want capped at %d", len(archived), ArchiveCap)
	}
}

func TestSweepNoEligibleItems(t *testing.T) {
	now := time.Now()
	active := []Item{
		{ID: 1, Text: "open"},
		{ID: 2, Text: "recent", Completed: true, CompletedAt: tp(now.Add(-time.Hour))},
	}
	res := Sweep(active, nil, now)
	if res.Moved != 0 || res.Evicted != 0 {
		t.Fatalf("unexpected movement: %+v", res)
	}
	if len(res.Active) != 2 {
		t.Fatalf("active shrank: %d", len(res.Active))
	}
}

func TestItemNormalizeClampsDepth(t *testing.T) {
	it := Item{
		Text: "  top  ",
		SubItems: []Item{
			{Text: "level1", SubItems: []Item{
				{Text: "level2", SubItems: []Item{
					{Text: "level3 too deep"},
				}},
			}},
		},
	}.Normalize()

	if it.Text != "top" {
		t.Fatalf("Text = %q", it.Text)
	}
	if len(it.SubItems) != 1 || len(it.SubItems[0].SubItems) != 1 {
		t.Fatalf("expected two levels of sub-items to survive")
	}
	if len(it.SubItems[0].SubItems[0].SubItems) != 0 {
		t.Fatalf("depth clamp failed")
	}
}

func TestNewItemIDMonotonicEnough(t *testing.T) {
	now := time.Now()
	a := NewItemID(now)
	b := NewItemID(now)
	if a == b {
		t.Fatalf("two ids in the same millisecond collided: %d", a)
	}
}

func TestDisplayTextFallback(t *testing.T) {
	if got := (Item{Text: "  "}).DisplayText(); got != "Untitled" {
		t.Fatalf("DisplayText = %q", got)
	}
}
