package list

import (
	"sort"
	"time"
)

const (
	// ArchiveAfter is how long a completed item stays in the active list
	// before the sweep moves it to the local archive.
	ArchiveAfter = 24 * time.Hour

	// ArchiveCap bounds the archived collection. When a sweep pushes it past
	// the cap, the oldest archived entries are evicted (newest-first FIFO).
	ArchiveCap = 50

	// SweepInterval is the cadence each list widget runs its own sweep at.
	SweepInterval = time.Hour
)

// SweepResult is the outcome of one archive sweep.
type SweepResult struct {
	Active   []Item
	Archived []Item
	Moved    int
	Evicted  int
}

// Sweep partitions active into items that stay and items whose completion is
// older than ArchiveAfter. Moved items get ArchivedAt stamped with now and are
// prepended to archived (newest first); the combined archive is then capped at
// ArchiveCap, evicting from the tail.
//
// The invariant on return: no item in Active is both completed and older than
// the cutoff, every item in Archived carries ArchivedAt, and the two sets are
// disjoint.
func Sweep(active, archived []Item, now time.Time) SweepResult {
	cutoff := now.Add(-ArchiveAfter)

	var keep []Item
	var moved []Item
	for _, it := range active {
		if it.Completed && it.CompletedAt != nil && it.CompletedAt.Before(cutoff) {
			ts := now
			it.ArchivedAt = &ts
			moved = append(moved, it)
			continue
		}
		keep = append(keep, it)
	}

	// Newest archived first. Freshly moved items sort among themselves by
	// completion time (most recently completed first) ahead of the old set,
	// which is already newest-first from previous sweeps.
	sort.SliceStable(moved, func(i, j int) bool {
		return moved[i].CompletedAt.After(*moved[j].CompletedAt)
	})

	merged := make([]Item, 0, len(moved)+len(archived))
	merged = append(merged, moved...)
	merged = append(merged, archived...)

	evicted := 0
	if len(merged) > ArchiveCap {
		evicted = len(merged) - ArchiveCap
		merged = merged[:ArchiveCap]
	}

	return SweepResult{
		Active:   keep,
		Archived: merged,
		Moved:    len(moved),
		Evicted:  evicted,
	}
}
