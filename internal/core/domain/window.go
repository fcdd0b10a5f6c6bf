package domain

import "time"

// WindowEntry is one retained delivery event used for duplicate detection.
type WindowEntry struct {
	SourceID string    `json:"source_id"`
	Time     time.Time `json:"time"`
}

// RecentWindow is a fixed-capacity ring buffer of the most recent delivery
// events of one kind on one campaign. Once full, recording a new entry
// evicts the oldest. Duplicate detection is a linear scan of the retained
// entries, which is sufficient at the window sizes used here.
type RecentWindow struct {
	entries []WindowEntry
	head    int // index of the oldest entry
	size    int
}

// NewRecentWindow returns an empty window retaining at most capacity entries.
func NewRecentWindow(capacity int) RecentWindow {
	return RecentWindow{entries: make([]WindowEntry, capacity)}
}

// RestoreWindow rebuilds a window of the given capacity from persisted
// entries, ordered oldest first. Entries beyond the capacity are dropped
// oldest first, matching eviction order.
func RestoreWindow(capacity int, entries []WindowEntry) RecentWindow {
	w := NewRecentWindow(capacity)
	if over := len(entries) - capacity; over > 0 {
		entries = entries[over:]
	}
	for _, e := range entries {
		w.Record(e.SourceID, e.Time)
	}
	return w
}

// Seen reports whether the window holds an entry for sourceID newer than
// now minus cooldown. The caller supplies the clock; the window keeps no
// clock state of its own.
func (w *RecentWindow) Seen(sourceID string, now time.Time, cooldown time.Duration) bool {
	for i := 0; i < w.size; i++ {
		e := w.entries[(w.head+i)%len(w.entries)]
		if e.SourceID == sourceID && now.Sub(e.Time) < cooldown {
			return true
		}
	}
	return false
}

// Record appends (sourceID, now), evicting the oldest entry when full.
func (w *RecentWindow) Record(sourceID string, now time.Time) {
	if len(w.entries) == 0 {
		return
	}
	tail := (w.head + w.size) % len(w.entries)
	w.entries[tail] = WindowEntry{SourceID: sourceID, Time: now}
	if w.size < len(w.entries) {
		w.size++
	} else {
		w.head = (w.head + 1) % len(w.entries)
	}
}

// Len returns the number of retained entries.
func (w *RecentWindow) Len() int { return w.size }

// Entries returns the retained entries ordered oldest first. The slice is a
// copy; mutating it does not affect the window.
func (w *RecentWindow) Entries() []WindowEntry {
	out := make([]WindowEntry, 0, w.size)
	for i := 0; i < w.size; i++ {
		out = append(out, w.entries[(w.head+i)%len(w.entries)])
	}
	return out
}
