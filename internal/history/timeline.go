// Package history keeps a linear undo/redo timeline of whole-collection snapshots.
//
// Each snapshot is a full deep copy of the collection. Restoring always hands
// out a fresh copy, so later edits to live state never reach stored history.
package history

import (
	"time"

	"github.com/idilsaglam/notes/internal/model"
)

// Timeline is a list of snapshots plus a cursor at the one matching live state.
// The zero value is an empty timeline with the cursor at -1.
type Timeline struct {
	snapshots []model.Snapshot
	index     int
	limit     int
}

// Entry summarises one snapshot for display.
type Entry struct {
	Index     int
	Timestamp time.Time
	Notes     int
	Todos     int
	Current   bool
}

// New returns an empty timeline. A positive limit caps how many snapshots are
// kept; the oldest go first.
func New(limit int) *Timeline {
	if limit < 0 {
		limit = 0
	}
	return &Timeline{index: -1, limit: limit}
}

// Record drops any redo future, appends a copy of notes and moves the cursor
// to the new tip.
func (t *Timeline) Record(notes []model.Note, at time.Time) {
	if t.index < len(t.snapshots)-1 {
		t.snapshots = t.snapshots[:t.index+1]
	}
	t.snapshots = append(t.snapshots, model.Snapshot{
		Notes:     model.Clone(notes),
		Timestamp: at,
	})
	if t.limit > 0 && len(t.snapshots) > t.limit {
		drop := len(t.snapshots) - t.limit
		kept := make([]model.Snapshot, t.limit)
		copy(kept, t.snapshots[drop:])
		t.snapshots = kept
	}
	t.index = len(t.snapshots) - 1
}

// Undo steps the cursor back and returns a copy of the snapshot there.
// It reports false and changes nothing at the earliest position.
func (t *Timeline) Undo() ([]model.Note, bool) {
	if !t.CanUndo() {
		return nil, false
	}
	t.index--
	return model.Clone(t.snapshots[t.index].Notes), true
}

// Redo steps the cursor forward and returns a copy of the snapshot there.
// It reports false and changes nothing at the tip.
func (t *Timeline) Redo() ([]model.Note, bool) {
	if !t.CanRedo() {
		return nil, false
	}
	t.index++
	return model.Clone(t.snapshots[t.index].Notes), true
}

func (t *Timeline) CanUndo() bool { return t.index > 0 }

func (t *Timeline) CanRedo() bool { return t.index < len(t.snapshots)-1 }

// Index is the cursor, -1 before the first Record.
func (t *Timeline) Index() int { return t.index }

func (t *Timeline) Len() int { return len(t.snapshots) }

// At returns a copy of snapshot i.
func (t *Timeline) At(i int) (model.Snapshot, bool) {
	if i < 0 || i >= len(t.snapshots) {
		return model.Snapshot{}, false
	}
	s := t.snapshots[i]
	return model.Snapshot{Notes: model.Clone(s.Notes), Timestamp: s.Timestamp}, true
}

// Current returns a copy of the snapshot under the cursor.
func (t *Timeline) Current() (model.Snapshot, bool) {
	return t.At(t.index)
}

// Entries lists every snapshot oldest first.
func (t *Timeline) Entries() []Entry {
	out := make([]Entry, 0, len(t.snapshots))
	for i, s := range t.snapshots {
		out = append(out, Entry{
			Index:     i,
			Timestamp: s.Timestamp,
			Notes:     len(s.Notes),
			Todos:     model.CountTodos(s.Notes),
			Current:   i == t.index,
		})
	}
	return out
}
