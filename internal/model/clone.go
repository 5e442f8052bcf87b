package model

import (
	"github.com/jinzhu/copier"
)

var deepCopy = copier.Option{DeepCopy: true}

// Clone returns a structural deep copy of notes. The result shares no memory
// with the input and every Todos slice in it is non-nil.
func Clone(notes []Note) []Note {
	out := make([]Note, 0, len(notes))
	if len(notes) == 0 {
		return out
	}
	if err := copier.CopyWithOption(&out, notes, deepCopy); err != nil {
		// copier only fails on mismatched kinds; fall back to a manual walk
		out = out[:0]
		for _, n := range notes {
			n.Todos = cloneTodos(n.Todos)
			out = append(out, n)
		}
	}
	Normalize(out)
	return out
}

// CloneNote deep-copies a single note.
func CloneNote(n Note) Note {
	n.Todos = cloneTodos(n.Todos)
	return n
}

// Normalize replaces nil todo slices with empty ones in place.
func Normalize(notes []Note) {
	for i := range notes {
		if notes[i].Todos == nil {
			notes[i].Todos = []TodoItem{}
		}
	}
}

func cloneTodos(todos []TodoItem) []TodoItem {
	out := make([]TodoItem, len(todos))
	copy(out, todos)
	return out
}
