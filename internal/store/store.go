// Package store persists the live note collection into a single key-value slot.
package store

import (
	"github.com/bytedance/sonic"
	"github.com/idilsaglam/notes/internal/model"
	"github.com/pkg/errors"
)

// DefaultKey is the slot the collection lives in.
const DefaultKey = "notes"

// KV is a string key-value store with get/set semantics.
type KV interface {
	// Get reports ok=false when key was never set.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Port loads and saves a whole note collection.
type Port interface {
	Load() (notes []model.Note, ok bool, err error)
	Save(notes []model.Note) error
}

// Slot is a Port that keeps the collection as a JSON array under one KV key.
type Slot struct {
	kv  KV
	key string
}

// NewSlot binds key of kv. An empty key means DefaultKey.
func NewSlot(kv KV, key string) *Slot {
	if key == "" {
		key = DefaultKey
	}
	return &Slot{kv: kv, key: key}
}

func (s *Slot) Key() string { return s.key }

// Load returns ok=false when the slot is empty. Unreadable storage yields a
// *PersistenceError, unparsable contents a *CorruptStateError.
func (s *Slot) Load() ([]model.Note, bool, error) {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		return nil, false, &PersistenceError{Op: "load", Key: s.key, Err: err}
	}
	if !ok {
		return nil, false, nil
	}

	notes, err := Decode([]byte(raw))
	if err != nil {
		return nil, false, &CorruptStateError{Key: s.key, Err: err}
	}
	return notes, true, nil
}

// Save overwrites the slot with notes.
func (s *Slot) Save(notes []model.Note) error {
	b, err := Encode(notes)
	if err != nil {
		return &PersistenceError{Op: "save", Key: s.key, Err: err}
	}
	if err := s.kv.Set(s.key, string(b)); err != nil {
		return &PersistenceError{Op: "save", Key: s.key, Err: err}
	}
	return nil
}

// Encode renders notes as a JSON array. Invalid UTF-8 in text is replaced
// with U+FFFD so the slot is always valid JSON.
func Encode(notes []model.Note) ([]byte, error) {
	if notes == nil {
		notes = []model.Note{}
	}
	b, err := sonic.ConfigStd.Marshal(notes)
	if err != nil {
		return nil, errors.Wrap(err, "json marshal")
	}
	return b, nil
}

// Decode parses a JSON array of notes and checks ids are present and unique:
// note ids across the collection, todo ids within each note.
func Decode(b []byte) ([]model.Note, error) {
	var notes []model.Note
	if err := sonic.Unmarshal(b, &notes); err != nil {
		return nil, errors.Wrap(err, "json unmarshal")
	}
	if notes == nil {
		return nil, errors.New("not a note array")
	}

	seen := make(map[string]struct{}, len(notes))
	for i, n := range notes {
		if n.ID == "" {
			return nil, errors.Errorf("note %d has no id", i)
		}
		if _, dup := seen[n.ID]; dup {
			return nil, errors.Errorf("duplicate note id %q", n.ID)
		}
		seen[n.ID] = struct{}{}

		todos := make(map[string]struct{}, len(n.Todos))
		for j, t := range n.Todos {
			if t.ID == "" {
				return nil, errors.Errorf("todo %d of note %q has no id", j, n.ID)
			}
			if _, dup := todos[t.ID]; dup {
				return nil, errors.Errorf("duplicate todo id %q in note %q", t.ID, n.ID)
			}
			todos[t.ID] = struct{}{}
		}
	}
	model.Normalize(notes)
	return notes, nil
}
