package notes

import (
	"github.com/idilsaglam/notes/internal/logger"
	"github.com/idilsaglam/notes/internal/model"
	"go.uber.org/zap"
)

// Every operation below ignores unknown ids: no change, no snapshot, nil error.
// A non-nil error after a change is a persistence failure; the change and its
// snapshot are kept.

// CreateNote appends a new note with one default todo and returns its id.
func (s *Store) CreateNote() (string, error) {
	if !s.loaded {
		return "", ErrNotLoaded
	}
	n := model.NewNote(s.newID)
	s.notes = append(s.notes, n)
	s.log.Debug("note created", zap.String(logger.FieldNoteID, n.ID))
	return n.ID, s.SaveSnapshot()
}

// UpdateNote merges p into the note with id.
func (s *Store) UpdateNote(id string, p model.NotePatch) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	i := model.FindNote(s.notes, id)
	if i < 0 {
		return nil
	}
	p.Apply(&s.notes[i])
	return s.SaveSnapshot()
}

// DeleteNote removes the note with id.
func (s *Store) DeleteNote(id string) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	i := model.FindNote(s.notes, id)
	if i < 0 {
		return nil
	}
	kept := make([]model.Note, 0, len(s.notes)-1)
	kept = append(kept, s.notes[:i]...)
	kept = append(kept, s.notes[i+1:]...)
	s.notes = kept
	s.log.Debug("note deleted", zap.String(logger.FieldNoteID, id))
	return s.SaveSnapshot()
}

// AddTodo appends a default todo to the note with noteID.
func (s *Store) AddTodo(noteID string) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	i := model.FindNote(s.notes, noteID)
	if i < 0 {
		return nil
	}
	s.notes[i].Todos = append(s.notes[i].Todos, model.NewTodo(s.newID()))
	return s.SaveSnapshot()
}

// UpdateTodo merges p into one todo of one note.
func (s *Store) UpdateTodo(noteID, todoID string, p model.TodoPatch) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	i := model.FindNote(s.notes, noteID)
	if i < 0 {
		return nil
	}
	j := s.notes[i].FindTodo(todoID)
	if j < 0 {
		return nil
	}
	p.Apply(&s.notes[i].Todos[j])
	return s.SaveSnapshot()
}

// DeleteTodo removes one todo from one note.
func (s *Store) DeleteTodo(noteID, todoID string) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	i := model.FindNote(s.notes, noteID)
	if i < 0 {
		return nil
	}
	j := s.notes[i].FindTodo(todoID)
	if j < 0 {
		return nil
	}
	todos := s.notes[i].Todos
	kept := make([]model.TodoItem, 0, len(todos)-1)
	kept = append(kept, todos[:j]...)
	kept = append(kept, todos[j+1:]...)
	s.notes[i].Todos = kept
	s.log.Debug("todo deleted",
		zap.String(logger.FieldNoteID, noteID),
		zap.String(logger.FieldTodoID, todoID))
	return s.SaveSnapshot()
}
