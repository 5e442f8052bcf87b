package model

import (
	"time"

	"github.com/google/uuid"
)

// Default texts for freshly created entities.
const (
	DefaultNoteTitle = "Новая заметка"
	DefaultTodoText  = "Новый пункт"

	WelcomeTitle     = "Добро пожаловать!"
	WelcomeFirstTodo = "Отметьте этот пункт"
	WelcomeNextTodo  = "Создайте свою заметку"
)

// TodoItem is one checkable line inside a note.
type TodoItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Note owns its todos exclusively; two notes never share a slice.
type Note struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Todos []TodoItem `json:"todos"`

	// IsCreatedInSession marks notes created since the process started.
	// Snapshots keep it, storage drops it.
	IsCreatedInSession bool `json:"-"`
}

// Snapshot is an immutable copy of the whole collection.
type Snapshot struct {
	Notes     []Note
	Timestamp time.Time
}

// NewID returns a random UUIDv4 string.
func NewID() string {
	return uuid.NewString()
}

// NewTodo builds an unchecked item with the default text.
func NewTodo(id string) TodoItem {
	return TodoItem{ID: id, Text: DefaultTodoText}
}

// NewNote builds a session note holding one default todo.
func NewNote(newID func() string) Note {
	return Note{
		ID:                 newID(),
		Title:              DefaultNoteTitle,
		Todos:              []TodoItem{NewTodo(newID())},
		IsCreatedInSession: true,
	}
}

// WelcomeNotes is the seed used when nothing usable is stored.
func WelcomeNotes(newID func() string) []Note {
	return []Note{{
		ID:    newID(),
		Title: WelcomeTitle,
		Todos: []TodoItem{
			{ID: newID(), Text: WelcomeFirstTodo},
			{ID: newID(), Text: WelcomeNextTodo},
		},
	}}
}

// FindNote returns the index of the note with id, or -1.
func FindNote(notes []Note, id string) int {
	for i := range notes {
		if notes[i].ID == id {
			return i
		}
	}
	return -1
}

// FindTodo returns the index of the todo with id, or -1.
func (n *Note) FindTodo(id string) int {
	for i := range n.Todos {
		if n.Todos[i].ID == id {
			return i
		}
	}
	return -1
}

// Stats counts completed and pending todos.
func (n Note) Stats() (done, pending int) {
	for _, t := range n.Todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// CountTodos sums todos over the collection.
func CountTodos(notes []Note) int {
	total := 0
	for _, n := range notes {
		total += len(n.Todos)
	}
	return total
}
