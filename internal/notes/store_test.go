package notes

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/idilsaglam/notes/internal/model"
	"github.com/idilsaglam/notes/internal/store"
	"github.com/idilsaglam/notes/internal/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fixedClock() func() time.Time {
	t := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// newEmptyStore returns a loaded store whose first snapshot is an empty collection.
func newEmptyStore(t *testing.T) (*Store, *memstore.Store) {
	t.Helper()
	kv := memstore.New()
	require.NoError(t, kv.Set(store.DefaultKey, "[]"))
	s := New(store.NewSlot(kv, ""), WithIDGenerator(seqIDs()), WithClock(fixedClock()))
	require.NoError(t, s.Load())
	return s, kv
}

func persisted(t *testing.T, kv *memstore.Store) []model.Note {
	t.Helper()
	notes, ok, err := store.NewSlot(kv, "").Load()
	require.NoError(t, err)
	require.True(t, ok)
	return notes
}

// stripSession drops the session flag the way storage does.
func stripSession(notes []model.Note) []model.Note {
	out := model.Clone(notes)
	for i := range out {
		out[i].IsCreatedInSession = false
	}
	return out
}

func assertConsistent(t *testing.T, s *Store) {
	t.Helper()
	snap, ok := s.Snapshot(s.HistoryIndex())
	require.True(t, ok)
	assert.Equal(t, s.Notes(), snap.Notes)
}

type failingPort struct {
	loadNotes []model.Note
	loadOK    bool
	loadErr   error
	saveErr   error
	saves     int
}

func (p *failingPort) Load() ([]model.Note, bool, error) { return p.loadNotes, p.loadOK, p.loadErr }
func (p *failingPort) Save([]model.Note) error {
	p.saves++
	return p.saveErr
}

func TestLoad_SeedsWelcomeNote(t *testing.T) {
	kv := memstore.New()
	s := New(store.NewSlot(kv, ""), WithIDGenerator(seqIDs()))
	require.NoError(t, s.Load())

	notes := s.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, model.WelcomeTitle, notes[0].Title)
	require.Len(t, notes[0].Todos, 2)
	assert.Equal(t, model.WelcomeFirstTodo, notes[0].Todos[0].Text)
	assert.Equal(t, model.WelcomeNextTodo, notes[0].Todos[1].Text)

	assert.Equal(t, 0, s.HistoryIndex())
	assert.Equal(t, 1, s.HistoryLen())
	assert.Equal(t, notes, persisted(t, kv))
}

func TestLoad_FromStorage(t *testing.T) {
	kv := memstore.New()
	require.NoError(t, kv.Set("notes", `[{"id":"a","title":"Saved","todos":[{"id":"t","text":"x","completed":true}]}]`))

	s := New(store.NewSlot(kv, ""))
	require.NoError(t, s.Load())

	assert.Equal(t, []model.Note{{
		ID: "a", Title: "Saved",
		Todos: []model.TodoItem{{ID: "t", Text: "x", Completed: true}},
	}}, s.Notes())
	assert.Equal(t, 0, s.HistoryIndex())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}

func TestLoad_CorruptFallsBackToSeed(t *testing.T) {
	kv := memstore.New()
	require.NoError(t, kv.Set("notes", "{not json"))

	s := New(store.NewSlot(kv, ""), WithIDGenerator(seqIDs()))
	err := s.Load()

	var corrupt *store.CorruptStateError
	require.True(t, stderrors.As(err, &corrupt))
	assert.True(t, s.Loaded())
	require.Len(t, s.Notes(), 1)
	assert.Equal(t, model.WelcomeTitle, s.Notes()[0].Title)
	assert.Equal(t, 0, s.HistoryIndex())

	// The seed replaced the corrupt slot.
	assert.Equal(t, s.Notes(), persisted(t, kv))
}

func TestLoad_ReadFailureKeepsSlot(t *testing.T) {
	port := &failingPort{loadErr: &store.PersistenceError{Op: "load", Key: "notes", Err: stderrors.New("denied")}}
	s := New(port, WithIDGenerator(seqIDs()))

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	err := s.Load()
	var pe *store.PersistenceError
	require.True(t, stderrors.As(err, &pe))
	assert.Equal(t, "load", pe.Op)
	assert.True(t, s.Detached())
	assert.Len(t, s.Notes(), 1)
	assert.Equal(t, 1, s.HistoryLen())
	assert.Equal(t, 0, port.saves)
	require.Len(t, events, 1)
	assert.NoError(t, events[0].Err)

	// Later changes stay in memory and report that they were not saved.
	id, err := s.CreateNote()
	assert.ErrorIs(t, err, ErrDetached)
	assert.NotEmpty(t, id)
	assert.Len(t, s.Notes(), 2)
	assert.ErrorIs(t, s.Undo(), ErrDetached)
	assert.Len(t, s.Notes(), 1)
	assert.Equal(t, 0, port.saves)
	assert.ErrorIs(t, events[len(events)-1].Err, ErrDetached)
}

func TestLoad_ReadFailureDoesNotOverwriteStoredNotes(t *testing.T) {
	kv := &unreadableKV{Store: memstore.New()}
	stored := `[{"id":"u1","title":"kept","todos":[]}]`
	require.NoError(t, kv.Store.Set(store.DefaultKey, stored))

	s := New(store.NewSlot(kv, ""), WithIDGenerator(seqIDs()))
	require.Error(t, s.Load())
	_, err := s.CreateNote()
	require.ErrorIs(t, err, ErrDetached)

	raw, ok, err := kv.Store.Get(store.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stored, raw)
	assert.Zero(t, kv.sets)
}

// unreadableKV fails every read but would accept writes.
type unreadableKV struct {
	*memstore.Store
	sets int
}

func (kv *unreadableKV) Get(string) (string, bool, error) {
	return "", false, stderrors.New("permission denied")
}

func (kv *unreadableKV) Set(key, value string) error {
	kv.sets++
	return kv.Store.Set(key, value)
}

func TestLoad_Twice(t *testing.T) {
	s, _ := newEmptyStore(t)
	assert.ErrorIs(t, s.Load(), ErrAlreadyLoaded)
	assert.Equal(t, 1, s.HistoryLen())
}

func TestNotLoaded(t *testing.T) {
	s := New(store.NewSlot(memstore.New(), ""))

	id, err := s.CreateNote()
	assert.Empty(t, id)
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, s.UpdateNote("x", model.Title("t")), ErrNotLoaded)
	assert.ErrorIs(t, s.DeleteNote("x"), ErrNotLoaded)
	assert.ErrorIs(t, s.AddTodo("x"), ErrNotLoaded)
	assert.ErrorIs(t, s.UpdateTodo("x", "y", model.Completed(true)), ErrNotLoaded)
	assert.ErrorIs(t, s.DeleteTodo("x", "y"), ErrNotLoaded)
	assert.ErrorIs(t, s.SaveSnapshot(), ErrNotLoaded)
	assert.ErrorIs(t, s.Undo(), ErrNotLoaded)
	assert.ErrorIs(t, s.Redo(), ErrNotLoaded)
	assert.Equal(t, -1, s.HistoryIndex())
}

func TestScenario_CreateRenameUndo(t *testing.T) {
	s, kv := newEmptyStore(t)

	a, err := s.CreateNote()
	require.NoError(t, err)
	notes := s.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, a, notes[0].ID)
	assert.Equal(t, model.DefaultNoteTitle, notes[0].Title)
	assert.True(t, notes[0].IsCreatedInSession)
	require.Len(t, notes[0].Todos, 1)
	assert.Equal(t, model.DefaultTodoText, notes[0].Todos[0].Text)
	assert.False(t, notes[0].Todos[0].Completed)

	require.NoError(t, s.UpdateNote(a, model.Title("X")))
	n, ok := s.Note(a)
	require.True(t, ok)
	assert.Equal(t, "X", n.Title)
	assert.Equal(t, stripSession(s.Notes()), persisted(t, kv))

	require.NoError(t, s.Undo())
	n, _ = s.Note(a)
	assert.Equal(t, model.DefaultNoteTitle, n.Title)
	assert.True(t, n.IsCreatedInSession, "snapshots keep the session flag")
	assert.Equal(t, stripSession(s.Notes()), persisted(t, kv))

	require.NoError(t, s.Undo())
	assert.Empty(t, s.Notes())
	assert.Equal(t, 0, s.HistoryIndex())
	assert.Empty(t, persisted(t, kv))
}

func TestScenario_TodoAddDeleteUndo(t *testing.T) {
	s, _ := newEmptyStore(t)

	a, err := s.CreateNote()
	require.NoError(t, err)
	n, _ := s.Note(a)
	todo1 := n.Todos[0].ID

	require.NoError(t, s.AddTodo(a))
	n, _ = s.Note(a)
	require.Len(t, n.Todos, 2)
	added := n.Todos[1].ID

	require.NoError(t, s.DeleteTodo(a, todo1))
	n, _ = s.Note(a)
	require.Len(t, n.Todos, 1)
	assert.Equal(t, added, n.Todos[0].ID)

	require.NoError(t, s.Undo())
	n, _ = s.Note(a)
	assert.Len(t, n.Todos, 2)

	require.NoError(t, s.Undo())
	n, _ = s.Note(a)
	require.Len(t, n.Todos, 1)
	assert.Equal(t, todo1, n.Todos[0].ID)
}

func TestUpdateTodo(t *testing.T) {
	s, _ := newEmptyStore(t)
	a, _ := s.CreateNote()
	n, _ := s.Note(a)
	tid := n.Todos[0].ID

	require.NoError(t, s.UpdateTodo(a, tid, model.Completed(true)))
	require.NoError(t, s.UpdateTodo(a, tid, model.Text("milk")))

	n, _ = s.Note(a)
	assert.Equal(t, model.TodoItem{ID: tid, Text: "milk", Completed: true}, n.Todos[0])
	assert.Equal(t, 3, s.HistoryIndex())
	assertConsistent(t, s)
}

func TestUpdateNote_TodosPatchIsCopied(t *testing.T) {
	s, _ := newEmptyStore(t)
	a, _ := s.CreateNote()

	todos := []model.TodoItem{{ID: "x", Text: "one"}}
	require.NoError(t, s.UpdateNote(a, model.NotePatch{Todos: todos}))
	todos[0].Text = "changed by caller"

	n, _ := s.Note(a)
	assert.Equal(t, "one", n.Todos[0].Text)
	assertConsistent(t, s)
}

func TestNotFoundIsIgnored(t *testing.T) {
	s, kv := newEmptyStore(t)
	a, _ := s.CreateNote()
	before := s.Notes()
	idx, length := s.HistoryIndex(), s.HistoryLen()

	events := 0
	defer s.Subscribe(func(Event) { events++ })()

	assert.NoError(t, s.UpdateNote("nope", model.Title("x")))
	assert.NoError(t, s.DeleteNote("nope"))
	assert.NoError(t, s.AddTodo("nope"))
	assert.NoError(t, s.UpdateTodo("nope", "x", model.Completed(true)))
	assert.NoError(t, s.UpdateTodo(a, "nope", model.Completed(true)))
	assert.NoError(t, s.DeleteTodo("nope", "x"))
	assert.NoError(t, s.DeleteTodo(a, "nope"))

	assert.Equal(t, before, s.Notes())
	assert.Equal(t, idx, s.HistoryIndex())
	assert.Equal(t, length, s.HistoryLen())
	assert.Equal(t, 0, events)
	assert.Equal(t, stripSession(before), persisted(t, kv))
}

func TestDeleteNote(t *testing.T) {
	s, _ := newEmptyStore(t)
	a, _ := s.CreateNote()
	b, _ := s.CreateNote()
	c, _ := s.CreateNote()

	require.NoError(t, s.DeleteNote(b))
	notes := s.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, a, notes[0].ID)
	assert.Equal(t, c, notes[1].ID)

	require.NoError(t, s.Undo())
	notes = s.Notes()
	require.Len(t, notes, 3)
	assert.Equal(t, []string{a, b, c}, []string{notes[0].ID, notes[1].ID, notes[2].ID})
}

func TestUndoRedoBounds(t *testing.T) {
	s, _ := newEmptyStore(t)
	a, _ := s.CreateNote()
	require.NoError(t, s.UpdateNote(a, model.Title("X")))

	// redo at tip
	before := s.Notes()
	require.NoError(t, s.Redo())
	assert.Equal(t, before, s.Notes())
	assert.Equal(t, 2, s.HistoryIndex())

	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo()) // already at 0
	assert.Equal(t, 0, s.HistoryIndex())
	assert.Empty(t, s.Notes())

	require.NoError(t, s.Redo())
	require.NoError(t, s.Redo())
	n, _ := s.Note(a)
	assert.Equal(t, "X", n.Title)
}

func TestTruncationAfterUndo(t *testing.T) {
	s, _ := newEmptyStore(t)
	a, _ := s.CreateNote()
	require.NoError(t, s.UpdateNote(a, model.Title("one")))
	require.NoError(t, s.UpdateNote(a, model.Title("two")))

	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo())
	require.NoError(t, s.UpdateNote(a, model.Title("branch")))

	assert.False(t, s.CanRedo())
	assert.Equal(t, 3, s.HistoryLen())
	require.NoError(t, s.Redo())
	n, _ := s.Note(a)
	assert.Equal(t, "branch", n.Title)

	for i := 0; i < s.HistoryLen(); i++ {
		snap, _ := s.Snapshot(i)
		for _, note := range snap.Notes {
			assert.NotEqual(t, "one", note.Title)
			assert.NotEqual(t, "two", note.Title)
		}
	}
}

func TestReadsAreCopies(t *testing.T) {
	s, _ := newEmptyStore(t)
	a, _ := s.CreateNote()

	notes := s.Notes()
	notes[0].Title = "hacked"
	notes[0].Todos[0].Completed = true

	n, _ := s.Note(a)
	n.Todos[0].Text = "hacked too"

	fresh, _ := s.Note(a)
	assert.Equal(t, model.DefaultNoteTitle, fresh.Title)
	assert.Equal(t, model.DefaultTodoText, fresh.Todos[0].Text)
	assert.False(t, fresh.Todos[0].Completed)
	assertConsistent(t, s)
}

func TestPersistenceFailureDegrades(t *testing.T) {
	port := &failingPort{loadOK: true, loadNotes: []model.Note{}}
	s := New(port, WithIDGenerator(seqIDs()))
	require.NoError(t, s.Load())

	var got []Event
	s.Subscribe(func(e Event) { got = append(got, e) })

	port.saveErr = &store.PersistenceError{Op: "save", Key: "notes", Err: stderrors.New("quota exceeded")}

	id, err := s.CreateNote()
	var pe *store.PersistenceError
	require.True(t, stderrors.As(err, &pe))
	assert.NotEmpty(t, id, "the note is still created in memory")
	assert.Len(t, s.Notes(), 1)
	assert.Equal(t, 1, s.HistoryIndex())

	require.Error(t, s.Undo())
	assert.Empty(t, s.Notes())

	port.saveErr = nil
	require.NoError(t, s.Redo())
	assert.Len(t, s.Notes(), 1)

	require.Len(t, got, 3)
	assert.Equal(t, EventRecorded, got[0].Kind)
	assert.Error(t, got[0].Err)
	assert.Equal(t, EventUndone, got[1].Kind)
	assert.Error(t, got[1].Err)
	assert.Equal(t, EventRedone, got[2].Kind)
	assert.NoError(t, got[2].Err)
}

func TestSubscribe(t *testing.T) {
	kv := memstore.New()
	s := New(store.NewSlot(kv, ""), WithIDGenerator(seqIDs()))

	var order []string
	var events []Event
	unsubA := s.Subscribe(func(e Event) {
		order = append(order, "a")
		events = append(events, e)
	})
	s.Subscribe(func(Event) { order = append(order, "b") })

	require.NoError(t, s.Load())
	a, _ := s.CreateNote()
	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo()) // no-op, no event
	require.NoError(t, s.Redo())

	assert.Equal(t, []string{"a", "b", "a", "b", "a", "b", "a", "b"}, order)
	require.Len(t, events, 4)
	assert.Equal(t, Event{Kind: EventLoaded, HistoryIndex: 0, HistoryLen: 1}, events[0])
	assert.Equal(t, Event{Kind: EventRecorded, HistoryIndex: 1, HistoryLen: 2}, events[1])
	assert.Equal(t, Event{Kind: EventUndone, HistoryIndex: 0, HistoryLen: 2}, events[2])
	assert.Equal(t, Event{Kind: EventRedone, HistoryIndex: 1, HistoryLen: 2}, events[3])

	unsubA()
	require.NoError(t, s.DeleteNote(a))
	assert.Len(t, events, 4)
	assert.Equal(t, "b", order[len(order)-1])
}

func TestHistoryLimit(t *testing.T) {
	kv := memstore.New()
	s := New(store.NewSlot(kv, ""), WithIDGenerator(seqIDs()), WithHistoryLimit(3))
	require.NoError(t, s.Load())

	for i := 0; i < 5; i++ {
		_, err := s.CreateNote()
		require.NoError(t, err)
	}
	assert.Equal(t, 3, s.HistoryLen())
	assert.Equal(t, 2, s.HistoryIndex())

	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo())
	assert.Equal(t, 0, s.HistoryIndex())
	assert.Len(t, s.Notes(), 4) // welcome + 3 created
}

func TestHistoryEntries(t *testing.T) {
	s, _ := newEmptyStore(t)
	_, _ = s.CreateNote()
	require.NoError(t, s.Undo())

	entries := s.History()
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Current)
	assert.False(t, entries[1].Current)
	assert.Equal(t, 1, entries[1].Notes)
	assert.Equal(t, 1, entries[1].Todos)
	assert.True(t, entries[1].Timestamp.After(entries[0].Timestamp))
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "loaded", EventLoaded.String())
	assert.Equal(t, "recorded", EventRecorded.String())
	assert.Equal(t, "undone", EventUndone.String())
	assert.Equal(t, "redone", EventRedone.String())
	assert.Equal(t, "unknown", EventKind(42).String())
}
