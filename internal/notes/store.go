// Package notes holds the live note collection and its undo/redo history.
//
// A Store is the single owner of application state. Every mutating operation
// changes the live collection, records a snapshot and persists; Undo and Redo
// restore a snapshot and persist. The UI reads through copies and learns about
// changes by subscribing.
package notes

import (
	stderrors "errors"
	"time"

	"github.com/idilsaglam/notes/internal/history"
	"github.com/idilsaglam/notes/internal/logger"
	"github.com/idilsaglam/notes/internal/model"
	"github.com/idilsaglam/notes/internal/store"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrNotLoaded     = errors.New("notes: store not loaded")
	ErrAlreadyLoaded = errors.New("notes: store already loaded")
	// ErrDetached is returned instead of saving once the slot could not be
	// read: writing would replace notes that were never loaded.
	ErrDetached = errors.New("notes: storage unreadable, changes kept in memory only")
)

// EventKind says which operation settled the state.
type EventKind int

const (
	EventLoaded EventKind = iota
	EventRecorded
	EventUndone
	EventRedone
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventRecorded:
		return "recorded"
	case EventUndone:
		return "undone"
	case EventRedone:
		return "redone"
	}
	return "unknown"
}

// Event is delivered to subscribers after each state-settling operation.
type Event struct {
	Kind         EventKind
	HistoryIndex int
	HistoryLen   int
	// Err is the persistence failure of this operation, if any.
	Err error
}

type Option func(*Store)

func WithLogger(lg *zap.Logger) Option {
	return func(s *Store) {
		if lg != nil {
			s.log = lg
		}
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithHistoryLimit caps the number of snapshots kept; 0 keeps all.
func WithHistoryLimit(n int) Option {
	return func(s *Store) { s.limit = n }
}

// Store is not safe for concurrent use; callers drive it from one goroutine.
type Store struct {
	port  store.Port
	log   *zap.Logger
	newID func() string
	now   func() time.Time
	limit int

	notes    []model.Note
	timeline *history.Timeline
	loaded   bool
	detached bool

	subs   map[int]func(Event)
	subSeq int
}

func New(port store.Port, opts ...Option) *Store {
	s := &Store{
		port:  port,
		log:   zap.NewNop(),
		newID: model.NewID,
		now:   time.Now,
		notes: []model.Note{},
		subs:  make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.timeline = history.New(s.limit)
	return s
}

// Load reads the persisted collection, or seeds the welcome note when there is
// none or it cannot be used, and records the first snapshot. It must run once,
// before anything else. Corrupt data is replaced by the seed. Any other read
// failure detaches the store: it keeps working in memory and never writes the
// slot. Either error is returned after the seed has been applied, so the store
// is usable either way.
func (s *Store) Load() error {
	if s.loaded {
		return ErrAlreadyLoaded
	}

	saved, ok, loadErr := s.port.Load()
	var corrupt *store.CorruptStateError
	switch {
	case loadErr != nil && stderrors.As(loadErr, &corrupt):
		s.log.Warn("stored notes corrupt, replacing with welcome note", zap.Error(loadErr))
		s.notes = model.WelcomeNotes(s.newID)
	case loadErr != nil:
		s.log.Warn("stored notes unreadable, working in memory only", zap.Error(loadErr))
		s.notes = model.WelcomeNotes(s.newID)
		s.detached = true
	case ok:
		s.notes = saved
		model.Normalize(s.notes)
	default:
		s.notes = model.WelcomeNotes(s.newID)
	}
	s.loaded = true

	var saveErr error
	if s.detached {
		s.timeline.Record(s.notes, s.now())
	} else {
		saveErr = s.record()
	}
	s.log.Debug("notes loaded",
		zap.Int(logger.FieldNotes, len(s.notes)),
		zap.Bool("fromStorage", ok))
	s.emit(EventLoaded, saveErr)

	if loadErr != nil {
		return loadErr
	}
	return saveErr
}

// SaveSnapshot records the current live collection as the new tip of history
// and persists it.
func (s *Store) SaveSnapshot() error {
	if !s.loaded {
		return ErrNotLoaded
	}
	err := s.record()
	s.emit(EventRecorded, err)
	return err
}

func (s *Store) record() error {
	s.timeline.Record(s.notes, s.now())
	s.log.Debug("snapshot recorded",
		zap.Int(logger.FieldIndex, s.timeline.Index()),
		zap.Int(logger.FieldLen, s.timeline.Len()))
	return s.persist("record")
}

// Undo restores the previous snapshot. At the earliest snapshot it does nothing.
func (s *Store) Undo() error {
	if !s.loaded {
		return ErrNotLoaded
	}
	notes, ok := s.timeline.Undo()
	if !ok {
		return nil
	}
	s.notes = notes
	s.log.Debug("undo", zap.Int(logger.FieldIndex, s.timeline.Index()))
	err := s.persist("undo")
	s.emit(EventUndone, err)
	return err
}

// Redo restores the next snapshot. At the tip it does nothing.
func (s *Store) Redo() error {
	if !s.loaded {
		return ErrNotLoaded
	}
	notes, ok := s.timeline.Redo()
	if !ok {
		return nil
	}
	s.notes = notes
	s.log.Debug("redo", zap.Int(logger.FieldIndex, s.timeline.Index()))
	err := s.persist("redo")
	s.emit(EventRedone, err)
	return err
}

// persist writes the live collection. A failure is logged and returned; the
// in-memory state stays as it is.
func (s *Store) persist(op string) error {
	if s.detached {
		s.log.Warn("storage detached, change not saved", zap.String(logger.FieldOp, op))
		return ErrDetached
	}
	if err := s.port.Save(s.notes); err != nil {
		s.log.Warn("persist failed, continuing in memory",
			zap.String(logger.FieldOp, op),
			zap.Error(err))
		return err
	}
	return nil
}

// Subscribe registers fn for change events and returns a func that removes it.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subSeq++
	id := s.subSeq
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Store) emit(kind EventKind, err error) {
	ev := Event{
		Kind:         kind,
		HistoryIndex: s.timeline.Index(),
		HistoryLen:   s.timeline.Len(),
		Err:          err,
	}
	// registration order
	for id := 1; id <= s.subSeq; id++ {
		if fn, ok := s.subs[id]; ok {
			fn(ev)
		}
	}
}

// Notes returns a deep copy of the live collection.
func (s *Store) Notes() []model.Note {
	return model.Clone(s.notes)
}

// Note returns a copy of the note with id.
func (s *Store) Note(id string) (model.Note, bool) {
	i := model.FindNote(s.notes, id)
	if i < 0 {
		return model.Note{}, false
	}
	return model.CloneNote(s.notes[i]), true
}

func (s *Store) Loaded() bool { return s.loaded }

// Detached reports whether Load could not read the slot, so nothing is saved.
func (s *Store) Detached() bool { return s.detached }

func (s *Store) HistoryIndex() int { return s.timeline.Index() }

func (s *Store) HistoryLen() int { return s.timeline.Len() }

func (s *Store) CanUndo() bool { return s.timeline.CanUndo() }

func (s *Store) CanRedo() bool { return s.timeline.CanRedo() }

// Snapshot returns a copy of history entry i.
func (s *Store) Snapshot(i int) (model.Snapshot, bool) {
	return s.timeline.At(i)
}

func (s *Store) History() []history.Entry {
	return s.timeline.Entries()
}
