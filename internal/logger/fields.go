package logger

// Log field names, kept in one place so every package logs the same keys.
const (
	FieldNoteID = "noteId"
	FieldTodoID = "todoId"

	// FieldIndex is the history cursor after the operation.
	FieldIndex = "historyIndex"
	FieldLen   = "historyLen"

	FieldKey     = "key"
	FieldOp      = "op"
	FieldBackend = "backend"
	FieldPath    = "path"
	FieldNotes   = "notes"
)
