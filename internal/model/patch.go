package model

// NotePatch is a partial update for a note. Nil fields are left as they are.
type NotePatch struct {
	Title              *string
	Todos              []TodoItem // nil keeps the current todos
	IsCreatedInSession *bool
}

// TodoPatch is a partial update for a todo item.
type TodoPatch struct {
	Text      *string
	Completed *bool
}

// Apply merges p into n. Todos are copied, never aliased.
func (p NotePatch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Todos != nil {
		n.Todos = cloneTodos(p.Todos)
	}
	if p.IsCreatedInSession != nil {
		n.IsCreatedInSession = *p.IsCreatedInSession
	}
}

// Apply merges p into t.
func (p TodoPatch) Apply(t *TodoItem) {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// Empty reports whether p would change nothing.
func (p TodoPatch) Empty() bool {
	return p.Text == nil && p.Completed == nil
}

// Title is shorthand for a title-only patch.
func Title(s string) NotePatch {
	return NotePatch{Title: &s}
}

// Text is shorthand for a text-only patch.
func Text(s string) TodoPatch {
	return TodoPatch{Text: &s}
}

// Completed is shorthand for a completed-only patch.
func Completed(b bool) TodoPatch {
	return TodoPatch{Completed: &b}
}
