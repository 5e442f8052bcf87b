package history

import (
	"testing"

	"github.com/idilsaglam/notes/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestInlineDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{name: "same", a: "abc", b: "abc", want: "abc"},
		{name: "insert", a: "buy milk", b: "buy oat milk", want: "buy {+oat +}milk"},
		{name: "from empty", a: "", b: "x", want: "{+x+}"},
		{name: "to empty", a: "x", b: "", want: "[-x-]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InlineDiff(tt.a, tt.b))
		})
	}
}

func TestDescribe(t *testing.T) {
	prev := []model.Note{
		{ID: "a", Title: "Shop", Todos: []model.TodoItem{
			{ID: "1", Text: "milk"},
			{ID: "2", Text: "bread"},
		}},
		{ID: "b", Title: "Gone", Todos: []model.TodoItem{}},
	}
	next := []model.Note{
		{ID: "a", Title: "Shop", Todos: []model.TodoItem{
			{ID: "1", Text: "milk", Completed: true},
			{ID: "3", Text: "eggs"},
		}},
		{ID: "c", Title: "Fresh", Todos: []model.TodoItem{}},
	}

	assert.Equal(t, []string{
		`~ checked "milk" in "Shop"`,
		`+ todo "eggs" in "Shop"`,
		`- todo "bread" in "Shop"`,
		`+ note "Fresh"`,
		`- note "Gone"`,
	}, Describe(prev, next))
}

func TestDescribeNoChange(t *testing.T) {
	notes := []model.Note{{ID: "a", Title: "x", Todos: []model.TodoItem{{ID: "1"}}}}
	assert.Empty(t, Describe(notes, model.Clone(notes)))
}

func TestDescribeTitle(t *testing.T) {
	prev := []model.Note{{ID: "a", Title: "Plan", Todos: []model.TodoItem{}}}
	next := []model.Note{{ID: "a", Title: "Plans", Todos: []model.TodoItem{}}}
	assert.Equal(t, []string{"~ title Plan{+s+}"}, Describe(prev, next))
}
