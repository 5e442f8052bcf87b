package history

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/notes/internal/model"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Describe lists what changed going from prev to next, one line per change.
// Notes and todos are matched by id; reordering alone is not reported.
func Describe(prev, next []model.Note) []string {
	var out []string

	for _, n := range next {
		i := model.FindNote(prev, n.ID)
		if i < 0 {
			out = append(out, fmt.Sprintf("+ note %q", n.Title))
			continue
		}
		out = append(out, describeNote(prev[i], n)...)
	}
	for _, p := range prev {
		if model.FindNote(next, p.ID) < 0 {
			out = append(out, fmt.Sprintf("- note %q", p.Title))
		}
	}
	return out
}

func describeNote(prev, next model.Note) []string {
	var out []string
	if prev.Title != next.Title {
		out = append(out, fmt.Sprintf("~ title %s", InlineDiff(prev.Title, next.Title)))
	}
	for _, t := range next.Todos {
		j := prev.FindTodo(t.ID)
		if j < 0 {
			out = append(out, fmt.Sprintf("+ todo %q in %q", t.Text, next.Title))
			continue
		}
		old := prev.Todos[j]
		if old.Text != t.Text {
			out = append(out, fmt.Sprintf("~ todo %s in %q", InlineDiff(old.Text, t.Text), next.Title))
		}
		if old.Completed != t.Completed {
			verb := "unchecked"
			if t.Completed {
				verb = "checked"
			}
			out = append(out, fmt.Sprintf("~ %s %q in %q", verb, t.Text, next.Title))
		}
	}
	for _, t := range prev.Todos {
		if next.FindTodo(t.ID) < 0 {
			out = append(out, fmt.Sprintf("- todo %q in %q", t.Text, next.Title))
		}
	}
	return out
}

// InlineDiff renders a character diff as [-removed-]{+added+} markers.
func InlineDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(a, b, false))

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		}
	}
	return sb.String()
}
