package ui

import (
	"fmt"

	"github.com/idilsaglam/notes/internal/model"
)

const maxTextWidth = 72

// CollectionLines renders every note for Panel. With group set, each note
// lists pending todos before done ones.
func CollectionLines(notes []model.Note, group bool) []string {
	t := Current()
	done, pending := 0, 0
	for _, n := range notes {
		d, p := n.Stats()
		done += d
		pending += p
	}

	lines := []string{
		fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			C(t.Title, "Notes"),
			C(t.Success, t.SymDone), done,
			C(t.Pending, t.SymUnchecked), pending,
			C(t.Accent, "Total"), len(notes),
		),
		C(t.Muted, ProgressBar(done, done+pending, 28)),
	}
	if len(notes) == 0 {
		lines = append(lines, "", C(t.Muted, "no notes"))
	}
	for i, n := range notes {
		lines = append(lines, "")
		lines = append(lines, NoteLines(i+1, n, group)...)
	}
	lines = append(lines, "", C(t.Muted, "Tip: `notes new`, then `notes todo set 1 1 --done`"))
	return lines
}

// NoteLines renders one note heading and its todos.
func NoteLines(index int, n model.Note, group bool) []string {
	t := Current()
	d, _ := n.Stats()

	heading := fmt.Sprintf("%s %s %s",
		C(dim, fmt.Sprintf("%2d.", index)),
		C(t.Accent, truncate(n.Title)),
		C(t.Muted, fmt.Sprintf("(%d/%d) %s", d, len(n.Todos), shortID(n.ID))),
	)
	if n.IsCreatedInSession {
		heading += " " + C(t.Pending, t.SymSession)
	}
	lines := []string{heading}

	if len(n.Todos) == 0 {
		return append(lines, "    "+C(t.Muted, "(empty)"))
	}
	if !group {
		for j, item := range n.Todos {
			lines = append(lines, todoLine(j+1, item))
		}
		return lines
	}

	var pend, done []string
	for j, item := range n.Todos {
		if item.Completed {
			done = append(done, todoLine(j+1, item))
		} else {
			pend = append(pend, todoLine(j+1, item))
		}
	}
	lines = append(lines, "    "+C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, "    "+C(t.Muted, "(none)"))
	}
	lines = append(lines, pend...)
	lines = append(lines, "    "+C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, "    "+C(t.Muted, "(none)"))
	}
	return append(lines, done...)
}

func todoLine(index int, item model.TodoItem) string {
	t := Current()
	box, color := t.BoxUnchecked, t.Muted
	if item.Completed {
		box, color = t.BoxChecked, t.Success
	}
	return fmt.Sprintf("    %s %s %s", C(dim, fmt.Sprintf("%d.", index)), C(color, box), truncate(item.Text))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxTextWidth {
		return string(r[:maxTextWidth-3]) + "..."
	}
	return s
}

// shortID is the prefix shown to users and accepted back as a reference.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
