package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/idilsaglam/notes/internal/history"
	"github.com/idilsaglam/notes/internal/model"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.mode == modeHistory {
		return m.historyView()
	}

	left, right := paneStyle, paneStyle
	if m.focus == paneNotes {
		left = focusedPaneStyle
	} else {
		right = focusedPaneStyle
	}
	listW := m.width / 3
	todoW := m.width - listW - 4
	if todoW < 20 {
		todoW = 20
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		left.Render(m.noteList.View()),
		right.Width(todoW).Render(m.todoView()),
	)

	parts := []string{body}
	if m.mode == modeRename || m.mode == modeEditTodo {
		parts = append(parts, m.inputView())
	}
	parts = append(parts, m.statusLine(), helpStyle.Render(m.helpLine()))
	return strings.Join(parts, "\n")
}

func (m Model) todoView() string {
	n, ok := m.selectedNote()
	if !ok {
		return mutedStyle.Render("No notes. Press n to create one.")
	}
	done, pending := n.Stats()
	header := fmt.Sprintf("%s   %s %d  %s %d",
		titleStyle.Render(n.Title),
		successStyle.Render(boxChecked), done,
		pendingStyle.Render(boxUnchecked), pending,
	)
	lines := []string{header, ""}
	if len(n.Todos) == 0 {
		lines = append(lines, mutedStyle.Render("(empty) press a to add"))
	}
	for i, t := range n.Todos {
		lines = append(lines, m.todoLine(i, t))
	}
	return strings.Join(lines, "\n")
}

func (m Model) todoLine(i int, t model.TodoItem) string {
	box := pendingStyle.Render(boxUnchecked)
	text := t.Text
	if t.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	line := box + " " + text
	if m.focus == paneTodos && i == m.todoIdx {
		return selectedStyle.Render("> ") + line
	}
	return "  " + line
}

func (m Model) inputView() string {
	title := "Rename note"
	if m.mode == modeEditTodo {
		title = "Edit todo"
	}
	if m.editErr != "" {
		title += ": " + errorStyle.Render(m.editErr)
	}
	return paneStyle.Render(title + "\n" + m.ti.View())
}

func (m Model) statusLine() string {
	s := accentStyle.Render(fmt.Sprintf("history %d/%d", m.store.HistoryIndex()+1, m.store.HistoryLen()))
	if len(m.changes) > 0 {
		s += "  " + mutedStyle.Render(summarize(m.changes))
	}
	if m.warn != "" {
		s += "  " + errorStyle.Render("! "+m.warn)
	}
	return s
}

// summarize keeps the status line to one change plus a count of the rest.
func summarize(changes []string) string {
	if len(changes) == 1 {
		return changes[0]
	}
	return fmt.Sprintf("%s (+%d more)", changes[0], len(changes)-1)
}

func (m Model) helpLine() string {
	keys := helpKeys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func (m Model) historyView() string {
	lines := []string{titleStyle.Render("History"), ""}
	for _, e := range m.store.History() {
		cursor := "  "
		if e.Index == m.histIdx {
			cursor = selectedStyle.Render("> ")
		}
		mark := " "
		if e.Current {
			mark = accentStyle.Render("●")
		}
		lines = append(lines, fmt.Sprintf("%s%s %3d  %s  %d notes, %d todos",
			cursor, mark, e.Index+1, e.Timestamp.Format("15:04:05"), e.Notes, e.Todos))
	}
	lines = append(lines, "", mutedStyle.Render("changes from previous:"))
	lines = append(lines, m.historyDiff()...)
	lines = append(lines, "", helpStyle.Render("j/k move • u undo • U redo • h/esc back"))
	return paneStyle.Render(strings.Join(lines, "\n"))
}

// historyDiff describes what the selected snapshot changed relative to the one before it.
func (m Model) historyDiff() []string {
	cur, ok := m.store.Snapshot(m.histIdx)
	if !ok {
		return nil
	}
	var prev []model.Note
	if p, ok := m.store.Snapshot(m.histIdx - 1); ok {
		prev = p.Notes
	}
	out := history.Describe(prev, cur.Notes)
	if len(out) == 0 {
		return []string{mutedStyle.Render("  (no changes)")}
	}
	for i := range out {
		out[i] = "  " + out[i]
	}
	return out
}
