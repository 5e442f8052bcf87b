package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/idilsaglam/notes/internal/notes"
	"github.com/pkg/errors"
)

// Run opens the editor on the alternate screen and blocks until the user quits.
// Every change is persisted as it happens, so there is nothing to save on exit.
func Run(s *notes.Store, opt Options) error {
	if !s.Loaded() {
		return notes.ErrNotLoaded
	}
	m := New(s, opt)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "tui")
	}
	return nil
}
