package cli

import (
	"strconv"
	"strings"

	"github.com/idilsaglam/notes/internal/model"
	"github.com/spf13/cobra"
)

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

// resolveNote accepts a 1-based index or a unique id prefix.
func resolveNote(notes []model.Note, ref string) (model.Note, error) {
	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	i, err := resolve(ids, ref, "note")
	if err != nil {
		return model.Note{}, err
	}
	return notes[i], nil
}

// resolveTodo is resolveNote for the todos of one note.
func resolveTodo(n model.Note, ref string) (model.TodoItem, error) {
	ids := make([]string, len(n.Todos))
	for i, t := range n.Todos {
		ids[i] = t.ID
	}
	i, err := resolve(ids, ref, "todo")
	if err != nil {
		return model.TodoItem{}, err
	}
	return n.Todos[i], nil
}

func resolve(ids []string, ref, kind string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, usagef("empty %s reference", kind)
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(ids) {
			return -1, usagef("%s index out of range: have %d, got %d", kind, len(ids), n)
		}
		return n - 1, nil
	}

	found := -1
	for i, id := range ids {
		if strings.HasPrefix(id, ref) {
			if found >= 0 {
				return -1, usagef("%s id prefix %q is ambiguous", kind, ref)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, usagef("no %s matches %q", kind, ref)
	}
	return found, nil
}
