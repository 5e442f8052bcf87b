package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/idilsaglam/notes/internal/config"
	"github.com/idilsaglam/notes/internal/model"
	"github.com/idilsaglam/notes/internal/tui"
	"github.com/idilsaglam/notes/internal/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// withSession opens storage, runs fn, and closes everything afterwards.
func withSession(opt *Options, fn func(s *session) error) error {
	s, err := openSession(opt, false)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// saved converts a persistence failure of a one-shot command into an error;
// the process is about to exit, so the in-memory copy would be lost.
func saved(err error, what string) error {
	if err != nil {
		return errors.Wrap(err, what)
	}
	ui.OK(what)
	return nil
}

func newListCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List notes and their todos",
		Args:    exactArgs(0, "notes ls"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opt, func(s *session) error {
				ui.PrintPanel(ui.CollectionLines(s.store.Notes(), opt.Group))
				return nil
			})
		},
	}
}

func newCreateCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Create a note with one empty todo",
		Args:  exactArgs(0, "notes new"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opt, func(s *session) error {
				id, err := s.store.CreateNote()
				if err != nil {
					return errors.Wrap(err, "save")
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
}

func newRenameCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <note> <title...>",
		Short: "Change a note title",
		Args:  minArgs(2, "notes rename <note> <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args[1:], " "))
			if title == "" {
				return usagef("rename: empty title")
			}
			return withSession(opt, func(s *session) error {
				n, err := resolveNote(s.store.Notes(), args[0])
				if err != nil {
					return err
				}
				return saved(s.store.UpdateNote(n.ID, model.Title(title)), "renamed")
			})
		},
	}
}

func newRemoveCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <note>",
		Short: "Delete a note",
		Args:  exactArgs(1, "notes rm <note>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opt, func(s *session) error {
				n, err := resolveNote(s.store.Notes(), args[0])
				if err != nil {
					return err
				}
				return saved(s.store.DeleteNote(n.ID), "removed")
			})
		},
	}
}

func newTodoCmd(opt *Options) *cobra.Command {
	todo := &cobra.Command{
		Use:   "todo",
		Short: "Add, change or remove todos of a note",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown todo subcommand: %s", args[0])
			}
			return usagef("usage: notes todo <add|set|rm>")
		},
		RunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	add := &cobra.Command{
		Use:   "add <note>",
		Short: "Append an empty todo",
		Args:  exactArgs(1, "notes todo add <note>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opt, func(s *session) error {
				n, err := resolveNote(s.store.Notes(), args[0])
				if err != nil {
					return err
				}
				return saved(s.store.AddTodo(n.ID), "added")
			})
		},
	}

	var (
		text   string
		done   bool
		undone bool
	)
	set := &cobra.Command{
		Use:   "set <note> <todo>",
		Short: "Change todo text or completion",
		Args:  exactArgs(2, "notes todo set <note> <todo> [--text T] [--done|--undone]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if done && undone {
				return usagef("set: --done and --undone are exclusive")
			}
			var p model.TodoPatch
			if cmd.Flags().Changed("text") {
				p.Text = &text
			}
			if done || undone {
				p.Completed = &done
			}
			if p.Empty() {
				return usagef("set: nothing to change, pass --text, --done or --undone")
			}
			return withSession(opt, func(s *session) error {
				n, err := resolveNote(s.store.Notes(), args[0])
				if err != nil {
					return err
				}
				t, err := resolveTodo(n, args[1])
				if err != nil {
					return err
				}
				return saved(s.store.UpdateTodo(n.ID, t.ID, p), "updated")
			})
		},
	}
	set.Flags().StringVar(&text, "text", "", "new todo text")
	set.Flags().BoolVar(&done, "done", false, "mark completed")
	set.Flags().BoolVar(&undone, "undone", false, "mark not completed")

	rm := &cobra.Command{
		Use:   "rm <note> <todo>",
		Short: "Delete a todo",
		Args:  exactArgs(2, "notes todo rm <note> <todo>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opt, func(s *session) error {
				n, err := resolveNote(s.store.Notes(), args[0])
				if err != nil {
					return err
				}
				t, err := resolveTodo(n, args[1])
				if err != nil {
					return err
				}
				return saved(s.store.DeleteTodo(n.ID, t.ID), "removed")
			})
		},
	}

	todo.AddCommand(add, set, rm)
	return todo
}

func newTUICmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive editor (default)",
		Args:  exactArgs(0, "notes tui"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opt)
		},
	}
}

// runTUI opens the editor. Logging stays off the terminal unless a log file is set.
func runTUI(opt *Options) error {
	s, err := openSession(opt, true)
	if err != nil {
		return err
	}
	defer s.Close()
	return tui.Run(s.store, tui.Options{Theme: s.cfg.UI.Theme})
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config <path>",
		Short: "Write a config file holding every default",
		Args:  exactArgs(1, "notes init-config <path>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := config.Default()
			path, err := filepath.Abs(args[0])
			if err != nil {
				return errors.Wrap(err, "resolve config path")
			}
			c.File = path
			if err := c.Save(); err != nil {
				return err
			}
			ui.OK("wrote " + path)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "notes %s\n", Version)
		},
	}
}
