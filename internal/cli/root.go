// Package cli wires configuration, logging and storage into the cobra command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/idilsaglam/notes/internal/config"
	"github.com/idilsaglam/notes/internal/logger"
	"github.com/idilsaglam/notes/internal/notes"
	"github.com/idilsaglam/notes/internal/store"
	"github.com/idilsaglam/notes/internal/store/jsonstore"
	"github.com/idilsaglam/notes/internal/store/memstore"
	"github.com/idilsaglam/notes/internal/store/sqlitestore"
	"github.com/idilsaglam/notes/internal/ui"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Options tune output behavior from root flags.
type Options struct {
	ConfigFile string
	Ephemeral  bool
	Group      bool // list todos grouped by pending/done
	Theme      string
}

// usageError marks mistakes in the command line rather than failures.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, a ...any) error {
	return &usageError{msg: fmt.Sprintf(format, a...)}
}

// Execute runs the command tree with os.Args and returns an exit code.
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run is Execute with explicit arguments and writers.
func Run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	oldOut, oldErr := ui.Out, ui.Err
	ui.Out, ui.Err = stdout, stderr
	defer func() { ui.Out, ui.Err = oldOut, oldErr }()

	err := root.Execute()
	if err == nil {
		return exitOK
	}
	var ue *usageError
	if errors.As(err, &ue) {
		ui.Fail(ue.msg)
		return exitUsage
	}
	ui.Fail(err.Error())
	return exitError
}

func newRootCmd() *cobra.Command {
	opt := new(Options)
	root := &cobra.Command{
		Use:           "notes",
		Short:         "Checklist notes with undo/redo",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown subcommand: %s", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opt)
		},
	}
	// cobra reports flag and arg mistakes through this hook; keep them as usage errors.
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	fs := root.PersistentFlags()
	fs.StringVarP(&opt.ConfigFile, "config", "c", "", "config file (default $"+config.EnvFile+")")
	fs.BoolVar(&opt.Ephemeral, "ephemeral", false, "keep notes in memory only")
	fs.BoolVar(&opt.Group, "group", false, "group todos by pending/done")
	fs.StringVar(&opt.Theme, "theme", "", "output theme: "+strings.Join(ui.Themes, ", "))

	root.AddCommand(
		newListCmd(opt),
		newCreateCmd(opt),
		newRenameCmd(opt),
		newRemoveCmd(opt),
		newTodoCmd(opt),
		newTUICmd(opt),
		newConfigInitCmd(),
		newVersionCmd(),
	)
	return root
}

// session is everything a command needs, opened from config.
type session struct {
	cfg    *config.Config
	log    *zap.Logger
	store  *notes.Store
	closes []func() error
}

func (s *session) Close() {
	for i := len(s.closes) - 1; i >= 0; i-- {
		if err := s.closes[i](); err != nil {
			s.log.Warn("close failed", zap.Error(err))
		}
	}
}

func loadConfig(opt *Options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opt.ConfigFile != "" {
		cfg, err = config.Load(opt.ConfigFile)
	} else {
		cfg, err = config.LoadIfExists(os.Getenv(config.EnvFile))
	}
	if err != nil {
		return nil, err
	}
	if opt.Ephemeral {
		cfg.Storage.Type = config.StorageMemory
	}
	if opt.Theme != "" {
		if !slices.Contains(ui.Themes, opt.Theme) {
			return nil, usagef("unknown theme %q, want one of %s", opt.Theme, strings.Join(ui.Themes, ", "))
		}
		cfg.UI.Theme = opt.Theme
	}
	ui.SetTheme(cfg.UI.Theme)
	ui.SetColorMode(cfg.UI.Color)
	return cfg, nil
}

// openSession loads config, builds the logger and storage, and runs Store.Load.
// quietLog sends logs nowhere unless a log file is configured.
func openSession(opt *Options, quietLog bool) (*session, error) {
	cfg, err := loadConfig(opt)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: zap.NewNop()}
	if !quietLog || cfg.Log.File != "" {
		lg, closer, err := logger.New(logger.Config{
			Level:      cfg.Log.Level,
			File:       cfg.Log.File,
			Production: cfg.Log.Production,
		})
		if err != nil {
			return nil, err
		}
		s.log = lg
		s.closes = append(s.closes, closer)
	}

	kv, where, closer, err := openKV(cfg.Storage)
	if err != nil {
		s.Close()
		return nil, err
	}
	if closer != nil {
		s.closes = append(s.closes, closer)
	}
	slot := store.NewSlot(kv, cfg.Storage.Key)
	s.log.Debug("storage opened",
		zap.String(logger.FieldBackend, cfg.Storage.Type),
		zap.String(logger.FieldPath, where),
		zap.String(logger.FieldKey, slot.Key()))

	s.store = notes.New(slot,
		notes.WithLogger(s.log),
		notes.WithHistoryLimit(cfg.History.Limit),
	)
	if err := s.store.Load(); err != nil {
		// Load already fell back to the welcome note.
		if s.store.Detached() {
			ui.Warn("stored notes unreadable, nothing will be saved: " + err.Error())
		} else {
			ui.Warn("stored notes corrupt, started fresh: " + err.Error())
		}
	}
	return s, nil
}

// openKV opens the configured backend and says where it keeps data.
func openKV(c config.StorageConfig) (store.KV, string, func() error, error) {
	switch c.Type {
	case config.StorageMemory:
		return memstore.New(), "memory", nil, nil
	case config.StorageSQLite:
		db, err := sqlitestore.Open(c.Path)
		if err != nil {
			return nil, "", nil, pkgerrors.Wrap(err, "open sqlite storage")
		}
		return db, c.Path, db.Close, nil
	default:
		fs, err := jsonstore.New(c.Path)
		if err != nil {
			return nil, "", nil, pkgerrors.Wrap(err, "open file storage")
		}
		return fs, fs.Dir(), nil, nil
	}
}
