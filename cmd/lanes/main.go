package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abatilo/lanes/internal/board"
	"github.com/abatilo/lanes/internal/config"
	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/logging"
	"github.com/abatilo/lanes/internal/output"
	"github.com/abatilo/lanes/internal/seed"
	"github.com/abatilo/lanes/internal/storage"
	"github.com/abatilo/lanes/internal/task"
)

//nolint:gochecknoglobals // CLI flags, config and formatter are package-level by design
var (
	jsonOutput bool
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
	location   *time.Location
	formatter  output.Formatter = output.NewHumanFormatter(nil)
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lanes",
		Short: "A local-first four-stage task board",
		Long:  "lanes - A local-first task board with To Do, In Progress, Review and Done columns.",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			formatter = output.New(jsonOutput, nil)

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				printError(err)
			}
			location, err = cfg.Board.Location()
			if err != nil {
				printError(fmt.Errorf("board timezone: %w", err))
			}
			logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				printError(err)
			}
			formatter = output.New(jsonOutput, location)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (overrides ~/.lanes/config.yaml and .lanes.yaml)")

	rootCmd.AddCommand(
		initCmd(),
		boardCmd(),
		showCmd(),
		addCmd(),
		editCmd(),
		moveCmd(),
		grabCmd(),
		dropCmd(),
		rmCmd(),
		clearCmd(),
		stagesCmd(),
		serveCmd(),
		tuiCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// app bundles what commands need to act on the current board.
type app struct {
	name     string
	dir      string
	kv       storage.KV
	store    *board.Store
	handlers *board.Handlers
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		logger.Warn("close storage", zap.Error(err))
	}
}

// getStore opens the configured backend and loads the board. An unreachable
// backend is logged and replaced by memory so the command still runs.
func getStore(ctx context.Context) (*app, error) {
	name := cfg.Board.Name
	if name == "" {
		var err error
		if name, err = storage.BoardName(); err != nil {
			return nil, err
		}
	}

	dir, err := storage.BoardDir(name)
	if err != nil {
		return nil, err
	}

	path := cfg.Storage.Path
	if path == "" {
		path = dir
	}

	kv, err := storage.Open(ctx, storage.Options{
		Backend:     cfg.Storage.Backend,
		Path:        path,
		Board:       name,
		RedisURL:    cfg.Storage.RedisURL,
		PostgresDSN: cfg.Storage.PostgresDSN,
	})
	if err != nil {
		if errors.As(err, new(laneserrors.UnknownBackendError)) {
			return nil, err
		}
		logger.Warn("board storage unavailable, keeping board in memory",
			zap.String("backend", cfg.Storage.Backend), zap.Error(err))
		kv = storage.NewMemoryKV()
	}

	store := board.NewStore(kv, seed.FromConfig(cfg.Board.Seed),
		board.WithLogger(logger),
		board.WithKey(cfg.Storage.Key),
		board.WithPersistEmpty(cfg.Storage.PersistEmpty),
	)
	store.Load(ctx)

	return &app{
		name:     name,
		dir:      dir,
		kv:       kv,
		store:    store,
		handlers: board.NewHandlers(store, location),
	}, nil
}

func printOutput(s string) {
	os.Stdout.WriteString(s) //nolint:gosec // stdout write errors are unrecoverable
}

func printError(err error) {
	os.Stdout.WriteString(formatter.FormatError(err)) //nolint:gosec // stdout write errors are unrecoverable
	os.Exit(1)
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		printError(fmt.Errorf("invalid task id %q", s))
	}
	return id
}

func mustGet(a *app, id int64) task.Task {
	t, ok := a.store.Get(id)
	if !ok {
		printError(laneserrors.TaskNotFoundError{ID: id})
	}
	return t
}

// initCmd implements 'lanes init'.
func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the board with its default tasks",
		Run: func(cmd *cobra.Command, _ []string) {
			ctx := cmd.Context()
			a, err := getStore(ctx)
			if err != nil {
				printError(err)
			}
			defer a.Close()

			_, exists, err := a.kv.Get(ctx, cfg.Storage.Key)
			if err != nil {
				printError(err)
			}
			if exists && !force {
				printOutput(formatter.FormatMessage(fmt.Sprintf("Board %q already initialized (use --force to reset)", a.name)))
				return
			}

			tasks, err := seed.FromConfig(cfg.Board.Seed).Load()
			if err != nil {
				printError(err)
			}
			a.store.Save(ctx, tasks)

			if global := config.GlobalConfigPath(); global != "" {
				if _, statErr := os.Stat(global); os.IsNotExist(statErr) {
					if err = config.WriteDefault(global); err != nil {
						printError(err)
					}
				}
			}

			printOutput(formatter.FormatMessage(fmt.Sprintf("Initialized board %q with %d tasks", a.name, len(tasks))))
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Reset the board to its default tasks")
	return cmd
}

// boardCmd implements 'lanes board'.
func boardCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the board, optionally filtered",
		Run: func(cmd *cobra.Command, _ []string) {
			a, err := getStore(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer a.Close()

			view := board.Derive(a.store.List(), search, location)
			printOutput(formatter.FormatBoard(view, time.Now()))
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by text or DD.MM.YYYY date")
	return cmd
}

// showCmd implements 'lanes show'.
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a, err := getStore(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer a.Close()

			printOutput(formatter.FormatTask(mustGet(a, parseID(args[0])), time.Now()))
		},
	}
}

// addCmd implements 'lanes add'.
func addCmd() *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task to To Do",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			a, err := getStore(ctx)
			if err != nil {
				printError(err)
			}
			defer a.Close()

			f := a.handlers.NewTaskForm(time.Now())
			f.SetText(args[0])
			if err = setDates(f, start, end); err != nil {
				printError(err)
			}
			if _, err = a.handlers.Submit(ctx, f); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(f.Draft(), time.Now()))
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD, default today)")
	return cmd
}

// editCmd implements 'lanes edit'.
func editCmd() *cobra.Command {
	var text, start, end string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task in To Do",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			a, err := getStore(ctx)
			if err != nil {
				printError(err)
			}
			defer a.Close()

			f, err := a.handlers.EditInColumn(parseID(args[0]))
			if err != nil {
				printError(err)
			}
			if cmd.Flags().Changed("text") {
				f.SetText(text)
			}
			if err = setDates(f, start, end); err != nil {
				printError(err)
			}
			if _, err = a.handlers.Submit(ctx, f); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(f.Draft(), time.Now()))
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "New description")
	cmd.Flags().StringVar(&start, "start", "", "New start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "New end date (YYYY-MM-DD)")
	return cmd
}

func setDates(f *board.Form, start, end string) error {
	if start != "" {
		if err := f.SetStartDate(start); err != nil {
			return err
		}
	}
	if end != "" {
		if err := f.SetEndDate(end); err != nil {
			return err
		}
	}
	return nil
}

// moveCmd implements 'lanes move'.
func moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <stage>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2), //nolint:mnd // CLI takes 2 positional args
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			a, err := getStore(ctx)
			if err != nil {
				printError(err)
			}
			defer a.Close()

			t := mustGet(a, parseID(args[0]))
			if _, err = a.handlers.DropOnColumn(ctx, board.DragStart(t), task.Stage(args[1])); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(mustGet(a, t.ID), time.Now()))
		},
	}
}

// rmCmd implements 'lanes rm'.
func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			a, err := getStore(ctx)
			if err != nil {
				printError(err)
			}
			defer a.Close()

			t := mustGet(a, parseID(args[0]))
			a.handlers.DropOnTrash(ctx, board.DragStart(t))
			printOutput(formatter.FormatMessage(fmt.Sprintf("Deleted task %d", t.ID)))
		},
	}
}

// clearCmd implements 'lanes clear'.
func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [stage]",
		Short: "Remove every task in a clearable column (default: done)",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			a, err := getStore(ctx)
			if err != nil {
				printError(err)
			}
			defer a.Close()

			stage := task.StageDone
			if len(args) == 1 {
				stage = task.Stage(args[0])
			}

			before := len(a.store.List())
			tasks, err := a.handlers.ClearColumn(ctx, stage)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Cleared %d tasks from %s", before-len(tasks), stage)))
		},
	}
}

// stagesCmd implements 'lanes stages'.
func stagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the board columns",
		Run: func(_ *cobra.Command, _ []string) {
			printOutput(formatter.FormatStages(board.Columns()))
		},
	}
}
