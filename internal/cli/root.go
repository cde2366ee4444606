package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"taskdash/internal/board"
	"taskdash/internal/config"
	"taskdash/internal/storage"
	"taskdash/internal/ui"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. Without a subcommand it opens the
// interactive dashboard.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "taskdash",
		Short:         "Terminal task dashboard",
		Long:          "Create, edit, filter, sort and delete tasks stored as a JSON list in a local key-value store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default: $"+config.EnvConfigPath+" or the user config dir)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}

// session is an opened board and the resources behind it.
type session struct {
	cfg     config.Config
	board   *board.Board
	closers []io.Closer
}

func (s *session) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openSession loads config, sets up logging and opens the board. interactive
// keeps log output off the terminal the dashboard draws on.
func openSession(opts *RootOptions, interactive bool) (*session, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	s := &session{cfg: cfg}
	logger, closer, err := newLogger(cfg, opts.Verbose && !interactive)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if closer != nil {
		s.closers = append(s.closers, closer)
	}
	slog.SetDefault(logger)

	kv, err := storage.Open(cfg.Storage)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	s.closers = append(s.closers, kv)

	filters, err := defaultFilters(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.board = board.New(storage.NewTasks(kv, cfg.Storage.Key),
		board.WithLogger(logger),
		board.WithFilters(filters),
	)
	return s, nil
}

func newLogger(cfg config.Config, stderr bool) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	switch {
	case cfg.LogFile != "":
		f, err := tea.LogToFile(cfg.LogFile, "taskdash")
		if err != nil {
			return nil, nil, err
		}
		return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), f, nil
	case stderr:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil, nil
	default:
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil
	}
}

func defaultFilters(cfg config.Config) (board.Filters, error) {
	status, err := board.ParseStatusFilter(cfg.DefaultStatusFilter)
	if err != nil {
		return board.Filters{}, fmt.Errorf("default_status_filter: %w", err)
	}
	priority, err := board.ParsePriorityFilter(cfg.DefaultPriorityFilter)
	if err != nil {
		return board.Filters{}, fmt.Errorf("default_priority_filter: %w", err)
	}
	sort, err := board.ParseSortDirection(cfg.DefaultSort)
	if err != nil {
		return board.Filters{}, fmt.Errorf("default_sort: %w", err)
	}
	return board.Filters{Status: status, Priority: priority, Sort: sort}, nil
}

func runDashboard(opts *RootOptions) error {
	s, err := openSession(opts, true)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := ui.Run(s.board, s.cfg); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
