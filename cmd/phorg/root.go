package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"phorg/internal/app"
	"phorg/internal/config"
	"phorg/internal/domain"
	apperrors "phorg/internal/errors"
	"phorg/internal/infra/exif"
	"phorg/internal/infra/fs"
	"phorg/internal/logging"
	"phorg/internal/presentation"
	"phorg/internal/tui"
)

// version is stamped at build time via -ldflags.
var version = "dev"

const lockFileName = ".phorg.lock"

type rootFlags struct {
	recursive        bool
	daily            bool
	noYear           bool
	copyMode         bool
	endings          []string
	exclude          string
	excludeRegex     bool
	deleteDuplicates bool
	dryRun           bool
	exif             bool
	noProgress       bool
	workers          int
	verbosity        int
	logFormat        string
	configPath       string
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "phorg [flags] <source> <target>",
		Short: "Organize files into date-based directories",
		Long: `phorg sorts the files of a source directory into a target tree laid out
by capture date. Dates come from the filesystem, from the file name, or with
--exif from embedded image metadata. Files already present at their
destination are recognized by content and skipped or deleted, never
overwritten.`,
		Args:          cobra.MaximumNArgs(2),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "descend into subdirectories of source")
	cmd.Flags().BoolVarP(&flags.daily, "daily", "d", false, "add a day level below the month")
	cmd.Flags().StringSliceVarP(&flags.endings, "endings", "e", nil, "only process files with these endings (e.g. jpg,png)")
	cmd.Flags().BoolVarP(&flags.copyMode, "copy", "c", false, "copy files instead of moving them")
	cmd.Flags().BoolVar(&flags.noYear, "no-year", false, "use YYYY-MM directories instead of YYYY/MM")
	cmd.Flags().StringVar(&flags.exclude, "exclude", "", "exclude files whose basename matches this glob")
	cmd.Flags().BoolVar(&flags.excludeRegex, "exclude-regex", false, "treat --exclude as a regular expression")
	cmd.Flags().BoolVar(&flags.deleteDuplicates, "delete-duplicates", false, "delete source files already present at their destination")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "report what would happen without changing anything")
	cmd.Flags().BoolVar(&flags.exif, "exif", false, "prefer embedded metadata dates over filesystem times")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "disable the interactive progress view")
	cmd.Flags().CountVarP(&flags.verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "process up to N files concurrently")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "", "log output format (console or json)")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "configuration file path")

	return cmd
}

func run(cmd *cobra.Command, args []string, flags *rootFlags) error {
	cfg, cfgPath, _, err := config.Load(flags.configPath)
	if err != nil {
		return apperrors.Wrap(apperrors.InvalidConfig, "config", cfgPath, err)
	}

	source, target, err := resolveDirs(args)
	if err != nil {
		return err
	}

	opts := buildOptions(cfg, flags, cmd.Flags().Changed)

	logger, err := logging.New(logging.Options{Level: opts.logLevel, Format: opts.logFormat})
	if err != nil {
		return apperrors.Wrap(apperrors.InvalidConfig, "logging", "", err)
	}

	filesystem := fs.OSFS{}
	info, err := filesystem.Stat(source)
	if err != nil {
		return apperrors.Wrap(apperrors.NotFound, "stat", source, err)
	}
	if !info.IsDir() {
		return apperrors.New(apperrors.InvalidPath, "stat", source, "not a directory")
	}

	if err := filesystem.MkdirAll(target, 0o755); err != nil {
		return apperrors.Wrap(apperrors.IOFailure, "mkdir", target, err)
	}

	// One run per target tree; a second invocation would race the duplicate
	// checks. Dry runs hold the lock too so their view is consistent.
	lock := flock.New(filepath.Join(target, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return apperrors.Wrap(apperrors.IOFailure, "lock", target, err)
	}
	if !locked {
		return apperrors.New(apperrors.IOFailure, "lock", target, "another phorg run is organizing this target")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	organizer := &app.Organizer{
		FS:               filesystem,
		Logger:           logger,
		Criteria:         opts.criteria,
		Layout:           opts.layout,
		Copy:             opts.copyMode,
		DeleteDuplicates: opts.deleteDuplicates,
		DryRun:           opts.dryRun,
		PreferMetadata:   opts.exif,
		MaxHashSize:      opts.maxHashSize,
		Workers:          opts.workers,
	}
	if opts.exif {
		organizer.Metadata = exif.Reader{}
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	printer := presentation.Printer{Writer: os.Stdout, Verbose: opts.verbosity > 0}

	if opts.progress && isatty.IsTerminal(os.Stdout.Fd()) {
		return runWithProgress(ctx, cancel, organizer, printer, source, target, opts)
	}

	summary, runErr := organizer.Run(ctx, source, target)
	printer.PrintSummary(summary)
	return finish(summary, runErr)
}

// runWithProgress drives the organizer from a goroutine and feeds its ticks
// into the progress view; the summary prints after the view exits so it
// stays in the scrollback.
func runWithProgress(ctx context.Context, cancel context.CancelFunc, organizer *app.Organizer, printer presentation.Printer, source, target string, opts options) error {
	model := tui.NewModel(tui.Config{
		Source: source,
		Target: target,
		DryRun: opts.dryRun,
		Copy:   opts.copyMode,
		Cancel: cancel,
	})
	program := tea.NewProgram(model)

	organizer.OnProgress = func(current, total int) {
		program.Send(tui.ProgressMsg{Done: current, Total: total})
	}

	var (
		summary domain.Summary
		runErr  error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		summary, runErr = organizer.Run(ctx, source, target)
		if runErr != nil {
			program.Send(tui.ErrorMsg{Err: runErr})
			return
		}
		program.Send(tui.DoneMsg{Summary: summary})
	}()

	_, uiErr := program.Run()
	cancel()
	<-done
	if uiErr != nil {
		return uiErr
	}

	printer.PrintSummary(summary)
	return finish(summary, runErr)
}

// finish maps the run outcome to the process exit contract: any aborted run
// or any failed file exits non-zero.
func finish(summary domain.Summary, runErr error) error {
	if runErr != nil {
		return runErr
	}
	if !summary.OK() {
		return fmt.Errorf("%d of %d files failed", len(summary.Failed), summary.Total)
	}
	return nil
}

func resolveDirs(args []string) (string, string, error) {
	var source, target string
	if len(args) > 0 {
		source = args[0]
	}
	if len(args) > 1 {
		target = args[1]
	}
	if source == "" {
		source = config.EnvOrEmpty("PHORG_SOURCE_DIR")
	}
	if target == "" {
		target = config.EnvOrEmpty("PHORG_TARGET_DIR")
	}
	if source == "" || target == "" {
		return "", "", apperrors.New(apperrors.InvalidConfig, "args", "",
			"source and target directories are required")
	}
	source, err := domain.SanitizePath(source)
	if err != nil {
		return "", "", err
	}
	target, err = domain.SanitizePath(target)
	if err != nil {
		return "", "", err
	}
	return source, target, nil
}

// options is the merged view of config file and command line; flags win when
// explicitly set.
type options struct {
	criteria         domain.Criteria
	layout           domain.Layout
	copyMode         bool
	deleteDuplicates bool
	dryRun           bool
	exif             bool
	progress         bool
	workers          int
	maxHashSize      int64
	verbosity        int
	logLevel         string
	logFormat        string
}

func buildOptions(cfg *config.Config, flags *rootFlags, changed func(string) bool) options {
	opts := options{
		criteria: domain.Criteria{
			Recursive:    cfg.Organize.Recursive,
			Endings:      cfg.Organize.Endings,
			Exclude:      cfg.Organize.Exclude,
			ExcludeRegex: cfg.Organize.ExcludeRegex,
		},
		layout: domain.Layout{
			Daily:  cfg.Organize.Daily,
			NoYear: cfg.Organize.NoYear,
		},
		copyMode:         cfg.Organize.Copy,
		deleteDuplicates: cfg.Organize.DeleteDuplicates,
		exif:             cfg.Organize.Exif,
		progress:         !cfg.Progress.Disabled,
		workers:          cfg.Organize.Workers,
		maxHashSize:      cfg.MaxHashBytes(),
		logLevel:         cfg.Logging.Level,
		logFormat:        cfg.Logging.Format,
	}

	if changed("recursive") {
		opts.criteria.Recursive = flags.recursive
	}
	if changed("endings") {
		opts.criteria.Endings = flags.endings
	}
	if changed("exclude") {
		opts.criteria.Exclude = flags.exclude
	}
	if changed("exclude-regex") {
		opts.criteria.ExcludeRegex = flags.excludeRegex
	}
	if changed("daily") {
		opts.layout.Daily = flags.daily
	}
	if changed("no-year") {
		opts.layout.NoYear = flags.noYear
	}
	if changed("copy") {
		opts.copyMode = flags.copyMode
	}
	if changed("delete-duplicates") {
		opts.deleteDuplicates = flags.deleteDuplicates
	}
	if changed("exif") {
		opts.exif = flags.exif
	}
	if changed("no-progress") && flags.noProgress {
		opts.progress = false
	}
	if changed("workers") && flags.workers > 0 {
		opts.workers = flags.workers
	}
	if changed("log-format") {
		opts.logFormat = flags.logFormat
	}
	opts.dryRun = flags.dryRun

	opts.verbosity = flags.verbosity
	if opts.verbosity == 0 && config.EnvTruthy("PHORG_VERBOSE") {
		opts.verbosity = 1
	}
	if opts.verbosity > 0 {
		opts.logLevel = logging.LevelFromVerbosity(opts.verbosity)
		// Log lines become the progress report; the interactive view would
		// fight them for the terminal.
		opts.progress = false
	}

	return opts
}
