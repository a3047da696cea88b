package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Digital-Shane/caption-tidy/internal/config"
	"github.com/Digital-Shane/caption-tidy/internal/core"
	"github.com/Digital-Shane/caption-tidy/internal/log"
	"github.com/Digital-Shane/caption-tidy/internal/registry"
	"github.com/Digital-Shane/caption-tidy/internal/theme"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// skipSetup marks commands that do not need the registry or pipeline.
const skipSetup = "skip-setup"

type globalFlags struct {
	registryPath  string
	rejectQuality bool
	rejectEpisode bool
	logLevel      string
	verbose       bool
	ascii         bool
}

// app carries the state shared by every subcommand of one invocation.
type app struct {
	flags globalFlags
	theme theme.Theme

	cfg      *config.Config
	registry *registry.Registry
	pipeline *core.Pipeline
	traces   *core.TraceCache
	closer   io.Closer
}

// NewRootCmd builds the caption-tidy command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "caption-tidy",
		Short: "Derive upload captions from anime release filenames",
		Long: `caption-tidy reads anime release filenames and derives the series title,
season, episode and video quality they describe.

Series titles are canonicalized against a registry of names learned from
earlier files, so spelling variants and extended titles collapse onto one
name. Captions are rendered from a configurable template.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.flags.registryPath, "registry", "", "Path to the series name registry (default from config)")
	flags.BoolVar(&a.flags.rejectQuality, "reject-missing-quality", false, "Fail filenames without a quality token")
	flags.BoolVar(&a.flags.rejectEpisode, "reject-missing-episode", false, "Fail filenames without a season or episode")
	flags.StringVar(&a.flags.logLevel, "log-level", "", "Log level: debug, info, warn or error (default from config)")
	flags.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Write logs to stderr")
	flags.BoolVar(&a.flags.ascii, "ascii", false, "Print ASCII icons instead of emoji")

	root.AddCommand(
		newParseCmd(a),
		newCaptionCmd(a),
		newNamesCmd(a),
		newLastCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration, initializes logging and opens the
// registry, trace cache and pipeline for the command about to run.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	icons := theme.IconsAuto
	if a.flags.ascii {
		icons = theme.IconsASCII
	}
	a.theme = theme.New(theme.WithIcons(icons))

	if cmd.Annotations[skipSetup] == "true" {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.applyFlags(cfg)

	opts, err := cfg.Options()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	settings := log.Settings{
		Enabled:       cfg.EnableLogging,
		Level:         cfg.LogLevel,
		RetentionDays: cfg.LogRetentionDays,
	}
	if a.flags.verbose {
		settings.Console = cmd.ErrOrStderr()
	}
	closer, err := log.Initialize(settings)
	if err != nil {
		return err
	}
	a.closer = closer

	reg, err := registry.New(
		registry.NewFileStore(nil, cfg.RegistryPath),
		registry.WithLogger(zlog.Logger),
		registry.WithHook(journal),
	)
	if err != nil {
		return errors.Join(err, a.teardown())
	}

	traces := core.NewTraceCache(cfg.TraceTTL())
	if path, err := config.TracePath(); err == nil {
		if err := traces.LoadFile(path); err != nil {
			zlog.Warn().Err(err).Msg("discarding saved parse traces")
		}
	}

	logger := zlog.Logger
	opts.Logger = &logger
	opts.Traces = traces

	a.cfg = cfg
	a.registry = reg
	a.traces = traces
	a.pipeline = core.New(reg, opts)

	return log.StartSession(cmd.Name(), args, cfg.RegistryPath)
}

func (a *app) applyFlags(cfg *config.Config) {
	if a.flags.registryPath != "" {
		cfg.RegistryPath = a.flags.registryPath
	}
	if a.flags.rejectQuality {
		cfg.MissingQuality = core.PolicyReject.String()
	}
	if a.flags.rejectEpisode {
		cfg.MissingEpisode = core.PolicyReject.String()
	}
	switch {
	case a.flags.logLevel != "":
		cfg.LogLevel = a.flags.logLevel
	case a.flags.verbose:
		cfg.LogLevel = "debug"
	}
}

// teardown saves traces, writes the change journal and closes the log file.
// It runs after every command that went through setup, whether it failed or
// not.
func (a *app) teardown() error {
	var errs []error
	if a.traces != nil {
		if path, err := config.TracePath(); err == nil {
			errs = append(errs, a.traces.SaveFile(path))
		}
		a.traces = nil
	}
	errs = append(errs, log.EndSession())
	if a.closer != nil {
		errs = append(errs, a.closer.Close())
		a.closer = nil
	}
	return errors.Join(errs...)
}

// run wraps a command body so teardown happens even when it fails; cobra
// skips post-run hooks after an error.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		return errors.Join(err, a.teardown())
	}
}

// journal records registry changes in the current session.
func journal(c registry.Change) {
	var op log.OperationType
	switch c.Kind {
	case registry.ChangeLearned:
		op = log.OpLearn
	case registry.ChangeAdded:
		op = log.OpAdd
	case registry.ChangeRemoved:
		op = log.OpRemove
	default:
		return
	}
	log.LogOperation(op, c.Name, c.Err)
}
