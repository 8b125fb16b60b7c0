// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

// runway-launch prepares the process environment for a web application
// and replaces itself with the configured WSGI process manager.
//
// Usage:
//
//	runway-launch [flags]
//
// With no flags the launcher reproduces the conventional deployment:
// production mode, defaulted secret key, a ./logs directory, and
// gunicorn serving wsgi:application.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/runway-project/runway/lib/config"
	"github.com/runway-project/runway/lib/logdir"
	"github.com/runway-project/runway/lib/process"
	"github.com/runway-project/runway/lib/version"
	"github.com/runway-project/runway/manager"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

// cliOptions holds the parsed command-line flags.
type cliOptions struct {
	configPath       string
	settingsPath     string
	nativeConfigPath string
	entryPoint       string
	managerBinary    string
	secretKeyFile    string
	dryRun           bool
}

// launchPlan is everything decided before any side effect happens: the
// effective configuration, the manager settings, the resolved binary,
// and the argument vector.
type launchPlan struct {
	cfg      *config.Config
	settings *manager.Settings
	binary   string
	args     []string
}

// resolveLaunch turns parsed command-line options into a launch plan.
// It loads and validates configuration, applies flag overrides, and
// resolves the manager binary, but changes nothing: no environment
// variables, no directories, no files.
func resolveLaunch(opts *cliOptions) (*launchPlan, error) {
	if opts.settingsPath != "" && opts.nativeConfigPath != "" {
		return nil, fmt.Errorf("--settings and --manager-config are mutually exclusive")
	}

	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	// Flag overrides win over the config file.
	if opts.entryPoint != "" {
		cfg.App.EntryPoint = opts.entryPoint
	}
	if opts.managerBinary != "" {
		cfg.App.ManagerBinary = opts.managerBinary
	}
	if opts.settingsPath != "" {
		cfg.App.SettingsFile = opts.settingsPath
		cfg.App.ManagerConfig = ""
	}
	if opts.nativeConfigPath != "" {
		cfg.App.ManagerConfig = opts.nativeConfigPath
		cfg.App.SettingsFile = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}

	settings, err := manager.Load(cfg.App.SettingsFile)
	if err != nil {
		return nil, fmt.Errorf("manager settings: %w", err)
	}

	args, err := manager.NewArgsBuilder().Build(&manager.LaunchOptions{
		Settings:     settings,
		EntryPoint:   cfg.App.EntryPoint,
		NativeConfig: cfg.App.ManagerConfig,
	})
	if err != nil {
		return nil, err
	}

	binary, err := resolveManager(cfg)
	if err != nil {
		return nil, err
	}

	return &launchPlan{
		cfg:      cfg,
		settings: settings,
		binary:   binary,
		args:     args,
	}, nil
}

// describe renders the dry-run report.
func (p *launchPlan) describe(applied []string) string {
	return fmt.Sprintf("would exec: %s %v\nenvironment applied: %v\n", p.binary, p.args, applied)
}

func run() error {
	opts := &cliOptions{}

	flagSet := pflag.NewFlagSet("runway-launch", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "path to the runway config file (default: $RUNWAY_CONFIG, else built-in defaults)")
	flagSet.StringVar(&opts.settingsPath, "settings", "", "manager settings YAML used to synthesize the manager command line")
	flagSet.StringVar(&opts.nativeConfigPath, "manager-config", "", "native manager config file, passed through verbatim")
	flagSet.StringVar(&opts.entryPoint, "app", "", "application entry point (module:attribute)")
	flagSet.StringVar(&opts.managerBinary, "manager-binary", "", "process manager binary name or path")
	flagSet.StringVar(&opts.secretKeyFile, "secret-key-file", "", "read the secret key from this file, or - for stdin (applies only when the secret variable is unset)")
	flagSet.BoolVar(&opts.dryRun, "dry-run", false, "print the resolved command and environment changes without launching")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match other Runway
	// binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("runway-launch")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	plan, err := resolveLaunch(opts)
	if err != nil {
		return err
	}

	applied, err := applyEnvironment(&plan.cfg.App, opts.secretKeyFile)
	if err != nil {
		return err
	}
	logger.Info("environment prepared",
		"mode_variable", plan.cfg.App.ModeVariable,
		"mode", plan.cfg.App.Mode,
		"applied", applied,
	)

	// A dry run stops here: the environment changes above only affect
	// this process, which is about to exit.
	if opts.dryRun {
		fmt.Print(plan.describe(applied))
		return nil
	}

	if err := plan.cfg.EnsurePaths(); err != nil {
		return err
	}

	// The log directory must exist before the manager starts; the
	// manager opens its log files immediately.
	if err := logdir.Ensure(plan.cfg.Paths.Logs); err != nil {
		return err
	}

	rotateLogs(plan.cfg, plan.settings, logger)

	// The status line precedes the launch attempt. It announces
	// intent, not success: a missing manager binary still fails with
	// a non-zero exit after this prints.
	fmt.Printf("Starting %s under %s (%s mode)\n", plan.cfg.App.EntryPoint, plan.binary, plan.cfg.App.Mode)

	return launch(plan.cfg, plan.binary, plan.args, logger)
}

// rotateLogs shifts logs left over from a previous run into gzip
// archives. Rotation failures are logged but never block the launch:
// serving the application beats preserving its history.
func rotateLogs(cfg *config.Config, settings *manager.Settings, logger *slog.Logger) {
	if cfg.App.LogBackups <= 0 {
		return
	}

	for _, logFile := range []string{settings.Logging.AccessLog, settings.Logging.ErrorLog} {
		if logFile == "" || logFile == "-" {
			continue
		}
		// Only rotate files inside the managed log directory; paths
		// elsewhere belong to whoever configured them.
		if filepath.Dir(logFile) != filepath.Clean(cfg.Paths.Logs) {
			continue
		}
		if err := logdir.Rotate(logFile, cfg.App.LogBackups); err != nil {
			logger.Warn("rotating previous log file", "file", logFile, "error", err)
		}
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Print(`runway-launch - launch a web application under its process manager

USAGE
    runway-launch [flags]

The launcher assigns the runtime mode, defaults the secret key when the
caller has not set one, guarantees the log directory exists, and then
replaces itself with the process manager. Its exit code is the
manager's exit code.

EXAMPLES
    # Conventional deployment: gunicorn serving wsgi:application
    runway-launch

    # Explicit app and manager settings
    runway-launch --app api.wsgi:app --settings manager.yaml

    # Hand a native gunicorn config file through unchanged
    runway-launch --manager-config gunicorn.conf.py

FLAGS
`)
	fmt.Print(flagSet.FlagUsages())
}
