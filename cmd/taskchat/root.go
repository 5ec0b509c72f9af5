package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"taskchat/pkg/backend"
	"taskchat/pkg/chat"
	"taskchat/pkg/config"
	"taskchat/pkg/logging"
	"taskchat/pkg/netwatch"
	"taskchat/pkg/ui"
	"taskchat/pkg/ui/components/toast"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
)

// errExitFailure makes main exit with status 1 without printing anything;
// the command has already reported the failure.
var errExitFailure = errors.New("exit 1")

// app holds the global flags and the resolved configuration.
type app struct {
	configPath string
	backendURL string
	logLevel   string

	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	cfg config.Config
}

func newApp(stdout, stderr io.Writer, getenv func(string) string) *app {
	return &app{stdout: stdout, stderr: stderr, getenv: getenv}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskchat",
		Short:         "Chat with a task-execution backend from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			return a.runTUI(cmd.Context())
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.taskchat/config.json)")
	flags.StringVar(&a.backendURL, "backend-url", "", "backend base URL, overrides config and environment")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newSendCommand(a),
		newHealthCommand(a),
		newProbeCommand(a),
		newConfigCommand(a),
		newVersionCommand(a),
	)
	return root
}

func (a *app) resolvedConfigPath() string {
	if p := strings.TrimSpace(a.configPath); p != "" {
		return p
	}
	return config.GetConfigPath()
}

// load runs the configuration chain: .env, config file, environment, flags.
// Logging is initialised from the result.
func (a *app) load() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(a.resolvedConfigPath())
	if err != nil {
		return err
	}
	cfg, err = cfg.ApplyEnv(a.getenv)
	if err != nil {
		return err
	}
	cfg = a.applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", a.resolvedConfigPath(), err)
	}

	if _, err := logging.Init(cfg); err != nil {
		fmt.Fprintf(a.stderr, "Warning: logging disabled: %v\n", err)
	}
	slog.Debug("config_loaded", "path", a.resolvedConfigPath(), "backend_url", cfg.BackendURL)

	a.cfg = cfg
	return nil
}

// applyFlags overlays the global flags, which win over file and environment.
func (a *app) applyFlags(cfg config.Config) config.Config {
	if v := strings.TrimSpace(a.backendURL); v != "" {
		cfg.BackendURL = v
	}
	if v := strings.TrimSpace(a.logLevel); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

func (a *app) runTUI(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := backend.NewFromConfig(a.cfg)
	notifier := toast.NewNotifier()
	defer notifier.Close()
	sess := chat.NewSession(client, notifier)

	signals := netwatch.New(a.cfg.NetwatchInterval()).Run(ctx)

	reloads, err := config.Watch(ctx, a.resolvedConfigPath())
	if err != nil {
		slog.Warn("config_watch_failed", "error", err.Error())
		reloads = nil
	}

	model := ui.NewModel(ui.Options{
		Context:  ctx,
		Config:   a.cfg,
		Client:   client,
		Session:  sess,
		Notifier: notifier,
		Signals:  signals,
		Reloads:  reloads,
		Getenv:   a.getenv,
		Override: a.applyFlags,
	})

	slog.Info("tui_started", "backend_url", client.BaseURL())
	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	slog.Info("tui_stopped")
	return nil
}
