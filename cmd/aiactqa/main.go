// Package main implements the aiactqa CLI, a terminal client for the EU AI Act
// question-answering backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/aiactqa/internal/config"
	"github.com/fyrsmithlabs/aiactqa/internal/logging"
	"github.com/fyrsmithlabs/aiactqa/internal/qa"
	"github.com/fyrsmithlabs/aiactqa/internal/telemetry"
)

// version information
var version = "dev"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.close()
	if err == nil {
		return 0
	}

	// ask already rendered classified failures
	var info *qa.ErrorInfo
	if !errors.As(err, &info) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

// app holds what subcommands share once flags and config are resolved.
type app struct {
	configPath string
	serverURL  string
	timeout    time.Duration

	cfg    *config.Config
	logger *logging.Logger
	tel    *telemetry.Telemetry
	client *qa.Client
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "aiactqa",
		Short: "Ask questions about the EU AI Act",
		Long: `aiactqa is a terminal client for the EU AI Act question-answering backend.
It sends a question to the backend and shows the answer together with the
source passages it was drawn from and their relevance scores.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.config/aiactqa/config.yaml)")
	root.PersistentFlags().StringVar(&a.serverURL, "server", config.DefaultServerURL, "backend server URL")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", config.DefaultTimeout, "timeout for a single request")

	root.AddCommand(newAskCmd(a))
	root.AddCommand(newTUICmd(a))
	root.AddCommand(newHealthCmd(a))
	root.AddCommand(newInfoCmd(a))
	root.AddCommand(newConfigCmd(a))
	return root
}

// setup loads config, applies flag overrides and builds the logger,
// telemetry and backend client.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("server") {
		cfg.Server.URL = a.serverURL
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Server.Timeout = a.timeout
	}
	// the terminal UI owns the screen
	if cmd.Name() == "tui" && cfg.Logging.Output.File.Path != "" {
		cfg.Logging.Output.Stderr = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = logger

	ctx := logging.WithSessionID(cmd.Context(), uuid.NewString())
	ctx = logging.WithCommand(ctx, cmd.Name())
	ctx = logging.WithLogger(ctx, logger)

	tel, err := telemetry.New(ctx, &cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	a.tel = tel

	a.client = qa.NewClient(cfg.Server.URL,
		qa.WithTimeout(cfg.Server.Timeout),
		qa.WithLogger(logger),
		qa.WithTracerProvider(tel.TracerProvider()),
		qa.WithMeterProvider(tel.MeterProvider()),
	)

	logger.Debug(ctx, "aiactqa starting",
		zap.String("command", cmd.Name()),
		zap.String("server", cfg.Server.URL),
		zap.Duration("timeout", cfg.Server.Timeout),
		zap.String("version", version),
	)
	cmd.SetContext(ctx)
	return nil
}

// close flushes telemetry and logs. Safe when setup never ran.
func (a *app) close() {
	if a.tel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Telemetry.Shutdown.Timeout)
		defer cancel()
		if err := a.tel.Shutdown(ctx); err != nil && a.logger != nil {
			a.logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
