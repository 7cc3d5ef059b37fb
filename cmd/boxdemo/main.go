// Command boxdemo drives a box-backed counter, either in the terminal or as
// a scripted headless run.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/odvcencio/furry-toolbelt/internal/config"
	"github.com/odvcencio/furry-toolbelt/runtime"
)

type options struct {
	configPath string
	headless   bool
	logFile    string
	tick       time.Duration
	flush      string
	steps      []string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "boxdemo: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "boxdemo [steps...]",
		Short: "Counter demo built on boxes, flatten and watch",
		Long: `boxdemo shows a counter whose doubled value and title are derived boxes.

Interactive keys: + and - change the count, up and down select a field,
enter calls a function field, r resets, q or Esc quits.

With --headless the positional steps are applied in order and every
change is printed. A step is "+", "-", a function field such as "reset",
or "key=value" to write an int field.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.steps = args
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", config.DefaultFile, "path to the YAML config")
	flags.BoolVar(&opts.headless, "headless", false, "apply steps without a terminal")
	flags.StringVar(&opts.logFile, "log-file", "", "write structured logs to this file")
	flags.DurationVar(&opts.tick, "tick", 0, "loop tick rate (overrides config)")
	flags.StringVar(&opts.flush, "flush", "", "queue flush policy: message-and-tick, message, tick or manual")
	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := config.LoadOptional(opts.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg, opts); err != nil {
		return err
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if opts.headless {
		return runHeadless(ctx, cmd.OutOrStdout(), cfg, opts.steps, logger)
	}
	return runInteractive(ctx, cfg, logger)
}

// applyFlags copies explicitly set flags over the file configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *options) error {
	flags := cmd.Flags()
	if flags.Changed("tick") {
		cfg.Loop.TickRate = opts.tick
	}
	if flags.Changed("flush") {
		cfg.Loop.FlushPolicy = opts.flush
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	return cfg.Validate()
}

func openLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	if cfg.Log.File == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}

func loopConfig(cfg *config.Config, logger *slog.Logger) runtime.Config {
	return runtime.Config{
		MessageBuffer: cfg.Loop.MessageBuffer,
		TickRate:      cfg.Loop.TickRate,
		FlushPolicy:   cfg.FlushPolicy(),
		Logger:        logger,
	}
}

func runLoop(ctx context.Context, loop *runtime.Loop) error {
	err := loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
