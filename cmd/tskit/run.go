package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gitlab.com/stephen-fox/tskit/config"
	"gitlab.com/stephen-fox/tskit/input"
	"gitlab.com/stephen-fox/tskit/layout"
	"gitlab.com/stephen-fox/tskit/memory"
	"gitlab.com/stephen-fox/tskit/override"
	"gitlab.com/stephen-fox/tskit/process"
)

func configFlag() cli.Flag {
	return &cli.PathFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the config file (defaults to " + config.DefaultFileName + " next to the executable)",
		EnvVars: []string{"TSKIT_CONFIG"},
	}
}

func configPath(c *cli.Context) (string, error) {
	if p := c.Path("config"); p != "" {
		return p, nil
	}

	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path - %w", err)
	}

	return filepath.Join(filepath.Dir(exePath), config.DefaultFileName), nil
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:        "run",
		Usage:       "attach to a process and apply key bindings",
		Description: "Locates the timescale value in the target process and overrides it until the process exits.",
		Action:      run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "process",
				Aliases: []string{"p"},
				Usage:   "Name of the process' executable",
			},
			&cli.UintFlag{
				Name:  "pid",
				Usage: "ID of the process (overrides --process)",
			},
			&cli.BoolFlag{
				Name:  "wait",
				Usage: "Wait for the process to start if it is not running",
			},
			&cli.StringFlag{
				Name:  "module",
				Usage: "Name of the module to scan (defaults to the main module)",
			},
			configFlag(),
			&cli.StringFlag{
				Name:  "layout",
				Usage: "Layout context to use (overrides the config file)",
			},
			&cli.BoolFlag{
				Name:  "recheck-slot",
				Usage: "Re-read the pointer slot before every write",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (trace, debug, info, warn, error)",
				Value: "info",
			},
			&cli.PathFlag{
				Name:  "log-file",
				Usage: "Also write logs to this file",
			},
		},
	}
}

func run(c *cli.Context) error {
	logger, closeLog, err := newLogger(c.String("log-level"), c.Path("log-file"))
	if err != nil {
		return err
	}
	defer closeLog()

	configFilePath, err := configPath(c)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configFilePath)
	if err != nil {
		return err
	}

	if cfg.WroteDefaults {
		logger.Infof("wrote default config to '%s'", configFilePath)
	}

	logDiagnostics(logger, cfg)

	if layoutName := c.String("layout"); layoutName != "" {
		target, err := layout.DefaultTable().SetContext(layoutName).Target(layout.TimescaleName)
		if err != nil {
			return fmt.Errorf("failed to select layout - %w", err)
		}

		cfg.LayoutContext = layoutName
		cfg.Target = target
	}

	sessionConfig, issues := cfg.Session()
	for name, bindingIssues := range issues {
		for _, issue := range bindingIssues {
			logger.WithField("binding", name).Warnf("%s", issue)
		}
	}

	session, err := override.NewSession(sessionConfig)
	if err != nil {
		return fmt.Errorf("failed to create session - %w", err)
	}

	devices, err := input.SystemDevices()
	if err != nil {
		return fmt.Errorf("failed to open input devices - %w", err)
	}

	ctx, cancelFn := signal.NotifyContext(c.Context, os.Interrupt)
	defer cancelFn()

	pid, err := targetPID(ctx, c, logger)
	if err != nil {
		return err
	}

	proc, err := process.Attach(pid, c.String("module"))
	if err != nil {
		return err
	}
	defer proc.Close()

	module := proc.Module()
	logger.Infof("attached to %s (pid %d) at 0x%x, %d bytes",
		module.Name, pid, module.Base, module.Size)

	ctx, cancelExitCtx := process.ExitCtx(ctx, pid, time.Second)
	defer cancelExitCtx()

	snapshot, err := proc.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to read module - %w", err)
	}

	if snapshot.UnreadablePages > 0 {
		logger.Warnf("%d page(s) of the module could not be read", snapshot.UnreadablePages)
	}

	logger.Infof("using layout '%s'", cfg.LayoutContext)

	err = override.Run(ctx, override.WorkerConfig{
		Memory:          proc,
		Region:          snapshot.Region(),
		Target:          cfg.Target,
		Pointers:        memory.PointerMakerForX86_64(),
		Session:         session,
		Devices:         devices,
		TickInterval:    cfg.Worker.TickInterval,
		ResolveInterval: cfg.Worker.ResolveInterval,
		ResolveMaxPolls: cfg.Worker.ResolveMaxPolls,
		OptRecheckSlot:  c.Bool("recheck-slot"),
		OptLogger:       logger,
	})
	if err != nil {
		return err
	}

	logger.Info("exiting")

	return nil
}

func targetPID(ctx context.Context, c *cli.Context, logger logrus.FieldLogger) (uint32, error) {
	if pid := c.Uint("pid"); pid != 0 {
		return uint32(pid), nil
	}

	name := c.String("process")
	if name == "" {
		return 0, errors.New("please specify --process or --pid")
	}

	waited := false

	for {
		pid, err := process.FindByName(ctx, name)
		if err == nil {
			return pid, nil
		}

		if !c.Bool("wait") || !errors.Is(err, process.ErrNotFound) {
			return 0, err
		}

		if !waited {
			logger.Infof("waiting for '%s' to start...", name)
			waited = true
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

func logDiagnostics(logger logrus.FieldLogger, cfg config.Config) {
	for _, d := range cfg.Diagnostics {
		entry := logger.WithFields(logrus.Fields{
			"key":     d.Key,
			"outcome": d.Outcome.String(),
		})

		switch {
		case d.Err != nil:
			entry.Warnf("malformed value %q, using the default - %s", d.Raw, d.Err)
		case d.Outcome == config.Unrecognized:
			entry.Warnf("unrecognized value %q, using the default", d.Raw)
		case d.Outcome == config.UsedDefault:
			entry.Debug("key not set, using the default")
		default:
			entry.Debugf("%q", d.Raw)
		}
	}
}
