// Package main provides the icon import migration command.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/iconmigrate/internal/platform/cmd"
	"github.com/louisbranch/iconmigrate/internal/platform/config"
	"github.com/louisbranch/iconmigrate/internal/tools/iconmigrate"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	cfg, err := iconmigrate.ParseConfig(fs, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(iconmigrate.ExitFailure)
	}
	if err != nil {
		config.ExitWithf(iconmigrate.ExitFailure, "Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	code := iconmigrate.ExitFailure
	err = cmd.RunWithTelemetry(ctx, cmd.ServiceIconMigrate, func(ctx context.Context) error {
		report, err := iconmigrate.Run(ctx, cfg, os.Stdout, os.Stderr)
		if err != nil {
			return err
		}
		code = report.ExitCode()
		return nil
	})
	if err != nil {
		config.ExitWithf(iconmigrate.ExitFailure, "Error: %v", err)
	}
	if code != iconmigrate.ExitClean {
		os.Exit(code)
	}
}
