// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	_ "github.com/Vansh-Parate/Cultiva-sub001/docs" // Import generated swagger docs
	"github.com/Vansh-Parate/Cultiva-sub001/internal/config"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/logging"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

type options struct {
	configPath  string
	checkConfig bool
	showVersion bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("cultiva-realtime", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", "", "path to config.yaml (overrides "+config.ConfigPathEnvVar+")")
	fs.BoolVar(&opts.checkConfig, "check-config", false, "validate the configuration and exit")
	fs.BoolVar(&opts.showVersion, "version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if opts.showVersion {
		fmt.Println(version)
		return
	}

	cfg, err := config.LoadWithKoanf(opts.configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if opts.checkConfig {
		logging.Info().Str("config", opts.configPath).Msg("Configuration is valid")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
	logging.Info().Msg("Application stopped gracefully")
}
