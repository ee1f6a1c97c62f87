// RiiTag Core
// Copyright (c) 2026 The RiiTag Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of RiiTag Core.
//
// RiiTag Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RiiTag Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RiiTag Core.  If not, see <http://www.gnu.org/licenses/>.

// Package cli implements the riitag command line: the API server plus
// one-shot lookup, play recording and export commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/RiiTag/riitag-core/internal/telemetry"
	"github.com/RiiTag/riitag-core/pkg/config"
	"github.com/RiiTag/riitag-core/pkg/helpers"
	"github.com/RiiTag/riitag-core/pkg/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Options controls process level concerns the commands don't own.
type Options struct {
	// Stderr receives console logs from serve. Nil disables them.
	Stderr io.Writer
	// LogDir is where the rotating log file is written. Empty disables
	// file logging.
	LogDir string
}

type app struct {
	cfg        *config.Instance
	opts       Options
	configPath string
	debug      bool
}

// NewRootCommand builds the riitag command tree.
func NewRootCommand(opts Options) *cobra.Command {
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Resolve Nintendo game identities and record plays",
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Name() == "serve")
		},
	}

	root.PersistentFlags().StringVarP(
		&a.configPath,
		"config",
		"c",
		"",
		"path to config file",
	)
	root.PersistentFlags().BoolVar(
		&a.debug,
		"debug",
		false,
		"enable debug logging",
	)

	root.AddCommand(
		a.serveCommand(),
		a.titleCommand(),
		a.resolveCommand(),
		a.playCommand(),
		a.userCommand(),
		a.playsCommand(),
	)
	return root
}

// setup loads the config and initializes logging. Console logs are only
// attached for the long running server.
func (a *app) setup(console bool) error {
	var (
		cfg *config.Instance
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFile(a.configPath, config.BaseDefaults)
	} else {
		cfg, err = config.NewConfig(helpers.ConfigDir(), config.BaseDefaults)
	}
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	a.cfg = cfg

	debug := a.debug || cfg.DebugLogging()
	if a.opts.LogDir != "" {
		var writers []io.Writer
		if console && a.opts.Stderr != nil {
			writers = append(writers, zerolog.ConsoleWriter{Out: a.opts.Stderr})
		}
		if err := helpers.InitLogging(a.opts.LogDir, debug, writers); err != nil {
			return fmt.Errorf("error initializing logging: %w", err)
		}
	}
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := telemetry.Init(telemetry.Options{
		Enabled:     cfg.ErrorReporting(),
		DSN:         cfg.ErrorReportingDSN(),
		Environment: cfg.ErrorReportingEnvironment(),
		Release:     config.AppVersion,
	}); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}
	return nil
}

// withEnv opens the service environment for the length of fn.
func (a *app) withEnv(ctx context.Context, fn func(env *service.Env) error) (err error) {
	env, err := service.Open(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("error opening environment: %w", err)
	}
	defer func() {
		if closeErr := env.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(env)
}

// Execute runs the command line against os.Args and returns the exit code.
func Execute() int {
	defer telemetry.Close()

	root := NewRootCommand(Options{
		Stderr: os.Stderr,
		LogDir: helpers.StateDir(),
	})
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}
