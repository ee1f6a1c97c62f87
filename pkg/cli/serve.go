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

package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/RiiTag/riitag-core/pkg/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func (a *app) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	stop, done, err := service.Start(a.cfg)
	if err != nil {
		return fmt.Errorf("error starting service: %w", err)
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown requested")
	case <-done:
	}

	if err := stop(); err != nil {
		return fmt.Errorf("error stopping service: %w", err)
	}
	return nil
}
