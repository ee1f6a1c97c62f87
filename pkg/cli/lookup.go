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
	"fmt"
	"strings"

	"github.com/RiiTag/riitag-core/pkg/service"
	"github.com/spf13/cobra"
)

func (a *app) titleCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "title <console> <game id>",
		Short:   "Print the display name for a game id",
		Example: "  riitag title wii RMCE01",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEnv(cmd.Context(), func(env *service.Env) error {
				name, err := env.Tagger.Title(cmd.Context(), args[0], args[1])
				if err != nil {
					return err //nolint:wrapcheck // already describes the lookup
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), name)
				return err //nolint:wrapcheck // terminal write
			})
		},
	}
}

func (a *app) resolveCommand() *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:     "resolve <console> <name>",
		Short:   "Print the game id for a display name",
		Example: `  riitag resolve switch "Mario Kart 8 Deluxe" --region FR`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args[1:], " ")
			return a.withEnv(cmd.Context(), func(env *service.Env) error {
				id, err := env.Tagger.Resolve(cmd.Context(), args[0], name, region)
				if err != nil {
					return err //nolint:wrapcheck // already describes the lookup
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
				return err //nolint:wrapcheck // terminal write
			})
		},
	}

	cmd.Flags().StringVarP(&region, "region", "r", "", "two letter region hint (default from config)")
	return cmd
}
