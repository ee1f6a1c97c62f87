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
	"io"
	"os"

	"github.com/RiiTag/riitag-core/pkg/database"
	"github.com/RiiTag/riitag-core/pkg/service"
	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

func (a *app) playsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plays",
		Short: "Inspect recorded plays",
	}

	var (
		user  string
		out   string
		limit int
	)
	export := &cobra.Command{
		Use:     "export",
		Short:   "Export a user's play log as CSV",
		Example: "  riitag plays export --user alice --out plays.csv",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEnv(cmd.Context(), func(env *service.Env) error {
				u, err := env.DB.UserDB.GetUserByName(user)
				if err != nil {
					return fmt.Errorf("error finding user: %w", err)
				}
				plays, err := env.Tagger.Plays(u.DBID, limit)
				if err != nil {
					return err //nolint:wrapcheck // already wrapped by the tagger
				}

				w := cmd.OutOrStdout()
				if out != "" && out != "-" {
					f, err := os.Create(out) //nolint:gosec // user supplied export path
					if err != nil {
						return fmt.Errorf("error creating export file: %w", err)
					}
					defer func() { _ = f.Close() }()
					w = f
				}
				if err := writePlaysCSV(w, plays); err != nil {
					return err
				}
				if w != cmd.OutOrStdout() {
					_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %d plays to %s\n", len(plays), out)
					return err //nolint:wrapcheck // terminal write
				}
				return nil
			})
		},
	}
	export.Flags().StringVarP(&user, "user", "u", "", "username")
	export.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	export.Flags().IntVarP(&limit, "limit", "n", 500, "maximum number of plays, newest first")
	_ = export.MarkFlagRequired("user")

	cmd.AddCommand(export)
	return cmd
}

func writePlaysCSV(w io.Writer, plays []database.PlayLogEntry) error {
	if err := gocsv.Marshal(plays, w); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}
	return nil
}
