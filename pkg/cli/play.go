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
	"errors"
	"fmt"

	"github.com/RiiTag/riitag-core/pkg/service"
	"github.com/RiiTag/riitag-core/pkg/service/tagger"
	"github.com/spf13/cobra"
)

type playFlags struct {
	user    string
	console string
	id      string
	name    string
	region  string
}

func (a *app) playCommand() *cobra.Command {
	var f playFlags

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Record a play for a user",
		Example: "  riitag play --user alice --console wii --id RMCE01\n" +
			`  riitag play --user alice --console 3ds --name "Mario Kart 7" --region JP`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.id == "" && f.name == "" {
				return errors.New("one of --id or --name is required")
			}
			return a.withEnv(cmd.Context(), func(env *service.Env) error {
				user, err := env.DB.UserDB.GetUserByName(f.user)
				if err != nil {
					return fmt.Errorf("error finding user: %w", err)
				}

				play, err := env.Tagger.Prepare(cmd.Context(), tagger.PlayReport{
					Console:  f.console,
					GameID:   f.id,
					GameName: f.name,
					Region:   f.region,
					UserID:   user.DBID,
				})
				if err != nil {
					return err //nolint:wrapcheck // already describes the report
				}
				user, err = env.Tagger.Store(play)
				if err != nil {
					return err //nolint:wrapcheck // already wrapped by the tagger
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s played %s (%s %s), coins: %d\n",
					user.Username, play.GameName, play.Console, play.GameID, user.Coins)
				return err //nolint:wrapcheck // terminal write
			})
		},
	}

	cmd.Flags().StringVarP(&f.user, "user", "u", "", "username")
	cmd.Flags().StringVar(&f.console, "console", "", "console id or alias")
	cmd.Flags().StringVar(&f.id, "id", "", "game id as reported by the console")
	cmd.Flags().StringVar(&f.name, "name", "", "game display name")
	cmd.Flags().StringVarP(&f.region, "region", "r", "", "two letter region hint")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("console")
	return cmd
}
