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

package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RiiTag/riitag-core/pkg/database"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultPlayLogLimit = 25

// sqlUpsertGameAndIncrementUser records a play in one transaction: the
// game row is created with a play count of one or renamed and counted
// again, the user's coins go up by one and a play log row is appended.
// Nothing is kept if any step fails.
func sqlUpsertGameAndIncrementUser(
	ctx context.Context,
	db *sql.DB,
	gameID, console, gameName string,
	userDBID int64,
	now time.Time,
) (database.User, error) {
	gameID = strings.ToUpper(gameID)
	ts := now.Unix()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return database.User{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Warn().Err(rbErr).Msg("failed to rollback play record")
		}
	}()

	var gameDBID int64
	err = tx.QueryRowContext(ctx, `
		insert into Games(GameID, Console, Name, PlayCount, FirstPlayed, LastPlayed)
		values (?, ?, ?, 1, ?, ?)
		on conflict (GameID, Console) do update set
			Name = excluded.Name,
			PlayCount = PlayCount + 1,
			LastPlayed = excluded.LastPlayed
		returning DBID;
	`, gameID, console, gameName, ts, ts).Scan(&gameDBID)
	if err != nil {
		return database.User{}, fmt.Errorf("failed to upsert game: %w", err)
	}

	user, err := scanUser(tx.QueryRowContext(ctx, `
		update Users set Coins = Coins + 1
		where DBID = ?
		returning DBID, Username, Coins, CreatedAt;
	`, userDBID))
	if errors.Is(err, sql.ErrNoRows) {
		return database.User{}, fmt.Errorf("%w: %d", database.ErrUserNotFound, userDBID)
	} else if err != nil {
		return database.User{}, fmt.Errorf("failed to increment user coins: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		insert into PlayLog(ID, GameDBID, UserDBID, PlayedAt)
		values (?, ?, ?, ?);
	`, uuid.NewString(), gameDBID, userDBID, ts)
	if err != nil {
		return database.User{}, fmt.Errorf("failed to append play log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return database.User{}, fmt.Errorf("failed to commit play record: %w", err)
	}
	committed = true

	log.Debug().
		Str("gameId", gameID).
		Str("console", console).
		Int64("userId", user.DBID).
		Int64("coins", user.Coins).
		Msg("recorded play")
	return user, nil
}

func sqlGetGame(ctx context.Context, db *sql.DB, gameID, console string) (database.Game, error) {
	var (
		game        database.Game
		first, last int64
	)
	err := db.QueryRowContext(ctx, `
		select DBID, GameID, Console, Name, PlayCount, FirstPlayed, LastPlayed
		from Games
		where GameID = ? and Console = ?;
	`, strings.ToUpper(gameID), console).Scan(
		&game.DBID,
		&game.GameID,
		&game.Console,
		&game.Name,
		&game.PlayCount,
		&first,
		&last,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return database.Game{}, fmt.Errorf("%w: %s/%s", database.ErrGameNotFound, console, gameID)
	} else if err != nil {
		return database.Game{}, fmt.Errorf("failed to get game: %w", err)
	}
	game.FirstPlayed = time.Unix(first, 0)
	game.LastPlayed = time.Unix(last, 0)
	return game, nil
}

func sqlGetPlayLog(ctx context.Context, db *sql.DB, userDBID int64, limit int) ([]database.PlayLogEntry, error) {
	if limit <= 0 {
		limit = defaultPlayLogLimit
	}
	list := make([]database.PlayLogEntry, 0, limit)

	q, err := db.PrepareContext(ctx, `
		select
		p.DBID, p.ID, p.GameDBID, p.UserDBID, p.PlayedAt,
		g.GameID, g.Console, g.Name
		from PlayLog p
		join Games g on g.DBID = p.GameDBID
		where p.UserDBID = ?
		order by p.PlayedAt desc, p.DBID desc
		limit ?;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare play log query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx, userDBID, limit)
	if err != nil {
		return list, fmt.Errorf("failed to query play log: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()
	for rows.Next() {
		row := database.PlayLogEntry{}
		var playedAt int64
		scanErr := rows.Scan(
			&row.DBID,
			&row.ID,
			&row.GameDBID,
			&row.UserDBID,
			&playedAt,
			&row.GameID,
			&row.Console,
			&row.GameName,
		)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan play log row: %w", scanErr)
		}
		row.PlayedAt = time.Unix(playedAt, 0)
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating play log rows: %w", err)
	}
	return list, nil
}
