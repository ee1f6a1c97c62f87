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
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RiiTag/riitag-core/pkg/database"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run user database migrations: %w", err)
	}
	return nil
}

func sqlAllocate(db *sql.DB) error {
	return sqlMigrateUp(db)
}

//goland:noinspection SqlWithoutWhere
func sqlTruncate(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	delete from PlayLog;
	delete from Games;
	delete from Users;
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to truncate database: %w", err)
	}
	return nil
}

func sqlVacuum(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `vacuum;`)
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func sqlAddUser(ctx context.Context, db *sql.DB, username string, now time.Time) (database.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return database.User{}, errors.New("username is empty")
	}

	stmt, err := db.PrepareContext(ctx, `
		insert into Users(Username, Coins, CreatedAt)
		values (?, 0, ?)
		returning DBID;
	`)
	if err != nil {
		return database.User{}, fmt.Errorf("failed to prepare user insert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	user := database.User{
		Username:  username,
		CreatedAt: time.Unix(now.Unix(), 0),
	}
	err = stmt.QueryRowContext(ctx, username, now.Unix()).Scan(&user.DBID)
	if isUniqueViolation(err) {
		return database.User{}, fmt.Errorf("%w: %s", database.ErrUserExists, username)
	} else if err != nil {
		return database.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	log.Info().Int64("userId", user.DBID).Str("username", username).Msg("added user")
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (database.User, error) {
	var (
		user    database.User
		created int64
	)
	if err := row.Scan(&user.DBID, &user.Username, &user.Coins, &created); err != nil {
		return database.User{}, err //nolint:wrapcheck // callers wrap with context
	}
	user.CreatedAt = time.Unix(created, 0)
	return user, nil
}

func sqlGetUser(ctx context.Context, db *sql.DB, dbid int64) (database.User, error) {
	row := db.QueryRowContext(ctx, `
		select DBID, Username, Coins, CreatedAt
		from Users
		where DBID = ?;
	`, dbid)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return database.User{}, fmt.Errorf("%w: %d", database.ErrUserNotFound, dbid)
	} else if err != nil {
		return database.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func sqlGetUserByName(ctx context.Context, db *sql.DB, username string) (database.User, error) {
	row := db.QueryRowContext(ctx, `
		select DBID, Username, Coins, CreatedAt
		from Users
		where Username = ?;
	`, strings.TrimSpace(username))
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return database.User{}, fmt.Errorf("%w: %s", database.ErrUserNotFound, username)
	} else if err != nil {
		return database.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
