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
	"os"
	"path/filepath"

	"github.com/RiiTag/riitag-core/pkg/database"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

var ErrNullSQL = errors.New("UserDB is not connected")

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000&_foreign_keys=ON&_txlock=immediate"

type UserDB struct {
	sql   *sql.DB
	ctx   context.Context
	clock clockwork.Clock
	path  string
}

var _ database.UserDBI = (*UserDB)(nil)

// OpenUserDB opens the database at path, creating it if needed, and
// applies pending migrations. On error the handle is closed and nil is
// returned.
func OpenUserDB(ctx context.Context, path string) (*UserDB, error) {
	db := &UserDB{ctx: ctx, path: path, clock: clockwork.NewRealClock()}
	if err := db.Open(); err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing user database after failed migration")
		}
		return nil, err
	}
	return db, nil
}

func (db *UserDB) Open() error {
	if _, err := os.Stat(db.path); err != nil {
		if mkdirErr := os.MkdirAll(filepath.Dir(db.path), 0o750); mkdirErr != nil {
			return fmt.Errorf("failed to create directory for database: %w", mkdirErr)
		}
	}
	sqlInstance, err := sql.Open("sqlite3", db.path+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance
	return nil
}

func (db *UserDB) GetDBPath() string {
	return db.path
}

func (db *UserDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *UserDB) Truncate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlTruncate(db.ctx, db.sql)
}

func (db *UserDB) Allocate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAllocate(db.sql)
}

func (db *UserDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *UserDB) Vacuum() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

func (db *UserDB) Close() error {
	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetSQLForTesting injects a sql.DB and allocates the schema. Only for
// tests.
func (db *UserDB) SetSQLForTesting(ctx context.Context, sqlDB *sql.DB) error {
	db.sql = sqlDB
	db.ctx = ctx
	if db.clock == nil {
		db.clock = clockwork.NewRealClock()
	}
	return db.Allocate()
}

// SetClockForTesting replaces the clock used for timestamps.
func (db *UserDB) SetClockForTesting(clock clockwork.Clock) {
	db.clock = clock
}

func (db *UserDB) AddUser(username string) (database.User, error) {
	if db.sql == nil {
		return database.User{}, ErrNullSQL
	}
	return sqlAddUser(db.ctx, db.sql, username, db.clock.Now())
}

func (db *UserDB) GetUser(dbid int64) (database.User, error) {
	if db.sql == nil {
		return database.User{}, ErrNullSQL
	}
	return sqlGetUser(db.ctx, db.sql, dbid)
}

func (db *UserDB) GetUserByName(username string) (database.User, error) {
	if db.sql == nil {
		return database.User{}, ErrNullSQL
	}
	return sqlGetUserByName(db.ctx, db.sql, username)
}

func (db *UserDB) GetGame(gameID, console string) (database.Game, error) {
	if db.sql == nil {
		return database.Game{}, ErrNullSQL
	}
	return sqlGetGame(db.ctx, db.sql, gameID, console)
}

func (db *UserDB) UpsertGameAndIncrementUser(
	gameID, console, gameName string,
	userDBID int64,
) (database.User, error) {
	if db.sql == nil {
		return database.User{}, ErrNullSQL
	}
	return sqlUpsertGameAndIncrementUser(db.ctx, db.sql, gameID, console, gameName, userDBID, db.clock.Now())
}

func (db *UserDB) GetPlayLog(userDBID int64, limit int) ([]database.PlayLogEntry, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlGetPlayLog(db.ctx, db.sql, userDBID, limit)
}
