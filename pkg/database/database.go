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

package database

import (
	"database/sql"
	"errors"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrGameNotFound = errors.New("game not found")
)

// Database groups the database handles passed to services.
type Database struct {
	UserDB UserDBI
}

/*
 * Structs for SQL records
 */

type User struct {
	CreatedAt time.Time `json:"createdAt"`
	Username  string    `json:"username"`
	DBID      int64     `json:"id"`
	Coins     int64     `json:"coins"`
}

// Game is a title some user has played, unique per (GameID, Console).
type Game struct {
	FirstPlayed time.Time `json:"firstPlayed"`
	LastPlayed  time.Time `json:"lastPlayed"`
	GameID      string    `json:"gameId"`
	Console     string    `json:"console"`
	Name        string    `json:"name"`
	DBID        int64     `json:"id"`
	PlayCount   int64     `json:"playCount"`
}

// PlayLogEntry is one recorded play joined with its game.
type PlayLogEntry struct {
	PlayedAt time.Time `csv:"played_at" json:"playedAt"`
	ID       string    `csv:"id"        json:"id"`
	GameID   string    `csv:"game_id"   json:"gameId"`
	Console  string    `csv:"console"   json:"console"`
	GameName string    `csv:"game_name" json:"gameName"`
	DBID     int64     `csv:"-"         json:"-"`
	GameDBID int64     `csv:"-"         json:"-"`
	UserDBID int64     `csv:"-"         json:"-"`
}

/*
 * Interfaces for external deps
 */

type GenericDBI interface {
	Open() error
	UnsafeGetSQLDb() *sql.DB
	Truncate() error
	Allocate() error
	MigrateUp() error
	Vacuum() error
	Close() error
	GetDBPath() string
}

type UserDBI interface {
	GenericDBI
	AddUser(username string) (User, error)
	GetUser(dbid int64) (User, error)
	GetUserByName(username string) (User, error)
	GetGame(gameID, console string) (Game, error)
	// UpsertGameAndIncrementUser records a play of the game and credits
	// the user in one transaction, returning the updated user.
	UpsertGameAndIncrementUser(gameID, console, gameName string, userDBID int64) (User, error)
	GetPlayLog(userDBID int64, limit int) ([]PlayLogEntry, error)
}
