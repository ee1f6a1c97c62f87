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

// Package titles resolves game ids to display names using the GameTDB
// text title databases.
package titles

import (
	"context"
	"errors"
	"strings"

	"github.com/RiiTag/riitag-core/pkg/database/systemdefs"
	"github.com/RiiTag/riitag-core/pkg/datasource"
	"github.com/rs/zerolog/log"
)

// Database is the file name of a GameTDB title list.
type Database string

const (
	WiiTDB    Database = "wiitdb.txt"
	WiiUTDB   Database = "wiiutdb.txt"
	CTRTDB    Database = "3dstdb.txt"
	SwitchTDB Database = "switchtdb.txt"
)

const separator = " = "

// Lookup returns the name of the first line in db starting with the
// uppercased game id. Scanning stops at the first matching line, even when
// that line has no name.
func Lookup(ctx context.Context, store datasource.TitleStore, db Database, gameID string) (string, bool) {
	prefix := strings.ToUpper(gameID)

	var (
		name  string
		found bool
	)
	err := store.ScanLines(ctx, string(db), func(line string) bool {
		if !strings.HasPrefix(line, prefix) {
			return true
		}
		_, name, found = strings.Cut(line, separator)
		return false
	})
	switch {
	case errors.Is(err, datasource.ErrNotFound):
		log.Debug().Str("db", string(db)).Msg("title database missing")
		return "", false
	case err != nil:
		log.Warn().Err(err).Str("db", string(db)).Str("gameId", prefix).Msg("failed to read title database")
		return "", false
	}

	if !found {
		log.Debug().Str("db", string(db)).Str("gameId", prefix).Msg("game id not in title database")
		return "", false
	}
	return name, true
}

func WiiGameName(ctx context.Context, store datasource.TitleStore, gameID string) (string, bool) {
	return Lookup(ctx, store, WiiTDB, gameID)
}

func WiiUGameName(ctx context.Context, store datasource.TitleStore, gameID string) (string, bool) {
	return Lookup(ctx, store, WiiUTDB, gameID)
}

func CTRGameName(ctx context.Context, store datasource.TitleStore, gameID string) (string, bool) {
	return Lookup(ctx, store, CTRTDB, gameID)
}

func SwitchGameName(ctx context.Context, store datasource.TitleStore, gameID string) (string, bool) {
	return Lookup(ctx, store, SwitchTDB, gameID)
}

// ForConsole returns the title database for a console id.
func ForConsole(console string) (Database, bool) {
	switch console {
	case systemdefs.SystemWii:
		return WiiTDB, true
	case systemdefs.SystemWiiU:
		return WiiUTDB, true
	case systemdefs.System3DS:
		return CTRTDB, true
	case systemdefs.SystemSwitch:
		return SwitchTDB, true
	default:
		return "", false
	}
}
