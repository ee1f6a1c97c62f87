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

package fixtures

import (
	"time"

	"github.com/RiiTag/riitag-core/pkg/database"
)

// PlayedAt is the base timestamp used by the sample play log.
var PlayedAt = time.Date(2026, time.March, 14, 18, 30, 0, 0, time.UTC)

func NewUser(dbid int64, username string, coins int64) database.User {
	return database.User{
		DBID:      dbid,
		Username:  username,
		Coins:     coins,
		CreatedAt: PlayedAt.Add(-24 * time.Hour),
	}
}

func NewPlayLogEntry(id, gameID, console, name string, playedAt time.Time) database.PlayLogEntry {
	return database.PlayLogEntry{
		ID:       id,
		GameID:   gameID,
		Console:  console,
		GameName: name,
		PlayedAt: playedAt,
	}
}

// PlayLog is a newest-first play log for a single user.
func PlayLog() []database.PlayLogEntry {
	return []database.PlayLogEntry{
		NewPlayLogEntry("5b0c8c1e-0d6a-4c52-9a40-4a3b1d2e0c01", "0100152000022000", "Switch",
			"Mario Kart 8 Deluxe", PlayedAt),
		NewPlayLogEntry("5b0c8c1e-0d6a-4c52-9a40-4a3b1d2e0c02", "AMKP", "3DS",
			"Mario Kart 7", PlayedAt.Add(-time.Hour)),
		NewPlayLogEntry("5b0c8c1e-0d6a-4c52-9a40-4a3b1d2e0c03", "RMCE01", "Wii",
			"Mario Kart Wii, Special Edition", PlayedAt.Add(-2*time.Hour)),
	}
}
