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

package helpers

import (
	"strings"
	"testing"

	"github.com/RiiTag/riitag-core/pkg/database"
	"github.com/stretchr/testify/require"
)

// AssertValidUser checks the fields every stored user must have.
func AssertValidUser(t *testing.T, user database.User) {
	t.Helper()

	require.Positive(t, user.DBID, "User.DBID must be set")
	require.NotEmpty(t, user.Username, "User.Username is required")
	require.False(t, user.CreatedAt.IsZero(), "User.CreatedAt must be set")
	require.GreaterOrEqual(t, user.Coins, int64(0), "User.Coins cannot be negative")
}

// AssertValidPlayLogEntry checks a play log row returned with its game.
func AssertValidPlayLogEntry(t *testing.T, entry database.PlayLogEntry) {
	t.Helper()

	require.NotEmpty(t, entry.ID, "PlayLogEntry.ID is required")
	require.False(t, entry.PlayedAt.IsZero(), "PlayLogEntry.PlayedAt must be set")
	require.NotEmpty(t, entry.GameID, "PlayLogEntry.GameID is required")
	require.NotEmpty(t, entry.Console, "PlayLogEntry.Console is required")
	require.Equal(t, entry.GameID, strings.ToUpper(entry.GameID), "PlayLogEntry.GameID must be uppercase")
}

