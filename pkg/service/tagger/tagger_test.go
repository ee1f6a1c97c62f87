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

package tagger

import (
	"context"
	"errors"
	"testing"

	"github.com/RiiTag/riitag-core/pkg/database"
	"github.com/RiiTag/riitag-core/pkg/database/systemdefs"
	"github.com/RiiTag/riitag-core/pkg/datasource"
	"github.com/RiiTag/riitag-core/pkg/resolver"
	"github.com/RiiTag/riitag-core/pkg/testing/fixtures"
	"github.com/RiiTag/riitag-core/pkg/testing/helpers"
	"github.com/RiiTag/riitag-core/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestTagger(t *testing.T, defaultRegion string) (*Tagger, database.User) {
	t.Helper()
	userDB := helpers.NewInMemoryUserDB(t)
	user, err := userDB.AddUser("alice")
	require.NoError(t, err)
	return New(fixtures.NewTitleStore(t, nil), userDB, defaultRegion), user
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	tg, _ := newTestTagger(t, "EN")

	tests := []struct {
		err      error
		name     string
		report   PlayReport
		expected Play
	}{
		{
			name:     "wii id takes database name",
			report:   PlayReport{UserID: 1, Console: "Wii", GameID: "rmce01", GameName: "MKW"},
			expected: Play{UserID: 1, Console: "Wii", GameID: "RMCE01", GameName: "Mario Kart Wii"},
		},
		{
			name:     "unknown id keeps reported name",
			report:   PlayReport{UserID: 1, Console: "Dolphin", GameID: "zzzz01", GameName: "Homebrew"},
			expected: Play{UserID: 1, Console: "Wii", GameID: "ZZZZ01", GameName: "Homebrew"},
		},
		{
			name:   "unknown id without name",
			report: PlayReport{UserID: 1, Console: "Wii", GameID: "ZZZZ01"},
			err:    ErrGameNotResolved,
		},
		{
			name:   "wii needs an id",
			report: PlayReport{UserID: 1, Console: "Wii", GameName: "Mario Kart Wii"},
			err:    ErrNoResolver,
		},
		{
			name:   "switch name resolves id and title",
			report: PlayReport{UserID: 1, Console: "NX", GameName: "mario kart 8 deluxe", Region: "en"},
			expected: Play{
				UserID: 1, Console: "Switch", GameID: "0100152000022000", GameName: "Mario Kart 8 Deluxe",
			},
		},
		{
			name:     "default region applies",
			report:   PlayReport{UserID: 1, Console: "Switch", GameName: "Mario Kart 8 Deluxe"},
			expected: Play{UserID: 1, Console: "Switch", GameID: "0100152000022000", GameName: "Mario Kart 8 Deluxe"},
		},
		{
			name:     "3ds keeps reported name",
			report:   PlayReport{UserID: 1, Console: "Citra", GameName: "Mario Kart 7", Region: "EN"},
			expected: Play{UserID: 1, Console: "3DS", GameID: "AMKP", GameName: "Mario Kart 7"},
		},
		{
			name:   "unresolvable name",
			report: PlayReport{UserID: 1, Console: "WiiU", GameName: "Not A Game", Region: "EN"},
			err:    ErrGameNotResolved,
		},
		{
			name:   "unknown console",
			report: PlayReport{UserID: 1, Console: "GameCube", GameID: "GALE01"},
			err:    ErrUnknownConsole,
		},
		{
			name:   "missing user",
			report: PlayReport{Console: "Wii", GameID: "RMCE01"},
			err:    ErrInvalidReport,
		},
		{
			name:   "missing game",
			report: PlayReport{UserID: 1, Console: "Wii", GameID: "  "},
			err:    ErrInvalidReport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			play, err := tg.Prepare(context.Background(), tt.report)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, play)
		})
	}
}

func TestPrepareWithoutDefaultRegion(t *testing.T) {
	t.Parallel()

	tg, _ := newTestTagger(t, "")
	_, err := tg.Prepare(context.Background(), PlayReport{UserID: 1, Console: "Switch", GameName: "Mario Kart 8 Deluxe"})
	require.ErrorIs(t, err, ErrGameNotResolved)
}

func TestResolvePassesRegion(t *testing.T) {
	t.Parallel()

	r := &mocks.MockResolver{}
	r.On("Resolve", mock.Anything, "Some Game", resolver.RegionJP).Return("00050000abc", true).Once()
	r.On("Resolve", mock.Anything, "Some Game", resolver.RegionFR).Return("", false).Once()

	factory := func(console string, _ datasource.TitleStore) (resolver.Resolver, bool) {
		return r, console == systemdefs.SystemWiiU
	}
	tg := New(mocks.NewMockTitleStore(), helpers.NewMockUserDBI(), "fr", WithResolvers(factory))

	id, err := tg.Resolve(context.Background(), "cemu", "Some Game", " jp ")
	require.NoError(t, err)
	assert.Equal(t, "00050000abc", id)

	_, err = tg.Resolve(context.Background(), "WiiU", "Some Game", "")
	require.ErrorIs(t, err, ErrGameNotResolved)

	_, err = tg.Resolve(context.Background(), "3DS", "Some Game", "")
	require.ErrorIs(t, err, ErrNoResolver)

	r.AssertExpectations(t)
}

func TestTitle(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockTitleStore()
	store.ServeLines("wiiutdb.txt", "TITLES = x", "ARDE01 = Super Mario 3D World")
	tg := New(store, helpers.NewMockUserDBI(), "EN")

	name, err := tg.Title(context.Background(), "Wii U", "arde01")
	require.NoError(t, err)
	assert.Equal(t, "Super Mario 3D World", name)

	_, err = tg.Title(context.Background(), "WiiU", "NOPE01")
	require.ErrorIs(t, err, ErrGameNotResolved)

	_, err = tg.Title(context.Background(), "PS2", "SLUS")
	require.ErrorIs(t, err, ErrUnknownConsole)
}

func TestRecord(t *testing.T) {
	t.Parallel()

	tg, user := newTestTagger(t, "EN")
	ctx := context.Background()

	updated, err := tg.Record(ctx, PlayReport{UserID: user.DBID, Console: "Wii", GameID: "rmce01"})
	require.NoError(t, err)
	helpers.AssertValidUser(t, updated)
	assert.Equal(t, int64(1), updated.Coins)

	updated, err = tg.Record(ctx, PlayReport{UserID: user.DBID, Console: "Switch", GameName: "Mario Kart 8 Deluxe"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Coins)

	plays, err := tg.Plays(user.DBID, 10)
	require.NoError(t, err)
	require.Len(t, plays, 2)
	for _, p := range plays {
		helpers.AssertValidPlayLogEntry(t, p)
	}

	_, err = tg.Plays(user.DBID+50, 10)
	require.ErrorIs(t, err, database.ErrUserNotFound)
}

func TestRecordUnresolvedDoesNotWrite(t *testing.T) {
	t.Parallel()

	userDB := helpers.NewMockUserDBI()
	tg := New(fixtures.NewTitleStore(t, nil), userDB, "EN")

	_, err := tg.Record(context.Background(), PlayReport{UserID: 1, Console: "Switch", GameName: "Unknown"})
	require.ErrorIs(t, err, ErrGameNotResolved)
	userDB.AssertNotCalled(t, "UpsertGameAndIncrementUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordPropagatesPersistenceErrors(t *testing.T) {
	t.Parallel()

	diskErr := errors.New("disk full")
	userDB := helpers.NewMockUserDBI()
	userDB.On("UpsertGameAndIncrementUser", "RMCE01", "Wii", "Mario Kart Wii", int64(7)).
		Return(database.User{}, diskErr)
	tg := New(fixtures.NewTitleStore(t, nil), userDB, "EN")

	_, err := tg.Record(context.Background(), PlayReport{UserID: 7, Console: "Wii", GameID: "RMCE01"})
	require.ErrorIs(t, err, diskErr)
	assert.Contains(t, err.Error(), "failed to record play")
	userDB.AssertExpectations(t)
}

func TestRecordUnknownUser(t *testing.T) {
	t.Parallel()

	tg, user := newTestTagger(t, "EN")
	_, err := tg.Record(context.Background(), PlayReport{UserID: user.DBID + 1, Console: "Wii", GameID: "RMCE01"})
	require.ErrorIs(t, err, database.ErrUserNotFound)
}
