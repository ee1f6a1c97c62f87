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

// Package helpers provides testing utilities for the database, the
// filesystem and the HTTP API.
//
// Example usage:
//
//	func TestRecordPlay(t *testing.T) {
//		userDB := helpers.NewMockUserDBI()
//		userDB.On("UpsertGameAndIncrementUser", "RMCE01", "Wii", "Mario Kart Wii", int64(1)).
//			Return(database.User{DBID: 1, Coins: 1}, nil)
//
//		user, err := RecordPlay(userDB)
//
//		require.NoError(t, err)
//		userDB.AssertExpectations(t)
//	}
package helpers

import (
	"database/sql"
	"fmt"

	"github.com/RiiTag/riitag-core/pkg/database"
	"github.com/stretchr/testify/mock"
)

// MockUserDBI is a mock implementation of the UserDBI interface using testify/mock
type MockUserDBI struct {
	mock.Mock
}

var _ database.UserDBI = (*MockUserDBI)(nil)

func NewMockUserDBI() *MockUserDBI {
	return &MockUserDBI{}
}

// GenericDBI methods
func (m *MockUserDBI) Open() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI open failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) UnsafeGetSQLDb() *sql.DB {
	args := m.Called()
	if db, ok := args.Get(0).(*sql.DB); ok {
		return db
	}
	return nil
}

func (m *MockUserDBI) Truncate() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI truncate failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) Allocate() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI allocate failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) MigrateUp() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI migrate up failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) Vacuum() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI vacuum failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) Close() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI close failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) GetDBPath() string {
	args := m.Called()
	return args.String(0)
}

// UserDBI methods
func (m *MockUserDBI) AddUser(username string) (database.User, error) {
	args := m.Called(username)
	user, _ := args.Get(0).(database.User)
	if err := args.Error(1); err != nil {
		return user, fmt.Errorf("mock UserDBI add user failed: %w", err)
	}
	return user, nil
}

func (m *MockUserDBI) GetUser(dbid int64) (database.User, error) {
	args := m.Called(dbid)
	user, _ := args.Get(0).(database.User)
	if err := args.Error(1); err != nil {
		return user, fmt.Errorf("mock UserDBI get user failed: %w", err)
	}
	return user, nil
}

func (m *MockUserDBI) GetUserByName(username string) (database.User, error) {
	args := m.Called(username)
	user, _ := args.Get(0).(database.User)
	if err := args.Error(1); err != nil {
		return user, fmt.Errorf("mock UserDBI get user by name failed: %w", err)
	}
	return user, nil
}

func (m *MockUserDBI) GetGame(gameID, console string) (database.Game, error) {
	args := m.Called(gameID, console)
	game, _ := args.Get(0).(database.Game)
	if err := args.Error(1); err != nil {
		return game, fmt.Errorf("mock UserDBI get game failed: %w", err)
	}
	return game, nil
}

func (m *MockUserDBI) UpsertGameAndIncrementUser(
	gameID, console, gameName string,
	userDBID int64,
) (database.User, error) {
	args := m.Called(gameID, console, gameName, userDBID)
	user, _ := args.Get(0).(database.User)
	if err := args.Error(1); err != nil {
		return user, fmt.Errorf("mock UserDBI upsert failed: %w", err)
	}
	return user, nil
}

func (m *MockUserDBI) GetPlayLog(userDBID int64, limit int) ([]database.PlayLogEntry, error) {
	args := m.Called(userDBID, limit)
	entries, _ := args.Get(0).([]database.PlayLogEntry)
	if err := args.Error(1); err != nil {
		return entries, fmt.Errorf("mock UserDBI get play log failed: %w", err)
	}
	return entries, nil
}
