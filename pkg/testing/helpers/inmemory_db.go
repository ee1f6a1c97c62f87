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
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/RiiTag/riitag-core/pkg/database/userdb"
	_ "github.com/mattn/go-sqlite3"
)

// NewInMemoryUserDB returns a migrated UserDB in a temp file that is
// closed when the test ends.
func NewInMemoryUserDB(t *testing.T) *userdb.UserDB {
	t.Helper()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "userdb_test.db")

	sqlDB, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=ON&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	db := &userdb.UserDB{}
	err = db.SetSQLForTesting(ctx, sqlDB)
	if err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			t.Errorf("Failed to close SQL database after setup error: %v", closeErr)
		}
		t.Fatalf("Failed to set up UserDB for testing: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close UserDB: %v", err)
		}
	})

	return db
}
