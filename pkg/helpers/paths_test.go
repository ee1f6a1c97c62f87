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
	"path/filepath"
	"testing"

	"github.com/RiiTag/riitag-core/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs_EnvOverrides(t *testing.T) {
	data := t.TempDir()
	state := t.TempDir()
	t.Setenv(DataDirEnv, data)
	t.Setenv(StateDirEnv, state)

	assert.Equal(t, data, DataDir())
	assert.Equal(t, state, StateDir())
	assert.Equal(t, config.AppName, filepath.Base(ConfigDir()))
}

func TestDirs_Defaults(t *testing.T) {
	t.Setenv(DataDirEnv, "")
	t.Setenv(StateDirEnv, "")

	assert.Equal(t, config.AppName, filepath.Base(DataDir()))
	assert.Equal(t, config.AppName, filepath.Base(StateDir()))
}

func TestUserDBPath(t *testing.T) {
	state := t.TempDir()
	t.Setenv(StateDirEnv, state)

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), config.CfgFile), config.BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(state, config.UserDbFile), UserDBPath(cfg))
	assert.Equal(t, DataDir(), TitleDataDir(cfg))

	vals := config.BaseDefaults
	vals.Database.Path = "/srv/riitag/users.db"
	vals.Data.Dir = "/srv/riitag/data"
	cfg, err = config.LoadFile(filepath.Join(t.TempDir(), config.CfgFile), vals)
	require.NoError(t, err)
	assert.Equal(t, "/srv/riitag/users.db", UserDBPath(cfg))
	assert.Equal(t, "/srv/riitag/data", TitleDataDir(cfg))
}
