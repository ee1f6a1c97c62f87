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
	"os"
	"path/filepath"

	"github.com/RiiTag/riitag-core/pkg/config"
	"github.com/adrg/xdg"
)

const (
	// DataDirEnv overrides the directory holding the title databases and
	// id indexes.
	DataDirEnv = "RIITAG_DATA"
	// StateDirEnv overrides the directory holding the user database and logs.
	StateDirEnv = "RIITAG_STATE"
)

// ConfigDir is the directory the default config file lives in.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, config.AppName)
}

// DataDir is the default lookup table directory.
func DataDir() string {
	if v := os.Getenv(DataDirEnv); v != "" {
		return v
	}
	return filepath.Join(xdg.DataHome, config.AppName)
}

// StateDir holds mutable state: the user database and log files.
func StateDir() string {
	if v := os.Getenv(StateDirEnv); v != "" {
		return v
	}
	return filepath.Join(xdg.StateHome, config.AppName)
}

// UserDBPath returns the configured database path, or the default location
// in the state directory when none is set.
func UserDBPath(cfg *config.Instance) string {
	if p := cfg.DatabasePath(); p != "" {
		return p
	}
	return filepath.Join(StateDir(), config.UserDbFile)
}

// TitleDataDir returns the configured lookup table directory, falling back
// to DataDir.
func TitleDataDir(cfg *config.Instance) string {
	if d := cfg.DataDir(); d != "" {
		return d
	}
	return DataDir()
}
