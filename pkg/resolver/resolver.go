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

// Package resolver maps a reported display name and region hint to a
// canonical game id for the consoles whose clients only know the name.
//
// Every resolver is read-only and safe for concurrent use. A miss, a
// missing table or a malformed table all come back as ("", false).
package resolver

import (
	"context"

	"github.com/RiiTag/riitag-core/pkg/database/systemdefs"
	"github.com/RiiTag/riitag-core/pkg/datasource"
)

type Resolver interface {
	Resolve(ctx context.Context, displayName string, region Region) (string, bool)
}

// ForConsole returns the resolver for a console id. The Wii reports ids
// directly and has none.
func ForConsole(console string, store datasource.TitleStore) (Resolver, bool) {
	switch console {
	case systemdefs.SystemSwitch:
		return NewSwitchResolver(store), true
	case systemdefs.System3DS:
		return NewCTRResolver(store), true
	case systemdefs.SystemWiiU:
		return NewWiiUResolver(store), true
	default:
		return nil, false
	}
}
