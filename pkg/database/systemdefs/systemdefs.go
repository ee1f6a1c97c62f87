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

package systemdefs

import (
	"fmt"
	"sort"
	"strings"
)

// The Systems list contains the consoles RiiTag accepts play reports from.
// Each console has its own id format, title database and region
// conventions; the resolver packages key off these IDs.

type System struct {
	ID      string
	Name    string
	Aliases []string
}

// GetSystem looks up an exact system definition by ID.
func GetSystem(id string) (*System, error) {
	if system, ok := Systems[id]; ok {
		return &system, nil
	}
	return nil, fmt.Errorf("unknown system: %s", id)
}

// LookupSystem case-insensitively looks up system ID definition including aliases.
func LookupSystem(id string) (*System, error) {
	id = strings.TrimSpace(id)
	for k, v := range Systems {
		if strings.EqualFold(k, id) {
			return &v, nil
		}

		for _, alias := range v.Aliases {
			if strings.EqualFold(alias, id) {
				return &v, nil
			}
		}
	}

	return nil, fmt.Errorf("unknown system: %s", id)
}

func AllSystems() []System {
	keys := make([]string, 0, len(Systems))
	for k := range Systems {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	systems := make([]System, 0, len(keys))
	for _, k := range keys {
		systems = append(systems, Systems[k])
	}
	return systems
}

const (
	SystemWii    = "Wii"
	SystemWiiU   = "WiiU"
	System3DS    = "3DS"
	SystemSwitch = "Switch"
)

var Systems = map[string]System{
	SystemWii: {
		ID:      SystemWii,
		Name:    "Wii",
		Aliases: []string{"NintendoWii", "RVL", "Dolphin"},
	},
	SystemWiiU: {
		ID:      SystemWiiU,
		Name:    "Wii U",
		Aliases: []string{"NintendoWiiU", "Wii U", "WUP", "Cemu"},
	},
	System3DS: {
		ID:      System3DS,
		Name:    "Nintendo 3DS",
		Aliases: []string{"Nintendo3DS", "CTR", "Citra"},
	},
	SystemSwitch: {
		ID:      SystemSwitch,
		Name:    "Nintendo Switch",
		Aliases: []string{"NintendoSwitch", "NX", "HAC"},
	},
}
