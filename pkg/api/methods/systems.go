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

package methods

import (
	"net/http"

	"github.com/RiiTag/riitag-core/pkg/api/models"
	"github.com/RiiTag/riitag-core/pkg/database/systemdefs"
)

// HandleSystems lists the consoles play reports are accepted from.
func HandleSystems(w http.ResponseWriter, _ *http.Request) {
	all := systemdefs.AllSystems()
	resp := models.SystemsResponse{Systems: make([]models.System, 0, len(all))}
	for _, s := range all {
		resp.Systems = append(resp.Systems, models.System{
			ID:      s.ID,
			Name:    s.Name,
			Aliases: s.Aliases,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
