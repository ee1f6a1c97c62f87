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
	"strings"

	"github.com/RiiTag/riitag-core/pkg/api/models"
	"github.com/RiiTag/riitag-core/pkg/api/validation"
	"github.com/RiiTag/riitag-core/pkg/service/tagger"
	"github.com/go-chi/chi/v5"
)

// HandleTitle serves GET /api/v1/titles/{console}/{gameID}.
func HandleTitle(t Tagger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		console, err := tagger.CanonicalConsole(chi.URLParam(r, "console"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		gameID := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "gameID")))

		name, err := t.Title(r.Context(), console, gameID)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, models.TitleResponse{
			Console: console,
			GameID:  gameID,
			Name:    name,
		})
	}
}

// HandleResolve serves GET /api/v1/resolve/{console}?name=&region=.
func HandleResolve(t Tagger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := models.ResolveQuery{
			Console: chi.URLParam(r, "console"),
			Name:    strings.TrimSpace(r.URL.Query().Get("name")),
			Region:  r.URL.Query().Get("region"),
		}
		if err := validation.DefaultValidator.Validate(&q); err != nil {
			writeError(w, r, err)
			return
		}
		console, err := tagger.CanonicalConsole(q.Console)
		if err != nil {
			writeError(w, r, err)
			return
		}

		id, err := t.Resolve(r.Context(), console, q.Name, q.Region)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, models.ResolveResponse{
			Console: console,
			GameID:  id,
		})
	}
}
