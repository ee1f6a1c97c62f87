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
	"strconv"

	"github.com/RiiTag/riitag-core/pkg/api/models"
	"github.com/RiiTag/riitag-core/pkg/api/validation"
	"github.com/RiiTag/riitag-core/pkg/service/tagger"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// HandlePlay serves POST /api/v1/plays and responds with the updated user.
func HandlePlay(t Tagger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.PlayRequest
		if err := validation.DecodeAndValidate(r.Body, &req); err != nil {
			writeError(w, r, err)
			return
		}

		log.Info().
			Str("console", req.Console).
			Str("gameId", req.GameID).
			Str("gameName", req.GameName).
			Int64("userId", req.UserID).
			Msg("received play report")

		user, err := t.Record(r.Context(), tagger.PlayReport{
			Console:  req.Console,
			GameID:   req.GameID,
			GameName: req.GameName,
			Region:   req.Region,
			UserID:   req.UserID,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, models.UserResponse{
			CreatedAt: user.CreatedAt,
			Username:  user.Username,
			ID:        user.DBID,
			Coins:     user.Coins,
		})
	}
}

// HandlePlays serves GET /api/v1/users/{userID}/plays?limit=.
func HandlePlays(t Tagger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q models.PlaysQuery
		userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			writeError(w, r, validation.ErrInvalidParams)
			return
		}
		q.UserID = userID
		if s := r.URL.Query().Get("limit"); s != "" {
			q.Limit, err = strconv.Atoi(s)
			if err != nil {
				writeError(w, r, validation.ErrInvalidParams)
				return
			}
		}
		if err := validation.DefaultValidator.Validate(&q); err != nil {
			writeError(w, r, err)
			return
		}

		plays, err := t.Plays(q.UserID, q.Limit)
		if err != nil {
			writeError(w, r, err)
			return
		}

		resp := models.PlaysResponse{Plays: make([]models.PlayResponse, 0, len(plays))}
		for _, p := range plays {
			resp.Plays = append(resp.Plays, models.PlayResponse{
				PlayedAt: p.PlayedAt,
				ID:       p.ID,
				GameID:   p.GameID,
				Console:  p.Console,
				Name:     p.GameName,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
