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
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RiiTag/riitag-core/pkg/api/models"
	"github.com/RiiTag/riitag-core/pkg/api/validation"
	"github.com/RiiTag/riitag-core/pkg/database"
	"github.com/RiiTag/riitag-core/pkg/service/tagger"
	"github.com/rs/zerolog/log"
)

// Tagger is the part of the tagging service the HTTP handlers use.
type Tagger interface {
	Title(ctx context.Context, console, gameID string) (string, error)
	Resolve(ctx context.Context, console, name, region string) (string, error)
	Record(ctx context.Context, report tagger.PlayReport) (database.User, error)
	Plays(userID int64, limit int) ([]database.PlayLogEntry, error)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("error writing response")
	}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr),
		errors.Is(err, validation.ErrMissingParams),
		errors.Is(err, validation.ErrInvalidParams),
		errors.Is(err, tagger.ErrInvalidReport),
		errors.Is(err, tagger.ErrUnknownConsole):
		return http.StatusBadRequest
	case errors.Is(err, tagger.ErrGameNotResolved),
		errors.Is(err, tagger.ErrNoResolver),
		errors.Is(err, database.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := models.ErrorResponse{Error: err.Error()}

	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Fields = make([]models.FieldError, len(verr.Fields))
		for i, fe := range verr.Fields {
			resp.Fields[i] = models.FieldError{Field: fe.Field, Message: fe.Message}
		}
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("error handling request")
		resp.Error = http.StatusText(status)
	} else {
		log.Debug().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request rejected")
	}

	writeJSON(w, status, resp)
}
