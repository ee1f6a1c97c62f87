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

package models

import "time"

// PlayRequest is the body of POST /api/v1/plays.
type PlayRequest struct {
	Console  string `json:"console" validate:"required,console"`
	GameID   string `json:"gameId,omitempty" validate:"max=32"`
	GameName string `json:"gameName,omitempty" validate:"max=256"`
	Region   string `json:"region,omitempty" validate:"max=32"`
	UserID   int64  `json:"userId" validate:"required,gt=0"`
}

// ResolveQuery is parsed from the query string of GET /api/v1/resolve.
type ResolveQuery struct {
	Console string `json:"console" validate:"required,console"`
	Name    string `json:"name" validate:"required,max=256"`
	Region  string `json:"region" validate:"max=32"`
}

type PlaysQuery struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
	Limit  int   `json:"limit" validate:"gte=0,lte=500"`
}

type TitleResponse struct {
	Console string `json:"console"`
	GameID  string `json:"gameId"`
	Name    string `json:"name"`
}

type ResolveResponse struct {
	Console string `json:"console"`
	GameID  string `json:"gameId"`
}

type UserResponse struct {
	CreatedAt time.Time `json:"createdAt"`
	Username  string    `json:"username"`
	ID        int64     `json:"id"`
	Coins     int64     `json:"coins"`
}

type PlayResponse struct {
	PlayedAt time.Time `json:"playedAt"`
	ID       string    `json:"id"`
	GameID   string    `json:"gameId"`
	Console  string    `json:"console"`
	Name     string    `json:"name"`
}

type PlaysResponse struct {
	Plays []PlayResponse `json:"plays"`
}

type System struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

type SystemsResponse struct {
	Systems []System `json:"systems"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}
