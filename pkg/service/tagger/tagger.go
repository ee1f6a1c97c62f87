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

// Package tagger turns console play reports into recorded plays. It finds
// the missing half of each report (the name for an id, or the id for a
// name) and persists the play.
package tagger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RiiTag/riitag-core/pkg/database"
	"github.com/RiiTag/riitag-core/pkg/database/systemdefs"
	"github.com/RiiTag/riitag-core/pkg/datasource"
	"github.com/RiiTag/riitag-core/pkg/resolver"
	"github.com/RiiTag/riitag-core/pkg/titles"
	"github.com/rs/zerolog/log"
)

var (
	ErrGameNotResolved = errors.New("game could not be resolved")
	ErrUnknownConsole  = errors.New("unknown console")
	ErrNoResolver      = errors.New("console reports game ids only")
	ErrInvalidReport   = errors.New("invalid play report")
)

// PlayReport is what a console or emulator sends when a game starts.
type PlayReport struct {
	Console  string
	GameID   string
	GameName string
	Region   string
	UserID   int64
}

// Play is a fully resolved report ready to be stored.
type Play struct {
	Console  string
	GameID   string
	GameName string
	UserID   int64
}

type ResolverFactory func(console string, store datasource.TitleStore) (resolver.Resolver, bool)

type Tagger struct {
	store         datasource.TitleStore
	userDB        database.UserDBI
	resolvers     ResolverFactory
	defaultRegion resolver.Region
}

type Option func(*Tagger)

// WithResolvers replaces the per-console resolver lookup.
func WithResolvers(f ResolverFactory) Option {
	return func(t *Tagger) {
		t.resolvers = f
	}
}

func New(store datasource.TitleStore, userDB database.UserDBI, defaultRegion string, opts ...Option) *Tagger {
	t := &Tagger{
		store:         store,
		userDB:        userDB,
		resolvers:     resolver.ForConsole,
		defaultRegion: resolver.ParseRegion(defaultRegion),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CanonicalConsole maps a console id or alias to its system id.
func CanonicalConsole(console string) (string, error) {
	system, err := systemdefs.LookupSystem(console)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownConsole, console)
	}
	return system.ID, nil
}

func (t *Tagger) region(s string) resolver.Region {
	if r := resolver.ParseRegion(s); r != "" {
		return r
	}
	return t.defaultRegion
}

// Title returns the title database name for a game id.
func (t *Tagger) Title(ctx context.Context, console, gameID string) (string, error) {
	console, err := CanonicalConsole(console)
	if err != nil {
		return "", err
	}
	db, ok := titles.ForConsole(console)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownConsole, console)
	}
	name, ok := titles.Lookup(ctx, t.store, db, strings.TrimSpace(gameID))
	if !ok {
		return "", fmt.Errorf("%w: %s %s", ErrGameNotResolved, console, gameID)
	}
	return name, nil
}

// Resolve returns the game id for a display name.
func (t *Tagger) Resolve(ctx context.Context, console, name, region string) (string, error) {
	console, err := CanonicalConsole(console)
	if err != nil {
		return "", err
	}
	r, ok := t.resolvers(console, t.store)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoResolver, console)
	}
	id, ok := r.Resolve(ctx, name, t.region(region))
	if !ok {
		return "", fmt.Errorf("%w: %s %q", ErrGameNotResolved, console, name)
	}
	return id, nil
}

// Prepare resolves a report without storing it. A reported id takes its
// name from the title database, keeping the reported name as a fallback.
// A report with only a name takes its id from the console resolver.
func (t *Tagger) Prepare(ctx context.Context, report PlayReport) (Play, error) {
	if report.UserID <= 0 {
		return Play{}, fmt.Errorf("%w: missing user", ErrInvalidReport)
	}
	console, err := CanonicalConsole(report.Console)
	if err != nil {
		return Play{}, err
	}

	play := Play{
		Console:  console,
		UserID:   report.UserID,
		GameID:   strings.TrimSpace(report.GameID),
		GameName: strings.TrimSpace(report.GameName),
	}

	switch {
	case play.GameID != "":
		if name, err := t.Title(ctx, console, play.GameID); err == nil {
			play.GameName = name
		}
	case play.GameName != "":
		id, err := t.Resolve(ctx, console, play.GameName, report.Region)
		if err != nil {
			return Play{}, err
		}
		play.GameID = id
		if name, err := t.Title(ctx, console, id); err == nil {
			play.GameName = name
		}
	default:
		return Play{}, fmt.Errorf("%w: need a game id or name", ErrInvalidReport)
	}

	if play.GameName == "" {
		return Play{}, fmt.Errorf("%w: no name for %s %s", ErrGameNotResolved, console, play.GameID)
	}
	play.GameID = strings.ToUpper(play.GameID)
	return play, nil
}

// Record resolves the report and stores the play, returning the updated
// user. Storage failures are returned as is.
func (t *Tagger) Record(ctx context.Context, report PlayReport) (database.User, error) {
	play, err := t.Prepare(ctx, report)
	if err != nil {
		log.Debug().Err(err).Str("console", report.Console).Msg("play report not resolved")
		return database.User{}, err
	}
	return t.Store(play)
}

// Store persists an already prepared play.
func (t *Tagger) Store(play Play) (database.User, error) {
	user, err := t.userDB.UpsertGameAndIncrementUser(play.GameID, play.Console, play.GameName, play.UserID)
	if err != nil {
		return database.User{}, fmt.Errorf("failed to record play: %w", err)
	}

	log.Info().
		Str("console", play.Console).
		Str("gameId", play.GameID).
		Str("name", play.GameName).
		Int64("userId", user.DBID).
		Msg("play recorded")
	return user, nil
}

// Plays returns a user's most recent plays.
func (t *Tagger) Plays(userID int64, limit int) ([]database.PlayLogEntry, error) {
	if _, err := t.userDB.GetUser(userID); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	plays, err := t.userDB.GetPlayLog(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get plays: %w", err)
	}
	return plays, nil
}
