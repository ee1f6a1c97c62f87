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

// Package service wires the lookup tables, user database, tagger and HTTP
// API into a running RiiTag server.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RiiTag/riitag-core/pkg/api"
	"github.com/RiiTag/riitag-core/pkg/config"
	"github.com/RiiTag/riitag-core/pkg/database"
	"github.com/RiiTag/riitag-core/pkg/database/userdb"
	"github.com/RiiTag/riitag-core/pkg/datasource"
	"github.com/RiiTag/riitag-core/pkg/helpers"
	"github.com/RiiTag/riitag-core/pkg/service/tagger"
	"github.com/rs/zerolog/log"
)

// Env holds the opened dependencies shared by the server and one-shot
// CLI commands.
type Env struct {
	Store  *datasource.Store
	DB     *database.Database
	Tagger *tagger.Tagger
}

func (e *Env) Close() error {
	if e.DB == nil || e.DB.UserDB == nil {
		return nil
	}
	if err := e.DB.UserDB.Close(); err != nil {
		return fmt.Errorf("failed to close user database: %w", err)
	}
	return nil
}

func setupEnvironment(cfg *config.Instance) error {
	log.Info().Msg("creating data directories")
	dirs := []string{
		helpers.TitleDataDir(cfg),
		filepath.Dir(helpers.UserDBPath(cfg)),
	}
	for _, dir := range dirs {
		err := os.MkdirAll(dir, 0o750)
		if err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func makeDatabase(ctx context.Context, cfg *config.Instance) (*database.Database, error) {
	path := helpers.UserDBPath(cfg)
	log.Debug().Str("path", path).Msg("opening user database")
	userDB, err := userdb.OpenUserDB(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open user database: %w", err)
	}
	return &database.Database{UserDB: userDB}, nil
}

func makeStore(cfg *config.Instance) *datasource.Store {
	dir := helpers.TitleDataDir(cfg)
	log.Info().
		Str("dir", dir).
		Dur("readTimeout", cfg.ReadTimeout()).
		Dur("cacheTTL", cfg.CacheTTL()).
		Msg("opening lookup tables")
	return datasource.NewOSStore(dir,
		datasource.WithReadTimeout(cfg.ReadTimeout()),
		datasource.WithCache(cfg.CacheTTL(), nil),
	)
}

// Open prepares the directories, user database and tagger.
func Open(ctx context.Context, cfg *config.Instance) (*Env, error) {
	if err := setupEnvironment(cfg); err != nil {
		return nil, err
	}

	db, err := makeDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := makeStore(cfg)
	return &Env{
		Store:  store,
		DB:     db,
		Tagger: tagger.New(store, db.UserDB, cfg.DefaultRegion()),
	}, nil
}

// Start runs the API server in the background. stop cancels it and waits
// for cleanup; done closes once the service has fully stopped, including
// when the server exits on its own.
func Start(cfg *config.Instance) (stop func() error, done <-chan struct{}, err error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	ctx, cancel := context.WithCancel(context.Background())

	env, err := Open(ctx, cfg)
	if err != nil {
		cancel()
		log.Error().Err(err).Msg("error opening service environment")
		return nil, nil, err
	}

	var watchDone <-chan struct{}
	if cfg.WatchData() && cfg.CacheTTL() > 0 {
		log.Info().Msg("watching data directory for changes")
		watchDone, err = env.Store.Watch(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("data directory watch failed, relying on cache ttl")
		}
	}

	log.Info().Str("listen", cfg.APIListen()).Msg("starting API service")
	apiErr := make(chan error, 1)
	go func() {
		apiErr <- api.Serve(ctx, cfg, env.Tagger)
	}()

	doneCh := make(chan struct{})
	var serveErr error
	go func() {
		serveErr = <-apiErr
		if serveErr != nil {
			log.Error().Err(serveErr).Msg("api server error")
		}
		cancel()
		log.Info().Msg("service context cancelled, running cleanup")
		if watchDone != nil {
			<-watchDone
		}

		if closeErr := env.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing environment")
		}

		log.Info().Msg("service cleanup completed")
		close(doneCh)
	}()

	stop = func() error {
		cancel()
		<-doneCh
		if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
			return serveErr
		}
		return nil
	}
	return stop, doneCh, nil
}
