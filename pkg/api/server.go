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

// Package api serves the RiiTag HTTP surface: title lookups, name
// resolution and play reports.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/RiiTag/riitag-core/pkg/api/methods"
	apimiddleware "github.com/RiiTag/riitag-core/pkg/api/middleware"
	"github.com/RiiTag/riitag-core/pkg/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// NewRouter builds the API routes. A nil limiter disables rate limiting.
func NewRouter(cfg *config.Instance, t methods.Tagger, limiter *apimiddleware.IPRateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(config.APIRequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.APIAllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
	}))
	if limiter != nil {
		r.Use(apimiddleware.HTTPRateLimitMiddleware(limiter))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/systems", methods.HandleSystems)
		r.Get("/titles/{console}/{gameID}", methods.HandleTitle(t))
		r.Get("/resolve/{console}", methods.HandleResolve(t))
		r.Post("/plays", methods.HandlePlay(t))
		r.Get("/users/{userID}/plays", methods.HandlePlays(t))
	})

	return r
}

// Serve listens on the configured address and serves the API until ctx
// is cancelled, then shuts the server down gracefully.
func Serve(ctx context.Context, cfg *config.Instance, t methods.Tagger) error {
	ln, err := net.Listen("tcp", cfg.APIListen())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.APIListen(), err)
	}
	return ServeListener(ctx, ln, cfg, t)
}

// ServeListener is Serve on an existing listener, which it closes.
func ServeListener(ctx context.Context, ln net.Listener, cfg *config.Instance, t methods.Tagger) error {
	var limiter *apimiddleware.IPRateLimiter
	if perMinute := cfg.APIRequestsPerMinute(); perMinute > 0 {
		limiter = apimiddleware.NewIPRateLimiter(perMinute)
	}

	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	defer cancelCleanup()
	if limiter != nil {
		cleanupDone := limiter.StartCleanup(cleanupCtx)
		defer func() {
			cancelCleanup()
			<-cleanupDone
		}()
	}

	srv := &http.Server{
		Handler:           NewRouter(cfg, t, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("api server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down api server: %w", err)
	}
	<-errCh
	log.Info().Msg("api server stopped")
	return nil
}
