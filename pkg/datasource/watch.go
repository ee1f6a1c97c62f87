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

package datasource

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch drops cached snapshots whenever a file under the store root
// changes. It only applies to stores on the real filesystem. The watcher
// stops when ctx is cancelled; the returned channel closes once it has.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(s.root); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch data dir (%s): %w", s.root, err)
	}
	log.Info().Str("dir", s.root).Msg("watching lookup tables for changes")

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close file watcher")
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op == fsnotify.Chmod {
					continue
				}
				log.Debug().Str("file", event.Name).Str("op", event.Op.String()).
					Msg("lookup table changed, invalidating cache")
				s.Invalidate()
			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(watchErr).Msg("error in lookup table watcher")
			}
		}
	}()

	return done, nil
}
