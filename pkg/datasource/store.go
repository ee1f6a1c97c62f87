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

// Package datasource provides read-only access to the lookup tables the
// resolvers consult: GameTDB title lists, JSON id indexes and the Switch
// region catalog.
//
// A table is looked up by file name under the store root. Besides the
// plain file, the store accepts compressed copies (name.gz, name.zst,
// name.xz) and GameTDB style archives (wiitdb.zip holding wiitdb.txt, also
// .7z and .rar), tried in that order.
package datasource

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

var (
	ErrNotFound     = errors.New("lookup table not found")
	ErrInvalidName  = errors.New("invalid lookup table name")
	ErrMalformedDoc = errors.New("malformed lookup table")
)

// maxLineSize bounds a single title database line.
const maxLineSize = 1 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TitleStore is the read capability the resolvers depend on.
type TitleStore interface {
	// ScanLines calls visit for each line of the named table until visit
	// returns false or the table ends.
	ScanLines(ctx context.Context, name string, visit func(line string) bool) error
	// ReadJSON returns the parsed JSON document. Object keys keep their
	// document order when iterated.
	ReadJSON(ctx context.Context, name string) (gjson.Result, error)
	// ReadXML decodes the named XML document into v.
	ReadXML(ctx context.Context, name string, v any) error
}

type Option func(*Store)

// WithReadTimeout bounds every table read. Zero disables the deadline.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// WithCache keeps table contents in memory for ttl. A nil clock uses the
// real clock.
func WithCache(ttl time.Duration, clock clockwork.Clock) Option {
	return func(s *Store) {
		if ttl <= 0 {
			s.cache = nil
			return
		}
		if clock == nil {
			clock = clockwork.NewRealClock()
		}
		s.cache = newSnapshotCache(ttl, clock)
	}
}

// Store is a TitleStore backed by an afero filesystem.
type Store struct {
	fs      afero.Fs
	cache   *snapshotCache
	root    string
	timeout time.Duration
}

var _ TitleStore = (*Store)(nil)

func NewStore(fs afero.Fs, root string, opts ...Option) *Store {
	s := &Store{
		fs:   fs,
		root: root,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewOSStore opens a store over a directory on the real filesystem.
func NewOSStore(root string, opts ...Option) *Store {
	return NewStore(afero.NewOsFs(), root, opts...)
}

func (s *Store) Root() string {
	return s.root
}

// Invalidate drops every cached snapshot. It is a no-op without a cache.
func (s *Store) Invalidate() {
	if s.cache != nil {
		s.cache.invalidateAll()
	}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) ScanLines(ctx context.Context, name string, visit func(line string) bool) error {
	if s.cache != nil {
		data, err := s.load(ctx, name)
		if err != nil {
			return err
		}
		return scanLines(ctx, bytes.NewReader(data), visit)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rc, err := s.openCtx(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("table", name).Msg("failed to close lookup table")
		}
	}()

	return scanLines(ctx, rc, visit)
}

func (s *Store) ReadJSON(ctx context.Context, name string) (gjson.Result, error) {
	data, err := s.load(ctx, name)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%w: %s is not valid JSON", ErrMalformedDoc, name)
	}
	return gjson.ParseBytes(data), nil
}

func (s *Store) ReadXML(ctx context.Context, name string, v any) error {
	data, err := s.load(ctx, name)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedDoc, name, err)
	}
	return nil
}

// load returns the full table contents, through the cache when enabled.
// A cached load is shared between callers, so it runs detached from ctx
// and is bounded by the read timeout alone.
func (s *Store) load(ctx context.Context, name string) ([]byte, error) {
	if s.cache != nil {
		loadCtx := context.WithoutCancel(ctx)
		return s.cache.get(ctx, name, func() ([]byte, error) {
			return s.readAll(loadCtx, name)
		})
	}
	return s.readAll(ctx, name)
}

type readResult struct {
	err  error
	data []byte
}

func (s *Store) readAll(ctx context.Context, name string) ([]byte, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := checkName(name); err != nil {
		return nil, err
	}

	ch := make(chan readResult, 1)
	go func() {
		rc, err := s.open(name)
		if err != nil {
			ch <- readResult{err: err}
			return
		}
		defer func() { _ = rc.Close() }()
		data, err := io.ReadAll(rc)
		if err != nil {
			err = fmt.Errorf("failed to read %s: %w", name, err)
		}
		ch <- readResult{data: data, err: err}
	}()

	select {
	case res := <-ch:
		return res.data, res.err
	case <-ctx.Done():
		log.Warn().Str("table", name).Dur("timeout", s.timeout).Msg("lookup table read timed out")
		return nil, fmt.Errorf("read %s: %w", name, ctx.Err())
	}
}

type openResult struct {
	rc  io.ReadCloser
	err error
}

// openCtx opens the table but gives up when ctx ends first. A reader that
// arrives after that is closed in the background.
func (s *Store) openCtx(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	ch := make(chan openResult, 1)
	go func() {
		rc, err := s.open(name)
		ch <- openResult{rc: rc, err: err}
	}()

	select {
	case res := <-ch:
		return res.rc, res.err
	case <-ctx.Done():
		go func() {
			if res := <-ch; res.rc != nil {
				_ = res.rc.Close()
			}
		}()
		log.Warn().Str("table", name).Dur("timeout", s.timeout).Msg("lookup table open timed out")
		return nil, fmt.Errorf("open %s: %w", name, ctx.Err())
	}
}

func checkName(name string) error {
	if name == "" || !filepath.IsLocal(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func scanLines(ctx context.Context, r io.Reader, visit func(line string) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	first := true
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("scan interrupted: %w", err)
		}
		line := scanner.Bytes()
		if first {
			line = bytes.TrimPrefix(line, utf8BOM)
			first = false
		}
		if !visit(string(line)) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan lines: %w", err)
	}
	return nil
}
