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
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/nwaples/rardecode/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
)

type decompressor struct {
	wrap func(r io.Reader) (io.Reader, func(), error)
	ext  string
}

var decompressors = []decompressor{
	{ext: ".gz", wrap: func(r io.Reader) (io.Reader, func(), error) {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, func() { _ = zr.Close() }, nil
	}},
	{ext: ".zst", wrap: func(r io.Reader) (io.Reader, func(), error) {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return zr, zr.Close, nil
	}},
	{ext: ".xz", wrap: func(r io.Reader) (io.Reader, func(), error) {
		zr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("xz: %w", err)
		}
		return zr, func() {}, nil
	}},
}

type archiveOpener func(f afero.File, size int64, entry string) (io.ReadCloser, error)

var archiveOpeners = []struct {
	open archiveOpener
	ext  string
}{
	{ext: ".zip", open: openZipEntry},
	{ext: ".7z", open: openSevenZipEntry},
	{ext: ".rar", open: openRAREntry},
}

// stackedReader reads through a decompressor and closes both layers.
type stackedReader struct {
	io.Reader
	release func()
	file    io.Closer
}

func (r *stackedReader) Close() error {
	r.release()
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("failed to close table file: %w", err)
	}
	return nil
}

// open resolves name to the first matching plain, compressed or archived
// copy under the store root.
func (s *Store) open(name string) (io.ReadCloser, error) {
	p := filepath.Join(s.root, name)

	f, err := s.fs.Open(p)
	switch {
	case err == nil:
		return f, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}

	for _, d := range decompressors {
		f, err := s.fs.Open(p + d.ext)
		if err != nil {
			continue
		}
		r, release, err := d.wrap(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to decompress %s%s: %w", name, d.ext, err)
		}
		log.Debug().Str("table", name).Str("variant", d.ext).Msg("reading compressed lookup table")
		return &stackedReader{Reader: r, release: release, file: f}, nil
	}

	base := strings.TrimSuffix(p, filepath.Ext(p))
	for _, a := range archiveOpeners {
		archivePath := base + a.ext
		f, err := s.fs.Open(archivePath)
		if err != nil {
			continue
		}
		rc, err := openArchived(f, a.open, name)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to read %s from %s: %w", name, filepath.Base(archivePath), err)
		}
		log.Debug().Str("table", name).Str("archive", archivePath).Msg("reading archived lookup table")
		return rc, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func openArchived(f afero.File, open archiveOpener, name string) (io.ReadCloser, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	rc, err := open(f, info.Size(), name)
	if err != nil {
		return nil, err
	}
	return &stackedReader{Reader: rc, release: func() { _ = rc.Close() }, file: f}, nil
}

// entryMatches compares an archive entry against the table name by base
// name, ignoring case.
func entryMatches(entry, name string) bool {
	return strings.EqualFold(path.Base(filepath.ToSlash(entry)), name)
}

func openZipEntry(f afero.File, size int64, name string) (io.ReadCloser, error) {
	zr, err := zip.NewReader(f, size)
	if err != nil {
		return nil, fmt.Errorf("zip: %w", err)
	}
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || !entryMatches(zf.Name, name) {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("zip entry %s: %w", zf.Name, err)
		}
		return rc, nil
	}
	return nil, fmt.Errorf("%w: %s not in zip archive", ErrNotFound, name)
}

func openSevenZipEntry(f afero.File, size int64, name string) (io.ReadCloser, error) {
	zr, err := sevenzip.NewReader(f, size)
	if err != nil {
		return nil, fmt.Errorf("7z: %w", err)
	}
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || !entryMatches(zf.Name, name) {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("7z entry %s: %w", zf.Name, err)
		}
		return rc, nil
	}
	return nil, fmt.Errorf("%w: %s not in 7z archive", ErrNotFound, name)
}

func openRAREntry(f afero.File, _ int64, name string) (io.ReadCloser, error) {
	rr, err := rardecode.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("rar: %w", err)
	}
	for {
		header, err := rr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s not in rar archive", ErrNotFound, name)
		}
		if err != nil {
			return nil, fmt.Errorf("rar header: %w", err)
		}
		if header.IsDir || !entryMatches(header.Name, name) {
			continue
		}
		return io.NopCloser(rr), nil
	}
}
