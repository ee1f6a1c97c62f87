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
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RiiTag/riitag-core/pkg/testing/helpers"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/goleak"
)

const dataDir = "/data"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func collectLines(t *testing.T, s *Store, name string) []string {
	t.Helper()
	var lines []string
	err := s.ScanLines(context.Background(), name, func(line string) bool {
		lines = append(lines, line)
		return true
	})
	require.NoError(t, err)
	return lines
}

func TestScanLines(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	require.NoError(t, fsh.WriteFile(filepath.Join(dataDir, "wiitdb.txt"),
		[]byte("\xEF\xBB\xBFTITLES = https://www.gametdb.com\r\nRMCE01 = Mario Kart Wii\r\nSB4P01 = Super Mario Galaxy 2\n")))
	s := NewStore(fsh.Fs, dataDir)

	lines := collectLines(t, s, "wiitdb.txt")
	assert.Equal(t, []string{
		"TITLES = https://www.gametdb.com",
		"RMCE01 = Mario Kart Wii",
		"SB4P01 = Super Mario Galaxy 2",
	}, lines)
}

func TestScanLinesStopsEarly(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	require.NoError(t, fsh.WriteFile(filepath.Join(dataDir, "t.txt"), []byte("a\nb\nc\n")))
	s := NewStore(fsh.Fs, dataDir)

	var seen []string
	err := s.ScanLines(context.Background(), "t.txt", func(line string) bool {
		seen = append(seen, line)
		return line != "b"
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestMissingTable(t *testing.T) {
	t.Parallel()

	s := NewStore(afero.NewMemMapFs(), dataDir)

	err := s.ScanLines(context.Background(), "wiitdb.txt", func(string) bool { return true })
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.ReadJSON(context.Background(), "citra.json")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidTableName(t *testing.T) {
	t.Parallel()

	s := NewStore(afero.NewMemMapFs(), dataDir)
	for _, name := range []string{"", "../etc/passwd", "/abs.json"} {
		_, err := s.ReadJSON(context.Background(), name)
		require.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestCompressedVariants(t *testing.T) {
	t.Parallel()

	const content = "RMCE01 = Mario Kart Wii\n"
	tests := []struct {
		write func(fsh *helpers.FSHelper, path string) error
		name  string
	}{
		{name: "gzip", write: func(fsh *helpers.FSHelper, p string) error { return fsh.WriteGzip(p+".gz", content) }},
		{name: "zstd", write: func(fsh *helpers.FSHelper, p string) error { return fsh.WriteZstd(p+".zst", content) }},
		{name: "xz", write: func(fsh *helpers.FSHelper, p string) error { return fsh.WriteXz(p+".xz", content) }},
		{name: "zip", write: func(fsh *helpers.FSHelper, p string) error {
			return fsh.WriteZip(filepath.Join(dataDir, "wiitdb.zip"), map[string]string{"WIITDB.TXT": content})
		}},
		{name: "zip subdir", write: func(fsh *helpers.FSHelper, p string) error {
			return fsh.WriteZip(filepath.Join(dataDir, "wiitdb.zip"), map[string]string{"db/wiitdb.txt": content})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fsh := helpers.NewMemoryFS()
			require.NoError(t, tt.write(fsh, filepath.Join(dataDir, "wiitdb.txt")))
			s := NewStore(fsh.Fs, dataDir)
			assert.Equal(t, []string{"RMCE01 = Mario Kart Wii"}, collectLines(t, s, "wiitdb.txt"))
		})
	}
}

func TestPlainFilePreferredOverCompressed(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	p := filepath.Join(dataDir, "wiitdb.txt")
	require.NoError(t, fsh.WriteFile(p, []byte("plain\n")))
	require.NoError(t, fsh.WriteGzip(p+".gz", "gzip\n"))
	s := NewStore(fsh.Fs, dataDir)

	assert.Equal(t, []string{"plain"}, collectLines(t, s, "wiitdb.txt"))
}

func TestArchiveWithoutEntry(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	require.NoError(t, fsh.WriteZip(filepath.Join(dataDir, "wiitdb.zip"), map[string]string{"readme.txt": "hi"}))
	s := NewStore(fsh.Fs, dataDir)

	err := s.ScanLines(context.Background(), "wiitdb.txt", func(string) bool { return true })
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCorruptArchive(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	require.NoError(t, fsh.WriteFile(filepath.Join(dataDir, "3dstdb.7z"), []byte("not a 7z archive")))
	s := NewStore(fsh.Fs, dataDir)

	err := s.ScanLines(context.Background(), "3dstdb.txt", func(string) bool { return true })
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestReadJSONKeepsKeyOrder(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	require.NoError(t, fsh.WriteFile(filepath.Join(dataDir, "citra.json"),
		[]byte(`{"zelda": ["A"], "mario": ["B"], "kirby": ["C"]}`)))
	s := NewStore(fsh.Fs, dataDir)

	doc, err := s.ReadJSON(context.Background(), "citra.json")
	require.NoError(t, err)

	var keys []string
	doc.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	assert.Equal(t, []string{"zelda", "mario", "kirby"}, keys)
}

func TestReadJSONMalformed(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	require.NoError(t, fsh.WriteFile(filepath.Join(dataDir, "cemu.json"), []byte(`{"a": [`)))
	s := NewStore(fsh.Fs, dataDir)

	_, err := s.ReadJSON(context.Background(), "cemu.json")
	require.ErrorIs(t, err, ErrMalformedDoc)
}

func TestReadXML(t *testing.T) {
	t.Parallel()

	type doc struct {
		Games []struct {
			ID string `xml:"id"`
		} `xml:"game"`
	}

	fsh := helpers.NewMemoryFS()
	require.NoError(t, fsh.WriteFile(filepath.Join(dataDir, "switch.xml"),
		[]byte(`<datafile><game><id>0100000000010000</id></game></datafile>`)))
	s := NewStore(fsh.Fs, dataDir)

	var d doc
	require.NoError(t, s.ReadXML(context.Background(), "switch.xml", &d))
	require.Len(t, d.Games, 1)
	assert.Equal(t, "0100000000010000", d.Games[0].ID)

	require.NoError(t, fsh.WriteFile(filepath.Join(dataDir, "bad.xml"), []byte(`<datafile><game>`)))
	require.ErrorIs(t, s.ReadXML(context.Background(), "bad.xml", &d), ErrMalformedDoc)
}

// blockingFs stalls every Open until release is closed.
type blockingFs struct {
	afero.Fs
	release chan struct{}
}

func (b *blockingFs) Open(name string) (afero.File, error) {
	<-b.release
	return b.Fs.Open(name) //nolint:wrapcheck // test double
}

func TestReadTimeout(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	require.NoError(t, fsh.WriteFile(filepath.Join(dataDir, "citra.json"), []byte(`{}`)))
	bfs := &blockingFs{Fs: fsh.Fs, release: make(chan struct{})}
	t.Cleanup(func() { close(bfs.release) })

	s := NewStore(bfs, dataDir, WithReadTimeout(20*time.Millisecond))

	_, err := s.ReadJSON(context.Background(), "citra.json")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	err = s.ScanLines(context.Background(), "citra.json", func(string) bool { return true })
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	require.NoError(t, fsh.WriteFile(filepath.Join(dataDir, "t.txt"), []byte("a\nb\n")))
	s := NewStore(fsh.Fs, dataDir)

	ctx, cancel := context.WithCancel(context.Background())
	var seen int
	err := s.ScanLines(ctx, "t.txt", func(string) bool {
		seen++
		cancel()
		return true
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, seen)
}

func TestCacheServesSnapshotUntilTTL(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	p := filepath.Join(dataDir, "t.txt")
	require.NoError(t, fsh.WriteFile(p, []byte("old\n")))

	clock := clockwork.NewFakeClock()
	s := NewStore(fsh.Fs, dataDir, WithCache(time.Minute, clock))

	assert.Equal(t, []string{"old"}, collectLines(t, s, "t.txt"))

	require.NoError(t, fsh.WriteFile(p, []byte("new\n")))
	assert.Equal(t, []string{"old"}, collectLines(t, s, "t.txt"))

	clock.Advance(time.Minute)
	assert.Equal(t, []string{"new"}, collectLines(t, s, "t.txt"))

	require.NoError(t, fsh.WriteFile(p, []byte("newer\n")))
	s.Invalidate()
	assert.Equal(t, []string{"newer"}, collectLines(t, s, "t.txt"))
}

func TestCacheSkipsFailedReads(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	s := NewStore(fsh.Fs, dataDir, WithCache(time.Hour, clockwork.NewFakeClock()))

	_, err := s.ReadJSON(context.Background(), "cemu.json")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, fsh.WriteFile(filepath.Join(dataDir, "cemu.json"), []byte(`{"a": []}`)))
	doc, err := s.ReadJSON(context.Background(), "cemu.json")
	require.NoError(t, err)
	assert.True(t, doc.Get("a").IsArray())
	assert.Equal(t, 1, s.cache.len())
}

func TestCacheConcurrentReads(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	require.NoError(t, fsh.WriteFile(filepath.Join(dataDir, "citra.json"), []byte(`{"k": ["v"]}`)))
	s := NewStore(fsh.Fs, dataDir, WithCache(time.Hour, nil))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := s.ReadJSON(context.Background(), "citra.json")
			if err == nil && doc.Get("k.0").String() != "v" {
				err = errors.New("unexpected document")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

// countingFs blocks every Open until release is closed and counts the
// calls, signalling entered on the first one.
type countingFs struct {
	afero.Fs
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	opens   atomic.Int32
}

func (c *countingFs) Open(name string) (afero.File, error) {
	c.opens.Add(1)
	c.once.Do(func() { close(c.entered) })
	<-c.release
	return c.Fs.Open(name) //nolint:wrapcheck // test double
}

func TestCacheLoadSurvivesCancelledCaller(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	require.NoError(t, fsh.WriteFile(filepath.Join(dataDir, "citra.json"), []byte(`{"k": ["v"]}`)))
	cfs := &countingFs{Fs: fsh.Fs, entered: make(chan struct{}), release: make(chan struct{})}
	s := NewStore(cfs, dataDir, WithCache(time.Hour, nil), WithReadTimeout(5*time.Second))

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := s.ReadJSON(firstCtx, "citra.json")
		firstErr <- err
	}()
	<-cfs.entered

	type result struct {
		err error
		doc gjson.Result
	}
	second := make(chan result, 1)
	go func() {
		doc, err := s.ReadJSON(context.Background(), "citra.json")
		second <- result{doc: doc, err: err}
	}()

	cancelFirst()
	require.ErrorIs(t, <-firstErr, context.Canceled)
	close(cfs.release)

	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "v", res.doc.Get("k.0").String())
	assert.Equal(t, int32(1), cfs.opens.Load(), "the cancelled caller must not fail the shared load")
	assert.Equal(t, 1, s.cache.len())
}

func TestWatchInvalidatesCache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := filepath.Join(dir, "t.txt")
	require.NoError(t, os.WriteFile(p, []byte("old\n"), 0o600))

	s := NewOSStore(dir, WithCache(time.Hour, nil))
	ctx, cancel := context.WithCancel(context.Background())
	done, err := s.Watch(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		<-done
	})

	assert.Equal(t, []string{"old"}, collectLines(t, s, "t.txt"))
	require.NoError(t, os.WriteFile(p, []byte("new\n"), 0o600))

	require.Eventually(t, func() bool {
		return s.cache.len() == 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"new"}, collectLines(t, s, "t.txt"))
}

func TestWatchMissingDir(t *testing.T) {
	t.Parallel()

	s := NewOSStore(filepath.Join(t.TempDir(), "missing"))
	_, err := s.Watch(context.Background())
	require.Error(t, err)
}
