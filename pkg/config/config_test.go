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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, CfgFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfig_CreatesDefaults(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := filepath.Join(t.TempDir(), "nested")

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, CfgFile))
	require.NoError(t, err, "default config should be written to disk")

	assert.Equal(t, DefaultRegion, cfg.DefaultRegion())
	assert.Equal(t, DefaultListen, cfg.APIListen())
	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout())
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL())
	assert.Equal(t, DefaultRequestsPerMinute, cfg.APIRequestsPerMinute())
	assert.True(t, cfg.WatchData())
	assert.False(t, cfg.DebugLogging())
	assert.False(t, cfg.ErrorReporting(), "error reporting is opt-in")
	assert.Empty(t, cfg.ErrorReportingDSN())
	assert.Equal(t, DefaultReportingEnvironment, cfg.ErrorReportingEnvironment())
}

func TestNewConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
config_schema = 1
[resolver]
default_region = "jp"
`)
	t.Setenv(CfgEnv, path)

	cfg, err := NewConfig(filepath.Join(dir, "unused"), BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, "JP", cfg.DefaultRegion(), "region should be normalized")
}

func TestLoad_Values(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()
	writeConfig(t, dir, `
config_schema = 1
debug_logging = true

[data]
dir = "/srv/riitag/data"
read_timeout = "2s"
cache_ttl = "0"
watch = false

[database]
path = "/srv/riitag/users.db"

[api]
listen = "127.0.0.1:9000"
allowed_origins = ["https://tag.rc24.xyz"]
requests_per_minute = 30

[error_reporting]
enabled = true
dsn = "https://key@errors.example.org/7"
environment = "staging"
`)

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.True(t, cfg.DebugLogging())
	assert.Equal(t, "/srv/riitag/data", cfg.DataDir())
	assert.Equal(t, 2*time.Second, cfg.ReadTimeout())
	assert.Equal(t, time.Duration(0), cfg.CacheTTL())
	assert.False(t, cfg.WatchData())
	assert.Equal(t, "/srv/riitag/users.db", cfg.DatabasePath())
	assert.Equal(t, "127.0.0.1:9000", cfg.APIListen())
	assert.Equal(t, []string{"https://tag.rc24.xyz"}, cfg.APIAllowedOrigins())
	assert.Equal(t, 30, cfg.APIRequestsPerMinute())
	assert.True(t, cfg.ErrorReporting())
	assert.Equal(t, "https://key@errors.example.org/7", cfg.ErrorReportingDSN())
	assert.Equal(t, "staging", cfg.ErrorReportingEnvironment())
	assert.Equal(t, DefaultRegion, cfg.DefaultRegion(), "unset keys keep defaults")
}

func TestLoad_InvalidDurationsFallBack(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()
	writeConfig(t, dir, `
config_schema = 1
[data]
read_timeout = "soon"
cache_ttl = "-5m"
`)

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout())
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL())
}

func TestLoad_SchemaMismatch(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()
	writeConfig(t, dir, "config_schema = 99\n")

	_, err := NewConfig(dir, BaseDefaults)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version mismatch")
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()
	writeConfig(t, dir, "config_schema = [")

	_, err := NewConfig(dir, BaseDefaults)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config")
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	cfg.SetDebugLogging(true)
	require.NoError(t, cfg.Save())
	require.NoError(t, cfg.Load())
	assert.True(t, cfg.DebugLogging())
	cfg.SetDebugLogging(false)
}

func TestAPIRequestsPerMinute_NegativeDisables(t *testing.T) {
	t.Parallel()
	n := -1
	cfg := &Instance{vals: Values{API: API{RequestsPerMinute: &n}}}
	assert.Equal(t, 0, cfg.APIRequestsPerMinute())
}

func TestAPIAllowedOrigins_ReturnsCopy(t *testing.T) {
	t.Parallel()
	cfg := &Instance{vals: Values{API: API{AllowedOrigins: []string{"https://a"}}}}
	origins := cfg.APIAllowedOrigins()
	origins[0] = "mutated"
	assert.Equal(t, []string{"https://a"}, cfg.APIAllowedOrigins())
}

func TestLoadFile_ExplicitPath(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "custom.toml")

	cfg, err := LoadFile(path, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())
	assert.FileExists(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "config_schema = 1")
}
