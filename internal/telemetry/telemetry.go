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


// Package telemetry provides opt-in error reporting via Sentry.
// Usernames in file paths are stripped before transmission.
package telemetry

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"runtime"
	"time"

	"github.com/RiiTag/riitag-core/pkg/helpers"
	"github.com/RiiTag/riitag-core/pkg/helpers/syncutil"
	"github.com/getsentry/sentry-go"
	sentryzerolog "github.com/getsentry/sentry-go/zerolog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const flushTimeout = 2 * time.Second

var ErrMissingDSN = errors.New("error reporting enabled without a dsn")

var (
	mu           syncutil.Mutex
	enabled      bool
	sentryWriter *sentryzerolog.Writer
	prevLogger   zerolog.Logger

	// Patterns to strip usernames from file paths
	homePathRe    = regexp.MustCompile(`(?i)/home/[^/]+/`)
	usersPathRe   = regexp.MustCompile(`(?i)/Users/[^/]+/`)
	windowsUserRe = regexp.MustCompile(`(?i)[a-zA-Z]:\\Users\\[^\\]+\\`)
)

// Options selects where and how errors are reported.
type Options struct {
	DSN         string
	Environment string
	Release     string
	Enabled     bool
}

// Init initializes Sentry error reporting with zerolog integration. Error
// and higher log events are forwarded alongside the normal log writer.
// Reporting stays off unless opts.Enabled is set.
func Init(opts Options) error {
	if !opts.Enabled {
		log.Debug().Msg("error reporting disabled")
		return nil
	}
	if opts.DSN == "" {
		return ErrMissingDSN
	}

	mu.Lock()
	defer mu.Unlock()
	if enabled {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Release:          "riitag-core@" + opts.Release,
		Environment:      opts.Environment,
		AttachStacktrace: true,
		// Privacy: explicitly disable PII collection
		SendDefaultPII: false,
		ServerName:     "",
		HTTPClient:     &http.Client{Timeout: 30 * time.Second},
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return sanitizeEvent(event)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sentry: %w", err)
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
	})

	sentryWriter, err = sentryzerolog.NewWithHub(sentry.CurrentHub(), sentryzerolog.Options{
		Levels:          []zerolog.Level{zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel},
		FlushTimeout:    flushTimeout,
		WithBreadcrumbs: false,
	})
	if err != nil {
		return fmt.Errorf("failed to create sentry zerolog writer: %w", err)
	}

	prevLogger = log.Logger
	log.Logger = log.Output(zerolog.MultiLevelWriter(
		helpers.LogWriter(),
		sentryWriter,
	)).With().Timestamp().Caller().Logger()

	enabled = true
	log.Info().Str("environment", opts.Environment).Msg("error reporting enabled")
	return nil
}

// Close flushes pending events and detaches Sentry from the logger. Safe
// to call multiple times.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	log.Logger = prevLogger
	_ = sentryWriter.Close()
	sentry.Flush(flushTimeout)
	enabled = false
}

// Flush waits for pending events to be sent.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	sentry.Flush(flushTimeout)
}

func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// sanitizeEvent removes PII from Sentry events before sending.
func sanitizeEvent(event *sentry.Event) *sentry.Event {
	// The SDK may fill in the hostname despite ServerName being empty.
	event.ServerName = ""
	event.User = sentry.User{}

	for i := range event.Exception {
		if event.Exception[i].Stacktrace != nil {
			for j := range event.Exception[i].Stacktrace.Frames {
				frame := &event.Exception[i].Stacktrace.Frames[j]
				frame.AbsPath = sanitizePath(frame.AbsPath)
				frame.Filename = sanitizePath(frame.Filename)
			}
		}
	}

	event.Message = sanitizePath(event.Message)

	for k, v := range event.Extra {
		if s, ok := v.(string); ok {
			event.Extra[k] = sanitizePath(s)
		}
	}

	return event
}

// sanitizePath removes usernames from file paths.
func sanitizePath(path string) string {
	if path == "" {
		return path
	}

	result := homePathRe.ReplaceAllString(path, "/home/<user>/")
	result = usersPathRe.ReplaceAllString(result, "/Users/<user>/")
	result = windowsUserRe.ReplaceAllString(result, "C:\\Users\\<user>\\")

	return result
}
