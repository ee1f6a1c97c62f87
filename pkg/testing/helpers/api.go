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

package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ServeJSON runs one request through handler in-process. A non-nil body
// is encoded as JSON; a string body is sent verbatim.
func ServeJSON(t *testing.T, handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, encodeBody(t, body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = "192.0.2.1:1234"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// DecodeJSON unmarshals a response body into T.
func DecodeJSON[T any](t *testing.T, body io.Reader) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(body).Decode(&v))
	return v
}

// HTTPTestHelper wraps a handler in a loopback test server.
type HTTPTestHelper struct {
	Server *httptest.Server
	Client *http.Client
}

func NewHTTPTestHelper(handler http.Handler) *HTTPTestHelper {
	server := httptest.NewServer(handler)
	return &HTTPTestHelper{
		Server: server,
		Client: server.Client(),
	}
}

func (h *HTTPTestHelper) Close() {
	h.Server.Close()
}

func (h *HTTPTestHelper) Get(t *testing.T, path string) *http.Response {
	t.Helper()
	return h.do(t, http.MethodGet, path, nil)
}

func (h *HTTPTestHelper) PostJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	return h.do(t, http.MethodPost, path, body)
}

func (h *HTTPTestHelper) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	ctx, cancel := CreateTestContext(5 * time.Second)
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, method, h.Server.URL+path, encodeBody(t, body))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.Client.Do(req)
	require.NoError(t, err)
	return resp
}

// CreateTestContext creates a context with timeout for testing.
func CreateTestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func encodeBody(t *testing.T, body any) io.Reader {
	t.Helper()
	switch b := body.(type) {
	case nil:
		return http.NoBody
	case string:
		return bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		return bytes.NewReader(data)
	}
}
