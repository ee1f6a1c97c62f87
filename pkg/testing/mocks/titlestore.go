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

package mocks

import (
	"context"
	"fmt"

	"github.com/RiiTag/riitag-core/pkg/datasource"
	"github.com/RiiTag/riitag-core/pkg/resolver"
	"github.com/stretchr/testify/mock"
	"github.com/tidwall/gjson"
)

// MockTitleStore is a mock implementation of datasource.TitleStore.
type MockTitleStore struct {
	mock.Mock
}

var _ datasource.TitleStore = (*MockTitleStore)(nil)

func NewMockTitleStore() *MockTitleStore {
	return &MockTitleStore{}
}

func (m *MockTitleStore) ScanLines(ctx context.Context, name string, visit func(line string) bool) error {
	args := m.Called(ctx, name, visit)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock TitleStore scan failed: %w", err)
	}
	return nil
}

func (m *MockTitleStore) ReadJSON(ctx context.Context, name string) (gjson.Result, error) {
	args := m.Called(ctx, name)
	doc, _ := args.Get(0).(gjson.Result)
	if err := args.Error(1); err != nil {
		return doc, fmt.Errorf("mock TitleStore read json failed: %w", err)
	}
	return doc, nil
}

func (m *MockTitleStore) ReadXML(ctx context.Context, name string, v any) error {
	args := m.Called(ctx, name, v)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock TitleStore read xml failed: %w", err)
	}
	return nil
}

// ServeLines makes ScanLines on name feed lines to the visitor.
func (m *MockTitleStore) ServeLines(name string, lines ...string) *mock.Call {
	return m.On("ScanLines", mock.Anything, name, mock.Anything).
		Run(func(args mock.Arguments) {
			visit, ok := args.Get(2).(func(string) bool)
			if !ok {
				return
			}
			for _, line := range lines {
				if !visit(line) {
					return
				}
			}
		}).
		Return(nil)
}

// MockResolver is a mock implementation of resolver.Resolver.
type MockResolver struct {
	mock.Mock
}

var _ resolver.Resolver = (*MockResolver)(nil)

func (m *MockResolver) Resolve(ctx context.Context, displayName string, region resolver.Region) (string, bool) {
	args := m.Called(ctx, displayName, region)
	return args.String(0), args.Bool(1)
}
