// Melodia
// Copyright (c) 2026 The Melodia Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Melodia.
//
// Melodia is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Melodia is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Melodia.  If not, see <http://www.gnu.org/licenses/>.

package mocks

import (
	"context"

	"github.com/melodia-mod/melodia/pkg/helpers/command"
	"github.com/stretchr/testify/mock"
)

// OutputFunc computes Output's stdout from the call, for expectations whose
// result depends on the arguments.
type OutputFunc func(opts command.Options, name string, args []string) []byte

// MockCommandExecutor is a testify mock for command.Executor.
// It allows testing code that executes system commands without actually running them.
//
// Note that args are matched as a single []string, not variadically:
//
//	mockCmd := &MockCommandExecutor{}
//	mockCmd.On("Run", mock.Anything, mock.Anything, "wine", mock.Anything).Return(nil)
type MockCommandExecutor struct {
	mock.Mock
}

var _ command.Executor = (*MockCommandExecutor)(nil)

// Run mocks running a command to completion.
func (m *MockCommandExecutor) Run(ctx context.Context, opts command.Options, name string, args ...string) error {
	called := m.Called(ctx, opts, name, args)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return called.Error(0)
}

// Output mocks capturing a command's stdout. The first return value may be
// a []byte or an OutputFunc.
func (m *MockCommandExecutor) Output(
	ctx context.Context, opts command.Options, name string, args ...string,
) ([]byte, error) {
	called := m.Called(ctx, opts, name, args)

	var out []byte
	switch v := called.Get(0).(type) {
	case OutputFunc:
		out = v(opts, name, args)
	case []byte:
		out = v
	}

	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return out, called.Error(1)
}

// Start mocks starting a detached command.
func (m *MockCommandExecutor) Start(ctx context.Context, opts command.Options, name string, args ...string) error {
	called := m.Called(ctx, opts, name, args)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return called.Error(0)
}
