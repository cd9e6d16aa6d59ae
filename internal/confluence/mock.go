// Copyright 2025 Confdump Contributors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package confluence

import (
	"context"
	"fmt"

	confdumperrors "github.com/confdump/confdump/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
// Pages is a script of successive ListPages responses; once the script is
// exhausted an empty batch is returned, mimicking a server that ran out of
// content.
type MockClient struct {
	// Total to report from CountPages
	Total int

	// Pages to return from successive ListPages calls
	Pages [][]Page

	// Errors to return
	CountErr error
	ListErr  error

	// Behavior flags
	ShouldFailAuth       bool
	ShouldFailPermission bool

	// Track calls for verification
	CountCalls   int
	ListCalls    int
	LastSpaceKey string
	LastOpts     ListOptions
}

// NewMockClient creates a mock client with a small scripted space.
func NewMockClient() *MockClient {
	return &MockClient{
		Total: 3,
		Pages: [][]Page{
			{{ID: "1", Title: "Home"}, {ID: "2", Title: "Setup"}},
			{{ID: "3", Title: "FAQ"}},
		},
	}
}

// CountPages implements the Client interface
func (m *MockClient) CountPages(ctx context.Context, spaceKey string) (int, error) {
	m.CountCalls++
	m.LastSpaceKey = spaceKey

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return 0, fmt.Errorf("authentication failed: %w", confdumperrors.ErrInvalidCredentials)
	}
	if m.ShouldFailPermission {
		return 0, fmt.Errorf("not permitted to read space %q: %w", spaceKey, confdumperrors.ErrPermissionDenied)
	}
	if m.CountErr != nil {
		return 0, m.CountErr
	}

	return m.Total, nil
}

// ListPages implements the Client interface
func (m *MockClient) ListPages(ctx context.Context, spaceKey string, opts ListOptions) ([]Page, error) {
	call := m.ListCalls
	m.ListCalls++
	m.LastSpaceKey = spaceKey
	m.LastOpts = opts

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailPermission {
		return nil, fmt.Errorf("not permitted to read space %q: %w", spaceKey, confdumperrors.ErrPermissionDenied)
	}
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	if call >= len(m.Pages) {
		return []Page{}, nil
	}
	return m.Pages[call], nil
}
