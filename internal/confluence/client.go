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

import "context"

// Client defines the interface for interacting with the Confluence API.
// This interface allows for easy mocking in tests.
type Client interface {
	// CountPages returns the total number of pages in the space. The count
	// is sampled once before pagination begins and may be stale by the time
	// the last page is fetched.
	CountPages(ctx context.Context, spaceKey string) (int, error)

	// ListPages retrieves one batch of pages from the space, starting at
	// opts.Start. An empty slice signals the end of the data.
	ListPages(ctx context.Context, spaceKey string, opts ListOptions) ([]Page, error)
}
