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

// Package confluence provides a client for the Confluence REST API, scoped
// to the two operations the downloader needs: counting the pages in a space
// and listing them in offset/limit batches.
//
// The package includes:
//   - A Client interface for counting and listing pages
//   - A REST implementation with basic-auth transport and response limits
//   - Mock client for testing
//   - Type definitions for page records
//
// Basic usage:
//
//	client := confluence.NewRESTClient("https://wiki.example.com", "bot@example.com", token)
//	pages, err := client.ListPages(ctx, "DOCS", confluence.ListOptions{
//	    Start: 0,
//	    Limit: 25,
//	})
//	if err != nil {
//	    // Handle error
//	}
//	for _, page := range pages {
//	    // Process page
//	}
package confluence
