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

// Package confluence types model the page records returned by the REST API.
package confluence

import "encoding/json"

// Page represents one Confluence page record. The downloader treats it as an
// opaque unit of content: only identity fields are decoded, the expanded
// sections (body, version, container) are carried through as raw JSON so the
// record round-trips to output without loss.
type Page struct {
	ID     string `json:"id"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
	Title  string `json:"title,omitempty"`

	Space     json.RawMessage `json:"space,omitempty"`
	Body      json.RawMessage `json:"body,omitempty"`
	Version   json.RawMessage `json:"version,omitempty"`
	Container json.RawMessage `json:"container,omitempty"`
	Links     json.RawMessage `json:"_links,omitempty"`
}

// ListOptions configures how pages are listed.
type ListOptions struct {
	// Start is the zero-based offset of the first page in the batch.
	Start int

	// Limit controls how many pages to fetch per batch.
	// Defaults to 25 if not specified.
	Limit int

	// Expand selects which page sections the server should inline.
	// Defaults to DefaultExpand.
	Expand string
}

// DefaultExpand is the set of expanded sections a complete space download
// needs: enough to rebuild a page offline without follow-up requests.
const DefaultExpand = "space,body.view,version,container,modificationDate"

// Default values for list operations
const (
	defaultListLimit = 25
)
