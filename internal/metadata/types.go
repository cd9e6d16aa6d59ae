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

package metadata

import "time"

// FetchMetadata describes one completed space download. It is written as a
// JSON file next to the output so external tools can audit what was fetched,
// when and at what cost.
type FetchMetadata struct {
	// SpaceKey is the space that was downloaded.
	SpaceKey string `json:"space_key"`

	// Pages is the number of page records written to the output.
	Pages int `json:"pages"`

	// ExpectedPages is the server-reported total sampled before pagination
	// began. May differ from Pages when the space changed mid-download.
	ExpectedPages int `json:"expected_pages"`

	// APICalls is the number of remote requests made, retries included.
	APICalls int `json:"api_calls"`

	// StartedAt and CompletedAt bound the download.
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	// DurationSeconds is CompletedAt minus StartedAt, for convenience.
	DurationSeconds float64 `json:"duration_seconds"`

	// Tool identifies the producing binary and version.
	Tool string `json:"tool"`
}
