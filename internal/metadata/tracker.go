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

// Package metadata records statistics about space downloads: page counts,
// API call counts and timings. The resulting metadata file provides an
// audit trail and helps with troubleshooting slow or incomplete fetches.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/confdump/confdump/pkg/version"
)

// Tracker collects statistics during a space download. Create one at the
// start of each fetch and pass it to the components that make remote calls.
// All methods are safe on a nil receiver, so tracking stays optional.
type Tracker struct {
	startTime time.Time
	apiCalls  int
	expected  int
}

// New creates a tracker and stamps the start time.
func New() *Tracker {
	return &Tracker{startTime: time.Now()}
}

// IncrementAPICall records one remote request. Call it once per attempt so
// retries are counted.
func (t *Tracker) IncrementAPICall() {
	if t == nil {
		return
	}
	t.apiCalls++
}

// APICalls returns the number of remote requests recorded so far.
func (t *Tracker) APICalls() int {
	if t == nil {
		return 0
	}
	return t.apiCalls
}

// SetExpectedPages records the server-reported total sampled before
// pagination began.
func (t *Tracker) SetExpectedPages(n int) {
	if t == nil {
		return
	}
	t.expected = n
}

// Finalize builds the metadata record for a completed download.
func (t *Tracker) Finalize(spaceKey string, pages int) *FetchMetadata {
	if t == nil {
		return nil
	}
	now := time.Now()
	return &FetchMetadata{
		SpaceKey:        spaceKey,
		Pages:           pages,
		ExpectedPages:   t.expected,
		APICalls:        t.apiCalls,
		StartedAt:       t.startTime.UTC(),
		CompletedAt:     now.UTC(),
		DurationSeconds: now.Sub(t.startTime).Seconds(),
		Tool:            "confdump/" + version.Version,
	}
}

// Write saves the metadata as indented JSON to the given path.
func (m *FetchMetadata) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}

// PathFor returns the metadata path for an output file: the output path with
// a ".meta.json" suffix.
func PathFor(outputPath string) string {
	return outputPath + ".meta.json"
}
