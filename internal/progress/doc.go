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

// Package progress renders a single-line textual progress bar for long
// running downloads. The line is rewritten in place with a carriage return
// and shows completion percentage, elapsed time, an ETA estimate and the
// current/total counts.
//
// Output format:
//
//	Downloading space: DOCS: 40.0% |####################∙∙∙∙∙∙∙∙∙∙| elapsed: 1m 30s eta: 2m 15s (2/5)
//
// The reporter is display-only: it never returns an error and writing to a
// broken output is silently ignored.
package progress
