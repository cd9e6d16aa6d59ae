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

// Package fetch downloads every page of a Confluence space in offset/limit
// batches, wrapping each remote call in the retry policy and reporting
// progress after every batch.
//
// The download is single-threaded and synchronous: one batch in flight at a
// time, the retry backoff blocking the calling goroutine between attempts.
// Cancellation is available through the context passed to FetchSpace.
package fetch
