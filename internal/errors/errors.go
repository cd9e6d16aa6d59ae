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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrPermissionDenied indicates the authenticated user is not allowed to
	// read the requested space or some of its content. Never retried: the
	// retry policy short-circuits on it.
	// Maps to exit code 2.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidCredentials indicates Confluence authentication failed.
	// Maps to exit code 2.
	ErrInvalidCredentials = errors.New("invalid confluence credentials")

	// ErrSpaceNotFound indicates the specified space does not exist or is not accessible.
	// Maps to exit code 2.
	ErrSpaceNotFound = errors.New("space not found")

	// ErrRateLimit indicates the Confluence API rate limit has been exceeded.
	// Retryable with backoff.
	ErrRateLimit = errors.New("confluence rate limit exceeded")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrFetchAborted indicates pagination was abandoned after retries were
	// exhausted at some offset. Partial results are discarded when a fetch
	// fails with this error.
	ErrFetchAborted = errors.New("space download aborted")
)
