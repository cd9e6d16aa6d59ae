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

// Package retry wraps fallible remote calls with bounded exponential-backoff
// retry. It is a small configurable policy object rather than a decorator
// bound to one client interface, so any operation returning (T, error) can
// be wrapped.
//
// The wrapper distinguishes three terminal outcomes:
//
//   - OutcomeSuccess: the operation returned a value.
//   - OutcomeDenied: the failure was classified as non-retryable (permission
//     denied). The operation is attempted exactly once, a warning is logged
//     and the zero value is returned with a nil error.
//   - OutcomeExhausted: a transient failure persisted through every attempt.
//     The final error is logged with the attempt count and returned, unless
//     the policy is configured to swallow it.
//
// Basic usage:
//
//	pages, outcome, err := retry.Do(ctx, policy, log, "list_pages", func(ctx context.Context) ([]confluence.Page, error) {
//	    return client.ListPages(ctx, spaceKey, opts)
//	})
package retry
