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

// Package main implements the confdump command-line interface. This tool
// downloads every page of a Confluence space and outputs it in NDJSON
// format for efficient streaming and processing.
//
// The CLI supports:
//   - Downloading a whole space with progress reporting and retries
//   - Customizable output destinations (stdout or file)
//   - Credentials via environment variables or a .env file
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	confdump fetch <space-key> [flags]
//
// Example:
//
//	export CONFLUENCE_URL=https://wiki.example.com
//	export CONFLUENCE_USERNAME=reader@example.com
//	export CONFLUENCE_TOKEN=your_token
//	confdump fetch DOCS --output docs.ndjson
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication/authorization error
//   - 3: Network error
package main
