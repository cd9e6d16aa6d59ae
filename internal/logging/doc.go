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

// Package logging constructs the application logger: a zerolog.Logger
// multiplexed across a human-readable console stream, an append-only local
// file, and an optional cloud log-aggregation endpoint. The logger is built
// once and passed by reference to the components that need it; there is no
// process-wide registry.
//
// When the cloud leg cannot be configured the logger degrades to
// console+file and records the failure, so a missing aggregation endpoint
// never blocks a download.
//
// The package also exposes StartSegment, a thin wrapper over OpenTelemetry
// for bounding units of work as trace spans with string annotations.
package logging
