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

// Package output writes downloaded Confluence pages as NDJSON
// (newline delimited JSON), one page per line. Streaming a line at a
// time keeps memory flat no matter how large the space is, and the
// result can be piped straight into jq or a bulk importer.
//
// Example usage:
//
//	w, err := output.NewFileWriter("space.ndjson")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	for i := range pages {
//	    if err := w.WritePage(&pages[i]); err != nil {
//	        return err
//	    }
//	}
package output
