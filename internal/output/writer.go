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

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/confdump/confdump/internal/confluence"
)

// PageWriter is the sink for downloaded pages. The NDJSON writer is the
// only implementation today; the interface leaves room for other formats
// without touching the download path.
type PageWriter interface {
	// WritePage writes a single page. Each page is flushed immediately so
	// no data is buffered across calls.
	WritePage(page *confluence.Page) error

	// Close releases the underlying file, if any. Call it once all pages
	// are written.
	Close() error
}

// Writer streams pages as NDJSON to a file or io.Writer.
type Writer struct {
	mu        sync.Mutex
	encoder   *json.Encoder
	count     int
	closeFunc func() error
}

// NewWriter creates an NDJSON writer over an arbitrary io.Writer. Close
// is a no-op; the caller owns the writer's lifetime.
func NewWriter(w io.Writer) *Writer {
	return &Writer{encoder: json.NewEncoder(w)}
}

// NewFileWriter creates an NDJSON writer backed by a freshly created file.
// The caller must call Close when done.
func NewFileWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &Writer{
		encoder:   json.NewEncoder(file),
		closeFunc: file.Close,
	}, nil
}

// WritePage writes one page as a single NDJSON line.
func (w *Writer) WritePage(page *confluence.Page) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(page); err != nil {
		return fmt.Errorf("failed to write page %s: %w", page.ID, err)
	}

	w.count++
	return nil
}

// Count returns the number of pages written so far.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying file if the writer owns one.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}
