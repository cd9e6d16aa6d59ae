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

package progress

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"
)

// defaultBarWidth is the number of characters in the filled/unfilled bar.
const defaultBarWidth = 50

// Func is a progress callback. Components that report progress depend on
// this type rather than on the concrete Reporter, which keeps them testable.
type Func func(current, total int, elapsed time.Duration, label string)

// Reporter renders an in-place progress line.
type Reporter struct {
	// Out is where the progress line is written. Default: os.Stdout.
	Out io.Writer

	// Width is the bar width in characters. Default: 50.
	Width int
}

// New creates a Reporter writing to stdout with the default bar width.
func New() *Reporter {
	return &Reporter{Out: os.Stdout, Width: defaultBarWidth}
}

// Report rewrites the progress line for the given counts. It is a no-op when
// total is not positive. Write errors are ignored: progress is display-only
// and must never disturb the download itself.
func (r *Reporter) Report(current, total int, elapsed time.Duration, label string) {
	if total <= 0 {
		return
	}

	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	width := r.Width
	if width <= 0 {
		width = defaultBarWidth
	}

	percent := math.Min(100*float64(current)/float64(total), 100)
	if percent < 0 {
		percent = 0
	}
	filled := int(math.Round(float64(width) * float64(current) / float64(total)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("∙", width-filled)

	elapsedStr := formatElapsed(int(elapsed.Seconds()))
	if elapsedStr == "" {
		elapsedStr = "1s"
	}

	etaStr := ""
	if percent > 0 {
		remaining := elapsed.Seconds() / math.Max(percent, 0.1) * (100 - percent)
		if s := formatElapsed(int(remaining)); s != "" {
			etaStr = " eta: " + s
		}
	}

	prefix := ""
	if label != "" {
		prefix = label + ": "
	}
	displayed := current
	if displayed > total {
		displayed = total
	}

	fmt.Fprintf(out, "\r%s%.1f%% |%s| elapsed: %s%s (%d/%d)",
		prefix, percent, bar, elapsedStr, etaStr, displayed, total)
}

// formatElapsed renders a second count as largest-unit-first "1d 2h 3m 4s",
// omitting zero units. Returns "" for zero seconds.
func formatElapsed(seconds int) string {
	units := []struct {
		suffix  string
		seconds int
	}{
		{"d", 86400},
		{"h", 3600},
		{"m", 60},
		{"s", 1},
	}

	var parts []string
	remaining := seconds
	for _, u := range units {
		if n := remaining / u.seconds; n > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", n, u.suffix))
			remaining %= u.seconds
		}
	}
	return strings.Join(parts, " ")
}
