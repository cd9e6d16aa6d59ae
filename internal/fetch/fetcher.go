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

package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/confdump/confdump/internal/confluence"
	confdumperrors "github.com/confdump/confdump/internal/errors"
	"github.com/confdump/confdump/internal/metadata"
	"github.com/confdump/confdump/internal/progress"
	"github.com/confdump/confdump/internal/retry"
)

// DefaultPageSize is the batch size used when none is configured. Spaces
// with very large page bodies may want a smaller value.
const DefaultPageSize = 25

// Options configures a Fetcher.
type Options struct {
	// Policy is the retry policy for remote calls. Zero value means
	// retry.DefaultPolicy().
	Policy retry.Policy

	// PageSize is the number of pages requested per batch.
	// Defaults to DefaultPageSize.
	PageSize int

	// Expand selects the page sections to inline in each record.
	// Defaults to confluence.DefaultExpand.
	Expand string

	// Progress is invoked after every batch. Nil disables reporting.
	Progress progress.Func

	// Tracker records download statistics. Optional.
	Tracker *metadata.Tracker
}

// Fetcher downloads all pages of a space.
type Fetcher struct {
	client   confluence.Client
	log      zerolog.Logger
	policy   retry.Policy
	pageSize int
	expand   string
	progress progress.Func
	tracker  *metadata.Tracker
}

// New creates a Fetcher for the given client. Zero option fields fall back
// to the package defaults.
func New(client confluence.Client, log zerolog.Logger, opts Options) *Fetcher {
	policy := opts.Policy
	if policy.MaxAttempts == 0 {
		policy = retry.DefaultPolicy()
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	expand := opts.Expand
	if expand == "" {
		expand = confluence.DefaultExpand
	}

	return &Fetcher{
		client:   client,
		log:      log,
		policy:   policy,
		pageSize: pageSize,
		expand:   expand,
		progress: opts.Progress,
		tracker:  opts.Tracker,
	}
}

// FetchSpace downloads every page in the space and returns them in server
// order.
//
// An empty space is not an error: the result is an empty slice with a nil
// error, after a single warning log. A download abandoned because retries
// were exhausted returns a nil slice and an error wrapping ErrFetchAborted;
// partial results are discarded. Callers can therefore tell "empty space"
// from "aborted download" without reading logs.
//
// A permission denial is absorbed: the denied call yields an empty batch,
// pagination stops, and whatever was accumulated so far is returned as a
// success.
func (f *Fetcher) FetchSpace(ctx context.Context, spaceKey string) ([]confluence.Page, error) {
	start := time.Now()
	log := f.log.With().Str("space", spaceKey).Logger()

	total, err := f.countPages(ctx, log, spaceKey)
	if err != nil {
		return nil, fmt.Errorf("space %q: %w: %w", spaceKey, confdumperrors.ErrFetchAborted, err)
	}
	if total <= 0 {
		log.Warn().Msg("no pages found in space")
		return []confluence.Page{}, nil
	}
	f.tracker.SetExpectedPages(total)

	var (
		pages  []confluence.Page
		offset = 0
		label  = "Downloading space: " + spaceKey
	)

	for {
		batch, err := f.listPage(ctx, log, spaceKey, offset)
		if err != nil {
			log.Debug().
				Err(err).
				Int("fetched", len(pages)).
				Int("offset", offset).
				Msg("discarding partial results")
			return nil, fmt.Errorf("space %q: %w: %w", spaceKey, confdumperrors.ErrFetchAborted, err)
		}

		pages = append(pages, batch...)
		offset += len(batch)
		f.report(len(pages), total, time.Since(start), label)

		if len(batch) == 0 {
			break
		}
	}

	log.Debug().
		Int("pages", len(pages)).
		Dur("elapsed", time.Since(start)).
		Msg("space download complete")

	return pages, nil
}

// countPages samples the expected total once before pagination begins.
// Exhausted retries are swallowed to zero here: an unknown total is treated
// like an empty space.
func (f *Fetcher) countPages(ctx context.Context, log zerolog.Logger, spaceKey string) (int, error) {
	policy := f.policy
	policy.SwallowExhausted = true

	total, _, err := retry.Do(ctx, policy, log, "count_pages", func(ctx context.Context) (int, error) {
		f.tracker.IncrementAPICall()
		return f.client.CountPages(ctx, spaceKey)
	})
	return total, err
}

// listPage fetches one batch at the given offset under the retry policy.
// A denied batch comes back empty, which terminates the pagination loop.
func (f *Fetcher) listPage(ctx context.Context, log zerolog.Logger, spaceKey string, offset int) ([]confluence.Page, error) {
	log = log.With().Int("offset", offset).Int("limit", f.pageSize).Logger()

	batch, _, err := retry.Do(ctx, f.policy, log, "list_pages", func(ctx context.Context) ([]confluence.Page, error) {
		f.tracker.IncrementAPICall()
		return f.client.ListPages(ctx, spaceKey, confluence.ListOptions{
			Start:  offset,
			Limit:  f.pageSize,
			Expand: f.expand,
		})
	})
	return batch, err
}

func (f *Fetcher) report(current, total int, elapsed time.Duration, label string) {
	if f.progress == nil {
		return
	}
	f.progress(current, total, elapsed, label)
}
