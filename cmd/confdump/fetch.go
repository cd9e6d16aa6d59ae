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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/confdump/confdump/internal/config"
	"github.com/confdump/confdump/internal/confluence"
	confdumperrors "github.com/confdump/confdump/internal/errors"
	"github.com/confdump/confdump/internal/fetch"
	"github.com/confdump/confdump/internal/logging"
	"github.com/confdump/confdump/internal/metadata"
	"github.com/confdump/confdump/internal/output"
	"github.com/confdump/confdump/internal/progress"
)

// fetchCmd represents the fetch command
func newFetchCommand() *cobra.Command {
	var (
		configPath string
		outputFile string
		pageSize   int
		expand     string
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "fetch [space-key]",
		Short: "Download all pages of a Confluence space",
		Long: `Download all pages of a Confluence space and output them in NDJSON format.

The space key identifies the space to download, for example: DOCS, ENG.
When omitted, the default space key from the configuration or the
CONFLUENCE_SPACE_KEY environment variable is used.

Authentication is required via basic credentials:
  - Set CONFLUENCE_URL, CONFLUENCE_USERNAME and CONFLUENCE_TOKEN
  - Or provide confluence settings in a config file`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.Context(), args, configPath, outputFile, pageSize, expand, noProgress)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: .confdump.yaml, ~/.confdump/config.yaml)")
	cmd.Flags().StringVar(&outputFile, "output", "", "Output file path (default: stdout)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Pages per request (overrides config)")
	cmd.Flags().StringVar(&expand, "expand", "", "Comma-separated page sections to expand (overrides config)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

// runFetch executes the fetch command
func runFetch(ctx context.Context, args []string, configPath, outputFile string, pageSize int, expand string, noProgress bool) error {
	spaceKey := ""
	if len(args) == 1 {
		spaceKey = strings.TrimSpace(args[0])
	}

	cfg, err := config.LoadConfigForSpace(configPath, spaceKey)
	if err != nil {
		return err
	}
	if spaceKey == "" {
		spaceKey = cfg.Confluence.SpaceKey
	}
	if spaceKey == "" {
		return fmt.Errorf("no space key given. Pass one as an argument or set CONFLUENCE_SPACE_KEY")
	}

	// Flags beat config and environment.
	if pageSize > 0 {
		cfg.Defaults.PageSize = pageSize
	}
	if expand != "" {
		cfg.Defaults.Expand = expand
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Close()

	ctx, span := logging.StartSegment(ctx, "fetch_space", map[string]string{
		"space": spaceKey,
	})
	defer span.End()

	writer, err := newPageWriter(outputFile)
	if err != nil {
		return err
	}
	defer writer.Close()

	client := confluence.NewRESTClient(cfg.Confluence.BaseURL, cfg.Confluence.Username, cfg.Confluence.Token)
	tracker := metadata.New()

	fetcher := fetch.New(client, log.Logger, fetch.Options{
		Policy:   cfg.RetryPolicy(),
		PageSize: cfg.Defaults.PageSize,
		Expand:   cfg.Defaults.Expand,
		Progress: progressFunc(noProgress),
		Tracker:  tracker,
	})

	pages, err := fetcher.FetchSpace(ctx, spaceKey)
	fmt.Fprintf(os.Stderr, "\r\033[K") // Clear progress line
	if err != nil {
		return err
	}

	for i := range pages {
		if err := writer.WritePage(&pages[i]); err != nil {
			return fmt.Errorf("failed to write page: %w", err)
		}
	}

	if outputFile != "" {
		meta := tracker.Finalize(spaceKey, len(pages))
		if err := meta.Write(metadata.PathFor(outputFile)); err != nil {
			log.Warn().Err(err).Msg("failed to write fetch metadata")
		}
	}

	if len(pages) > 0 {
		fmt.Fprintf(os.Stderr, "Successfully downloaded %d pages from space %s\n", len(pages), spaceKey)
	} else {
		fmt.Fprintf(os.Stderr, "No pages found in space %s\n", spaceKey)
	}

	return nil
}

// newPageWriter picks the output destination: stdout by default, a file
// when --output is given.
func newPageWriter(outputFile string) (output.PageWriter, error) {
	if outputFile == "" {
		return output.NewWriter(os.Stdout), nil
	}
	writer, err := output.NewFileWriter(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return writer, nil
}

// progressFunc builds the progress callback. The bar goes to stderr so it
// never interleaves with NDJSON records on stdout.
func progressFunc(noProgress bool) progress.Func {
	if noProgress {
		return nil
	}
	reporter := &progress.Reporter{Out: os.Stderr, Width: 50}
	return reporter.Report
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, confdumperrors.ErrInvalidCredentials) ||
		errors.Is(err, confdumperrors.ErrSpaceNotFound) ||
		errors.Is(err, confdumperrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, confdumperrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
