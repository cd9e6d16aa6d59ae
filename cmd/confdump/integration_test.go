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
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	confdumperrors "github.com/confdump/confdump/internal/errors"
	"github.com/confdump/confdump/internal/metadata"
	"github.com/confdump/confdump/test/testutil"
)

// writeTestConfig points confdump at a mock server with a quiet logger.
func writeTestConfig(t *testing.T, baseURL string) string {
	t.Helper()

	t.Setenv("CONFLUENCE_URL", baseURL)
	t.Setenv("CONFLUENCE_USERNAME", "reader@example.com")
	t.Setenv("CONFLUENCE_TOKEN", "test-token")
	t.Setenv("CONFLUENCE_SPACE_KEY", "")

	path := filepath.Join(t.TempDir(), "confdump.yaml")
	content := `
logging:
  level: error
retry:
  max_attempts: 3
  initial_backoff: 1ms
  max_backoff: 5ms
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunFetch_DownloadsSpaceToFile(t *testing.T) {
	srv := testutil.NewSpaceServer(t, testutil.GenerateSpacePages(7))
	defer srv.Close()

	cfgPath := writeTestConfig(t, srv.URL)
	outPath := filepath.Join(t.TempDir(), "docs.ndjson")

	err := runFetch(context.Background(), []string{"DOCS"}, cfgPath, outPath, 3, "", true)
	if err != nil {
		t.Fatalf("runFetch: %v", err)
	}

	lines := testutil.ReadNDJSONLines(t, outPath)
	if len(lines) != 7 {
		t.Fatalf("got %d NDJSON lines, want 7", len(lines))
	}

	// The metadata summary lands next to the output file.
	metaPath := metadata.PathFor(outPath)
	testutil.AssertFileExists(t, metaPath)

	var meta metadata.FetchMetadata
	testutil.ReadJSON(t, metaPath, &meta)
	if meta.SpaceKey != "DOCS" {
		t.Errorf("meta.SpaceKey = %q, want DOCS", meta.SpaceKey)
	}
	if meta.Pages != 7 {
		t.Errorf("meta.Pages = %d, want 7", meta.Pages)
	}
	if meta.ExpectedPages != 7 {
		t.Errorf("meta.ExpectedPages = %d, want 7", meta.ExpectedPages)
	}
	// One count call plus four list calls (7 pages at size 3, then empty).
	if meta.APICalls != 5 {
		t.Errorf("meta.APICalls = %d, want 5", meta.APICalls)
	}
}

func TestRunFetch_EmptySpace(t *testing.T) {
	srv := testutil.NewSpaceServer(t, nil)
	defer srv.Close()

	cfgPath := writeTestConfig(t, srv.URL)
	outPath := filepath.Join(t.TempDir(), "empty.ndjson")

	err := runFetch(context.Background(), []string{"EMPTY"}, cfgPath, outPath, 0, "", true)
	if err != nil {
		t.Fatalf("runFetch: %v", err)
	}

	if lines := testutil.ReadNDJSONLines(t, outPath); len(lines) != 0 {
		t.Errorf("got %d NDJSON lines, want 0", len(lines))
	}
}

func TestRunFetch_MissingSpaceKey(t *testing.T) {
	srv := testutil.NewSpaceServer(t, nil)
	defer srv.Close()

	cfgPath := writeTestConfig(t, srv.URL)

	err := runFetch(context.Background(), nil, cfgPath, "", 0, "", true)
	if err == nil {
		t.Fatal("expected error without a space key")
	}
}

func TestRunFetch_MissingCredentials(t *testing.T) {
	srv := testutil.NewSpaceServer(t, nil)
	defer srv.Close()

	cfgPath := writeTestConfig(t, srv.URL)
	t.Setenv("CONFLUENCE_TOKEN", "")

	err := runFetch(context.Background(), []string{"DOCS"}, cfgPath, "", 0, "", true)
	if err == nil {
		t.Fatal("expected validation error without a token")
	}
}

func TestRunFetch_NotFoundSpaceBehavesAsEmpty(t *testing.T) {
	// A failed count is swallowed after retries, so an unknown space key
	// downloads as an empty space rather than an error.
	srv := testutil.NewErrorServer(t, http.StatusNotFound)
	defer srv.Close()

	cfgPath := writeTestConfig(t, srv.URL)
	outPath := filepath.Join(t.TempDir(), "gone.ndjson")

	err := runFetch(context.Background(), []string{"GONE"}, cfgPath, outPath, 0, "", true)
	if err != nil {
		t.Fatalf("runFetch: %v", err)
	}
	if lines := testutil.ReadNDJSONLines(t, outPath); len(lines) != 0 {
		t.Errorf("got %d NDJSON lines, want 0", len(lines))
	}
}

func TestRunFetch_AuthFailureDuringListing(t *testing.T) {
	// Count succeeds, then every list call is rejected: the download
	// aborts and the credential error maps to exit code 2.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/api/content/search" {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"totalSize": 4}`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "basic auth failed"}`))
	}))
	defer srv.Close()

	cfgPath := writeTestConfig(t, srv.URL)
	outPath := filepath.Join(t.TempDir(), "denied.ndjson")

	err := runFetch(context.Background(), []string{"DOCS"}, cfgPath, outPath, 0, "", true)
	if err == nil {
		t.Fatal("expected error when listing is rejected")
	}
	if !errors.Is(err, confdumperrors.ErrFetchAborted) {
		t.Errorf("error = %v, want ErrFetchAborted in chain", err)
	}
	if !errors.Is(err, confdumperrors.ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials in chain", err)
	}
	if got := mapErrorToExitCode(err); got != 2 {
		t.Errorf("exit code = %d, want 2", got)
	}
}

func TestRunFetch_TransientFailureRecovers(t *testing.T) {
	srv := testutil.NewTransientErrorServer(t, 2, http.StatusBadGateway, testutil.GenerateSpacePages(3))
	defer srv.Close()

	cfgPath := writeTestConfig(t, srv.URL)
	outPath := filepath.Join(t.TempDir(), fmt.Sprintf("retry-%d.ndjson", os.Getpid()))

	err := runFetch(context.Background(), []string{"DOCS"}, cfgPath, outPath, 25, "", true)
	if err != nil {
		t.Fatalf("runFetch: %v", err)
	}

	if lines := testutil.ReadNDJSONLines(t, outPath); len(lines) != 3 {
		t.Errorf("got %d NDJSON lines, want 3", len(lines))
	}
}
