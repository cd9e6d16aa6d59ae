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

package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/confdump/confdump/internal/apierror"
	confdumperrors "github.com/confdump/confdump/internal/errors"
	"github.com/confdump/confdump/pkg/version"
)

// RESTClient implements the Client interface against the Confluence REST API.
// It is configured with:
//   - Basic authentication (username + API token)
//   - Custom base URL (cloud or self-hosted instances)
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
//   - Connection pooling tuned for a sequential pagination workload
type RESTClient struct {
	httpClient *http.Client
	baseURL    string
	inspector  apierror.Inspector
}

// NewRESTClient creates a new Confluence REST client for the given instance.
// baseURL is the instance root, e.g. "https://example.atlassian.net/wiki".
func NewRESTClient(baseURL, username, token string) *RESTClient {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	httpClient := &http.Client{
		Transport: &authTransport{
			username: username,
			token:    token,
			base:     transport,
		},
	}

	return &RESTClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		inspector:  apierror.NewErrorChainInspector(apierror.NewInspector()),
	}
}

// CountPages returns the total number of pages in the space by running a
// minimal CQL search and reading its totalSize without fetching any content.
func (c *RESTClient) CountPages(ctx context.Context, spaceKey string) (int, error) {
	query := url.Values{}
	query.Set("cql", fmt.Sprintf("space = %q and type = %q", spaceKey, "page"))
	query.Set("limit", "1")

	var result struct {
		TotalSize int `json:"totalSize"`
	}
	if err := c.get(ctx, "/rest/api/content/search", query, &result); err != nil {
		return 0, c.mapError(err, spaceKey)
	}

	return result.TotalSize, nil
}

// ListPages retrieves one batch of pages from the space starting at
// opts.Start. The returned slice is empty once the offset passes the end of
// the space.
func (c *RESTClient) ListPages(ctx context.Context, spaceKey string, opts ListOptions) ([]Page, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	expand := opts.Expand
	if expand == "" {
		expand = DefaultExpand
	}

	query := url.Values{}
	query.Set("spaceKey", spaceKey)
	query.Set("type", "page")
	query.Set("start", strconv.Itoa(opts.Start))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("expand", expand)

	var result struct {
		Results []Page `json:"results"`
		Size    int    `json:"size"`
	}
	if err := c.get(ctx, "/rest/api/content", query, &result); err != nil {
		return nil, c.mapError(err, spaceKey)
	}

	return result.Results, nil
}

// get executes a GET request against the API and decodes the JSON response.
func (c *RESTClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Read a bounded snippet of the body for the error message.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("confluence API returned %d %s: %s",
			resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// mapError maps API errors to our domain errors with actionable messages
func (c *RESTClient) mapError(err error, spaceKey string) error {
	if err == nil {
		return nil
	}

	// Check rate limit before permission, as 403 responses can carry both.
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("confluence rate limit exceeded, wait before retrying: %w", confdumperrors.ErrRateLimit)
	}

	if c.inspector.IsPermissionError(err) {
		return fmt.Errorf("not permitted to read space %q: %w", spaceKey, confdumperrors.ErrPermissionDenied)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("confluence authentication failed, check CONFLUENCE_USERNAME and CONFLUENCE_TOKEN: %w", confdumperrors.ErrInvalidCredentials)
	}

	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("space %q not found, check the space key and your access: %w", spaceKey, confdumperrors.ErrSpaceNotFound)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to confluence: %w", confdumperrors.ErrNetworkFailure)
	}

	return fmt.Errorf("confluence request failed: %w", err)
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds authentication header and safety limits to HTTP requests
type authTransport struct {
	username string
	token    string
	base     http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	req.SetBasicAuth(t.username, t.token)
	req.Header.Set("User-Agent", fmt.Sprintf("confdump/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Apply response size limit (10MB)
	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      10 * 1024 * 1024,
		}
	}

	return resp, nil
}
