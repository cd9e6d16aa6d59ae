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

// Package testutil provides common test helpers for confdump
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
)

// SpaceServer simulates the two Confluence REST endpoints the downloader
// uses: content search (for the page count) and content listing. Pages are
// served from an in-memory space by offset and limit, exactly like the
// real offset pagination.
type SpaceServer struct {
	*httptest.Server

	requestCount int32
}

// SpacePage is one page row served by SpaceServer.
type SpacePage struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// NewSpaceServer creates a server holding the given pages for any space key.
func NewSpaceServer(t *testing.T, pages []SpacePage) *SpaceServer {
	t.Helper()

	s := &SpaceServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.requestCount, 1)

		switch r.URL.Path {
		case "/rest/api/content/search":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"totalSize": %d}`, len(pages))

		case "/rest/api/content":
			start, _ := strconv.Atoi(r.URL.Query().Get("start"))
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			if limit <= 0 {
				limit = 25
			}

			batch := []SpacePage{}
			if start < len(pages) {
				end := start + limit
				if end > len(pages) {
					end = len(pages)
				}
				batch = pages[start:end]
			}

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"results": batch,
				"start":   start,
				"limit":   limit,
				"size":    len(batch),
			})

		default:
			http.NotFound(w, r)
		}
	}))

	return s
}

// RequestCount returns the number of requests served so far.
func (s *SpaceServer) RequestCount() int {
	return int(atomic.LoadInt32(&s.requestCount))
}

// GenerateSpacePages builds n sequentially numbered pages for a space.
func GenerateSpacePages(n int) []SpacePage {
	pages := make([]SpacePage, n)
	for i := range pages {
		pages[i] = SpacePage{
			ID:    strconv.Itoa(1000 + i),
			Type:  "page",
			Title: fmt.Sprintf("Page %d", i+1),
		}
	}
	return pages
}

// NewErrorServer creates a mock server that always returns the specified error
func NewErrorServer(t *testing.T, statusCode int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(http.StatusText(statusCode)))
	}))
}

// NewTransientErrorServer creates a mock server that fails the first
// failCount requests with errorCode, then serves the given pages normally.
func NewTransientErrorServer(t *testing.T, failCount, errorCode int, pages []SpacePage) *httptest.Server {
	t.Helper()
	var requestCount int32
	inner := NewSpaceServer(t, pages)
	t.Cleanup(inner.Close)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := atomic.AddInt32(&requestCount, 1)
		if count <= int32(failCount) {
			w.WriteHeader(errorCode)
			_, _ = w.Write([]byte(http.StatusText(errorCode)))
			return
		}
		httputilProxy(inner.URL, w, r)
	}))
}

// httputilProxy forwards one request to the inner server.
func httputilProxy(target string, w http.ResponseWriter, r *http.Request) {
	resp, err := http.Get(target + r.URL.RequestURI())
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", resp.Header.Get("Content-Type"))
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}
