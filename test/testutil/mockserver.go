// Copyright 2025 GitPulse, LLC
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

// Package testutil provides common test helpers for gitpulse
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
)

// MockServer provides common mock server configurations for testing
type MockServer struct {
	*httptest.Server
	requestCount int32
}

// RequestCount returns how many requests the server has received.
func (m *MockServer) RequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// GraphQLEndpoint returns the URL to hand the client as its GraphQL
// endpoint.
func (m *MockServer) GraphQLEndpoint() string {
	return m.URL + "/graphql"
}

// NewMockServer creates a basic mock server that responds to GraphQL
// requests with the given handler. Requests are counted before the
// handler runs.
func NewMockServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()
	mock := &MockServer{}
	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&mock.requestCount, 1)
		handler(w, r)
	}))
	return mock
}

// graphQLRequest is the decoded body of one GraphQL POST.
type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// decodeGraphQLRequest reads the request body. A broken body yields an
// empty request, which the dispatchers answer with the count response.
func decodeGraphQLRequest(r *http.Request) graphQLRequest {
	var req graphQLRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	return req
}

// NewPagedFetchServer creates a mock server backing a repository with the
// given item totals. It answers the count query with the totals and serves
// cursor-paginated issue and pull request pages with deterministic data:
// one shared number sequence, all items open, reaction counts derived from
// the item number.
func NewPagedFetchServer(t *testing.T, totalIssues, totalPulls int) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeGraphQLRequest(r)
		w.Header().Set("Content-Type", "application/json")

		var response map[string]interface{}
		switch {
		case strings.Contains(req.Query, "issues(first:"):
			response = pagedItemResponse("issues", 0, totalIssues, req.Variables)
		case strings.Contains(req.Query, "pullRequests(first:"):
			response = pagedItemResponse("pullRequests", totalIssues, totalPulls, req.Variables)
		default:
			response = BuildCountResponse(totalIssues, totalPulls)
		}
		_ = json.NewEncoder(w).Encode(response)
	})
}

// cursorFor renders the pagination cursor pointing at a page of a
// connection.
func cursorFor(connection string, page int) string {
	return fmt.Sprintf("%s_cursor_%d", connection, page)
}

// sscanfCursor parses a cursor produced by cursorFor.
func sscanfCursor(cursor, connection string, page *int) (int, error) {
	return fmt.Sscanf(cursor, connection+"_cursor_%d", page)
}

// pagedItemResponse serves one page of the connection. Items are numbered
// offset+1 through offset+total so issues and pull requests share a number
// space the way they do on GitHub.
func pagedItemResponse(connection string, offset, total int, vars map[string]interface{}) map[string]interface{} {
	pageSize := 100
	if f, ok := vars["first"].(float64); ok && f > 0 {
		pageSize = int(f)
	}

	page := 0
	if after, ok := vars["after"].(string); ok && after != "" {
		_, _ = sscanfCursor(after, connection, &page)
	}

	start := page*pageSize + 1
	end := start + pageSize - 1
	if end > total {
		end = total
	}

	nodes := make([]map[string]interface{}, 0)
	for i := start; i <= end; i++ {
		number := offset + i
		nodes = append(nodes, NewItemBuilder(number).
			WithThumbs(number%50, number%7).
			WithReaction("HEART", number%3).
			Build())
	}

	hasMore := end < total
	builder := NewIssueResponse()
	if connection == "pullRequests" {
		builder = NewPullRequestResponse()
	}
	builder.WithItems(nodes...)
	if hasMore {
		builder.WithPagination(true, cursorFor(connection, page+1))
	}
	return builder.Build()
}

// NewRateLimitServer creates a mock server that answers every request
// with the quota-exhausted response GitHub sends
func NewRateLimitServer(t *testing.T, retryAfter int) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message": "API rate limit exceeded"}`))
	})
}

// NewErrorServer creates a mock server that always returns the specified error
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(http.StatusText(statusCode)))
	})
}

// NewGraphQLErrorServer creates a mock server that answers with a GraphQL
// error payload, the way GitHub reports missing repositories and schema
// violations over a 200 response.
func NewGraphQLErrorServer(t *testing.T, message string) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(NewIssueResponse().WithError(message).Build())
	})
}

// NewCorruptResponseServer creates a mock server whose responses break off
// mid-JSON, as a connection dropped during body transfer would.
func NewCorruptResponseServer(t *testing.T) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"repository": {"issues": {"nodes": [`))
	})
}

// AssertGraphQLRequest validates a GraphQL request structure
func AssertGraphQLRequest(t *testing.T, r *http.Request) {
	t.Helper()
	if r.URL.Path != "/graphql" {
		t.Errorf("Unexpected path: %s", r.URL.Path)
	}
	if r.Method != "POST" {
		t.Errorf("Expected POST method, got: %s", r.Method)
	}
	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type: application/json, got: %s", ct)
	}
}
