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

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// GitHubLikeMockServer creates a mock server that behaves like the real
// GitHub GraphQL API: it demands bearer authentication, counts down an
// API quota with the X-RateLimit response headers, and serves the count
// query plus paginated issue and pull request pages with a deterministic
// mix of open, closed, and merged items. State filter variables are
// ignored, so drive it with a fetch that requests all states.
type GitHubLikeMockServer struct {
	*httptest.Server
	mu                 sync.RWMutex
	rateLimitRemaining int32
	rateLimitReset     int64
	requestHistory     []GraphQLRequest
	totalIssues        int
	totalPulls         int
}

// GraphQLRequest represents a parsed GraphQL request
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
	Timestamp time.Time
}

// NewGitHubLikeMockServer creates a realistic GitHub API mock backing a
// repository with the given item totals.
func NewGitHubLikeMockServer(t *testing.T, totalIssues, totalPulls int) *GitHubLikeMockServer {
	t.Helper()

	mock := &GitHubLikeMockServer{
		rateLimitRemaining: 5000,
		rateLimitReset:     time.Now().Add(time.Hour).Unix(),
		requestHistory:     []GraphQLRequest{},
		totalIssues:        totalIssues,
		totalPulls:         totalPulls,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Validate request method and path
		if r.Method != "POST" || r.URL.Path != "/graphql" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		// Check authorization
		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{
				"message":           "Bad credentials",
				"documentation_url": "https://docs.github.com/graphql",
			})
			return
		}

		// Parse GraphQL request
		var req GraphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"message": "Problems parsing JSON",
			})
			return
		}
		req.Timestamp = time.Now()

		// Store request history
		mock.mu.Lock()
		mock.requestHistory = append(mock.requestHistory, req)
		mock.mu.Unlock()

		// Check rate limit. GitHub answers an exhausted primary quota
		// with 403, not 429.
		remaining := atomic.AddInt32(&mock.rateLimitRemaining, -1)
		if remaining < 0 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(mock.rateLimitReset, 10))
			w.Header().Set("Retry-After", "3600")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{
				"message":           "API rate limit exceeded",
				"documentation_url": "https://docs.github.com/graphql/overview/resource-limitations",
			})
			return
		}

		// Set rate limit headers
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(remaining)))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(mock.rateLimitReset, 10))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(mock.generateResponse(req))
	}))

	mock.Server = server
	return mock
}

// GraphQLEndpoint returns the URL to hand the client as its GraphQL
// endpoint.
func (m *GitHubLikeMockServer) GraphQLEndpoint() string {
	return m.URL + "/graphql"
}

// generateResponse dispatches a parsed request onto the count query or
// one of the two page queries.
func (m *GitHubLikeMockServer) generateResponse(req GraphQLRequest) map[string]interface{} {
	switch {
	case strings.Contains(req.Query, "issues(first:"):
		return m.pagedResponse("issues", 0, m.totalIssues, req.Variables)
	case strings.Contains(req.Query, "pullRequests(first:"):
		return m.pagedResponse("pullRequests", m.totalIssues, m.totalPulls, req.Variables)
	default:
		return BuildCountResponse(m.totalIssues, m.totalPulls)
	}
}

// pagedResponse serves one page of the connection with a deterministic
// state mix: roughly a third of the items are closed, and closed pull
// requests are mostly merged.
func (m *GitHubLikeMockServer) pagedResponse(connection string, offset, total int, vars map[string]interface{}) map[string]interface{} {
	pageSize := 100
	if f, ok := vars["first"].(float64); ok && f > 0 {
		pageSize = int(f)
	}

	page := 0
	if after, ok := vars["after"].(string); ok && after != "" {
		var c int
		if n, _ := sscanfCursor(after, connection, &c); n == 1 {
			page = c
		}
	}

	start := page*pageSize + 1
	end := start + pageSize - 1
	if end > total {
		end = total
	}

	nodes := make([]map[string]interface{}, 0)
	for i := start; i <= end; i++ {
		number := offset + i
		builder := NewItemBuilder(number).
			WithThumbs(number%50, number%7).
			WithReaction("HEART", number%3).
			WithReaction("CONFUSED", number%13)

		switch {
		case connection == "pullRequests" && number%10 < 2:
			builder.WithState("MERGED")
		case number%10 < 3:
			builder.WithState("CLOSED")
		}

		nodes = append(nodes, builder.Build())
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

// GetRequestHistory returns the history of GraphQL requests
func (m *GitHubLikeMockServer) GetRequestHistory() []GraphQLRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]GraphQLRequest, len(m.requestHistory))
	copy(history, m.requestHistory)
	return history
}

// ResetRateLimit resets the rate limit counter
func (m *GitHubLikeMockServer) ResetRateLimit() {
	atomic.StoreInt32(&m.rateLimitRemaining, 5000)
	m.rateLimitReset = time.Now().Add(time.Hour).Unix()
}

// SetRateLimit sets how many further requests the quota allows
func (m *GitHubLikeMockServer) SetRateLimit(remaining int32) {
	atomic.StoreInt32(&m.rateLimitRemaining, remaining)
}
