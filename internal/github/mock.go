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

package github

import (
	"context"
	"fmt"
	"sync"
	"time"

	pulseerrors "github.com/gitpulsehq/gitpulse/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
// Pages are served as scripted: each call to a page method returns the
// next page from the corresponding script, and calls past the end of the
// script return an empty final page. The mock is safe for concurrent use
// because the fetch pipeline drains both kinds in parallel.
type MockClient struct {
	// Scripted responses
	Counts     ItemCounts
	IssuePages []ItemPage
	PullPages  []ItemPage

	// Errors to inject. A page error fires once the corresponding
	// ErrorAfter count of successful pages has been served.
	CountsError     error
	IssueError      error
	IssueErrorAfter int
	PullError       error
	PullErrorAfter  int

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNotFound bool

	mu sync.Mutex

	// Track calls for verification
	CountCalls   int
	IssueCalls   int
	PullCalls    int
	LastRef      RepoRef
	LastFilter   StateFilter
	LastOpts     PageOptions
	IssueCursors []string
	PullCursors  []string
}

// NewMockClient creates a new mock client with default test data.
func NewMockClient() *MockClient {
	issues := generateTestItems(KindIssue, 3)
	pulls := generateTestItems(KindPullRequest, 2)

	return &MockClient{
		Counts:     ItemCounts{Issues: len(issues), PullRequests: len(pulls)},
		IssuePages: []ItemPage{{Items: issues}},
		PullPages:  []ItemPage{{Items: pulls}},
	}
}

// CountItems implements the Client interface.
func (m *MockClient) CountItems(ctx context.Context, ref RepoRef, filter StateFilter) (*ItemCounts, error) {
	m.mu.Lock()
	m.CountCalls++
	m.LastRef = ref
	m.LastFilter = filter
	m.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := m.commonFailure(ref); err != nil {
		return nil, err
	}
	if m.CountsError != nil {
		return nil, m.CountsError
	}

	counts := m.Counts
	return &counts, nil
}

// FetchIssuePage implements the Client interface.
func (m *MockClient) FetchIssuePage(ctx context.Context, ref RepoRef, filter StateFilter, opts PageOptions) (*ItemPage, error) {
	m.mu.Lock()
	m.IssueCalls++
	served := m.IssueCalls - 1
	m.LastRef = ref
	m.LastFilter = filter
	m.LastOpts = opts
	m.IssueCursors = append(m.IssueCursors, opts.After)
	m.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := m.commonFailure(ref); err != nil {
		return nil, err
	}
	if m.IssueError != nil && served >= m.IssueErrorAfter {
		return nil, m.IssueError
	}

	return scriptedPage(m.IssuePages, served), nil
}

// FetchPullRequestPage implements the Client interface.
func (m *MockClient) FetchPullRequestPage(ctx context.Context, ref RepoRef, filter StateFilter, opts PageOptions) (*ItemPage, error) {
	m.mu.Lock()
	m.PullCalls++
	served := m.PullCalls - 1
	m.LastRef = ref
	m.LastFilter = filter
	m.LastOpts = opts
	m.PullCursors = append(m.PullCursors, opts.After)
	m.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := m.commonFailure(ref); err != nil {
		return nil, err
	}
	if m.PullError != nil && served >= m.PullErrorAfter {
		return nil, m.PullError
	}

	return scriptedPage(m.PullPages, served), nil
}

// commonFailure simulates error conditions shared by all operations.
func (m *MockClient) commonFailure(ref RepoRef) error {
	if m.ShouldFailAuth {
		return fmt.Errorf("authentication failed: %w", pulseerrors.ErrInvalidToken)
	}
	if m.ShouldFailNotFound || (ref.Owner == "nonexistent" && ref.Name == "repo") {
		return fmt.Errorf("repository not found: %w", pulseerrors.ErrRepoNotFound)
	}
	return nil
}

// scriptedPage returns the page at the given index, or an empty final
// page when the script is exhausted. The exhausted case mirrors GitHub
// serving fewer items than the advertised totals.
func scriptedPage(pages []ItemPage, index int) *ItemPage {
	if index >= len(pages) {
		return &ItemPage{}
	}
	page := pages[index]
	return &page
}

// generateTestItems creates sample item data for testing.
func generateTestItems(kind ItemKind, n int) []Item {
	now := time.Now().UTC()

	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		state := ItemStateOpen
		if i%2 == 1 {
			state = ItemStateClosed
		}
		items = append(items, Item{
			Kind:      kind,
			Number:    1000 + i,
			Title:     fmt.Sprintf("Sample %s %d", kind, 1000+i),
			URL:       fmt.Sprintf("https://github.com/acme/widgets/%s/%d", kind, 1000+i),
			State:     state,
			CreatedAt: now.Add(-time.Duration(i) * 24 * time.Hour),
			Reactions: ReactionSummary{
				TotalCount:    i * 3,
				PositiveCount: i * 2,
				NegativeCount: i,
			},
		})
	}
	return items
}

// MockClientOption allows configuring the mock client.
type MockClientOption func(*MockClient)

// WithCounts sets the totals returned by CountItems.
func WithCounts(counts ItemCounts) MockClientOption {
	return func(m *MockClient) {
		m.Counts = counts
	}
}

// WithIssuePages sets the scripted issue pages.
func WithIssuePages(pages ...ItemPage) MockClientOption {
	return func(m *MockClient) {
		m.IssuePages = pages
	}
}

// WithPullRequestPages sets the scripted pull request pages.
func WithPullRequestPages(pages ...ItemPage) MockClientOption {
	return func(m *MockClient) {
		m.PullPages = pages
	}
}

// WithCountsError makes CountItems return a specific error.
func WithCountsError(err error) MockClientOption {
	return func(m *MockClient) {
		m.CountsError = err
	}
}

// WithIssueError makes issue page fetches fail after the given number of
// successful pages.
func WithIssueError(err error, afterPages int) MockClientOption {
	return func(m *MockClient) {
		m.IssueError = err
		m.IssueErrorAfter = afterPages
	}
}

// WithPullRequestError makes pull request page fetches fail after the
// given number of successful pages.
func WithPullRequestError(err error, afterPages int) MockClientOption {
	return func(m *MockClient) {
		m.PullError = err
		m.PullErrorAfter = afterPages
	}
}

// WithAuthFailure makes the client simulate authentication failure.
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// NewMockClientWithOptions creates a mock client with options.
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
