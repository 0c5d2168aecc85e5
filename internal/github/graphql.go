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
	"net/http"
	"time"

	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	pulseerrors "github.com/gitpulsehq/gitpulse/internal/errors"
	"github.com/gitpulsehq/gitpulse/internal/giterror"
)

// GraphQLClient implements the GitHub Client interface using the GraphQL
// API. It provides cursor-paginated access to issues and pull requests
// with their reaction groups, and maps transport and API failures onto
// the sentinel error taxonomy.
type GraphQLClient struct {
	client    *githubv4.Client
	inspector giterror.Inspector
}

// NewGraphQLClient creates a new GitHub GraphQL client for the given
// endpoint. The client is configured with:
//   - Optional bearer authentication via oauth2 (empty token means anonymous)
//   - Custom GraphQL endpoint URL (e.g., for tests against a local server)
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
//   - Optimized connection pooling for API performance
func NewGraphQLClient(token, endpoint string) *GraphQLClient {
	// Create optimized transport with connection pooling
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10, // Increased from default 2
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		ForceAttemptHTTP2:   true, // Ensure HTTP/2 is used
	}

	// Anonymous access is allowed: the oauth2 layer is only inserted when
	// a token was supplied.
	var base http.RoundTripper = transport
	if token != "" {
		base = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   transport,
		}
	}

	httpClient := &http.Client{
		Transport: &apiTransport{base: base},
	}

	return &GraphQLClient{
		client:    githubv4.NewEnterpriseClient(endpoint, httpClient),
		inspector: giterror.NewErrorChainInspector(giterror.NewInspector()),
	}
}

// CountItems retrieves the filter-scoped totals of issues and pull
// requests in a single minimal query. The totals drive the page budget
// and progress display for a full fetch.
func (c *GraphQLClient) CountItems(ctx context.Context, ref RepoRef, filter StateFilter) (*ItemCounts, error) {
	var query struct {
		Repository struct {
			Issues struct {
				TotalCount githubv4.Int
			} `graphql:"issues(states: $issueStates)"`
			PullRequests struct {
				TotalCount githubv4.Int
			} `graphql:"pullRequests(states: $pullRequestStates)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner":             githubv4.String(ref.Owner),
		"name":              githubv4.String(ref.Name),
		"issueStates":       IssueStatesFor(filter),
		"pullRequestStates": PullRequestStatesFor(filter),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, ref)
	}

	return &ItemCounts{
		Issues:       int(query.Repository.Issues.TotalCount),
		PullRequests: int(query.Repository.PullRequests.TotalCount),
	}, nil
}

// FetchIssuePage fetches one page of issues from the repository, newest
// first. It supports cursor-based pagination via opts.After and
// configurable page sizes through opts.PageSize. Reaction groups are
// folded into summary counts as each node is decoded.
func (c *GraphQLClient) FetchIssuePage(ctx context.Context, ref RepoRef, filter StateFilter, opts PageOptions) (*ItemPage, error) {
	var query struct {
		Repository struct {
			Issues struct {
				PageInfo pageInfo
				Nodes    []issueNode
			} `graphql:"issues(first: $first, after: $after, states: $states, orderBy: {field: CREATED_AT, direction: DESC})"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	if err := c.client.Query(ctx, &query, c.pageVariables(ref, opts, IssueStatesFor(filter))); err != nil {
		return nil, c.mapError(err, ref)
	}

	conn := query.Repository.Issues
	page := &ItemPage{
		Items:       make([]Item, 0, len(conn.Nodes)),
		HasNextPage: bool(conn.PageInfo.HasNextPage),
		EndCursor:   string(conn.PageInfo.EndCursor),
	}
	for i := range conn.Nodes {
		item, err := conn.Nodes[i].toItem()
		if err != nil {
			return nil, fmt.Errorf("decoding issue page: %w", err)
		}
		page.Items = append(page.Items, item)
	}

	return page, nil
}

// FetchPullRequestPage fetches one page of pull requests from the
// repository, newest first, with the same pagination contract as
// FetchIssuePage.
func (c *GraphQLClient) FetchPullRequestPage(ctx context.Context, ref RepoRef, filter StateFilter, opts PageOptions) (*ItemPage, error) {
	var query struct {
		Repository struct {
			PullRequests struct {
				PageInfo pageInfo
				Nodes    []pullRequestNode
			} `graphql:"pullRequests(first: $first, after: $after, states: $states, orderBy: {field: CREATED_AT, direction: DESC})"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	if err := c.client.Query(ctx, &query, c.pageVariables(ref, opts, PullRequestStatesFor(filter))); err != nil {
		return nil, c.mapError(err, ref)
	}

	conn := query.Repository.PullRequests
	page := &ItemPage{
		Items:       make([]Item, 0, len(conn.Nodes)),
		HasNextPage: bool(conn.PageInfo.HasNextPage),
		EndCursor:   string(conn.PageInfo.EndCursor),
	}
	for i := range conn.Nodes {
		item, err := conn.Nodes[i].toItem()
		if err != nil {
			return nil, fmt.Errorf("decoding pull request page: %w", err)
		}
		page.Items = append(page.Items, item)
	}

	return page, nil
}

// pageVariables assembles the query variables shared by both page
// queries. The states value must already carry the githubv4 enum type so
// the variable is declared with the matching GraphQL list type.
func (c *GraphQLClient) pageVariables(ref RepoRef, opts PageOptions, states interface{}) map[string]interface{} {
	pageSize := NormalizePageSize(opts.PageSize)

	return map[string]interface{}{
		"owner":  githubv4.String(ref.Owner),
		"name":   githubv4.String(ref.Name),
		"first":  githubv4.Int(int32(pageSize)), // #nosec G115 - pageSize is capped at 100
		"after":  cursorVariable(opts.After),
		"states": states,
	}
}

// cursorVariable renders the pagination cursor variable: null on the
// first page, the previous page's endCursor afterwards. GitHub rejects an
// empty-string cursor, so the zero value must map to JSON null.
func cursorVariable(after string) *githubv4.String {
	if after == "" {
		return (*githubv4.String)(nil)
	}
	return githubv4.NewString(githubv4.String(after))
}

// mapError maps GraphQL errors to our domain errors with actionable messages
func (c *GraphQLClient) mapError(err error, ref RepoRef) error {
	if err == nil {
		return nil
	}

	// Use the inspector to classify errors.
	// Check rate limit before auth: a 403 belongs to the rate limit class.
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded. Please wait before retrying: %w", pulseerrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via --token flag or GITHUB_TOKEN environment variable: %w", pulseerrors.ErrInvalidToken)
	}

	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("repository '%s' not found. Please check the repository name and your access permissions: %w", ref, pulseerrors.ErrRepoNotFound)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to GitHub API. Please check your internet connection and try again: %w", pulseerrors.ErrNetworkFailure)
	}

	// Unclassified: surface the original message unchanged.
	return fmt.Errorf("github api request failed: %w", err)
}

// pageInfo mirrors the GraphQL pageInfo block shared by both connections.
type pageInfo struct {
	HasNextPage githubv4.Boolean
	EndCursor   githubv4.String
}

// reactionGroupNode mirrors one reactionGroups entry on an issue or pull
// request. Reactors carries the per-kind user count.
type reactionGroupNode struct {
	Content  githubv4.ReactionContent
	Reactors struct {
		TotalCount githubv4.Int
	}
}

// issueNode mirrors the issue fields requested by FetchIssuePage.
type issueNode struct {
	Number         githubv4.Int
	Title          githubv4.String
	URL            githubv4.String
	State          githubv4.IssueState
	CreatedAt      githubv4.DateTime
	ReactionGroups []reactionGroupNode
}

// toItem converts the wire node into the domain model, validating the
// state and folding reaction groups into the summary. Issues only ever
// report OPEN or CLOSED; anything else means the response is not one we
// know how to interpret, so the page is rejected rather than mislabeled.
func (n *issueNode) toItem() (Item, error) {
	state := string(n.State)
	if state != ItemStateOpen && state != ItemStateClosed {
		return Item{}, fmt.Errorf("issue #%d has unexpected state %q", n.Number, state)
	}

	return Item{
		Kind:      KindIssue,
		Number:    int(n.Number),
		Title:     string(n.Title),
		URL:       string(n.URL),
		State:     state,
		CreatedAt: n.CreatedAt.Time,
		Reactions: SummarizeReactions(convertReactionGroups(n.ReactionGroups)),
	}, nil
}

// pullRequestNode mirrors the pull request fields requested by
// FetchPullRequestPage.
type pullRequestNode struct {
	Number         githubv4.Int
	Title          githubv4.String
	URL            githubv4.String
	State          githubv4.PullRequestState
	CreatedAt      githubv4.DateTime
	ReactionGroups []reactionGroupNode
}

// toItem converts the wire node into the domain model. Pull requests
// report OPEN, CLOSED, or MERGED.
func (n *pullRequestNode) toItem() (Item, error) {
	state := string(n.State)
	if state != ItemStateOpen && state != ItemStateClosed && state != ItemStateMerged {
		return Item{}, fmt.Errorf("pull request #%d has unexpected state %q", n.Number, state)
	}

	return Item{
		Kind:      KindPullRequest,
		Number:    int(n.Number),
		Title:     string(n.Title),
		URL:       string(n.URL),
		State:     state,
		CreatedAt: n.CreatedAt.Time,
		Reactions: SummarizeReactions(convertReactionGroups(n.ReactionGroups)),
	}, nil
}

// convertReactionGroups lifts wire reaction groups into the domain type
// consumed by SummarizeReactions.
func convertReactionGroups(nodes []reactionGroupNode) []ReactionGroup {
	if len(nodes) == 0 {
		return nil
	}
	groups := make([]ReactionGroup, 0, len(nodes))
	for _, n := range nodes {
		groups = append(groups, ReactionGroup{
			Content: n.Content,
			Count:   int(n.Reactors.TotalCount),
		})
	}
	return groups
}
