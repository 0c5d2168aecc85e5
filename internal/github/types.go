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
	"time"
)

// RepoRef identifies a GitHub repository by owner and name.
type RepoRef struct {
	Owner string
	Name  string
}

// String renders the reference back in "owner/name" form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// ItemKind distinguishes issues from pull requests in merged item streams.
type ItemKind string

// Supported item kinds.
const (
	KindIssue       ItemKind = "issue"
	KindPullRequest ItemKind = "pull_request"
)

// Item states as reported by the GitHub API. Issues are OPEN or CLOSED;
// pull requests additionally report MERGED.
const (
	ItemStateOpen   = "OPEN"
	ItemStateClosed = "CLOSED"
	ItemStateMerged = "MERGED"
)

// Item represents a single issue or pull request with the metadata needed
// for popularity ranking. This is the core data structure that gets
// serialized to output. Items are immutable once decoded: the reaction
// summary is computed at ingestion and never revised afterwards.
type Item struct {
	Kind      ItemKind        `json:"kind"`
	Number    int             `json:"number"`
	Title     string          `json:"title"`
	URL       string          `json:"url"`
	State     string          `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
	Reactions ReactionSummary `json:"reactions"`
}

// ItemPage represents one page of items from a GraphQL query. It includes
// the items for the current page and the pagination information needed to
// fetch subsequent pages, enabling bounded-memory ingestion of large
// repositories.
type ItemPage struct {
	Items       []Item
	HasNextPage bool
	EndCursor   string
}

// ItemCounts holds the filter-scoped totals for both item kinds, obtained
// up front so the fetch pipeline can budget its page requests and report
// meaningful progress.
type ItemCounts struct {
	Issues       int
	PullRequests int
}

// PageOptions configures a single page request.
type PageOptions struct {
	// PageSize controls how many items to fetch per page.
	// Defaults to DefaultPageSize if not specified. Maximum is
	// MaxPageSize per GitHub's API limits.
	PageSize int

	// After is the cursor for pagination. Empty string fetches from the
	// beginning; use ItemPage.EndCursor from the previous response for
	// the next page.
	After string
}

// Page size bounds for fetch operations.
const (
	DefaultPageSize = 100
	MaxPageSize     = 100
)

// NormalizePageSize clamps a requested page size into the supported range.
// Non-positive values select the default.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// StateFilter selects which item states a fetch covers.
type StateFilter string

// Supported state filters.
const (
	FilterOpen   StateFilter = "open"
	FilterClosed StateFilter = "closed"
	FilterAll    StateFilter = "all"
)
