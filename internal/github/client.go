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

import "context"

// Client defines the interface for interacting with GitHub's API.
// This interface allows for easy mocking in tests.
type Client interface {
	// CountItems retrieves the filter-scoped totals of issues and pull
	// requests in one query. Used to budget page requests and to report
	// meaningful progress before the first page arrives.
	CountItems(ctx context.Context, ref RepoRef, filter StateFilter) (*ItemCounts, error)

	// FetchIssuePage retrieves one page of issues matching the filter.
	// It supports cursor-based pagination through the opts.After parameter
	// to fetch subsequent pages. The page size can be configured via
	// opts.PageSize.
	FetchIssuePage(ctx context.Context, ref RepoRef, filter StateFilter, opts PageOptions) (*ItemPage, error)

	// FetchPullRequestPage retrieves one page of pull requests matching
	// the filter, with the same pagination contract as FetchIssuePage.
	FetchPullRequestPage(ctx context.Context, ref RepoRef, filter StateFilter, opts PageOptions) (*ItemPage, error)
}
