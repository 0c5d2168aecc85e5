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

package metadata

import (
	"time"
)

// FetchMetadata is the complete record of a single fetch run. It captures
// what was fetched, how it was fetched, and summary statistics over the
// results, giving users an audit trail they can inspect with --stats or
// analyze offline from the state directory.
type FetchMetadata struct {
	AppVersion    string        `json:"app_version"`
	MethodVersion string        `json:"method_version"`
	FetchID       string        `json:"fetch_id"`
	Parameters    FetchParams   `json:"parameters"`
	Results       FetchResults  `json:"results"`
	Reactions     ReactionStats `json:"reactions"`
}

// FetchParams captures the input parameters of a fetch run: the target
// repository in owner/name form, the state filter that was applied, and the
// page size used for pagination. Preserving them makes a run reproducible.
type FetchParams struct {
	Repository string `json:"repository"`
	Filter     string `json:"filter"`
	PageSize   int    `json:"page_size"`
}

// FetchResults contains quantitative statistics about a completed fetch:
// item counts by kind, the number of API calls issued, and timing.
type FetchResults struct {
	TotalItems   int       `json:"total_items"`
	Issues       int       `json:"issues"`
	PullRequests int       `json:"pull_requests"`
	Duration     string    `json:"fetch_duration"`
	APICallCount int       `json:"api_calls_made"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
}

// ReactionStats summarizes the reaction scores across all fetched items.
// The mean, median, and 90th percentile describe the distribution of
// positive scores, which is what the popularity ranking sorts by.
type ReactionStats struct {
	TotalReactions int     `json:"total_reactions"`
	TotalPositive  int     `json:"total_positive"`
	TotalNegative  int     `json:"total_negative"`
	PositiveMean   float64 `json:"positive_mean"`
	PositiveMedian float64 `json:"positive_median"`
	PositiveP90    float64 `json:"positive_p90"`
}
