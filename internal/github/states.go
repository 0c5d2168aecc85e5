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

import "github.com/shurcooL/githubv4"

// IssueStatesFor maps a state filter to the GraphQL issue states it
// covers. Issues have no merged state, so "closed" covers CLOSED alone.
func IssueStatesFor(filter StateFilter) []githubv4.IssueState {
	switch filter {
	case FilterOpen:
		return []githubv4.IssueState{githubv4.IssueStateOpen}
	case FilterClosed:
		return []githubv4.IssueState{githubv4.IssueStateClosed}
	default:
		return []githubv4.IssueState{githubv4.IssueStateOpen, githubv4.IssueStateClosed}
	}
}

// PullRequestStatesFor maps a state filter to the GraphQL pull request
// states it covers. A merged pull request is no longer open, so "closed"
// covers both CLOSED and MERGED.
func PullRequestStatesFor(filter StateFilter) []githubv4.PullRequestState {
	switch filter {
	case FilterOpen:
		return []githubv4.PullRequestState{githubv4.PullRequestStateOpen}
	case FilterClosed:
		return []githubv4.PullRequestState{
			githubv4.PullRequestStateClosed,
			githubv4.PullRequestStateMerged,
		}
	default:
		return []githubv4.PullRequestState{
			githubv4.PullRequestStateOpen,
			githubv4.PullRequestStateClosed,
			githubv4.PullRequestStateMerged,
		}
	}
}
