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
	"reflect"
	"testing"

	"github.com/shurcooL/githubv4"
)

func TestIssueStatesFor(t *testing.T) {
	tests := []struct {
		filter StateFilter
		want   []githubv4.IssueState
	}{
		{
			filter: FilterOpen,
			want:   []githubv4.IssueState{githubv4.IssueStateOpen},
		},
		{
			filter: FilterClosed,
			want:   []githubv4.IssueState{githubv4.IssueStateClosed},
		},
		{
			filter: FilterAll,
			want:   []githubv4.IssueState{githubv4.IssueStateOpen, githubv4.IssueStateClosed},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got := IssueStatesFor(tt.filter)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("IssueStatesFor(%q) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestPullRequestStatesFor(t *testing.T) {
	tests := []struct {
		filter StateFilter
		want   []githubv4.PullRequestState
	}{
		{
			filter: FilterOpen,
			want:   []githubv4.PullRequestState{githubv4.PullRequestStateOpen},
		},
		{
			filter: FilterClosed,
			want: []githubv4.PullRequestState{
				githubv4.PullRequestStateClosed,
				githubv4.PullRequestStateMerged,
			},
		},
		{
			filter: FilterAll,
			want: []githubv4.PullRequestState{
				githubv4.PullRequestStateOpen,
				githubv4.PullRequestStateClosed,
				githubv4.PullRequestStateMerged,
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got := PullRequestStatesFor(tt.filter)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PullRequestStatesFor(%q) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}
