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
	"testing"

	"github.com/shurcooL/githubv4"
)

// BenchmarkSummarizeReactions benchmarks the reaction aggregation that
// runs once per ingested item.
func BenchmarkSummarizeReactions(b *testing.B) {
	groups := []ReactionGroup{
		{Content: githubv4.ReactionContentThumbsUp, Count: 120},
		{Content: githubv4.ReactionContentThumbsDown, Count: 14},
		{Content: githubv4.ReactionContentLaugh, Count: 3},
		{Content: githubv4.ReactionContentHooray, Count: 7},
		{Content: githubv4.ReactionContentConfused, Count: 2},
		{Content: githubv4.ReactionContentHeart, Count: 31},
		{Content: githubv4.ReactionContentRocket, Count: 9},
		{Content: githubv4.ReactionContentEyes, Count: 18},
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = SummarizeReactions(groups)
	}
}
