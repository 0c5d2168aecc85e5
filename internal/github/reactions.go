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

// ReactionGroup is one aggregated reaction bucket on an item: a reaction
// kind plus the number of users who reacted with it.
type ReactionGroup struct {
	Content githubv4.ReactionContent
	Count   int
}

// ReactionSummary holds the aggregated reaction counts for a single item.
// PositiveCount and NegativeCount partition a subset of TotalCount, so
// PositiveCount+NegativeCount never exceeds TotalCount.
type ReactionSummary struct {
	TotalCount    int `json:"total_count"`
	PositiveCount int `json:"positive_count"`
	NegativeCount int `json:"negative_count"`
}

// Reaction kinds that count toward the positive score.
var positiveReactions = map[githubv4.ReactionContent]struct{}{
	githubv4.ReactionContentThumbsUp: {},
	githubv4.ReactionContentHeart:    {},
	githubv4.ReactionContentHooray:   {},
	githubv4.ReactionContentRocket:   {},
	githubv4.ReactionContentEyes:     {},
	githubv4.ReactionContentLaugh:    {},
}

// Reaction kinds that count toward the negative score.
var negativeReactions = map[githubv4.ReactionContent]struct{}{
	githubv4.ReactionContentThumbsDown: {},
	githubv4.ReactionContentConfused:   {},
}

// SummarizeReactions folds a set of reaction groups into summary counts.
// Every group contributes to the total; kinds outside the positive and
// negative sets contribute to nothing else, which keeps the summary
// stable if GitHub ever adds reaction kinds. A nil or empty group list
// yields the zero summary.
func SummarizeReactions(groups []ReactionGroup) ReactionSummary {
	var summary ReactionSummary
	for _, g := range groups {
		summary.TotalCount += g.Count
		if _, ok := positiveReactions[g.Content]; ok {
			summary.PositiveCount += g.Count
			continue
		}
		if _, ok := negativeReactions[g.Content]; ok {
			summary.NegativeCount += g.Count
		}
	}
	return summary
}
