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

// Package rank orders and filters fetched items for display. The helpers
// here are pure: they never touch the network and operate only on data
// already decoded by the github package.
package rank

import (
	"sort"

	"github.com/gitpulsehq/gitpulse/internal/github"
)

// FilterByState returns the items whose state matches the display filter.
// FilterOpen keeps OPEN items, FilterClosed keeps CLOSED and MERGED items,
// FilterAll keeps everything. The input slice is left untouched.
func FilterByState(items []github.Item, filter github.StateFilter) []github.Item {
	out := make([]github.Item, 0, len(items))
	for _, item := range items {
		if stateMatches(item.State, filter) {
			out = append(out, item)
		}
	}
	return out
}

// stateMatches reports whether an item state falls under a filter. A
// merged pull request counts as closed, matching the fetch-side state
// mapping.
func stateMatches(state string, filter github.StateFilter) bool {
	switch filter {
	case github.FilterOpen:
		return state == github.ItemStateOpen
	case github.FilterClosed:
		return state == github.ItemStateClosed || state == github.ItemStateMerged
	default:
		return true
	}
}

// SortByPopularity orders items in place by positive reaction count, most
// popular first. Equal scores order by item number descending, so the
// result is deterministic for any input permutation.
func SortByPopularity(items []github.Item) {
	sort.Slice(items, func(i, j int) bool {
		pi, pj := items[i].Reactions.PositiveCount, items[j].Reactions.PositiveCount
		if pi != pj {
			return pi > pj
		}
		return items[i].Number > items[j].Number
	})
}

// Top returns at most n leading items. Non-positive n means no limit.
// The returned slice shares backing storage with the input.
func Top(items []github.Item, n int) []github.Item {
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[:n]
}
