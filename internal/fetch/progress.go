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

package fetch

import (
	"sync"

	"github.com/gitpulsehq/gitpulse/internal/github"
)

// Progress is a snapshot of cumulative fetch counts across both kinds.
// Within a single fetch, each fetched count is non-decreasing from one
// snapshot to the next. The totals come from the count query that opens
// the fetch and stay fixed for its duration, so observers can render
// percentages.
type Progress struct {
	Issues            int
	PullRequests      int
	TotalIssues       int
	TotalPullRequests int
}

// Fetched returns how many items have been ingested so far.
func (p Progress) Fetched() int {
	return p.Issues + p.PullRequests
}

// Total returns the advertised item count across both kinds.
func (p Progress) Total() int {
	return p.TotalIssues + p.TotalPullRequests
}

// ProgressFunc receives progress snapshots as pages are ingested. It is
// called synchronously from the fetch pipeline, so implementations should
// return quickly. Errors in the observer cannot fail the fetch; the
// callback has no way to report one.
type ProgressFunc func(Progress)

// progressTracker merges the per-kind cumulative counts produced by the
// two concurrent paging loops into ordered snapshots for the observer.
type progressTracker struct {
	mu     sync.Mutex
	report ProgressFunc
	state  Progress
}

func newProgressTracker(report ProgressFunc, totals github.ItemCounts) *progressTracker {
	return &progressTracker{
		report: report,
		state: Progress{
			TotalIssues:       totals.Issues,
			TotalPullRequests: totals.PullRequests,
		},
	}
}

// setIssues records the cumulative issue count and publishes a snapshot.
func (t *progressTracker) setIssues(n int) {
	t.publish(func(p *Progress) { p.Issues = n })
}

// setPullRequests records the cumulative pull request count and publishes
// a snapshot.
func (t *progressTracker) setPullRequests(n int) {
	t.publish(func(p *Progress) { p.PullRequests = n })
}

// publish applies the update and invokes the observer while holding the
// lock. Keeping the callback inside the critical section guarantees
// observers see per-kind counts in non-decreasing order.
func (t *progressTracker) publish(apply func(*Progress)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	apply(&t.state)
	if t.report != nil {
		t.report(t.state)
	}
}
