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
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gitpulsehq/gitpulse/internal/github"
)

// Options configures a full fetch.
type Options struct {
	// Filter selects which item states to load. The zero value selects
	// github.FilterAll.
	Filter github.StateFilter

	// PageSize bounds each page request. Non-positive selects the
	// default; values above the GitHub ceiling are clamped.
	PageSize int

	// Progress, when non-nil, receives cumulative counts after every
	// ingested page.
	Progress ProgressFunc
}

// Result holds the complete item sets of a successful fetch.
type Result struct {
	Issues       []github.Item
	PullRequests []github.Item

	// APICalls is the number of GraphQL requests the fetch issued,
	// including the initial count query.
	APICalls int
}

// Total returns how many items the fetch produced across both kinds.
func (r *Result) Total() int {
	return len(r.Issues) + len(r.PullRequests)
}

// Service coordinates the paged retrieval of issues and pull requests
// through a github.Client.
type Service struct {
	client github.Client
	log    zerolog.Logger
}

// NewService creates a fetch service. Pass zerolog.Nop() to silence the
// pipeline's debug events.
func NewService(client github.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, log: logger}
}

// pageFetcher is one of the per-kind page operations on github.Client.
type pageFetcher func(ctx context.Context, ref github.RepoRef, filter github.StateFilter, opts github.PageOptions) (*github.ItemPage, error)

// Fetch retrieves every issue and pull request of the repository that
// matches the filter. The filter-scoped totals are resolved first so each
// kind gets a page budget and the observer can be given meaningful
// percentages; the two kinds are then drained concurrently, with pages
// inside one kind strictly sequential because each cursor is only known
// once the previous page arrived. Any failure aborts the whole fetch and
// cancels the sibling loop: callers receive either the complete result or
// an error, never partial data.
func (s *Service) Fetch(ctx context.Context, ref github.RepoRef, opts Options) (*Result, error) {
	filter := opts.Filter
	if filter == "" {
		filter = github.FilterAll
	}
	pageSize := github.NormalizePageSize(opts.PageSize)

	counts, err := s.client.CountItems(ctx, ref, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count items in %s: %w", ref, err)
	}

	s.log.Debug().
		Str("repo", ref.String()).
		Str("filter", string(filter)).
		Int("issues", counts.Issues).
		Int("pull_requests", counts.PullRequests).
		Msg("resolved item totals")

	tracker := newProgressTracker(opts.Progress, *counts)

	var issues, pulls []github.Item
	var issuePages, pullPages int
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, pages, err := s.drainKind(gctx, ref, filter, github.KindIssue, pageSize, counts.Issues, s.client.FetchIssuePage, tracker.setIssues)
		if err != nil {
			return fmt.Errorf("failed to fetch issues from %s: %w", ref, err)
		}
		issues, issuePages = items, pages
		return nil
	})

	g.Go(func() error {
		items, pages, err := s.drainKind(gctx, ref, filter, github.KindPullRequest, pageSize, counts.PullRequests, s.client.FetchPullRequestPage, tracker.setPullRequests)
		if err != nil {
			return fmt.Errorf("failed to fetch pull requests from %s: %w", ref, err)
		}
		pulls, pullPages = items, pages
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("repo", ref.String()).
		Int("issues", len(issues)).
		Int("pull_requests", len(pulls)).
		Msg("fetch complete")

	return &Result{
		Issues:       issues,
		PullRequests: pulls,
		APICalls:     1 + issuePages + pullPages,
	}, nil
}

// drainKind runs the sequential paging loop for one item kind and returns
// the items along with the number of page requests made. The page budget
// derives from the advertised total, and the loop also ends when the
// server reports no further page or serves an empty one. Item counts
// drift while a fetch runs, so running out of pages early is completion,
// not an error; the budget likewise bounds the loop when the server keeps
// advertising more pages than the totals promised.
func (s *Service) drainKind(ctx context.Context, ref github.RepoRef, filter github.StateFilter, kind github.ItemKind, pageSize, total int, fetchPage pageFetcher, report func(int)) ([]github.Item, int, error) {
	if total <= 0 {
		return nil, 0, nil
	}

	budget := (total + pageSize - 1) / pageSize
	items := make([]github.Item, 0, total)
	cursor := ""
	pages := 0

	for page := 0; page < budget; page++ {
		// Cancellation is honored between page requests.
		if err := ctx.Err(); err != nil {
			return nil, pages, err
		}

		p, err := fetchPage(ctx, ref, filter, github.PageOptions{PageSize: pageSize, After: cursor})
		if err != nil {
			return nil, pages, err
		}
		pages++

		items = append(items, p.Items...)
		report(len(items))

		s.log.Debug().
			Str("kind", string(kind)).
			Int("page", page+1).
			Int("fetched", len(items)).
			Int("total", total).
			Msg("page ingested")

		if !p.HasNextPage || len(p.Items) == 0 {
			break
		}
		cursor = p.EndCursor
	}

	return items, pages, nil
}
