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
	"context"
	"errors"
	"testing"

	pulseerrors "github.com/gitpulsehq/gitpulse/internal/errors"
)

// Compile-time check that MockClient implements Client
var _ Client = (*MockClient)(nil)

func TestMockClient_Defaults(t *testing.T) {
	ctx := context.Background()
	ref := RepoRef{Owner: "test", Name: "repo"}

	mock := NewMockClient()

	counts, err := mock.CountItems(ctx, ref, FilterAll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts.Issues != 3 || counts.PullRequests != 2 {
		t.Errorf("counts = %+v, want {3 2}", *counts)
	}

	page, err := mock.FetchIssuePage(ctx, ref, FilterAll, PageOptions{PageSize: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 3 {
		t.Errorf("expected 3 issues, got %d", len(page.Items))
	}
	if page.HasNextPage {
		t.Error("expected single scripted page")
	}

	// Verify call tracking
	if mock.CountCalls != 1 {
		t.Errorf("expected 1 count call, got %d", mock.CountCalls)
	}
	if mock.IssueCalls != 1 {
		t.Errorf("expected 1 issue call, got %d", mock.IssueCalls)
	}
	if mock.LastRef != ref {
		t.Errorf("LastRef = %v, want %v", mock.LastRef, ref)
	}
	if mock.LastFilter != FilterAll {
		t.Errorf("LastFilter = %q, want %q", mock.LastFilter, FilterAll)
	}
}

func TestMockClient_ScriptedPages(t *testing.T) {
	ctx := context.Background()
	ref := RepoRef{Owner: "test", Name: "repo"}

	first := ItemPage{Items: generateTestItems(KindIssue, 2), HasNextPage: true, EndCursor: "c1"}
	second := ItemPage{Items: generateTestItems(KindIssue, 1)}

	mock := NewMockClientWithOptions(WithIssuePages(first, second))

	page1, err := mock.FetchIssuePage(ctx, ref, FilterAll, PageOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !page1.HasNextPage || page1.EndCursor != "c1" {
		t.Errorf("page1 pagination = {%v %q}, want {true c1}", page1.HasNextPage, page1.EndCursor)
	}

	page2, err := mock.FetchIssuePage(ctx, ref, FilterAll, PageOptions{After: page1.EndCursor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page2.Items) != 1 {
		t.Errorf("expected 1 item on page 2, got %d", len(page2.Items))
	}

	// Past the end of the script: empty final page, never an error
	page3, err := mock.FetchIssuePage(ctx, ref, FilterAll, PageOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page3.Items) != 0 || page3.HasNextPage {
		t.Errorf("expected exhausted script to yield empty final page, got %+v", page3)
	}

	wantCursors := []string{"", "c1", ""}
	if len(mock.IssueCursors) != len(wantCursors) {
		t.Fatalf("recorded %d cursors, want %d", len(mock.IssueCursors), len(wantCursors))
	}
	for i, want := range wantCursors {
		if mock.IssueCursors[i] != want {
			t.Errorf("cursor %d = %q, want %q", i, mock.IssueCursors[i], want)
		}
	}
}

func TestMockClient_ErrorInjection(t *testing.T) {
	ctx := context.Background()
	ref := RepoRef{Owner: "test", Name: "repo"}

	t.Run("counts error", func(t *testing.T) {
		mock := NewMockClientWithOptions(WithCountsError(pulseerrors.ErrRateLimit))
		if _, err := mock.CountItems(ctx, ref, FilterAll); !errors.Is(err, pulseerrors.ErrRateLimit) {
			t.Errorf("expected rate limit error, got %v", err)
		}
	})

	t.Run("page error after successful pages", func(t *testing.T) {
		pages := []ItemPage{
			{Items: generateTestItems(KindPullRequest, 2), HasNextPage: true, EndCursor: "c1"},
			{Items: generateTestItems(KindPullRequest, 2)},
		}
		mock := NewMockClientWithOptions(
			WithPullRequestPages(pages...),
			WithPullRequestError(pulseerrors.ErrNetworkFailure, 1),
		)

		if _, err := mock.FetchPullRequestPage(ctx, ref, FilterAll, PageOptions{}); err != nil {
			t.Fatalf("first page should succeed, got %v", err)
		}
		if _, err := mock.FetchPullRequestPage(ctx, ref, FilterAll, PageOptions{After: "c1"}); !errors.Is(err, pulseerrors.ErrNetworkFailure) {
			t.Errorf("expected network failure on second page, got %v", err)
		}
	})

	t.Run("auth failure flag", func(t *testing.T) {
		mock := NewMockClientWithOptions(WithAuthFailure())
		if _, err := mock.FetchIssuePage(ctx, ref, FilterAll, PageOptions{}); !errors.Is(err, pulseerrors.ErrInvalidToken) {
			t.Errorf("expected invalid token error, got %v", err)
		}
	})

	t.Run("nonexistent repository convention", func(t *testing.T) {
		mock := NewMockClient()
		badRef := RepoRef{Owner: "nonexistent", Name: "repo"}
		if _, err := mock.CountItems(ctx, badRef, FilterAll); !errors.Is(err, pulseerrors.ErrRepoNotFound) {
			t.Errorf("expected repo not found error, got %v", err)
		}
	})
}

func TestMockClient_ContextCancellation(t *testing.T) {
	mock := NewMockClient()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := mock.FetchIssuePage(ctx, RepoRef{Owner: "test", Name: "repo"}, FilterAll, PageOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
