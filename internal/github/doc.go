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

// Package github provides a client for GitHub's GraphQL API that fetches
// issues and pull requests together with their reaction counts. It
// abstracts the GraphQL query shapes behind a small interface supporting
// cursor pagination, state filtering, and classified error handling.
//
// The package includes:
//   - A Client interface for counting and page-fetching issues and pull requests
//   - A GraphQL implementation using the shurcooL/githubv4 library
//   - A reaction aggregator that folds raw reaction groups into scores
//   - Mock client for testing
//
// Basic usage:
//
//	client := github.NewGraphQLClient("your-github-token", "https://api.github.com/graphql")
//	ref := github.RepoRef{Owner: "golang", Name: "go"}
//	page, err := client.FetchIssuePage(ctx, ref, github.FilterOpen, github.PageOptions{
//	    PageSize: 100,
//	})
//	if err != nil {
//	    // Handle error
//	}
//	for _, item := range page.Items {
//	    // Process issue
//	}
package github
