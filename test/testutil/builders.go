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

package testutil

import (
	"fmt"
	"time"
)

// reactionGroup is one content/count pair on a wire node. Groups keep
// insertion order so generated responses are byte-stable across runs.
type reactionGroup struct {
	content string
	count   int
}

// ItemBuilder provides a fluent API for creating issue and pull request
// nodes in the wire format the GraphQL mock servers serve.
type ItemBuilder struct {
	number    int
	title     string
	state     string
	url       string
	createdAt time.Time
	reactions []reactionGroup
}

// NewItemBuilder creates a new item builder with defaults: an open item
// titled after its number with no reactions.
func NewItemBuilder(number int) *ItemBuilder {
	return &ItemBuilder{
		number:    number,
		title:     fmt.Sprintf("Item %d", number),
		state:     "OPEN",
		url:       fmt.Sprintf("https://github.com/test/repo/issues/%d", number),
		createdAt: time.Now().AddDate(0, 0, -number),
	}
}

// WithTitle sets the item title
func (b *ItemBuilder) WithTitle(title string) *ItemBuilder {
	b.title = title
	return b
}

// WithState sets the item state (OPEN, CLOSED, MERGED)
func (b *ItemBuilder) WithState(state string) *ItemBuilder {
	b.state = state
	return b
}

// WithURL sets the item URL
func (b *ItemBuilder) WithURL(url string) *ItemBuilder {
	b.url = url
	return b
}

// WithCreatedAt sets when the item was created
func (b *ItemBuilder) WithCreatedAt(t time.Time) *ItemBuilder {
	b.createdAt = t
	return b
}

// WithReaction adds one reaction group. Content uses the GraphQL enum
// spelling, e.g. THUMBS_UP, HEART, THUMBS_DOWN, CONFUSED.
func (b *ItemBuilder) WithReaction(content string, count int) *ItemBuilder {
	b.reactions = append(b.reactions, reactionGroup{content: content, count: count})
	return b
}

// WithThumbs adds the two vote-like reaction groups in one call.
func (b *ItemBuilder) WithThumbs(up, down int) *ItemBuilder {
	return b.WithReaction("THUMBS_UP", up).WithReaction("THUMBS_DOWN", down)
}

// Build creates the wire node data structure
func (b *ItemBuilder) Build() map[string]interface{} {
	groups := make([]map[string]interface{}, len(b.reactions))
	for i, rg := range b.reactions {
		groups[i] = map[string]interface{}{
			"content": rg.content,
			"reactors": map[string]interface{}{
				"totalCount": rg.count,
			},
		}
	}

	return map[string]interface{}{
		"number":         b.number,
		"title":          b.title,
		"url":            b.url,
		"state":          b.state,
		"createdAt":      b.createdAt.Format(time.RFC3339),
		"reactionGroups": groups,
	}
}

// GraphQLResponseBuilder builds GraphQL page responses for one of the two
// item connections.
type GraphQLResponseBuilder struct {
	connection  string
	nodes       []map[string]interface{}
	hasNextPage bool
	endCursor   string
	errors      []map[string]interface{}
}

// NewIssueResponse creates a response builder for the issues connection.
func NewIssueResponse() *GraphQLResponseBuilder {
	return &GraphQLResponseBuilder{
		connection: "issues",
		nodes:      []map[string]interface{}{},
	}
}

// NewPullRequestResponse creates a response builder for the pullRequests
// connection.
func NewPullRequestResponse() *GraphQLResponseBuilder {
	return &GraphQLResponseBuilder{
		connection: "pullRequests",
		nodes:      []map[string]interface{}{},
	}
}

// WithItems adds item nodes to the response
func (b *GraphQLResponseBuilder) WithItems(items ...map[string]interface{}) *GraphQLResponseBuilder {
	b.nodes = append(b.nodes, items...)
	return b
}

// WithPagination sets pagination info
func (b *GraphQLResponseBuilder) WithPagination(hasNext bool, cursor string) *GraphQLResponseBuilder {
	b.hasNextPage = hasNext
	b.endCursor = cursor
	return b
}

// WithError adds an error to the response
func (b *GraphQLResponseBuilder) WithError(message string) *GraphQLResponseBuilder {
	b.errors = append(b.errors, map[string]interface{}{
		"message": message,
	})
	return b
}

// Build creates the GraphQL response
func (b *GraphQLResponseBuilder) Build() map[string]interface{} {
	if len(b.errors) > 0 {
		return map[string]interface{}{
			"errors": b.errors,
		}
	}

	var cursor *string
	if b.endCursor != "" {
		cursor = &b.endCursor
	}

	return map[string]interface{}{
		"data": map[string]interface{}{
			"repository": map[string]interface{}{
				b.connection: map[string]interface{}{
					"nodes": b.nodes,
					"pageInfo": map[string]interface{}{
						"hasNextPage": b.hasNextPage,
						"endCursor":   cursor,
					},
				},
			},
		},
	}
}

// BuildCountResponse creates the response to the filter-scoped totals
// query that opens every fetch.
func BuildCountResponse(issues, pullRequests int) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			"repository": map[string]interface{}{
				"issues": map[string]interface{}{
					"totalCount": issues,
				},
				"pullRequests": map[string]interface{}{
					"totalCount": pullRequests,
				},
			},
		},
	}
}
