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

package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gitpulsehq/gitpulse/internal/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableItem(number int, kind github.ItemKind, state string, positive int) github.Item {
	return github.Item{
		Kind:   kind,
		Number: number,
		Title:  "A change everyone wants",
		URL:    "https://github.com/acme/widgets/issues/1",
		State:  state,
		Reactions: github.ReactionSummary{
			TotalCount:    positive + 1,
			PositiveCount: positive,
			NegativeCount: 1,
		},
	}
}

func TestTableWriter_RendersRankedRows(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTableWriter(buf, 0)

	require.NoError(t, w.Write(tableItem(20, github.KindPullRequest, github.ItemStateMerged, 7)))
	require.NoError(t, w.Write(tableItem(5, github.KindIssue, github.ItemStateOpen, 7)))
	require.NoError(t, w.Write(tableItem(10, github.KindIssue, github.ItemStateClosed, 3)))
	require.NoError(t, w.Close())

	out := buf.String()
	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "#20")
	assert.Contains(t, out, "#5")
	assert.Contains(t, out, "#10")
	assert.Contains(t, out, "MERGED")
	assert.Contains(t, out, "OPEN")
	assert.Contains(t, out, "PR")
	assert.Contains(t, out, "Issue")

	// Rows keep the write order: the caller ranks before writing.
	assert.Less(t, strings.Index(out, "#20"), strings.Index(out, "#5"))
	assert.Less(t, strings.Index(out, "#5"), strings.Index(out, "#10"))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
}

func TestTableWriter_Limit(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTableWriter(buf, 2)

	for _, n := range []int{1, 2, 3, 4} {
		require.NoError(t, w.Write(tableItem(n, github.KindIssue, github.ItemStateOpen, n)))
	}
	require.NoError(t, w.Close())

	out := buf.String()
	assert.Contains(t, out, "... and 2 more")
	assert.Equal(t, 4, w.Count())

	// Header, two rows, and the elision line.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
}

func TestTableWriter_TruncatesLongTitles(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTableWriter(buf, 0)

	item := tableItem(1, github.KindIssue, github.ItemStateOpen, 1)
	item.Title = strings.Repeat("long title ", 20)
	require.NoError(t, w.Write(item))
	require.NoError(t, w.Close())

	out := buf.String()
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, item.Title)
}

func TestTableWriter_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTableWriter(buf, 0)

	require.NoError(t, w.Close())

	assert.Contains(t, buf.String(), "No items to display")
}

func TestTableWriter_CloseIsIdempotent(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTableWriter(buf, 0)

	require.NoError(t, w.Write(tableItem(1, github.KindIssue, github.ItemStateOpen, 1)))
	require.NoError(t, w.Close())
	first := buf.String()

	require.NoError(t, w.Close())
	assert.Equal(t, first, buf.String())
}

func TestNewFileTableWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "popular.txt")

	w, err := NewFileTableWriter(path, 0)
	require.NoError(t, err)

	require.NoError(t, w.Write(tableItem(7, github.KindPullRequest, github.ItemStateMerged, 3)))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "#7")
	assert.Contains(t, string(data), "MERGED")
}

func TestNewFileTableWriter_Error(t *testing.T) {
	_, err := NewFileTableWriter("/non/existent/path/popular.txt", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}
