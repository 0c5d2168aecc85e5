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
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/gitpulsehq/gitpulse/internal/github"
)

// Cell colors follow the GitHub web palette so states read the same way
// they do on github.com.
var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true)
	tableMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B949E"))
	openStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	closedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F85149"))
	mergedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#A371F7"))
	positiveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	negativeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F85149"))
)

// maxTitleWidth bounds the title column so the reaction columns stay
// aligned for every realistic terminal width.
const maxTitleWidth = 50

// TableWriter renders items as a ranked table. Items accumulate as they
// are written and the table is laid out once on Close, because row ranks
// depend on the full write order.
type TableWriter struct {
	mu        sync.Mutex
	output    io.Writer
	limit     int
	items     []github.Item
	closed    bool
	closeFunc func() error
}

// NewTableWriter creates a table writer. A positive limit caps the number
// of rendered rows; zero or a negative value renders every item written.
func NewTableWriter(w io.Writer, limit int) *TableWriter {
	return &TableWriter{
		output: w,
		limit:  limit,
	}
}

// NewFileTableWriter creates a table writer that renders into the given
// file on Close. Existing files are truncated.
func NewFileTableWriter(filename string, limit int) (*TableWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &TableWriter{
		output:    file,
		limit:     limit,
		closeFunc: file.Close,
	}, nil
}

// Write collects one item for rendering.
func (t *TableWriter) Write(item github.Item) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.items = append(t.items, item)
	return nil
}

// Count returns the number of items written.
func (t *TableWriter) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// Close renders the collected items and releases the underlying file if
// the writer owns one. Closing twice is safe; the table is only written
// once.
func (t *TableWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	if _, err := io.WriteString(t.output, t.render()); err != nil {
		if t.closeFunc != nil {
			_ = t.closeFunc()
		}
		return fmt.Errorf("failed to write table: %w", err)
	}

	if t.closeFunc != nil {
		return t.closeFunc()
	}
	return nil
}

func (t *TableWriter) render() string {
	if len(t.items) == 0 {
		return tableMutedStyle.Render("No items to display") + "\n"
	}

	rows := t.items
	if t.limit > 0 && t.limit < len(rows) {
		rows = rows[:t.limit]
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, tableHeaderStyle.Render(headerRow()))
	for i, item := range rows {
		lines = append(lines, formatRow(i+1, item))
	}
	if hidden := len(t.items) - len(rows); hidden > 0 {
		lines = append(lines, tableMutedStyle.Render(fmt.Sprintf("... and %d more", hidden)))
	}

	return strings.Join(lines, "\n") + "\n"
}

func headerRow() string {
	return strings.Join([]string{
		fmt.Sprintf("%-5s", "RANK"),
		fmt.Sprintf("%-6s", "KIND"),
		fmt.Sprintf("%-7s", "NUM"),
		fmt.Sprintf("%-*s", maxTitleWidth, "TITLE"),
		fmt.Sprintf("%-7s", "STATE"),
		fmt.Sprintf("%6s", "+"),
		fmt.Sprintf("%6s", "-"),
		fmt.Sprintf("%6s", "TOTAL"),
		"URL",
	}, " ")
}

// formatRow lays out one table row. Cells are padded before styling:
// ANSI sequences would otherwise count toward the printf column widths.
func formatRow(rank int, item github.Item) string {
	return strings.Join([]string{
		fmt.Sprintf("%-5d", rank),
		fmt.Sprintf("%-6s", kindLabel(item.Kind)),
		tableMutedStyle.Render(fmt.Sprintf("%-7s", fmt.Sprintf("#%d", item.Number))),
		fmt.Sprintf("%-*s", maxTitleWidth, truncate(item.Title, maxTitleWidth)),
		stateStyle(item.State).Render(fmt.Sprintf("%-7s", item.State)),
		positiveStyle.Render(fmt.Sprintf("%6d", item.Reactions.PositiveCount)),
		negativeStyle.Render(fmt.Sprintf("%6d", item.Reactions.NegativeCount)),
		fmt.Sprintf("%6d", item.Reactions.TotalCount),
		tableMutedStyle.Render(item.URL),
	}, " ")
}

func kindLabel(kind github.ItemKind) string {
	switch kind {
	case github.KindPullRequest:
		return "PR"
	case github.KindIssue:
		return "Issue"
	default:
		return string(kind)
	}
}

func stateStyle(state string) lipgloss.Style {
	switch state {
	case github.ItemStateOpen:
		return openStyle
	case github.ItemStateClosed:
		return closedStyle
	case github.ItemStateMerged:
		return mergedStyle
	default:
		return tableMutedStyle
	}
}

// truncate shortens a string to the given rune width, marking the cut
// with an ellipsis.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
