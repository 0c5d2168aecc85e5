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

// Package metadata tracks and persists information about fetch runs. Each
// run produces a record with the parameters used, item counts, the number
// of GraphQL requests issued, timing, and a statistical summary of the
// reaction scores that drive the popularity ranking.
//
// Records are saved as JSON files alongside the session state, so external
// tools can analyze fetch history without going through the CLI. The most
// recent record for a repository can be loaded back and printed with the
// --stats flag.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/gitpulsehq/gitpulse/internal/github"
)

// MethodVersion identifies the fetch strategy that produced a record. It
// changes whenever the query shape or pagination approach changes, so old
// records remain interpretable.
const MethodVersion = "graphql-count-first-v1"

// Tracker collects statistics during a fetch run and turns them into a
// FetchMetadata record. Create one at the start of a run, feed it every
// fetched item, and call GenerateMetadata when the run completes. A Tracker
// is not safe for concurrent use; observe items from a single goroutine.
type Tracker struct {
	startTime    time.Time
	apiCallCount int
	itemStats    ItemStats
	positives    []float64
}

// ItemStats holds running totals over the items observed so far.
type ItemStats struct {
	TotalItems     int
	Issues         int
	PullRequests   int
	TotalReactions int
	TotalPositive  int
	TotalNegative  int
}

// New creates a tracker stamped with the current time as the run start.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// AddAPICalls records GraphQL requests issued on the run's behalf. The
// fetch service reports its total once the run completes, so this is
// typically called once with the final count.
func (t *Tracker) AddAPICalls(n int) {
	t.apiCallCount += n
}

// ObserveItem folds a single fetched item into the running statistics,
// updating the per-kind counts, the reaction totals, and the positive
// score sample used for the distribution summary.
func (t *Tracker) ObserveItem(item github.Item) {
	t.itemStats.TotalItems++
	switch item.Kind {
	case github.KindIssue:
		t.itemStats.Issues++
	case github.KindPullRequest:
		t.itemStats.PullRequests++
	}

	t.itemStats.TotalReactions += item.Reactions.TotalCount
	t.itemStats.TotalPositive += item.Reactions.PositiveCount
	t.itemStats.TotalNegative += item.Reactions.NegativeCount
	t.positives = append(t.positives, float64(item.Reactions.PositiveCount))
}

// GenerateMetadata builds the complete record for the run. Call it after
// every item has been observed and the API call count recorded. Each record
// receives a fresh random fetch ID.
func (t *Tracker) GenerateMetadata(appVersion string, params FetchParams) *FetchMetadata {
	completedAt := time.Now()
	duration := completedAt.Sub(t.startTime)

	mean, median, p90 := positiveStats(t.positives)

	return &FetchMetadata{
		AppVersion:    appVersion,
		MethodVersion: MethodVersion,
		FetchID:       uuid.NewString(),
		Parameters:    params,
		Results: FetchResults{
			TotalItems:   t.itemStats.TotalItems,
			Issues:       t.itemStats.Issues,
			PullRequests: t.itemStats.PullRequests,
			Duration:     duration.String(),
			APICallCount: t.apiCallCount,
			StartedAt:    t.startTime,
			CompletedAt:  completedAt,
		},
		Reactions: ReactionStats{
			TotalReactions: t.itemStats.TotalReactions,
			TotalPositive:  t.itemStats.TotalPositive,
			TotalNegative:  t.itemStats.TotalNegative,
			PositiveMean:   mean,
			PositiveMedian: median,
			PositiveP90:    p90,
		},
	}
}

// positiveStats summarizes the distribution of positive reaction scores.
// An empty sample yields zeros rather than NaN, which would not survive
// JSON encoding.
func positiveStats(positives []float64) (mean, median, p90 float64) {
	if len(positives) == 0 {
		return 0, 0, 0
	}

	data := stats.Float64Data(positives)
	if v, err := stats.Mean(data); err == nil {
		mean = v
	}
	if v, err := stats.Median(data); err == nil {
		median = v
	}
	if v, err := stats.Percentile(data, 90); err == nil {
		p90 = v
	}
	return mean, median, p90
}

// SaveMetadata persists a record as an indented JSON file in the state
// directory, named fetch-metadata-{timestamp}.json so files sort by run
// start. The write goes through a temporary file and a rename to avoid
// leaving a truncated record behind.
func SaveMetadata(metadata *FetchMetadata, stateDir string) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	filename := fmt.Sprintf("fetch-metadata-%d.json", metadata.Results.StartedAt.Unix())
	path := filepath.Join(stateDir, filename)

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(metadata); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to save metadata file: %w", err)
	}

	return nil
}

// LoadLatestMetadata finds the most recent record in the state directory,
// by file modification time, and returns it if it belongs to the requested
// repository. It returns nil without error when no matching record exists.
func LoadLatestMetadata(stateDir, repo string) (*FetchMetadata, error) {
	pattern := filepath.Join(stateDir, "fetch-metadata-*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata files: %w", err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	var latestFile string
	var latestTime time.Time
	for _, file := range files {
		info, statErr := os.Stat(file)
		if statErr != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = file
		}
	}
	if latestFile == "" {
		return nil, nil
	}

	file, err := os.Open(latestFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	var metadata FetchMetadata
	if err := json.NewDecoder(file).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	if metadata.Parameters.Repository != repo {
		return nil, nil
	}

	return &metadata, nil
}

// WriteMetadataToWriter serializes a record as indented JSON to the given
// writer. The --stats flag uses this to print the record to stderr, keeping
// stdout reserved for item output.
func WriteMetadataToWriter(metadata *FetchMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
