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
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ndjsonItem is the subset of the output record the assertions inspect.
type ndjsonItem struct {
	Kind      string `json:"kind"`
	Number    int    `json:"number"`
	Reactions struct {
		Total    int `json:"total_count"`
		Positive int `json:"positive_count"`
		Negative int `json:"negative_count"`
	} `json:"reactions"`
}

// readNDJSONItems parses every non-empty line of an NDJSON file, checking
// each line carries the required item fields.
func readNDJSONItems(t *testing.T, filePath string) []ndjsonItem {
	t.Helper()

	file, err := os.Open(filePath)
	if err != nil {
		t.Fatalf("Failed to open output file: %v", err)
	}
	defer file.Close()

	var items []ndjsonItem
	scanner := bufio.NewScanner(file)
	line := 0

	for scanner.Scan() {
		text := scanner.Text()
		if text == "" {
			continue
		}
		line++

		var raw map[string]interface{}
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			t.Errorf("Line %d: invalid JSON: %v", line, err)
			continue
		}

		requiredFields := []string{"kind", "number", "title", "url", "state", "created_at", "reactions"}
		for _, field := range requiredFields {
			if _, ok := raw[field]; !ok {
				t.Errorf("Line %d: missing required field '%s'", line, field)
			}
		}

		var item ndjsonItem
		if err := json.Unmarshal([]byte(text), &item); err != nil {
			t.Errorf("Line %d: cannot decode item: %v", line, err)
			continue
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		t.Fatalf("Error reading file: %v", err)
	}

	return items
}

// AssertNDJSONOutput validates that a file contains valid NDJSON with the
// expected item count and no duplicate item numbers.
func AssertNDJSONOutput(t *testing.T, filePath string, expectedCount int) {
	t.Helper()

	items := readNDJSONItems(t, filePath)

	if len(items) != expectedCount {
		t.Errorf("Expected %d items, got %d", expectedCount, len(items))
	}

	seen := make(map[int]bool, len(items))
	for _, item := range items {
		if seen[item.Number] {
			t.Errorf("Duplicate item number: %d", item.Number)
		}
		seen[item.Number] = true
	}
}

// AssertRankedByPopularity validates that the positive reaction scores in
// an NDJSON file never increase from one line to the next.
func AssertRankedByPopularity(t *testing.T, filePath string) {
	t.Helper()

	items := readNDJSONItems(t, filePath)
	for i := 1; i < len(items); i++ {
		if items[i].Reactions.Positive > items[i-1].Reactions.Positive {
			t.Errorf("Line %d: positive score %d exceeds previous line's %d",
				i+1, items[i].Reactions.Positive, items[i-1].Reactions.Positive)
		}
	}
}

// AssertMetadataFile validates that a fetch metadata record exists in the
// state directory and carries the required fields, returning the parsed
// record for further checks.
func AssertMetadataFile(t *testing.T, stateDir string) map[string]interface{} {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(stateDir, "fetch-metadata-*.json"))
	if err != nil {
		t.Fatalf("Failed to glob metadata files: %v", err)
	}

	if len(matches) == 0 {
		t.Fatal("No metadata file found")
	}

	data, err := os.ReadFile(matches[len(matches)-1])
	if err != nil {
		t.Fatalf("Failed to read metadata file: %v", err)
	}

	var metadata map[string]interface{}
	if err := json.Unmarshal(data, &metadata); err != nil {
		t.Fatalf("Invalid metadata JSON: %v", err)
	}

	requiredFields := []string{"app_version", "method_version", "fetch_id", "parameters", "results", "reactions"}
	for _, field := range requiredFields {
		if _, ok := metadata[field]; !ok {
			t.Errorf("Missing required metadata field: %s", field)
		}
	}

	return metadata
}

// AssertContainsString checks if a string contains a substring
func AssertContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected string to contain %q, got: %s", needle, haystack)
	}
}

// AssertNotContainsString checks if a string does not contain a substring
func AssertNotContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Errorf("Expected string to NOT contain %q, got: %s", needle, haystack)
	}
}

// AssertErrorContains checks if an error contains expected text
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), expected) {
		t.Errorf("Expected error to contain %q, got: %v", expected, err)
	}
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertEqual compares two values and fails if they're not equal
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("Got %v, want %v", got, want)
	}
}
