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

package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/gitpulsehq/gitpulse/test/testutil"
)

// TestMetadataRecordWrittenAfterFetch verifies a successful fetch leaves
// a complete metadata record and a session file in the state directory.
func TestMetadataRecordWrittenAfterFetch(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}

	server := testutil.NewPagedFetchServer(t, 12, 8)
	defer server.Close()

	testDir := testutil.CreateTempDir(t, "metadata-test")
	outputFile := filepath.Join(testDir, "output.ndjson")
	stateDir := testutil.CreateStateDir(t, testDir)

	result := testutil.RunCLI(t, []string{
		"fetch", "test/repo",
		"--state", "all",
		"--format", "ndjson",
		"--output", outputFile,
	}, testutil.FetchEnv(server, stateDir))

	testutil.AssertCLISuccess(t, result)

	meta := testutil.AssertMetadataFile(t, stateDir)

	fetchID, ok := meta["fetch_id"].(string)
	if !ok || fetchID == "" {
		t.Fatal("Missing fetch ID in metadata")
	}
	if _, err := uuid.Parse(fetchID); err != nil {
		t.Errorf("Fetch ID %q is not a UUID: %v", fetchID, err)
	}

	params, ok := meta["parameters"].(map[string]interface{})
	if !ok {
		t.Fatal("Missing parameters block in metadata")
	}
	testutil.AssertEqual(t, params["repository"], "test/repo")
	testutil.AssertEqual(t, params["filter"], "all")
	testutil.AssertEqual(t, params["page_size"], float64(100))

	results, ok := meta["results"].(map[string]interface{})
	if !ok {
		t.Fatal("Missing results block in metadata")
	}
	testutil.AssertEqual(t, results["total_items"], float64(20))
	testutil.AssertEqual(t, results["issues"], float64(12))
	testutil.AssertEqual(t, results["pull_requests"], float64(8))
	testutil.AssertEqual(t, results["api_calls_made"], float64(3))
	if results["fetch_duration"] == "" {
		t.Error("Missing fetch duration")
	}

	reactions, ok := meta["reactions"].(map[string]interface{})
	if !ok {
		t.Fatal("Missing reactions block in metadata")
	}
	for _, field := range []string{"total_reactions", "total_positive", "total_negative", "positive_mean", "positive_median", "positive_p90"} {
		if _, ok := reactions[field]; !ok {
			t.Errorf("Missing reaction statistic: %s", field)
		}
	}
	if total, _ := reactions["total_positive"].(float64); total <= 0 {
		t.Errorf("Expected positive reactions in the fixture data, got %v", reactions["total_positive"])
	}

	// The session records the run for the next invocation, readable only
	// by the owner.
	sessionFile := filepath.Join(stateDir, "session.state")
	testutil.AssertFileExists(t, sessionFile)
	testutil.AssertFilePermissions(t, sessionFile, 0o600)

	var session struct {
		Repository  string `json:"repository"`
		Filter      string `json:"filter"`
		LastFetchID string `json:"last_fetch_id"`
		TotalItems  int    `json:"total_items"`
	}
	testutil.ReadJSON(t, sessionFile, &session)

	testutil.AssertEqual(t, session.Repository, "test/repo")
	testutil.AssertEqual(t, session.Filter, "all")
	testutil.AssertEqual(t, session.LastFetchID, fetchID)
	testutil.AssertEqual(t, session.TotalItems, 20)
}

// TestSessionEnablesRepoFallback verifies a second run without a
// repository argument fetches the repository recorded by the first run.
func TestSessionEnablesRepoFallback(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}

	server := testutil.NewPagedFetchServer(t, 5, 2)
	defer server.Close()

	testDir := testutil.CreateTempDir(t, "session-test")
	stateDir := testutil.CreateStateDir(t, testDir)
	env := testutil.FetchEnv(server, stateDir)

	first := testutil.RunCLI(t, []string{
		"fetch", "test/repo",
		"--state", "all",
		"--format", "ndjson",
		"--output", filepath.Join(testDir, "first.ndjson"),
	}, env)
	testutil.AssertCLISuccess(t, first)

	secondOutput := filepath.Join(testDir, "second.ndjson")
	second := testutil.RunCLI(t, []string{
		"fetch",
		"--state", "all",
		"--format", "ndjson",
		"--output", secondOutput,
	}, env)

	testutil.AssertCLISuccess(t, second)
	testutil.AssertNDJSONOutput(t, secondOutput, 7)
	testutil.AssertContainsString(t, second.Stderr, "test/repo")
}

// TestStatsFlagPrintsReactionSummary verifies --stats dumps the metadata
// record to stderr, keeping stdout clean for item output.
func TestStatsFlagPrintsReactionSummary(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}

	server := testutil.NewPagedFetchServer(t, 5, 2)
	defer server.Close()

	result := testutil.RunWithMockServer(t, server, "test/repo",
		"--state", "all", "--format", "ndjson", "--stats")

	testutil.AssertCLISuccess(t, result)
	testutil.AssertContainsString(t, result.Stderr, "positive_mean")
	testutil.AssertContainsString(t, result.Stderr, "fetch_id")
	testutil.AssertNotContainsString(t, result.Stdout, "positive_mean")
}
