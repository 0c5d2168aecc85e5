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
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gitpulsehq/gitpulse/test/testutil"
)

// TestRateLimitFailsFast verifies an exhausted quota aborts the fetch
// after a single request with exit code 2. There is deliberately no
// retry or wait loop: the remedy for a drained quota is waiting out the
// reset window, not hammering the API.
func TestRateLimitFailsFast(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}

	server := testutil.NewRateLimitServer(t, 3600)
	defer server.Close()

	result := testutil.RunWithMockServer(t, server, "test/repo")

	testutil.AssertCLIError(t, result, "rate limit")
	testutil.AssertExitCode(t, result, 2)
	testutil.AssertNotContainsString(t, result.Stderr, "Retrying")

	if got := server.RequestCount(); got != 1 {
		t.Errorf("Expected a single request, got %d", got)
	}
}

// TestPrimaryQuotaForbidden verifies the 403 GitHub answers a drained
// primary quota with lands in the rate limit class, not the auth class.
func TestPrimaryQuotaForbidden(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}

	server := testutil.NewErrorServer(t, http.StatusForbidden)
	defer server.Close()

	result := testutil.RunWithMockServer(t, server, "test/repo")

	testutil.AssertCLIError(t, result, "rate limit")
	testutil.AssertExitCode(t, result, 2)
}

// TestMidFetchRateLimitExhaustion verifies a quota that drains between
// pages aborts the whole fetch without leaving partial output.
func TestMidFetchRateLimitExhaustion(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}

	server := testutil.NewGitHubLikeMockServer(t, 150, 0)
	defer server.Close()

	// Enough quota for the count query and the first issue page; the
	// second page request drains it.
	server.SetRateLimit(2)

	testDir := testutil.CreateTempDir(t, "ratelimit-test")
	outputFile := filepath.Join(testDir, "output.ndjson")

	env := map[string]string{
		"GITHUB_TOKEN":            "test-token",
		"GITHUB_GRAPHQL_ENDPOINT": server.GraphQLEndpoint(),
		"GITPULSE_STATE_DIR":      testutil.CreateStateDir(t, testDir),
	}

	result := testutil.RunCLI(t, []string{
		"fetch", "test/repo",
		"--state", "all",
		"--format", "ndjson",
		"--output", outputFile,
	}, env)

	testutil.AssertCLIError(t, result, "rate limit")
	testutil.AssertExitCode(t, result, 2)
	testutil.AssertFileNotExists(t, outputFile)

	if got := len(server.GetRequestHistory()); got != 3 {
		t.Errorf("Expected 3 requests before aborting, got %d", got)
	}
}
