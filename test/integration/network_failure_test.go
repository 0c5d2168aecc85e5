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
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gitpulsehq/gitpulse/test/testutil"
)

// TestNetworkFailureClassification verifies that transport-level failures
// surface as network errors with exit code 3, and that a failed fetch
// never leaves an output file behind.
func TestNetworkFailureClassification(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}

	tests := []struct {
		name     string
		endpoint func(t *testing.T) string
	}{
		{
			name: "connection refused",
			endpoint: func(t *testing.T) string {
				// Closing the server first guarantees nothing listens on
				// the port when the client dials it.
				server := testutil.NewPagedFetchServer(t, 1, 0)
				endpoint := server.GraphQLEndpoint()
				server.Close()
				return endpoint
			},
		},
		{
			name: "dns resolution failure",
			endpoint: func(t *testing.T) string {
				return "http://gitpulse-test.invalid/graphql"
			},
		},
		{
			name: "bad gateway",
			endpoint: func(t *testing.T) string {
				server := testutil.NewErrorServer(t, http.StatusBadGateway)
				t.Cleanup(server.Close)
				return server.GraphQLEndpoint()
			},
		},
		{
			name: "service unavailable",
			endpoint: func(t *testing.T) string {
				server := testutil.NewErrorServer(t, http.StatusServiceUnavailable)
				t.Cleanup(server.Close)
				return server.GraphQLEndpoint()
			},
		},
		{
			name: "response breaks off mid-body",
			endpoint: func(t *testing.T) string {
				server := testutil.NewCorruptResponseServer(t)
				t.Cleanup(server.Close)
				return server.GraphQLEndpoint()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDir := testutil.CreateTempDir(t, "network-test")
			outputFile := filepath.Join(testDir, "output.ndjson")

			env := map[string]string{
				"GITHUB_TOKEN":            "test-token",
				"GITHUB_GRAPHQL_ENDPOINT": tt.endpoint(t),
				"GITPULSE_STATE_DIR":      testutil.CreateStateDir(t, testDir),
			}

			result := testutil.RunCLI(t, []string{
				"fetch", "test/repo",
				"--format", "ndjson",
				"--output", outputFile,
			}, env)

			testutil.AssertCLIError(t, result, "network error")
			testutil.AssertExitCode(t, result, 3)

			// Output is only opened once the fetch succeeded, so a failed
			// run must not leave an empty or partial file.
			testutil.AssertFileNotExists(t, outputFile)
		})
	}
}

// TestNetworkFailureFailsFast verifies there is no retry loop hiding in
// the transport: a dead endpoint is reported after a single attempt.
func TestNetworkFailureFailsFast(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}

	server := testutil.NewErrorServer(t, http.StatusBadGateway)
	defer server.Close()

	result := testutil.RunWithMockServer(t, server, "test/repo")

	testutil.AssertExitCode(t, result, 3)
	testutil.AssertNotContainsString(t, result.Stderr, "Retrying")

	if got := server.RequestCount(); got != 1 {
		t.Errorf("Expected a single request, got %d", got)
	}
}

// TestMidFetchNetworkFailure verifies a connection that dies between
// pages aborts the whole fetch instead of emitting partial data.
func TestMidFetchNetworkFailure(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}

	// The handler serves the count and the first issue page, then starts
	// answering 502. With no pull requests the request order is strictly
	// count, page, page.
	var served int32
	server := testutil.NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&served, 1) {
		case 1:
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(testutil.BuildCountResponse(30, 0))
		case 2:
			page := testutil.NewIssueResponse().WithPagination(true, "issues_cursor_1")
			for i := 1; i <= 10; i++ {
				page.WithItems(testutil.NewItemBuilder(i).WithThumbs(i, 0).Build())
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(page.Build())
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	})
	defer server.Close()

	testDir := testutil.CreateTempDir(t, "mid-fetch-test")
	outputFile := filepath.Join(testDir, "output.ndjson")

	env := map[string]string{
		"GITHUB_TOKEN":            "test-token",
		"GITHUB_GRAPHQL_ENDPOINT": server.GraphQLEndpoint(),
		"GITPULSE_STATE_DIR":      testutil.CreateStateDir(t, testDir),
		"GITPULSE_PAGE_SIZE":      "10",
	}

	result := testutil.RunCLI(t, []string{
		"fetch", "test/repo",
		"--format", "ndjson",
		"--output", outputFile,
	}, env)

	testutil.AssertExitCode(t, result, 3)
	testutil.AssertFileNotExists(t, outputFile)
}
