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

// Package main implements the gitpulse command-line interface. The tool
// fetches the issues and pull requests of a GitHub repository, scores
// their reactions, and prints them ranked by popularity.
//
// The CLI supports:
//   - Filtering by item state (open, closed, all)
//   - A colored terminal table or NDJSON output
//   - Customizable output destinations (stdout or file)
//   - Optional GitHub token authentication via flag or environment
//   - Session state so the repository argument can be omitted on repeat runs
//   - Per-run fetch statistics saved beside the session state
//
// Usage:
//
//	gitpulse fetch <owner>/<repo> [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	gitpulse fetch golang/go --state all --limit 20
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication/authorization error
//   - 3: Network error
package main
