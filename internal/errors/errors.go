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

// Package errors defines the sentinel errors every layer of gitpulse
// classifies failures into. Callers match them with errors.Is; the CLI
// maps them to exit codes for scripting. An error that matches none of
// the sentinels is reported as-is with its original message.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrRepoNotFound indicates the requested repository does not exist
	// or is not visible with the current credentials. Maps to exit code 2.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrInvalidToken indicates GitHub rejected the supplied credentials.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrRateLimit indicates the GitHub API rate limit has been exhausted.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrNetworkFailure indicates the GitHub API could not be reached or
	// returned an unusable response. Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")
)
