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

package state

import (
	"time"
)

// CurrentVersion is the current session schema version.
// Increment this when making breaking changes to the SessionState structure.
const CurrentVersion = 1

// SessionState remembers the last successful fetch so the next invocation
// can omit the repository argument. It deliberately holds no credentials:
// tokens always come from the flag, environment, or config file. The state
// is forward-compatible through versioning and includes integrity
// validation through checksums.
type SessionState struct {
	// Version indicates the schema version of this session file.
	// Used to handle migrations and compatibility checks.
	Version int `json:"version"`

	// Checksum is the SHA256 hash of the session content (excluding this
	// field). Used to detect corruption or tampering.
	Checksum string `json:"checksum"`

	// Repository is the full repository name in "owner/repo" format.
	// Example: "kubernetes/kubernetes"
	Repository string `json:"repository"`

	// Filter is the state filter used on the last fetch: open, closed,
	// or all.
	Filter string `json:"filter"`

	// LastFetchID is a unique identifier for the fetch operation.
	// Can be used for debugging and correlation with metadata records.
	LastFetchID string `json:"last_fetch_id"`

	// LastFetchTime records when the fetch operation completed
	// successfully.
	LastFetchTime time.Time `json:"last_fetch_time"`

	// TotalItems is the number of issues and pull requests retrieved on
	// the last fetch.
	TotalItems int `json:"total_items"`
}
