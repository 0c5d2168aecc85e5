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

// Package state provides atomic persistence of the last fetch session.
//
// The session remembers which repository and state filter were fetched
// last, so `gitpulse fetch` without arguments can repeat the previous
// run. It uses atomic file operations, SHA256 checksums for integrity
// validation, and clear schema versioning for forward compatibility.
//
// The session file lives in a standard location (~/.gitpulse/state/) and
// uses a JSON format for human readability and debugging. Every write is
// atomic, using a write-to-temp-and-rename pattern to prevent corruption
// during crashes or power loss. Credentials are never written here.
//
// Example usage:
//
//	session := &SessionState{
//	    Repository: "kubernetes/kubernetes",
//	    Filter:     "open",
//	    TotalItems: 1234,
//	}
//	err := SaveSession(session, SessionFilePath(""))
package state
