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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// sessionFileName is the fixed name of the session file. The session is
// global, not per-repository: it answers "what did I fetch last", so its
// location must be known before the repository is.
const sessionFileName = "session.state"

// DefaultStateDir returns the standard directory for session and metadata
// files: ~/.gitpulse/state.
func DefaultStateDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home directory is not accessible
		homeDir = "."
	}

	return filepath.Join(homeDir, ".gitpulse", "state")
}

// SessionFilePath returns the session file location inside dir. An empty
// dir selects DefaultStateDir.
func SessionFilePath(dir string) string {
	if dir == "" {
		dir = DefaultStateDir()
	}
	return filepath.Join(dir, sessionFileName)
}

// SaveSession atomically saves the session to disk with integrity
// validation. It uses a write-to-temp-and-rename pattern to ensure
// atomicity. The checksum is calculated and stored to detect corruption.
func SaveSession(session *SessionState, sessionFile string) error {
	// Set version to current
	session.Version = CurrentVersion

	// Calculate checksum before adding it to the struct
	checksum, err := calculateChecksum(session)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}
	session.Checksum = checksum

	// Ensure the directory exists
	sessionDir := filepath.Dir(sessionFile)
	if mkdirErr := os.MkdirAll(sessionDir, 0o755); mkdirErr != nil {
		return fmt.Errorf("failed to create state directory: %w", mkdirErr)
	}

	// Create a temporary file in the same directory
	tempFile := sessionFile + ".tmp"

	// Marshal session to compact JSON for efficiency
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write to temporary file with restricted permissions
	if writeErr := os.WriteFile(tempFile, data, 0o600); writeErr != nil {
		return fmt.Errorf("failed to write temporary session file: %w", writeErr)
	}

	// Sync to ensure data is flushed to disk
	file, err := os.Open(tempFile)
	if err != nil {
		// Clean up temp file
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to open temp file for sync: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempFile, sessionFile); err != nil {
		// Clean up temp file
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// LoadSession reads and validates the session from disk.
// It verifies the checksum and version compatibility.
func LoadSession(sessionFile string) (*SessionState, error) {
	// Read the session file
	data, err := os.ReadFile(sessionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no previous session found at %s", sessionFile)
		}
		return nil, fmt.Errorf("failed to read session file %s: %w", sessionFile, err)
	}

	// Unmarshal the session
	var session SessionState
	if unmarshalErr := json.Unmarshal(data, &session); unmarshalErr != nil {
		return nil, fmt.Errorf("session file is corrupted (invalid JSON): %w", unmarshalErr)
	}

	// Check version compatibility
	if session.Version != CurrentVersion {
		return nil, fmt.Errorf("session file version (%d) is incompatible with current version (%d)",
			session.Version, CurrentVersion)
	}

	// Verify checksum
	savedChecksum := session.Checksum
	session.Checksum = "" // Clear for recalculation

	calculatedChecksum, err := calculateChecksum(&session)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum for validation: %w", err)
	}

	if savedChecksum != calculatedChecksum {
		return nil, fmt.Errorf("session file is corrupted (checksum mismatch)")
	}

	// Restore the checksum field
	session.Checksum = savedChecksum

	return &session, nil
}

// DeleteSession removes the session file.
// This is useful for resetting to a clean state.
func DeleteSession(sessionFile string) error {
	err := os.Remove(sessionFile)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// calculateChecksum computes the SHA256 hash of the session content.
// The checksum field itself is excluded from the calculation.
func calculateChecksum(session *SessionState) (string, error) {
	// Create a copy without the checksum field
	sessionCopy := *session
	sessionCopy.Checksum = ""

	// Marshal to JSON for consistent hashing
	data, err := json.Marshal(sessionCopy)
	if err != nil {
		return "", err
	}

	// Calculate SHA256
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
