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

package output

import "github.com/gitpulsehq/gitpulse/internal/github"

// ItemWriter defines the interface for rendering ranked items.
// This abstraction allows different output formats (NDJSON, table)
// to be swapped without changing the command logic.
type ItemWriter interface {
	// Write adds a single item to the output. Items arrive in rank
	// order, best first. NDJSON flushes each item immediately; the
	// table collects items and renders them on Close.
	Write(item github.Item) error

	// Close finalizes the output and releases any resources.
	// This should be called when all writing is complete.
	Close() error
}
