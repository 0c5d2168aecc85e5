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

// Package output renders ranked items in the formats the CLI offers.
//
// Two writers implement the ItemWriter interface. Writer streams one JSON
// object per item in NDJSON (Newline Delimited JSON) form, convenient for
// piping into jq or loading elsewhere; items are flushed as they are
// written and never accumulate in memory. TableWriter collects items and
// renders a ranked, color-coded table on Close, for reading in a
// terminal.
//
// Example usage:
//
//	// Stream to a file
//	w, err := output.NewFileWriter("items.ndjson")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	for _, item := range items {
//	    if err := w.Write(item); err != nil {
//	        log.Printf("Failed to write item: %v", err)
//	    }
//	}
//
//	fmt.Printf("Wrote %d items\n", w.Count())
package output
