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

// Package fetch coordinates the paged retrieval of a repository's issues
// and pull requests. It resolves the filter-scoped totals first, derives
// a page budget per kind, then drains both kinds concurrently while pages
// within one kind stay strictly sequential. Cumulative progress is
// reported to an observer after every ingested page. A fetch either
// completes with the full item sets or fails as a whole; partial results
// are never returned.
package fetch
