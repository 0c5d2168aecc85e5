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

package github

import (
	"fmt"
	"io"
	"net/http"

	pulseerrors "github.com/gitpulsehq/gitpulse/internal/errors"
	"github.com/gitpulsehq/gitpulse/pkg/version"
)

// responseSizeLimit caps GraphQL response bodies at 10MB.
const responseSizeLimit = 10 * 1024 * 1024

// apiTransport adds safety limits and identification to HTTP requests and
// maps HTTP status failures onto sentinel errors at the transport boundary.
// The sentinels survive the url.Error wrapping applied by net/http, so
// callers can classify failures with errors.Is regardless of message text.
// Authentication is layered underneath by an oauth2.Transport when a token
// was supplied, so anonymous clients never send an Authorization header.
type apiTransport struct {
	base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *apiTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	// Add user agent for identification
	req.Header.Set("User-Agent", fmt.Sprintf("gitpulse/%s", version.Version))

	// Execute the request
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, statusError(resp)
	}

	// Apply response size limit
	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      responseSizeLimit,
		}
	}

	return resp, nil
}

// statusError maps a non-2xx HTTP status onto the matching sentinel.
// 401 means bad credentials. 403 and 429 mean exhausted quota: GitHub
// answers rate-limited API calls with 403, so it is never treated as an
// authentication failure here. Everything else counts as an unusable
// connection.
func statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("github api returned status %s: %w", resp.Status, pulseerrors.ErrInvalidToken)
	case http.StatusForbidden, http.StatusTooManyRequests:
		return fmt.Errorf("github api returned status %s: %w", resp.Status, pulseerrors.ErrRateLimit)
	default:
		return fmt.Errorf("github api returned status %s: %w", resp.Status, pulseerrors.ErrNetworkFailure)
	}
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	// Calculate how much we can read
	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}
