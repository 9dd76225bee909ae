// Package feeds fetches disaster alert feeds over HTTP and normalizes each
// upstream format into domain.AlertRecord values.
package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/couchcryptid/shelter-nav/internal/domain"
)

// maxPayloadBytes caps how much of a feed response is read.
const maxPayloadBytes = 4 << 20

const userAgent = "shelter-nav/1.0"

// fetcher performs a single GET against a fixed URL.
type fetcher struct {
	url        string
	httpClient *http.Client
}

func newFetcher(url string, timeout time.Duration) fetcher {
	return fetcher{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch returns the raw response body. Transport failures and non-200
// statuses wrap domain.ErrTransport.
func (f fetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", domain.ErrTransport, f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: fetch %s: status %d: %s", domain.ErrTransport, f.url, resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrTransport, f.url, err)
	}
	return data, nil
}
