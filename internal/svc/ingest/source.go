// If you are AI: This file opens FLV byte sources: HTTP-FLV endpoints and local files.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// ErrHTTPStatus is returned when an HTTP source answers with a non-200 status.
var ErrHTTPStatus = errors.New("unexpected http status")

// Open returns a reader for the source at rawURL.
// http and https URLs are fetched with a GET bound to ctx; file URLs and bare
// paths are opened from the local filesystem.
func Open(ctx context.Context, client *http.Client, rawURL string) (io.ReadCloser, error) {
	if !strings.Contains(rawURL, "://") {
		return os.Open(rawURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	switch u.Scheme {
	case "file":
		return os.Open(u.Path)
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "video/x-flv")
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
		}
		return resp.Body, nil
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}
