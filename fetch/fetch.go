// Package fetch provides the shared HTTP GET helper used by the external
// service clients, with error classification for logging and metrics.
package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes caps response body reads. Catalog responses for a full
// result page stay well under this.
const maxBodyBytes = 4 << 20

// Get issues a single GET request and returns the response body. Non-2xx
// responses and transport failures are returned as classified errors; there
// is no retry.
func Get(ctx context.Context, client *http.Client, rawURL string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, Classify(err, 0)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		statusErr := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		return nil, Classify(statusErr, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return body, nil
}
