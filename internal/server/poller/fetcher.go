package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxFeedBytes = 4 << 20

// HTTPFetcher reads a JSON array of comments from a feed URL.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

func NewHTTPFetcher(url string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{url: url, client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) ([]Comment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxFeedBytes))
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	var comments []Comment
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFeedBytes)).Decode(&comments); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return comments, nil
}
