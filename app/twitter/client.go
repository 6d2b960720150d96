package twitter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mmcdole/gofeed"

	"github.com/comicrelay/comicrelay/app/pipeline"
)

var _ pipeline.SourceFeed = (*Client)(nil)

// Client reads an account's recent statuses through an RSS bridge
// (nitter-style, <base>/<handle>/rss). Any transport, HTTP status or
// parse failure is reported as pipeline.ErrFeedUnavailable.
type Client struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	baseURL    string
	userAgent  string
}

func NewClient(httpClient *http.Client, baseURL, userAgent string) *Client {
	return &Client{
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
		baseURL:    baseURL,
		userAgent:  userAgent,
	}
}

func (c *Client) FetchRecent(ctx context.Context, handle string, limit int) ([]pipeline.Status, error) {
	data, err := c.fetch(ctx, fmt.Sprintf("%s/%s/rss", c.baseURL, handle))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrFeedUnavailable, err)
	}

	feed, err := c.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse feed: %w", pipeline.ErrFeedUnavailable, err)
	}

	name := displayName(feed, handle)

	statuses := make([]pipeline.Status, 0, len(feed.Items))
	for _, item := range feed.Items {
		if len(statuses) >= limit {
			break
		}

		id := statusID(item)
		if id == "" {
			slog.Debug("Skipping feed item without a status id", "link", item.Link)
			continue
		}

		status := pipeline.Status{
			ID:           id,
			Handle:       handle,
			DisplayName:  name,
			Text:         cleanText(item.Title),
			CanonicalURL: canonicalURL(handle, id),
			MediaURL:     mediaURL(item),
		}
		if item.PublishedParsed != nil {
			status.PostedAt = item.PublishedParsed.UTC()
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
