package imgur

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/comicrelay/comicrelay/app/pipeline"
)

var _ pipeline.MediaHost = (*Client)(nil)

const DefaultBaseURL = "https://api.imgur.com"

// Client talks to the Imgur v3 API. Albums are created hidden; uploads
// reference the source image by URL so the media never passes through
// this process.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	clientID    string
	accessToken string
	userAgent   string
}

func NewClient(httpClient *http.Client, baseURL, clientID, accessToken, userAgent string) *Client {
	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		clientID:    clientID,
		accessToken: accessToken,
		userAgent:   userAgent,
	}
}

type apiEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
	Status  int             `json:"status"`
}

type albumData struct {
	ID         string `json:"id"`
	DeleteHash string `json:"deletehash"`
}

type imageData struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}

// EnsureAlbum returns the album unchanged when it already has a
// deletehash, otherwise creates a hidden album and returns its refs.
func (c *Client) EnsureAlbum(ctx context.Context, album pipeline.Album, cfg pipeline.AlbumConfig) (pipeline.Album, error) {
	if album.DeleteHash != "" {
		return album, nil
	}

	form := url.Values{}
	form.Set("title", cfg.Title)
	form.Set("description", cfg.Description)
	form.Set("privacy", "hidden")

	var data albumData
	if err := c.post(ctx, "/3/album", form, &data); err != nil {
		return pipeline.Album{}, fmt.Errorf("%w: failed to create album: %w", pipeline.ErrUploadFailed, err)
	}

	return pipeline.Album{ID: data.ID, DeleteHash: data.DeleteHash}, nil
}

// Upload submits the image by URL into the configured album. The direct
// link is derived from the image id, matching the host's i.imgur.com
// scheme.
func (c *Client) Upload(ctx context.Context, mediaURL string, cfg pipeline.ImageConfig) (pipeline.UploadResult, error) {
	form := url.Values{}
	form.Set("image", mediaURL)
	form.Set("type", "url")
	form.Set("album", cfg.Album)
	form.Set("name", cfg.Title)
	form.Set("title", cfg.Title)
	form.Set("description", cfg.Description)

	var data imageData
	if err := c.post(ctx, "/3/upload", form, &data); err != nil {
		return pipeline.UploadResult{}, fmt.Errorf("%w: %w", pipeline.ErrUploadFailed, err)
	}
	if data.ID == "" {
		return pipeline.UploadResult{}, fmt.Errorf("%w: response carried no image id", pipeline.ErrUploadFailed)
	}

	return pipeline.UploadResult{
		ImageID:    data.ID,
		DirectLink: fmt.Sprintf("https://i.imgur.com/%s.jpg", data.ID),
	}, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	} else {
		req.Header.Set("Authorization", "Client-ID "+c.clientID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach imgur: %w", err)
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !envelope.Success {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}

	return nil
}
