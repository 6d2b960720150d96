package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/comicrelay/comicrelay/app/pipeline"
)

var _ pipeline.LinkPoster = (*Client)(nil)

const (
	DefaultAuthBaseURL = "https://www.reddit.com"
	DefaultAPIBaseURL  = "https://oauth.reddit.com"
)

var postIDPattern = regexp.MustCompile(`/comments/([a-z0-9]+)`)

// Credentials is the script-app identity used for the password grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// Client talks to the Reddit API as a script app. The OAuth token is
// fetched lazily and reused for the life of the client; a single run is
// far shorter than the token lifetime.
type Client struct {
	httpClient  *http.Client
	authBaseURL string
	apiBaseURL  string
	creds       Credentials
	userAgent   string
	token       string
}

func NewClient(httpClient *http.Client, authBaseURL, apiBaseURL string, creds Credentials, userAgent string) *Client {
	return &Client{
		httpClient:  httpClient,
		authBaseURL: authBaseURL,
		apiBaseURL:  apiBaseURL,
		creds:       creds,
		userAgent:   userAgent,
	}
}

// Submit posts the link to the subreddit and returns the new post's
// permalink. Inbox replies are disabled on the created post; that is a
// platform nicety, so its failure is logged rather than propagated.
func (c *Client) Submit(ctx context.Context, subreddit, title, link string) (string, error) {
	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("kind", "link")
	form.Set("sr", subreddit)
	form.Set("title", title)
	form.Set("url", link)
	form.Set("resubmit", "true")

	var data struct {
		URL  string `json:"url"`
		Name string `json:"name"`
	}
	if err := c.postAPI(ctx, "/api/submit", form, &data); err != nil {
		return "", fmt.Errorf("%w: %w", pipeline.ErrPostFailed, err)
	}
	if data.URL == "" {
		return "", fmt.Errorf("%w: response carried no post url", pipeline.ErrPostFailed)
	}

	if err := c.disableInboxReplies(ctx, data.Name); err != nil {
		slog.Warn("Failed to disable inbox replies", "post", data.URL, "error", err)
	}

	return data.URL, nil
}

// Comment attaches a follow-up comment to a previously submitted post,
// identified by its permalink, and returns the comment's permalink.
func (c *Client) Comment(ctx context.Context, postRef, body string) (string, error) {
	match := postIDPattern.FindStringSubmatch(postRef)
	if match == nil {
		return "", fmt.Errorf("%w: cannot derive post id from ref %q", pipeline.ErrCommentFailed, postRef)
	}

	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("thing_id", "t3_"+match[1])
	form.Set("text", body)

	var data struct {
		Things []struct {
			Data struct {
				Permalink string `json:"permalink"`
			} `json:"data"`
		} `json:"things"`
	}
	if err := c.postAPI(ctx, "/api/comment", form, &data); err != nil {
		return "", fmt.Errorf("%w: %w", pipeline.ErrCommentFailed, err)
	}
	if len(data.Things) == 0 || data.Things[0].Data.Permalink == "" {
		return "", fmt.Errorf("%w: response carried no comment permalink", pipeline.ErrCommentFailed)
	}

	return DefaultAuthBaseURL + data.Things[0].Data.Permalink, nil
}

func (c *Client) disableInboxReplies(ctx context.Context, fullname string) error {
	if fullname == "" {
		return fmt.Errorf("post fullname missing from submit response")
	}

	form := url.Values{}
	form.Set("id", fullname)
	form.Set("state", "false")

	return c.postAPI(ctx, "/api/sendreplies", form, nil)
}

// postAPI performs an authenticated API call and decodes the standard
// {"json": {"errors": [...], "data": {...}}} envelope.
func (c *Client) postAPI(ctx context.Context, path string, form url.Values, out any) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiBaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach reddit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var envelope struct {
		JSON struct {
			Errors [][]any         `json:"errors"`
			Data   json.RawMessage `json:"data"`
		} `json:"json"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(envelope.JSON.Errors) > 0 {
		return fmt.Errorf("API error: %v", envelope.JSON.Errors[0])
	}

	if out != nil && len(envelope.JSON.Data) > 0 {
		if err := json.Unmarshal(envelope.JSON.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}

func (c *Client) ensureToken(ctx context.Context) (string, error) {
	if c.token != "" {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", c.creds.Username)
	form.Set("password", c.creds.Password)

	req, err := http.NewRequestWithContext(ctx, "POST", c.authBaseURL+"/api/v1/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)
	req.SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token response carried no access token")
	}

	c.token = token.AccessToken
	return c.token, nil
}
