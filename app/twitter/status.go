package twitter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/text/unicode/norm"
)

var (
	statusIDPattern  = regexp.MustCompile(`/status(?:es)?/(\d+)`)
	shortLinkPattern = regexp.MustCompile(`\s+https://t\.co/\S*$`)
	imgTagPattern    = regexp.MustCompile(`<img[^>]+src="([^"]+)"`)
)

// statusID extracts the numeric status id from a bridge item link.
func statusID(item *gofeed.Item) string {
	for _, candidate := range []string{item.GUID, item.Link} {
		if match := statusIDPattern.FindStringSubmatch(candidate); match != nil {
			return match[1]
		}
	}
	return ""
}

// cleanText strips the trailing media short link the platform appends
// to the status text and normalizes the result to NFC so captions and
// titles compare stably across bridge instances.
func cleanText(text string) string {
	text = shortLinkPattern.ReplaceAllString(text, "")
	return norm.NFC.String(strings.TrimSpace(text))
}

// displayName parses the account's display name out of a bridge feed
// title of the form "Name / @handle".
func displayName(feed *gofeed.Feed, handle string) string {
	if name, _, found := strings.Cut(feed.Title, " / @"); found && name != "" {
		return strings.TrimSpace(name)
	}
	return handle
}

// mediaURL returns the first image attached to the item, or "" when the
// status carries none. Multi-image statuses report the first image only.
func mediaURL(item *gofeed.Item) string {
	for _, enclosure := range item.Enclosures {
		if enclosure != nil && strings.HasPrefix(enclosure.Type, "image/") {
			return largeVariant(enclosure.URL)
		}
	}
	if match := imgTagPattern.FindStringSubmatch(item.Description); match != nil {
		return largeVariant(match[1])
	}
	return ""
}

// largeVariant requests the full-size rendition where the media host
// supports the name parameter.
func largeVariant(url string) string {
	if strings.Contains(url, "pbs.twimg.com") && !strings.Contains(url, "?") {
		return url + "?name=large"
	}
	return url
}

// canonicalURL is the stable public URL for a status, independent of
// which bridge instance served the feed.
func canonicalURL(handle, id string) string {
	return fmt.Sprintf("https://twitter.com/%s/status/%s", handle, id)
}
