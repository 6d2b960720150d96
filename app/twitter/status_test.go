package twitter

import (
	"testing"

	"github.com/mmcdole/gofeed"
)

func TestStatusID(t *testing.T) {
	tests := []struct {
		name string
		item gofeed.Item
		want string
	}{
		{
			name: "from guid",
			item: gofeed.Item{GUID: "https://nitter.net/artist/status/12345#m"},
			want: "12345",
		},
		{
			name: "from link when guid is opaque",
			item: gofeed.Item{GUID: "tag:bridge,2026:1", Link: "https://nitter.net/artist/status/678"},
			want: "678",
		},
		{
			name: "statuses spelling",
			item: gofeed.Item{Link: "https://twitter.com/artist/statuses/42"},
			want: "42",
		},
		{
			name: "no id",
			item: gofeed.Item{Link: "https://nitter.net/artist"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusID(&tt.item); got != tt.want {
				t.Errorf("statusID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips trailing short link",
			in:   "a new page https://t.co/AbC123xyz",
			want: "a new page",
		},
		{
			name: "keeps embedded links",
			in:   "see https://example.com for more",
			want: "see https://example.com for more",
		},
		{
			name: "trims whitespace",
			in:   "  a new page  ",
			want: "a new page",
		},
		{
			name: "normalizes combining marks",
			in:   "cafe\u0301",
			want: "caf\u00e9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanText(tt.in); got != tt.want {
				t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	feed := &gofeed.Feed{Title: "The Artist / @artist"}
	if got := displayName(feed, "artist"); got != "The Artist" {
		t.Errorf("displayName() = %q, want %q", got, "The Artist")
	}

	plain := &gofeed.Feed{Title: "some feed"}
	if got := displayName(plain, "artist"); got != "artist" {
		t.Errorf("displayName() fallback = %q, want %q", got, "artist")
	}
}

func TestMediaURL(t *testing.T) {
	withEnclosure := gofeed.Item{
		Enclosures: []*gofeed.Enclosure{
			{URL: "https://pbs.twimg.com/media/abc.jpg", Type: "image/jpeg"},
			{URL: "https://pbs.twimg.com/media/second.jpg", Type: "image/jpeg"},
		},
	}
	if got := mediaURL(&withEnclosure); got != "https://pbs.twimg.com/media/abc.jpg?name=large" {
		t.Errorf("mediaURL() = %q", got)
	}

	withImgTag := gofeed.Item{
		Description: `<p>a new page</p><img src="https://nitter.net/pic/media%2Fabc.jpg" />`,
	}
	if got := mediaURL(&withImgTag); got != "https://nitter.net/pic/media%2Fabc.jpg" {
		t.Errorf("mediaURL() from img tag = %q", got)
	}

	audioOnly := gofeed.Item{
		Enclosures:  []*gofeed.Enclosure{{URL: "https://example.com/a.mp3", Type: "audio/mpeg"}},
		Description: "no images here",
	}
	if got := mediaURL(&audioOnly); got != "" {
		t.Errorf("mediaURL() for non-image enclosure = %q, want empty", got)
	}
}

func TestLargeVariant(t *testing.T) {
	if got := largeVariant("https://pbs.twimg.com/media/abc.jpg"); got != "https://pbs.twimg.com/media/abc.jpg?name=large" {
		t.Errorf("largeVariant() = %q", got)
	}
	if got := largeVariant("https://pbs.twimg.com/media/abc.jpg?name=small"); got != "https://pbs.twimg.com/media/abc.jpg?name=small" {
		t.Errorf("largeVariant() should not double the parameter: %q", got)
	}
	if got := largeVariant("https://elsewhere.example/abc.jpg"); got != "https://elsewhere.example/abc.jpg" {
		t.Errorf("largeVariant() should leave other hosts alone: %q", got)
	}
}
