package pipeline

import (
	"context"
	"time"
)

// Status is one candidate item from the source feed, in the platform's
// recency order. MediaURL is empty when the status carries no media;
// for multi-image statuses the adapter reports the first image only.
type Status struct {
	ID           string
	Handle       string
	DisplayName  string
	PostedAt     time.Time
	Text         string
	CanonicalURL string
	MediaURL     string
}

// Album identifies a media collection on the host. The deletehash is
// the write credential; the id is the public reference.
type Album struct {
	ID         string
	DeleteHash string
}

type AlbumConfig struct {
	Title       string
	Description string
}

type ImageConfig struct {
	Album       string
	Title       string
	Description string
}

type UploadResult struct {
	ImageID    string
	DirectLink string
}

// SourceFeed yields recent statuses for an account. Failures are
// reported as ErrFeedUnavailable.
type SourceFeed interface {
	FetchRecent(ctx context.Context, handle string, limit int) ([]Status, error)
}

// MediaHost uploads images into a shared collection. EnsureAlbum is
// idempotent: an album that already has a deletehash is returned
// unchanged.
type MediaHost interface {
	EnsureAlbum(ctx context.Context, album Album, cfg AlbumConfig) (Album, error)
	Upload(ctx context.Context, mediaURL string, cfg ImageConfig) (UploadResult, error)
}

// LinkPoster submits links and follow-up comments to the destination
// channel. Both calls are irrevocable side effects; the engine persists
// each result before attempting the next.
type LinkPoster interface {
	Submit(ctx context.Context, subreddit, title, url string) (string, error)
	Comment(ctx context.Context, postRef, body string) (string, error)
}
