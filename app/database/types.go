package database

import (
	"time"
)

// ItemRecord is the persisted pipeline state for a single source status.
// The empty string marks a stage field that has not been written yet;
// stage fields are written exactly once and never cleared.
type ItemRecord struct {
	Series   string
	StatusID string

	// Source fields, written once at discovery
	AuthorHandle string
	DisplayName  string
	PostedAt     time.Time
	BodyText     string
	CanonicalURL string
	MediaURL     string
	SeqNumber    int64

	// Media stage
	AlbumRef   string
	ImageID    string
	DirectLink string

	// Destination stage
	PostRef    string
	CommentRef string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MetaRecord is the singleton row per series holding the destination
// channel, the shared media collection and the sequence counter.
type MetaRecord struct {
	Series          string
	Subreddit       string
	AlbumID         string
	AlbumDeleteHash string
	NextSeq         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
