package database

// ItemRepository persists per-status pipeline records. All writes are
// single-statement upserts, atomic at the row level. Stage setters are
// write-once: a second write to an already-set stage field fails instead
// of overwriting, which is what makes crash re-runs safe to attempt.
type ItemRepository interface {
	GetItem(series, statusID string) (*ItemRecord, error)
	InsertItem(record ItemRecord) error
	SetMediaResult(series, statusID, albumRef, imageID, directLink string) error
	SetPostRef(series, statusID, postRef string) error
	SetCommentRef(series, statusID, commentRef string) error

	MaxAssignedSeq(series string) (int64, error)
	GetItemStats(series string) (total, complete int, err error)
}

// MetaRepository persists the singleton meta record for a series.
type MetaRepository interface {
	EnsureMeta(series, subreddit string) (*MetaRecord, error)
	GetMeta(series string) (*MetaRecord, error)
	SetAlbum(series, albumID, deleteHash string) error
	AdvanceSeq(series string, next int64) error
}
