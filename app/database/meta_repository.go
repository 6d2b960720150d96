package database

import (
	"database/sql"
	"fmt"
)

var _ MetaRepository = (*MetaRepo)(nil)

// MetaRepo handles database operations for the per-series meta record
type MetaRepo struct {
	db *DB
}

func NewMetaRepo(db *DB) *MetaRepo {
	return &MetaRepo{db: db}
}

// EnsureMeta creates the meta row on first use and returns it. An
// existing row is returned unchanged; the destination channel of a
// series is fixed at creation.
func (r *MetaRepo) EnsureMeta(series, subreddit string) (*MetaRecord, error) {
	_, err := r.db.Exec(`
		INSERT INTO series_meta (series, subreddit)
		VALUES (?, ?)
		ON CONFLICT (series) DO NOTHING
	`, series, subreddit)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure meta record: %w", err)
	}

	meta, err := r.GetMeta(series)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, fmt.Errorf("meta record missing after insert for series %s", series)
	}

	return meta, nil
}

// GetMeta returns the meta record for a series, or nil when none exists.
func (r *MetaRepo) GetMeta(series string) (*MetaRecord, error) {
	row := r.db.QueryRow(`
		SELECT series, subreddit, album_id, album_deletehash, next_seq,
		       created_at, updated_at
		FROM series_meta
		WHERE series = ?
	`, series)

	var meta MetaRecord
	err := row.Scan(
		&meta.Series, &meta.Subreddit, &meta.AlbumID, &meta.AlbumDeleteHash,
		&meta.NextSeq, &meta.CreatedAt, &meta.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meta record: %w", err)
	}

	return &meta, nil
}

// SetAlbum records the shared album refs. Write-once: the collection a
// series uploads into never changes after creation.
func (r *MetaRepo) SetAlbum(series, albumID, deleteHash string) error {
	if albumID == "" || deleteHash == "" {
		return fmt.Errorf("album id and deletehash must be set together")
	}

	res, err := r.db.Exec(`
		UPDATE series_meta
		SET album_id = ?, album_deletehash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE series = ? AND album_deletehash = ''
	`, albumID, deleteHash, series)
	if err != nil {
		return fmt.Errorf("failed to set album: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows != 1 {
		return fmt.Errorf("album not writable for series %s (missing row or already set)", series)
	}

	return nil
}

// AdvanceSeq moves the sequence counter up to next. The counter is
// monotonic: a stale caller can never move it backwards.
func (r *MetaRepo) AdvanceSeq(series string, next int64) error {
	_, err := r.db.Exec(`
		UPDATE series_meta
		SET next_seq = MAX(next_seq, ?), updated_at = CURRENT_TIMESTAMP
		WHERE series = ?
	`, next, series)
	if err != nil {
		return fmt.Errorf("failed to advance sequence counter: %w", err)
	}

	return nil
}
