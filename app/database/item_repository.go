package database

import (
	"database/sql"
	"fmt"
)

var _ ItemRepository = (*ItemRepo)(nil)

// ItemRepo handles database operations for item pipeline records
type ItemRepo struct {
	db *DB
}

func NewItemRepo(db *DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// GetItem returns the record for a status, or nil when none exists.
func (r *ItemRepo) GetItem(series, statusID string) (*ItemRecord, error) {
	row := r.db.QueryRow(`
		SELECT series, status_id, author_handle, display_name, posted_at,
		       body_text, canonical_url, media_url, seq_number,
		       album_ref, image_id, direct_link, post_ref, comment_ref,
		       created_at, updated_at
		FROM items
		WHERE series = ? AND status_id = ?
	`, series, statusID)

	var item ItemRecord
	err := row.Scan(
		&item.Series, &item.StatusID, &item.AuthorHandle, &item.DisplayName,
		&item.PostedAt, &item.BodyText, &item.CanonicalURL, &item.MediaURL,
		&item.SeqNumber, &item.AlbumRef, &item.ImageID, &item.DirectLink,
		&item.PostRef, &item.CommentRef, &item.CreatedAt, &item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return &item, nil
}

// InsertItem creates the discovery-time record. The key is immutable and
// never reused, so an existing row is left untouched.
func (r *ItemRepo) InsertItem(record ItemRecord) error {
	_, err := r.db.Exec(`
		INSERT INTO items (
			series, status_id, author_handle, display_name, posted_at,
			body_text, canonical_url, media_url, seq_number
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (series, status_id) DO NOTHING
	`, record.Series, record.StatusID, record.AuthorHandle, record.DisplayName,
		record.PostedAt.UTC(), record.BodyText, record.CanonicalURL,
		record.MediaURL, record.SeqNumber)

	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

// SetMediaResult records the hosted image id, direct link and album ref
// in one statement. Write-once: fails if a media result already exists.
func (r *ItemRepo) SetMediaResult(series, statusID, albumRef, imageID, directLink string) error {
	if imageID == "" || directLink == "" {
		return fmt.Errorf("image id and direct link must be set together")
	}

	res, err := r.db.Exec(`
		UPDATE items
		SET album_ref = ?, image_id = ?, direct_link = ?, updated_at = CURRENT_TIMESTAMP
		WHERE series = ? AND status_id = ? AND image_id = ''
	`, albumRef, imageID, directLink, series, statusID)
	if err != nil {
		return fmt.Errorf("failed to set media result: %w", err)
	}

	return r.requireOneRow(res, "media result", series, statusID)
}

// SetPostRef records the destination post. Write-once, and gated on a
// completed media stage so an item can never acquire a post before its
// image is hosted.
func (r *ItemRepo) SetPostRef(series, statusID, postRef string) error {
	if postRef == "" {
		return fmt.Errorf("post ref must not be empty")
	}

	res, err := r.db.Exec(`
		UPDATE items
		SET post_ref = ?, updated_at = CURRENT_TIMESTAMP
		WHERE series = ? AND status_id = ? AND post_ref = '' AND image_id != ''
	`, postRef, series, statusID)
	if err != nil {
		return fmt.Errorf("failed to set post ref: %w", err)
	}

	return r.requireOneRow(res, "post ref", series, statusID)
}

// SetCommentRef records the follow-up comment. Write-once, and gated on
// an existing post ref since comments attach to posts.
func (r *ItemRepo) SetCommentRef(series, statusID, commentRef string) error {
	if commentRef == "" {
		return fmt.Errorf("comment ref must not be empty")
	}

	res, err := r.db.Exec(`
		UPDATE items
		SET comment_ref = ?, updated_at = CURRENT_TIMESTAMP
		WHERE series = ? AND status_id = ? AND comment_ref = '' AND post_ref != ''
	`, commentRef, series, statusID)
	if err != nil {
		return fmt.Errorf("failed to set comment ref: %w", err)
	}

	return r.requireOneRow(res, "comment ref", series, statusID)
}

// MaxAssignedSeq returns the highest sequence number handed out for the
// series, 0 when no items exist yet.
func (r *ItemRepo) MaxAssignedSeq(series string) (int64, error) {
	var max int64
	err := r.db.QueryRow(`
		SELECT COALESCE(MAX(seq_number), 0) FROM items WHERE series = ?
	`, series).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get max sequence number: %w", err)
	}
	return max, nil
}

// GetItemStats returns totals for run reporting.
func (r *ItemRepo) GetItemStats(series string) (total, complete int, err error) {
	err = r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN post_ref != '' AND comment_ref != '' THEN 1 ELSE 0 END), 0)
		FROM items
		WHERE series = ?
	`, series).Scan(&total, &complete)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get item stats: %w", err)
	}
	return total, complete, nil
}

func (r *ItemRepo) requireOneRow(res sql.Result, field, series, statusID string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows != 1 {
		return fmt.Errorf("%s not writable for item %s/%s (missing row, unmet stage gate, or already set)", field, series, statusID)
	}
	return nil
}
