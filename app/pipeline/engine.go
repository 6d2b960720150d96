package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/comicrelay/comicrelay/app/config"
	"github.com/comicrelay/comicrelay/app/database"
)

// Engine drives discovery, classification and the three publication
// stages for one series. Execution is sequential: one pass through
// discovery, then media hand-off, then posting, items in feed order,
// stages strictly media -> post -> comment within an item. Every side
// effect is persisted before the next one is attempted, which is the
// whole resumability story.
type Engine struct {
	series *config.Series
	feed   SourceFeed
	media  MediaHost
	poster LinkPoster
	items  database.ItemRepository
	meta   database.MetaRepository
	limit  int
}

func NewEngine(series *config.Series, feed SourceFeed, media MediaHost,
	poster LinkPoster, items database.ItemRepository, meta database.MetaRepository,
	limit int) *Engine {
	return &Engine{
		series: series,
		feed:   feed,
		media:  media,
		poster: poster,
		items:  items,
		meta:   meta,
		limit:  limit,
	}
}

// Result is the outcome of a single pass. Eligible counts the items
// that needed any stage work this run; zero eligible items is the
// "no work" signal, which is success, not an error.
type Result struct {
	Posts    []string
	Eligible int
}

// RunOnce performs one full pass. Per-item stage failures are logged
// and contained to the item; record store failures abort the run, since
// nothing was durably recorded for the failed write and re-running is
// always safe.
func (e *Engine) RunOnce(ctx context.Context) (*Result, error) {
	if err := e.ensureAlbum(ctx); err != nil {
		return nil, err
	}

	pending, posting, err := e.discoverCandidates(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{Eligible: len(pending) + len(posting)}
	if result.Eligible == 0 {
		slog.Info("No new posts need to be made", "series", e.series.Table)
		return result, nil
	}

	uploaded, err := e.runMediaStage(ctx, pending)
	if err != nil {
		return nil, err
	}
	posting = append(posting, uploaded...)

	if err := e.runPostStage(ctx, posting, result); err != nil {
		return nil, err
	}

	total, complete, err := e.items.GetItemStats(e.series.Table)
	if err != nil {
		return nil, err
	}
	slog.Info("Pass completed", "series", e.series.Table,
		"eligible", result.Eligible, "new_posts", len(result.Posts),
		"total", total, "complete", complete)

	return result, nil
}

// ensureAlbum creates the shared album on first use and persists its
// refs in the meta record before any image is uploaded into it.
func (e *Engine) ensureAlbum(ctx context.Context) error {
	meta, err := e.meta.EnsureMeta(e.series.Table, e.series.Subreddit)
	if err != nil {
		return err
	}
	if meta.AlbumDeleteHash != "" {
		return nil
	}

	cfg := buildAlbumConfig(e.series.Handle, e.series.Title, e.albumDescription())
	album, err := e.media.EnsureAlbum(ctx, Album{}, cfg)
	if err != nil {
		return fmt.Errorf("failed to create album: %w", err)
	}

	if err := e.meta.SetAlbum(e.series.Table, album.ID, album.DeleteHash); err != nil {
		return err
	}

	slog.Info("Created album", "series", e.series.Table, "album_id", album.ID)
	return nil
}

func (e *Engine) albumDescription() string {
	if e.series.Description != "" {
		return e.series.Description
	}
	return e.series.Title
}

// discoverCandidates fetches recent statuses and classifies each item
// that carries media against its persisted record. Classification is a
// pure function of persisted state plus the fetched feed; the
// downstream platforms are never re-queried.
func (e *Engine) discoverCandidates(ctx context.Context) (pending, posting []*database.ItemRecord, err error) {
	statuses, err := e.feed.FetchRecent(ctx, e.series.Handle, e.limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch recent statuses: %w", err)
	}

	for _, status := range statuses {
		if status.MediaURL == "" {
			continue
		}

		record, err := e.items.GetItem(e.series.Table, status.ID)
		if err != nil {
			return nil, nil, err
		}

		if record == nil {
			record, err = e.createRecord(status)
			if err != nil {
				return nil, nil, err
			}
			slog.Debug("Discovered new status", "series", e.series.Table,
				"status_id", status.ID, "seq", record.SeqNumber)
			pending = append(pending, record)
			continue
		}

		switch StageOf(record) {
		case StageDiscovered:
			pending = append(pending, record)
		case StageMediaDone, StagePostDone:
			posting = append(posting, record)
		case StageComplete:
			slog.Debug("Status already published", "series", e.series.Table,
				"status_id", status.ID)
		}
	}

	return pending, posting, nil
}

// createRecord persists the discovery-time record with a freshly
// assigned sequence number. The number is read from the store for each
// item rather than cached across items: assignment takes the counter or
// one past the highest number already handed out, whichever is larger,
// so a crash between a media success and the counter advance can leave
// a gap but never hand out the same number twice.
func (e *Engine) createRecord(status Status) (*database.ItemRecord, error) {
	meta, err := e.meta.GetMeta(e.series.Table)
	if err != nil {
		return nil, err
	}
	maxAssigned, err := e.items.MaxAssignedSeq(e.series.Table)
	if err != nil {
		return nil, err
	}

	seq := meta.NextSeq
	if maxAssigned+1 > seq {
		seq = maxAssigned + 1
	}

	record := &database.ItemRecord{
		Series:       e.series.Table,
		StatusID:     status.ID,
		AuthorHandle: status.Handle,
		DisplayName:  status.DisplayName,
		PostedAt:     status.PostedAt,
		BodyText:     status.Text,
		CanonicalURL: status.CanonicalURL,
		MediaURL:     status.MediaURL,
		SeqNumber:    seq,
	}

	if err := e.items.InsertItem(*record); err != nil {
		return nil, err
	}

	return record, nil
}

// runMediaStage uploads each pending item's image exactly once per run.
// The upload result is persisted atomically before the counter advance,
// and the item only joins the posting batch after both are durable. A
// failed upload drops the item from this run; it stays media-pending.
func (e *Engine) runMediaStage(ctx context.Context, pending []*database.ItemRecord) ([]*database.ItemRecord, error) {
	if len(pending) == 0 {
		return nil, nil
	}
	slog.Info("Uploading images", "series", e.series.Table, "count", len(pending))

	meta, err := e.meta.GetMeta(e.series.Table)
	if err != nil {
		return nil, err
	}

	var uploaded []*database.ItemRecord
	for _, record := range pending {
		imageCfg := ImageConfig{
			Album:       meta.AlbumDeleteHash,
			Title:       buildImageTitle(record),
			Description: buildImageDescription(record),
		}

		result, err := e.media.Upload(ctx, record.MediaURL, imageCfg)
		if err != nil {
			slog.Error("Image upload failed, leaving item media-pending",
				"series", e.series.Table, "status_id", record.StatusID, "error", err)
			continue
		}

		err = e.items.SetMediaResult(e.series.Table, record.StatusID,
			meta.AlbumDeleteHash, result.ImageID, result.DirectLink)
		if err != nil {
			return nil, err
		}
		if err := e.meta.AdvanceSeq(e.series.Table, record.SeqNumber+1); err != nil {
			return nil, err
		}

		record.AlbumRef = meta.AlbumDeleteHash
		record.ImageID = result.ImageID
		record.DirectLink = result.DirectLink
		uploaded = append(uploaded, record)

		slog.Debug("Image uploaded", "series", e.series.Table,
			"status_id", record.StatusID, "image_id", result.ImageID)
	}

	return uploaded, nil
}

// runPostStage submits the link and then the comment for every item
// with media complete. Each sub-step persists immediately, so a crash
// between the two resumes at exactly the comment on the next run.
func (e *Engine) runPostStage(ctx context.Context, posting []*database.ItemRecord, result *Result) error {
	if len(posting) == 0 {
		return nil
	}
	slog.Info("Posting links", "series", e.series.Table,
		"subreddit", e.series.Subreddit, "count", len(posting))

	for _, record := range posting {
		if StageOf(record) == StageDiscovered {
			// Defensive: classification should never send these here.
			slog.Warn("Skipping item without hosted media",
				"series", e.series.Table, "status_id", record.StatusID)
			continue
		}

		if record.PostRef == "" {
			postRef, err := e.poster.Submit(ctx, e.series.Subreddit,
				buildPostTitle(record), record.DirectLink)
			if err != nil {
				slog.Error("Link post failed, leaving item post-pending",
					"series", e.series.Table, "status_id", record.StatusID, "error", err)
				continue
			}
			if err := e.items.SetPostRef(e.series.Table, record.StatusID, postRef); err != nil {
				return err
			}
			record.PostRef = postRef
			result.Posts = append(result.Posts, postRef)
			slog.Info("Posted link", "series", e.series.Table,
				"status_id", record.StatusID, "post", postRef)
		}

		if record.CommentRef == "" {
			commentRef, err := e.poster.Comment(ctx, record.PostRef, buildCommentBody(record))
			if err != nil {
				slog.Error("Comment failed, will retry on next invocation",
					"series", e.series.Table, "status_id", record.StatusID, "error", err)
				continue
			}
			if err := e.items.SetCommentRef(e.series.Table, record.StatusID, commentRef); err != nil {
				return err
			}
			record.CommentRef = commentRef
		}
	}

	return nil
}
