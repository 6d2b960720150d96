package pipeline

import (
	"github.com/comicrelay/comicrelay/app/database"
)

// Stage is an item's position in the pipeline, derived from the
// persisted record. Keeping the derivation in one place stops the
// nullable-field checks from drifting apart between classification and
// the stages.
type Stage int

const (
	StageDiscovered Stage = iota
	StageMediaDone
	StagePostDone
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageDiscovered:
		return "discovered"
	case StageMediaDone:
		return "media_done"
	case StagePostDone:
		return "post_done"
	case StageComplete:
		return "complete"
	}
	return "unknown"
}

// StageOf derives the stage from a record's stage fields.
func StageOf(record *database.ItemRecord) Stage {
	switch {
	case record.ImageID == "":
		return StageDiscovered
	case record.PostRef == "":
		return StageMediaDone
	case record.CommentRef == "":
		return StagePostDone
	default:
		return StageComplete
	}
}
