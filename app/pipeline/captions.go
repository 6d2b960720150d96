package pipeline

import (
	"fmt"

	"github.com/comicrelay/comicrelay/app/database"
)

const commentSignature = "^(I am a mirror bot. Replies here are not monitored; " +
	"reach the artist through the linked source status.)"

// buildPostTitle is the human-readable title for the destination post.
func buildPostTitle(record *database.ItemRecord) string {
	return fmt.Sprintf("#%d - %s", record.SeqNumber, record.BodyText)
}

// buildImageTitle names the hosted image inside the shared album.
func buildImageTitle(record *database.ItemRecord) string {
	return fmt.Sprintf("#%d - %s - @%s", record.SeqNumber, record.BodyText, record.AuthorHandle)
}

func buildImageDescription(record *database.ItemRecord) string {
	return fmt.Sprintf("%s (@%s)\n#%d - %s\n\nCreated: %s\t%s",
		record.DisplayName, record.AuthorHandle, record.SeqNumber,
		record.BodyText, record.PostedAt.Format("2006-01-02 15:04:05"),
		record.CanonicalURL)
}

// buildCommentBody attributes the source author under the posted link.
func buildCommentBody(record *database.ItemRecord) string {
	return fmt.Sprintf("%s (@%s)\n%s\n\n%s\n\n&nbsp;\n\n%s",
		record.DisplayName, record.AuthorHandle, record.BodyText,
		record.CanonicalURL, commentSignature)
}

func buildAlbumConfig(handle, title, description string) AlbumConfig {
	return AlbumConfig{
		Title:       fmt.Sprintf("@%s - %s", handle, title),
		Description: fmt.Sprintf("%s art by @%s - https://twitter.com/%s", description, handle, handle),
	}
}
