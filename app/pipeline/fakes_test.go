package pipeline

import (
	"context"
	"fmt"
)

type fakeFeed struct {
	statuses []Status
	err      error
	calls    int
}

func (f *fakeFeed) FetchRecent(ctx context.Context, handle string, limit int) ([]Status, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.statuses) > limit {
		return f.statuses[:limit], nil
	}
	return f.statuses, nil
}

type fakeMediaHost struct {
	createCalls int
	uploadCalls int
	failFor     map[string]bool // mediaURL -> fail
	failAll     bool
}

func (f *fakeMediaHost) EnsureAlbum(ctx context.Context, album Album, cfg AlbumConfig) (Album, error) {
	if album.DeleteHash != "" {
		return album, nil
	}
	f.createCalls++
	return Album{ID: "ALB", DeleteHash: "HASH"}, nil
}

func (f *fakeMediaHost) Upload(ctx context.Context, mediaURL string, cfg ImageConfig) (UploadResult, error) {
	f.uploadCalls++
	if f.failAll || f.failFor[mediaURL] {
		return UploadResult{}, fmt.Errorf("%w: boom", ErrUploadFailed)
	}
	id := fmt.Sprintf("M%d", f.uploadCalls)
	return UploadResult{
		ImageID:    id,
		DirectLink: fmt.Sprintf("https://i.imgur.com/%s.jpg", id),
	}, nil
}

type fakePoster struct {
	submitCalls  int
	commentCalls int
	failSubmit   bool
	failComment  bool
	titles       []string
	comments     []string
}

func (f *fakePoster) Submit(ctx context.Context, subreddit, title, url string) (string, error) {
	f.submitCalls++
	if f.failSubmit {
		return "", fmt.Errorf("%w: boom", ErrPostFailed)
	}
	f.titles = append(f.titles, title)
	return fmt.Sprintf("P%d", f.submitCalls), nil
}

func (f *fakePoster) Comment(ctx context.Context, postRef, body string) (string, error) {
	f.commentCalls++
	if f.failComment {
		return "", fmt.Errorf("%w: boom", ErrCommentFailed)
	}
	f.comments = append(f.comments, body)
	return fmt.Sprintf("C%d", f.commentCalls), nil
}
