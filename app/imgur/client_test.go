package imgur

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/comicrelay/comicrelay/app/pipeline"
)

func TestClient_EnsureAlbum_ExistingAlbumIsNoOp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("No request expected for an album that already exists")
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "cid", "token", "test-agent")

	album, err := client.EnsureAlbum(context.Background(), pipeline.Album{ID: "A1", DeleteHash: "hash"}, pipeline.AlbumConfig{})
	if err != nil {
		t.Fatalf("EnsureAlbum failed: %v", err)
	}
	if album.ID != "A1" || album.DeleteHash != "hash" {
		t.Errorf("Album changed: %+v", album)
	}
}

func TestClient_EnsureAlbum_CreatesHiddenAlbum(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/album" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("Unexpected auth header: %q", got)
		}
		r.ParseForm()
		if r.Form.Get("privacy") != "hidden" {
			t.Errorf("Album should be hidden, got %q", r.Form.Get("privacy"))
		}
		if r.Form.Get("title") != "@artist - My Comic" {
			t.Errorf("Unexpected title: %q", r.Form.Get("title"))
		}
		w.Write([]byte(`{"data":{"id":"A1","deletehash":"hash1"},"success":true,"status":200}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "cid", "token", "test-agent")

	album, err := client.EnsureAlbum(context.Background(), pipeline.Album{},
		pipeline.AlbumConfig{Title: "@artist - My Comic", Description: "art"})
	if err != nil {
		t.Fatalf("EnsureAlbum failed: %v", err)
	}
	if album.ID != "A1" || album.DeleteHash != "hash1" {
		t.Errorf("Unexpected album: %+v", album)
	}
}

func TestClient_Upload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/upload" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		r.ParseForm()
		if r.Form.Get("type") != "url" {
			t.Errorf("Expected url upload, got %q", r.Form.Get("type"))
		}
		if r.Form.Get("image") != "https://pbs.twimg.com/media/abc.jpg?name=large" {
			t.Errorf("Unexpected image: %q", r.Form.Get("image"))
		}
		if r.Form.Get("album") != "hash1" {
			t.Errorf("Unexpected album: %q", r.Form.Get("album"))
		}
		w.Write([]byte(`{"data":{"id":"M1","link":"https://i.imgur.com/M1.jpeg"},"success":true,"status":200}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "cid", "token", "test-agent")

	result, err := client.Upload(context.Background(),
		"https://pbs.twimg.com/media/abc.jpg?name=large",
		pipeline.ImageConfig{Album: "hash1", Title: "#1 - page", Description: "desc"})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if result.ImageID != "M1" {
		t.Errorf("Unexpected image id: %q", result.ImageID)
	}
	if result.DirectLink != "https://i.imgur.com/M1.jpg" {
		t.Errorf("Unexpected direct link: %q", result.DirectLink)
	}
}

func TestClient_Upload_FailureCarriesClass(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"data":{"error":"bad token"},"success":false,"status":403}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "cid", "token", "test-agent")

	_, err := client.Upload(context.Background(), "https://example.com/a.jpg", pipeline.ImageConfig{})
	if err == nil {
		t.Fatal("Expected error for HTTP 403")
	}
	if !errors.Is(err, pipeline.ErrUploadFailed) {
		t.Errorf("Error should carry the upload-failed class: %v", err)
	}
}

func TestClient_AnonymousAuthFallsBackToClientID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Client-ID cid" {
			t.Errorf("Unexpected auth header: %q", got)
		}
		w.Write([]byte(`{"data":{"id":"M1"},"success":true,"status":200}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "cid", "", "test-agent")

	if _, err := client.Upload(context.Background(), "https://example.com/a.jpg", pipeline.ImageConfig{}); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
}
