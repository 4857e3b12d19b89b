package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"streamerverse/handlers"
	"streamerverse/models"
	"streamerverse/services/metadata"
)

// fakeMetadataService satisfies the handler's view of the metadata service
// without any upstream calls.
type fakeMetadataService struct {
	videos []models.Video
	err    error

	lastQuery string
	lastKind  string
}

func (f *fakeMetadataService) SearchYouTube(_ context.Context, query string) ([]models.Video, error) {
	f.lastQuery = query
	return f.videos, f.err
}

func (f *fakeMetadataService) SearchVidSrc(_ context.Context, query string) ([]models.Video, error) {
	f.lastQuery = query
	return f.videos, f.err
}

func (f *fakeMetadataService) Latest(_ context.Context, kind string) ([]models.Video, error) {
	f.lastKind = kind
	return f.videos, f.err
}

func (f *fakeMetadataService) Recommendations(_ context.Context, videoID string) ([]models.Video, error) {
	f.lastQuery = videoID
	return f.videos, f.err
}

func TestSearchDefaultsToYouTube(t *testing.T) {
	fake := &fakeMetadataService{videos: []models.Video{{SourceID: "abc123", Source: models.SourceYouTube, Title: "Hit"}}}
	h := handlers.NewVideosHandler(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/videos/search?query=cats", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if fake.lastQuery != "cats" {
		t.Fatalf("expected query to pass through, got %q", fake.lastQuery)
	}

	var videos []models.Video
	if err := json.Unmarshal(rec.Body.Bytes(), &videos); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(videos) != 1 || videos[0].SourceID != "abc123" {
		t.Fatalf("unexpected videos: %+v", videos)
	}
}

func TestSearchRejectsUnknownSource(t *testing.T) {
	h := handlers.NewVideosHandler(&fakeMetadataService{})

	req := httptest.NewRequest(http.MethodGet, "/api/videos/search?query=cats&source=dailymotion", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSearchValidationErrorIs400(t *testing.T) {
	h := handlers.NewVideosHandler(&fakeMetadataService{err: metadata.ErrQueryRequired})

	req := httptest.NewRequest(http.MethodGet, "/api/videos/search", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProviderFailureIs502(t *testing.T) {
	h := handlers.NewVideosHandler(&fakeMetadataService{err: errors.New("tmdb request failed: 500 Internal Server Error")})

	req := httptest.NewRequest(http.MethodGet, "/api/videos/vidsrc/search?query=cats", nil)
	rec := httptest.NewRecorder()
	h.SearchVidSrc(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body["message"] == "" {
		t.Fatalf("expected error message in body")
	}
}

func TestLatestPassesKind(t *testing.T) {
	fake := &fakeMetadataService{}
	h := handlers.NewVideosHandler(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/videos/vidsrc/latest/episodes", nil)
	req = mux.SetURLVars(req, map[string]string{"type": "episodes"})
	rec := httptest.NewRecorder()
	h.Latest(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if fake.lastKind != "episodes" {
		t.Fatalf("expected kind episodes, got %q", fake.lastKind)
	}
}

func TestLatestUnknownKindIs400(t *testing.T) {
	h := handlers.NewVideosHandler(&fakeMetadataService{err: metadata.ErrUnknownListKind})

	req := httptest.NewRequest(http.MethodGet, "/api/videos/vidsrc/latest/documentaries", nil)
	req = mux.SetURLVars(req, map[string]string{"type": "documentaries"})
	rec := httptest.NewRecorder()
	h.Latest(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
