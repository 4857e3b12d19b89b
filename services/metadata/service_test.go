package metadata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"streamerverse/models"
)

func newTestService() *Service {
	return NewService("yt-key", "tmdb-key", "vidsrc.xyz", 5*time.Minute)
}

func TestEmbedURLs(t *testing.T) {
	if got := EmbedMovieURL("vidsrc.xyz", "tt0903747"); got != "https://vidsrc.xyz/embed/movie/tt0903747" {
		t.Fatalf("unexpected movie embed URL: %s", got)
	}
	if got := EmbedShowURL("vidsrc.xyz", "tt0944947"); got != "https://vidsrc.xyz/embed/tv/tt0944947" {
		t.Fatalf("unexpected show embed URL: %s", got)
	}
	if got := EmbedEpisodeURL("vidsrc.xyz", "tt0944947", 1, 1); got != "https://vidsrc.xyz/embed/tv/tt0944947/1-1" {
		t.Fatalf("unexpected episode embed URL: %s", got)
	}
}

func TestSearchValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.SearchYouTube(ctx, "  "); err != ErrQueryRequired {
		t.Fatalf("expected ErrQueryRequired, got %v", err)
	}
	if _, err := svc.SearchVidSrc(ctx, ""); err != ErrQueryRequired {
		t.Fatalf("expected ErrQueryRequired, got %v", err)
	}
	if _, err := svc.Recommendations(ctx, ""); err != ErrVideoIDRequired {
		t.Fatalf("expected ErrVideoIDRequired, got %v", err)
	}
	if _, err := svc.Latest(ctx, "documentaries"); err != ErrUnknownListKind {
		t.Fatalf("expected ErrUnknownListKind, got %v", err)
	}
}

func TestSearchYouTube(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch {
		case strings.HasPrefix(r.URL.Path, "/search"):
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{
						"id": map[string]any{"videoId": "abc123"},
						"snippet": map[string]any{
							"title":       "Building a Shed",
							"description": "truncated...",
							"thumbnails": map[string]any{
								"high": map[string]any{"url": "https://i.ytimg.com/vi/abc123/hq.jpg"},
							},
						},
					},
					// Channel results carry no videoId and must be skipped.
					{"id": map[string]any{}, "snippet": map[string]any{"title": "Some Channel"}},
				},
			})
		case strings.HasPrefix(r.URL.Path, "/videos"):
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{
						"id": "abc123",
						"snippet": map[string]any{
							"title":       "Building a Shed",
							"description": "Watch me build.\n0:00 Intro\n3:00 Framing\n9:30 Roof",
						},
					},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := newTestService()
	svc.youtube.baseURL = srv.URL

	videos, err := svc.SearchYouTube(context.Background(), "shed build")
	if err != nil {
		t.Fatalf("SearchYouTube failed: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected 1 video, got %d", len(videos))
	}

	v := videos[0]
	if v.SourceID != "abc123" || v.Source != models.SourceYouTube {
		t.Fatalf("unexpected video identity: %+v", v)
	}
	if v.Thumbnail != "https://i.ytimg.com/vi/abc123/hq.jpg" {
		t.Fatalf("unexpected thumbnail: %s", v.Thumbnail)
	}
	if !strings.Contains(v.Description, "Framing") {
		t.Fatalf("expected full description, got %q", v.Description)
	}
	if len(v.Chapters) != 3 || v.Chapters[1].Title != "Framing" {
		t.Fatalf("unexpected chapters: %+v", v.Chapters)
	}

	// A repeat query within the TTL is served from cache.
	before := calls.Load()
	if _, err := svc.SearchYouTube(context.Background(), "shed build"); err != nil {
		t.Fatalf("cached SearchYouTube failed: %v", err)
	}
	if calls.Load() != before {
		t.Fatalf("expected cached result, but upstream was called again")
	}
}

func TestSearchVidSrc(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/search/multi"):
			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{"id": 1396, "media_type": "tv", "name": "Breaking Bad", "poster_path": "/bb.jpg", "vote_average": 8.9, "first_air_date": "2008-01-20"},
					{"id": 603, "media_type": "movie", "title": "The Matrix", "release_date": "1999-03-31"},
					{"id": 999, "media_type": "movie", "title": "Unmapped"},
					{"id": 500, "media_type": "person", "name": "Some Actor"},
				},
			})
		case r.URL.Path == "/tv/1396/external_ids":
			json.NewEncoder(w).Encode(map[string]any{"imdb_id": "tt0903747"})
		case r.URL.Path == "/movie/603/external_ids":
			json.NewEncoder(w).Encode(map[string]any{"imdb_id": "tt0133093"})
		case r.URL.Path == "/movie/999/external_ids":
			json.NewEncoder(w).Encode(map[string]any{"imdb_id": ""})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := newTestService()
	svc.tmdb.baseURL = srv.URL

	videos, err := svc.SearchVidSrc(context.Background(), "test")
	if err != nil {
		t.Fatalf("SearchVidSrc failed: %v", err)
	}
	// The person result and the record without an IMDB mapping are excluded.
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d: %+v", len(videos), videos)
	}

	show := videos[0]
	if show.SourceID != "tt0903747" || show.Title != "Breaking Bad" {
		t.Fatalf("unexpected show: %+v", show)
	}
	if show.Metadata.Type != models.MediaTypeTV {
		t.Fatalf("expected tv type, got %q", show.Metadata.Type)
	}
	if show.Metadata.EmbedURL != "https://vidsrc.xyz/embed/tv/tt0903747" {
		t.Fatalf("unexpected show embed URL: %s", show.Metadata.EmbedURL)
	}
	if !strings.HasSuffix(show.Thumbnail, "/w500/bb.jpg") {
		t.Fatalf("unexpected poster URL: %s", show.Thumbnail)
	}

	movie := videos[1]
	if movie.Metadata.EmbedURL != "https://vidsrc.xyz/embed/movie/tt0133093" {
		t.Fatalf("unexpected movie embed URL: %s", movie.Metadata.EmbedURL)
	}
	if movie.Metadata.AirDate != "1999-03-31" {
		t.Fatalf("unexpected air date: %s", movie.Metadata.AirDate)
	}
}

func TestLatestEpisodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/episodes/latest/page-1.json" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{"imdb_id": "tt0944947", "title": "Game of Thrones - Season 1 Episode 1 - Winter Is Coming", "season": 1, "episode": 1},
				{"imdb_id": "tt0903747", "title": "Breaking Bad - S02E03 - Bit by a Dead Bee"},
				{"imdb_id": "", "title": "No IMDB mapping"},
			},
		})
	}))
	defer srv.Close()

	svc := newTestService()
	svc.vidsrc.baseURL = srv.URL

	videos, err := svc.Latest(context.Background(), ListEpisodes)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}

	got := videos[0]
	if got.Title != "Winter Is Coming" {
		t.Fatalf("unexpected cleaned title: %q", got.Title)
	}
	if got.Metadata.EmbedURL != "https://vidsrc.xyz/embed/tv/tt0944947/1-1" {
		t.Fatalf("unexpected episode embed URL: %s", got.Metadata.EmbedURL)
	}

	// Season/episode recovered from the title when the feed omits them.
	parsed := videos[1]
	if parsed.Metadata.Season != 2 || parsed.Metadata.Episode != 3 {
		t.Fatalf("expected S2E3 from title, got S%dE%d", parsed.Metadata.Season, parsed.Metadata.Episode)
	}
	if parsed.Metadata.EmbedURL != "https://vidsrc.xyz/embed/tv/tt0903747/2-3" {
		t.Fatalf("unexpected recovered embed URL: %s", parsed.Metadata.EmbedURL)
	}
}

func TestLatestMovies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movies/latest/page-1.json" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{"imdb_id": "tt0133093", "title": "The Matrix", "quality": "HD"},
			},
		})
	}))
	defer srv.Close()

	svc := newTestService()
	svc.vidsrc.baseURL = srv.URL

	videos, err := svc.Latest(context.Background(), ListMovies)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected 1 video, got %d", len(videos))
	}
	if videos[0].Metadata.EmbedURL != "https://vidsrc.xyz/embed/movie/tt0133093" {
		t.Fatalf("unexpected movie embed URL: %s", videos[0].Metadata.EmbedURL)
	}
	if videos[0].Metadata.Type != models.MediaTypeMovie {
		t.Fatalf("unexpected type: %s", videos[0].Metadata.Type)
	}
}

func TestRecommendationsExcludesSelf(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": map[string]any{"videoId": "abc123"}, "snippet": map[string]any{"title": "The video itself"}},
				{"id": map[string]any{"videoId": "xyz789"}, "snippet": map[string]any{"title": "A related video"}},
			},
		})
	}))
	defer srv.Close()

	svc := newTestService()
	svc.youtube.baseURL = srv.URL

	videos, err := svc.Recommendations(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Recommendations failed: %v", err)
	}
	if len(videos) != 1 || videos[0].SourceID != "xyz789" {
		t.Fatalf("unexpected recommendations: %+v", videos)
	}
}

func TestProviderErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "quota exceeded"},
		})
	}))
	defer srv.Close()

	svc := newTestService()
	svc.youtube.baseURL = srv.URL

	_, err := svc.SearchYouTube(context.Background(), "anything")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected upstream error message, got %v", err)
	}
}
