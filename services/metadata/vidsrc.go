package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// EmbedMovieURL builds the VidSrc player URL for a movie.
func EmbedMovieURL(domain, imdbID string) string {
	return fmt.Sprintf("https://%s/embed/movie/%s", domain, imdbID)
}

// EmbedShowURL builds the VidSrc player URL for a show (episode picker).
func EmbedShowURL(domain, imdbID string) string {
	return fmt.Sprintf("https://%s/embed/tv/%s", domain, imdbID)
}

// EmbedEpisodeURL builds the VidSrc player URL for a single episode.
func EmbedEpisodeURL(domain, imdbID string, season, episode int) string {
	return fmt.Sprintf("https://%s/embed/tv/%s/%d-%d", domain, imdbID, season, episode)
}

// vidsrcClient reads VidSrc's public latest-content feeds. Playback itself
// happens through the embed URLs; the feeds only list what is available.
type vidsrcClient struct {
	domain  string
	baseURL string
	httpc   *http.Client
}

func newVidSrcClient(domain string, httpc *http.Client) *vidsrcClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	domain = strings.TrimSpace(domain)
	return &vidsrcClient{
		domain:  domain,
		baseURL: "https://" + domain,
		httpc:   httpc,
	}
}

type vidsrcFeedItem struct {
	ImdbID   string `json:"imdb_id"`
	TmdbID   string `json:"tmdb_id"`
	Title    string `json:"title"`
	Quality  string `json:"quality"`
	Season   int    `json:"season,omitempty"`
	Episode  int    `json:"episode,omitempty"`
	EmbedURL string `json:"embed_url"`
}

type vidsrcFeedResponse struct {
	Result []vidsrcFeedItem `json:"result"`
}

// latest fetches one page of a latest-content feed. kind is the feed path
// segment: "movies", "tvshows" or "episodes".
func (c *vidsrcClient) latest(ctx context.Context, kind string, page int) ([]vidsrcFeedItem, error) {
	endpoint := fmt.Sprintf("%s/%s/latest/page-%d.json", c.baseURL, kind, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vidsrc request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("vidsrc request failed: %s", resp.Status)
	}

	var feed vidsrcFeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode vidsrc feed: %w", err)
	}
	return feed.Result, nil
}
