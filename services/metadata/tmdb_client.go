package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	tmdbBaseURL      = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p"
	// w500 is plenty for poster cards; "original" wastes bandwidth.
	tmdbPosterSize = "w500"
)

type tmdbClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client

	// Rate limiting
	throttleMu  sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

func newTMDBClient(apiKey string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &tmdbClient{
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     tmdbBaseURL,
		httpc:       httpc,
		minInterval: 20 * time.Millisecond, // TMDB has generous rate limits
	}
}

func (c *tmdbClient) isConfigured() bool {
	return c != nil && c.apiKey != ""
}

// doGET performs a rate-limited GET and decodes the JSON response into v.
// Failures are not retried; upstream errors propagate to the HTTP layer.
func (c *tmdbClient) doGET(ctx context.Context, endpoint string, v any) error {
	c.throttleMu.Lock()
	since := time.Since(c.lastRequest)
	if since < c.minInterval {
		time.Sleep(c.minInterval - since)
	}
	c.lastRequest = time.Now()
	c.throttleMu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			StatusMessage string `json:"status_message"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.StatusMessage != "" {
			return fmt.Errorf("tmdb request failed: %s", apiErr.StatusMessage)
		}
		return fmt.Errorf("tmdb request failed: %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *tmdbClient) endpoint(parts ...string) string {
	return c.baseURL + "/" + strings.Join(parts, "/")
}

type tmdbSearchResult struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type"` // movie | tv | person
	Title        string  `json:"title"`      // movies
	Name         string  `json:"name"`       // tv
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
}

func (r tmdbSearchResult) displayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

func (r tmdbSearchResult) airDate() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

type tmdbSearchResponse struct {
	Results []tmdbSearchResult `json:"results"`
}

// searchMulti searches movies and TV shows in one call. Person results are
// filtered out by the caller.
func (c *tmdbClient) searchMulti(ctx context.Context, query string) ([]tmdbSearchResult, error) {
	if !c.isConfigured() {
		return nil, errors.New("tmdb api key not configured")
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", query)
	q.Set("include_adult", "false")

	var resp tmdbSearchResponse
	if err := c.doGET(ctx, c.endpoint("search", "multi")+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	results := resp.Results[:0]
	for _, r := range resp.Results {
		if r.MediaType == "movie" || r.MediaType == "tv" {
			results = append(results, r)
		}
	}
	return results, nil
}

type tmdbExternalIDsResponse struct {
	IMDBID string `json:"imdb_id"`
}

// externalIMDBID resolves a TMDB ID to its IMDB ID, or "" when TMDB has no
// mapping.
func (c *tmdbClient) externalIMDBID(ctx context.Context, mediaType string, tmdbID int64) (string, error) {
	if !c.isConfigured() {
		return "", errors.New("tmdb api key not configured")
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)

	var resp tmdbExternalIDsResponse
	endpoint := c.endpoint(mediaType, fmt.Sprintf("%d", tmdbID), "external_ids") + "?" + q.Encode()
	if err := c.doGET(ctx, endpoint, &resp); err != nil {
		return "", err
	}
	return resp.IMDBID, nil
}

func (c *tmdbClient) posterURL(path string) string {
	if path == "" {
		return ""
	}
	return tmdbImageBaseURL + "/" + tmdbPosterSize + path
}
