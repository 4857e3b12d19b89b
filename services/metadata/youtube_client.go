package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const youtubeBaseURL = "https://www.googleapis.com/youtube/v3"

const youtubeMaxResults = "25"

type youtubeClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

func newYouTubeClient(apiKey string, httpc *http.Client) *youtubeClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &youtubeClient{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: youtubeBaseURL,
		httpc:   httpc,
	}
}

func (c *youtubeClient) isConfigured() bool {
	return c != nil && c.apiKey != ""
}

// doGET performs a GET and decodes the JSON response into v. Failures are
// not retried; upstream errors propagate to the HTTP layer.
func (c *youtubeClient) doGET(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("youtube request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("youtube request failed: %s", apiErr.Error.Message)
		}
		return fmt.Errorf("youtube request failed: %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

type youtubeThumbnails struct {
	High    struct{ URL string } `json:"high"`
	Medium  struct{ URL string } `json:"medium"`
	Default struct{ URL string } `json:"default"`
}

func (t youtubeThumbnails) best() string {
	switch {
	case t.High.URL != "":
		return t.High.URL
	case t.Medium.URL != "":
		return t.Medium.URL
	default:
		return t.Default.URL
	}
}

type youtubeSearchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Thumbnails  youtubeThumbnails `json:"thumbnails"`
	} `json:"snippet"`
}

type youtubeSearchResponse struct {
	Items []youtubeSearchItem `json:"items"`
}

// search runs a video search against the Data API.
func (c *youtubeClient) search(ctx context.Context, query string) ([]youtubeSearchItem, error) {
	if !c.isConfigured() {
		return nil, errors.New("youtube api key not configured")
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("maxResults", youtubeMaxResults)
	q.Set("q", query)

	var resp youtubeSearchResponse
	if err := c.doGET(ctx, c.baseURL+"/search?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// related returns videos related to the given video ID.
func (c *youtubeClient) related(ctx context.Context, videoID string) ([]youtubeSearchItem, error) {
	if !c.isConfigured() {
		return nil, errors.New("youtube api key not configured")
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("maxResults", youtubeMaxResults)
	q.Set("relatedToVideoId", videoID)

	var resp youtubeSearchResponse
	if err := c.doGET(ctx, c.baseURL+"/search?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

type youtubeVideoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Thumbnails  youtubeThumbnails `json:"thumbnails"`
	} `json:"snippet"`
}

type youtubeVideosResponse struct {
	Items []youtubeVideoItem `json:"items"`
}

// videos fetches full records (untruncated descriptions) for the given IDs.
// Search snippets truncate descriptions, which breaks chapter parsing.
func (c *youtubeClient) videos(ctx context.Context, ids []string) ([]youtubeVideoItem, error) {
	if !c.isConfigured() {
		return nil, errors.New("youtube api key not configured")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("part", "snippet")
	q.Set("id", strings.Join(ids, ","))

	var resp youtubeVideosResponse
	if err := c.doGET(ctx, c.baseURL+"/videos?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
