// Package metadata adapts the external content providers (YouTube Data
// API, TMDB, VidSrc) into the unified Video shape served by the API.
package metadata

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"streamerverse/models"
	"streamerverse/services/cache"
	"streamerverse/utils"
)

var (
	ErrQueryRequired   = errors.New("query is required")
	ErrVideoIDRequired = errors.New("video id is required")
	ErrUnknownListKind = errors.New("unknown list kind")
)

// List kinds accepted by Latest.
const (
	ListMovies   = "movies"
	ListShows    = "shows"
	ListEpisodes = "episodes"
)

// externalIDWorkers bounds the concurrent TMDB external-ids lookups used to
// resolve a search page to IMDB IDs (one call per result).
const externalIDWorkers = 4

// Service aggregates provider search and listing behind a shared TTL cache
// so repeated queries within the cache window never hit the upstream APIs.
type Service struct {
	youtube *youtubeClient
	tmdb    *tmdbClient
	vidsrc  *vidsrcClient
	domain  string

	results   *cache.Cache[[]models.Video]
	searchTTL time.Duration
}

// NewService creates a metadata service. searchTTL bounds how long search
// and listing results are memoized.
func NewService(youtubeAPIKey, tmdbAPIKey, vidsrcDomain string, searchTTL time.Duration) *Service {
	return &Service{
		youtube:   newYouTubeClient(youtubeAPIKey, &http.Client{Timeout: 15 * time.Second}),
		tmdb:      newTMDBClient(tmdbAPIKey, &http.Client{Timeout: 15 * time.Second}),
		vidsrc:    newVidSrcClient(vidsrcDomain, &http.Client{Timeout: 15 * time.Second}),
		domain:    strings.TrimSpace(vidsrcDomain),
		results:   cache.New[[]models.Video](),
		searchTTL: searchTTL,
	}
}

// SearchYouTube searches YouTube and returns unified videos with chapter
// markers parsed from their descriptions. Results are cached per query.
func (s *Service) SearchYouTube(ctx context.Context, query string) ([]models.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}

	key := "search:" + models.SourceYouTube + ":" + query
	if cached, ok := s.results.Get(key); ok {
		return cached, nil
	}

	items, err := s.youtube.search(ctx, query)
	if err != nil {
		return nil, err
	}

	// Search snippets truncate descriptions; fetch the full records so
	// chapter parsing sees the whole text.
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	full, err := s.youtube.videos(ctx, ids)
	if err != nil {
		return nil, err
	}
	descriptions := make(map[string]string, len(full))
	for _, item := range full {
		descriptions[item.ID] = item.Snippet.Description
	}

	videos := make([]models.Video, 0, len(items))
	for _, item := range items {
		if item.ID.VideoID == "" {
			continue
		}
		description := item.Snippet.Description
		if d, ok := descriptions[item.ID.VideoID]; ok {
			description = d
		}
		videos = append(videos, models.Video{
			SourceID:    item.ID.VideoID,
			Source:      models.SourceYouTube,
			Title:       item.Snippet.Title,
			Description: description,
			Thumbnail:   item.Snippet.Thumbnails.best(),
			Chapters:    utils.ParseChapters(description),
		})
	}

	s.results.Set(key, videos, s.searchTTL)
	return videos, nil
}

// SearchVidSrc searches TMDB and maps results onto VidSrc embeds. Records
// TMDB cannot resolve to an IMDB ID are excluded rather than failing the
// search.
func (s *Service) SearchVidSrc(ctx context.Context, query string) ([]models.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}

	key := "search:" + models.SourceVidSrc + ":" + query
	if cached, ok := s.results.Get(key); ok {
		return cached, nil
	}

	results, err := s.tmdb.searchMulti(ctx, query)
	if err != nil {
		return nil, err
	}

	// One external-ids call per result; fan out with a bounded pool.
	imdbIDs := make([]string, len(results))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(externalIDWorkers)
	for i, r := range results {
		p.Go(func(ctx context.Context) error {
			id, err := s.tmdb.externalIMDBID(ctx, r.MediaType, r.ID)
			if err != nil {
				return err
			}
			imdbIDs[i] = id
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	videos := make([]models.Video, 0, len(results))
	for i, r := range results {
		imdbID := imdbIDs[i]
		if imdbID == "" {
			continue
		}
		videos = append(videos, s.tmdbToVideo(r, imdbID))
	}

	s.results.Set(key, videos, s.searchTTL)
	return videos, nil
}

func (s *Service) tmdbToVideo(r tmdbSearchResult, imdbID string) models.Video {
	meta := models.VideoMetadata{
		ImdbID:  imdbID,
		Rating:  r.VoteAverage,
		AirDate: r.airDate(),
	}
	if r.MediaType == "movie" {
		meta.Type = models.MediaTypeMovie
		meta.EmbedURL = EmbedMovieURL(s.domain, imdbID)
	} else {
		meta.Type = models.MediaTypeTV
		meta.EmbedURL = EmbedShowURL(s.domain, imdbID)
	}

	return models.Video{
		SourceID:    imdbID,
		Source:      models.SourceVidSrc,
		Title:       r.displayTitle(),
		Description: r.Overview,
		Thumbnail:   s.tmdb.posterURL(r.PosterPath),
		Metadata:    meta,
	}
}

// Latest returns VidSrc's most recently added movies, shows or episodes.
func (s *Service) Latest(ctx context.Context, kind string) ([]models.Video, error) {
	var feed string
	switch kind {
	case ListMovies:
		feed = "movies"
	case ListShows:
		feed = "tvshows"
	case ListEpisodes:
		feed = "episodes"
	default:
		return nil, ErrUnknownListKind
	}

	key := "latest:" + models.SourceVidSrc + ":" + kind
	if cached, ok := s.results.Get(key); ok {
		return cached, nil
	}

	items, err := s.vidsrc.latest(ctx, feed, 1)
	if err != nil {
		return nil, err
	}

	videos := make([]models.Video, 0, len(items))
	for _, item := range items {
		if item.ImdbID == "" {
			continue
		}
		videos = append(videos, s.feedToVideo(kind, item))
	}

	s.results.Set(key, videos, s.searchTTL)
	return videos, nil
}

func (s *Service) feedToVideo(kind string, item vidsrcFeedItem) models.Video {
	video := models.Video{
		SourceID: item.ImdbID,
		Source:   models.SourceVidSrc,
		Title:    item.Title,
		Metadata: models.VideoMetadata{ImdbID: item.ImdbID},
	}

	switch kind {
	case ListMovies:
		video.Metadata.Type = models.MediaTypeMovie
		video.Metadata.EmbedURL = EmbedMovieURL(s.domain, item.ImdbID)
	case ListShows:
		video.Metadata.Type = models.MediaTypeTV
		video.Metadata.EmbedURL = EmbedShowURL(s.domain, item.ImdbID)
	case ListEpisodes:
		season, episode := item.Season, item.Episode
		if season == 0 || episode == 0 {
			// Some feed entries only carry the numbering inside the title.
			if ps, pe, ok := utils.ParseSeasonEpisode(item.Title); ok {
				season, episode = ps, pe
			}
		}
		video.Title = utils.EpisodeTitle(item.Title)
		video.Metadata.Type = models.MediaTypeTV
		video.Metadata.Season = season
		video.Metadata.Episode = episode
		if season > 0 && episode > 0 {
			video.Metadata.EmbedURL = EmbedEpisodeURL(s.domain, item.ImdbID, season, episode)
		} else {
			video.Metadata.EmbedURL = EmbedShowURL(s.domain, item.ImdbID)
		}
	}

	return video
}

// Recommendations returns videos related to a YouTube video.
func (s *Service) Recommendations(ctx context.Context, videoID string) ([]models.Video, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, ErrVideoIDRequired
	}

	key := "related:" + models.SourceYouTube + ":" + videoID
	if cached, ok := s.results.Get(key); ok {
		return cached, nil
	}

	items, err := s.youtube.related(ctx, videoID)
	if err != nil {
		return nil, err
	}

	videos := make([]models.Video, 0, len(items))
	for _, item := range items {
		if item.ID.VideoID == "" || item.ID.VideoID == videoID {
			continue
		}
		videos = append(videos, models.Video{
			SourceID:    item.ID.VideoID,
			Source:      models.SourceYouTube,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			Thumbnail:   item.Snippet.Thumbnails.best(),
		})
	}

	s.results.Set(key, videos, s.searchTTL)
	return videos, nil
}
