package models

// Video sources supported by the aggregator.
const (
	SourceYouTube = "youtube"
	SourceVidSrc  = "vidsrc"
)

// Media types carried in VideoMetadata.
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// Chapter marks a named offset inside a video, parsed from provider data.
type Chapter struct {
	Timestamp   float64 `json:"timestamp"` // seconds from start
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
}

// VideoMetadata holds provider-specific fields for a video. Fields are
// optional and validated at the adapter boundary rather than threaded
// through as an untyped map.
type VideoMetadata struct {
	ImdbID   string   `json:"imdbId,omitempty"`
	Type     string   `json:"type,omitempty"` // movie | tv
	Season   int      `json:"season,omitempty"`
	Episode  int      `json:"episode,omitempty"`
	EmbedURL string   `json:"embedUrl,omitempty"`
	Rating   float64  `json:"rating,omitempty"`
	AirDate  string   `json:"airDate,omitempty"`
	Cast     []string `json:"cast,omitempty"`
}

// Video is the unified content record shared by both providers.
// (source, sourceId) is the natural key; TV episodes share sourceId with
// their parent show and are distinguished by season/episode in metadata.
type Video struct {
	ID          int64         `json:"id,omitempty"` // surrogate key from the persistence layer
	SourceID    string        `json:"sourceId"`
	Source      string        `json:"source"` // youtube | vidsrc
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Thumbnail   string        `json:"thumbnail,omitempty"`
	Metadata    VideoMetadata `json:"metadata"`
	Chapters    []Chapter     `json:"chapters,omitempty"`
}

// Key returns the natural key for the video within its source.
func (v Video) Key() string {
	return v.Source + ":" + v.SourceID
}

// IsEpisode reports whether the video describes a single TV episode.
func (v Video) IsEpisode() bool {
	return v.Metadata.Type == MediaTypeTV && v.Metadata.Season > 0 && v.Metadata.Episode > 0
}
