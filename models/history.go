package models

import "time"

// WatchHistoryItem tracks a user's playback state for a single video.
// There is at most one live entry per (userId, videoId); progress updates
// overwrite lastPosition, isCompleted and watchedAt in place.
type WatchHistoryItem struct {
	UserID       int64     `json:"-"`
	VideoID      string    `json:"videoId"` // = Video.SourceID
	Video        Video     `json:"video"`
	LastPosition float64   `json:"lastPosition"` // seconds
	Duration     float64   `json:"duration"`     // seconds
	IsCompleted  bool      `json:"isCompleted"`
	WatchedAt    time.Time `json:"watchedAt"`
}

// ProgressUpdate captures a playback heartbeat from the client.
type ProgressUpdate struct {
	Position    float64 `json:"position"`
	IsCompleted *bool   `json:"isCompleted,omitempty"`
}
