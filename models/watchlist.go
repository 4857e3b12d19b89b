package models

import "time"

// WatchlistItem represents a video saved by a user for later viewing.
// The embedded Video is a snapshot taken at add time, not a live reference.
type WatchlistItem struct {
	UserID  int64     `json:"-"`
	VideoID string    `json:"videoId"` // = Video.SourceID
	Video   Video     `json:"video"`
	AddedAt time.Time `json:"addedAt"`
}
