package watchlist

import (
	"errors"
	"strings"
	"time"

	"streamerverse/internal/database"
	"streamerverse/models"
)

var (
	ErrUserIDRequired  = errors.New("user id is required")
	ErrVideoIDRequired = errors.New("video id is required")
)

// Service manages per-user watchlist entries. The stored video is a
// snapshot taken at add time; provider updates never propagate to it.
type Service struct {
	repo *database.WatchlistRepository
}

// NewService creates a watchlist service over the given repository.
func NewService(repo *database.WatchlistRepository) *Service {
	return &Service{repo: repo}
}

// Add stores the snapshot under (userID, videoID). Re-adding an existing
// entry replaces the snapshot and is not an error.
func (s *Service) Add(userID int64, videoID string, snapshot models.Video) (models.WatchlistItem, error) {
	if userID <= 0 {
		return models.WatchlistItem{}, ErrUserIDRequired
	}
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return models.WatchlistItem{}, ErrVideoIDRequired
	}

	snapshot.SourceID = videoID
	item := models.WatchlistItem{
		UserID:  userID,
		VideoID: videoID,
		Video:   snapshot,
		AddedAt: time.Now().UTC(),
	}

	if err := s.repo.Upsert(userID, videoID, snapshot, item.AddedAt); err != nil {
		return models.WatchlistItem{}, err
	}

	return item, nil
}

// Remove deletes the entry if present; removing an absent entry is a no-op.
func (s *Service) Remove(userID int64, videoID string) (bool, error) {
	if userID <= 0 {
		return false, ErrUserIDRequired
	}
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return false, ErrVideoIDRequired
	}

	return s.repo.Delete(userID, videoID)
}

// List returns all snapshots for the user, most recently added first.
// Unknown users read as empty.
func (s *Service) List(userID int64) ([]models.WatchlistItem, error) {
	if userID <= 0 {
		return nil, ErrUserIDRequired
	}
	return s.repo.List(userID)
}

// Contains reports whether the user has the video on their watchlist.
func (s *Service) Contains(userID int64, videoID string) (bool, error) {
	if userID <= 0 {
		return false, ErrUserIDRequired
	}
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return false, ErrVideoIDRequired
	}
	return s.repo.Exists(userID, videoID)
}
