package history

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

// completionThreshold marks an entry completed once the playhead reaches
// this fraction of the duration.
const completionThreshold = 0.9

// Default limits applied when the caller passes limit <= 0.
const (
	DefaultHistoryLimit          = 20
	DefaultContinueWatchingLimit = 10
)

// Service tracks per-user watch history and derives the continue-watching
// set from it. Concurrent updates for the same entry are last-write-wins
// by arrival; best-effort progress tracking needs nothing stronger.
type Service struct {
	repo *database.HistoryRepository
	now  func() time.Time
}

// NewService creates a history service over the given repository.
func NewService(repo *database.HistoryRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Completed reports whether a playhead position completes a video of the
// given duration.
func Completed(position, duration float64) bool {
	return duration > 0 && position/duration >= completionThreshold
}

// RecordStart creates or replaces the history entry for (userID, videoID)
// from the first progress report of a playback session.
func (s *Service) RecordStart(userID int64, videoID string, snapshot models.Video, position, duration float64) (models.WatchHistoryItem, error) {
	if userID <= 0 {
		return models.WatchHistoryItem{}, ErrUserIDRequired
	}
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return models.WatchHistoryItem{}, ErrVideoIDRequired
	}

	snapshot.SourceID = videoID
	item := models.WatchHistoryItem{
		UserID:       userID,
		VideoID:      videoID,
		Video:        snapshot,
		LastPosition: position,
		Duration:     duration,
		IsCompleted:  Completed(position, duration),
		WatchedAt:    s.now().UTC(),
	}

	if err := s.repo.Upsert(item); err != nil {
		return models.WatchHistoryItem{}, err
	}

	return item, nil
}

// RecordProgress updates position and completion on an existing entry and
// refreshes watchedAt. When no entry exists for (userID, videoID) this is
// a no-op reporting found=false: the client is expected to have called
// RecordStart first.
func (s *Service) RecordProgress(userID int64, videoID string, update models.ProgressUpdate) (models.WatchHistoryItem, bool, error) {
	if userID <= 0 {
		return models.WatchHistoryItem{}, false, ErrUserIDRequired
	}
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return models.WatchHistoryItem{}, false, ErrVideoIDRequired
	}

	existing, err := s.repo.Get(userID, videoID)
	if err != nil {
		return models.WatchHistoryItem{}, false, err
	}
	if existing == nil {
		return models.WatchHistoryItem{}, false, nil
	}

	existing.LastPosition = update.Position
	if update.IsCompleted != nil {
		existing.IsCompleted = *update.IsCompleted
	} else {
		existing.IsCompleted = Completed(update.Position, existing.Duration)
	}
	existing.WatchedAt = s.now().UTC()

	found, err := s.repo.UpdateProgress(*existing)
	if err != nil {
		return models.WatchHistoryItem{}, false, err
	}

	return *existing, found, nil
}

// History returns the user's entries ordered by watchedAt descending,
// truncated to limit (default 20).
func (s *Service) History(userID int64, limit int) ([]models.WatchHistoryItem, error) {
	if userID <= 0 {
		return nil, ErrUserIDRequired
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.repo.List(userID, limit, false)
}

// ContinueWatching returns the user's unfinished entries, same ordering as
// History, truncated to limit (default 10).
func (s *Service) ContinueWatching(userID int64, limit int) ([]models.WatchHistoryItem, error) {
	if userID <= 0 {
		return nil, ErrUserIDRequired
	}
	if limit <= 0 {
		limit = DefaultContinueWatchingLimit
	}
	return s.repo.List(userID, limit, true)
}
