package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"streamerverse/models"
)

// HistoryRepository persists per-user watch history. There is at most one
// row per (user_id, video_id); progress updates overwrite it in place.
type HistoryRepository struct {
	conn *sql.DB
}

// NewHistoryRepository creates a repository over the shared connection.
func NewHistoryRepository(conn *sql.DB) *HistoryRepository {
	return &HistoryRepository{conn: conn}
}

// Upsert creates or replaces the history entry for (item.UserID, item.VideoID).
func (r *HistoryRepository) Upsert(item models.WatchHistoryItem) error {
	data, err := json.Marshal(item.Video)
	if err != nil {
		return fmt.Errorf("encode video snapshot: %w", err)
	}

	return withWriteRetry(func() error {
		_, err := r.conn.Exec(
			`INSERT INTO watch_history (user_id, video_id, video_data, watched_at, last_position, duration, is_completed)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (user_id, video_id) DO UPDATE SET
			   video_data = excluded.video_data,
			   watched_at = excluded.watched_at,
			   last_position = excluded.last_position,
			   duration = excluded.duration,
			   is_completed = excluded.is_completed`,
			item.UserID, item.VideoID, string(data), item.WatchedAt,
			item.LastPosition, item.Duration, item.IsCompleted,
		)
		return err
	})
}

// Get returns the entry for (userID, videoID), or nil when none exists.
func (r *HistoryRepository) Get(userID int64, videoID string) (*models.WatchHistoryItem, error) {
	row := r.conn.QueryRow(
		`SELECT video_id, video_data, watched_at, last_position, duration, is_completed
		 FROM watch_history WHERE user_id = ? AND video_id = ?`,
		userID, videoID,
	)

	item := models.WatchHistoryItem{UserID: userID}
	var data string
	err := row.Scan(&item.VideoID, &data, &item.WatchedAt, &item.LastPosition, &item.Duration, &item.IsCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan history entry: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &item.Video); err != nil {
		return nil, fmt.Errorf("decode video snapshot: %w", err)
	}
	return &item, nil
}

// UpdateProgress overwrites position, completion and watchedAt on an
// existing entry, reporting whether one existed.
func (r *HistoryRepository) UpdateProgress(item models.WatchHistoryItem) (bool, error) {
	var affected int64
	err := withWriteRetry(func() error {
		res, err := r.conn.Exec(
			`UPDATE watch_history
			 SET last_position = ?, is_completed = ?, watched_at = ?
			 WHERE user_id = ? AND video_id = ?`,
			item.LastPosition, item.IsCompleted, item.WatchedAt,
			item.UserID, item.VideoID,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("update progress: %w", err)
	}
	return affected > 0, nil
}

// List returns up to limit entries for the user ordered by watchedAt
// descending. When onlyIncomplete is set, completed entries are filtered
// out.
func (r *HistoryRepository) List(userID int64, limit int, onlyIncomplete bool) ([]models.WatchHistoryItem, error) {
	query := `SELECT video_id, video_data, watched_at, last_position, duration, is_completed
		 FROM watch_history WHERE user_id = ?`
	if onlyIncomplete {
		query += ` AND is_completed = 0`
	}
	query += ` ORDER BY watched_at DESC, id DESC LIMIT ?`

	rows, err := r.conn.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	items := make([]models.WatchHistoryItem, 0)
	for rows.Next() {
		item := models.WatchHistoryItem{UserID: userID}
		var data string
		if err := rows.Scan(&item.VideoID, &data, &item.WatchedAt, &item.LastPosition, &item.Duration, &item.IsCompleted); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &item.Video); err != nil {
			return nil, fmt.Errorf("decode video snapshot: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
