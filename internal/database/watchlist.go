package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"streamerverse/models"
)

// WatchlistRepository persists per-user watchlist entries. The video
// snapshot is stored as a JSON blob alongside the natural key.
type WatchlistRepository struct {
	conn *sql.DB
}

// NewWatchlistRepository creates a repository over the shared connection.
func NewWatchlistRepository(conn *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{conn: conn}
}

// Upsert inserts an entry or, when (userID, videoID) already exists,
// replaces the stored snapshot while keeping the original addedAt.
func (r *WatchlistRepository) Upsert(userID int64, videoID string, snapshot models.Video, addedAt time.Time) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode video snapshot: %w", err)
	}

	return withWriteRetry(func() error {
		_, err := r.conn.Exec(
			`INSERT INTO watchlist (user_id, video_id, video_data, added_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (user_id, video_id) DO UPDATE SET video_data = excluded.video_data`,
			userID, videoID, string(data), addedAt,
		)
		return err
	})
}

// Delete removes an entry, reporting whether one existed.
func (r *WatchlistRepository) Delete(userID int64, videoID string) (bool, error) {
	var affected int64
	err := withWriteRetry(func() error {
		res, err := r.conn.Exec(
			`DELETE FROM watchlist WHERE user_id = ? AND video_id = ?`,
			userID, videoID,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete watchlist entry: %w", err)
	}
	return affected > 0, nil
}

// Exists reports whether the user has the video on their watchlist.
func (r *WatchlistRepository) Exists(userID int64, videoID string) (bool, error) {
	var n int64
	err := r.conn.QueryRow(
		`SELECT COUNT(*) FROM watchlist WHERE user_id = ? AND video_id = ?`,
		userID, videoID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check watchlist entry: %w", err)
	}
	return n > 0, nil
}

// List returns the user's entries, most recently added first.
func (r *WatchlistRepository) List(userID int64) ([]models.WatchlistItem, error) {
	rows, err := r.conn.Query(
		`SELECT video_id, video_data, added_at FROM watchlist
		 WHERE user_id = ? ORDER BY added_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	items := make([]models.WatchlistItem, 0)
	for rows.Next() {
		item := models.WatchlistItem{UserID: userID}
		var data string
		if err := rows.Scan(&item.VideoID, &data, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist entry: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &item.Video); err != nil {
			return nil, fmt.Errorf("decode video snapshot: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
