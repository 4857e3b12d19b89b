package models

import "time"

// User models a registered account able to hold watchlist and history data.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // bcrypt hash, never serialized
	CreatedAt    time.Time `json:"createdAt"`
}
