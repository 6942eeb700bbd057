package entity

import "time"

// Post is a short status update. Timestamp is set once at creation.
type Post struct {
	ID        int64
	Body      string
	Timestamp time.Time
	Language  string
	UserID    int64

	// Author is populated by queries that join users; nil otherwise.
	Author *User
}
