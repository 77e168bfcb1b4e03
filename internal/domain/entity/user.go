package entity

import "time"

// User is a chat that has interacted with the bot at least once.
type User struct {
	ChatID    int64
	Username  string
	FirstSeen time.Time
}
