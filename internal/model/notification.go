package model

import "time"

// Notification is a message shown to a provider when someone books
// an appointment with them. Read flips to true once the provider
// acknowledges it; marking an already-read notification again is a
// no-op.
type Notification struct {
	ID        uint64    // notifications.id
	Content   string    // notifications.content
	UserID    uint64    // notifications.user_id (the provider)
	Read      bool      // notifications.read
	CreatedAt time.Time // notifications.created_at
}
