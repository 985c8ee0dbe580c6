package interfaces

import "time"

// PresenceStore records whether a user currently holds a live connection.
type PresenceStore interface {
	SetUserOnlineStatus(userID uint, isOnline bool) (bool, *time.Time, error)
}
