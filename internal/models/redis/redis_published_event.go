package models

import "encoding/json"

const (
	REDIS_CHANNEL_CHAT          = "chat_events"
	REDIS_CHANNEL_NOTIFICATIONS = "notifications"
)

// RedisPublishedEvent carries one push event across the pub/sub channel to
// whichever process holds the receiver's live connection.
type RedisPublishedEvent struct {
	Event      string          `json:"event"`
	ReceiverID uint            `json:"receiver_id"`
	Payload    json.RawMessage `json:"payload"`
}

// NotificationIntent is the fire-and-forget handoff to the notification
// consumer. Failures publishing it never fail the operation that raised it.
type NotificationIntent struct {
	UserID  uint            `json:"user_id"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}
