package models

import (
	"encoding/json"

	"marketChat/internal/models"
)

// SocketEvent is the wire envelope for client-originated frames. The payload
// stays raw until the event name selects one of the typed payloads below.
type SocketEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type ConnectedPayload struct {
	UserID       uint   `json:"user_id"`
	ConnectionID string `json:"connection_id"`
}

type NewMessagePayload struct {
	Message *models.Message `json:"message"`
}

type MessageReadPayload struct {
	ConversationID uint `json:"conversation_id"`
	ReaderID       uint `json:"reader_id"`
}

type TypingPayload struct {
	ConversationID uint `json:"conversation_id"`
	UserID         uint `json:"user_id"`
	IsTyping       bool `json:"is_typing"`
}

type JoinLeavePayload struct {
	ConversationID uint `json:"conversation_id"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
