package interfaces

import "marketChat/internal/models"

// DeliveryGateway pushes events toward a user's live connection, if any.
// All pushes are best-effort: offline receivers are dropped, never queued.
type DeliveryGateway interface {
	EmitNewMessage(receiverID uint, message *models.Message)
	EmitMessageRead(receiverID uint, conversationID uint, readerID uint)
	EmitTyping(receiverID uint, conversationID uint, userID uint, isTyping bool)
}
