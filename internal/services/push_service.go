package services

import (
	"context"
	"encoding/json"
	"log"

	"marketChat/internal/enums"
	"marketChat/internal/models"
	redisModels "marketChat/internal/models/redis"
	socketModels "marketChat/internal/models/socket"

	"github.com/redis/go-redis/v9"
)

// PushService is the emitting half of the delivery gateway. It publishes
// typed events onto the chat pub/sub channel; the socket handler's
// subscriber resolves the receiver's live connection and writes the frame.
// Publishing is best-effort: failures are logged and the triggering
// operation carries on.
type PushService struct {
	redis *redis.Client
	ctx   context.Context
}

func NewPushService(redis *redis.Client, ctx context.Context) *PushService {
	return &PushService{
		redis: redis,
		ctx:   ctx,
	}
}

func (ps *PushService) EmitNewMessage(receiverID uint, message *models.Message) {
	ps.publish(receiverID, enums.SOCKET_EVENT_NEW_MESSAGE, socketModels.NewMessagePayload{
		Message: message,
	})
}

func (ps *PushService) EmitMessageRead(receiverID uint, conversationID uint, readerID uint) {
	ps.publish(receiverID, enums.SOCKET_EVENT_MESSAGE_READ, socketModels.MessageReadPayload{
		ConversationID: conversationID,
		ReaderID:       readerID,
	})
}

func (ps *PushService) EmitTyping(receiverID uint, conversationID uint, userID uint, isTyping bool) {
	ps.publish(receiverID, enums.SOCKET_EVENT_USER_TYPING, socketModels.TypingPayload{
		ConversationID: conversationID,
		UserID:         userID,
		IsTyping:       isTyping,
	})
}

func (ps *PushService) publish(receiverID uint, event string, payload interface{}) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling %v payload: %v", event, err)
		return
	}

	redisEvent := redisModels.RedisPublishedEvent{
		Event:      event,
		ReceiverID: receiverID,
		Payload:    jsonPayload,
	}
	jsonEvent, err := json.Marshal(redisEvent)
	if err != nil {
		log.Printf("Error marshalling %v event: %v", event, err)
		return
	}

	if err := ps.redis.Publish(ps.ctx, redisModels.REDIS_CHANNEL_CHAT, jsonEvent).Err(); err != nil {
		log.Printf("Error publishing %v event: %v", event, err)
	}
}
