package services

import (
	"context"
	"encoding/json"

	redisModels "marketChat/internal/models/redis"

	"github.com/redis/go-redis/v9"
)

// NotificationService hands notification intents to the notification
// consumer over a dedicated redis channel. The consumer that materializes
// notification rows lives outside this subsystem; this side only enqueues.
type NotificationService struct {
	redis *redis.Client
	ctx   context.Context
}

func NewNotificationService(redis *redis.Client, ctx context.Context) *NotificationService {
	return &NotificationService{
		redis: redis,
		ctx:   ctx,
	}
}

func (ns *NotificationService) Notify(userID uint, kind string, payload interface{}) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	intent := redisModels.NotificationIntent{
		UserID:  userID,
		Kind:    kind,
		Payload: jsonPayload,
	}
	jsonIntent, err := json.Marshal(intent)
	if err != nil {
		return err
	}

	return ns.redis.Publish(ns.ctx, redisModels.REDIS_CHANNEL_NOTIFICATIONS, jsonIntent).Err()
}
