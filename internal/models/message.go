package models

import (
	"time"

	"gorm.io/gorm"
)

// Message belongs to exactly one conversation. Read/ReadAt are set when the
// receiving participant marks the conversation read. The two per-side flags
// implement "delete for me"; DeletedForBoth excludes the message from both
// participants regardless of the per-side flags. gorm.Model's DeletedAt is
// deliberately not used for this: soft-deleted-for-both rows must survive
// until the parent conversation is removed.
type Message struct {
	gorm.Model
	ConversationID    uint         `gorm:"not null;index" json:"conversation_id"`
	Conversation      Conversation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SenderID          uint         `gorm:"not null;index" json:"sender_id"`
	Content           string       `gorm:"type:text;not null" json:"content"`
	AttachmentURL     *string      `json:"attachment_url"`
	AttachmentType    *string      `json:"attachment_type"`
	Read              bool         `gorm:"not null;default:false" json:"read"`
	ReadAt            *time.Time   `json:"read_at"`
	DeletedBySender   bool         `gorm:"not null;default:false" json:"-"`
	DeletedByReceiver bool         `gorm:"not null;default:false" json:"-"`
	DeletedForBoth    bool         `gorm:"not null;default:false" json:"-"`
}

// VisibleTo reports whether the given participant still sees this message.
func (message *Message) VisibleTo(userID uint) bool {
	if message.DeletedForBoth {
		return false
	}
	if message.SenderID == userID {
		return !message.DeletedBySender
	}
	return !message.DeletedByReceiver
}
