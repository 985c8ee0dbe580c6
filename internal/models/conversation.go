package models

import (
	"time"

	"gorm.io/gorm"
)

// SnippetMaxLen bounds the denormalized preview of the latest message.
const SnippetMaxLen = 100

// Conversation is the unique, order-independent relationship between two
// users. The participant pair is stored in canonical order (smaller id
// first) and guarded by a composite unique index, so the unordered pair
// (u1, u2) always resolves to exactly one row no matter who initiates.
//
// UnreadForA counts messages sent by B that A has not marked read yet, and
// vice versa for UnreadForB.
type Conversation struct {
	gorm.Model
	ParticipantAID     uint       `gorm:"not null;uniqueIndex:idx_conversation_pair" json:"participant_a_id"`
	ParticipantBID     uint       `gorm:"not null;uniqueIndex:idx_conversation_pair" json:"participant_b_id"`
	ParticipantA       User       `gorm:"foreignKey:ParticipantAID" json:"-"`
	ParticipantB       User       `gorm:"foreignKey:ParticipantBID" json:"-"`
	LastMessageAt      *time.Time `json:"last_message_at"`
	LastMessageSnippet string     `json:"last_message_snippet"`
	UnreadForA         int        `gorm:"not null;default:0" json:"unread_for_a"`
	UnreadForB         int        `gorm:"not null;default:0" json:"unread_for_b"`
}

// CanonicalPair orders two participant ids so the same conversation is found
// regardless of who is "first".
func CanonicalPair(userID1, userID2 uint) (uint, uint) {
	if userID1 < userID2 {
		return userID1, userID2
	}
	return userID2, userID1
}

func (conversation *Conversation) HasParticipant(userID uint) bool {
	return conversation.ParticipantAID == userID || conversation.ParticipantBID == userID
}

// OtherParticipant returns the counterpart of userID. The caller must have
// verified participation first.
func (conversation *Conversation) OtherParticipant(userID uint) uint {
	if conversation.ParticipantAID == userID {
		return conversation.ParticipantBID
	}
	return conversation.ParticipantAID
}

func (conversation *Conversation) SideIsA(userID uint) bool {
	return conversation.ParticipantAID == userID
}

func (conversation *Conversation) UnreadFor(userID uint) int {
	if conversation.SideIsA(userID) {
		return conversation.UnreadForA
	}
	return conversation.UnreadForB
}

func (conversation *Conversation) ToConversationResponse(otherUser *UserResponse, unread int) ConversationResponse {
	return ConversationResponse{
		ID:                 conversation.ID,
		OtherUser:          otherUser,
		LastMessageAt:      conversation.LastMessageAt,
		LastMessageSnippet: conversation.LastMessageSnippet,
		Unread:             unread,
	}
}

// Snippet truncates message content for the conversation-list preview.
func Snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= SnippetMaxLen {
		return content
	}
	return string(runes[:SnippetMaxLen])
}
