package interfaces

import (
	"time"

	"marketChat/internal/models"
)

// ChatRepository is the persistence contract the messaging service relies
// on: conversation dedup by canonical pair, atomic unread bookkeeping on
// send, side-aware message visibility.
type ChatRepository interface {
	GetOrCreateConversation(userID1, userID2 uint) (*models.Conversation, []error)
	GetConversationById(conversationID uint) (*models.Conversation, []error)
	GetUserConversations(userID uint, page, size int) ([]models.Conversation, int64, []error)
	SaveMessage(message *models.Message) (*models.Message, []error)
	GetMessagesVisibleTo(conversationID, userID uint, page, size int) ([]models.Message, int64, []error)
	MarkConversationRead(conversationID, readerID uint, readAt time.Time) []error
	GetMessageById(messageID uint) (*models.Message, []error)
	SetMessageDeleted(messageID uint, bySender, byReceiver, forBoth bool) []error
	DeleteConversation(conversationID uint) []error
	UnreadTotalForUser(userID uint) (int64, []error)
}
