package services

import (
	"log"
	"time"

	"marketChat/internal/enums"
	"marketChat/internal/errs"
	"marketChat/internal/interfaces"
	"marketChat/internal/models"
	"marketChat/internal/validators"
)

// ChatService orchestrates the conversation and message stores, the
// notification side-channel and the delivery gateway into the externally
// visible messaging operations. Persistence comes first on every path; the
// notification and the socket push are side effects that can never fail an
// already-persisted operation.
type ChatService struct {
	chatRepo interfaces.ChatRepository
	users    interfaces.UserDirectory
	notifier interfaces.Notifier
	gateway  interfaces.DeliveryGateway
}

func NewChatService(
	chatRepo interfaces.ChatRepository,
	users interfaces.UserDirectory,
	notifier interfaces.Notifier,
	gateway interfaces.DeliveryGateway,
) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		users:    users,
		notifier: notifier,
		gateway:  gateway,
	}
}

// StartConversation resolves (or lazily creates) the unique conversation
// between initiator and receiver and sends the opening message.
func (cs *ChatService) StartConversation(initiatorID, receiverID uint, content string) (*models.StartConversationResponse, []error) {
	if initiatorID == receiverID {
		return nil, []error{errs.ErrSelfConversation}
	}
	if validationErrs := validators.ValidateMessageContent(content); len(validationErrs) > 0 {
		return nil, validationErrs
	}

	receiver, err := cs.users.GetUserById(receiverID)
	if err != nil {
		return nil, []error{err}
	}
	if !receiver.AllowMessages {
		return nil, []error{errs.ErrMessagesDisabled}
	}

	conversation, convErrs := cs.chatRepo.GetOrCreateConversation(initiatorID, receiverID)
	if len(convErrs) > 0 {
		return nil, convErrs
	}

	message, sendErrs := cs.SendMessage(conversation.ID, initiatorID, content, nil, nil)
	if len(sendErrs) > 0 {
		return nil, sendErrs
	}

	// Re-read for the denormalized last-message fields the send just wrote.
	conversation, convErrs = cs.chatRepo.GetConversationById(conversation.ID)
	if len(convErrs) > 0 {
		return nil, convErrs
	}

	return &models.StartConversationResponse{
		Conversation: conversation.ToConversationResponse(receiver.ToUserResponse(), conversation.UnreadFor(initiatorID)),
		Message:      message,
	}, nil
}

// SendMessage persists the message, bumps the receiver's unread counter,
// then fires the notification intent and the live push. The message is
// returned once persisted, whatever happens to the side effects.
func (cs *ChatService) SendMessage(conversationID, senderID uint, content string, attachmentURL, attachmentType *string) (*models.Message, []error) {
	if validationErrs := validators.ValidateMessageContent(content); len(validationErrs) > 0 {
		return nil, validationErrs
	}

	conversation, convErrs := cs.GetConversation(conversationID, senderID)
	if len(convErrs) > 0 {
		return nil, convErrs
	}
	receiverID := conversation.OtherParticipant(senderID)

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		AttachmentURL:  attachmentURL,
		AttachmentType: attachmentType,
	}
	saved, saveErrs := cs.chatRepo.SaveMessage(message)
	if len(saveErrs) > 0 {
		return nil, saveErrs
	}

	if err := cs.notifier.Notify(receiverID, enums.NOTIFICATION_KIND_NEW_MESSAGE, map[string]interface{}{
		"conversation_id": conversationID,
		"message_id":      saved.ID,
		"sender_id":       senderID,
		"snippet":         models.Snippet(saved.Content),
	}); err != nil {
		log.Printf("Error enqueueing notification for user %v: %v", receiverID, err)
	}

	cs.gateway.EmitNewMessage(receiverID, saved)

	return saved, nil
}

// GetConversation enforces the participant boundary: non-participants get
// forbidden, never the conversation's data.
func (cs *ChatService) GetConversation(conversationID, userID uint) (*models.Conversation, []error) {
	conversation, convErrs := cs.chatRepo.GetConversationById(conversationID)
	if len(convErrs) > 0 {
		return nil, convErrs
	}
	if !conversation.HasParticipant(userID) {
		return nil, []error{errs.ErrNotParticipant}
	}
	return conversation, nil
}

func (cs *ChatService) GetUserConversations(userID uint, page, size int) (*models.ConversationListResponse, []error) {
	conversations, total, listErrs := cs.chatRepo.GetUserConversations(userID, page, size)
	if len(listErrs) > 0 {
		return nil, listErrs
	}

	responses := make([]models.ConversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		other := conversation.ParticipantB
		if !conversation.SideIsA(userID) {
			other = conversation.ParticipantA
		}
		responses = append(responses, conversation.ToConversationResponse(other.ToUserResponse(), conversation.UnreadFor(userID)))
	}

	return &models.ConversationListResponse{
		Conversations: responses,
		Page:          page,
		Size:          size,
		Total:         total,
	}, nil
}

func (cs *ChatService) GetMessages(conversationID, userID uint, page, size int) (*models.MessageListResponse, []error) {
	if _, convErrs := cs.GetConversation(conversationID, userID); len(convErrs) > 0 {
		return nil, convErrs
	}

	messages, total, listErrs := cs.chatRepo.GetMessagesVisibleTo(conversationID, userID, page, size)
	if len(listErrs) > 0 {
		return nil, listErrs
	}

	return &models.MessageListResponse{
		Messages: messages,
		Page:     page,
		Size:     size,
		Total:    total,
	}, nil
}

// MarkConversationRead zeroes the reader's unread counter, marks the other
// participant's messages read and pushes a read receipt to them.
func (cs *ChatService) MarkConversationRead(conversationID, readerID uint) []error {
	conversation, convErrs := cs.GetConversation(conversationID, readerID)
	if len(convErrs) > 0 {
		return convErrs
	}

	if markErrs := cs.chatRepo.MarkConversationRead(conversationID, readerID, time.Now()); len(markErrs) > 0 {
		return markErrs
	}

	cs.gateway.EmitMessageRead(conversation.OtherParticipant(readerID), conversationID, readerID)

	return nil
}

// DeleteMessage applies a per-side or both-sides soft delete. The sender
// scope is reserved for the author, the receiver scope for the counterpart;
// either participant may delete for both.
func (cs *ChatService) DeleteMessage(messageID, requesterID uint, scope string) []error {
	if scopeErrs := validators.ValidateDeleteScope(scope); len(scopeErrs) > 0 {
		return scopeErrs
	}

	message, msgErrs := cs.chatRepo.GetMessageById(messageID)
	if len(msgErrs) > 0 {
		return msgErrs
	}
	if _, convErrs := cs.GetConversation(message.ConversationID, requesterID); len(convErrs) > 0 {
		return convErrs
	}

	isSender := message.SenderID == requesterID
	switch scope {
	case enums.DELETE_SCOPE_SENDER:
		if !isSender {
			return []error{errs.ErrWrongDeleteScope}
		}
		return cs.chatRepo.SetMessageDeleted(messageID, true, false, false)
	case enums.DELETE_SCOPE_RECEIVER:
		if isSender {
			return []error{errs.ErrWrongDeleteScope}
		}
		return cs.chatRepo.SetMessageDeleted(messageID, false, true, false)
	default:
		return cs.chatRepo.SetMessageDeleted(messageID, true, true, true)
	}
}

// DeleteConversation removes the conversation and cascades to its messages.
func (cs *ChatService) DeleteConversation(conversationID, requesterID uint) []error {
	if _, convErrs := cs.GetConversation(conversationID, requesterID); len(convErrs) > 0 {
		return convErrs
	}
	return cs.chatRepo.DeleteConversation(conversationID)
}

func (cs *ChatService) GetUnreadTotal(userID uint) (int64, []error) {
	return cs.chatRepo.UnreadTotalForUser(userID)
}

// Typing relays a typing indicator to the other participant. Nothing is
// persisted and no ordering relative to messages is promised.
func (cs *ChatService) Typing(conversationID, userID uint, isTyping bool) []error {
	conversation, convErrs := cs.GetConversation(conversationID, userID)
	if len(convErrs) > 0 {
		return convErrs
	}

	cs.gateway.EmitTyping(conversation.OtherParticipant(userID), conversationID, userID, isTyping)

	return nil
}

// CheckUserInConversation is the membership probe the socket handler uses
// for join-conversation frames.
func (cs *ChatService) CheckUserInConversation(userID, conversationID uint) bool {
	conversation, convErrs := cs.chatRepo.GetConversationById(conversationID)
	if len(convErrs) > 0 {
		return false
	}
	return conversation.HasParticipant(userID)
}
