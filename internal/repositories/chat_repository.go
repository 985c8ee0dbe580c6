package repositories

import (
	"errors"
	"time"

	"marketChat/internal/errs"
	"marketChat/internal/models"
	"marketChat/internal/utils"

	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{
		db: db,
	}
}

// GetOrCreateConversation resolves the unique conversation for an unordered
// pair of users, creating it on first contact. The pair is canonicalized
// (smaller id first) and guarded by a composite unique index, so two users
// messaging each other for the first time simultaneously race on the index,
// not on an application-level check: the loser of the race re-fetches the
// winner's row.
func (chr *ChatRepository) GetOrCreateConversation(userID1, userID2 uint) (*models.Conversation, []error) {
	var errorList []error

	first, second := models.CanonicalPair(userID1, userID2)

	var conversation models.Conversation
	err := chr.db.
		Where("participant_a_id = ? AND participant_b_id = ?", first, second).
		First(&conversation).Error
	if err == nil {
		return &conversation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		errorList = append(errorList, err)
		return nil, errorList
	}

	conversation = models.Conversation{
		ParticipantAID: first,
		ParticipantBID: second,
	}
	createErr := chr.db.Create(&conversation).Error
	if createErr == nil {
		return &conversation, nil
	}
	if errors.Is(createErr, gorm.ErrDuplicatedKey) {
		// Lost the first-contact race, the other side's row is the one.
		var existing models.Conversation
		if err := chr.db.
			Where("participant_a_id = ? AND participant_b_id = ?", first, second).
			First(&existing).Error; err != nil {
			errorList = append(errorList, err)
			return nil, errorList
		}
		return &existing, nil
	}

	errorList = append(errorList, createErr)
	return nil, errorList
}

func (chr *ChatRepository) GetConversationById(conversationID uint) (*models.Conversation, []error) {
	var errorList []error
	var conversation models.Conversation

	err := chr.db.
		Where("id = ?", conversationID).
		First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errorList = append(errorList, errs.ErrConversationNotFound)
		} else {
			errorList = append(errorList, err)
		}
		return nil, errorList
	}

	return &conversation, nil
}

func (chr *ChatRepository) GetUserConversations(userID uint, page, size int) ([]models.Conversation, int64, []error) {
	var errorList []error
	var conversations []models.Conversation
	var total int64

	transactionErr := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Scopes(utils.Paginate(page, size)).
			Preload("ParticipantA").
			Preload("ParticipantB").
			Where("participant_a_id = ? OR participant_b_id = ?", userID, userID).
			Order("updated_at DESC").
			Find(&conversations).Error; err != nil {
			return err
		}

		if err := tx.
			Model(&models.Conversation{}).
			Where("participant_a_id = ? OR participant_b_id = ?", userID, userID).
			Count(&total).Error; err != nil {
			return err
		}

		return nil
	})
	if transactionErr != nil {
		errorList = append(errorList, transactionErr)
		return nil, 0, errorList
	}

	return conversations, total, nil
}

// SaveMessage persists the message and updates the conversation's
// last-message denormalization plus the receiver's unread counter in one
// transaction. The counter increment is a SQL expression so two
// near-simultaneous sends both land.
func (chr *ChatRepository) SaveMessage(message *models.Message) (*models.Message, []error) {
	var errorList []error

	transactionErr := chr.db.Transaction(func(tx *gorm.DB) error {
		var conversation models.Conversation
		if err := tx.
			Where("id = ?", message.ConversationID).
			First(&conversation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrConversationNotFound
			}
			return err
		}
		if !conversation.HasParticipant(message.SenderID) {
			return errs.ErrNotParticipant
		}

		if err := tx.Create(message).Error; err != nil {
			return err
		}

		// The receiver's side of the counter is the one that grows.
		unreadColumn := "unread_for_b"
		if !conversation.SideIsA(message.SenderID) {
			unreadColumn = "unread_for_a"
		}
		now := time.Now()
		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Updates(map[string]interface{}{
				"last_message_at":      now,
				"last_message_snippet": models.Snippet(message.Content),
				unreadColumn:           gorm.Expr(unreadColumn+" + ?", 1),
			}).Error; err != nil {
			return err
		}

		return nil
	})
	if transactionErr != nil {
		errorList = append(errorList, transactionErr)
		return nil, errorList
	}

	return message, nil
}

// GetMessagesVisibleTo pages backward from the most recent message, but each
// returned page is ordered oldest to newest. Messages the given participant
// deleted for their side, and messages deleted for both, are filtered out.
func (chr *ChatRepository) GetMessagesVisibleTo(conversationID, userID uint, page, size int) ([]models.Message, int64, []error) {
	var errorList []error
	var messages []models.Message
	var total int64

	visible := chr.db.
		Where("conversation_id = ?", conversationID).
		Where("deleted_for_both = ?", false).
		Where("(sender_id = ? AND deleted_by_sender = ?) OR (sender_id <> ? AND deleted_by_receiver = ?)",
			userID, false, userID, false)

	transactionErr := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Scopes(utils.Paginate(page, size)).
			Where(visible).
			Order("created_at DESC").
			Order("id DESC").
			Find(&messages).Error; err != nil {
			return err
		}

		if err := tx.
			Model(&models.Message{}).
			Where(visible).
			Count(&total).Error; err != nil {
			return err
		}

		return nil
	})
	if transactionErr != nil {
		errorList = append(errorList, transactionErr)
		return nil, 0, errorList
	}

	// Present the page chronologically.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, total, nil
}

// MarkConversationRead flips read on every unread message authored by the
// other participant and zeroes the reader's unread counter, atomically.
// Calling it again is a no-op: nothing is unread anymore.
func (chr *ChatRepository) MarkConversationRead(conversationID, readerID uint, readAt time.Time) []error {
	var errorList []error

	transactionErr := chr.db.Transaction(func(tx *gorm.DB) error {
		var conversation models.Conversation
		if err := tx.
			Where("id = ?", conversationID).
			First(&conversation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrConversationNotFound
			}
			return err
		}
		if !conversation.HasParticipant(readerID) {
			return errs.ErrNotParticipant
		}

		if err := tx.Model(&models.Message{}).
			Where("conversation_id = ? AND sender_id <> ? AND read = ?", conversationID, readerID, false).
			Updates(map[string]interface{}{
				"read":    true,
				"read_at": readAt,
			}).Error; err != nil {
			return err
		}

		unreadColumn := "unread_for_b"
		if conversation.SideIsA(readerID) {
			unreadColumn = "unread_for_a"
		}
		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Update(unreadColumn, 0).Error; err != nil {
			return err
		}

		return nil
	})
	if transactionErr != nil {
		errorList = append(errorList, transactionErr)
		return errorList
	}

	return nil
}

func (chr *ChatRepository) GetMessageById(messageID uint) (*models.Message, []error) {
	var errorList []error
	var message models.Message

	err := chr.db.
		Where("id = ?", messageID).
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errorList = append(errorList, errs.ErrMessageNotFound)
		} else {
			errorList = append(errorList, err)
		}
		return nil, errorList
	}

	return &message, nil
}

// SetMessageDeleted raises soft-delete flags. Flags are only ever raised,
// never cleared; a delete-for-both also raises both per-side flags. Hiding a
// still-unread message from its receiver also removes it from the receiver's
// unread counter, so the counter keeps matching what the receiver can see.
func (chr *ChatRepository) SetMessageDeleted(messageID uint, bySender, byReceiver, forBoth bool) []error {
	var errorList []error

	updates := map[string]interface{}{}
	if bySender {
		updates["deleted_by_sender"] = true
	}
	if byReceiver {
		updates["deleted_by_receiver"] = true
	}
	if forBoth {
		updates["deleted_for_both"] = true
	}
	if len(updates) == 0 {
		return nil
	}

	transactionErr := chr.db.Transaction(func(tx *gorm.DB) error {
		var message models.Message
		if err := tx.
			Where("id = ?", messageID).
			First(&message).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrMessageNotFound
			}
			return err
		}

		if err := tx.Model(&models.Message{}).
			Where("id = ?", messageID).
			Updates(updates).Error; err != nil {
			return err
		}

		// First receiver-side hide of an unread message: one fewer unread.
		hidesFromReceiver := (byReceiver || forBoth) &&
			!message.Read && !message.DeletedByReceiver && !message.DeletedForBoth
		if !hidesFromReceiver {
			return nil
		}

		var conversation models.Conversation
		if err := tx.
			Where("id = ?", message.ConversationID).
			First(&conversation).Error; err != nil {
			return err
		}
		unreadColumn := "unread_for_b"
		if !conversation.SideIsA(message.SenderID) {
			unreadColumn = "unread_for_a"
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Update(unreadColumn, gorm.Expr("GREATEST("+unreadColumn+" - ?, 0)", 1)).Error
	})
	if transactionErr != nil {
		errorList = append(errorList, transactionErr)
		return errorList
	}

	return nil
}

// DeleteConversation removes the conversation and all of its messages for
// good. This is the only path that physically removes message rows.
func (chr *ChatRepository) DeleteConversation(conversationID uint) []error {
	var errorList []error

	transactionErr := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("conversation_id = ?", conversationID).
			Delete(&models.Message{}).Error; err != nil {
			return err
		}

		result := tx.Unscoped().
			Where("id = ?", conversationID).
			Delete(&models.Conversation{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.ErrConversationNotFound
		}

		return nil
	})
	if transactionErr != nil {
		errorList = append(errorList, transactionErr)
		return errorList
	}

	return nil
}

// UnreadTotalForUser sums the user's side of the unread counter over every
// conversation they participate in. Conversation counts per user are small,
// so this never scans messages.
func (chr *ChatRepository) UnreadTotalForUser(userID uint) (int64, []error) {
	var errorList []error
	var total int64

	err := chr.db.Raw(
		`SELECT COALESCE(SUM(CASE WHEN participant_a_id = ? THEN unread_for_a ELSE unread_for_b END), 0)
		 FROM conversations
		 WHERE (participant_a_id = ? OR participant_b_id = ?) AND deleted_at IS NULL`,
		userID, userID, userID,
	).Scan(&total).Error
	if err != nil {
		errorList = append(errorList, err)
		return 0, errorList
	}

	return total, nil
}
