package services_test

import (
	"sort"
	"testing"
	"time"

	"marketChat/internal/errs"
	"marketChat/internal/models"
	"marketChat/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatRepo is an in-memory stand-in for the persistence layer with the
// same observable behavior: one conversation per canonical pair, unread
// bookkeeping on save, side-aware visibility, newest-page-first pagination.
type fakeChatRepo struct {
	users              map[uint]*models.User
	conversations      map[uint]*models.Conversation
	messages           map[uint]*models.Message
	nextConversationID uint
	nextMessageID      uint
}

func newFakeChatRepo(users map[uint]*models.User) *fakeChatRepo {
	return &fakeChatRepo{
		users:         users,
		conversations: make(map[uint]*models.Conversation),
		messages:      make(map[uint]*models.Message),
	}
}

func (f *fakeChatRepo) GetOrCreateConversation(userID1, userID2 uint) (*models.Conversation, []error) {
	first, second := models.CanonicalPair(userID1, userID2)
	for _, conversation := range f.conversations {
		if conversation.ParticipantAID == first && conversation.ParticipantBID == second {
			return conversation, nil
		}
	}
	f.nextConversationID++
	conversation := &models.Conversation{
		ParticipantAID: first,
		ParticipantBID: second,
	}
	conversation.ID = f.nextConversationID
	f.conversations[conversation.ID] = conversation
	return conversation, nil
}

func (f *fakeChatRepo) GetConversationById(conversationID uint) (*models.Conversation, []error) {
	conversation, ok := f.conversations[conversationID]
	if !ok {
		return nil, []error{errs.ErrConversationNotFound}
	}
	return conversation, nil
}

func (f *fakeChatRepo) GetUserConversations(userID uint, page, size int) ([]models.Conversation, int64, []error) {
	var conversations []models.Conversation
	for _, conversation := range f.conversations {
		if !conversation.HasParticipant(userID) {
			continue
		}
		withUsers := *conversation
		if user, ok := f.users[withUsers.ParticipantAID]; ok {
			withUsers.ParticipantA = *user
		}
		if user, ok := f.users[withUsers.ParticipantBID]; ok {
			withUsers.ParticipantB = *user
		}
		conversations = append(conversations, withUsers)
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].ID > conversations[j].ID
	})
	total := int64(len(conversations))
	offset := (page - 1) * size
	if offset >= len(conversations) {
		return nil, total, nil
	}
	end := offset + size
	if end > len(conversations) {
		end = len(conversations)
	}
	return conversations[offset:end], total, nil
}

func (f *fakeChatRepo) SaveMessage(message *models.Message) (*models.Message, []error) {
	conversation, ok := f.conversations[message.ConversationID]
	if !ok {
		return nil, []error{errs.ErrConversationNotFound}
	}
	if !conversation.HasParticipant(message.SenderID) {
		return nil, []error{errs.ErrNotParticipant}
	}
	f.nextMessageID++
	message.ID = f.nextMessageID
	message.CreatedAt = time.Now()
	f.messages[message.ID] = message

	now := message.CreatedAt
	conversation.LastMessageAt = &now
	conversation.LastMessageSnippet = models.Snippet(message.Content)
	if conversation.SideIsA(message.SenderID) {
		conversation.UnreadForB++
	} else {
		conversation.UnreadForA++
	}
	return message, nil
}

func (f *fakeChatRepo) GetMessagesVisibleTo(conversationID, userID uint, page, size int) ([]models.Message, int64, []error) {
	var visible []models.Message
	for _, message := range f.messages {
		if message.ConversationID == conversationID && message.VisibleTo(userID) {
			visible = append(visible, *message)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		return visible[i].ID < visible[j].ID
	})
	total := int64(len(visible))

	// Page 1 holds the newest messages; every page reads chronologically.
	end := len(visible) - (page-1)*size
	if end <= 0 {
		return nil, total, nil
	}
	start := end - size
	if start < 0 {
		start = 0
	}
	return visible[start:end], total, nil
}

func (f *fakeChatRepo) MarkConversationRead(conversationID, readerID uint, readAt time.Time) []error {
	conversation, ok := f.conversations[conversationID]
	if !ok {
		return []error{errs.ErrConversationNotFound}
	}
	for _, message := range f.messages {
		if message.ConversationID == conversationID && message.SenderID != readerID && !message.Read {
			message.Read = true
			at := readAt
			message.ReadAt = &at
		}
	}
	if conversation.SideIsA(readerID) {
		conversation.UnreadForA = 0
	} else {
		conversation.UnreadForB = 0
	}
	return nil
}

func (f *fakeChatRepo) GetMessageById(messageID uint) (*models.Message, []error) {
	message, ok := f.messages[messageID]
	if !ok {
		return nil, []error{errs.ErrMessageNotFound}
	}
	return message, nil
}

func (f *fakeChatRepo) SetMessageDeleted(messageID uint, bySender, byReceiver, forBoth bool) []error {
	message, ok := f.messages[messageID]
	if !ok {
		return []error{errs.ErrMessageNotFound}
	}
	hidesFromReceiver := (byReceiver || forBoth) &&
		!message.Read && !message.DeletedByReceiver && !message.DeletedForBoth
	if bySender {
		message.DeletedBySender = true
	}
	if byReceiver {
		message.DeletedByReceiver = true
	}
	if forBoth {
		message.DeletedForBoth = true
	}
	if hidesFromReceiver {
		conversation := f.conversations[message.ConversationID]
		if conversation.SideIsA(message.SenderID) {
			if conversation.UnreadForB > 0 {
				conversation.UnreadForB--
			}
		} else if conversation.UnreadForA > 0 {
			conversation.UnreadForA--
		}
	}
	return nil
}

func (f *fakeChatRepo) DeleteConversation(conversationID uint) []error {
	for id, message := range f.messages {
		if message.ConversationID == conversationID {
			delete(f.messages, id)
		}
	}
	delete(f.conversations, conversationID)
	return nil
}

func (f *fakeChatRepo) UnreadTotalForUser(userID uint) (int64, []error) {
	var total int64
	for _, conversation := range f.conversations {
		if conversation.HasParticipant(userID) {
			total += int64(conversation.UnreadFor(userID))
		}
	}
	return total, nil
}

type fakeUserDirectory struct {
	users map[uint]*models.User
}

func (f *fakeUserDirectory) GetUserById(userID uint) (*models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	return user, nil
}

type notifyCall struct {
	userID uint
	kind   string
}

type fakeNotifier struct {
	calls []notifyCall
	err   error
}

func (f *fakeNotifier) Notify(userID uint, kind string, payload interface{}) error {
	f.calls = append(f.calls, notifyCall{userID: userID, kind: kind})
	return f.err
}

type emittedMessage struct {
	receiverID uint
	message    *models.Message
}

type emittedRead struct {
	receiverID     uint
	conversationID uint
	readerID       uint
}

type emittedTyping struct {
	receiverID     uint
	conversationID uint
	userID         uint
	isTyping       bool
}

type fakeGateway struct {
	newMessages []emittedMessage
	reads       []emittedRead
	typings     []emittedTyping
}

func (f *fakeGateway) EmitNewMessage(receiverID uint, message *models.Message) {
	f.newMessages = append(f.newMessages, emittedMessage{receiverID: receiverID, message: message})
}

func (f *fakeGateway) EmitMessageRead(receiverID uint, conversationID uint, readerID uint) {
	f.reads = append(f.reads, emittedRead{receiverID: receiverID, conversationID: conversationID, readerID: readerID})
}

func (f *fakeGateway) EmitTyping(receiverID uint, conversationID uint, userID uint, isTyping bool) {
	f.typings = append(f.typings, emittedTyping{receiverID: receiverID, conversationID: conversationID, userID: userID, isTyping: isTyping})
}

type chatServiceFixture struct {
	service  *services.ChatService
	repo     *fakeChatRepo
	notifier *fakeNotifier
	gateway  *fakeGateway
}

func newChatServiceFixture(users ...*models.User) *chatServiceFixture {
	directory := &fakeUserDirectory{users: make(map[uint]*models.User)}
	for _, user := range users {
		directory.users[user.ID] = user
	}
	repo := newFakeChatRepo(directory.users)
	notifier := &fakeNotifier{}
	gateway := &fakeGateway{}
	return &chatServiceFixture{
		service:  services.NewChatService(repo, directory, notifier, gateway),
		repo:     repo,
		notifier: notifier,
		gateway:  gateway,
	}
}

func testUser(id uint, firstName string) *models.User {
	user := &models.User{
		FirstName:     firstName,
		LastName:      "Tester",
		Email:         firstName + "@example.com",
		AllowMessages: true,
	}
	user.ID = id
	return user
}

func TestStartConversation(t *testing.T) {
	t.Run("creates the conversation and sends the opening message", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"))

		response, startErrs := fixture.service.StartConversation(1, 2, "hello bob")
		require.Empty(t, startErrs)
		require.NotNil(t, response)

		assert.NotZero(t, response.Conversation.ID)
		assert.Equal(t, uint(2), response.Conversation.OtherUser.ID)
		assert.Equal(t, "hello bob", response.Conversation.LastMessageSnippet)
		assert.Zero(t, response.Conversation.Unread)
		require.NotNil(t, response.Message)
		assert.Equal(t, "hello bob", response.Message.Content)
		assert.Equal(t, uint(1), response.Message.SenderID)

		require.Len(t, fixture.gateway.newMessages, 1)
		assert.Equal(t, uint(2), fixture.gateway.newMessages[0].receiverID)
		require.Len(t, fixture.notifier.calls, 1)
		assert.Equal(t, uint(2), fixture.notifier.calls[0].userID)
		assert.Equal(t, "new_message", fixture.notifier.calls[0].kind)
	})

	t.Run("the pair resolves to one conversation regardless of initiator", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"))

		first, startErrs := fixture.service.StartConversation(1, 2, "hi")
		require.Empty(t, startErrs)
		second, startErrs := fixture.service.StartConversation(2, 1, "hi back")
		require.Empty(t, startErrs)

		assert.Equal(t, first.Conversation.ID, second.Conversation.ID)
		assert.Len(t, fixture.repo.conversations, 1)
	})

	t.Run("conversation with yourself is rejected", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"))

		_, startErrs := fixture.service.StartConversation(1, 1, "hello me")
		assert.Equal(t, []error{errs.ErrSelfConversation}, startErrs)
	})

	t.Run("unknown receiver is rejected", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"))

		_, startErrs := fixture.service.StartConversation(1, 99, "anyone there")
		assert.Equal(t, []error{errs.ErrUserNotFound}, startErrs)
	})

	t.Run("receiver who disabled messages is rejected", func(t *testing.T) {
		bob := testUser(2, "bob")
		bob.AllowMessages = false
		fixture := newChatServiceFixture(testUser(1, "alice"), bob)

		_, startErrs := fixture.service.StartConversation(1, 2, "hello")
		assert.Equal(t, []error{errs.ErrMessagesDisabled}, startErrs)
		assert.Empty(t, fixture.repo.conversations)
	})

	t.Run("empty content is rejected before anything is created", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"))

		_, startErrs := fixture.service.StartConversation(1, 2, "   ")
		assert.Equal(t, []error{errs.ErrEmptyMessageContent}, startErrs)
		assert.Empty(t, fixture.repo.conversations)
	})
}

func TestSendMessage(t *testing.T) {
	t.Run("each send bumps the receiver's unread counter", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"))
		response, startErrs := fixture.service.StartConversation(1, 2, "first")
		require.Empty(t, startErrs)
		conversationID := response.Conversation.ID

		_, sendErrs := fixture.service.SendMessage(conversationID, 1, "second", nil, nil)
		require.Empty(t, sendErrs)
		_, sendErrs = fixture.service.SendMessage(conversationID, 2, "reply", nil, nil)
		require.Empty(t, sendErrs)

		conversation := fixture.repo.conversations[conversationID]
		assert.Equal(t, 2, conversation.UnreadFor(2))
		assert.Equal(t, 1, conversation.UnreadFor(1))
		assert.Equal(t, "reply", conversation.LastMessageSnippet)
	})

	t.Run("notification failure never fails the send", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"))
		response, startErrs := fixture.service.StartConversation(1, 2, "first")
		require.Empty(t, startErrs)

		fixture.notifier.err = errs.Error("notification broker down")

		message, sendErrs := fixture.service.SendMessage(response.Conversation.ID, 1, "still delivered", nil, nil)
		require.Empty(t, sendErrs)
		require.NotNil(t, message)

		// Persisted and pushed despite the side-channel failure.
		assert.Contains(t, fixture.repo.messages, message.ID)
		assert.Equal(t, uint(2), fixture.gateway.newMessages[len(fixture.gateway.newMessages)-1].receiverID)
	})

	t.Run("non-participant sender is forbidden", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"), testUser(3, "carol"))
		response, startErrs := fixture.service.StartConversation(1, 2, "private")
		require.Empty(t, startErrs)

		_, sendErrs := fixture.service.SendMessage(response.Conversation.ID, 3, "let me in", nil, nil)
		assert.Equal(t, []error{errs.ErrNotParticipant}, sendErrs)
		assert.Len(t, fixture.repo.messages, 1)
	})

	t.Run("unknown conversation is not found", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"))

		_, sendErrs := fixture.service.SendMessage(99, 1, "hello", nil, nil)
		assert.Equal(t, []error{errs.ErrConversationNotFound}, sendErrs)
	})
}

func TestMarkConversationRead(t *testing.T) {
	t.Run("zeroes the counter, marks messages and pushes a receipt", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"))
		response, startErrs := fixture.service.StartConversation(1, 2, "first")
		require.Empty(t, startErrs)
		conversationID := response.Conversation.ID
		_, sendErrs := fixture.service.SendMessage(conversationID, 1, "second", nil, nil)
		require.Empty(t, sendErrs)
		require.Equal(t, 2, fixture.repo.conversations[conversationID].UnreadFor(2))

		markErrs := fixture.service.MarkConversationRead(conversationID, 2)
		require.Empty(t, markErrs)

		assert.Zero(t, fixture.repo.conversations[conversationID].UnreadFor(2))
		for _, message := range fixture.repo.messages {
			assert.True(t, message.Read)
			require.NotNil(t, message.ReadAt)
		}
		require.Len(t, fixture.gateway.reads, 1)
		assert.Equal(t, emittedRead{receiverID: 1, conversationID: conversationID, readerID: 2}, fixture.gateway.reads[0])
	})

	t.Run("marking an already-read conversation stays clean", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"))
		response, startErrs := fixture.service.StartConversation(1, 2, "first")
		require.Empty(t, startErrs)
		conversationID := response.Conversation.ID

		require.Empty(t, fixture.service.MarkConversationRead(conversationID, 2))
		require.Empty(t, fixture.service.MarkConversationRead(conversationID, 2))

		assert.Zero(t, fixture.repo.conversations[conversationID].UnreadFor(2))
	})

	t.Run("non-participant is forbidden", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"), testUser(3, "carol"))
		response, startErrs := fixture.service.StartConversation(1, 2, "private")
		require.Empty(t, startErrs)

		markErrs := fixture.service.MarkConversationRead(response.Conversation.ID, 3)
		assert.Equal(t, []error{errs.ErrNotParticipant}, markErrs)
	})
}

func TestGetMessages(t *testing.T) {
	t.Run("pages walk backwards while each page reads chronologically", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"))
		response, startErrs := fixture.service.StartConversation(1, 2, "m1")
		require.Empty(t, startErrs)
		conversationID := response.Conversation.ID
		for _, content := range []string{"m2", "m3", "m4", "m5"} {
			_, sendErrs := fixture.service.SendMessage(conversationID, 1, content, nil, nil)
			require.Empty(t, sendErrs)
		}

		firstPage, listErrs := fixture.service.GetMessages(conversationID, 2, 1, 2)
		require.Empty(t, listErrs)
		assert.Equal(t, int64(5), firstPage.Total)
		require.Len(t, firstPage.Messages, 2)
		assert.Equal(t, "m4", firstPage.Messages[0].Content)
		assert.Equal(t, "m5", firstPage.Messages[1].Content)

		lastPage, listErrs := fixture.service.GetMessages(conversationID, 2, 3, 2)
		require.Empty(t, listErrs)
		require.Len(t, lastPage.Messages, 1)
		assert.Equal(t, "m1", lastPage.Messages[0].Content)
	})

	t.Run("side deletes filter each participant's view", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"))
		response, startErrs := fixture.service.StartConversation(1, 2, "keep")
		require.Empty(t, startErrs)
		conversationID := response.Conversation.ID
		regret, sendErrs := fixture.service.SendMessage(conversationID, 1, "sender regrets this", nil, nil)
		require.Empty(t, sendErrs)

		require.Empty(t, fixture.service.DeleteMessage(regret.ID, 1, "sender"))

		senderView, listErrs := fixture.service.GetMessages(conversationID, 1, 1, 10)
		require.Empty(t, listErrs)
		require.Len(t, senderView.Messages, 1)
		assert.Equal(t, "keep", senderView.Messages[0].Content)

		receiverView, listErrs := fixture.service.GetMessages(conversationID, 2, 1, 10)
		require.Empty(t, listErrs)
		assert.Len(t, receiverView.Messages, 2)
	})

	t.Run("non-participant is forbidden", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"), testUser(3, "carol"))
		response, startErrs := fixture.service.StartConversation(1, 2, "private")
		require.Empty(t, startErrs)

		_, listErrs := fixture.service.GetMessages(response.Conversation.ID, 3, 1, 10)
		assert.Equal(t, []error{errs.ErrNotParticipant}, listErrs)
	})
}

func TestDeleteMessage(t *testing.T) {
	setup := func(t *testing.T) (*chatServiceFixture, *models.Message) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"), testUser(3, "carol"))
		response, startErrs := fixture.service.StartConversation(1, 2, "hello")
		require.Empty(t, startErrs)
		return fixture, fixture.repo.messages[response.Message.ID]
	}

	t.Run("sender scope by the author", func(t *testing.T) {
		fixture, message := setup(t)
		require.Empty(t, fixture.service.DeleteMessage(message.ID, 1, "sender"))
		assert.True(t, message.DeletedBySender)
		assert.False(t, message.DeletedByReceiver)
		assert.False(t, message.DeletedForBoth)
	})

	t.Run("sender scope by the receiver is forbidden", func(t *testing.T) {
		fixture, message := setup(t)
		deleteErrs := fixture.service.DeleteMessage(message.ID, 2, "sender")
		assert.Equal(t, []error{errs.ErrWrongDeleteScope}, deleteErrs)
	})

	t.Run("receiver scope by the author is forbidden", func(t *testing.T) {
		fixture, message := setup(t)
		deleteErrs := fixture.service.DeleteMessage(message.ID, 1, "receiver")
		assert.Equal(t, []error{errs.ErrWrongDeleteScope}, deleteErrs)
	})

	t.Run("either participant may delete for both", func(t *testing.T) {
		fixture, message := setup(t)
		require.Empty(t, fixture.service.DeleteMessage(message.ID, 2, "both"))
		assert.True(t, message.DeletedForBoth)
	})

	t.Run("unknown scope is rejected", func(t *testing.T) {
		fixture, message := setup(t)
		deleteErrs := fixture.service.DeleteMessage(message.ID, 1, "everyone")
		assert.Equal(t, []error{errs.ErrInvalidDeleteScope}, deleteErrs)
	})

	t.Run("outsiders cannot delete at all", func(t *testing.T) {
		fixture, message := setup(t)
		deleteErrs := fixture.service.DeleteMessage(message.ID, 3, "both")
		assert.Equal(t, []error{errs.ErrNotParticipant}, deleteErrs)
	})

	t.Run("unknown message is not found", func(t *testing.T) {
		fixture, _ := setup(t)
		deleteErrs := fixture.service.DeleteMessage(999, 1, "both")
		assert.Equal(t, []error{errs.ErrMessageNotFound}, deleteErrs)
	})

	t.Run("hiding an unread message from the receiver drops it from the counter", func(t *testing.T) {
		fixture, message := setup(t)
		conversation := fixture.repo.conversations[message.ConversationID]
		require.Equal(t, 1, conversation.UnreadFor(2))

		require.Empty(t, fixture.service.DeleteMessage(message.ID, 2, "receiver"))
		assert.Zero(t, conversation.UnreadFor(2))

		// A repeat delete cannot decrement twice.
		require.Empty(t, fixture.service.DeleteMessage(message.ID, 2, "both"))
		assert.Zero(t, conversation.UnreadFor(2))
	})

	t.Run("sender-side delete leaves the receiver's counter alone", func(t *testing.T) {
		fixture, message := setup(t)
		conversation := fixture.repo.conversations[message.ConversationID]

		require.Empty(t, fixture.service.DeleteMessage(message.ID, 1, "sender"))
		assert.Equal(t, 1, conversation.UnreadFor(2))
	})

	t.Run("hiding an already-read message does not touch the counter", func(t *testing.T) {
		fixture, message := setup(t)
		require.Empty(t, fixture.service.MarkConversationRead(message.ConversationID, 2))
		conversation := fixture.repo.conversations[message.ConversationID]
		require.Zero(t, conversation.UnreadFor(2))

		require.Empty(t, fixture.service.DeleteMessage(message.ID, 2, "both"))
		assert.Zero(t, conversation.UnreadFor(2))
	})
}

func TestDeleteConversation(t *testing.T) {
	t.Run("removes the conversation and its messages", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"))
		response, startErrs := fixture.service.StartConversation(1, 2, "hello")
		require.Empty(t, startErrs)

		require.Empty(t, fixture.service.DeleteConversation(response.Conversation.ID, 2))

		_, convErrs := fixture.service.GetConversation(response.Conversation.ID, 2)
		assert.Equal(t, []error{errs.ErrConversationNotFound}, convErrs)
		assert.Empty(t, fixture.repo.messages)
	})

	t.Run("non-participant is forbidden", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"), testUser(3, "carol"))
		response, startErrs := fixture.service.StartConversation(1, 2, "hello")
		require.Empty(t, startErrs)

		deleteErrs := fixture.service.DeleteConversation(response.Conversation.ID, 3)
		assert.Equal(t, []error{errs.ErrNotParticipant}, deleteErrs)
		assert.Len(t, fixture.repo.conversations, 1)
	})
}

func TestGetUnreadTotal(t *testing.T) {
	fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"), testUser(3, "carol"))

	_, startErrs := fixture.service.StartConversation(1, 2, "for bob")
	require.Empty(t, startErrs)
	carolResponse, startErrs := fixture.service.StartConversation(3, 2, "for bob too")
	require.Empty(t, startErrs)
	_, sendErrs := fixture.service.SendMessage(carolResponse.Conversation.ID, 3, "and again", nil, nil)
	require.Empty(t, sendErrs)

	total, totalErrs := fixture.service.GetUnreadTotal(2)
	require.Empty(t, totalErrs)
	assert.Equal(t, int64(3), total)

	aliceTotal, totalErrs := fixture.service.GetUnreadTotal(1)
	require.Empty(t, totalErrs)
	assert.Zero(t, aliceTotal)
}

func TestTyping(t *testing.T) {
	t.Run("relays the indicator to the other participant", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"))
		response, startErrs := fixture.service.StartConversation(1, 2, "hello")
		require.Empty(t, startErrs)

		require.Empty(t, fixture.service.Typing(response.Conversation.ID, 1, true))
		require.Empty(t, fixture.service.Typing(response.Conversation.ID, 1, false))

		require.Len(t, fixture.gateway.typings, 2)
		assert.Equal(t, emittedTyping{receiverID: 2, conversationID: response.Conversation.ID, userID: 1, isTyping: true}, fixture.gateway.typings[0])
		assert.False(t, fixture.gateway.typings[1].isTyping)
	})

	t.Run("non-participant is forbidden", func(t *testing.T) {
		fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"), testUser(3, "carol"))
		response, startErrs := fixture.service.StartConversation(1, 2, "hello")
		require.Empty(t, startErrs)

		typingErrs := fixture.service.Typing(response.Conversation.ID, 3, true)
		assert.Equal(t, []error{errs.ErrNotParticipant}, typingErrs)
		assert.Empty(t, fixture.gateway.typings)
	})
}

func TestGetUserConversations(t *testing.T) {
	fixture := newChatServiceFixture(testUser(1, "alice"), testUser(2, "bob"), testUser(3, "carol"))

	_, startErrs := fixture.service.StartConversation(1, 2, "hey bob")
	require.Empty(t, startErrs)
	_, startErrs = fixture.service.StartConversation(3, 1, "hey alice")
	require.Empty(t, startErrs)

	list, listErrs := fixture.service.GetUserConversations(1, 1, 10)
	require.Empty(t, listErrs)
	assert.Equal(t, int64(2), list.Total)
	require.Len(t, list.Conversations, 2)

	// Each entry names the counterpart, never the caller.
	for _, conversation := range list.Conversations {
		require.NotNil(t, conversation.OtherUser)
		assert.NotEqual(t, uint(1), conversation.OtherUser.ID)
	}

	// Carol only sees her own conversation.
	carolList, listErrs := fixture.service.GetUserConversations(3, 1, 10)
	require.Empty(t, listErrs)
	require.Len(t, carolList.Conversations, 1)
	assert.Equal(t, uint(1), carolList.Conversations[0].OtherUser.ID)
	assert.Zero(t, carolList.Conversations[0].Unread)
}
