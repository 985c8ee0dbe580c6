package models_test

import (
	"strings"
	"testing"

	"marketChat/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPair(t *testing.T) {
	t.Run("already ordered", func(t *testing.T) {
		first, second := models.CanonicalPair(3, 7)
		assert.Equal(t, uint(3), first)
		assert.Equal(t, uint(7), second)
	})

	t.Run("swapped input yields the same pair", func(t *testing.T) {
		first, second := models.CanonicalPair(7, 3)
		assert.Equal(t, uint(3), first)
		assert.Equal(t, uint(7), second)
	})
}

func TestConversationParticipants(t *testing.T) {
	conversation := models.Conversation{
		ParticipantAID: 3,
		ParticipantBID: 7,
		UnreadForA:     2,
		UnreadForB:     5,
	}

	t.Run("has participant", func(t *testing.T) {
		assert.True(t, conversation.HasParticipant(3))
		assert.True(t, conversation.HasParticipant(7))
		assert.False(t, conversation.HasParticipant(9))
	})

	t.Run("other participant", func(t *testing.T) {
		assert.Equal(t, uint(7), conversation.OtherParticipant(3))
		assert.Equal(t, uint(3), conversation.OtherParticipant(7))
	})

	t.Run("unread is per side", func(t *testing.T) {
		assert.Equal(t, 2, conversation.UnreadFor(3))
		assert.Equal(t, 5, conversation.UnreadFor(7))
	})
}

func TestSnippet(t *testing.T) {
	t.Run("short content is untouched", func(t *testing.T) {
		assert.Equal(t, "hey there", models.Snippet("hey there"))
	})

	t.Run("long content is truncated to the limit", func(t *testing.T) {
		long := strings.Repeat("x", models.SnippetMaxLen+50)
		snippet := models.Snippet(long)
		assert.Len(t, snippet, models.SnippetMaxLen)
	})

	t.Run("truncation never splits a rune", func(t *testing.T) {
		long := strings.Repeat("é", models.SnippetMaxLen+1)
		snippet := models.Snippet(long)
		assert.Equal(t, models.SnippetMaxLen, len([]rune(snippet)))
		assert.Equal(t, strings.Repeat("é", models.SnippetMaxLen), snippet)
	})
}

func TestMessageVisibleTo(t *testing.T) {
	t.Run("untouched message is visible to both", func(t *testing.T) {
		message := models.Message{SenderID: 3}
		assert.True(t, message.VisibleTo(3))
		assert.True(t, message.VisibleTo(7))
	})

	t.Run("deleted by sender hides it from the sender only", func(t *testing.T) {
		message := models.Message{SenderID: 3, DeletedBySender: true}
		assert.False(t, message.VisibleTo(3))
		assert.True(t, message.VisibleTo(7))
	})

	t.Run("deleted by receiver hides it from the receiver only", func(t *testing.T) {
		message := models.Message{SenderID: 3, DeletedByReceiver: true}
		assert.True(t, message.VisibleTo(3))
		assert.False(t, message.VisibleTo(7))
	})

	t.Run("deleted for both hides it from everyone", func(t *testing.T) {
		message := models.Message{SenderID: 3, DeletedForBoth: true}
		assert.False(t, message.VisibleTo(3))
		assert.False(t, message.VisibleTo(7))
	})
}
