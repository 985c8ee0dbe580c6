package models

import "time"

type ConversationResponse struct {
	ID                 uint          `json:"id"`
	OtherUser          *UserResponse `json:"other_user"`
	LastMessageAt      *time.Time    `json:"last_message_at"`
	LastMessageSnippet string        `json:"last_message_snippet"`
	Unread             int           `json:"unread"`
}

type StartConversationResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	Message      *Message             `json:"message"`
}
