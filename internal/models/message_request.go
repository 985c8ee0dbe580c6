package models

type MessageRequest struct {
	ConversationID uint    `json:"conversation_id"`
	Content        string  `json:"content"`
	AttachmentURL  *string `json:"attachment_url"`
	AttachmentType *string `json:"attachment_type"`
}

type StartConversationRequestBody struct {
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
}
