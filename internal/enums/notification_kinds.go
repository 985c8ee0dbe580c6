package enums

const (
	NOTIFICATION_KIND_NEW_MESSAGE = "new_message"
)

const (
	FILE_BUCKET_MESSAGE_ATTACHMENTS = "message-attachments"
)
