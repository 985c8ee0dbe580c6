package errs

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody = Error("invalid request body")
	ErrInvalidRequest     = Error("invalid request")
	ErrInvalidParams      = Error("invalid params")
	ErrUnauthorized       = Error("unauthorized")
	ErrInvalidToken       = Error("invalid token")
	ErrUserAlreadyExists  = Error("user already exists")
	ErrUserNotFound       = Error("user not found")
	ErrWrongPassword      = Error("wrong password")
	ErrInvalidEmail       = Error("invalid email")
	ErrInvalidPassword    = Error("invalid password")
	ErrInvalidUser        = Error("invalid user")
	ErrFirstName          = Error("first name is empty or too short")
	ErrLastName           = Error("last name is empty or too short")

	ErrSelfConversation      = Error("cannot start a conversation with yourself")
	ErrMessagesDisabled      = Error("recipient does not accept messages")
	ErrConversationNotFound  = Error("conversation not found")
	ErrMessageNotFound       = Error("message not found")
	ErrNotParticipant        = Error("user is not a participant of this conversation")
	ErrWrongDeleteScope      = Error("requester cannot delete this side of the message")
	ErrInvalidDeleteScope    = Error("invalid delete scope")
	ErrEmptyMessageContent   = Error("message content is empty")
	ErrMessageContentTooLong = Error("message content exceeds maximum length")
	ErrInvalidConversationId = Error("invalid conversation id")
	ErrInvalidMessageId      = Error("invalid message id")

	ErrNoFileUploaded           = Error("no file uploaded")
	ErrUnableToOpenUploadedFile = Error("unable to open uploaded file")
	ErrUnableToUploadFile       = Error("unable to upload file")
)
