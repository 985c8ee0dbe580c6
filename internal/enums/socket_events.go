package enums

// Server pushed events
const (
	SOCKET_EVENT_CONNECTED    = "connected"
	SOCKET_EVENT_NEW_MESSAGE  = "new-message"
	SOCKET_EVENT_MESSAGE_READ = "message-read"
	SOCKET_EVENT_USER_TYPING  = "user-typing"
	SOCKET_EVENT_ERROR        = "error"
)

// Client originated events
const (
	SOCKET_EVENT_TYPING             = "typing"
	SOCKET_EVENT_JOIN_CONVERSATION  = "join-conversation"
	SOCKET_EVENT_LEAVE_CONVERSATION = "leave-conversation"
)
