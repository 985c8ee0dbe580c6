package msgs

const (
	MsgOperationSuccessful     = "operation successful"
	MsgOperationFailed         = "operation failed"
	MsgUserCreatedSuccessfully = "user created successfully"
	MsgYouMustLoginFirst       = "you must login first"
	MsgConversationMarkedRead  = "conversation marked as read"
	MsgMessageDeleted          = "message deleted"
	MsgConversationDeleted     = "conversation deleted"
)
