package enums

const (
	DELETE_SCOPE_SENDER   = "sender"
	DELETE_SCOPE_RECEIVER = "receiver"
	DELETE_SCOPE_BOTH     = "both"
)
