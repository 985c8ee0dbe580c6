package interfaces

// Notifier is the fire-and-forget notification side-channel. Callers log and
// swallow the returned error; it must never fail the triggering operation.
type Notifier interface {
	Notify(userID uint, kind string, payload interface{}) error
}
