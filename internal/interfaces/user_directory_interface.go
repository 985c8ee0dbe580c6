package interfaces

import "marketChat/internal/models"

// UserDirectory resolves counterpart users for conversation creation:
// existence plus the allow-incoming-messages preference.
type UserDirectory interface {
	GetUserById(userID uint) (*models.User, error)
}
