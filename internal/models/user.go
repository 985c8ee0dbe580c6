package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a marketplace account. Only the fields the messaging
// subsystem relies on are carried here; the directory flag AllowMessages
// gates whether strangers may open a conversation with this user.
type User struct {
	gorm.Model
	FirstName     string     `gorm:"not null" json:"first_name"`
	LastName      string     `gorm:"not null" json:"last_name"`
	ProfilePhoto  *string    `json:"profile_photo"`
	Email         string     `gorm:"unique;not null" json:"email"`
	PasswordHash  string     `gorm:"not null" json:"-"`
	Password      string     `gorm:"-" json:"password"`
	AllowMessages bool       `gorm:"default:true" json:"allow_messages"`
	IsOnline      bool       `gorm:"default:false" json:"is_online"`
	LastSeen      *time.Time `json:"last_seen"`
}

func (user *User) ToUserResponse() *UserResponse {
	return &UserResponse{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		ProfilePhoto: user.ProfilePhoto,
		IsOnline:     user.IsOnline,
		LastSeen:     user.LastSeen,
	}
}

func (user *User) ToProfileResponse() *ProfileResponse {
	return &ProfileResponse{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		ProfilePhoto:  user.ProfilePhoto,
		AllowMessages: user.AllowMessages,
	}
}
