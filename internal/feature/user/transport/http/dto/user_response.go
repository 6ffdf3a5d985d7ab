package dto

import (
	"time"

	"account_backend/internal/feature/user/domain/entity"
)

// MessageRes is the envelope for every failure and for messages without data.
type MessageRes struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PublicUser is the client-facing view of a user. It never carries the password hash.
type PublicUser struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Username   string     `json:"username"`
	SignupDate time.Time  `json:"signupDate"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	IsVerified bool       `json:"isVerified"`
	Gravatar   string     `json:"gravatar"`
}

// UserRes wraps a single user.
type UserRes struct {
	Success bool       `json:"success"`
	User    PublicUser `json:"user"`
}

// AuthUser is the user summary returned on login.
type AuthUser struct {
	Username string `json:"username"`
}

// AuthRes is the body of a successful login.
type AuthRes struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    AuthUser `json:"user"`
}

// NewPublicUser converts an entity.User to its public representation.
func NewPublicUser(u *entity.User) PublicUser {
	return PublicUser{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		SignupDate: u.SignupDate,
		LastLogin:  u.LastLogin,
		IsVerified: u.IsVerified,
		Gravatar:   u.Gravatar(),
	}
}
