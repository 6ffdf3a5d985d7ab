// Package entity defines the domain entities for the user feature.
package entity

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// User represents a registered account.
// Username and Email are stored lower-cased so uniqueness is case-insensitive.
type User struct {
	// ID is the opaque identifier assigned by the store on creation.
	ID string `gorm:"primaryKey;size:36" bson:"_id"`

	// Email is the user's contact address. It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null" bson:"email"`

	// Username is the login name. It must be unique across all users.
	Username string `gorm:"uniqueIndex;size:15;not null" bson:"username"`

	// PasswordHash is the bcrypt hash of the password. Never the plaintext.
	PasswordHash string `gorm:"size:255;not null" bson:"password_hash"`

	// SignupDate is set once at creation.
	SignupDate time.Time `gorm:"not null" bson:"signup_date"`

	// LastLogin is updated on each successful authentication.
	LastLogin *time.Time `bson:"last_login,omitempty"`

	IsVerified bool `gorm:"not null;default:false" bson:"is_verified"`

	UpdatedAt time.Time `bson:"updated_at"`
}

// Gravatar returns the retro-style avatar URL derived from the user's email.
func (u *User) Gravatar() string {
	if u.Email == "" {
		return "https://gravatar.com/avatar/?s=200&d=retro"
	}
	sum := md5.Sum([]byte(u.Email))
	return "https://gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&d=retro"
}
