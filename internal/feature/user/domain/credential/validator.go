// Package credential holds the pure validation rules for user credentials.
// Each validator checks its rules in order and reports the first failure.
package credential

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	minUsernameLength = 5
	maxUsernameLength = 15
	minPasswordLength = 8
	maxPasswordLength = 35
	// bcrypt rejects inputs longer than 72 bytes.
	maxPasswordBytes = 72
	maxEmailLength   = 254
)

// Field names reported in ValidationError.
const (
	FieldEmail    = "email"
	FieldUsername = "username"
	FieldPassword = "password"
)

// Messages reported for each failing rule.
const (
	MsgEmailRequired    = "You must provide an e-mail"
	MsgEmailInvalid     = "E-mail must be a valid e-mail address"
	MsgUsernameRequired = "You must provide a username"
	MsgUsernameLength   = "Username must be at least 5 characters but no more than 15"
	MsgUsernameFormat   = "Username must not have any special characters"
	MsgPasswordRequired = "You must provide a password"
	MsgPasswordLength   = "Password must be at least 8 characters but no more than 35"
	MsgPasswordFormat   = "Must have at least one uppercase, lowercase, special character, and number"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

	// RE2 has no lookahead, so each complexity class is its own pattern.
	passwordClasses = []*regexp.Regexp{
		regexp.MustCompile(`[a-z]`),
		regexp.MustCompile(`[A-Z]`),
		regexp.MustCompile(`\d`),
		regexp.MustCompile(`\W`),
	}

	emailValidator = validator.New()
)

// ValidationError describes the first rule a field failed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateUsername checks presence, length in [5,15] and the ASCII alphanumeric charset.
func ValidateUsername(username string) error {
	if username == "" {
		return &ValidationError{Field: FieldUsername, Reason: MsgUsernameRequired}
	}
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return &ValidationError{Field: FieldUsername, Reason: MsgUsernameLength}
	}
	if !usernamePattern.MatchString(username) {
		return &ValidationError{Field: FieldUsername, Reason: MsgUsernameFormat}
	}
	return nil
}

// ValidatePassword checks presence, length in [8,35] and that the password
// mixes lowercase, uppercase, digit and special characters.
func ValidatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: FieldPassword, Reason: MsgPasswordRequired}
	}
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength || n > maxPasswordLength || len(password) > maxPasswordBytes {
		return &ValidationError{Field: FieldPassword, Reason: MsgPasswordLength}
	}
	for _, class := range passwordClasses {
		if !class.MatchString(password) {
			return &ValidationError{Field: FieldPassword, Reason: MsgPasswordFormat}
		}
	}
	return nil
}

// ValidateEmail checks presence and address syntax.
func ValidateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: FieldEmail, Reason: MsgEmailRequired}
	}
	if len(email) > maxEmailLength || emailValidator.Var(email, "email") != nil {
		return &ValidationError{Field: FieldEmail, Reason: MsgEmailInvalid}
	}
	return nil
}
