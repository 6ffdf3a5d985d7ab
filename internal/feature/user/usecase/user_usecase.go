package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"account_backend/internal/feature/user/domain/credential"
	"account_backend/internal/feature/user/domain/entity"
)

// DefaultStoreTimeout bounds every store call when Options.StoreTimeout is unset.
const DefaultStoreTimeout = 5 * time.Second

// Store field names accepted by UserRepository.UpdatePartial.
const (
	StoreFieldEmail        = "email"
	StoreFieldUsername     = "username"
	StoreFieldPasswordHash = "password_hash"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user and assigns its ID.
	// It returns *DuplicateKeyError when the username or email is taken.
	Create(ctx context.Context, user *entity.User) error

	// FindByID returns ErrUserNotFound when no user has the given ID.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByUsername expects an already lower-cased username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByEmail expects an already lower-cased email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// UpdatePartial merges fields (keyed by the StoreField constants) into the
	// user and returns the updated record.
	UpdatePartial(ctx context.Context, id string, fields map[string]any) (*entity.User, error)

	// TouchLastLogin records a successful authentication.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Check(plaintext, hashed string) bool
}

// TokenGenerator signs login tokens.
type TokenGenerator interface {
	GenerateToken(userID, username string) (string, error)
}

// Options tunes the usecase.
type Options struct {
	// StoreTimeout bounds each store call.
	StoreTimeout time.Duration
	// RequireVerified makes Authenticate reject unverified accounts.
	RequireVerified bool
}

// RegisterInput carries the fields submitted at registration.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// AuthResult is returned by a successful Authenticate.
type AuthResult struct {
	Token string
	User  *entity.User
}

// userUsecase implements the user credential lifecycle.
type userUsecase struct {
	users   UserRepository
	hasher  PasswordHasher
	tokens  TokenGenerator
	timeout time.Duration
	verify  bool
	now     func() time.Time
}

// NewUserUsecase creates a userUsecase.
func NewUserUsecase(users UserRepository, hasher PasswordHasher, tokens TokenGenerator, opts Options) *userUsecase {
	timeout := opts.StoreTimeout
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &userUsecase{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		timeout: timeout,
		verify:  opts.RequireVerified,
		now:     time.Now,
	}
}

// Register validates the input, hashes the password and stores a new user.
func (u *userUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	switch {
	case in.Email == "":
		return nil, &MissingFieldError{Field: credential.FieldEmail, Message: credential.MsgEmailRequired}
	case in.Username == "":
		return nil, &MissingFieldError{Field: credential.FieldUsername, Message: credential.MsgUsernameRequired}
	case in.Password == "":
		return nil, &MissingFieldError{Field: credential.FieldPassword, Message: credential.MsgPasswordRequired}
	}

	email := normalizeEmail(in.Email)
	username := strings.ToLower(in.Username)

	if err := credential.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := credential.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := credential.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		SignupDate:   u.now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	if err := u.users.Create(ctx, user); err != nil {
		return nil, classifyStoreError(err)
	}
	return user, nil
}

// Authenticate checks the credentials, records the login and issues a token.
// An unknown username yields ErrUserNotFound and a wrong password ErrInvalidPassword.
func (u *userUsecase) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" {
		return nil, &MissingFieldError{Field: credential.FieldUsername, Message: "No username was provided"}
	}
	if password == "" {
		return nil, &MissingFieldError{Field: credential.FieldPassword, Message: "No password was provided"}
	}

	user, err := u.findBy(ctx, u.users.FindByUsername, strings.ToLower(username))
	if err != nil {
		return nil, err
	}

	if !u.hasher.Check(password, user.PasswordHash) {
		return nil, ErrInvalidPassword
	}
	if u.verify && !user.IsVerified {
		return nil, ErrNotVerified
	}

	token, err := u.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := u.now().UTC()
	touchCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	if err := u.users.TouchLastLogin(touchCtx, user.ID, now); err != nil {
		// The token is already issued; a missed lastLogin write does not fail the login.
		slog.Warn("failed to record last login", "error", err, "user_id", user.ID)
	} else {
		user.LastLogin = &now
	}

	return &AuthResult{Token: token, User: user}, nil
}

// CheckUsername reports whether username is free for registration.
func (u *userUsecase) CheckUsername(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, &MissingFieldError{Field: credential.FieldUsername, Message: "Username was not provided"}
	}
	return u.available(ctx, u.users.FindByUsername, strings.ToLower(username))
}

// CheckEmail reports whether email is free for registration.
func (u *userUsecase) CheckEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, &MissingFieldError{Field: credential.FieldEmail, Message: "E-mail was not provided"}
	}
	return u.available(ctx, u.users.FindByEmail, normalizeEmail(email))
}

// GetByID returns the user with the given ID.
func (u *userUsecase) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if id == "" {
		return nil, &MissingFieldError{Field: "userId", Message: "User ID not provided"}
	}
	return u.findBy(ctx, u.users.FindByID, id)
}

// GetByUsername returns the user with the given username.
func (u *userUsecase) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	if username == "" {
		return nil, &MissingFieldError{Field: credential.FieldUsername, Message: "Username not provided"}
	}
	return u.findBy(ctx, u.users.FindByUsername, strings.ToLower(username))
}

// UpdateUser applies an allow-listed partial update.
// Only email, username and password may change; each is validated, and a new
// password is hashed before it reaches the store.
func (u *userUsecase) UpdateUser(ctx context.Context, id string, fields map[string]any) (*entity.User, error) {
	if id == "" {
		return nil, &MissingFieldError{Field: "userId", Message: "No user id provided"}
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	update := make(map[string]any, len(fields))
	for _, k := range keys {
		switch k {
		case credential.FieldEmail, credential.FieldUsername, credential.FieldPassword:
		default:
			return nil, &ImmutableFieldError{Field: k}
		}

		value, ok := fields[k].(string)
		if !ok {
			return nil, &credential.ValidationError{Field: k, Reason: fmt.Sprintf("%s must be a string", k)}
		}

		switch k {
		case credential.FieldEmail:
			email := normalizeEmail(value)
			if err := credential.ValidateEmail(email); err != nil {
				return nil, err
			}
			update[StoreFieldEmail] = email
		case credential.FieldUsername:
			username := strings.ToLower(value)
			if err := credential.ValidateUsername(username); err != nil {
				return nil, err
			}
			update[StoreFieldUsername] = username
		case credential.FieldPassword:
			if err := credential.ValidatePassword(value); err != nil {
				return nil, err
			}
			hashed, err := u.hasher.Hash(value)
			if err != nil {
				return nil, err
			}
			update[StoreFieldPasswordHash] = hashed
		}
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	user, err := u.users.UpdatePartial(ctx, id, update)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return user, nil
}

func (u *userUsecase) findBy(ctx context.Context, find func(context.Context, string) (*entity.User, error), key string) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	user, err := find(ctx, key)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return user, nil
}

func (u *userUsecase) available(ctx context.Context, find func(context.Context, string) (*entity.User, error), key string) (bool, error) {
	_, err := u.findBy(ctx, find, key)
	if errors.Is(err, ErrUserNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// classifyStoreError keeps domain errors as they are and folds everything
// else into ErrStoreTimeout or ErrStoreUnavailable.
func classifyStoreError(err error) error {
	var dup *DuplicateKeyError
	switch {
	case errors.Is(err, ErrUserNotFound), errors.As(err, &dup),
		errors.Is(err, ErrStoreTimeout), errors.Is(err, ErrStoreUnavailable):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrStoreTimeout, err)
	default:
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
