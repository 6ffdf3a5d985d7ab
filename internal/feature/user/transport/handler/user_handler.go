// Package handler provides the HTTP handlers for the user feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"account_backend/internal/feature/user/domain/credential"
	"account_backend/internal/feature/user/domain/entity"
	"account_backend/internal/feature/user/transport/http/dto"
	"account_backend/internal/feature/user/usecase"
)

// Client-facing messages.
const (
	MsgRegistered      = "Account registered!"
	MsgDuplicate       = "Username or e-mail already exists"
	MsgUserNotFound    = "User not found"
	MsgPasswordInvalid = "Password invalid"
	MsgNotVerified     = "Your email address is not verified"
	MsgTaken           = "taken"
	MsgAvailable       = "available"
	MsgInvalidBody     = "Invalid request body"
	MsgNoFields        = "No fields to update"
	MsgStoreTimeout    = "Service temporarily unavailable, please retry"
	MsgInternalError   = "Something went wrong"
	MsgImmutableField  = "Field cannot be updated: "
)

const (
	paramUserID         = "userId"
	paramUsername       = "username"
	paramEmail          = "email"
	logKeyRemoteAddress = "remote_addr"
)

// UserUsecase defines the account operations the handler depends on.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type UserUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
	Authenticate(ctx context.Context, username, password string) (*usecase.AuthResult, error)
	CheckUsername(ctx context.Context, username string) (bool, error)
	CheckEmail(ctx context.Context, email string) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateUser(ctx context.Context, id string, fields map[string]any) (*entity.User, error)
}

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// Register handles POST /api/user/register.
//   - missing or invalid fields: 400
//   - username or email taken: 409
//   - success: 201
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register bind failed", "error", err, logKeyRemoteAddress, c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.MessageRes{Message: MsgInvalidBody})
		return
	}

	user, err := h.users.Register(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, "register", err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username, logKeyRemoteAddress, c.ClientIP())
	c.JSON(http.StatusCreated, dto.MessageRes{Success: true, Message: MsgRegistered})
}

// Authenticate handles POST /api/user/authenticate and returns a signed token.
func (h *UserHandler) Authenticate(c *gin.Context) {
	var req dto.AuthenticateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("authenticate bind failed", "error", err, logKeyRemoteAddress, c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.MessageRes{Message: MsgInvalidBody})
		return
	}

	res, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, "authenticate", err)
		return
	}

	slog.Info("user login successful", "user_id", res.User.ID, logKeyRemoteAddress, c.ClientIP())
	c.JSON(http.StatusOK, dto.AuthRes{
		Success: true,
		Token:   res.Token,
		User:    dto.AuthUser{Username: res.User.Username},
	})
}

// CheckUsername handles GET /api/user/checkUsername/:username.
func (h *UserHandler) CheckUsername(c *gin.Context) {
	free, err := h.users.CheckUsername(c.Request.Context(), c.Param(paramUsername))
	h.availability(c, "check username", free, err)
}

// CheckEmail handles GET /api/user/checkEmail/:email.
func (h *UserHandler) CheckEmail(c *gin.Context) {
	free, err := h.users.CheckEmail(c.Request.Context(), c.Param(paramEmail))
	h.availability(c, "check email", free, err)
}

// GetProfile handles GET /api/user/profile/:userId.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param(paramUserID))
	if err != nil {
		h.fail(c, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, dto.UserRes{Success: true, User: dto.NewPublicUser(user)})
}

// GetProfileByUsername handles POST /api/user/profile with {"username": ...}.
func (h *UserHandler) GetProfileByUsername(c *gin.Context) {
	var req dto.ProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("profile bind failed", "error", err, logKeyRemoteAddress, c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.MessageRes{Message: MsgInvalidBody})
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		h.fail(c, "get profile by username", err)
		return
	}
	c.JSON(http.StatusOK, dto.UserRes{Success: true, User: dto.NewPublicUser(user)})
}

// Update handles PUT /api/user/update/:userId with a JSON object of fields to change.
func (h *UserHandler) Update(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		slog.Warn("update bind failed", "error", err, logKeyRemoteAddress, c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.MessageRes{Message: MsgInvalidBody})
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), c.Param(paramUserID), fields)
	if err != nil {
		h.fail(c, "update user", err)
		return
	}

	slog.Info("user updated", "user_id", user.ID, logKeyRemoteAddress, c.ClientIP())
	c.JSON(http.StatusOK, dto.UserRes{Success: true, User: dto.NewPublicUser(user)})
}

func (h *UserHandler) availability(c *gin.Context, op string, free bool, err error) {
	if err != nil {
		h.fail(c, op, err)
		return
	}
	if free {
		c.JSON(http.StatusOK, dto.MessageRes{Success: true, Message: MsgAvailable})
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Success: false, Message: MsgTaken})
}

// fail maps a usecase error to a status and client message.
// Store and internal failures are logged with detail and answered generically.
func (h *UserHandler) fail(c *gin.Context, op string, err error) {
	status, msg := errorResponse(err)
	if status >= http.StatusInternalServerError {
		slog.Error(op+" failed", "error", err, logKeyRemoteAddress, c.ClientIP())
	} else {
		slog.Warn(op+" failed", "error", err, logKeyRemoteAddress, c.ClientIP())
	}
	c.JSON(status, dto.MessageRes{Message: msg})
}

func errorResponse(err error) (int, string) {
	var (
		missing   *usecase.MissingFieldError
		invalid   *credential.ValidationError
		dup       *usecase.DuplicateKeyError
		immutable *usecase.ImmutableFieldError
	)
	switch {
	case errors.As(err, &missing):
		return http.StatusBadRequest, missing.Message
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Reason
	case errors.As(err, &immutable):
		return http.StatusBadRequest, MsgImmutableField + immutable.Field
	case errors.Is(err, usecase.ErrNoFields):
		return http.StatusBadRequest, MsgNoFields
	case errors.As(err, &dup):
		return http.StatusConflict, MsgDuplicate
	case errors.Is(err, usecase.ErrUserNotFound):
		return http.StatusNotFound, MsgUserNotFound
	case errors.Is(err, usecase.ErrInvalidPassword):
		return http.StatusUnauthorized, MsgPasswordInvalid
	case errors.Is(err, usecase.ErrNotVerified):
		return http.StatusUnauthorized, MsgNotVerified
	case errors.Is(err, usecase.ErrStoreTimeout):
		return http.StatusServiceUnavailable, MsgStoreTimeout
	default:
		return http.StatusInternalServerError, MsgInternalError
	}
}
