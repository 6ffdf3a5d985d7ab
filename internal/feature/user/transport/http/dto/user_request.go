// Package dto defines data transfer objects for the user feature's HTTP transport layer.
package dto

// RegisterReq is the body of POST /api/user/register.
// Presence is checked by the usecase so each missing field gets its own message.
type RegisterReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthenticateReq is the body of POST /api/user/authenticate.
type AuthenticateReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileReq is the body of POST /api/user/profile.
type ProfileReq struct {
	Username string `json:"username"`
}
