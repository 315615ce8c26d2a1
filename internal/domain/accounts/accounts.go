package accounts

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenExpired       = errors.New("token expired")
	ErrForbidden          = errors.New("admin access required")
	ErrFavoriteNotFound   = errors.New("favorite not found")
	ErrSigningKeyMissing  = errors.New("token signing key is not configured")
)

// Profile is the public view of a user, also carried inside issued tokens.
type Profile struct {
	ID      uint64 `json:"id"`
	Nombre  string `json:"nombre"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// ValidationError is a rejected input field with a user-facing message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
