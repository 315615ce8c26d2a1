package ports

import (
	"context"

	"tankgo/internal/domain/accounts"
)

type RegisterInput struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthRemote talks to the remote account endpoints.
type AuthRemote interface {
	Login(ctx context.Context, email string, password string) (token string, err error)
	Register(ctx context.Context, input RegisterInput) (accounts.Profile, error)
	Me(ctx context.Context, token string) (accounts.Profile, error)
}
