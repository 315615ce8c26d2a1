package remote

import (
	"context"
	"encoding/json"
	"net/http"

	"tankgo/internal/domain/accounts"
	"tankgo/internal/domain/favorites"
	"tankgo/internal/errs"
	"tankgo/internal/ports"
)

// AuthClient talks to the account endpoints under AuthPath.
type AuthClient struct {
	api apiClient
}

var _ ports.AuthRemote = (*AuthClient)(nil)

func NewAuthClient(client *http.Client, endpoints Endpoints) *AuthClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &AuthClient{api: apiClient{http: client, endpoints: endpoints}}
}

func (c *AuthClient) Login(ctx context.Context, email string, password string) (string, error) {
	target, err := c.api.endpoints.resolve(c.api.endpoints.AuthPath, "login")
	if err != nil {
		return "", err
	}

	resp, err := c.api.do(ctx, http.MethodPost, target, "", map[string]string{"email": email, "password": password})
	if err != nil {
		return "", &favorites.NetworkError{Op: "login", Err: err}
	}
	if !resp.ok() {
		return "", favorites.RejectedFromBody("login", resp.status, resp.body, "Error al iniciar sesión")
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return "", errs.Wrap(err, "decode login response")
	}
	if payload.Token == "" {
		return "", &favorites.RemoteRejectedError{Op: "login", Status: resp.status, Message: "Error al iniciar sesión"}
	}
	return payload.Token, nil
}

func (c *AuthClient) Register(ctx context.Context, input ports.RegisterInput) (accounts.Profile, error) {
	target, err := c.api.endpoints.resolve(c.api.endpoints.AuthPath, "register")
	if err != nil {
		return accounts.Profile{}, err
	}

	resp, err := c.api.do(ctx, http.MethodPost, target, "", input)
	if err != nil {
		return accounts.Profile{}, &favorites.NetworkError{Op: "register", Err: err}
	}
	if !resp.ok() {
		return accounts.Profile{}, favorites.RejectedFromBody("register", resp.status, resp.body, "Error al registrar usuario")
	}

	var profile accounts.Profile
	if err := json.Unmarshal(resp.body, &profile); err != nil {
		return accounts.Profile{}, errs.Wrap(err, "decode register response")
	}
	return profile, nil
}

func (c *AuthClient) Me(ctx context.Context, token string) (accounts.Profile, error) {
	target, err := c.api.endpoints.resolve(c.api.endpoints.AuthPath, "me")
	if err != nil {
		return accounts.Profile{}, err
	}

	resp, err := c.api.do(ctx, http.MethodGet, target, token, nil)
	if err != nil {
		return accounts.Profile{}, &favorites.NetworkError{Op: "me", Err: err}
	}
	if !resp.ok() {
		return accounts.Profile{}, favorites.RejectedFromBody("me", resp.status, resp.body, "No autorizado")
	}

	var profile accounts.Profile
	if err := json.Unmarshal(resp.body, &profile); err != nil {
		return accounts.Profile{}, errs.Wrap(err, "decode profile")
	}
	return profile, nil
}
