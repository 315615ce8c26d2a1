package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tankgo/internal/bootstrap/logging"
	domainaccounts "tankgo/internal/domain/accounts"
	"tankgo/internal/errs"
	"tankgo/internal/ports"
	"tankgo/internal/usecase/accounts"
)

const (
	tokenKey   = "session:token"
	profileKey = "session:profile"
)

// Session keeps the client's bearer token in the local key-value store.
type Session struct {
	remote ports.AuthRemote
	kv     ports.Cache
	now    func() time.Time
}

func New(remote ports.AuthRemote, kv ports.Cache) *Session {
	return &Session{remote: remote, kv: kv, now: time.Now}
}

// Login stores the issued token until its own expiry and caches the profile next to it.
func (s *Session) Login(ctx context.Context, email string, password string) (domainaccounts.Profile, error) {
	if ctx == nil {
		return domainaccounts.Profile{}, errors.New("context is required")
	}
	logCtx := logging.WithComponent(ctx, "usecase.session")

	token, err := s.remote.Login(logCtx, strings.TrimSpace(email), password)
	if err != nil {
		return domainaccounts.Profile{}, err
	}

	var ttl time.Duration
	if exp, ok := accounts.UnverifiedExpiry(token); ok {
		ttl = exp.Sub(s.now())
		if ttl <= 0 {
			return domainaccounts.Profile{}, domainaccounts.ErrTokenExpired
		}
	}

	profile, err := s.remote.Me(logCtx, token)
	if err != nil {
		return domainaccounts.Profile{}, errs.Wrap(err, "load profile")
	}
	encoded, err := json.Marshal(profile)
	if err != nil {
		return domainaccounts.Profile{}, errs.Wrap(err, "encode profile")
	}

	if err := s.kv.Set(logCtx, tokenKey, token, ttl); err != nil {
		return domainaccounts.Profile{}, errs.Wrap(err, "store token")
	}
	if err := s.kv.Set(logCtx, profileKey, string(encoded), ttl); err != nil {
		return domainaccounts.Profile{}, errs.Wrap(err, "store profile")
	}

	logging.Info(logCtx, "session started", slog.Uint64("user_id", profile.ID), slog.Duration("ttl", ttl))
	return profile, nil
}

// Register creates the account remotely; it does not start a session.
func (s *Session) Register(ctx context.Context, input ports.RegisterInput) (domainaccounts.Profile, error) {
	if ctx == nil {
		return domainaccounts.Profile{}, errors.New("context is required")
	}
	return s.remote.Register(logging.WithComponent(ctx, "usecase.session"), input)
}

func (s *Session) Logout(ctx context.Context) error {
	if err := s.kv.Delete(ctx, tokenKey); err != nil {
		return errs.Wrap(err, "delete token")
	}
	if err := s.kv.Delete(ctx, profileKey); err != nil {
		return errs.Wrap(err, "delete profile")
	}
	return nil
}

// Token returns the stored token, or "" when there is none or it has expired.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, found, err := s.kv.Get(ctx, tokenKey)
	if err != nil {
		return "", errs.Wrap(err, "read token")
	}
	if !found {
		return "", nil
	}
	return token, nil
}

// Profile returns the cached profile of the current session.
func (s *Session) Profile(ctx context.Context) (domainaccounts.Profile, bool, error) {
	raw, found, err := s.kv.Get(ctx, profileKey)
	if err != nil {
		return domainaccounts.Profile{}, false, errs.Wrap(err, "read profile")
	}
	if !found {
		return domainaccounts.Profile{}, false, nil
	}
	var profile domainaccounts.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return domainaccounts.Profile{}, false, errs.Wrap(err, "decode profile")
	}
	return profile, true, nil
}
