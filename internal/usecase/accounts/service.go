package accounts

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tankgo/internal/bootstrap/logging"
	domainaccounts "tankgo/internal/domain/accounts"
	"tankgo/internal/errs"
	"tankgo/internal/infrastructure/persistence/sqlite/model"
	"tankgo/internal/ports"
)

type Service struct {
	repo   ports.AccountRepository
	uow    ports.UnitOfWork
	tokens *TokenIssuer
	cost   int
	now    func() time.Time
}

func NewService(repo ports.AccountRepository, uow ports.UnitOfWork, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, uow: uow, tokens: tokens, cost: bcrypt.DefaultCost, now: time.Now}
}

type RegisterInput struct {
	Nombre   string
	Email    string
	Password string
}

// Register validates input, hashes the password and creates the user.
func (s *Service) Register(ctx context.Context, input RegisterInput) (domainaccounts.Profile, error) {
	if ctx == nil {
		return domainaccounts.Profile{}, errors.New("context is required")
	}
	logCtx := logging.WithComponent(ctx, "usecase.accounts")

	nombre := domainaccounts.SanitizeName(input.Nombre)
	if nombre == "" {
		return domainaccounts.Profile{}, &domainaccounts.ValidationError{Field: "nombre", Message: "El nombre es requerido."}
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := domainaccounts.ValidateEmail(email); err != nil {
		return domainaccounts.Profile{}, err
	}
	if err := domainaccounts.ValidateStrongPassword(input.Password); err != nil {
		return domainaccounts.Profile{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return domainaccounts.Profile{}, errs.Wrap(err, "hash password")
	}

	var created ports.UserRecord
	if err := s.uow.WithTx(logCtx, func(txCtx context.Context) error {
		row, err := s.repo.CreateUser(txCtx, ports.UserRecord{
			Nombre:       nombre,
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    model.FormatTime(s.now()),
		})
		if err != nil {
			return err
		}
		created = row
		return nil
	}); err != nil {
		if errors.Is(err, domainaccounts.ErrEmailTaken) {
			return domainaccounts.Profile{}, err
		}
		return domainaccounts.Profile{}, errs.Wrap(err, "create user")
	}

	logging.Info(logCtx, "user registered", slog.Uint64("user_id", created.UserID))
	return profileOf(created), nil
}

// Login checks credentials and issues a token.
func (s *Service) Login(ctx context.Context, email string, password string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	logCtx := logging.WithComponent(ctx, "usecase.accounts")

	user, err := s.repo.GetUserByEmail(logCtx, email)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return "", domainaccounts.ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		logging.Info(logCtx, "login rejected", slog.Uint64("user_id", user.UserID))
		return "", domainaccounts.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(profileOf(user))
	if err != nil {
		return "", errs.Wrap(err, "issue token")
	}
	return token, nil
}

// Authenticate verifies a bearer token and returns its profile.
func (s *Service) Authenticate(token string) (domainaccounts.Profile, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return domainaccounts.Profile{}, err
	}
	return claims.Profile(), nil
}

func (s *Service) ListUsers(ctx context.Context, caller domainaccounts.Profile) ([]domainaccounts.Profile, error) {
	if !caller.IsAdmin {
		return nil, domainaccounts.ErrForbidden
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domainaccounts.Profile, 0, len(users))
	for _, user := range users {
		out = append(out, profileOf(user))
	}
	return out, nil
}

// PromoteAdmin grants admin rights by email; used from the CLI only.
func (s *Service) PromoteAdmin(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.repo.SetAdmin(ctx, user.UserID, true)
}

// AddFavorite reports whether the station was newly added.
func (s *Service) AddFavorite(ctx context.Context, caller domainaccounts.Profile, stationID string) (bool, error) {
	id := strings.TrimSpace(stationID)
	if id == "" {
		return false, &domainaccounts.ValidationError{Field: "ideess", Message: "IDEESS requerido."}
	}
	return s.repo.AddFavorite(ctx, caller.ID, id, s.now())
}

func (s *Service) RemoveFavorite(ctx context.Context, caller domainaccounts.Profile, stationID string) error {
	removed, err := s.repo.RemoveFavorite(ctx, caller.ID, stationID)
	if err != nil {
		return err
	}
	if !removed {
		return domainaccounts.ErrFavoriteNotFound
	}
	return nil
}

func (s *Service) ListFavorites(ctx context.Context, caller domainaccounts.Profile) ([]ports.FavoriteRecord, error) {
	return s.repo.ListFavorites(ctx, caller.ID)
}

func profileOf(user ports.UserRecord) domainaccounts.Profile {
	return domainaccounts.Profile{
		ID:      user.UserID,
		Nombre:  user.Nombre,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}
}
