package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"tankgo/internal/bootstrap/logging"
	domainaccounts "tankgo/internal/domain/accounts"
)

type profileKey struct{}

func withProfile(ctx context.Context, profile domainaccounts.Profile) context.Context {
	return context.WithValue(ctx, profileKey{}, profile)
}

func profileFrom(ctx context.Context) (domainaccounts.Profile, bool) {
	profile, ok := ctx.Value(profileKey{}).(domainaccounts.Profile)
	return profile, ok
}

// requireAuth verifies the bearer token and stores its profile in the request context.
func (h *handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		scheme, token, found := strings.Cut(header, " ")
		if header == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized", Message: "Token no proporcionado"})
			return
		}
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized", Message: "Token inválido"})
			return
		}

		profile, err := h.accounts.Authenticate(token)
		if err != nil {
			message := "Token inválido"
			if errors.Is(err, domainaccounts.ErrTokenExpired) {
				message = "Token expirado"
			}
			if errors.Is(err, domainaccounts.ErrSigningKeyMissing) {
				internalError(w, r, err)
				return
			}
			logging.Info(r.Context(), "token rejected", slog.String("reason", message))
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized", Message: message})
			return
		}

		ctx := logging.WithAttrs(withProfile(r.Context(), profile), slog.Uint64("user_id", profile.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
