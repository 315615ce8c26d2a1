package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	domainaccounts "tankgo/internal/domain/accounts"
	"tankgo/internal/usecase/accounts"
)

type registerRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var input registerRequest
	if err := decodeJSON(r, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Error de validación", Message: "Los datos proporcionados no son válidos"})
		return
	}

	profile, err := h.accounts.Register(r.Context(), accounts.RegisterInput{
		Nombre:   input.Nombre,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		var validation *domainaccounts.ValidationError
		switch {
		case errors.As(err, &validation):
			writeJSON(w, http.StatusBadRequest, errorBody{
				Error:   validation.Message,
				Details: []fieldMessage{{Field: validation.Field, Message: validation.Message}},
			})
		case errors.Is(err, domainaccounts.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "El email ya está registrado.")
		default:
			internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":     profile.ID,
		"nombre": profile.Nombre,
		"email":  profile.Email,
	})
}

func (h *handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if err := decodeJSON(r, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Error de validación", Message: "Los datos proporcionados no son válidos"})
		return
	}

	token, err := h.accounts.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, domainaccounts.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Credenciales inválidas.")
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *handler) handleMe(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFrom(r.Context())
	writeJSON(w, http.StatusOK, profile)
}

func (h *handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFrom(r.Context())
	users, err := h.accounts.ListUsers(r.Context(), profile)
	if err != nil {
		if errors.Is(err, domainaccounts.ErrForbidden) {
			writeError(w, http.StatusForbidden, "Forbidden: Admin access required")
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type favoriteItem struct {
	StationID string `json:"ideess"`
	CreatedAt string `json:"created_at"`
}

func (h *handler) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFrom(r.Context())
	records, err := h.accounts.ListFavorites(r.Context(), profile)
	if err != nil {
		internalError(w, r, err)
		return
	}
	items := make([]favoriteItem, 0, len(records))
	for _, record := range records {
		items = append(items, favoriteItem{
			StationID: record.StationID,
			CreatedAt: record.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handler) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFrom(r.Context())

	var input struct {
		StationID string `json:"ideess"`
	}
	if err := decodeJSON(r, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Error de validación", Message: "Los datos proporcionados no son válidos"})
		return
	}

	added, err := h.accounts.AddFavorite(r.Context(), profile, input.StationID)
	if err != nil {
		var validation *domainaccounts.ValidationError
		if errors.As(err, &validation) {
			writeError(w, http.StatusBadRequest, validation.Message)
			return
		}
		internalError(w, r, err)
		return
	}

	id := strings.TrimSpace(input.StationID)
	if !added {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Favorito ya existe.", "ideess": id})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Favorito añadido.", "ideess": id})
}

func (h *handler) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFrom(r.Context())
	if err := h.accounts.RemoveFavorite(r.Context(), profile, mux.Vars(r)["ideess"]); err != nil {
		if errors.Is(err, domainaccounts.ErrFavoriteNotFound) {
			writeError(w, http.StatusNotFound, "Favorito no encontrado.")
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Favorito eliminado correctamente."})
}
