package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tankgo/internal/bootstrap/logging"
	"tankgo/internal/errs"
	"tankgo/internal/usecase/accounts"
	"tankgo/internal/usecase/health"
	"tankgo/internal/usecase/stations"
)

const maxBodyBytes = 1 << 20

const (
	messageInternal = "Error interno del servidor."
)

type Deps struct {
	Accounts *accounts.Service
	Stations *stations.Service
	Probe    *health.Probe
}

type handler struct {
	accounts *accounts.Service
	stations *stations.Service
	probe    *health.Probe
}

// NewRouter exposes the accounts, favorites, stations and health endpoints.
func NewRouter(deps Deps) http.Handler {
	h := &handler{accounts: deps.Accounts, stations: deps.Stations, probe: deps.Probe}

	router := mux.NewRouter()
	router.Use(recoverMiddleware, logMiddleware)
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(notFound)

	router.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)

	users := router.PathPrefix("/api/usuarios").Subrouter()
	users.HandleFunc("/register", h.handleRegister).Methods(http.MethodPost)
	users.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost)

	authed := users.NewRoute().Subrouter()
	authed.Use(h.requireAuth)
	authed.HandleFunc("/me", h.handleMe).Methods(http.MethodGet)
	authed.HandleFunc("/", h.handleListUsers).Methods(http.MethodGet)
	authed.HandleFunc("/favoritos", h.handleListFavorites).Methods(http.MethodGet)
	authed.HandleFunc("/favoritos", h.handleAddFavorite).Methods(http.MethodPost)
	authed.HandleFunc("/favoritos/{ideess}", h.handleRemoveFavorite).Methods(http.MethodDelete)

	router.HandleFunc("/api/gasolineras", h.handleListStations).Methods(http.MethodGet)
	router.HandleFunc("/api/gasolineras/", h.handleListStations).Methods(http.MethodGet)
	router.HandleFunc("/api/gasolineras/count", h.handleCountStations).Methods(http.MethodGet)
	router.HandleFunc("/api/gasolineras/{ideess}", h.handleGetStation).Methods(http.MethodGet)

	return router
}

type errorBody struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Details []fieldMessage `json:"details,omitempty"`
}

type fieldMessage struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return errs.Wrap(err, "decode body")
	}
	return nil
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{
		Error:   "Ruta no encontrada",
		Message: fmt.Sprintf("La ruta %s %s no existe en este servidor", r.Method, r.URL.RequestURI()),
	})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Error(r.Context(), "request failed", slog.Any("err", errs.Loggable(err)))
	writeError(w, http.StatusInternalServerError, messageInternal)
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithAttrs(r.Context(),
			slog.String("component", "transport.httpapi"),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r.WithContext(ctx))
		logging.Debug(ctx, "request served", slog.Int("status", recorder.status), slog.Duration("elapsed", time.Since(start)))
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				internalError(w, r, errors.New(fmt.Sprint("panic: ", rec)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
