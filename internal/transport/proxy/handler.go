package proxy

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"tankgo/internal/bootstrap/logging"
	domainoffline "tankgo/internal/domain/offline"
	"tankgo/internal/errs"
	"tankgo/internal/infrastructure/remote"
	"tankgo/internal/usecase/offline"
)

// SourceHeader tells the client which layer answered.
const SourceHeader = "X-Tankgo-Source"

const maxControlBody = 1 << 20

var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

type handler struct {
	host   *offline.Host
	origin *url.URL
}

// NewHandler serves the control endpoints and forwards every other request to origin
// through host. Absolute request URIs (forward-proxy use) keep their own host.
func NewHandler(host *offline.Host, origin *url.URL) (http.Handler, error) {
	if host == nil {
		return nil, errors.New("host is required")
	}
	if origin == nil || !origin.IsAbs() || origin.Host == "" {
		return nil, errors.New("proxy origin must be an absolute url")
	}
	h := &handler{host: host, origin: origin}

	router := mux.NewRouter()
	router.HandleFunc(remote.ControlMessagePath, h.handleMessage).Methods(http.MethodPost)
	router.HandleFunc(remote.ControlSyncPath, h.handleSync).Methods(http.MethodPost)
	router.HandleFunc(remote.ControlStatusPath, h.handleStatus).Methods(http.MethodGet)
	router.PathPrefix("/").Handler(http.HandlerFunc(h.forward))
	return router, nil
}

func (h *handler) forward(w http.ResponseWriter, r *http.Request) {
	ctx := logging.WithAttrs(r.Context(),
		slog.String("component", "transport.proxy"),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	req, err := domainoffline.FromHTTPRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !r.URL.IsAbs() {
		req.URL.Scheme = h.origin.Scheme
		req.URL.Host = h.origin.Host
	}
	for _, name := range hopHeaders {
		req.Header.Del(name)
	}

	resp, err := h.host.Handle(ctx, req)
	if err != nil {
		logging.Warn(ctx, "proxy request failed", slog.Any("err", errs.Loggable(err)))
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":   "Fallo en proxy hacia el origen",
			"message": err.Error(),
		})
		return
	}

	header := w.Header()
	for name, values := range resp.Header {
		header[name] = append([]string(nil), values...)
	}
	for _, name := range hopHeaders {
		header.Del(name)
	}
	header.Del("Content-Length")
	header.Set(SourceHeader, string(resp.Source))
	w.WriteHeader(resp.Status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(resp.Body)
	}
	logging.Debug(ctx, "proxied", slog.Int("status", resp.Status), slog.String("source", string(resp.Source)))
}

func (h *handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxControlBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	cmd, err := domainoffline.ParseCommand(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := h.host.Dispatch(r.Context(), cmd)
	reply := map[string]any{
		"type":    cmd.Type(),
		"cached":  nonNil(result.Cached),
		"skipped": nonNil(result.Skipped),
	}
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domainoffline.ErrNoController) {
			status = http.StatusConflict
		}
		reply["error"] = err.Error()
		writeJSON(w, status, reply)
		return
	}
	reply["ok"] = true
	writeJSON(w, http.StatusOK, reply)
}

func (h *handler) handleSync(w http.ResponseWriter, r *http.Request) {
	tag := strings.TrimSpace(r.URL.Query().Get("tag"))
	if tag == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tag is required"})
		return
	}
	if err := h.host.Sync(r.Context(), tag); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "tag": tag})
}

func (h *handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.host.Status(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
