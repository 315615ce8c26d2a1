package httpapi

import "net/http"

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	report, ok := h.probe.Report(r.Context())
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}
