package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	domainstations "tankgo/internal/domain/stations"
	"tankgo/internal/ports"
)

func (h *handler) handleListStations(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "Error de validación", Message: err.Error()})
		return
	}
	page, err := h.stations.List(r.Context(), filter)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *handler) handleCountStations(w http.ResponseWriter, r *http.Request) {
	total, err := h.stations.Count(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":   total,
		"mensaje": fmt.Sprintf("Total de gasolineras: %d", total),
	})
}

func (h *handler) handleGetStation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["ideess"]
	station, err := h.stations.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrStationNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Gasolinera %s no encontrada", id))
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// parseFilter reads provincia, municipio, precio_max, skip and limit. Missing values keep
// their defaults.
func parseFilter(r *http.Request) (domainstations.Filter, error) {
	query := r.URL.Query()
	filter := domainstations.Filter{
		Provincia: query.Get("provincia"),
		Municipio: query.Get("municipio"),
		Limit:     domainstations.DefaultLimit,
	}

	if raw := query.Get("precio_max"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domainstations.Filter{}, fmt.Errorf("precio_max must be a number")
		}
		filter.PrecioMax = v
	}
	if raw := query.Get("skip"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return domainstations.Filter{}, fmt.Errorf("skip must be an integer")
		}
		filter.Skip = v
	}
	if raw := query.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return domainstations.Filter{}, fmt.Errorf("limit must be an integer")
		}
		filter.Limit = v
	}
	if err := filter.Validate(); err != nil {
		return domainstations.Filter{}, err
	}
	return filter, nil
}
