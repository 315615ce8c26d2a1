package offline

import (
	"encoding/json"
	"net/http"
)

const (
	OfflineErrorTitle   = "Sin conexión"
	OfflineErrorMessage = "No hay conexión a internet y no hay datos en cache"

	InternalErrorTitle   = "Error interno"
	InternalErrorMessage = "No se pudo manejar la solicitud debido a un error interno"
)

type OfflineBody struct {
	Error   string `json:"error"`
	Offline bool   `json:"offline"`
	Message string `json:"message"`
}

type InternalErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// OfflineResponse is returned by network-first when the network failed and nothing is cached.
func OfflineResponse() Response {
	return syntheticJSON(http.StatusServiceUnavailable, OfflineBody{
		Error:   OfflineErrorTitle,
		Offline: true,
		Message: OfflineErrorMessage,
	})
}

// InternalErrorResponse is returned when the cache fallback itself failed.
func InternalErrorResponse() Response {
	return syntheticJSON(http.StatusInternalServerError, InternalErrorBody{
		Error:   InternalErrorTitle,
		Message: InternalErrorMessage,
	})
}

func syntheticJSON(status int, body any) Response {
	raw, _ := json.Marshal(body)
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	return Response{
		Status: status,
		Header: header,
		Body:   raw,
		Source: SourceSynthetic,
	}
}
