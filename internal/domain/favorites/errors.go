package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrAuthRequired is raised before any network call when no credential is held.
var ErrAuthRequired = errors.New("login required")

const (
	MessageLoadFailed   = "Error al cargar favoritos"
	MessageAddFailed    = "Error al agregar favorito"
	MessageRemoveFailed = "Error al eliminar favorito"
)

// NetworkError is a transport-level failure talking to the remote source.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteRejectedError carries a non-success response. Message is the remote "error" text
// verbatim when present.
type RemoteRejectedError struct {
	Op      string
	Status  int
	Message string
}

func (e *RemoteRejectedError) Error() string {
	return e.Message
}

// RejectedFromBody extracts {"error": "..."} from body, falling back to fallback.
func RejectedFromBody(op string, status int, body []byte, fallback string) *RemoteRejectedError {
	message := fallback
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		message = payload.Error
	}
	return &RemoteRejectedError{Op: op, Status: status, Message: message}
}

// UserMessage is the text shown to the user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var rejected *RemoteRejectedError
	if errors.As(err, &rejected) {
		return rejected.Message
	}
	return err.Error()
}
