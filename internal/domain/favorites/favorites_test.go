package favorites

import (
	"errors"
	"fmt"
	"testing"
)

func TestSetIsATrueSet(t *testing.T) {
	s := NewSet("A", "B", "A", " ")
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.Add("B") {
		t.Fatal("Add(existing) = true, want false")
	}
	if !s.Add("C") {
		t.Fatal("Add(new) = false, want true")
	}
	if !s.Remove("A") || s.Remove("A") {
		t.Fatal("Remove must report presence exactly once")
	}

	ids := s.IDs()
	if len(ids) != 2 || ids[0] != "B" || ids[1] != "C" {
		t.Fatalf("IDs() = %v, want [B C]", ids)
	}
}

func TestZeroSetIsUsable(t *testing.T) {
	var s Set
	if s.Has("A") || s.Remove("A") || s.Len() != 0 {
		t.Fatal("zero set must behave as empty")
	}
}

func TestRejectedFromBody(t *testing.T) {
	err := RejectedFromBody("add", 401, []byte(`{"error":"Unauthorized"}`), MessageAddFailed)
	if err.Message != "Unauthorized" || err.Status != 401 {
		t.Fatalf("rejected = %+v", err)
	}

	fallback := RejectedFromBody("remove", 500, []byte(`<html>`), MessageRemoveFailed)
	if fallback.Message != MessageRemoveFailed {
		t.Fatalf("fallback message = %q", fallback.Message)
	}
}

func TestUserMessage(t *testing.T) {
	wrapped := fmt.Errorf("toggle: %w", &RemoteRejectedError{Message: "Favorito no encontrado."})
	if got := UserMessage(wrapped); got != "Favorito no encontrado." {
		t.Fatalf("UserMessage() = %q", got)
	}
	if got := UserMessage(ErrAuthRequired); got != ErrAuthRequired.Error() {
		t.Fatalf("UserMessage(auth) = %q", got)
	}

	netErr := &NetworkError{Op: "load", Err: errors.New("connection refused")}
	if !errors.Is(netErr, netErr.Err) {
		t.Fatal("NetworkError must unwrap to its cause")
	}
}
