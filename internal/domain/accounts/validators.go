package accounts

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minPasswordLength = 8
	maxEmailLength    = 254
)

var (
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile("[!@#$%^&*(),.?\":{}|<>_\\-+=\\[\\]\\\\/'`~]")
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

func ValidateStrongPassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return &ValidationError{Field: "password", Message: "La contraseña debe tener al menos 8 caracteres."}
	}
	if !upperPattern.MatchString(password) || !lowerPattern.MatchString(password) {
		return &ValidationError{Field: "password", Message: "La contraseña debe contener mayúsculas y minúsculas."}
	}
	if !digitPattern.MatchString(password) {
		return &ValidationError{Field: "password", Message: "La contraseña debe contener al menos un número."}
	}
	if !specialPattern.MatchString(password) {
		return &ValidationError{Field: "password", Message: "La contraseña debe contener al menos un carácter especial (!@#$%^&*...)."}
	}
	return nil
}

func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email", Message: "El email es requerido."}
	}
	if len(email) > maxEmailLength {
		return &ValidationError{Field: "email", Message: "El email es demasiado largo."}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Message: "Formato de email inválido."}
	}
	return nil
}

// SanitizeName trims and collapses inner whitespace.
func SanitizeName(nombre string) string {
	return spacePattern.ReplaceAllString(strings.TrimSpace(nombre), " ")
}
