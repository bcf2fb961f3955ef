package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrConflict      = errors.New("conflicto con el estado actual")
	ErrConfiguration = errors.New("violación de contrato de configuración")
)

// ValidationError agrupa TODAS las violaciones de reglas de negocio de una entrada.
// Nunca se reporta solo la primera: el caller necesita la lista completa para
// corregir su petición en un solo viaje.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validación fallida: " + strings.Join(e.Violations, "; ")
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye el error con la lista completa de violaciones.
func NewValidationError(violations []string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// ConflictError indica que una mutación perdió una carrera, que se intentó una
// transición desde un estado terminal, o que un activo congelado fue objetivo de
// una segunda operación. Serials nombra los seriales en conflicto, si aplica.
type ConflictError struct {
	Reason  string
	Serials []string
}

func (e *ConflictError) Error() string {
	if len(e.Serials) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Serials, ", "))
}

// Unwrap permite errors.Is(err, ErrConflict).
func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflictError construye el error nombrando los seriales ofensores.
func NewConflictError(reason string, serials ...string) *ConflictError {
	return &ConflictError{Reason: reason, Serials: serials}
}

// ConfigurationError es una violación del contrato de programación dentro de la
// política de scope (no un error de usuario). Debe fallar ruidosamente y tratarse
// como defecto, nunca llegar silenciosamente al usuario final.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "contrato de scope violado: " + e.Reason
}

// Unwrap permite errors.Is(err, ErrConfiguration).
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }
