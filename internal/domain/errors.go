package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("factura no encontrada")
	ErrDuplicateNumber  = errors.New("el número de factura ya existe")
	ErrImmutableInvoice = errors.New("no se pueden agregar ítems después de finalizar")
	ErrInvalidStatus    = errors.New("transición de estado inválida")
	ErrNoItems          = errors.New("no se puede finalizar una factura sin ítems")
	ErrOverpayment      = errors.New("el pago excede el total de la factura")
)

// ErrCorruptInvoice señala una violación de invariante interna (totales que no
// cuadran, pagado mayor al total). No es un error de entrada del cliente: indica
// datos corruptos o un bug y se reporta como error interno, nunca se silencia.
var ErrCorruptInvoice = errors.New("invariante de factura violada")

// ValidationError entrada inválida con mensaje a nivel de campo.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError construye un ValidationError para el campo indicado.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation indica si err (o su cadena) contiene un ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
