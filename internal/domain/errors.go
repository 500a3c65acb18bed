package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// Facturación y pagos.
	ErrInvalidDiscount     = errors.New("el descuento deja el precio por debajo del costo")
	ErrInvalidCustomerRef  = errors.New("se requiere un cliente existente o los datos de uno nuevo, no ambos")
	ErrInvalidStatusChange = errors.New("transición de estado no permitida")
	ErrAlreadyConverted    = errors.New("la cotización ya fue convertida en factura")
	ErrAlreadyPaid         = errors.New("la factura ya está pagada")
)
