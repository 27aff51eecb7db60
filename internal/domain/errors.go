package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrUserNotFound            = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists      = errors.New("el email ya está registrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrDuplicate               = errors.New("recurso duplicado")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrInsufficientPayment     = errors.New("monto entregado insuficiente")
	ErrIngredientsInsufficient = errors.New("ingredientes insuficientes")
	ErrWindowExpired           = errors.New("ventana de anulación expirada")
	ErrInvalidReason           = errors.New("el motivo debe tener al menos 10 caracteres")
	ErrAlreadyProcessed        = errors.New("la demande ya fue procesada")
	ErrAlreadyCancelled        = errors.New("la venta ya fue anulada")
)

// StockShortfall detalle de un faltante: cuánto se pidió y cuánto hay.
type StockShortfall struct {
	ProductID string
	Name      string
	Requested decimal.Decimal
	Available decimal.Decimal
}

// Missing devuelve la cantidad faltante (Requested - Available).
func (s StockShortfall) Missing() decimal.Decimal {
	return s.Requested.Sub(s.Available)
}

// InsufficientStockError stock insuficiente en uno o más productos.
// errors.Is(err, ErrInsufficientStock) == true.
type InsufficientStockError struct {
	Items []StockShortfall
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en %d producto(s)", len(e.Items))
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// IngredientsInsufficientError faltan ingredientes en atelier para producir.
// errors.Is(err, ErrIngredientsInsufficient) == true.
type IngredientsInsufficientError struct {
	Shortfalls []StockShortfall
}

func (e *IngredientsInsufficientError) Error() string {
	return fmt.Sprintf("ingredientes insuficientes: %d faltante(s)", len(e.Shortfalls))
}

func (e *IngredientsInsufficientError) Is(target error) bool {
	return target == ErrIngredientsInsufficient
}
