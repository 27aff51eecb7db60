package repository

import (
	"time"

	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para el registro de
// movimientos. Solo expone inserción y lectura: las filas son inmutables.
// Create se invoca únicamente desde el StockLedger, dentro de la misma
// transacción que el ajuste de cantidad.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListByReference(reference string) ([]*entity.Movement, error)
}
