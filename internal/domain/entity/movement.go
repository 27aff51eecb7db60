package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	MovementKindEntry       = "entry"       // entrada (reaprovisionamiento, producción terminada)
	MovementKindConsumption = "consumption" // consumo de ingredientes en producción
	MovementKindRestoration = "restoration" // restauración por anulación de venta
	MovementKindTransfer    = "transfer"    // traslado entre niveles
	MovementKindSale        = "sale"        // salida por venta en boutique
)

// IsValidMovementKind verifica que el tipo pertenezca al conjunto cerrado.
func IsValidMovementKind(kind string) bool {
	switch kind {
	case MovementKindEntry, MovementKindConsumption, MovementKindRestoration,
		MovementKindTransfer, MovementKindSale:
		return true
	}
	return false
}

// Movement es una fila del registro de auditoría: delta firmado aplicado a un
// (producto, nivel). Inmutable y append-only; nunca se actualiza ni se borra.
// Reference apunta al documento que originó el cambio (venta, demande, lote
// de producción, reaprovisionamiento).
type Movement struct {
	ID        string
	ProductID string
	Tier      string
	Kind      string
	Quantity  decimal.Decimal // positivo entrada/restauración, negativo salida
	UnitCost  decimal.Decimal // costo unitario al momento del movimiento (centavos)
	Reference string
	Actor     string // UserID
	CreatedAt time.Time
}
