package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockTier representa el saldo de un producto en un nivel de almacenamiento.
// Available nunca baja de cero (garantizado por escritura condicional en el
// store). Consumed acumula lo consumido/vendido y se descuenta al restaurar,
// de modo que para un lote único Available + Consumed se mantiene constante.
// Los registros se crean de forma perezosa en el primer movimiento.
type StockTier struct {
	ProductID string
	Tier      string
	Available decimal.Decimal
	Consumed  decimal.Decimal
	UpdatedAt time.Time
}
