package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/ajustar saldos por producto+nivel.
// Adjust es la escritura condicional (compare-and-decrement) del store: aplica
// el delta en una sola sentencia y devuelve applied=false — sin modificar
// nada — si el resultado dejaría Available o Consumed por debajo de cero, o
// si el registro no existe y el ajuste lo requiere (deltas negativos).
// Un registro ausente se lee como cantidad cero, no como error.
type StockRepository interface {
	Get(productID, tier string) (*entity.StockTier, error)
	Adjust(productID, tier string, delta, consumedDelta decimal.Decimal) (applied bool, err error)
	ListByProduct(productID string) ([]*entity.StockTier, error)
}
