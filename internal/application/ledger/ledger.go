package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
	"github.com/jhoicas/Boulangerie-api/internal/domain/inventory"
	"github.com/jhoicas/Boulangerie-api/internal/domain/repository"
)

// StockLedger es el único camino que puede cambiar una cantidad. Cada ajuste
// aplica el delta con una escritura condicional en el store y registra
// exactamente un Movement con los mismos repositorios atados a la tx del
// caller: ambos se confirman o ninguno. Los casos de uso nunca reciben el
// repositorio de movimientos fuera de una llamada al ledger, para que el
// registro de auditoría no pueda divergir de los saldos.
type StockLedger struct{}

// NewStockLedger construye el ledger (sin estado; los repos llegan por llamada).
func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

// Adjust aplica delta al saldo (product, tier) y registra el movimiento.
// Rechaza con InsufficientStockError si un delta negativo excede lo
// disponible; el store no se modifica en ese caso. Para consumos, ventas y
// restauraciones también mueve la cantidad entre Available y Consumed, de
// modo que Available + Consumed se conserva para lotes no reaprovisionados.
func (l *StockLedger) Adjust(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	product *entity.Product,
	tier string,
	delta decimal.Decimal,
	kind, reference, actor string,
	now time.Time,
) error {
	if product == nil || !entity.IsValidTier(tier) || !entity.IsValidMovementKind(kind) {
		return domain.ErrInvalidInput
	}
	if delta.IsZero() {
		return domain.ErrInvalidInput
	}

	consumedDelta := decimal.Zero
	switch kind {
	case entity.MovementKindConsumption, entity.MovementKindSale, entity.MovementKindRestoration:
		// consumo/venta: delta negativo → Consumed sube; restauración: delta
		// positivo → Consumed baja.
		consumedDelta = delta.Neg()
	}

	applied, err := stockRepo.Adjust(product.ID, tier, delta, consumedDelta)
	if err != nil {
		return err
	}
	if !applied {
		if delta.IsNegative() {
			current, err := stockRepo.Get(product.ID, tier)
			if err != nil {
				return err
			}
			return &domain.InsufficientStockError{Items: []domain.StockShortfall{{
				ProductID: product.ID,
				Name:      product.Name,
				Requested: delta.Neg(),
				Available: current.Available,
			}}}
		}
		// Restauración sobre un registro inexistente o con consumo menor al
		// delta: el saldo no puede repararse desde aquí.
		return fmt.Errorf("restaurar stock de %s en %s: %w", product.Name, tier, domain.ErrNotFound)
	}

	mov := &entity.Movement{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Tier:      tier,
		Kind:      kind,
		Quantity:  delta,
		UnitCost:  product.Cost,
		Reference: reference,
		Actor:     actor,
		CreatedAt: now,
	}
	return movRepo.Create(mov)
}

// Get lectura pura del saldo; un registro ausente se devuelve con cantidad
// cero, nunca como error.
func (l *StockLedger) Get(stockRepo repository.StockRepository, productID, tier string) (*entity.StockTier, error) {
	if !entity.IsValidTier(tier) {
		return nil, domain.ErrInvalidInput
	}
	return stockRepo.Get(productID, tier)
}

// Replenish registra una entrada de mercancía y recalcula el costo promedio
// ponderado del producto sobre el stock total de todos los niveles. unitCost
// en centavos. Debe ejecutarse con repositorios atados a una misma tx.
func (l *StockLedger) Replenish(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	tier string,
	quantity decimal.Decimal,
	unitCost decimal.Decimal,
	reference, actor string,
	now time.Time,
) error {
	if !quantity.IsPositive() || unitCost.IsNegative() {
		return domain.ErrInvalidInput
	}

	tiers, err := stockRepo.ListByProduct(product.ID)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for _, st := range tiers {
		total = total.Add(st.Available)
	}

	newCost := inventory.WeightedAverageCost(total, product.Cost, quantity, unitCost)
	if err := productRepo.UpdateCost(product.ID, newCost); err != nil {
		return err
	}
	// El movimiento debe llevar el costo de la entrada, no el promedio previo.
	entered := *product
	entered.Cost = unitCost
	return l.Adjust(movRepo, stockRepo, &entered, tier, quantity, entity.MovementKindEntry, reference, actor, now)
}
