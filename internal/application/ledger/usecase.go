package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
	"github.com/jhoicas/Boulangerie-api/internal/domain/repository"
)

// StockUseCase operaciones de stock expuestas a la capa HTTP: consultas
// directas y reaprovisionamiento transaccional vía el ledger.
type StockUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	movRepo     repository.MovementRepository
	stock       *StockLedger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	stock *StockLedger,
) *StockUseCase {
	return &StockUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		movRepo:     movRepo,
		stock:       stock,
	}
}

// ReplenishInput entrada de mercancía. UnitCostCents en centavos.
type ReplenishInput struct {
	ProductID     string
	Tier          string
	Quantity      decimal.Decimal
	UnitCostCents int64
	Reference     string
	Actor         string
}

// Replenish registra la entrada y recalcula el costo promedio ponderado,
// todo en una transacción.
func (uc *StockUseCase) Replenish(ctx context.Context, in ReplenishInput) error {
	if !entity.IsValidTier(in.Tier) || !in.Quantity.IsPositive() || in.UnitCostCents < 0 {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetByID(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		return uc.stock.Replenish(movRepo, stockRepo, productRepo, product, in.Tier,
			in.Quantity, decimal.NewFromInt(in.UnitCostCents), in.Reference, in.Actor, time.Now())
	})
}

// Get consulta el saldo de un producto en un nivel (ausente = cero).
func (uc *StockUseCase) Get(ctx context.Context, productID, tier string) (*entity.StockTier, error) {
	return uc.stock.Get(uc.stockRepo, productID, tier)
}

// ListByProduct lista los saldos de un producto en todos los niveles.
func (uc *StockUseCase) ListByProduct(ctx context.Context, productID string) ([]*entity.StockTier, error) {
	return uc.stockRepo.ListByProduct(productID)
}

// History lista el registro de movimientos de un producto, filtrable por fechas.
func (uc *StockUseCase) History(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return uc.movRepo.ListByProduct(productID, from, to, limit, offset)
}
