package sale

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Boulangerie-api/internal/application/ledger"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
	"github.com/jhoicas/Boulangerie-api/internal/domain/repository"
)

// CancellationWindow ventana por defecto para anular una venta validada,
// contada desde su creación. El límite es inclusivo: exactamente 7 días aún
// permite anular.
const CancellationWindow = 7 * 24 * time.Hour

// CancelSaleUseCase anulación acotada y auditada de una venta. Los rechazos
// (permiso, ventana, motivo) ocurren antes de cualquier escritura; una vez
// decidida la anulación, el hecho contable se confirma aunque alguna
// restauración de stock falle — el dinero ya fue cobrado y un hueco de
// bookkeeping no debe bloquear la contabilidad. Los fallos se reportan
// siempre como warnings para conciliación posterior.
type CancelSaleUseCase struct {
	txRunner TxRunner
	saleRepo repository.SaleRepository
	authz    Authorizer
	stock    *ledger.StockLedger
	window   time.Duration
}

// NewCancelSaleUseCase construye el caso de uso. window en cero usa
// CancellationWindow.
func NewCancelSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	authz Authorizer,
	stock *ledger.StockLedger,
	window time.Duration,
) *CancelSaleUseCase {
	if window <= 0 {
		window = CancellationWindow
	}
	return &CancelSaleUseCase{
		txRunner: txRunner,
		saleRepo: saleRepo,
		authz:    authz,
		stock:    stock,
		window:   window,
	}
}

// CanCancel predicado puro: la venta está validada y dentro de la ventana.
func (uc *CancelSaleUseCase) CanCancel(s *entity.Sale, now time.Time) bool {
	return s != nil && s.Status == entity.SaleStatusValidated && now.Sub(s.CreatedAt) <= uc.window
}

// RestoredItem línea restaurada con éxito al anular.
type RestoredItem struct {
	ProductID string
	Quantity  decimal.Decimal
}

// CancelResult resultado de una anulación: qué se restauró y qué falló.
type CancelResult struct {
	SaleID        string
	RestoredItems []RestoredItem
	Warnings      []string
}

// Cancel anula la venta. Orden de verificación: permiso, existencia/estado,
// ventana, motivo — cualquier fallo ahí es fatal y sin efectos. Después, cada
// restauración de línea es best-effort: un fallo se acumula como warning y se
// continúa; la transición a cancelled y la fila de auditoría se escriben
// siempre, en la misma transacción que las restauraciones que sí aplicaron.
// Anular una venta ya anulada devuelve ErrAlreadyCancelled sin movimiento
// adicional alguno.
func (uc *CancelSaleUseCase) Cancel(ctx context.Context, saleID, reason, actor string) (*CancelResult, error) {
	if !uc.authz.HasPermission(actor, ActionCancelSale) {
		return nil, domain.ErrForbidden
	}

	result := &CancelResult{SaleID: saleID}
	err := uc.txRunner.RunSale(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		now := time.Now()
		s, err := saleRepo.GetByIDForUpdate(saleID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.Status == entity.SaleStatusCancelled {
			return domain.ErrAlreadyCancelled
		}
		if !uc.CanCancel(s, now) {
			return domain.ErrWindowExpired
		}
		if len([]rune(reason)) < 10 {
			return domain.ErrInvalidReason
		}

		items, err := saleRepo.GetItems(saleID)
		if err != nil {
			return err
		}
		uc.restoreItems(movRepo, stockRepo, productRepo, items, nil, saleID, actor, now, result)

		if err := saleRepo.MarkCancelled(saleID, now); err != nil {
			return err
		}
		return saleRepo.CreateCancellation(&entity.SaleCancellation{
			SaleID:      saleID,
			AmountCents: s.TotalCents,
			Reason:      reason,
			CancelledBy: actor,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RetryRestorations reintenta las restauraciones que quedaron en warning en
// una anulación previa. Consulta el registro de movimientos para no restaurar
// dos veces una línea ya restaurada: la cantidad pendiente por línea es la
// vendida menos la ya restaurada con referencia a la venta.
func (uc *CancelSaleUseCase) RetryRestorations(ctx context.Context, saleID, actor string) (*CancelResult, error) {
	if !uc.authz.HasPermission(actor, ActionCancelSale) {
		return nil, domain.ErrForbidden
	}

	result := &CancelResult{SaleID: saleID}
	err := uc.txRunner.RunSale(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		s, err := saleRepo.GetByIDForUpdate(saleID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.Status != entity.SaleStatusCancelled {
			return domain.ErrInvalidInput
		}

		items, err := saleRepo.GetItems(saleID)
		if err != nil {
			return err
		}
		movs, err := movRepo.ListByReference(saleID)
		if err != nil {
			return err
		}
		restored := map[string]decimal.Decimal{}
		for _, m := range movs {
			if m.Kind == entity.MovementKindRestoration {
				restored[m.ProductID] = restored[m.ProductID].Add(m.Quantity)
			}
		}

		uc.restoreItems(movRepo, stockRepo, productRepo, items, restored, saleID, actor, time.Now(), result)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// restoreItems restaura cada línea best-effort, descontando lo ya restaurado
// cuando alreadyRestored no es nil. Acumula éxitos y warnings en result.
func (uc *CancelSaleUseCase) restoreItems(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	items []*entity.SaleItem,
	alreadyRestored map[string]decimal.Decimal,
	saleID, actor string,
	now time.Time,
	result *CancelResult,
) {
	for _, item := range items {
		qty := item.Quantity
		if alreadyRestored != nil {
			qty = qty.Sub(alreadyRestored[item.ProductID])
			if !qty.IsPositive() {
				continue
			}
		}
		p, err := productRepo.GetByID(item.ProductID)
		if err != nil || p == nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("producto %s: no encontrado, stock no restaurado", item.ProductID))
			continue
		}
		if err := uc.stock.Adjust(movRepo, stockRepo, p, entity.TierBoutique, qty,
			entity.MovementKindRestoration, saleID, actor, now); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("producto %s: %v", p.Name, err))
			continue
		}
		result.RestoredItems = append(result.RestoredItems, RestoredItem{
			ProductID: item.ProductID,
			Quantity:  qty,
		})
	}
}
