package sale

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Boulangerie-api/internal/application/ledger"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
	"github.com/jhoicas/Boulangerie-api/internal/domain/repository"
)

// CreateSaleUseCase transacción de punto de venta: verifica todas las líneas
// contra el saldo boutique, exige pago suficiente y descuenta el stock dentro
// de una sola transacción (verificar-luego-confirmar, no línea a línea con
// rollback manual).
type CreateSaleUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	saleRepo    repository.SaleRepository
	stock       *ledger.StockLedger
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	saleRepo repository.SaleRepository,
	stock *ledger.StockLedger,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		saleRepo:    saleRepo,
		stock:       stock,
	}
}

// LineInput línea de venta. UnitPriceCents en cero usa el precio vigente.
type LineInput struct {
	ProductID      string
	Quantity       decimal.Decimal
	UnitPriceCents int64
}

// CreateInput entrada para crear una venta.
type CreateInput struct {
	Items            []LineInput
	AmountGivenCents int64
	Seller           string
}

// Result venta creada + vuelto.
type Result struct {
	Sale        *entity.Sale
	ChangeCents int64
}

// Create crea la venta. Cualquier faltante de stock aborta la venta completa
// con InsufficientStockError listando todas las líneas en falta, sin efecto
// alguno; un monto entregado menor al total aborta con ErrInsufficientPayment.
// El número de ticket sale de la secuencia monotónica por día del store.
func (uc *CreateSaleUseCase) Create(ctx context.Context, in CreateInput) (*Result, error) {
	if len(in.Items) == 0 || in.Seller == "" {
		return nil, domain.ErrInvalidInput
	}

	// Validar productos y resolver precios (solo lectura, fuera de la tx).
	products := make(map[string]*entity.Product, len(in.Items))
	for i := range in.Items {
		item := &in.Items[i]
		if !item.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		p, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		products[item.ProductID] = p
		if item.UnitPriceCents < 0 {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPriceCents == 0 {
			if p.PriceCents <= 0 {
				return nil, domain.ErrInvalidInput
			}
			item.UnitPriceCents = p.PriceCents
		}
	}

	// Pre-chequeo de stock boutique: cualquier faltante aborta la venta
	// entera y se reportan todas las líneas en falta, no solo la primera.
	var shortfalls []domain.StockShortfall
	for _, item := range in.Items {
		st, err := uc.stockRepo.Get(item.ProductID, entity.TierBoutique)
		if err != nil {
			return nil, err
		}
		if st.Available.LessThan(item.Quantity) {
			shortfalls = append(shortfalls, domain.StockShortfall{
				ProductID: item.ProductID,
				Name:      products[item.ProductID].Name,
				Requested: item.Quantity,
				Available: st.Available,
			})
		}
	}
	if len(shortfalls) > 0 {
		return nil, &domain.InsufficientStockError{Items: shortfalls}
	}

	var total int64
	for _, item := range in.Items {
		subtotal := item.Quantity.Mul(decimal.NewFromInt(item.UnitPriceCents)).Round(0).IntPart()
		total += subtotal
	}
	if in.AmountGivenCents < total {
		return nil, domain.ErrInsufficientPayment
	}

	now := time.Now()
	saleID := uuid.New().String()
	var sale *entity.Sale

	err := uc.txRunner.RunSale(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		seq, err := saleRepo.NextTicketSeq(now)
		if err != nil {
			return err
		}
		ticket := fmt.Sprintf("VTE-%s-%04d", now.Format("20060102"), seq)

		// Débito por línea a través del ledger. La escritura condicional
		// sigue vigilando carreras perdidas entre el pre-chequeo y el commit:
		// un débito insuficiente aquí revierte la venta completa.
		for _, item := range in.Items {
			p := products[item.ProductID]
			if err := uc.stock.Adjust(movRepo, stockRepo, p, entity.TierBoutique, item.Quantity.Neg(),
				entity.MovementKindSale, saleID, in.Seller, now); err != nil {
				return err
			}
		}

		sale = &entity.Sale{
			ID:               saleID,
			TicketNumber:     ticket,
			TotalCents:       total,
			AmountGivenCents: in.AmountGivenCents,
			ChangeCents:      in.AmountGivenCents - total,
			Status:           entity.SaleStatusValidated,
			Seller:           in.Seller,
			CreatedAt:        now,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, item := range in.Items {
			subtotal := item.Quantity.Mul(decimal.NewFromInt(item.UnitPriceCents)).Round(0).IntPart()
			line := &entity.SaleItem{
				ID:             uuid.New().String(),
				SaleID:         saleID,
				ProductID:      item.ProductID,
				Quantity:       item.Quantity,
				UnitPriceCents: item.UnitPriceCents,
				SubtotalCents:  subtotal,
			}
			if err := saleRepo.CreateItem(line); err != nil {
				return err
			}
			sale.Items = append(sale.Items, *line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{Sale: sale, ChangeCents: sale.ChangeCents}, nil
}

// GetByID obtiene una venta con sus líneas.
func (uc *CreateSaleUseCase) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		s.Items = append(s.Items, *it)
	}
	return s, nil
}

// List lista ventas paginadas.
func (uc *CreateSaleUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	return uc.saleRepo.List(limit, offset)
}
