package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Boulangerie-api/internal/application/ledger"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
	"github.com/jhoicas/Boulangerie-api/internal/domain/repository"
)

// DemandeUseCase flujo de solicitudes de traslado entre niveles:
// pending → {validated, rejected, cancelled}, transición terminal única.
// La validación mueve stock a través del ledger dentro de una transacción:
// un traslado nunca se observa a medio aplicar.
type DemandeUseCase struct {
	txRunner    TxRunner
	demandeRepo repository.DemandeRepository
	productRepo repository.ProductRepository
	stock       *ledger.StockLedger
}

// NewDemandeUseCase construye el caso de uso.
func NewDemandeUseCase(
	txRunner TxRunner,
	demandeRepo repository.DemandeRepository,
	productRepo repository.ProductRepository,
	stock *ledger.StockLedger,
) *DemandeUseCase {
	return &DemandeUseCase{
		txRunner:    txRunner,
		demandeRepo: demandeRepo,
		productRepo: productRepo,
		stock:       stock,
	}
}

// CreateInput datos para crear una demande.
type CreateInput struct {
	ProductID  string
	Quantity   decimal.Decimal
	SourceTier string // vacío = principal
	DestTier   string
	Requester  string
}

// Create registra una nueva solicitud en estado pending, sin efecto en stock.
func (uc *DemandeUseCase) Create(ctx context.Context, in CreateInput) (*entity.Demande, error) {
	if in.SourceTier == "" {
		in.SourceTier = entity.TierPrincipal
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidTier(in.SourceTier) || !entity.IsValidTier(in.DestTier) || in.SourceTier == in.DestTier {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	d := &entity.Demande{
		ID:         uuid.New().String(),
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		SourceTier: in.SourceTier,
		DestTier:   in.DestTier,
		Status:     entity.DemandeStatusPending,
		Requester:  in.Requester,
		CreatedAt:  time.Now(),
	}
	if err := uc.demandeRepo.Create(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate aplica el traslado: débito en origen y crédito en destino como una
// sola unidad lógica — si el débito falla por stock insuficiente, el crédito
// no ocurre y la demande sigue pending. Reintentar con el mismo id tras una
// validación exitosa devuelve ErrAlreadyProcessed, nunca un doble traslado.
func (uc *DemandeUseCase) Validate(ctx context.Context, id, validator string) error {
	return uc.txRunner.RunDemande(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		demandeRepo repository.DemandeRepository,
	) error {
		d, err := demandeRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if d.Status != entity.DemandeStatusPending {
			return domain.ErrAlreadyProcessed
		}
		product, err := productRepo.GetByID(d.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		now := time.Now()
		if err := uc.stock.Adjust(movRepo, stockRepo, product, d.SourceTier, d.Quantity.Neg(),
			entity.MovementKindTransfer, d.ID, validator, now); err != nil {
			return err
		}
		if err := uc.stock.Adjust(movRepo, stockRepo, product, d.DestTier, d.Quantity,
			entity.MovementKindTransfer, d.ID, validator, now); err != nil {
			return err
		}
		return demandeRepo.SetStatus(d.ID, entity.DemandeStatusValidated, validator, now)
	})
}

// Reject transiciona pending → rejected, sin efecto en stock.
func (uc *DemandeUseCase) Reject(ctx context.Context, id, validator string) error {
	return uc.terminal(ctx, id, validator, entity.DemandeStatusRejected, "")
}

// Cancel transiciona pending → cancelled; solo el solicitante puede cancelar.
func (uc *DemandeUseCase) Cancel(ctx context.Context, id, requester string) error {
	return uc.terminal(ctx, id, requester, entity.DemandeStatusCancelled, requester)
}

// terminal transición sin efecto de stock, con la fila bloqueada para que el
// estado terminal se alcance exactamente una vez.
func (uc *DemandeUseCase) terminal(ctx context.Context, id, actor, status, mustBeRequester string) error {
	return uc.txRunner.RunDemande(ctx, func(
		_ repository.MovementRepository,
		_ repository.StockRepository,
		_ repository.ProductRepository,
		demandeRepo repository.DemandeRepository,
	) error {
		d, err := demandeRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if d.Status != entity.DemandeStatusPending {
			return domain.ErrAlreadyProcessed
		}
		if mustBeRequester != "" && d.Requester != mustBeRequester {
			return domain.ErrForbidden
		}
		return demandeRepo.SetStatus(d.ID, status, actor, time.Now())
	})
}

// GetByID lectura de una demande.
func (uc *DemandeUseCase) GetByID(ctx context.Context, id string) (*entity.Demande, error) {
	d, err := uc.demandeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// List lista demandes, opcionalmente filtradas por estado.
func (uc *DemandeUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.Demande, error) {
	if status != "" {
		switch status {
		case entity.DemandeStatusPending, entity.DemandeStatusValidated,
			entity.DemandeStatusRejected, entity.DemandeStatusCancelled:
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	return uc.demandeRepo.ListByStatus(status, limit, offset)
}
