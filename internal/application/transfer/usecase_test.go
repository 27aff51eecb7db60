package transfer_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Boulangerie-api/internal/application/apptest"
	"github.com/jhoicas/Boulangerie-api/internal/application/ledger"
	"github.com/jhoicas/Boulangerie-api/internal/application/transfer"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup() (*apptest.Store, *transfer.DemandeUseCase) {
	store := apptest.NewStore()
	store.SeedProduct(&entity.Product{ID: "p1", Name: "Farine", Unit: "kg", Cost: d("120")})
	uc := transfer.NewDemandeUseCase(
		&apptest.TxRunner{S: store},
		&apptest.DemandeRepo{S: store},
		&apptest.ProductRepo{S: store},
		ledger.NewStockLedger(),
	)
	return store, uc
}

func crear(t *testing.T, uc *transfer.DemandeUseCase, qty string) *entity.Demande {
	t.Helper()
	dem, err := uc.Create(context.Background(), transfer.CreateInput{
		ProductID: "p1",
		Quantity:  d(qty),
		DestTier:  entity.TierAtelier,
		Requester: "u-req",
	})
	require.NoError(t, err)
	return dem
}

func TestCreate_PendingSinEfectoEnStock(t *testing.T) {
	store, uc := setup()
	dem := crear(t, uc, "5")

	assert.Equal(t, entity.DemandeStatusPending, dem.Status)
	assert.Equal(t, entity.TierPrincipal, dem.SourceTier, "origen por defecto: principal")
	assert.Empty(t, store.Movements)
}

func TestCreate_Valida(t *testing.T) {
	_, uc := setup()
	ctx := context.Background()

	_, err := uc.Create(ctx, transfer.CreateInput{ProductID: "p1", Quantity: d("0"), DestTier: entity.TierAtelier})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, transfer.CreateInput{ProductID: "p1", Quantity: d("1"), SourceTier: entity.TierAtelier, DestTier: entity.TierAtelier})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "origen y destino no pueden coincidir")

	_, err = uc.Create(ctx, transfer.CreateInput{ProductID: "nope", Quantity: d("1"), DestTier: entity.TierAtelier})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Traslado validado de Q: origen baja exactamente Q, destino sube exactamente
// Q y la suma entre niveles es invariante.
func TestValidate_MueveCantidadExacta(t *testing.T) {
	store, uc := setup()
	store.SeedStock("p1", entity.TierPrincipal, d("10"), decimal.Zero)
	dem := crear(t, uc, "4")

	require.NoError(t, uc.Validate(context.Background(), dem.ID, "u-val"))

	assert.True(t, store.Available("p1", entity.TierPrincipal).Equal(d("6")))
	assert.True(t, store.Available("p1", entity.TierAtelier).Equal(d("4")))
	sum := store.Available("p1", entity.TierPrincipal).Add(store.Available("p1", entity.TierAtelier))
	assert.True(t, sum.Equal(d("10")), "la suma entre niveles se conserva")

	updated, _ := uc.GetByID(context.Background(), dem.ID)
	assert.Equal(t, entity.DemandeStatusValidated, updated.Status)
	assert.Equal(t, "u-val", updated.Validator)
	require.NotNil(t, updated.ProcessedAt)

	assert.Len(t, store.MovementsByKind(entity.MovementKindTransfer), 2, "un movimiento por lado")
}

// Débito insuficiente: el crédito no ocurre, la demande sigue pending y no
// queda rastro en auditoría (rollback).
func TestValidate_DebitoInsuficienteNoAplicaNada(t *testing.T) {
	store, uc := setup()
	store.SeedStock("p1", entity.TierPrincipal, d("2"), decimal.Zero)
	dem := crear(t, uc, "5")

	err := uc.Validate(context.Background(), dem.ID, "u-val")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, store.Available("p1", entity.TierPrincipal).Equal(d("2")))
	assert.True(t, store.Available("p1", entity.TierAtelier).IsZero())
	assert.Empty(t, store.Movements)

	updated, _ := uc.GetByID(context.Background(), dem.ID)
	assert.Equal(t, entity.DemandeStatusPending, updated.Status, "la demande puede reintentarse")
}

// Validar dos veces: la segunda devuelve AlreadyProcessed sin mover stock.
func TestValidate_EsIdempotentePorEstado(t *testing.T) {
	store, uc := setup()
	store.SeedStock("p1", entity.TierPrincipal, d("10"), decimal.Zero)
	dem := crear(t, uc, "3")
	ctx := context.Background()

	require.NoError(t, uc.Validate(ctx, dem.ID, "u-val"))
	movsAntes := len(store.Movements)

	err := uc.Validate(ctx, dem.ID, "u-val")
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.Len(t, store.Movements, movsAntes, "sin movimientos adicionales")
	assert.True(t, store.Available("p1", entity.TierAtelier).Equal(d("3")))
}

func TestValidate_NoExiste(t *testing.T) {
	_, uc := setup()
	assert.ErrorIs(t, uc.Validate(context.Background(), "nope", "u-val"), domain.ErrNotFound)
}

func TestReject_SinEfectoEnStock(t *testing.T) {
	store, uc := setup()
	store.SeedStock("p1", entity.TierPrincipal, d("10"), decimal.Zero)
	dem := crear(t, uc, "3")
	ctx := context.Background()

	require.NoError(t, uc.Reject(ctx, dem.ID, "u-val"))

	updated, _ := uc.GetByID(ctx, dem.ID)
	assert.Equal(t, entity.DemandeStatusRejected, updated.Status)
	assert.True(t, store.Available("p1", entity.TierPrincipal).Equal(d("10")))
	assert.Empty(t, store.Movements)

	assert.ErrorIs(t, uc.Validate(ctx, dem.ID, "u-val"), domain.ErrAlreadyProcessed,
		"rejected es terminal")
}

func TestCancel_SoloElSolicitante(t *testing.T) {
	_, uc := setup()
	dem := crear(t, uc, "3")
	ctx := context.Background()

	assert.ErrorIs(t, uc.Cancel(ctx, dem.ID, "otro"), domain.ErrForbidden)
	require.NoError(t, uc.Cancel(ctx, dem.ID, "u-req"))

	updated, _ := uc.GetByID(ctx, dem.ID)
	assert.Equal(t, entity.DemandeStatusCancelled, updated.Status)
}
