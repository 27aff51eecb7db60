package sale_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Boulangerie-api/internal/application/apptest"
	"github.com/jhoicas/Boulangerie-api/internal/application/ledger"
	"github.com/jhoicas/Boulangerie-api/internal/application/sale"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
)

type allowAll struct{}

func (allowAll) HasPermission(actorID, action string) bool { return true }

type denyAll struct{}

func (denyAll) HasPermission(actorID, action string) bool { return false }

const motivoValido = "Client insatisfait du produit"

// setupAnulacion crea una venta validada X×2 + Y×1 sobre stock X=5, Y=3.
func setupAnulacion(t *testing.T, authz sale.Authorizer) (*apptest.Store, *sale.CancelSaleUseCase, string) {
	t.Helper()
	store, create := setupVenta()
	res, err := create.Create(context.Background(), sale.CreateInput{
		Items: []sale.LineInput{
			{ProductID: "x", Quantity: d("2")},
			{ProductID: "y", Quantity: d("1")},
		},
		AmountGivenCents: 3000,
		Seller:           "vend-1",
	})
	require.NoError(t, err)

	uc := sale.NewCancelSaleUseCase(
		&apptest.TxRunner{S: store},
		&apptest.SaleRepo{S: store},
		authz,
		ledger.NewStockLedger(),
		0,
	)
	return store, uc, res.Sale.ID
}

// Escenario B: anular restaura X→5 y Y→3, deja dos movimientos de
// restauración referidos a la venta y exactamente una fila de auditoría.
func TestCancel_RestauraYAudita(t *testing.T) {
	store, uc, saleID := setupAnulacion(t, allowAll{})

	res, err := uc.Cancel(context.Background(), saleID, motivoValido, "admin-1")
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Len(t, res.RestoredItems, 2)

	assert.True(t, store.Available("x", entity.TierBoutique).Equal(d("5")))
	assert.True(t, store.Available("y", entity.TierBoutique).Equal(d("3")))

	restos := store.MovementsByKind(entity.MovementKindRestoration)
	require.Len(t, restos, 2)
	for _, m := range restos {
		assert.Equal(t, saleID, m.Reference)
	}

	s := store.Sales[saleID]
	assert.Equal(t, entity.SaleStatusCancelled, s.Status)
	require.NotNil(t, s.CancelledAt)

	audit := store.Cancellations[saleID]
	require.NotNil(t, audit)
	assert.Equal(t, int64(2000), audit.AmountCents)
	assert.Equal(t, motivoValido, audit.Reason)
	assert.Equal(t, "admin-1", audit.CancelledBy)
}

// Anular dos veces: la segunda devuelve AlreadyCancelled sin un solo
// movimiento adicional.
func TestCancel_Idempotente(t *testing.T) {
	store, uc, saleID := setupAnulacion(t, allowAll{})
	ctx := context.Background()

	_, err := uc.Cancel(ctx, saleID, motivoValido, "admin-1")
	require.NoError(t, err)
	movsAntes := len(store.Movements)

	_, err = uc.Cancel(ctx, saleID, motivoValido, "admin-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	assert.Len(t, store.Movements, movsAntes)
	assert.True(t, store.Available("x", entity.TierBoutique).Equal(d("5")))
}

// El límite de la ventana es inclusivo: 168h exactas todavía permite anular,
// un segundo más ya no.
func TestCanCancel_LimiteInclusivo(t *testing.T) {
	_, uc, _ := setupAnulacion(t, allowAll{})

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &entity.Sale{Status: entity.SaleStatusValidated, CreatedAt: created}

	assert.True(t, uc.CanCancel(s, created.Add(sale.CancellationWindow)))
	assert.False(t, uc.CanCancel(s, created.Add(sale.CancellationWindow+time.Second)))
}

func TestCancel_VentanaVencida(t *testing.T) {
	store, uc, saleID := setupAnulacion(t, allowAll{})
	store.Sales[saleID].CreatedAt = time.Now().Add(-8 * 24 * time.Hour)

	_, err := uc.Cancel(context.Background(), saleID, motivoValido, "admin-1")
	assert.ErrorIs(t, err, domain.ErrWindowExpired)
	assert.True(t, store.Available("x", entity.TierBoutique).Equal(d("3")))
	assert.Equal(t, entity.SaleStatusValidated, store.Sales[saleID].Status)
}

func TestCancel_MotivoCorto(t *testing.T) {
	store, uc, saleID := setupAnulacion(t, allowAll{})

	_, err := uc.Cancel(context.Background(), saleID, "corto", "admin-1")
	assert.ErrorIs(t, err, domain.ErrInvalidReason)
	assert.Equal(t, entity.SaleStatusValidated, store.Sales[saleID].Status)
	assert.Nil(t, store.Cancellations[saleID])
}

func TestCancel_SinPermiso(t *testing.T) {
	store, uc, saleID := setupAnulacion(t, denyAll{})

	_, err := uc.Cancel(context.Background(), saleID, motivoValido, "vend-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, entity.SaleStatusValidated, store.Sales[saleID].Status)
}

func TestCancel_NoExiste(t *testing.T) {
	_, uc, _ := setupAnulacion(t, allowAll{})

	_, err := uc.Cancel(context.Background(), "no-existe", motivoValido, "admin-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Fallo parcial de restauración: el registro de stock de X desapareció. La
// anulación se confirma igual, Y se restaura, X queda en warning y la fila
// de auditoría existe.
func TestCancel_RestauracionParcialConWarning(t *testing.T) {
	store, uc, saleID := setupAnulacion(t, allowAll{})
	delete(store.Stock, "x|"+entity.TierBoutique)

	res, err := uc.Cancel(context.Background(), saleID, motivoValido, "admin-1")
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Len(t, res.RestoredItems, 1)
	assert.Equal(t, "y", res.RestoredItems[0].ProductID)

	assert.True(t, store.Available("y", entity.TierBoutique).Equal(d("3")))
	assert.Equal(t, entity.SaleStatusCancelled, store.Sales[saleID].Status)
	require.NotNil(t, store.Cancellations[saleID])
}

// El reintento restaura solo lo pendiente: X recupera sus 2 unidades y Y,
// ya restaurada, no se toca.
func TestRetryRestorations_NoDuplica(t *testing.T) {
	store, uc, saleID := setupAnulacion(t, allowAll{})
	delete(store.Stock, "x|"+entity.TierBoutique)

	_, err := uc.Cancel(context.Background(), saleID, motivoValido, "admin-1")
	require.NoError(t, err)

	// El registro reaparece con el consumo de la venta aún asentado.
	store.SeedStock("x", entity.TierBoutique, d("3"), d("2"))

	res, err := uc.RetryRestorations(context.Background(), saleID, "admin-1")
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	require.Len(t, res.RestoredItems, 1)
	assert.Equal(t, "x", res.RestoredItems[0].ProductID)
	assert.True(t, res.RestoredItems[0].Quantity.Equal(d("2")))

	assert.True(t, store.Available("x", entity.TierBoutique).Equal(d("5")))
	assert.True(t, store.Available("y", entity.TierBoutique).Equal(d("3")))

	// Un segundo reintento no tiene nada pendiente.
	res2, err := uc.RetryRestorations(context.Background(), saleID, "admin-1")
	require.NoError(t, err)
	assert.Empty(t, res2.RestoredItems)
	assert.True(t, store.Available("x", entity.TierBoutique).Equal(d("5")))
}

func TestRetryRestorations_SoloVentasAnuladas(t *testing.T) {
	_, uc, saleID := setupAnulacion(t, allowAll{})

	_, err := uc.RetryRestorations(context.Background(), saleID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
