package sale

import (
	"context"

	"github.com/jhoicas/Boulangerie-api/internal/domain/repository"
)

// Acciones consultadas al verificador de permisos.
const (
	ActionCancelSale = "sale:cancel"
)

// Authorizer chequeo de capacidad inyectado: el flujo de anulación pregunta
// por una acción, nunca compara roles dentro de la lógica transaccional.
type Authorizer interface {
	HasPermission(actorID, action string) bool
}

// TxRunner transacción con los repos necesarios para una venta: los débitos
// por línea, la cabecera y sus líneas se confirman como una sola unidad. La
// anulación usa el mismo runner para las restauraciones + transición + auditoría.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
