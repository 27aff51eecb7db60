package transfer

import (
	"context"

	"github.com/jhoicas/Boulangerie-api/internal/domain/repository"
)

// TxRunner transacción con los repos necesarios para validar una demande:
// el débito en origen, el crédito en destino y la transición de estado
// se confirman como una sola unidad.
type TxRunner interface {
	RunDemande(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		demandeRepo repository.DemandeRepository,
	) error) error
}
