package repository

import (
	"time"

	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas, líneas,
// auditoría de anulación y la secuencia de tickets.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	// GetByIDForUpdate bloquea la fila para que dos anulaciones concurrentes
	// de la misma venta no pasen ambas el chequeo de estado.
	GetByIDForUpdate(id string) (*entity.Sale, error)
	GetItems(saleID string) ([]*entity.SaleItem, error)
	// MarkCancelled transiciona validated → cancelled (una sola vez).
	MarkCancelled(saleID string, cancelledAt time.Time) error
	CreateCancellation(audit *entity.SaleCancellation) error
	GetCancellation(saleID string) (*entity.SaleCancellation, error)
	// NextTicketSeq incrementa y devuelve el contador monotónico del día en el
	// store; libre de colisiones bajo ventas concurrentes.
	NextTicketSeq(day time.Time) (int64, error)
	List(limit, offset int) ([]*entity.Sale, error)
}
