package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByName(name string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateCost actualiza solo el costo promedio ponderado (motor de inventario).
	UpdateCost(productID string, cost decimal.Decimal) error
	// UpdatePrice actualiza solo el precio de venta en centavos.
	UpdatePrice(productID string, priceCents int64) error
	List(limit, offset int) ([]*entity.Product, error)
}
