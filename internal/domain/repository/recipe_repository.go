package repository

import "github.com/jhoicas/Boulangerie-api/internal/domain/entity"

// RecipeRepository define el puerto de persistencia para recetas.
type RecipeRepository interface {
	// Upsert crea o reemplaza la receta (cabecera + líneas) del producto terminado.
	Upsert(recipe *entity.Recipe) error
	GetByFinishedProductID(productID string) (*entity.Recipe, error)
	List(limit, offset int) ([]*entity.Recipe, error)
}
