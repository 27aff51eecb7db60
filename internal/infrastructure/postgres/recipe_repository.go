package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
	"github.com/jhoicas/Boulangerie-api/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo implementación sobre PostgreSQL (usable con pool o tx).
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

// Upsert crea o reemplaza la receta del producto terminado: cabecera por
// ON CONFLICT y líneas por borrado + reinserción. Se espera dentro de una tx.
func (r *RecipeRepo) Upsert(rec *entity.Recipe) error {
	ctx := context.Background()
	query := `
		INSERT INTO recipes (id, finished_product_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (finished_product_id)
		DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id`
	var recipeID string
	err := r.q.QueryRow(ctx, query, rec.ID, rec.FinishedProductID, rec.CreatedAt, rec.UpdatedAt).Scan(&recipeID)
	if err != nil {
		return fmt.Errorf("upsert recipe: %w", err)
	}
	rec.ID = recipeID

	if _, err := r.q.Exec(ctx, `DELETE FROM recipe_lines WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("clear recipe lines: %w", err)
	}
	for _, line := range rec.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO recipe_lines (recipe_id, ingredient_product_id, quantity)
			VALUES ($1, $2, $3)`,
			recipeID, line.IngredientProductID, line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert recipe line: %w", err)
		}
	}
	return nil
}

// GetByFinishedProductID obtiene la receta con sus líneas.
func (r *RecipeRepo) GetByFinishedProductID(productID string) (*entity.Recipe, error) {
	ctx := context.Background()
	var rec entity.Recipe
	err := r.q.QueryRow(ctx, `
		SELECT id, finished_product_id, created_at, updated_at
		FROM recipes WHERE finished_product_id = $1`, productID).Scan(
		&rec.ID, &rec.FinishedProductID, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	lines, err := r.lines(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	rec.Lines = lines
	return &rec, nil
}

// List lista recetas con sus líneas, paginadas.
func (r *RecipeRepo) List(limit, offset int) ([]*entity.Recipe, error) {
	ctx := context.Background()
	rows, err := r.q.Query(ctx, `
		SELECT id, finished_product_id, created_at, updated_at
		FROM recipes ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Recipe
	for rows.Next() {
		var rec entity.Recipe
		if err := rows.Scan(&rec.ID, &rec.FinishedProductID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		list = append(list, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, rec := range list {
		lines, err := r.lines(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		rec.Lines = lines
	}
	return list, nil
}

func (r *RecipeRepo) lines(ctx context.Context, recipeID string) ([]entity.RecipeLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT ingredient_product_id, quantity
		FROM recipe_lines WHERE recipe_id = $1 ORDER BY ingredient_product_id`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list recipe lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.RecipeLine
	for rows.Next() {
		var l entity.RecipeLine
		if err := rows.Scan(&l.IngredientProductID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan recipe line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
