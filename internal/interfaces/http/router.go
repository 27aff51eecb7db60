package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Boulangerie-api/internal/application/auth"
	"github.com/jhoicas/Boulangerie-api/internal/application/ledger"
	"github.com/jhoicas/Boulangerie-api/internal/application/recipe"
	"github.com/jhoicas/Boulangerie-api/internal/application/sale"
	"github.com/jhoicas/Boulangerie-api/internal/application/transfer"
	"github.com/jhoicas/Boulangerie-api/internal/application/usecase"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	StockUC      *ledger.StockUseCase
	DemandeUC    *transfer.DemandeUseCase
	RecipeUC     *recipe.RecipeUseCase
	CreateSaleUC *sale.CreateSaleUseCase
	CancelSaleUC *sale.CancelSaleUseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido; escritura solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(entity.RoleAdmin), productHandler.Create)
	products.Put("/:id", RequireRole(entity.RoleAdmin), productHandler.Update)

	// Stock (protegido; reabastecimiento solo admin y magasinier)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Post("/replenish", RequireRole(entity.RoleAdmin, entity.RoleMagasinier), stockHandler.Replenish)
	stock.Get("/:product_id", stockHandler.ListByProduct)
	stock.Get("/:product_id/movements", stockHandler.History)
	stock.Get("/:product_id/:tier", stockHandler.Get)

	// Demandes de transfert (protegido; validar/rechazar solo admin y magasinier)
	demandes := protected.Group("/demandes")
	demandeHandler := NewDemandeHandler(deps.DemandeUC)
	demandes.Post("/", demandeHandler.Create)
	demandes.Get("/", demandeHandler.List)
	demandes.Get("/:id", demandeHandler.GetByID)
	demandes.Post("/:id/validate", RequireRole(entity.RoleAdmin, entity.RoleMagasinier), demandeHandler.Validate)
	demandes.Post("/:id/reject", RequireRole(entity.RoleAdmin, entity.RoleMagasinier), demandeHandler.Reject)
	demandes.Post("/:id/cancel", demandeHandler.Cancel)

	// Recipes y producción (protegido; escritura admin y magasinier)
	recipes := protected.Group("/recipes")
	recipeHandler := NewRecipeHandler(deps.RecipeUC)
	recipes.Post("/", RequireRole(entity.RoleAdmin, entity.RoleMagasinier), recipeHandler.Define)
	recipes.Get("/:name/cost", recipeHandler.Cost)
	recipes.Get("/:name/availability", recipeHandler.Availability)
	recipes.Post("/:name/produce", RequireRole(entity.RoleAdmin, entity.RoleMagasinier), recipeHandler.Produce)
	recipes.Put("/:name/price", RequireRole(entity.RoleAdmin), recipeHandler.SetSalePrice)

	// Sales (protegido; vender admin y vendeur, anular solo admin)
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSaleUC, deps.CancelSaleUC)
	sales.Post("/", RequireRole(entity.RoleAdmin, entity.RoleVendeur), saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Post("/:id/cancel", RequireRole(entity.RoleAdmin), saleHandler.Cancel)
	sales.Post("/:id/restorations/retry", RequireRole(entity.RoleAdmin), saleHandler.RetryRestorations)
}
