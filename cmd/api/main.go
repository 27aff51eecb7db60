package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Boulangerie-api/internal/application/auth"
	"github.com/jhoicas/Boulangerie-api/internal/application/ledger"
	"github.com/jhoicas/Boulangerie-api/internal/application/recipe"
	"github.com/jhoicas/Boulangerie-api/internal/application/sale"
	"github.com/jhoicas/Boulangerie-api/internal/application/transfer"
	"github.com/jhoicas/Boulangerie-api/internal/application/usecase"
	"github.com/jhoicas/Boulangerie-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Boulangerie-api/internal/interfaces/http"
	"github.com/jhoicas/Boulangerie-api/pkg/config"
	"github.com/jhoicas/Boulangerie-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	demandeRepo := postgres.NewDemandeRepository(pool)
	recipeRepo := postgres.NewRecipeRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockLedger := ledger.NewStockLedger()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo)
	stockUC := ledger.NewStockUseCase(txRunner, productRepo, stockRepo, movementRepo, stockLedger)
	demandeUC := transfer.NewDemandeUseCase(txRunner, demandeRepo, productRepo, stockLedger)
	recipeUC := recipe.NewRecipeUseCase(txRunner, recipeRepo, productRepo, stockRepo, stockLedger)
	createSaleUC := sale.NewCreateSaleUseCase(txRunner, productRepo, stockRepo, saleRepo, stockLedger)
	cancelSaleUC := sale.NewCancelSaleUseCase(
		txRunner, saleRepo, authUC, stockLedger,
		time.Duration(cfg.Sales.CancellationWindowDays)*24*time.Hour,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Boulangerie API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    productUC,
		StockUC:      stockUC,
		DemandeUC:    demandeUC,
		RecipeUC:     recipeUC,
		CreateSaleUC: createSaleUC,
		CancelSaleUC: cancelSaleUC,
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
