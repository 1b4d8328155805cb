package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/auth"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/prices"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/tasks"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/usecase"
	"github.com/jhoicas/PrecoMonitor-api/internal/infrastructure/bus"
	"github.com/jhoicas/PrecoMonitor-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/PrecoMonitor-api/internal/interfaces/http"
	"github.com/jhoicas/PrecoMonitor-api/pkg/config"
	"github.com/jhoicas/PrecoMonitor-api/pkg/logger"
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

	identityRepo := postgres.NewIdentityRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	marketRepo := postgres.NewMarketRepository(pool)
	priceRepo := postgres.NewPriceRecordRepository(pool)
	taskRepo := postgres.NewDelegatedTaskRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	priceBus := bus.NewPriceBus()

	authUC := auth.NewAuthUseCase(identityRepo, userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	marketUC := usecase.NewMarketUseCase(marketRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	dashboardUC := usecase.NewDashboardUseCase(taskRepo, priceRepo, productRepo)
	taskUC := tasks.NewTaskUseCase(taskRepo, productRepo, marketRepo, userRepo, txRunner, priceBus)
	priceUC := prices.NewPriceUseCase(priceRepo, productRepo, marketRepo, userRepo, txRunner, priceBus)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PrecoMonitor API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CompanyUC:   companyUC,
		CategoryUC:  categoryUC,
		ProductUC:   productUC,
		MarketUC:    marketUC,
		UserUC:      userUC,
		DashboardUC: dashboardUC,
		TaskUC:      taskUC,
		PriceUC:     priceUC,
		PriceBus:    priceBus,
		JWTSecret:   cfg.JWT.Secret,
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
