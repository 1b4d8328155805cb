package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/auth"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/prices"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/tasks"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/usecase"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
	"github.com/jhoicas/PrecoMonitor-api/internal/infrastructure/bus"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CompanyUC   *usecase.CompanyUseCase
	CategoryUC  *usecase.CategoryUseCase
	ProductUC   *usecase.ProductUseCase
	MarketUC    *usecase.MarketUseCase
	UserUC      *usecase.UserUseCase
	DashboardUC *usecase.DashboardUseCase
	TaskUC      *tasks.TaskUseCase
	PriceUC     *prices.PriceUseCase
	PriceBus    *bus.PriceBus
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/confirm", authHandler.Confirm)
	authGroup.Post("/login", authHandler.Login)

	// Consulta pública de precios (sin token)
	priceHandler := NewPriceHandler(deps.PriceUC, deps.PriceBus)
	public := api.Group("/public")
	public.Get("/prices", priceHandler.PublicList)
	public.Get("/cities", priceHandler.Cities)
	public.Get("/neighborhoods", priceHandler.Neighborhoods)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Precios (cualquier rol autenticado registra; el origen lo decide el rol)
	pricesGroup := protected.Group("/prices")
	pricesGroup.Post("/", priceHandler.Submit)
	pricesGroup.Get("/history", priceHandler.History)
	pricesGroup.Get("/stream", priceHandler.Stream)

	// Tareas delegadas: el admin delega, el auditor lista y cumple las suyas
	tasksGroup := protected.Group("/tasks")
	taskHandler := NewTaskHandler(deps.TaskUC)
	tasksGroup.Post("/", RequireRole(entity.RoleAdmin), taskHandler.Create)
	tasksGroup.Get("/", RequireRole(entity.RoleAdmin), taskHandler.ListCompany)
	tasksGroup.Get("/mine", RequireRole(entity.RoleAuditor), taskHandler.ListMine)
	tasksGroup.Post("/:id/complete", RequireRole(entity.RoleAuditor), taskHandler.Complete)

	// Catálogo de productos (lectura para todos; escritura admin)
	productsGroup := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	productsGroup.Get("/", productHandler.List)
	productsGroup.Get("/barcode/:barcode", productHandler.GetByBarcode)
	productsGroup.Get("/:id", productHandler.GetByID)
	productsGroup.Post("/", RequireRole(entity.RoleAdmin), productHandler.Create)
	productsGroup.Put("/:id", RequireRole(entity.RoleAdmin), productHandler.Update)
	productsGroup.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Mercados (lectura para todos; escritura admin)
	marketsGroup := protected.Group("/markets")
	marketHandler := NewMarketHandler(deps.MarketUC)
	marketsGroup.Get("/", marketHandler.List)
	marketsGroup.Get("/:id", marketHandler.GetByID)
	marketsGroup.Post("/", RequireRole(entity.RoleAdmin), marketHandler.Create)
	marketsGroup.Put("/:id", RequireRole(entity.RoleAdmin), marketHandler.Update)
	marketsGroup.Delete("/:id", RequireRole(entity.RoleAdmin), marketHandler.Delete)

	// Categorías (admin)
	categoriesGroup := protected.Group("/categories", RequireRole(entity.RoleAdmin))
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categoriesGroup.Post("/", categoryHandler.Create)
	categoriesGroup.Get("/", categoryHandler.List)
	categoriesGroup.Delete("/:id", categoryHandler.Delete)

	// Perfiles: /me para cualquier autenticado, el resto admin
	usersGroup := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	usersGroup.Get("/me", userHandler.Me)
	usersGroup.Get("/", RequireRole(entity.RoleAdmin), userHandler.List)
	usersGroup.Put("/:id", RequireRole(entity.RoleAdmin), userHandler.Update)
	usersGroup.Delete("/:id", RequireRole(entity.RoleAdmin), userHandler.Delete)

	// Empresas (admin)
	companiesGroup := protected.Group("/companies", RequireRole(entity.RoleAdmin))
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companiesGroup.Post("/", companyHandler.Create)
	companiesGroup.Get("/", companyHandler.List)
	companiesGroup.Get("/:id", companyHandler.GetByID)

	// Dashboard (admin)
	dashboardGroup := protected.Group("/dashboard", RequireRole(entity.RoleAdmin))
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboardGroup.Get("/summary", dashboardHandler.GetSummary)
}
