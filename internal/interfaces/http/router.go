package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dentalia/insumos-api/internal/application/inventory"
	"github.com/dentalia/insumos-api/internal/application/reporting"
	"github.com/dentalia/insumos-api/internal/application/usecase"
	"github.com/dentalia/insumos-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine               *inventory.MovementEngine
	ReportingUC          *reporting.QueryUseCase
	ItemUC               *usecase.ItemUseCase
	LocationUC           *usecase.LocationUseCase
	CategoryUC           *usecase.CategoryUseCase
	SupplierUC           *usecase.SupplierUseCase
	ClinicUC             *usecase.ClinicUseCase
	JWTSecret            string
	BillingWebhookSecret string
	Log                  *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Clínicas: registro público, webhook de facturación con secreto propio.
	clinicHandler := NewClinicHandler(deps.ClinicUC, deps.BillingWebhookSecret, deps.Log)
	api.Post("/clinics", clinicHandler.Register)
	api.Post("/webhooks/subscription", clinicHandler.SubscriptionWebhook)

	// Rutas protegidas: Bearer Token + suscripción vigente.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireSubscription(deps.ClinicUC))

	protected.Get("/clinics/:id", clinicHandler.GetByID)

	// Catálogo de insumos
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.Log)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)

	// Ubicaciones
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC, deps.Log)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Delete)

	// Categorías y proveedores
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.Log)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Delete("/:id", categoryHandler.Delete)

	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC, deps.Log)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Motor de movimientos
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Engine, deps.Log)
	inv.Post("/receive", inventoryHandler.Receive)
	inv.Post("/consume", inventoryHandler.Consume)
	inv.Post("/transfer", inventoryHandler.Transfer)
	inv.Post("/assign", inventoryHandler.Assign)
	inv.Post("/adjust", inventoryHandler.Adjust)
	inv.Post("/batch", inventoryHandler.Batch)
	inv.Put("/threshold", inventoryHandler.SetThreshold)

	// Reportes de solo lectura
	reports := protected.Group("/reports")
	reportingHandler := NewReportingHandler(deps.ReportingUC, deps.Log)
	reports.Get("/low-stock", reportingHandler.BelowThreshold)
	reports.Get("/low-stock/pdf", reportingHandler.LowStockPDF)
	reports.Get("/items/:id/totals", reportingHandler.ItemTotals)
	reports.Get("/history", reportingHandler.History)
	reports.Get("/aggregates", reportingHandler.CostAggregates)
}
