package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/documents"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC      *usecase.WarehouseUseCase
	ItemUC           *usecase.ItemUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	StockQuery       *inventory.StockQueryUseCase
	Alerts           *inventory.AlertUseCase
	Rebuild          *inventory.RebuildUseCase
	PurchaseOrders   *documents.PurchaseOrderUseCase
	Counts           *documents.CountUseCase
	Writeoffs        *documents.WriteoffUseCase
	Reports          *documents.ReportUseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	approvers := RequireRole(RoleAdmin, RoleSupervisor)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole(RoleAdmin), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Items
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", approvers, itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id/thresholds", approvers, itemHandler.UpdateThresholds)

	// Inventory: libro, posiciones, alertas y mantenimiento
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.StockQuery, deps.Alerts, deps.Rebuild, deps.WarehouseUC)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/positions/:warehouse_id", inventoryHandler.ListPositions)
	invGroup.Get("/positions/:warehouse_id/:item_id", inventoryHandler.GetPosition)
	invGroup.Get("/alerts", inventoryHandler.ListAlerts)
	invGroup.Post("/alerts/:id/acknowledge", inventoryHandler.AcknowledgeAlert)
	invGroup.Get("/reconcile", RequireRole(RoleAdmin), inventoryHandler.Reconcile)
	invGroup.Post("/rebuild", RequireRole(RoleAdmin), inventoryHandler.Rebuild)

	// Purchase orders
	pos := protected.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.PurchaseOrders)
	pos.Post("/", poHandler.Create)
	pos.Get("/", poHandler.List)
	pos.Get("/:id", poHandler.Get)
	pos.Post("/:id/send", poHandler.Send)
	pos.Post("/:id/receive", approvers, poHandler.Receive)
	pos.Post("/:id/cancel", approvers, poHandler.Cancel)

	// Counts
	counts := protected.Group("/counts")
	countHandler := NewCountHandler(deps.Counts, deps.Reports)
	counts.Post("/", countHandler.Create)
	counts.Get("/", countHandler.List)
	counts.Get("/:id", countHandler.Get)
	counts.Get("/:id/report", countHandler.Report)
	counts.Post("/:id/start", countHandler.Start)
	counts.Post("/:id/lines", countHandler.Record)
	counts.Post("/:id/complete", countHandler.Complete)
	counts.Post("/:id/approve", approvers, countHandler.Approve)
	counts.Post("/:id/reject", approvers, countHandler.Reject)

	// Writeoffs
	writeoffs := protected.Group("/writeoffs")
	writeoffHandler := NewWriteoffHandler(deps.Writeoffs, deps.Reports)
	writeoffs.Post("/", writeoffHandler.Create)
	writeoffs.Get("/", writeoffHandler.List)
	writeoffs.Get("/:id", writeoffHandler.Get)
	writeoffs.Get("/:id/report", writeoffHandler.Report)
	writeoffs.Post("/:id/submit", writeoffHandler.Submit)
	writeoffs.Post("/:id/approve", approvers, writeoffHandler.Approve)
	writeoffs.Post("/:id/reject", approvers, writeoffHandler.Reject)
}
