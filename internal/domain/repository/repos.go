package repository

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Movements      StockMovementRepository
	Positions      StockPositionRepository
	Items          InventoryItemRepository
	Warehouses     WarehouseRepository
	PurchaseOrders PurchaseOrderRepository
	Counts         InventoryCountRepository
	Writeoffs      WriteoffRepository
	Alerts         StockAlertRepository
	Sequences      DocumentSequenceRepository
}
