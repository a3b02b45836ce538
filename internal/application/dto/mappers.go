package dto

import "github.com/jhoicas/Inventario-ledger/internal/domain/entity"

// ToWarehouseResponse mapea una bodega.
func ToWarehouseResponse(w *entity.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:                 w.ID,
		BranchID:           w.BranchID,
		Name:               w.Name,
		Address:            w.Address,
		AllowNegativeStock: w.AllowNegativeStock,
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          w.UpdatedAt,
	}
}

// ToItemResponse mapea un ítem.
func ToItemResponse(i *entity.InventoryItem) *ItemResponse {
	return &ItemResponse{
		ID:             i.ID,
		BranchID:       i.BranchID,
		SKU:            i.SKU,
		Name:           i.Name,
		UnitOfMeasure:  i.UnitOfMeasure,
		MinStockLevel:  i.MinStockLevel,
		ReorderPoint:   i.ReorderPoint,
		MaxStockLevel:  i.MaxStockLevel,
		IsSemiFinished: i.IsSemiFinished,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

// ToMovementResponse mapea un movimiento del libro.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:               m.ID,
		Sequence:         m.Sequence,
		WarehouseID:      m.WarehouseID,
		ItemID:           m.ItemID,
		Type:             string(m.Type),
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		UnitCost:         m.UnitCost,
		TotalCost:        m.TotalCost,
		ReferenceType:    m.ReferenceType,
		ReferenceID:      m.ReferenceID,
		Notes:            m.Notes,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
	}
}

// ToMovementResponses mapea una lista de movimientos.
func ToMovementResponses(list []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}

// ToStockPositionResponse mapea una posición.
func ToStockPositionResponse(p *entity.StockPosition) StockPositionResponse {
	return StockPositionResponse{
		WarehouseID:       p.WarehouseID,
		ItemID:            p.ItemID,
		Quantity:          p.Quantity,
		ReservedQuantity:  p.ReservedQuantity,
		AvailableQuantity: p.AvailableQuantity(),
		AverageCost:       p.AverageCost,
		LastCost:          p.LastCost,
		TotalValue:        p.TotalValue(),
		LastMovementAt:    p.LastMovementAt,
	}
}

// ToAlertResponse mapea una alerta.
func ToAlertResponse(a *entity.StockAlert) AlertResponse {
	return AlertResponse{
		ID:             a.ID,
		WarehouseID:    a.WarehouseID,
		ItemID:         a.ItemID,
		Type:           string(a.Type),
		Quantity:       a.Quantity,
		Threshold:      a.Threshold,
		IsAcknowledged: a.IsAcknowledged,
		AcknowledgedBy: a.AcknowledgedBy,
		AcknowledgedAt: a.AcknowledgedAt,
		CreatedAt:      a.CreatedAt,
	}
}

// ToPurchaseOrderResponse mapea una orden de compra.
func ToPurchaseOrderResponse(po *entity.PurchaseOrder) *PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, 0, len(po.Lines))
	for _, l := range po.Lines {
		lines = append(lines, PurchaseOrderLineResponse{
			ID: l.ID, ItemID: l.ItemID, OrderedQty: l.OrderedQty, UnitCost: l.UnitCost, LineTotal: l.LineTotal,
		})
	}
	return &PurchaseOrderResponse{
		ID:           po.ID,
		BranchID:     po.BranchID,
		WarehouseID:  po.WarehouseID,
		OrderNumber:  po.OrderNumber,
		SupplierID:   po.SupplierID,
		Status:       string(po.Status),
		Lines:        lines,
		TotalAmount:  po.TotalAmount,
		CancelReason: po.CancelReason,
		Notes:        po.Notes,
		CreatedBy:    po.CreatedBy,
		SentAt:       po.SentAt,
		ReceivedAt:   po.ReceivedAt,
		ReceivedBy:   po.ReceivedBy,
		CancelledAt:  po.CancelledAt,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
	}
}

// ToCountResponse mapea un conteo.
func ToCountResponse(c *entity.InventoryCount) *CountResponse {
	lines := make([]CountLineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, CountLineResponse{
			ID:              l.ID,
			ItemID:          l.ItemID,
			SystemQuantity:  l.SystemQuantity,
			CountedQuantity: l.CountedQuantity,
			IsCounted:       l.IsCounted,
			Variance:        l.Variance(),
			UnitCost:        l.UnitCost,
		})
	}
	return &CountResponse{
		ID:          c.ID,
		BranchID:    c.BranchID,
		WarehouseID: c.WarehouseID,
		CountNumber: c.CountNumber,
		Status:      string(c.Status),
		Lines:       lines,
		Summary: VarianceSummaryResponse{
			ItemsWithVariance:  c.Summary.ItemsWithVariance,
			ShortageValue:      c.Summary.ShortageValue,
			SurplusValue:       c.Summary.SurplusValue,
			NetAdjustmentValue: c.Summary.NetAdjustmentValue,
			AccuracyPct:        c.Summary.AccuracyPct,
		},
		Notes:        c.Notes,
		RejectReason: c.RejectReason,
		CreatedBy:    c.CreatedBy,
		StartedAt:    c.StartedAt,
		CompletedAt:  c.CompletedAt,
		ApprovedAt:   c.ApprovedAt,
		ApprovedBy:   c.ApprovedBy,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ToWriteoffResponse mapea una baja.
func ToWriteoffResponse(w *entity.Writeoff) *WriteoffResponse {
	lines := make([]WriteoffLineResponse, 0, len(w.Lines))
	for _, l := range w.Lines {
		lines = append(lines, WriteoffLineResponse{
			ID: l.ID, ItemID: l.ItemID, Quantity: l.Quantity, UnitCost: l.UnitCost, TotalCost: l.TotalCost,
		})
	}
	return &WriteoffResponse{
		ID:             w.ID,
		BranchID:       w.BranchID,
		WarehouseID:    w.WarehouseID,
		WriteoffNumber: w.WriteoffNumber,
		Status:         string(w.Status),
		Reason:         string(w.Reason),
		Notes:          w.Notes,
		Lines:          lines,
		TotalValue:     w.TotalValue,
		RejectReason:   w.RejectReason,
		CreatedBy:      w.CreatedBy,
		SubmittedAt:    w.SubmittedAt,
		ApprovedAt:     w.ApprovedAt,
		ApprovedBy:     w.ApprovedBy,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}
