package workflow

import "github.com/jhoicas/Inventario-ledger/internal/domain/entity"

// PurchaseOrders draft -send-> sent -receive-> received; draft|sent -cancel-> cancelled.
var PurchaseOrders = NewMachine("purchase_order", map[Event]Transition[entity.PurchaseOrderStatus]{
	EventSend: {
		From: []entity.PurchaseOrderStatus{entity.PurchaseOrderDraft},
		To:   entity.PurchaseOrderSent,
	},
	EventReceive: {
		From:   []entity.PurchaseOrderStatus{entity.PurchaseOrderSent},
		To:     entity.PurchaseOrderReceived,
		Commit: true,
	},
	EventCancel: {
		From:           []entity.PurchaseOrderStatus{entity.PurchaseOrderDraft, entity.PurchaseOrderSent},
		To:             entity.PurchaseOrderCancelled,
		RequiresReason: true,
	},
}, entity.PurchaseOrderReceived, entity.PurchaseOrderCancelled)

// InventoryCounts draft -start-> in_progress -complete-> completed -approve-> approved;
// completed -reject-> in_progress.
var InventoryCounts = NewMachine("inventory_count", map[Event]Transition[entity.CountStatus]{
	EventStart: {
		From: []entity.CountStatus{entity.CountDraft},
		To:   entity.CountInProgress,
	},
	EventComplete: {
		From: []entity.CountStatus{entity.CountInProgress},
		To:   entity.CountCompleted,
	},
	EventApprove: {
		From:   []entity.CountStatus{entity.CountCompleted},
		To:     entity.CountApproved,
		Commit: true,
	},
	EventReject: {
		From:           []entity.CountStatus{entity.CountCompleted},
		To:             entity.CountInProgress,
		RequiresReason: true,
	},
}, entity.CountApproved)

// Writeoffs draft -submit-> submitted -approve-> approved; submitted -reject-> draft.
var Writeoffs = NewMachine("writeoff", map[Event]Transition[entity.WriteoffStatus]{
	EventSubmit: {
		From: []entity.WriteoffStatus{entity.WriteoffDraft},
		To:   entity.WriteoffSubmitted,
	},
	EventApprove: {
		From:   []entity.WriteoffStatus{entity.WriteoffSubmitted},
		To:     entity.WriteoffApproved,
		Commit: true,
	},
	EventReject: {
		From:           []entity.WriteoffStatus{entity.WriteoffSubmitted},
		To:             entity.WriteoffDraft,
		RequiresReason: true,
	},
}, entity.WriteoffApproved)
