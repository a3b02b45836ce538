package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	invdomain "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// MovementTransfer tipo de solicitud que se expande a TRANSFER_OUT + TRANSFER_IN.
const MovementTransfer = "TRANSFER"

// RegisterMovementUseCase registra movimientos directos en el libro (fuera de documentos)
// de forma transaccional, con bloqueo de filas (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner      TxRunner
	ledger        *Ledger
	itemRepo      repository.InventoryItemRepository
	warehouseRepo repository.WarehouseRepository
	notifier      Notifier
	log           *logger.Logger
	timeout       time.Duration
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	ledger *Ledger,
	itemRepo repository.InventoryItemRepository,
	warehouseRepo repository.WarehouseRepository,
	notifier Notifier,
	log *logger.Logger,
	timeout time.Duration,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:      txRunner,
		ledger:        ledger,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		notifier:      notifier,
		log:           log.Component("ledger"),
		timeout:       timeout,
	}
}

// directTypes tipos admitidos fuera de documentos. Recepciones, bajas y ajustes de conteo
// solo entran al libro por su documento.
var directTypes = map[entity.MovementType]bool{
	entity.MovementOpeningBalance:     true,
	entity.MovementManualAdjustment:   true,
	entity.MovementSaleDeduction:      true,
	entity.MovementSaleReversal:       true,
	entity.MovementProductionIn:       true,
	entity.MovementProductionOut:      true,
	entity.MovementProductionReversal: true,
}

// RegisterMovement valida la solicitud, bloquea las posiciones y asienta el movimiento (o el par
// de traslado) en una sola transacción. Devuelve los movimientos escritos.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, branchID, userID string, in dto.RegisterMovementRequest) ([]dto.MovementResponse, error) {
	if _, err := LoadItem(ctx, uc.itemRepo, branchID, in.ItemID); err != nil {
		return nil, err
	}
	if in.Type == MovementTransfer {
		return uc.transfer(ctx, branchID, userID, in)
	}

	t := entity.MovementType(in.Type)
	if !directTypes[t] {
		return nil, domain.NewValidationError("type", "tipo no admitido como movimiento directo: "+in.Type)
	}
	if _, err := LoadWarehouse(ctx, uc.warehouseRepo, branchID, in.WarehouseID); err != nil {
		return nil, err
	}
	qty := in.Quantity
	if t.Direction() < 0 && qty.IsPositive() {
		qty = qty.Neg()
	}
	ref := uuid.New().String()
	e := invdomain.Entry{
		WarehouseID:   in.WarehouseID,
		ItemID:        in.ItemID,
		Type:          t,
		Quantity:      qty,
		UnitCost:      in.UnitCost,
		ReferenceType: entity.ReferenceManual,
		ReferenceID:   ref,
		Notes:         in.Notes,
		CreatedBy:     userID,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	keys := []entity.StockKey{{WarehouseID: in.WarehouseID, ItemID: in.ItemID}}
	return uc.post(ctx, ref, in.WarehouseID, userID, keys, func(map[entity.StockKey]*entity.StockPosition) []Line {
		return []Line{{LineID: ref, Entry: e}}
	})
}

// transfer: resta en la bodega origen y suma en la destino al costo promedio del origen.
func (uc *RegisterMovementUseCase) transfer(ctx context.Context, branchID, userID string, in dto.RegisterMovementRequest) ([]dto.MovementResponse, error) {
	if in.FromWarehouseID == "" || in.ToWarehouseID == "" {
		return nil, domain.NewValidationError("warehouse_id", "TRANSFER requiere from_warehouse_id y to_warehouse_id")
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.NewValidationError("to_warehouse_id", "debe ser distinta de la bodega origen")
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if _, err := LoadWarehouse(ctx, uc.warehouseRepo, branchID, in.FromWarehouseID); err != nil {
		return nil, err
	}
	if _, err := LoadWarehouse(ctx, uc.warehouseRepo, branchID, in.ToWarehouseID); err != nil {
		return nil, err
	}
	ref := uuid.New().String()
	build := func(positions map[entity.StockKey]*entity.StockPosition) []Line {
		src := positions[entity.StockKey{WarehouseID: in.FromWarehouseID, ItemID: in.ItemID}]
		cost := src.AverageCost
		return []Line{
			{LineID: ref + ":out", Entry: invdomain.Entry{
				WarehouseID: in.FromWarehouseID, ItemID: in.ItemID, Type: entity.MovementTransferOut,
				Quantity: in.Quantity.Neg(), UnitCost: &cost,
				ReferenceType: entity.ReferenceManual, ReferenceID: ref, Notes: in.Notes, CreatedBy: userID,
			}},
			{LineID: ref + ":in", Entry: invdomain.Entry{
				WarehouseID: in.ToWarehouseID, ItemID: in.ItemID, Type: entity.MovementTransferIn,
				Quantity: in.Quantity, UnitCost: &cost,
				ReferenceType: entity.ReferenceManual, ReferenceID: ref, Notes: in.Notes, CreatedBy: userID,
			}},
		}
	}
	keys := []entity.StockKey{
		{WarehouseID: in.FromWarehouseID, ItemID: in.ItemID},
		{WarehouseID: in.ToWarehouseID, ItemID: in.ItemID},
	}
	return uc.post(ctx, ref, in.FromWarehouseID, userID, keys, build)
}

// post bloquea las claves, construye las líneas con las posiciones bloqueadas, asienta y publica.
func (uc *RegisterMovementUseCase) post(
	ctx context.Context,
	ref, warehouseID, userID string,
	keys []entity.StockKey,
	build func(map[entity.StockKey]*entity.StockPosition) []Line,
) ([]dto.MovementResponse, error) {
	txCtx := ctx
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	var posting *Posting
	err := uc.txRunner.Run(txCtx, func(repos repository.Repos) error {
		positions, err := uc.ledger.Lock(txCtx, repos, keys)
		if err != nil {
			return err
		}
		posting, err = uc.ledger.Post(txCtx, repos, ref, positions, build(positions))
		return err
	})
	if err != nil {
		return nil, firstLineError(err)
	}

	net := decimal.Zero
	for _, m := range posting.Movements {
		net = net.Add(m.TotalCost)
	}
	uc.log.Info().Str("reference_id", ref).Int("movements", len(posting.Movements)).Msg("movimiento registrado")
	PublishCommitted(ctx, uc.notifier, uc.log, CommitEvent{
		DocumentID:    ref,
		DocumentType:  "movement",
		WarehouseID:   warehouseID,
		NetValue:      net,
		MovementCount: len(posting.Movements),
		CommittedBy:   userID,
		Alerts:        posting.Alerts,
	})
	return dto.ToMovementResponses(posting.Movements), nil
}

// firstLineError un movimiento directo no es un documento: se reporta el ValidationError de la línea.
func firstLineError(err error) error {
	var cf *domain.CommitFailedError
	if errors.As(err, &cf) && len(cf.Lines) > 0 && cf.Lines[0].Err != nil {
		return cf.Lines[0].Err
	}
	return err
}
