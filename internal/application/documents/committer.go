package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// Tipos de documento (también claves de numeración y de los sujetos de notificación).
const (
	KindPurchaseOrder  = "purchase_order"
	KindInventoryCount = "inventory_count"
	KindWriteoff       = "writeoff"
)

var numberPrefix = map[string]string{
	KindPurchaseOrder:  "PO",
	KindInventoryCount: "CNT",
	KindWriteoff:       "WO",
}

// Committer ejecuta las transacciones de los documentos: aplica el plazo de commit,
// asienta en el libro y publica después de confirmar.
type Committer struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	notifier inventory.Notifier
	log      *logger.Logger
	timeout  time.Duration
}

// NewCommitter construye el confirmador de documentos. notifier puede ser nil.
func NewCommitter(txRunner inventory.TxRunner, ledger *inventory.Ledger, notifier inventory.Notifier, log *logger.Logger, timeout time.Duration) *Committer {
	return &Committer{
		txRunner: txRunner,
		ledger:   ledger,
		notifier: notifier,
		log:      log.Component("documents"),
		timeout:  timeout,
	}
}

// Now hora del libro.
func (c *Committer) Now() time.Time { return c.ledger.Now() }

// Tx ejecuta fn en una transacción sin tocar el libro (creación y transiciones sin commit).
func (c *Committer) Tx(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	return c.txRunner.Run(ctx, func(repos repository.Repos) error { return fn(ctx, repos) })
}

// Commit ejecuta la arista de confirmación dentro de una transacción con plazo. fn devuelve el
// evento a publicar; si la transacción confirma se registra y se notifica.
func (c *Committer) Commit(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) (*inventory.CommitEvent, error)) error {
	txCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	var ev *inventory.CommitEvent
	err := c.txRunner.Run(txCtx, func(repos repository.Repos) error {
		var err error
		ev, err = fn(txCtx, repos)
		return err
	})
	if err != nil {
		var cf *domain.CommitFailedError
		if errors.As(err, &cf) {
			c.log.Warn().Str("document_id", cf.DocumentID).Int("failed_lines", len(cf.Lines)).Msg("confirmación revertida")
		} else if errors.Is(err, context.DeadlineExceeded) {
			c.log.Warn().Dur("timeout", c.timeout).Msg("confirmación revertida por tiempo")
		}
		return err
	}
	c.log.Info().
		Str("document_id", ev.DocumentID).
		Str("document_type", ev.DocumentType).
		Int("movements", ev.MovementCount).
		Str("net_value", ev.NetValue.String()).
		Msg("documento confirmado")
	inventory.PublishCommitted(ctx, c.notifier, c.log, *ev)
	return nil
}

// Lock bloquea las posiciones de las claves en orden estable.
func (c *Committer) Lock(ctx context.Context, repos repository.Repos, keys []entity.StockKey) (map[entity.StockKey]*entity.StockPosition, error) {
	return c.ledger.Lock(ctx, repos, keys)
}

// Post asienta las líneas y arma el evento del documento.
func (c *Committer) Post(
	ctx context.Context,
	repos repository.Repos,
	base inventory.CommitEvent,
	positions map[entity.StockKey]*entity.StockPosition,
	lines []inventory.Line,
) (*inventory.CommitEvent, error) {
	posting, err := c.ledger.Post(ctx, repos, base.DocumentID, positions, lines)
	if err != nil {
		return nil, err
	}
	net := decimal.Zero
	for _, m := range posting.Movements {
		net = net.Add(m.TotalCost)
	}
	base.NetValue = net
	base.MovementCount = len(posting.Movements)
	base.Alerts = posting.Alerts
	return &base, nil
}

// nextNumber consecutivo legible del documento (PO-000001, CNT-000001, WO-000001).
func nextNumber(ctx context.Context, repos repository.Repos, kind string) (string, error) {
	n, err := repos.Sequences.Next(ctx, kind)
	if err != nil {
		return "", fmt.Errorf("numeración %s: %w", kind, err)
	}
	return fmt.Sprintf("%s-%06d", numberPrefix[kind], n), nil
}

// checkDistinctItems rechaza ítems repetidos en las líneas.
func checkDistinctItems(itemIDs []string) error {
	seen := make(map[string]struct{}, len(itemIDs))
	for i, id := range itemIDs {
		if id == "" {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].item_id", i), "es obligatorio")
		}
		if _, ok := seen[id]; ok {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].item_id", i), "ítem repetido en el documento")
		}
		seen[id] = struct{}{}
	}
	return nil
}

func scopeOf(kind, branchID string) string {
	return kind + ":" + branchID
}
