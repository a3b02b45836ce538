// Package memory implementa los repositorios en memoria. Las transacciones se serializan detrás
// de un mutex y se aplican copy-on-write: si la función falla, el estado anterior queda intacto.
// Cada transacción clona el estado completo (O(tamaño del libro)) y los commits no corren en
// paralelo aunque sus claves sean disjuntas; pensado para tests y desarrollo.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

type state struct {
	movements  []entity.StockMovement
	lastSeq    int64
	movKeys    map[string]struct{}
	positions  map[entity.StockKey]entity.StockPosition
	items      map[string]entity.InventoryItem
	warehouses map[string]entity.Warehouse
	orders     map[string]entity.PurchaseOrder
	counts     map[string]entity.InventoryCount
	writeoffs  map[string]entity.Writeoff
	alerts     map[string]entity.StockAlert
	sequences  map[string]int64
}

func newState() *state {
	return &state{
		movKeys:    make(map[string]struct{}),
		positions:  make(map[entity.StockKey]entity.StockPosition),
		items:      make(map[string]entity.InventoryItem),
		warehouses: make(map[string]entity.Warehouse),
		orders:     make(map[string]entity.PurchaseOrder),
		counts:     make(map[string]entity.InventoryCount),
		writeoffs:  make(map[string]entity.Writeoff),
		alerts:     make(map[string]entity.StockAlert),
		sequences:  make(map[string]int64),
	}
}

func (s *state) clone() *state {
	c := newState()
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	c.lastSeq = s.lastSeq
	for k, v := range s.movKeys {
		c.movKeys[k] = v
	}
	for k, v := range s.positions {
		c.positions[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.counts {
		c.counts[k] = copyCount(v)
	}
	for k, v := range s.writeoffs {
		c.writeoffs[k] = copyWriteoff(v)
	}
	for k, v := range s.alerts {
		c.alerts[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// Store almacén en memoria; implementa también el TxRunner de la aplicación.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no falla y el contexto sigue vivo.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	work := s.st.clone()
	if err := fn(reposFor(txView{st: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	s.st = work
	return nil
}

// Repos repositorios fuera de transacción: cada llamada toma el mutex y escribe directo.
func (s *Store) Repos() repository.Repos {
	return reposFor(autoView{s: s})
}

// view da acceso al estado según el modo (dentro de una tx o llamada suelta).
type view interface {
	with(fn func(st *state) error) error
}

type txView struct{ st *state }

func (v txView) with(fn func(st *state) error) error { return fn(v.st) }

type autoView struct{ s *Store }

func (v autoView) with(fn func(st *state) error) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.st)
}

func reposFor(v view) repository.Repos {
	return repository.Repos{
		Movements:      &movementRepo{v: v},
		Positions:      &positionRepo{v: v},
		Items:          &itemRepo{v: v},
		Warehouses:     &warehouseRepo{v: v},
		PurchaseOrders: &purchaseOrderRepo{v: v},
		Counts:         &countRepo{v: v},
		Writeoffs:      &writeoffRepo{v: v},
		Alerts:         &alertRepo{v: v},
		Sequences:      &sequenceRepo{v: v},
	}
}

func copyOrder(po entity.PurchaseOrder) entity.PurchaseOrder {
	po.Lines = append([]entity.PurchaseOrderLine(nil), po.Lines...)
	return po
}

func copyCount(c entity.InventoryCount) entity.InventoryCount {
	c.Lines = append([]entity.InventoryCountLine(nil), c.Lines...)
	for i := range c.Lines {
		if q := c.Lines[i].CountedQuantity; q != nil {
			v := *q
			c.Lines[i].CountedQuantity = &v
		}
	}
	return c
}

func copyWriteoff(w entity.Writeoff) entity.Writeoff {
	w.Lines = append([]entity.WriteoffLine(nil), w.Lines...)
	return w
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
