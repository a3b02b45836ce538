package documents

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// IdempotencyStore reserva claves Idempotency-Key y las asocia al documento creado.
type IdempotencyStore interface {
	// Reserve devuelve "" si la clave quedó reservada para este llamador, o el ID del documento
	// ya creado con ella. Si otra solicitud la tiene reservada devuelve domain.ErrInProgress.
	Reserve(ctx context.Context, scope, key string) (string, error)
	// Bind asocia la clave reservada al ID creado.
	Bind(ctx context.Context, scope, key, id string) error
	// Release libera una reserva cuya creación falló.
	Release(ctx context.Context, scope, key string) error
}

// Keys aplica idempotencia a las operaciones de creación. Con store nil no hace nada.
type Keys struct {
	store IdempotencyStore
	log   *logger.Logger
}

// NewKeys construye el helper de idempotencia.
func NewKeys(store IdempotencyStore, log *logger.Logger) *Keys {
	return &Keys{store: store, log: log.Component("idempotency")}
}

// idempotent ejecuta create una sola vez por (scope, key); los reintentos devuelven get(id original).
func idempotent[T any](
	ctx context.Context,
	k *Keys,
	scope, key string,
	get func(ctx context.Context, id string) (T, error),
	create func(ctx context.Context) (T, string, error),
) (T, error) {
	if k == nil || k.store == nil || key == "" {
		out, _, err := create(ctx)
		return out, err
	}
	existing, err := k.store.Reserve(ctx, scope, key)
	if err != nil {
		var zero T
		return zero, err
	}
	if existing != "" {
		k.log.Debug().Str("scope", scope).Str("document_id", existing).Msg("creación repetida, se devuelve el documento original")
		return get(ctx, existing)
	}
	out, id, err := create(ctx)
	if err != nil {
		if relErr := k.store.Release(context.WithoutCancel(ctx), scope, key); relErr != nil {
			k.log.Warn().Err(relErr).Str("scope", scope).Msg("no se pudo liberar la clave de idempotencia")
		}
		return out, err
	}
	if err := k.store.Bind(context.WithoutCancel(ctx), scope, key, id); err != nil {
		k.log.Warn().Err(err).Str("scope", scope).Str("document_id", id).Msg("no se pudo asociar la clave de idempotencia")
	}
	return out, nil
}
