package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
)

// QuoteLocalRepository define el puerto del almacén local de cotizaciones
// (DIP). El almacén local es la fuente de verdad de escritura: toda transición
// se aplica aquí de forma síncrona y se empuja después al espejo remoto.
type QuoteLocalRepository interface {
	Create(ctx context.Context, q *entity.Quote) error
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	// List devuelve todas las cotizaciones en un snapshot consistente.
	List(ctx context.Context) ([]*entity.Quote, error)
	// ListByStatuses filtra por el conjunto de estados canónicos; vacío o nil
	// equivale a listar todas.
	ListByStatuses(ctx context.Context, statuses []entity.Status) ([]*entity.Quote, error)
	// Update reemplaza filas, totales, estado, motivo y flags del registro.
	Update(ctx context.Context, q *entity.Quote) error
	// ListPendingSync devuelve los registros aún no reflejados en el remoto.
	ListPendingSync(ctx context.Context, limit int) ([]*entity.Quote, error)
	// MarkSynced limpia el flag pending_sync tras un push exitoso.
	MarkSynced(ctx context.Context, id string, at time.Time) error
}

// QuoteRemoteRepository define el puerto del espejo remoto, eventualmente
// consistente con el almacén local. Las operaciones llevan context: son
// llamadas de red y deben respetar timeout y cancelación.
type QuoteRemoteRepository interface {
	// Upsert crea o reemplaza el registro remoto (entrega at-least-once:
	// empujar dos veces el mismo estado debe ser inocuo).
	Upsert(ctx context.Context, q *entity.Quote) error
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	List(ctx context.Context) ([]*entity.Quote, error)
}
