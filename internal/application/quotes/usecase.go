package quotes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cotizador-pro/internal/application/dto"
	"github.com/tu-usuario/cotizador-pro/internal/domain"
	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
	"github.com/tu-usuario/cotizador-pro/internal/domain/repository"
	"github.com/tu-usuario/cotizador-pro/internal/domain/workflow"
	"github.com/tu-usuario/cotizador-pro/pkg/logger"
)

// Actor es la identidad autenticada que ejecuta una operación. El rol viene
// del token JWT; los permisos se derivan del rol en el dominio.
type Actor struct {
	ID    string
	Email string
	Role  string
}

// HasPermission reporta si el actor tiene el permiso dado.
func (a Actor) HasPermission(perm string) bool {
	for _, p := range entity.PermissionsForRole(a.Role) {
		if p == perm {
			return true
		}
	}
	return false
}

// QuoteUseCase es el gestor del ciclo de vida de cotizaciones: dueño exclusivo
// de la mutación de estado. Las escrituras son local-first: se aplican al
// almacén local de forma síncrona y el push al espejo remoto se agenda sin
// bloquear al llamador.
type QuoteUseCase struct {
	local     repository.QuoteLocalRepository
	scheduler SyncScheduler
	log       *logger.Logger
	locks     *quoteLocks
}

// NewQuoteUseCase construye el gestor del ciclo de vida.
func NewQuoteUseCase(local repository.QuoteLocalRepository, scheduler SyncScheduler, log *logger.Logger) *QuoteUseCase {
	if scheduler == nil {
		scheduler = NopScheduler{}
	}
	return &QuoteUseCase{
		local:     local,
		scheduler: scheduler,
		log:       log,
		locks:     newQuoteLocks(),
	}
}

// Create crea una cotización en borrador, asigna id y agenda el primer push.
func (uc *QuoteUseCase) Create(ctx context.Context, in dto.CreateQuoteRequest, actor Actor) (*dto.QuoteResponse, error) {
	if !actor.HasPermission(entity.PermCrearCotizacion) {
		return nil, domain.ErrForbidden
	}
	if in.ClienteName == "" {
		return nil, fmt.Errorf("%w: cliente_name es requerido", domain.ErrValidacion)
	}

	now := time.Now()
	q := &entity.Quote{
		ID:          uuid.New().String(),
		Status:      entity.StatusBorrador,
		ClienteName: in.ClienteName,
		VendorName:  in.VendorName,
		VendorEmail: in.VendorEmail,
		Rows:        buildRows(in.Rows, in.TRMGlobal),
		TRMGlobal:   in.TRMGlobal,
		PendingSync: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if q.VendorEmail == "" {
		q.VendorEmail = actor.Email
	}
	q.RecalcTotal()

	if err := uc.local.Create(ctx, q); err != nil {
		return nil, err
	}
	uc.scheduler.Schedule(q.ID)

	uc.log.Info().Str("quote_id", q.ID).Str("cliente", q.ClienteName).Msg("cotización creada")
	resp := dto.ToQuoteResponse(q)
	return &resp, nil
}

// GetByID obtiene una cotización por id.
func (uc *QuoteUseCase) GetByID(ctx context.Context, id string) (*dto.QuoteResponse, error) {
	q, err := uc.local.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.ToQuoteResponse(q)
	return &resp, nil
}

// ListByStatus lista cotizaciones según el filtro semántico. El filtro de
// pendientes cubre todos los sinónimos legados porque el almacén normaliza el
// estado crudo al leer.
func (uc *QuoteUseCase) ListByStatus(ctx context.Context, filtro workflow.Filtro) (*dto.QuoteListResponse, error) {
	list, err := uc.local.ListByStatuses(ctx, filtro.Statuses())
	if err != nil {
		return nil, err
	}
	out := dto.QuoteListResponse{
		Filtro: string(filtro),
		Total:  len(list),
		Quotes: make([]dto.QuoteResponse, 0, len(list)),
	}
	for _, q := range list {
		out.Quotes = append(out.Quotes, dto.ToQuoteResponse(q))
	}
	return &out, nil
}

// UpdateRows reemplaza las filas de una cotización editable (borrador o
// revisión). Una vez enviada a aprobación, las filas son inmutables.
func (uc *QuoteUseCase) UpdateRows(ctx context.Context, id string, in dto.UpdateRowsRequest, actor Actor) (*dto.QuoteResponse, error) {
	if !actor.HasPermission(entity.PermCrearCotizacion) {
		return nil, domain.ErrForbidden
	}
	release, ok := uc.locks.tryAcquire(id)
	if !ok {
		return nil, domain.ErrConflict
	}
	defer release()

	q, err := uc.local.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	if !q.Editable() {
		return nil, fmt.Errorf("%w: las filas son inmutables en estado %s", domain.ErrValidacion, q.Status)
	}

	q.Rows = buildRows(in.Rows, in.TRMGlobal)
	if !in.TRMGlobal.IsZero() {
		q.TRMGlobal = in.TRMGlobal
	}
	q.RecalcTotal()
	q.UpdatedAt = time.Now()
	q.PendingSync = true

	if err := uc.local.Update(ctx, q); err != nil {
		return nil, err
	}
	uc.scheduler.Schedule(q.ID)

	resp := dto.ToQuoteResponse(q)
	return &resp, nil
}

// Submit envía una cotización a aprobación (borrador → pendiente).
func (uc *QuoteUseCase) Submit(ctx context.Context, id string, actor Actor) (*dto.QuoteResponse, error) {
	return uc.Transition(ctx, id, entity.StatusPendiente, "", actor)
}

// Resubmit reenvía una cotización devuelta (revisión → pendiente).
func (uc *QuoteUseCase) Resubmit(ctx context.Context, id string, actor Actor) (*dto.QuoteResponse, error) {
	return uc.Transition(ctx, id, entity.StatusPendiente, "", actor)
}

// Approve aprueba una cotización pendiente.
func (uc *QuoteUseCase) Approve(ctx context.Context, id string, actor Actor) (*dto.QuoteResponse, error) {
	return uc.Transition(ctx, id, entity.StatusAprobada, "", actor)
}

// Reject rechaza una cotización pendiente; el motivo es obligatorio.
func (uc *QuoteUseCase) Reject(ctx context.Context, id, motivo string, actor Actor) (*dto.QuoteResponse, error) {
	return uc.Transition(ctx, id, entity.StatusRechazada, motivo, actor)
}

// RequestRevision devuelve una cotización pendiente al vendedor para cambios.
func (uc *QuoteUseCase) RequestRevision(ctx context.Context, id, motivo string, actor Actor) (*dto.QuoteResponse, error) {
	return uc.Transition(ctx, id, entity.StatusRevision, motivo, actor)
}

// Transition aplica (estado actual → target) validando arista, permiso y
// requisitos de la arista. Serializada por id: un segundo llamador concurrente
// sobre la misma cotización recibe ErrConflict. En éxito persiste el nuevo
// estado con updatedAt refrescado y agenda el push remoto.
func (uc *QuoteUseCase) Transition(ctx context.Context, id string, target entity.Status, motivo string, actor Actor) (*dto.QuoteResponse, error) {
	release, ok := uc.locks.tryAcquire(id)
	if !ok {
		return nil, domain.ErrConflict
	}
	defer release()

	q, err := uc.local.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}

	perm, ok := workflow.RequiredPermission(q.Status, target)
	if !ok {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrTransicionInvalida, q.Status, target)
	}
	if !actor.HasPermission(perm) {
		return nil, domain.ErrForbidden
	}

	// Guardas propias de cada arista.
	switch target {
	case entity.StatusPendiente:
		if !q.CanSubmit() {
			return nil, fmt.Errorf("%w: la cotización requiere filas y total mayor que cero", domain.ErrValidacion)
		}
	case entity.StatusRechazada:
		if motivo == "" {
			return nil, fmt.Errorf("%w: el rechazo requiere un motivo", domain.ErrValidacion)
		}
	}

	prev := q.Status
	q.Status = target
	if motivo != "" {
		q.RejectionReason = motivo
	}
	q.UpdatedAt = time.Now()
	q.PendingSync = true

	if err := uc.local.Update(ctx, q); err != nil {
		return nil, err
	}
	uc.scheduler.Schedule(q.ID)

	uc.log.Info().
		Str("quote_id", q.ID).
		Str("from", string(prev)).
		Str("to", string(target)).
		Str("actor", actor.Email).
		Msg("transición aplicada")

	resp := dto.ToQuoteResponse(q)
	return &resp, nil
}

// buildRows materializa las filas de un request: asigna id a cada línea y, si
// la línea no trae TRM propia, hereda la global.
func buildRows(in []dto.QuoteRowRequest, trmGlobal decimal.Decimal) []entity.QuoteRow {
	rows := make([]entity.QuoteRow, 0, len(in))
	for _, r := range in {
		trm := r.TRM
		if trm.IsZero() {
			trm = trmGlobal
		}
		rows = append(rows, entity.QuoteRow{
			ID:          uuid.New().String(),
			Descripcion: r.Descripcion,
			Cantidad:    r.Cantidad,
			CostoUSD:    r.CostoUSD,
			PrecioCOP:   r.PrecioCOP,
			TRM:         trm,
		})
	}
	return rows
}
