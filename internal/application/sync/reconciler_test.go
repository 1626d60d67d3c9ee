package sync_test

import (
	"context"
	stdsync "sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/tu-usuario/cotizador-pro/internal/application/sync"
	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
	"github.com/tu-usuario/cotizador-pro/internal/infrastructure/memory"
	"github.com/tu-usuario/cotizador-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// fakeLocalStore almacén local mínimo en memoria para los tests de sync.
type fakeLocalStore struct {
	mu    stdsync.Mutex
	items map[string]*entity.Quote
}

func newFakeLocalStore() *fakeLocalStore {
	return &fakeLocalStore{items: make(map[string]*entity.Quote)}
}

func (r *fakeLocalStore) Create(_ context.Context, q *entity.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *q
	r.items[q.ID] = &cp
	return nil
}

func (r *fakeLocalStore) GetByID(_ context.Context, id string) (*entity.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (r *fakeLocalStore) List(_ context.Context) ([]*entity.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Quote, 0, len(r.items))
	for _, q := range r.items {
		cp := *q
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeLocalStore) ListByStatuses(ctx context.Context, statuses []entity.Status) ([]*entity.Quote, error) {
	all, _ := r.List(ctx)
	if len(statuses) == 0 {
		return all, nil
	}
	var out []*entity.Quote
	for _, q := range all {
		for _, s := range statuses {
			if q.Status == s {
				out = append(out, q)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeLocalStore) Update(_ context.Context, q *entity.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *q
	r.items[q.ID] = &cp
	return nil
}

func (r *fakeLocalStore) ListPendingSync(_ context.Context, limit int) ([]*entity.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Quote
	for _, q := range r.items {
		if !q.PendingSync {
			continue
		}
		cp := *q
		out = append(out, &cp)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeLocalStore) MarkSynced(_ context.Context, id string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.items[id]; ok {
		q.PendingSync = false
	}
	return nil
}

func cotizacion(id string, status entity.Status, pending bool) *entity.Quote {
	now := time.Now()
	return &entity.Quote{
		ID:           id,
		Status:       status,
		ClienteName:  "Cliente " + id,
		TotalGeneral: decimal.NewFromInt(1000000),
		TRMGlobal:    decimal.NewFromInt(4000),
		PendingSync:  pending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconcile
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_Convergentes_InformeLimpio(t *testing.T) {
	ctx := context.Background()
	local := newFakeLocalStore()
	remote := memory.NewQuoteRepository()

	for _, id := range []string{"q-1", "q-2"} {
		q := cotizacion(id, entity.StatusAprobada, false)
		require.NoError(t, local.Create(ctx, q))
		require.NoError(t, remote.Upsert(ctx, q))
	}

	r := appsync.NewReconciler(local, remote, logger.Nop())
	report, err := r.Reconcile(ctx)
	require.NoError(t, err)

	assert.True(t, report.Clean(), "sin divergencias el informe debe estar limpio")
	assert.Equal(t, 2, report.LocalCount)
	assert.Equal(t, 2, report.RemoteCount)
	assert.Empty(t, report.SinEstado)
}

func TestReconcile_DetectaTodasLasDiscrepancias(t *testing.T) {
	ctx := context.Background()
	local := newFakeLocalStore()
	remote := memory.NewQuoteRepository()

	// q-solo-local existe únicamente en local.
	require.NoError(t, local.Create(ctx, cotizacion("q-solo-local", entity.StatusBorrador, true)))
	// q-solo-remota existe únicamente en el espejo.
	require.NoError(t, remote.Upsert(ctx, cotizacion("q-solo-remota", entity.StatusAprobada, false)))
	// q-divergente tiene estados distintos en cada lado.
	require.NoError(t, local.Create(ctx, cotizacion("q-divergente", entity.StatusAprobada, false)))
	require.NoError(t, remote.Upsert(ctx, cotizacion("q-divergente", entity.StatusPendiente, false)))
	// q-rara tiene un estado crudo que no mapea a ningún estado canónico.
	require.NoError(t, local.Create(ctx, cotizacion("q-rara", entity.StatusSinEstado, false)))
	require.NoError(t, remote.Upsert(ctx, cotizacion("q-rara", entity.StatusSinEstado, false)))

	r := appsync.NewReconciler(local, remote, logger.Nop())
	report, err := r.Reconcile(ctx)
	require.NoError(t, err)

	assert.False(t, report.Clean())
	assert.Equal(t, []string{"q-solo-local"}, report.MissingInRemote)
	assert.Equal(t, []string{"q-solo-remota"}, report.MissingInLocal)
	require.Len(t, report.StatusMismatches, 1)
	assert.Equal(t, "q-divergente", report.StatusMismatches[0].ID)
	assert.Equal(t, string(entity.StatusAprobada), report.StatusMismatches[0].LocalStatus)
	assert.Equal(t, string(entity.StatusPendiente), report.StatusMismatches[0].RemoteStatus)
	assert.Equal(t, []string{"q-rara"}, report.SinEstado,
		"el estado no canónico se reporta como diagnóstico, nunca se corrige solo")
}

// La reconciliación es de solo lectura: dos corridas consecutivas sin
// escrituras intermedias producen el mismo informe.
func TestReconcile_Idempotente(t *testing.T) {
	ctx := context.Background()
	local := newFakeLocalStore()
	remote := memory.NewQuoteRepository()

	require.NoError(t, local.Create(ctx, cotizacion("q-1", entity.StatusPendiente, true)))
	require.NoError(t, remote.Upsert(ctx, cotizacion("q-2", entity.StatusAprobada, false)))

	r := appsync.NewReconciler(local, remote, logger.Nop())
	first, err := r.Reconcile(ctx)
	require.NoError(t, err)
	second, err := r.Reconcile(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.MissingInRemote, second.MissingInRemote)
	assert.Equal(t, first.MissingInLocal, second.MissingInLocal)
	assert.Equal(t, first.StatusMismatches, second.StatusMismatches)
	assert.Equal(t, first.SinEstado, second.SinEstado)
	assert.Equal(t, first.LocalCount, second.LocalCount)
	assert.Equal(t, first.RemoteCount, second.RemoteCount)
}

// ──────────────────────────────────────────────────────────────────────────────
// PullRemote
// ──────────────────────────────────────────────────────────────────────────────

func TestPullRemote_ImportaYNormalizaEstadosLegados(t *testing.T) {
	ctx := context.Background()
	local := newFakeLocalStore()
	remote := memory.NewQuoteRepository()

	// Registro remoto con un sinónimo legado del estado pendiente.
	legada := cotizacion("q-legada", entity.Status("sent_for_approval"), false)
	require.NoError(t, remote.Upsert(ctx, legada))
	// Registro ya presente en local: no debe duplicarse.
	existente := cotizacion("q-existente", entity.StatusAprobada, false)
	require.NoError(t, local.Create(ctx, existente))
	require.NoError(t, remote.Upsert(ctx, existente))

	r := appsync.NewReconciler(local, remote, logger.Nop())
	imported, err := r.PullRemote(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	traida, err := local.GetByID(ctx, "q-legada")
	require.NoError(t, err)
	require.NotNil(t, traida)
	assert.Equal(t, entity.StatusPendiente, traida.Status,
		"el estado crudo remoto se normaliza en la frontera de importación")
	assert.False(t, traida.PendingSync,
		"lo importado del remoto no queda pendiente de volver a empujarse")

	// Segunda corrida: ya no hay nada que importar.
	imported, err = r.PullRemote(ctx)
	require.NoError(t, err)
	assert.Zero(t, imported)
}
