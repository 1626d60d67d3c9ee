package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/cotizador-pro/internal/domain"
	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
	"github.com/tu-usuario/cotizador-pro/internal/infrastructure/sqlite"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err, "abrir SQLite en memoria con migraciones aplicadas")
	t.Cleanup(func() { db.Close() })
	return db
}

func nuevaCotizacion(status entity.Status) *entity.Quote {
	now := time.Now().UTC().Truncate(time.Second)
	q := &entity.Quote{
		ID:          uuid.New().String(),
		Status:      status,
		ClienteName: "Obras del Norte SAS",
		VendorName:  "Carlos Vendedor",
		VendorEmail: "carlos@acme.co",
		Rows: []entity.QuoteRow{
			{
				ID:          uuid.New().String(),
				Descripcion: "Cemento gris 50kg",
				Cantidad:    decimal.NewFromInt(100),
				CostoUSD:    decimal.NewFromFloat(6.25),
				PrecioCOP:   decimal.NewFromInt(25000),
				TRM:         decimal.NewFromInt(4000),
			},
			{
				ID:          uuid.New().String(),
				Descripcion: "Varilla corrugada 3/8",
				Cantidad:    decimal.NewFromInt(40),
				CostoUSD:    decimal.NewFromFloat(4.5),
				PrecioCOP:   decimal.NewFromInt(18000),
				TRM:         decimal.NewFromInt(4000),
			},
		},
		TRMGlobal:   decimal.NewFromInt(4000),
		PendingSync: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	q.RecalcTotal()
	return q
}

// insertarCruda inserta una cotización directamente con el literal de estado
// dado, simulando datos históricos escritos por versiones anteriores.
func insertarCruda(t *testing.T, db *sql.DB, id, rawStatus string) {
	t.Helper()
	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO quotes (id, status, cliente_name, total_general, trm_global, pending_sync, created_at, updated_at)
		VALUES (?, ?, ?, '100000', '4000', 0, ?, ?)`,
		id, rawStatus, "Cliente "+id, now, now)
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestQuoteRepo_CreateYGetByID(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewQuoteRepository(db)
	ctx := context.Background()

	q := nuevaCotizacion(entity.StatusBorrador)
	require.NoError(t, repo.Create(ctx, q))

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, q.ID, got.ID)
	assert.Equal(t, entity.StatusBorrador, got.Status)
	assert.Equal(t, q.ClienteName, got.ClienteName)
	assert.True(t, got.PendingSync)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "Cemento gris 50kg", got.Rows[0].Descripcion,
		"las filas conservan su orden de inserción")
	assert.True(t, got.TotalGeneral.Equal(q.TotalGeneral),
		"los decimales sobreviven el viaje por TEXT sin perder precisión")
	assert.True(t, got.Rows[0].CostoUSD.Equal(decimal.NewFromFloat(6.25)))
}

func TestQuoteRepo_GetByID_Inexistente_NilNil(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewQuoteRepository(db)

	got, err := repo.GetByID(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.Nil(t, got, "ausencia no es error: nil, nil")
}

func TestQuoteRepo_Update_ReemplazaFilas(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewQuoteRepository(db)
	ctx := context.Background()

	q := nuevaCotizacion(entity.StatusBorrador)
	require.NoError(t, repo.Create(ctx, q))

	q.Status = entity.StatusPendiente
	q.Rows = q.Rows[:1]
	q.RecalcTotal()
	q.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, q))

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendiente, got.Status)
	assert.Len(t, got.Rows, 1, "las filas viejas se reemplazan, no se acumulan")
}

func TestQuoteRepo_Update_Inexistente_Error(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewQuoteRepository(db)

	q := nuevaCotizacion(entity.StatusBorrador)
	err := repo.Update(context.Background(), q)
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"actualizar un id ausente debe reportar no encontrado, no un error interno")
}

// ──────────────────────────────────────────────────────────────────────────────
// Filtrado con datos legados
// ──────────────────────────────────────────────────────────────────────────────

// La columna status puede traer cualquiera de los tres sinónimos legados de
// "pendiente". El filtro debe capturarlos todos y la lectura normalizarlos.
func TestListByStatuses_CapturaSinonimosLegados(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewQuoteRepository(db)
	ctx := context.Background()

	insertarCruda(t, db, "q-pending", "pending")
	insertarCruda(t, db, "q-sent", "sent_for_approval")
	insertarCruda(t, db, "q-canonica", "pending_approval")
	insertarCruda(t, db, "q-aprobada", "approved")
	insertarCruda(t, db, "q-mayusculas", "  PENDING  ")
	insertarCruda(t, db, "q-rara", "???")

	pendientes, err := repo.ListByStatuses(ctx, []entity.Status{entity.StatusPendiente})
	require.NoError(t, err)
	require.Len(t, pendientes, 4,
		"los tres sinónimos más la variante con mayúsculas y espacios cuentan como pendientes")
	for _, q := range pendientes {
		assert.Equal(t, entity.StatusPendiente, q.Status,
			"la lectura normaliza el literal crudo al estado canónico")
	}

	aprobadas, err := repo.ListByStatuses(ctx, []entity.Status{entity.StatusAprobada})
	require.NoError(t, err)
	require.Len(t, aprobadas, 1)
	assert.Equal(t, "q-aprobada", aprobadas[0].ID)
}

func TestList_NormalizaEstadosDesconocidos(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewQuoteRepository(db)

	insertarCruda(t, db, "q-rara", "estado_inventado")
	insertarCruda(t, db, "q-vacia", "")

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, q := range all {
		assert.Equal(t, entity.StatusSinEstado, q.Status,
			"un literal desconocido clasifica como sin_estado, nunca se inventa otro")
	}
}

func TestListByStatuses_Vacio_EquivaleATodas(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewQuoteRepository(db)
	ctx := context.Background()

	insertarCruda(t, db, "q-1", "draft")
	insertarCruda(t, db, "q-2", "approved")

	all, err := repo.ListByStatuses(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sincronización pendiente
// ──────────────────────────────────────────────────────────────────────────────

func TestListPendingSyncYMarkSynced(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewQuoteRepository(db)
	ctx := context.Background()

	q1 := nuevaCotizacion(entity.StatusBorrador)
	q2 := nuevaCotizacion(entity.StatusPendiente)
	q2.PendingSync = false
	require.NoError(t, repo.Create(ctx, q1))
	require.NoError(t, repo.Create(ctx, q2))

	pendientes, err := repo.ListPendingSync(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pendientes, 1)
	assert.Equal(t, q1.ID, pendientes[0].ID)

	require.NoError(t, repo.MarkSynced(ctx, q1.ID, time.Now()))

	pendientes, err = repo.ListPendingSync(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pendientes, "tras el push exitoso no queda nada pendiente")

	got, err := repo.GetByID(ctx, q1.ID)
	require.NoError(t, err)
	assert.False(t, got.PendingSync)
}
