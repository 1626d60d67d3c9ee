package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cotizador-pro/internal/domain"
	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
	"github.com/tu-usuario/cotizador-pro/internal/domain/repository"
)

var _ repository.QuoteLocalRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación del puerto QuoteLocalRepository sobre SQLite.
// El estado se guarda tal como llega (los datos históricos pueden traer
// sinónimos legados) y se normaliza al enum canónico en cada lectura.
type QuoteRepo struct {
	db *sql.DB
}

// NewQuoteRepository construye el adaptador del almacén local.
func NewQuoteRepository(db *sql.DB) *QuoteRepo {
	return &QuoteRepo{db: db}
}

const quoteColumns = `id, status, cliente_name, vendor_name, vendor_email,
	total_general, trm_global, rejection_reason, pending_sync, created_at, updated_at`

// Create persiste una cotización nueva con sus filas.
func (r *QuoteRepo) Create(ctx context.Context, q *entity.Quote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO quotes (`+quoteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, string(q.Status), q.ClienteName, q.VendorName, q.VendorEmail,
		q.TotalGeneral.String(), q.TRMGlobal.String(), q.RejectionReason,
		boolToInt(q.PendingSync), q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	if err := insertRows(ctx, tx, q.ID, q.Rows); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByID obtiene una cotización con sus filas. Devuelve nil, nil si no existe.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = ?`, id)
	q, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote by id: %w", err)
	}
	rows, err := r.loadRows(ctx, r.db, q.ID)
	if err != nil {
		return nil, err
	}
	q.Rows = rows
	return q, nil
}

// List devuelve todas las cotizaciones en un snapshot consistente: la lectura
// corre dentro de una transacción de solo lectura, así un List concurrente con
// una transición nunca observa un cambio aplicado a medias.
func (r *QuoteRepo) List(ctx context.Context) ([]*entity.Quote, error) {
	return r.listWhere(ctx, "", nil)
}

// ListByStatuses filtra por estados canónicos. El predicado SQL expande cada
// estado canónico a sus literales crudos sinónimos, de modo que los datos
// legados caen en la clase semántica correcta sin migrarlos.
func (r *QuoteRepo) ListByStatuses(ctx context.Context, statuses []entity.Status) ([]*entity.Quote, error) {
	if len(statuses) == 0 {
		return r.List(ctx)
	}
	raws := expandRawLiterals(statuses)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(raws)), ", ")
	args := make([]any, len(raws))
	for i, s := range raws {
		args[i] = s
	}
	return r.listWhere(ctx, `WHERE LOWER(TRIM(status)) IN (`+placeholders+`)`, args)
}

func (r *QuoteRepo) listWhere(ctx context.Context, where string, args []any) ([]*entity.Quote, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin read tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT ` + quoteColumns + ` FROM quotes ` + where + ` ORDER BY created_at DESC`
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	var list []*entity.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, q := range list {
		qr, err := r.loadRows(ctx, tx, q.ID)
		if err != nil {
			return nil, err
		}
		q.Rows = qr
	}
	return list, tx.Commit()
}

// Update reemplaza la cabecera y las filas de la cotización.
func (r *QuoteRepo) Update(ctx context.Context, q *entity.Quote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE quotes SET status = ?, cliente_name = ?, vendor_name = ?, vendor_email = ?,
			total_general = ?, trm_global = ?, rejection_reason = ?, pending_sync = ?, updated_at = ?
		WHERE id = ?`,
		string(q.Status), q.ClienteName, q.VendorName, q.VendorEmail,
		q.TotalGeneral.String(), q.TRMGlobal.String(), q.RejectionReason,
		boolToInt(q.PendingSync), q.UpdatedAt, q.ID,
	)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("quote %s: %w", q.ID, domain.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM quote_rows WHERE quote_id = ?`, q.ID); err != nil {
		return fmt.Errorf("delete quote rows: %w", err)
	}
	if err := insertRows(ctx, tx, q.ID, q.Rows); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListPendingSync devuelve registros pendientes de push, los más antiguos
// primero.
func (r *QuoteRepo) ListPendingSync(ctx context.Context, limit int) ([]*entity.Quote, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+quoteColumns+` FROM quotes
		WHERE pending_sync = 1 ORDER BY updated_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending sync: %w", err)
	}
	defer rows.Close()

	var list []*entity.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, q := range list {
		qr, err := r.loadRows(ctx, r.db, q.ID)
		if err != nil {
			return nil, err
		}
		q.Rows = qr
	}
	return list, nil
}

// MarkSynced limpia el flag de sincronización pendiente.
func (r *QuoteRepo) MarkSynced(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE quotes SET pending_sync = 0, synced_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// querier cubre *sql.DB y *sql.Tx para reusar las lecturas de filas.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(s rowScanner) (*entity.Quote, error) {
	var q entity.Quote
	var status, total, trm string
	var pendingSync int
	if err := s.Scan(
		&q.ID, &status, &q.ClienteName, &q.VendorName, &q.VendorEmail,
		&total, &trm, &q.RejectionReason, &pendingSync, &q.CreatedAt, &q.UpdatedAt,
	); err != nil {
		return nil, err
	}
	q.Status = entity.NormalizeStatus(status)
	q.TotalGeneral = mustDecimal(total)
	q.TRMGlobal = mustDecimal(trm)
	q.PendingSync = pendingSync != 0
	return &q, nil
}

func (r *QuoteRepo) loadRows(ctx context.Context, db querier, quoteID string) ([]entity.QuoteRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, descripcion, cantidad, costo_usd, precio_cop, trm
		FROM quote_rows WHERE quote_id = ? ORDER BY position ASC`, quoteID)
	if err != nil {
		return nil, fmt.Errorf("load quote rows: %w", err)
	}
	defer rows.Close()

	var out []entity.QuoteRow
	for rows.Next() {
		var qr entity.QuoteRow
		var cantidad, costo, precio, trm string
		if err := rows.Scan(&qr.ID, &qr.Descripcion, &cantidad, &costo, &precio, &trm); err != nil {
			return nil, fmt.Errorf("scan quote row: %w", err)
		}
		qr.Cantidad = mustDecimal(cantidad)
		qr.CostoUSD = mustDecimal(costo)
		qr.PrecioCOP = mustDecimal(precio)
		qr.TRM = mustDecimal(trm)
		out = append(out, qr)
	}
	return out, rows.Err()
}

func insertRows(ctx context.Context, tx *sql.Tx, quoteID string, rows []entity.QuoteRow) error {
	for i, qr := range rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO quote_rows (id, quote_id, position, descripcion, cantidad, costo_usd, precio_cop, trm)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			qr.ID, quoteID, i, qr.Descripcion,
			qr.Cantidad.String(), qr.CostoUSD.String(), qr.PrecioCOP.String(), qr.TRM.String(),
		)
		if err != nil {
			return fmt.Errorf("insert quote row: %w", err)
		}
	}
	return nil
}

// expandRawLiterals traduce estados canónicos a los literales crudos que
// pueden existir en la columna status, incluyendo los sinónimos legados de
// "pendiente".
func expandRawLiterals(statuses []entity.Status) []string {
	var out []string
	for _, s := range statuses {
		if s == entity.StatusPendiente {
			out = append(out, "pending", "pending_approval", "sent_for_approval")
			continue
		}
		out = append(out, string(s))
	}
	return out
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
