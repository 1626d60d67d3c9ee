package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
	"github.com/tu-usuario/cotizador-pro/internal/domain/repository"
)

var _ repository.QuoteRemoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación del espejo remoto sobre PostgreSQL.
//
// Esquema esperado:
//
//	CREATE TABLE cotizaciones (
//	    id               TEXT PRIMARY KEY,
//	    status           TEXT NOT NULL,
//	    cliente_name     TEXT NOT NULL,
//	    vendor_name      TEXT NOT NULL DEFAULT '',
//	    vendor_email     TEXT NOT NULL DEFAULT '',
//	    rows             JSONB NOT NULL DEFAULT '[]',
//	    total_general    NUMERIC NOT NULL DEFAULT 0,
//	    trm_global       NUMERIC NOT NULL DEFAULT 0,
//	    rejection_reason TEXT NOT NULL DEFAULT '',
//	    created_at       TIMESTAMPTZ NOT NULL,
//	    updated_at       TIMESTAMPTZ NOT NULL
//	);
//
// Las filas viajan como JSONB: el remoto es un espejo, no reinterpreta el
// contenido.
type QuoteRepo struct {
	pool *pgxpool.Pool
}

// NewQuoteRepository construye el adaptador remoto.
func NewQuoteRepository(pool *pgxpool.Pool) *QuoteRepo {
	return &QuoteRepo{pool: pool}
}

// rowJSON es la forma serializada de una línea en la columna rows.
type rowJSON struct {
	ID          string          `json:"id"`
	Descripcion string          `json:"descripcion"`
	Cantidad    decimal.Decimal `json:"cantidad"`
	CostoUSD    decimal.Decimal `json:"costo_usd"`
	PrecioCOP   decimal.Decimal `json:"precio_cop"`
	TRM         decimal.Decimal `json:"trm"`
}

// Upsert crea o reemplaza el registro remoto. Idempotente: empujar dos veces
// el mismo estado deja la fila igual.
func (r *QuoteRepo) Upsert(ctx context.Context, q *entity.Quote) error {
	rowsPayload, err := marshalRows(q.Rows)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO cotizaciones (id, status, cliente_name, vendor_name, vendor_email,
			rows, total_general, trm_global, rejection_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			cliente_name = EXCLUDED.cliente_name,
			vendor_name = EXCLUDED.vendor_name,
			vendor_email = EXCLUDED.vendor_email,
			rows = EXCLUDED.rows,
			total_general = EXCLUDED.total_general,
			trm_global = EXCLUDED.trm_global,
			rejection_reason = EXCLUDED.rejection_reason,
			updated_at = EXCLUDED.updated_at`,
		q.ID, string(q.Status), q.ClienteName, q.VendorName, q.VendorEmail,
		rowsPayload, q.TotalGeneral, q.TRMGlobal, q.RejectionReason,
		q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert cotización remota: %w", err)
	}
	return nil
}

// GetByID obtiene un registro remoto. Devuelve nil, nil si no existe.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, status, cliente_name, vendor_name, vendor_email,
			rows, total_general, trm_global, rejection_reason, created_at, updated_at
		FROM cotizaciones WHERE id = $1`, id)
	q, err := scanRemoteQuote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cotización remota: %w", err)
	}
	return q, nil
}

// List devuelve todos los registros remotos.
func (r *QuoteRepo) List(ctx context.Context) ([]*entity.Quote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, status, cliente_name, vendor_name, vendor_email,
			rows, total_general, trm_global, rejection_reason, created_at, updated_at
		FROM cotizaciones ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list cotizaciones remotas: %w", err)
	}
	defer rows.Close()

	var list []*entity.Quote
	for rows.Next() {
		q, err := scanRemoteQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cotización remota: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

func scanRemoteQuote(row pgx.Row) (*entity.Quote, error) {
	var q entity.Quote
	var status string
	var rowsPayload []byte
	if err := row.Scan(
		&q.ID, &status, &q.ClienteName, &q.VendorName, &q.VendorEmail,
		&rowsPayload, &q.TotalGeneral, &q.TRMGlobal, &q.RejectionReason,
		&q.CreatedAt, &q.UpdatedAt,
	); err != nil {
		return nil, err
	}
	q.Status = entity.NormalizeStatus(status)
	var rj []rowJSON
	if len(rowsPayload) > 0 {
		if err := json.Unmarshal(rowsPayload, &rj); err != nil {
			return nil, fmt.Errorf("decodificar filas remotas: %w", err)
		}
	}
	q.Rows = make([]entity.QuoteRow, 0, len(rj))
	for _, r := range rj {
		q.Rows = append(q.Rows, entity.QuoteRow{
			ID:          r.ID,
			Descripcion: r.Descripcion,
			Cantidad:    r.Cantidad,
			CostoUSD:    r.CostoUSD,
			PrecioCOP:   r.PrecioCOP,
			TRM:         r.TRM,
		})
	}
	return &q, nil
}

func marshalRows(rows []entity.QuoteRow) ([]byte, error) {
	rj := make([]rowJSON, 0, len(rows))
	for _, r := range rows {
		rj = append(rj, rowJSON{
			ID:          r.ID,
			Descripcion: r.Descripcion,
			Cantidad:    r.Cantidad,
			CostoUSD:    r.CostoUSD,
			PrecioCOP:   r.PrecioCOP,
			TRM:         r.TRM,
		})
	}
	payload, err := json.Marshal(rj)
	if err != nil {
		return nil, fmt.Errorf("serializar filas: %w", err)
	}
	return payload, nil
}
