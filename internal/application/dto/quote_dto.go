package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
)

// QuoteRowRequest una línea de cotización en un request.
type QuoteRowRequest struct {
	Descripcion string          `json:"descripcion" validate:"required,max=500"`
	Cantidad    decimal.Decimal `json:"cantidad" validate:"required"`
	CostoUSD    decimal.Decimal `json:"costo_usd"`
	PrecioCOP   decimal.Decimal `json:"precio_cop" validate:"required"`
	TRM         decimal.Decimal `json:"trm"`
}

// CreateQuoteRequest entrada para crear una cotización (nace en borrador).
type CreateQuoteRequest struct {
	ClienteName string            `json:"cliente_name" validate:"required,max=300"`
	VendorName  string            `json:"vendor_name" validate:"omitempty,max=300"`
	VendorEmail string            `json:"vendor_email" validate:"omitempty,email"`
	TRMGlobal   decimal.Decimal   `json:"trm_global"`
	Rows        []QuoteRowRequest `json:"rows"`
}

// UpdateRowsRequest reemplaza las filas de una cotización editable.
type UpdateRowsRequest struct {
	TRMGlobal decimal.Decimal   `json:"trm_global"`
	Rows      []QuoteRowRequest `json:"rows" validate:"required"`
}

// RejectRequest entrada para rechazar: el motivo es obligatorio.
type RejectRequest struct {
	Motivo string `json:"motivo" validate:"required,max=1000"`
}

// QuoteRowResponse salida de una línea.
type QuoteRowResponse struct {
	ID          string          `json:"id"`
	Descripcion string          `json:"descripcion"`
	Cantidad    decimal.Decimal `json:"cantidad"`
	CostoUSD    decimal.Decimal `json:"costo_usd"`
	PrecioCOP   decimal.Decimal `json:"precio_cop"`
	TRM         decimal.Decimal `json:"trm"`
	SubtotalCOP decimal.Decimal `json:"subtotal_cop"`
}

// QuoteResponse salida de una cotización.
type QuoteResponse struct {
	ID              string             `json:"id"`
	Status          string             `json:"status"`
	ClienteName     string             `json:"cliente_name"`
	VendorName      string             `json:"vendor_name"`
	VendorEmail     string             `json:"vendor_email"`
	Rows            []QuoteRowResponse `json:"rows"`
	TotalGeneral    decimal.Decimal    `json:"total_general"`
	TRMGlobal       decimal.Decimal    `json:"trm_global"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	PendingSync     bool               `json:"pending_sync"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// QuoteListResponse salida de un listado filtrado.
type QuoteListResponse struct {
	Filtro string          `json:"filtro"`
	Total  int             `json:"total"`
	Quotes []QuoteResponse `json:"quotes"`
}

// ToQuoteResponse convierte la entidad a su DTO de salida.
func ToQuoteResponse(q *entity.Quote) QuoteResponse {
	rows := make([]QuoteRowResponse, 0, len(q.Rows))
	for _, r := range q.Rows {
		rows = append(rows, QuoteRowResponse{
			ID:          r.ID,
			Descripcion: r.Descripcion,
			Cantidad:    r.Cantidad,
			CostoUSD:    r.CostoUSD,
			PrecioCOP:   r.PrecioCOP,
			TRM:         r.TRM,
			SubtotalCOP: r.SubtotalCOP(),
		})
	}
	return QuoteResponse{
		ID:              q.ID,
		Status:          string(q.Status),
		ClienteName:     q.ClienteName,
		VendorName:      q.VendorName,
		VendorEmail:     q.VendorEmail,
		Rows:            rows,
		TotalGeneral:    q.TotalGeneral,
		TRMGlobal:       q.TRMGlobal,
		RejectionReason: q.RejectionReason,
		PendingSync:     q.PendingSync,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}
