package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteRow es una línea de una cotización. Los costos se manejan en USD y los
// precios en COP; TRM es la tasa de cambio usada para derivar el valor COP.
type QuoteRow struct {
	ID          string
	Descripcion string
	Cantidad    decimal.Decimal
	CostoUSD    decimal.Decimal // costo unitario en USD
	PrecioCOP   decimal.Decimal // precio unitario en COP
	TRM         decimal.Decimal // tasa USD→COP aplicada a esta línea
}

// SubtotalCOP devuelve Cantidad × PrecioCOP.
func (r QuoteRow) SubtotalCOP() decimal.Decimal {
	return r.Cantidad.Mul(r.PrecioCOP)
}

// Quote representa una cotización: documento de propuesta de precios ligado a
// un cliente y un vendedor, con su estado dentro del flujo de aprobación.
type Quote struct {
	ID              string
	Status          Status
	ClienteName     string
	VendorName      string
	VendorEmail     string
	Rows            []QuoteRow
	TotalGeneral    decimal.Decimal // total agregado en COP
	TRMGlobal       decimal.Decimal // snapshot de la tasa usada para el total
	RejectionReason string          // motivo obligatorio al rechazar
	PendingSync     bool            // true si el espejo remoto aún no refleja este registro
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RecalcTotal recalcula TotalGeneral a partir de las filas.
func (q *Quote) RecalcTotal() {
	total := decimal.Zero
	for _, r := range q.Rows {
		total = total.Add(r.SubtotalCOP())
	}
	q.TotalGeneral = total
}

// CanSubmit reporta si la cotización cumple los requisitos mínimos para ser
// enviada a aprobación: al menos una fila y total mayor que cero.
func (q *Quote) CanSubmit() bool {
	return len(q.Rows) > 0 && q.TotalGeneral.IsPositive()
}

// Editable reporta si las filas pueden modificarse. Una vez enviada a
// aprobación, la secuencia de filas es inmutable salvo que un revisor la
// devuelva a revisión.
func (q *Quote) Editable() bool {
	return q.Status == StatusBorrador || q.Status == StatusRevision
}
