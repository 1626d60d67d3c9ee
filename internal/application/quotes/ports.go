package quotes

import (
	"context"

	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
)

// SyncScheduler agenda el push asíncrono de un registro al espejo remoto.
// Schedule nunca bloquea: el worker de sincronización drena los pendientes a
// su propio ritmo y la transición local no espera por la red.
type SyncScheduler interface {
	Schedule(id string)
}

// NopScheduler descarta las señales de sincronización. Útil en tests y en la
// CLI de diagnóstico, donde el push corre bajo demanda.
type NopScheduler struct{}

// Schedule no hace nada.
func (NopScheduler) Schedule(string) {}

// QuotePDFGenerator genera la representación PDF de una cotización.
// Lo implementa infrastructure/pdf; la interfaz vive aquí para invertir la
// dependencia.
type QuotePDFGenerator interface {
	GenerateQuotePDF(ctx context.Context, q *entity.Quote, companyName string) ([]byte, error)
}
