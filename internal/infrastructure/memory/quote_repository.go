// Package memory implementa el espejo remoto en memoria. Útil para tests y
// para desarrollo sin infraestructura; es seguro para uso concurrente.
package memory

import (
	"context"
	"sync"

	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
	"github.com/tu-usuario/cotizador-pro/internal/domain/repository"
)

var _ repository.QuoteRemoteRepository = (*QuoteRepo)(nil)

// QuoteRepo espejo remoto en memoria, indexado por id.
type QuoteRepo struct {
	mu     sync.RWMutex
	quotes map[string]entity.Quote
	// FailUpserts simula un remoto caído: mientras sea true todo Upsert
	// falla. Los tests del worker de sincronización lo usan para verificar
	// reintentos.
	failUpserts bool
	upserts     int
}

// NewQuoteRepository construye el espejo en memoria.
func NewQuoteRepository() *QuoteRepo {
	return &QuoteRepo{quotes: make(map[string]entity.Quote)}
}

// SetFailUpserts activa o desactiva el modo de fallo simulado.
func (r *QuoteRepo) SetFailUpserts(fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failUpserts = fail
}

// UpsertCount devuelve cuántos Upsert exitosos se han aplicado.
func (r *QuoteRepo) UpsertCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.upserts
}

// Upsert crea o reemplaza el registro (copia defensiva de las filas).
func (r *QuoteRepo) Upsert(ctx context.Context, q *entity.Quote) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpserts {
		return errRemoteDown
	}
	r.quotes[q.ID] = cloneQuote(q)
	r.upserts++
	return nil
}

// GetByID devuelve nil, nil si el registro no existe.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.quotes[id]
	if !ok {
		return nil, nil
	}
	out := cloneQuote(&q)
	return &out, nil
}

// List devuelve todos los registros.
func (r *QuoteRepo) List(ctx context.Context) ([]*entity.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Quote, 0, len(r.quotes))
	for _, q := range r.quotes {
		c := cloneQuote(&q)
		out = append(out, &c)
	}
	return out, nil
}

func cloneQuote(q *entity.Quote) entity.Quote {
	c := *q
	c.Rows = make([]entity.QuoteRow, len(q.Rows))
	copy(c.Rows, q.Rows)
	return c
}
