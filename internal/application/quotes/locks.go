package quotes

import "sync"

// quoteLocks serializa transiciones por id de cotización. Un solo escritor
// lógico por cotización: el segundo llamador concurrente no espera, recibe
// ErrConflict desde el use case. Las entradas se eliminan al liberar, así que
// el mapa solo contiene las cotizaciones con una operación en curso.
type quoteLocks struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newQuoteLocks() *quoteLocks {
	return &quoteLocks{held: make(map[string]struct{})}
}

// tryAcquire intenta tomar el lock de la cotización sin bloquear. Si lo
// consigue devuelve la función de liberación y true.
func (l *quoteLocks) tryAcquire(id string) (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[id]; ok {
		return nil, false
	}
	l.held[id] = struct{}{}
	release := func() {
		l.mu.Lock()
		delete(l.held, id)
		l.mu.Unlock()
	}
	return release, true
}
