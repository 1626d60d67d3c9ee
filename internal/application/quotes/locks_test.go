package quotes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteLocks_SegundoLlamadorNoEspera(t *testing.T) {
	l := newQuoteLocks()

	release, ok := l.tryAcquire("q-1")
	require.True(t, ok)

	_, ok = l.tryAcquire("q-1")
	assert.False(t, ok, "el lock tomado debe rechazar al segundo llamador")

	_, ok2 := l.tryAcquire("q-2")
	assert.True(t, ok2, "ids distintos no compiten entre sí")

	release()
	release2, ok := l.tryAcquire("q-1")
	require.True(t, ok, "tras liberar, el id vuelve a estar disponible")
	release2()
}

func TestQuoteLocks_LiberarEliminaLaEntrada(t *testing.T) {
	l := newQuoteLocks()

	for _, id := range []string{"q-1", "q-2", "q-3"} {
		release, ok := l.tryAcquire(id)
		require.True(t, ok)
		release()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.held, "sin operaciones en curso el mapa debe quedar vacío")
}
