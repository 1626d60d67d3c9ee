package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// NormalizeStatus: colapso de sinónimos legados y clasificación sin_estado
// ──────────────────────────────────────────────────────────────────────────────

// Los datos históricos acumularon tres literales sinónimos para "pendiente".
// La normalización debe colapsarlos todos en el estado canónico único.
func TestNormalizeStatus_SinonimosPendiente(t *testing.T) {
	for _, raw := range []string{"pending", "pending_approval", "sent_for_approval"} {
		assert.Equal(t, entity.StatusPendiente, entity.NormalizeStatus(raw),
			"el sinónimo %q debe normalizar a pending_approval", raw)
	}
}

func TestNormalizeStatus_CanonicosPasanIntactos(t *testing.T) {
	casos := map[string]entity.Status{
		"draft":    entity.StatusBorrador,
		"approved": entity.StatusAprobada,
		"rejected": entity.StatusRechazada,
		"revision": entity.StatusRevision,
	}
	for raw, want := range casos {
		assert.Equal(t, want, entity.NormalizeStatus(raw))
	}
}

// Estado vacío o desconocido se clasifica como sin_estado: categoría de
// diagnóstico, nunca un estado de negocio.
func TestNormalizeStatus_DesconocidoEsSinEstado(t *testing.T) {
	for _, raw := range []string{"", "   ", "enviado", "PENDIENTE?", "null"} {
		got := entity.NormalizeStatus(raw)
		assert.Equal(t, entity.StatusSinEstado, got, "raw=%q", raw)
		assert.False(t, got.IsCanonical(), "sin_estado no debe ser canónico")
	}
}

// La normalización es insensible a mayúsculas y espacios alrededor.
func TestNormalizeStatus_MayusculasYEspacios(t *testing.T) {
	assert.Equal(t, entity.StatusPendiente, entity.NormalizeStatus("  Sent_For_Approval "))
	assert.Equal(t, entity.StatusAprobada, entity.NormalizeStatus("APPROVED"))
}

func TestStatus_Terminales(t *testing.T) {
	assert.True(t, entity.StatusAprobada.IsTerminal())
	assert.True(t, entity.StatusRechazada.IsTerminal())
	assert.False(t, entity.StatusPendiente.IsTerminal())
	assert.False(t, entity.StatusBorrador.IsTerminal())
	assert.False(t, entity.StatusRevision.IsTerminal())
}
